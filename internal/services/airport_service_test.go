package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/flight-docs-api/internal/rbac"
)

func TestAirportService_CRUD(t *testing.T) {
	env := setupServiceTestEnv(t)
	ops := env.actor(t, env.createUser(t, "ops@vietjetair.com", rbac.RoleGroundOps))
	crew := env.actor(t, env.createUser(t, "crew@vietjetair.com", rbac.RoleCrew))

	input := AirportInput{Name: "Da Nang", Code: " dad ", RunwayCount: 2, RunwayType: "asphalt", IsOperational: true, Level: "4E"}

	_, err := env.airports.CreateAirport(crew, input)
	assert.ErrorIs(t, err, rbac.ErrNotPermitted)

	airport, err := env.airports.CreateAirport(ops, input)
	require.NoError(t, err)
	assert.Equal(t, "DAD", airport.Code)

	_, err = env.airports.CreateAirport(ops, AirportInput{Name: "Duplicate", Code: "DAD"})
	assert.ErrorIs(t, err, ErrAirportCodeTaken)

	_, err = env.airports.CreateAirport(ops, AirportInput{Name: " ", Code: "XXX"})
	assert.ErrorIs(t, err, ErrValidationFailed)

	notes := "night curfew"
	input.Name = "Da Nang International"
	input.Code = "ZZZ"
	input.Notes = &notes
	updated, err := env.airports.UpdateAirport(ops, airport.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "Da Nang International", updated.Name)
	assert.Equal(t, "DAD", updated.Code)
	require.NotNil(t, updated.Notes)

	airports, total, err := env.airports.ListAirports(1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, airports, 1)

	require.NoError(t, env.airports.DeleteAirport(ops, airport.ID))
	_, err = env.airports.GetAirport(airport.ID)
	assert.ErrorIs(t, err, ErrAirportNotFound)
}

func TestAirportService_DeleteInUse(t *testing.T) {
	env := setupServiceTestEnv(t)
	ops := env.actor(t, env.createUser(t, "ops@vietjetair.com", rbac.RoleGroundOps))
	flight := env.createFlight(t, ops)

	err := env.airports.DeleteAirport(ops, flight.DepartureAirportID)
	assert.ErrorIs(t, err, ErrAirportInUse)
}
