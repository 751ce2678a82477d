package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/flight-docs-api/internal/flightstate"
	"github.com/yukikurage/flight-docs-api/internal/rbac"
)

func TestMembershipService_AddUsers(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	ops := env.actor(t, env.createUser(t, "ops@vietjetair.com", rbac.RoleGroundOps))
	a := env.createUser(t, "a@vietjetair.com", rbac.RoleNone)
	b := env.createUser(t, "b@vietjetair.com", rbac.RoleNone)
	flight := env.createFlight(t, ops)

	require.NoError(t, env.memberships.AddUsers(ctx, ops, flight.ID, []uint64{a.ID, b.ID, a.ID}, "crew"))
	assert.Equal(t, int64(2), env.countRoster(t, flight.ID))

	for _, id := range []uint64{a.ID, b.ID} {
		user, err := env.users.GetUser(id)
		require.NoError(t, err)
		assert.Equal(t, rbac.RoleCrew, user.AccountRole())
	}
}

func TestMembershipService_AddUsersRejections(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	ops := env.actor(t, env.createUser(t, "ops@vietjetair.com", rbac.RoleGroundOps))
	crew := env.createUser(t, "crew@vietjetair.com", rbac.RoleCrew)
	flight := env.createFlight(t, ops)

	tests := []struct {
		name    string
		actor   rbac.Actor
		flight  uint64
		userIDs []uint64
		role    string
		wantErr error
	}{
		{"crew cannot roster", env.actor(t, crew), flight.ID, []uint64{crew.ID}, "Crew", rbac.ErrNotPermitted},
		{"admin role is not assignable", ops, flight.ID, []uint64{crew.ID}, "Admin", ErrInvalidRole},
		{"unknown role", ops, flight.ID, []uint64{crew.ID}, "Captain", ErrInvalidRole},
		{"no users", ops, flight.ID, nil, "Crew", ErrNoUserIDsProvided},
		{"missing flight", ops, 999, []uint64{crew.ID}, "Crew", ErrFlightNotFound},
		{"missing user", ops, flight.ID, []uint64{crew.ID, 999}, "Pilot", ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.memberships.AddUsers(ctx, tt.actor, tt.flight, tt.userIDs, tt.role)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	assert.Zero(t, env.countRoster(t, flight.ID))
	user, err := env.users.GetUser(crew.ID)
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleCrew, user.AccountRole())
}

func TestMembershipService_AddUsersAfterDeparture(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	ops := env.actor(t, env.createUser(t, "ops@vietjetair.com", rbac.RoleGroundOps))
	pilot := env.createUser(t, "pilot@vietjetair.com", rbac.RoleNone)
	flight := env.createFlight(t, ops)

	_, err := env.flights.AdvanceStatus(ops, flight.ID)
	require.NoError(t, err)

	err = env.memberships.AddUsers(ctx, ops, flight.ID, []uint64{pilot.ID}, "Pilot")
	assert.ErrorIs(t, err, flightstate.ErrFlightNotMutable)
	assert.Zero(t, env.countRoster(t, flight.ID))

	user, err := env.users.GetUser(pilot.ID)
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleNone, user.AccountRole())
}

func TestMembershipService_AddUsersPeerRule(t *testing.T) {
	env := setupServiceTestEnv(t)
	ctx := context.Background()
	adminUser := env.createUser(t, "admin@vietjetair.com", rbac.RoleAdmin)
	opsUser := env.createUser(t, "ops@vietjetair.com", rbac.RoleGroundOps)
	peer := env.createUser(t, "ops2@vietjetair.com", rbac.RoleGroundOps)
	crew := env.createUser(t, "crew@vietjetair.com", rbac.RoleNone)
	ops := env.actor(t, opsUser)
	admin := env.actor(t, adminUser)
	flight := env.createFlight(t, ops)

	tests := []struct {
		name    string
		actor   rbac.Actor
		userIDs []uint64
	}{
		{"ground ops cannot roster an admin", ops, []uint64{crew.ID, adminUser.ID}},
		{"ground ops cannot roster another ground ops", ops, []uint64{peer.ID}},
		{"ground ops cannot roster themselves", ops, []uint64{opsUser.ID}},
		{"admin cannot roster an admin", admin, []uint64{adminUser.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := env.memberships.AddUsers(ctx, tt.actor, flight.ID, tt.userIDs, "Crew")
			assert.ErrorIs(t, err, rbac.ErrNotPermitted)
		})
	}

	assert.Zero(t, env.countRoster(t, flight.ID))
	for id, want := range map[uint64]rbac.Role{
		adminUser.ID: rbac.RoleAdmin,
		peer.ID:      rbac.RoleGroundOps,
		crew.ID:      rbac.RoleNone,
	} {
		user, err := env.users.GetUser(id)
		require.NoError(t, err)
		assert.Equal(t, want, user.AccountRole())
	}

	require.NoError(t, env.memberships.AddUsers(ctx, admin, flight.ID, []uint64{peer.ID}, "Pilot"))
	user, err := env.users.GetUser(peer.ID)
	require.NoError(t, err)
	assert.Equal(t, rbac.RolePilot, user.AccountRole())
}
