package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlightScope(t *testing.T) {
	roster := []uint64{3, 5}

	admin := FlightScope(Actor{UserID: 1, Role: RoleAdmin}, nil)
	assert.True(t, admin.All)
	assert.True(t, admin.Allows(42))

	ops := FlightScope(Actor{UserID: 2, Role: RoleGroundOps}, nil)
	assert.True(t, ops.All)

	pilot := FlightScope(Actor{UserID: 7, Role: RolePilot}, roster)
	assert.False(t, pilot.All)
	assert.True(t, pilot.Allows(3))
	assert.False(t, pilot.Allows(4))

	crew := FlightScope(Actor{UserID: 8, Role: RoleCrew}, nil)
	assert.True(t, crew.Empty())

	none := FlightScope(Actor{UserID: 9, Role: RoleNone}, roster)
	assert.True(t, none.Empty())
	assert.False(t, none.Allows(3))
}

func TestDocumentScope(t *testing.T) {
	roster := []uint64{3}

	assert.True(t, DocumentScope(Actor{Role: RoleGroundOps}, nil).All)

	pilot := DocumentScope(Actor{UserID: 7, Role: RolePilot}, roster)
	assert.True(t, pilot.Allows(3))
	assert.False(t, pilot.Allows(5))

	none := DocumentScope(Actor{UserID: 9, Role: RoleNone}, roster)
	assert.False(t, none.Empty())
	assert.True(t, none.Allows(3))
}

func TestScope_ZeroValueSeesNothing(t *testing.T) {
	var s Scope
	assert.True(t, s.Empty())
	assert.False(t, s.Allows(1))
}
