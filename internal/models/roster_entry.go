package models

import (
	"time"

	"github.com/yukikurage/flight-docs-api/internal/rbac"
)

// RosterEntry binds a user to a flight. The row outlives the flight's active
// life; landing zeroes Role and stamps ReleasedAt.
type RosterEntry struct {
	FlightID   uint64     `gorm:"primarykey" json:"flight_id"`
	UserID     uint64     `gorm:"primarykey;index" json:"user_id"`
	Role       *rbac.Role `gorm:"type:varchar(20)" json:"role"`
	AssignedAt time.Time  `json:"assigned_at"`
	ReleasedAt *time.Time `json:"released_at"`

	// Relations
	Flight *Flight `gorm:"foreignKey:FlightID" json:"flight,omitempty"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// AssignedRole returns the role held on the flight, RoleNone once released.
func (e RosterEntry) AssignedRole() rbac.Role {
	if e.Role == nil {
		return rbac.RoleNone
	}
	return *e.Role
}
