package rbac

import (
	"errors"
	"strings"
)

// Role is a user's operational account role. The zero value is RoleNone.
type Role string

const (
	RoleNone      Role = ""
	RoleAdmin     Role = "Admin"
	RoleGroundOps Role = "GroundOps"
	RolePilot     Role = "Pilot"
	RoleCrew      Role = "Crew"
)

var (
	ErrNotPermitted = errors.New("not permitted")
	ErrUnknownRole  = errors.New("unknown role")
)

// Actor is the authenticated identity making the current request.
type Actor struct {
	UserID uint64
	Role   Role
}

// ParseRole accepts the canonical role names, case-insensitively, plus the
// legacy "GO" alias for GroundOps.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin, nil
	case "groundops", "go":
		return RoleGroundOps, nil
	case "pilot":
		return RolePilot, nil
	case "crew":
		return RoleCrew, nil
	default:
		return RoleNone, ErrUnknownRole
	}
}

// Assigned reports whether r is one of the four operational roles.
func (r Role) Assigned() bool {
	switch r {
	case RoleAdmin, RoleGroundOps, RolePilot, RoleCrew:
		return true
	default:
		return false
	}
}

func (r Role) String() string {
	if r == RoleNone {
		return "None"
	}
	return string(r)
}

// IsAdministrator is true only for Admin.
func IsAdministrator(r Role) bool {
	return r == RoleAdmin
}

// HasElevatedOperationalPrivilege is true for Admin and GroundOps.
func HasElevatedOperationalPrivilege(r Role) bool {
	return r == RoleAdmin || r == RoleGroundOps
}

// MayActOnPeer reports whether a user holding actor may administer a user
// holding target. Admin may act on anyone, GroundOps on anyone below it,
// everyone else on nobody.
func MayActOnPeer(actor, target Role) bool {
	switch actor {
	case RoleAdmin:
		return true
	case RoleGroundOps:
		return target != RoleAdmin && target != RoleGroundOps
	default:
		return false
	}
}
