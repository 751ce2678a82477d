package rbac

import "slices"

// Scope restricts a listing to a set of flights. The zero value sees nothing.
type Scope struct {
	All       bool
	FlightIDs []uint64
}

// Allows reports whether a resource on flightID passes the scope.
func (s Scope) Allows(flightID uint64) bool {
	return s.All || slices.Contains(s.FlightIDs, flightID)
}

// Empty reports whether the scope matches nothing.
func (s Scope) Empty() bool {
	return !s.All && len(s.FlightIDs) == 0
}

// FlightScope is the set of flights actor may see. rosterFlightIDs are the
// flights actor holds a roster entry on.
func FlightScope(actor Actor, rosterFlightIDs []uint64) Scope {
	switch {
	case HasElevatedOperationalPrivilege(actor.Role):
		return Scope{All: true}
	case actor.Role == RolePilot || actor.Role == RoleCrew:
		return Scope{FlightIDs: rosterFlightIDs}
	default:
		return Scope{}
	}
}

// DocumentScope is the set of flights whose documents actor may list.
// Unlike FlightScope, an unassigned account is still narrowed by roster.
func DocumentScope(actor Actor, rosterFlightIDs []uint64) Scope {
	if HasElevatedOperationalPrivilege(actor.Role) {
		return Scope{All: true}
	}
	return Scope{FlightIDs: rosterFlightIDs}
}
