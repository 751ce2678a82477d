package rbac

// Capability names an action an actor may take on a document.
type Capability string

const (
	CapabilityView           Capability = "view"
	CapabilityEdit           Capability = "edit"
	CapabilityToggleEditable Capability = "toggle_editable"
	CapabilityDelete         Capability = "delete"
)

// DocumentFacts holds the document attributes permission decisions depend on.
type DocumentFacts struct {
	FlightID  uint64
	CreatedBy uint64
	CanEdit   bool
}

// DocumentAccess is one permission question: may Actor act on Document,
// given whether the actor is on the roster of the document's flight.
type DocumentAccess struct {
	Actor    Actor
	Document DocumentFacts
	OnRoster bool
}

// Can reports whether the capability is granted.
func (a DocumentAccess) Can(capability Capability) bool {
	// An unassigned account holds no document privileges, even on its own documents.
	if !a.Actor.Role.Assigned() {
		return false
	}

	switch capability {
	case CapabilityView:
		return IsAdministrator(a.Actor.Role) || a.OnRoster
	case CapabilityEdit:
		return IsAdministrator(a.Actor.Role) || a.isCreator() || (a.Document.CanEdit && a.OnRoster)
	case CapabilityToggleEditable:
		return IsAdministrator(a.Actor.Role) || a.isCreator()
	case CapabilityDelete:
		return HasElevatedOperationalPrivilege(a.Actor.Role)
	default:
		return false
	}
}

// Check is Can returning ErrNotPermitted on denial.
func (a DocumentAccess) Check(capability Capability) error {
	if !a.Can(capability) {
		return ErrNotPermitted
	}
	return nil
}

func (a DocumentAccess) isCreator() bool {
	return a.Actor.UserID != 0 && a.Actor.UserID == a.Document.CreatedBy
}
