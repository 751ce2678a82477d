package repository

import (
	"errors"
	"time"

	"github.com/yukikurage/flight-docs-api/internal/flightstate"
	"github.com/yukikurage/flight-docs-api/internal/models"
	"github.com/yukikurage/flight-docs-api/internal/rbac"
)

var (
	// ErrStatusConflict is returned when a flight's status changed under a
	// compare-and-set update.
	ErrStatusConflict = errors.New("flight repository: status changed concurrently")
	// ErrUsersMissing is returned when a roster assignment names a user that does not exist.
	ErrUsersMissing = errors.New("flight repository: one or more users not found")
)

// FlightRepository defines the interface for flight and roster data access
type FlightRepository interface {
	// Create creates a new flight
	Create(flight *models.Flight) error

	// FindByID finds a flight by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Flight, error)

	// List retrieves flights with filtering and pagination
	List(filter FlightFilter) ([]models.Flight, int64, error)

	// Update updates a flight's own columns
	Update(flight *models.Flight) error

	// Delete soft deletes a flight together with its documents and roster
	Delete(id uint64) error

	// AdvanceStatus moves a flight from one status to the next only if it is
	// still in from, applying effects in the same transaction
	AdvanceStatus(id uint64, from, to flightstate.Status, effects []flightstate.Effect, at time.Time) error

	// AssignRoster sets the role of every user and upserts their roster
	// entries, all or nothing
	AssignRoster(flightID uint64, userIDs []uint64, role rbac.Role, at time.Time) error

	// ListRoster lists the roster entries of a flight
	ListRoster(flightID uint64) ([]models.RosterEntry, error)

	// RosterFlightIDs lists the flights a user holds an active roster entry on
	RosterFlightIDs(userID uint64) ([]uint64, error)

	// IsRosterMember reports whether a user holds an active roster entry on a flight
	IsRosterMember(flightID, userID uint64) (bool, error)
}

// FlightFilter holds filtering options for listing flights
type FlightFilter struct {
	Scope       rbac.Scope
	FlightID    *uint64
	DepartureOn *time.Time
	Page        int
	PageSize    int
}

// DocumentRepository defines the interface for document data access
type DocumentRepository interface {
	// Create creates a new document
	Create(doc *models.Document) error

	// FindByID finds a document by ID with optional preloading
	FindByID(id uint64, preload ...string) (*models.Document, error)

	// List retrieves documents with filtering and pagination
	List(filter DocumentFilter) ([]models.Document, int64, error)

	// ListByFlight lists every document of a flight
	ListByFlight(flightID uint64) ([]models.Document, error)

	// Update updates a document's own columns
	Update(doc *models.Document) error

	// Delete soft deletes a document
	Delete(id uint64) error
}

// DocumentFilter holds filtering options for listing documents
type DocumentFilter struct {
	Scope        rbac.Scope
	FlightID     *uint64
	DocumentType string
	Title        string
	CreatedOn    *time.Time
	Page         int
	PageSize     int
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(email string) (*models.User, error)

	// Update updates a user
	Update(user *models.User) error

	// Delete soft deletes a user and removes their roster entries
	Delete(id uint64) error

	// List retrieves users with pagination
	List(page, pageSize int) ([]models.User, int64, error)

	// ListByRole lists users holding an account role
	ListByRole(role rbac.Role) ([]models.User, error)

	// FindByIDs returns the users among ids that exist
	FindByIDs(ids []uint64) ([]models.User, error)

	// SwapRoles exchanges the account roles of two users
	SwapRoles(a, b *models.User) error
}

// AirportRepository defines the interface for airport data access
type AirportRepository interface {
	// Create creates a new airport
	Create(airport *models.Airport) error

	// FindByID finds an airport by ID
	FindByID(id uint64) (*models.Airport, error)

	// FindByCode finds an airport by code
	FindByCode(code string) (*models.Airport, error)

	// List retrieves airports with pagination
	List(page, pageSize int) ([]models.Airport, int64, error)

	// Update updates an airport
	Update(airport *models.Airport) error

	// Delete soft deletes an airport
	Delete(id uint64) error

	// InUse reports whether any flight departs from or arrives at the airport
	InUse(id uint64) (bool, error)
}

// dayRange returns [start of day, start of next day) for t in its own location.
func dayRange(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 0, 1)
}
