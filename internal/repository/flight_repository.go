package repository

import (
	"time"

	"github.com/yukikurage/flight-docs-api/internal/database"
	"github.com/yukikurage/flight-docs-api/internal/flightstate"
	"github.com/yukikurage/flight-docs-api/internal/models"
	"github.com/yukikurage/flight-docs-api/internal/rbac"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormFlightRepository is a GORM implementation of FlightRepository
type GormFlightRepository struct {
	db *gorm.DB
}

// NewFlightRepository creates a new FlightRepository
func NewFlightRepository(db *gorm.DB) FlightRepository {
	return &GormFlightRepository{db: db}
}

// Create creates a new flight
func (r *GormFlightRepository) Create(flight *models.Flight) error {
	return r.db.Omit(clause.Associations).Create(flight).Error
}

// FindByID finds a flight by ID with optional preloading
func (r *GormFlightRepository) FindByID(id uint64, preload ...string) (*models.Flight, error) {
	var flight models.Flight
	query := r.db

	// Apply preloading if specified
	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&flight, id).Error; err != nil {
		return nil, err
	}

	return &flight, nil
}

// List retrieves flights with filtering and pagination
func (r *GormFlightRepository) List(filter FlightFilter) ([]models.Flight, int64, error) {
	var flights []models.Flight

	if filter.Scope.Empty() {
		return []models.Flight{}, 0, nil
	}

	query := r.db.Model(&models.Flight{}).Scopes(database.VisibleFlights(filter.Scope))

	// Apply filters
	if filter.FlightID != nil {
		query = query.Where("flights.id = ?", *filter.FlightID)
	}
	if filter.DepartureOn != nil {
		from, to := dayRange(*filter.DepartureOn)
		query = query.Where("flights.departure_date >= ? AND flights.departure_date < ?", from, to)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("flights.departure_date ASC, flights.id ASC").Scopes(database.Paginate(filter.Page, filter.PageSize))

	if err := listQuery.Preload("DepartureAirport").Preload("ArrivalAirport").Find(&flights).Error; err != nil {
		return nil, 0, err
	}

	return flights, total, nil
}

// Update updates a flight's own columns
func (r *GormFlightRepository) Update(flight *models.Flight) error {
	return r.db.Omit(clause.Associations).Save(flight).Error
}

// Delete soft deletes a flight, its documents and its roster
func (r *GormFlightRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("flight_id = ?", id).Delete(&models.Document{}).Error; err != nil {
			return err
		}

		if err := tx.Where("flight_id = ?", id).Delete(&models.RosterEntry{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Flight{}, id).Error
	})
}

// AdvanceStatus performs a compare-and-set on the flight status. When another
// writer moved the flight first no rows match and ErrStatusConflict is returned,
// so effects run at most once per transition.
func (r *GormFlightRepository) AdvanceStatus(id uint64, from, to flightstate.Status, effects []flightstate.Effect, at time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Flight{}).
			Where("id = ? AND status = ?", id, from).
			Update("status", to)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrStatusConflict
		}

		for _, effect := range effects {
			if effect == flightstate.EffectReleaseRoster {
				if err := releaseRoster(tx, id, at); err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// releaseRoster only touches entries not yet released, so a second call is a no-op.
func releaseRoster(tx *gorm.DB, flightID uint64, at time.Time) error {
	active := tx.Model(&models.RosterEntry{}).
		Select("user_id").
		Where("flight_id = ? AND released_at IS NULL", flightID)

	if err := tx.Model(&models.User{}).
		Where("id IN (?)", active).
		Update("role", gorm.Expr("NULL")).Error; err != nil {
		return err
	}

	return tx.Model(&models.RosterEntry{}).
		Where("flight_id = ? AND released_at IS NULL", flightID).
		Updates(map[string]interface{}{
			"role":        gorm.Expr("NULL"),
			"released_at": at,
		}).Error
}

// AssignRoster sets each user's role and upserts their roster entry
func (r *GormFlightRepository) AssignRoster(flightID uint64, userIDs []uint64, role rbac.Role, at time.Time) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var open int64
		if err := tx.Model(&models.Flight{}).
			Where("id = ? AND status = ?", flightID, flightstate.StatusNotDeparted).
			Count(&open).Error; err != nil {
			return err
		}
		if open == 0 {
			return ErrStatusConflict
		}

		var found int64
		if err := tx.Model(&models.User{}).Where("id IN ?", userIDs).Count(&found).Error; err != nil {
			return err
		}
		if found != int64(len(userIDs)) {
			return ErrUsersMissing
		}

		if err := tx.Model(&models.User{}).
			Where("id IN ?", userIDs).
			Update("role", string(role)).Error; err != nil {
			return err
		}

		entries := make([]models.RosterEntry, len(userIDs))
		for i, userID := range userIDs {
			entries[i] = models.RosterEntry{
				FlightID:   flightID,
				UserID:     userID,
				Role:       models.RolePtr(role),
				AssignedAt: at,
			}
		}

		return tx.
			Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "flight_id"}, {Name: "user_id"}},
				DoUpdates: clause.Assignments(map[string]interface{}{
					"role":        string(role),
					"assigned_at": at,
					"released_at": gorm.Expr("NULL"),
				}),
			}).
			Omit(clause.Associations).
			Create(&entries).Error
	})
}

// ListRoster lists the roster entries of a flight
func (r *GormFlightRepository) ListRoster(flightID uint64) ([]models.RosterEntry, error) {
	var entries []models.RosterEntry
	if err := r.db.Where("flight_id = ?", flightID).
		Preload("User").
		Order("assigned_at ASC, user_id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// RosterFlightIDs lists the flights a user holds an active roster entry on
func (r *GormFlightRepository) RosterFlightIDs(userID uint64) ([]uint64, error) {
	var ids []uint64
	err := r.db.Model(&models.RosterEntry{}).
		Where("user_id = ? AND released_at IS NULL", userID).
		Pluck("flight_id", &ids).Error
	return ids, err
}

// IsRosterMember reports whether a user holds an active roster entry on a flight
func (r *GormFlightRepository) IsRosterMember(flightID, userID uint64) (bool, error) {
	var count int64
	err := r.db.Model(&models.RosterEntry{}).
		Where("flight_id = ? AND user_id = ? AND released_at IS NULL", flightID, userID).
		Count(&count).Error
	return count > 0, err
}
