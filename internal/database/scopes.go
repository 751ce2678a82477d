package database

import (
	"github.com/yukikurage/flight-docs-api/internal/rbac"
	"gorm.io/gorm"
)

// Paginate applies pagination to a GORM query. A non-positive page or
// pageSize leaves the query unpaginated.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 || pageSize <= 0 {
			return db
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// VisibleFlights restricts a flights query to the scope
func VisibleFlights(scope rbac.Scope) func(db *gorm.DB) *gorm.DB {
	return restrictTo("flights.id", scope)
}

// VisibleDocuments restricts a documents query to the scope
func VisibleDocuments(scope rbac.Scope) func(db *gorm.DB) *gorm.DB {
	return restrictTo("documents.flight_id", scope)
}

func restrictTo(column string, scope rbac.Scope) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if scope.All {
			return db
		}
		if len(scope.FlightIDs) == 0 {
			return db.Where("1 = 0")
		}
		return db.Where(column+" IN ?", scope.FlightIDs)
	}
}
