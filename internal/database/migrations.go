package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AddIndexes adds the lookup indexes the listing and search queries rely on
func AddIndexes(db *gorm.DB, log *zap.Logger) error {
	indexes := []struct {
		table   string
		name    string
		columns string
	}{
		// Document search by flight and title
		{"documents", "idx_documents_flight_title", "flight_id, title"},
		{"documents", "idx_documents_created_at", "created_at"},

		// Flight search by status and departure
		{"flights", "idx_flights_status", "status"},

		// Roster lookups by flight when releasing a landed flight
		{"roster_entries", "idx_roster_entries_flight_id", "flight_id"},
	}

	for _, idx := range indexes {
		if db.Migrator().HasIndex(idx.table, idx.name) {
			log.Debug("index already exists, skipping", zap.String("index", idx.name))
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, idx.columns)
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Info("created index",
			zap.String("index", idx.name),
			zap.String("table", idx.table),
			zap.String("columns", idx.columns),
		)
	}

	return nil
}

// MigrateDatabase runs the migrations AutoMigrate does not cover
func MigrateDatabase(db *gorm.DB, log *zap.Logger) error {
	if err := AddIndexes(db, log); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}

	return nil
}
