package database

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/flight-docs-api/internal/config"
	"github.com/yukikurage/flight-docs-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func TestDialector(t *testing.T) {
	for _, driver := range []string{"mysql", "postgres", "sqlite"} {
		d, err := Dialector(&config.Config{DBDriver: driver, DBName: ":memory:"})
		require.NoError(t, err, driver)
		require.Equal(t, driver, d.Name())
	}

	_, err := Dialector(&config.Config{DBDriver: "oracle"})
	require.Error(t, err)
}

func TestMigrateDatabase_Idempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	require.NoError(t, db.AutoMigrate(Models()...))
	require.NoError(t, MigrateDatabase(db, zap.NewNop()))
	require.NoError(t, MigrateDatabase(db, zap.NewNop()))

	require.True(t, db.Migrator().HasIndex("documents", "idx_documents_flight_title"))
	require.True(t, db.Migrator().HasIndex("roster_entries", "idx_roster_entries_flight_id"))
}

func TestPaginate(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, db.AutoMigrate(&models.Airport{}))

	for _, code := range []string{"HAN", "SGN", "DAD"} {
		require.NoError(t, db.Create(&models.Airport{Name: code, Code: code, IsOperational: true}).Error)
	}

	var page []models.Airport
	require.NoError(t, db.Order("code ASC").Scopes(Paginate(2, 2)).Find(&page).Error)
	require.Len(t, page, 1)
	require.Equal(t, "SGN", page[0].Code)

	var all []models.Airport
	require.NoError(t, db.Scopes(Paginate(0, 2)).Find(&all).Error)
	require.Len(t, all, 3)
}
