package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/flight-docs-api/internal/auth"
	"github.com/yukikurage/flight-docs-api/internal/database"
	"github.com/yukikurage/flight-docs-api/internal/models"
	"github.com/yukikurage/flight-docs-api/internal/rbac"
	"github.com/yukikurage/flight-docs-api/internal/repository"
	"github.com/yukikurage/flight-docs-api/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type serviceTestEnv struct {
	db          *gorm.DB
	store       *storage.LocalStore
	mail        *recordingNotifier
	tokens      *auth.TokenIssuer
	users       *UserService
	airports    *AirportService
	flights     *FlightService
	memberships *MembershipService
	documents   *DocumentService
}

func setupServiceTestEnv(t *testing.T) *serviceTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, db.AutoMigrate(database.Models()...))

	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	logger := zap.NewNop()
	userRepo := repository.NewUserRepository(db)
	airportRepo := repository.NewAirportRepository(db)
	flightRepo := repository.NewFlightRepository(db)
	documentRepo := repository.NewDocumentRepository(db)

	mail := &recordingNotifier{}
	tokens := auth.NewTokenIssuer("test-secret", "flight-docs-test", time.Hour)

	return &serviceTestEnv{
		db:          db,
		store:       store,
		mail:        mail,
		tokens:      tokens,
		users:       NewUserService(userRepo, tokens, mail, "", logger),
		airports:    NewAirportService(airportRepo, logger),
		flights:     NewFlightService(flightRepo, documentRepo, airportRepo, store, logger),
		memberships: NewMembershipService(flightRepo, userRepo, logger),
		documents:   NewDocumentService(documentRepo, flightRepo, store, 1<<20, logger),
	}
}

// createUser stores an account with password "Password!1".
func (env *serviceTestEnv) createUser(t *testing.T, email string, role rbac.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("Password!1"), bcrypt.MinCost)
	require.NoError(t, err)

	user := &models.User{
		Email:        email,
		Username:     email,
		PasswordHash: string(hash),
		PhoneNumber:  "0123456789",
		Role:         models.RolePtr(role),
	}
	require.NoError(t, env.db.Create(user).Error)
	return user
}

func (env *serviceTestEnv) actor(t *testing.T, user *models.User) rbac.Actor {
	t.Helper()
	actor, err := env.users.Actor(user.ID)
	require.NoError(t, err)
	return actor
}

func (env *serviceTestEnv) createAirports(t *testing.T) (uint64, uint64) {
	t.Helper()
	var count int64
	require.NoError(t, env.db.Model(&models.Airport{}).Count(&count).Error)

	dep := &models.Airport{Name: "Noi Bai", Code: fmt.Sprintf("HAN%d", count), IsOperational: true}
	arr := &models.Airport{Name: "Tan Son Nhat", Code: fmt.Sprintf("SGN%d", count), IsOperational: true}
	require.NoError(t, env.db.Create(dep).Error)
	require.NoError(t, env.db.Create(arr).Error)
	return dep.ID, arr.ID
}

func (env *serviceTestEnv) createFlight(t *testing.T, actor rbac.Actor) *models.Flight {
	t.Helper()
	dep, arr := env.createAirports(t)
	flight, err := env.flights.CreateFlight(actor, CreateFlightInput{
		DepartureDate:      time.Date(2026, 11, 2, 6, 30, 0, 0, time.UTC),
		AircraftType:       "A321",
		DepartureAirportID: dep,
		ArrivalAirportID:   arr,
	})
	require.NoError(t, err)
	return flight
}

func (env *serviceTestEnv) countRoster(t *testing.T, flightID uint64) int64 {
	t.Helper()
	var count int64
	require.NoError(t, env.db.Model(&models.RosterEntry{}).Where("flight_id = ?", flightID).Count(&count).Error)
	return count
}

type sentMail struct {
	kind     string
	email    string
	password string
}

type recordingNotifier struct {
	sent []sentMail
}

func (n *recordingNotifier) SendWelcome(_ context.Context, email, _, password string) error {
	n.sent = append(n.sent, sentMail{kind: "welcome", email: email, password: password})
	return nil
}

func (n *recordingNotifier) SendPasswordReset(_ context.Context, email, _, password string) error {
	n.sent = append(n.sent, sentMail{kind: "reset", email: email, password: password})
	return nil
}
