package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/flight-docs-api/internal/auth"
	"github.com/yukikurage/flight-docs-api/internal/constants"
	"github.com/yukikurage/flight-docs-api/internal/database"
	"github.com/yukikurage/flight-docs-api/internal/dto"
	apierrors "github.com/yukikurage/flight-docs-api/internal/errors"
	"github.com/yukikurage/flight-docs-api/internal/middleware"
	"github.com/yukikurage/flight-docs-api/internal/models"
	"github.com/yukikurage/flight-docs-api/internal/notify"
	"github.com/yukikurage/flight-docs-api/internal/rbac"
	"github.com/yukikurage/flight-docs-api/internal/repository"
	"github.com/yukikurage/flight-docs-api/internal/services"
	"github.com/yukikurage/flight-docs-api/internal/storage"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const testPassword = "Password!1"

type handlerTestEnv struct {
	db            *gorm.DB
	tokens        *auth.TokenIssuer
	authenticator *middleware.Authenticator
	users         *services.UserService
	flights       *services.FlightService
	memberships   *services.MembershipService
	documents     *services.DocumentService
	airports      *services.AirportService
}

func setupHandlerTestEnv(t *testing.T) handlerTestEnv {
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
	database.SetDB(db)

	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	logger := zap.NewNop()
	userRepo := repository.NewUserRepository(db)
	flightRepo := repository.NewFlightRepository(db)
	documentRepo := repository.NewDocumentRepository(db)
	airportRepo := repository.NewAirportRepository(db)
	tokens := auth.NewTokenIssuer("test-secret", "flight-docs-test", time.Hour)

	users := services.NewUserService(userRepo, tokens, notify.Noop{}, "", logger)
	return handlerTestEnv{
		db:            db,
		tokens:        tokens,
		authenticator: middleware.NewAuthenticator(tokens, users),
		users:         users,
		flights:       services.NewFlightService(flightRepo, documentRepo, airportRepo, store, logger),
		memberships:   services.NewMembershipService(flightRepo, userRepo, logger),
		documents:     services.NewDocumentService(documentRepo, flightRepo, store, constants.DefaultMaxUploadBytes, logger),
		airports:      services.NewAirportService(airportRepo, logger),
	}
}

// router returns an engine with cookie sessions and RequireAuth installed.
func (env handlerTestEnv) router() (*gin.Engine, *gin.RouterGroup) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	store := cookie.NewStore([]byte("secret"))
	r.Use(sessions.Sessions(constants.SessionCookieName, store))
	return r, r.Group("/api", env.authenticator.RequireAuth())
}

func (env handlerTestEnv) createUser(t *testing.T, email string, role rbac.Role) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
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

func (env handlerTestEnv) token(t *testing.T, user *models.User) string {
	t.Helper()
	token, _, err := env.tokens.Issue(user.ID, user.AccountRole())
	require.NoError(t, err)
	return token
}

func jsonRequest(t *testing.T, method, url string, payload interface{}, token string) *http.Request {
	t.Helper()
	var body *bytes.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	} else {
		body = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, url, body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(constants.AuthorizationHeader, constants.BearerPrefix+token)
	}
	return req
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) apierrors.APIError {
	t.Helper()
	var apiErr apierrors.APIError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &apiErr))
	return apiErr
}

func TestAuthHandler_LoginSetsSessionAndToken(t *testing.T) {
	env := setupHandlerTestEnv(t)
	user := env.createUser(t, "pilot@vietjetair.com", rbac.RolePilot)
	handler := NewAuthHandler(env.users)

	r, api := env.router()
	r.POST("/api/auth/login", handler.Login)
	api.GET("/auth/me", handler.GetCurrentUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "pilot@vietjetair.com",
		"password": testPassword,
	}, ""))
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.ID, response.User.ID)
	require.Equal(t, "Pilot", response.User.Role)
	require.NotEmpty(t, response.Token)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	// Session cookie authenticates /me
	req := jsonRequest(t, http.MethodGet, "/api/auth/me", nil, "")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Bearer token authenticates /me
	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodGet, "/api/auth/me", nil, response.Token))
	require.Equal(t, http.StatusOK, w.Code)

	var me dto.UserDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
	require.Equal(t, user.Email, me.Email)
}

func TestAuthHandler_LoginFailures(t *testing.T) {
	env := setupHandlerTestEnv(t)
	env.createUser(t, "pilot@vietjetair.com", rbac.RolePilot)
	env.createUser(t, "idle@vietjetair.com", rbac.RoleNone)
	handler := NewAuthHandler(env.users)

	r, _ := env.router()
	r.POST("/api/auth/login", handler.Login)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "pilot@vietjetair.com",
		"password": "wrong",
	}, ""))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Equal(t, apierrors.ErrCodeInvalidCredentials, decodeError(t, w).Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "idle@vietjetair.com",
		"password": testPassword,
	}, ""))
	require.Equal(t, http.StatusForbidden, w.Code)
	require.Equal(t, apierrors.ErrCodeRoleNotAssigned, decodeError(t, w).Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/login", map[string]string{}, ""))
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_RequireAuth(t *testing.T) {
	env := setupHandlerTestEnv(t)
	user := env.createUser(t, "crew@vietjetair.com", rbac.RoleCrew)
	handler := NewAuthHandler(env.users)

	r, api := env.router()
	api.GET("/auth/me", handler.GetCurrentUser)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodGet, "/api/auth/me", nil, ""))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodGet, "/api/auth/me", nil, "not-a-jwt"))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	token := env.token(t, user)
	require.NoError(t, env.db.Delete(&models.User{}, user.ID).Error)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodGet, "/api/auth/me", nil, token))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	env := setupHandlerTestEnv(t)
	handler := NewAuthHandler(env.users)

	r, _ := env.router()
	r.POST("/api/auth/logout", handler.Logout)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/logout", nil, ""))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthHandler_ForgotPasswordHidesUnknownEmail(t *testing.T) {
	env := setupHandlerTestEnv(t)
	handler := NewAuthHandler(env.users)

	r, _ := env.router()
	r.POST("/api/auth/forgot-password", handler.ForgotPassword)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, jsonRequest(t, http.MethodPost, "/api/auth/forgot-password", map[string]string{
		"email": "ghost@vietjetair.com",
	}, ""))
	require.Equal(t, http.StatusOK, w.Code)
}
