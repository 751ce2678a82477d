package middleware

import (
	"errors"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/flight-docs-api/internal/auth"
	"github.com/yukikurage/flight-docs-api/internal/constants"
	apierrors "github.com/yukikurage/flight-docs-api/internal/errors"
	"github.com/yukikurage/flight-docs-api/internal/rbac"
	"github.com/yukikurage/flight-docs-api/internal/services"
)

// ActorResolver loads the current role of an authenticated user.
type ActorResolver interface {
	Actor(userID uint64) (rbac.Actor, error)
}

// Authenticator resolves the actor of a request from a bearer token or the
// session cookie.
type Authenticator struct {
	tokens *auth.TokenIssuer
	actors ActorResolver
}

func NewAuthenticator(tokens *auth.TokenIssuer, actors ActorResolver) *Authenticator {
	return &Authenticator{tokens: tokens, actors: actors}
}

// RequireAuth checks if the user is authenticated via bearer token or session.
// The role is read from the database on every request, so a role cleared by
// landing takes effect immediately even for a token issued before.
func (a *Authenticator) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := a.authenticatedUserID(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		actor, err := a.actors.Actor(userID)
		if err != nil {
			if errors.Is(err, services.ErrUserNotFound) {
				apierrors.Unauthorized(c, "")
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		// Store user ID and actor in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, actor.UserID)
		c.Set(constants.ContextKeyActor, actor)
		c.Next()
	}
}

func (a *Authenticator) authenticatedUserID(c *gin.Context) (uint64, bool) {
	if header := c.GetHeader(constants.AuthorizationHeader); strings.HasPrefix(header, constants.BearerPrefix) {
		claims, err := a.tokens.Parse(strings.TrimPrefix(header, constants.BearerPrefix))
		if err != nil {
			return 0, false
		}
		return claims.UserID, true
	}

	session := sessions.Default(c)
	return toUint64(session.Get(constants.ContextKeyUserID))
}

// RequireElevated lets only Admin and GroundOps through.
func RequireElevated() gin.HandlerFunc {
	return requireRole(rbac.HasElevatedOperationalPrivilege)
}

// RequireAdmin lets only Admin through.
func RequireAdmin() gin.HandlerFunc {
	return requireRole(rbac.IsAdministrator)
}

func requireRole(allowed func(rbac.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if !allowed(actor.Role) {
			apierrors.ForbiddenWithCode(c, apierrors.ErrCodeNotPermitted, rbac.ErrNotPermitted.Error())
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}
	return toUint64(userID)
}

// GetActor retrieves the current actor from context
func GetActor(c *gin.Context) (rbac.Actor, bool) {
	v, exists := c.Get(constants.ContextKeyActor)
	if !exists {
		return rbac.Actor{}, false
	}
	actor, ok := v.(rbac.Actor)
	return actor, ok
}

// Session values decoded by some stores come back as a different integer type.
func toUint64(v interface{}) (uint64, bool) {
	switch v := v.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
