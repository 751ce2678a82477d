package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	apierrors "github.com/yukikurage/flight-docs-api/internal/errors"
	"github.com/yukikurage/flight-docs-api/internal/flightstate"
	"github.com/yukikurage/flight-docs-api/internal/middleware"
	"github.com/yukikurage/flight-docs-api/internal/rbac"
	"github.com/yukikurage/flight-docs-api/internal/services"
)

// respondError maps service errors to HTTP responses.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrValidationFailed):
		apierrors.ValidationFailed(c, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.UnauthorizedWithCode(c, apierrors.ErrCodeInvalidCredentials, err.Error())
	case errors.Is(err, services.ErrRoleNotAssigned):
		apierrors.ForbiddenWithCode(c, apierrors.ErrCodeRoleNotAssigned, err.Error())
	case errors.Is(err, rbac.ErrNotPermitted):
		apierrors.ForbiddenWithCode(c, apierrors.ErrCodeNotPermitted, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrFlightNotFound),
		errors.Is(err, services.ErrDocumentNotFound),
		errors.Is(err, services.ErrAirportNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrAirportCodeTaken):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeAlreadyExists, err.Error())
	case errors.Is(err, services.ErrAirportInUse):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, flightstate.ErrInvalidTransition):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeInvalidTransition, err.Error())
	case errors.Is(err, flightstate.ErrFlightNotMutable):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeFlightNotMutable, err.Error())
	case errors.Is(err, flightstate.ErrFlightClosed):
		apierrors.ConflictWithCode(c, apierrors.ErrCodeFlightClosed, err.Error())
	default:
		apierrors.InternalError(c, "Internal server error")
	}
}

// currentActor returns the actor set by RequireAuth, answering 401 when missing.
func currentActor(c *gin.Context) (rbac.Actor, bool) {
	actor, ok := middleware.GetActor(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
	}
	return actor, ok
}

func parseIDParam(c *gin.Context, name, label string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+label)
		return 0, false
	}
	return id, true
}

// optionalUintQuery reads an optional numeric query parameter.
func optionalUintQuery(c *gin.Context, name string) (*uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name)
		return nil, false
	}
	return &v, true
}

// optionalDateQuery reads an optional YYYY-MM-DD query parameter.
func optionalDateQuery(c *gin.Context, name string) (*time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		apierrors.BadRequest(c, "Invalid "+name+", expected YYYY-MM-DD")
		return nil, false
	}
	return &t, true
}

func noContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
