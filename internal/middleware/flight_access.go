package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/flight-docs-api/internal/constants"
	apierrors "github.com/yukikurage/flight-docs-api/internal/errors"
	"github.com/yukikurage/flight-docs-api/internal/models"
	"github.com/yukikurage/flight-docs-api/internal/rbac"
	"github.com/yukikurage/flight-docs-api/internal/services"
)

// FlightFinder loads a flight on behalf of an actor.
type FlightFinder interface {
	GetFlight(actor rbac.Actor, id uint64) (*models.Flight, error)
}

// RequireFlightAccess loads the flight named by the :id parameter if the
// actor may see it
func RequireFlightAccess(flights FlightFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		flightID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid flight ID")
			c.Abort()
			return
		}

		actor, exists := GetActor(c)
		if !exists {
			apierrors.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		flight, err := flights.GetFlight(actor, flightID)
		if err != nil {
			abortWithAccessError(c, err, services.ErrFlightNotFound, "Flight not found")
			return
		}

		// Store flight in context
		c.Set(constants.ContextKeyFlight, flight)
		c.Next()
	}
}

// GetFlight retrieves the flight loaded by RequireFlightAccess
func GetFlight(c *gin.Context) (*models.Flight, bool) {
	v, exists := c.Get(constants.ContextKeyFlight)
	if !exists {
		return nil, false
	}
	flight, ok := v.(*models.Flight)
	return flight, ok
}

func abortWithAccessError(c *gin.Context, err, notFound error, message string) {
	switch {
	case errors.Is(err, notFound):
		apierrors.NotFound(c, message)
	case errors.Is(err, rbac.ErrNotPermitted):
		apierrors.ForbiddenWithCode(c, apierrors.ErrCodeNotPermitted, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
	c.Abort()
}
