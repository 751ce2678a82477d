package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/flight-docs-api/internal/dto"
	apierrors "github.com/yukikurage/flight-docs-api/internal/errors"
	"github.com/yukikurage/flight-docs-api/internal/middleware"
	"github.com/yukikurage/flight-docs-api/internal/services"
	"github.com/yukikurage/flight-docs-api/internal/utils"
)

// FlightHandler serves flights, their lifecycle and rosters.
type FlightHandler struct {
	flightService     *services.FlightService
	membershipService *services.MembershipService
}

// NewFlightHandler creates a new FlightHandler.
func NewFlightHandler(flightService *services.FlightService, membershipService *services.MembershipService) *FlightHandler {
	return &FlightHandler{
		flightService:     flightService,
		membershipService: membershipService,
	}
}

// ListFlights returns the flights visible to the current user.
// Can filter by departure_date (YYYY-MM-DD).
func (h *FlightHandler) ListFlights(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	departureOn, ok := optionalDateQuery(c, "departure_date")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	flights, total, err := h.flightService.ListFlights(actor, services.ListFlightsInput{
		DepartureOn: departureOn,
		Page:        params.Page,
		PageSize:    params.Limit,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFlightListResponse(flights, params.Page, params.Limit, total))
}

// SearchFlights finds flights by ?id= or ?departure_date=.
func (h *FlightHandler) SearchFlights(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	flightID, ok := optionalUintQuery(c, "id")
	if !ok {
		return
	}
	departureOn, ok := optionalDateQuery(c, "departure_date")
	if !ok {
		return
	}

	flights, err := h.flightService.SearchFlights(actor, flightID, departureOn)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"flights": dto.ToFlightDTOs(flights)})
}

// GetFlight returns the flight loaded by RequireFlightAccess.
func (h *FlightHandler) GetFlight(c *gin.Context) {
	flight, ok := middleware.GetFlight(c)
	if !ok {
		apierrors.InternalError(c, "Flight not loaded")
		return
	}

	c.JSON(http.StatusOK, dto.ToFlightDetailDTO(*flight))
}

// CreateFlight schedules a new flight.
func (h *FlightHandler) CreateFlight(c *gin.Context) {
	type CreateFlightRequest struct {
		DepartureDate      time.Time `json:"departure_date" binding:"required"`
		AircraftType       string    `json:"aircraft_type" binding:"required,max=50"`
		DepartureAirportID uint64    `json:"departure_airport_id" binding:"required"`
		ArrivalAirportID   uint64    `json:"arrival_airport_id" binding:"required"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req CreateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	flight, err := h.flightService.CreateFlight(actor, services.CreateFlightInput{
		DepartureDate:      req.DepartureDate,
		AircraftType:       req.AircraftType,
		DepartureAirportID: req.DepartureAirportID,
		ArrivalAirportID:   req.ArrivalAirportID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToFlightDTO(*flight))
}

// UpdateFlight reschedules a flight that has not departed.
func (h *FlightHandler) UpdateFlight(c *gin.Context) {
	type UpdateFlightRequest struct {
		DepartureDate time.Time `json:"departure_date" binding:"required"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	flightID, ok := parseIDParam(c, "id", "flight ID")
	if !ok {
		return
	}

	var req UpdateFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	flight, err := h.flightService.UpdateDepartureDate(actor, flightID, req.DepartureDate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFlightDTO(*flight))
}

// AdvanceFlight moves a flight to its next status.
func (h *FlightHandler) AdvanceFlight(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	flightID, ok := parseIDParam(c, "id", "flight ID")
	if !ok {
		return
	}

	flight, err := h.flightService.AdvanceStatus(actor, flightID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFlightDTO(*flight))
}

func (h *FlightHandler) DeleteFlight(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	flightID, ok := parseIDParam(c, "id", "flight ID")
	if !ok {
		return
	}

	if err := h.flightService.DeleteFlight(c.Request.Context(), actor, flightID); err != nil {
		respondError(c, err)
		return
	}

	noContent(c)
}

// AddMembers puts users on the flight's roster with one role.
func (h *FlightHandler) AddMembers(c *gin.Context) {
	type AddMembersRequest struct {
		UserIDs []uint64 `json:"user_ids" binding:"required,min=1"`
		Role    string   `json:"role" binding:"required"`
	}

	actor, ok := currentActor(c)
	if !ok {
		return
	}
	flightID, ok := parseIDParam(c, "id", "flight ID")
	if !ok {
		return
	}

	var req AddMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.membershipService.AddUsers(c.Request.Context(), actor, flightID, req.UserIDs, req.Role); err != nil {
		respondError(c, err)
		return
	}

	roster, err := h.membershipService.Roster(actor, flightID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"roster": dto.ToRosterEntryDTOs(roster)})
}

// FlightDocuments lists a flight's documents whose title contains ?name=.
func (h *FlightHandler) FlightDocuments(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	flightID, ok := parseIDParam(c, "id", "flight ID")
	if !ok {
		return
	}

	docs, err := h.flightService.FlightDocuments(actor, flightID, c.Query("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": dto.ToDocumentListItemDTOs(docs)})
}
