package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/flight-docs-api/internal/dto"
	apierrors "github.com/yukikurage/flight-docs-api/internal/errors"
	"github.com/yukikurage/flight-docs-api/internal/services"
	"github.com/yukikurage/flight-docs-api/internal/utils"
)

type AirportHandler struct {
	airportService *services.AirportService
}

func NewAirportHandler(airportService *services.AirportService) *AirportHandler {
	return &AirportHandler{airportService: airportService}
}

type airportRequest struct {
	Name          string  `json:"name" binding:"required,max=100"`
	Code          string  `json:"code" binding:"max=10"`
	Address       string  `json:"address" binding:"max=255"`
	RunwayCount   int     `json:"runway_count" binding:"min=0"`
	RunwayType    string  `json:"runway_type" binding:"max=50"`
	IsOperational *bool   `json:"is_operational"`
	Level         string  `json:"level" binding:"max=2"`
	Notes         *string `json:"notes"`
}

func (r airportRequest) toInput() services.AirportInput {
	operational := true
	if r.IsOperational != nil {
		operational = *r.IsOperational
	}
	return services.AirportInput{
		Name:          r.Name,
		Code:          r.Code,
		Address:       r.Address,
		RunwayCount:   r.RunwayCount,
		RunwayType:    r.RunwayType,
		IsOperational: operational,
		Level:         r.Level,
		Notes:         r.Notes,
	}
}

func (h *AirportHandler) ListAirports(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	airports, total, err := h.airportService.ListAirports(params.Page, params.Limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAirportListResponse(airports, params.Page, params.Limit, total))
}

func (h *AirportHandler) GetAirport(c *gin.Context) {
	airportID, ok := parseIDParam(c, "id", "airport ID")
	if !ok {
		return
	}

	airport, err := h.airportService.GetAirport(airportID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAirportDTO(*airport))
}

func (h *AirportHandler) CreateAirport(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}

	var req airportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	airport, err := h.airportService.CreateAirport(actor, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToAirportDTO(*airport))
}

func (h *AirportHandler) UpdateAirport(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	airportID, ok := parseIDParam(c, "id", "airport ID")
	if !ok {
		return
	}

	var req airportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	airport, err := h.airportService.UpdateAirport(actor, airportID, req.toInput())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAirportDTO(*airport))
}

func (h *AirportHandler) DeleteAirport(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		return
	}
	airportID, ok := parseIDParam(c, "id", "airport ID")
	if !ok {
		return
	}

	if err := h.airportService.DeleteAirport(actor, airportID); err != nil {
		respondError(c, err)
		return
	}

	noContent(c)
}
