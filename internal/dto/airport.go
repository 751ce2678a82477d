package dto

import "github.com/yukikurage/flight-docs-api/internal/models"

// AirportDTO represents an airport in API responses
type AirportDTO struct {
	ID            uint64  `json:"id"`
	Name          string  `json:"name"`
	Code          string  `json:"code"`
	Address       string  `json:"address"`
	RunwayCount   int     `json:"runway_count"`
	RunwayType    string  `json:"runway_type"`
	IsOperational bool    `json:"is_operational"`
	Level         string  `json:"level"`
	Notes         *string `json:"notes,omitempty"`
}

// AirportListResponse represents a paginated list of airports
type AirportListResponse struct {
	Airports   []AirportDTO `json:"airports"`
	Page       int          `json:"page"`
	PageSize   int          `json:"page_size"`
	TotalCount int64        `json:"total_count"`
	TotalPages int          `json:"total_pages"`
}

// ToAirportDTO converts an Airport model to AirportDTO
func ToAirportDTO(airport models.Airport) AirportDTO {
	return AirportDTO{
		ID:            airport.ID,
		Name:          airport.Name,
		Code:          airport.Code,
		Address:       airport.Address,
		RunwayCount:   airport.RunwayCount,
		RunwayType:    airport.RunwayType,
		IsOperational: airport.IsOperational,
		Level:         airport.Level,
		Notes:         airport.Notes,
	}
}

// ToAirportListResponse converts a page of airports to AirportListResponse
func ToAirportListResponse(airports []models.Airport, page, pageSize int, totalCount int64) AirportListResponse {
	items := make([]AirportDTO, len(airports))
	for i, airport := range airports {
		items[i] = ToAirportDTO(airport)
	}
	return AirportListResponse{
		Airports:   items,
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, pageSize),
	}
}
