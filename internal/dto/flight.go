package dto

import (
	"time"

	"github.com/yukikurage/flight-docs-api/internal/flightstate"
	"github.com/yukikurage/flight-docs-api/internal/models"
)

// RosterEntryDTO represents a roster member of a flight
type RosterEntryDTO struct {
	User       *UserSummaryDTO `json:"user,omitempty"`
	UserID     uint64          `json:"user_id"`
	Role       string          `json:"role"`
	AssignedAt time.Time       `json:"assigned_at"`
	ReleasedAt *time.Time      `json:"released_at,omitempty"`
}

// FlightDTO represents a flight in API responses
type FlightDTO struct {
	ID                 uint64             `json:"id"`
	Status             flightstate.Status `json:"status"`
	DepartureDate      time.Time          `json:"departure_date"`
	AircraftType       string             `json:"aircraft_type"`
	DepartureAirportID uint64             `json:"departure_airport_id"`
	ArrivalAirportID   uint64             `json:"arrival_airport_id"`
	DepartureAirport   *AirportDTO        `json:"departure_airport,omitempty"`
	ArrivalAirport     *AirportDTO        `json:"arrival_airport,omitempty"`
	CreatedAt          time.Time          `json:"created_at"`
}

// FlightDetailDTO is a flight with its roster
type FlightDetailDTO struct {
	FlightDTO
	Roster []RosterEntryDTO `json:"roster"`
}

// FlightListResponse represents a paginated list of flights
type FlightListResponse struct {
	Flights    []FlightDTO `json:"flights"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	TotalCount int64       `json:"total_count"`
	TotalPages int         `json:"total_pages"`
}

// ToFlightDTO converts a Flight model to FlightDTO
func ToFlightDTO(flight models.Flight) FlightDTO {
	dto := FlightDTO{
		ID:                 flight.ID,
		Status:             flight.Status,
		DepartureDate:      flight.DepartureDate,
		AircraftType:       flight.AircraftType,
		DepartureAirportID: flight.DepartureAirportID,
		ArrivalAirportID:   flight.ArrivalAirportID,
		CreatedAt:          flight.CreatedAt,
	}

	// Include airports if preloaded
	if flight.DepartureAirport != nil {
		airport := ToAirportDTO(*flight.DepartureAirport)
		dto.DepartureAirport = &airport
	}
	if flight.ArrivalAirport != nil {
		airport := ToAirportDTO(*flight.ArrivalAirport)
		dto.ArrivalAirport = &airport
	}

	return dto
}

// ToFlightDTOs converts a slice of flights
func ToFlightDTOs(flights []models.Flight) []FlightDTO {
	items := make([]FlightDTO, len(flights))
	for i, flight := range flights {
		items[i] = ToFlightDTO(flight)
	}
	return items
}

// ToRosterEntryDTO converts a roster entry to DTO
func ToRosterEntryDTO(entry models.RosterEntry) RosterEntryDTO {
	dto := RosterEntryDTO{
		UserID:     entry.UserID,
		Role:       entry.AssignedRole().String(),
		AssignedAt: entry.AssignedAt,
		ReleasedAt: entry.ReleasedAt,
	}
	if entry.User != nil {
		user := ToUserSummaryDTO(*entry.User)
		dto.User = &user
	}
	return dto
}

// ToRosterEntryDTOs converts a slice of roster entries
func ToRosterEntryDTOs(entries []models.RosterEntry) []RosterEntryDTO {
	items := make([]RosterEntryDTO, len(entries))
	for i, entry := range entries {
		items[i] = ToRosterEntryDTO(entry)
	}
	return items
}

// ToFlightDetailDTO converts a flight with its preloaded roster
func ToFlightDetailDTO(flight models.Flight) FlightDetailDTO {
	return FlightDetailDTO{
		FlightDTO: ToFlightDTO(flight),
		Roster:    ToRosterEntryDTOs(flight.Roster),
	}
}

// ToFlightListResponse converts a page of flights to FlightListResponse
func ToFlightListResponse(flights []models.Flight, page, pageSize int, totalCount int64) FlightListResponse {
	return FlightListResponse{
		Flights:    ToFlightDTOs(flights),
		Page:       page,
		PageSize:   pageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, pageSize),
	}
}
