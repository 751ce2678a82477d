package models

import (
	"time"

	"github.com/yukikurage/flight-docs-api/internal/flightstate"
	"gorm.io/gorm"
)

type Flight struct {
	ID                 uint64             `gorm:"primarykey" json:"id"`
	DepartureDate      time.Time          `gorm:"not null;index" json:"departure_date"`
	AircraftType       string             `gorm:"type:varchar(50);not null" json:"aircraft_type"`
	Status             flightstate.Status `gorm:"type:varchar(20);not null;default:'NOT_DEPARTED'" json:"status"`
	DepartureAirportID uint64             `gorm:"not null" json:"departure_airport_id"`
	ArrivalAirportID   uint64             `gorm:"not null" json:"arrival_airport_id"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
	DeletedAt          gorm.DeletedAt     `gorm:"index" json:"-"`

	// Relations
	DepartureAirport *Airport      `gorm:"foreignKey:DepartureAirportID" json:"departure_airport,omitempty"`
	ArrivalAirport   *Airport      `gorm:"foreignKey:ArrivalAirportID" json:"arrival_airport,omitempty"`
	Roster           []RosterEntry `gorm:"foreignKey:FlightID" json:"roster,omitempty"`
	Documents        []Document    `gorm:"foreignKey:FlightID" json:"documents,omitempty"`
}
