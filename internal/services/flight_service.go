package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/flight-docs-api/internal/flightstate"
	"github.com/yukikurage/flight-docs-api/internal/models"
	"github.com/yukikurage/flight-docs-api/internal/rbac"
	"github.com/yukikurage/flight-docs-api/internal/repository"
	"github.com/yukikurage/flight-docs-api/internal/storage"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrFlightNotFound       = errors.New("flight not found")
	ErrAircraftTypeRequired = fmt.Errorf("%w: aircraft type is required", ErrValidationFailed)
	ErrDepartureRequired    = fmt.Errorf("%w: departure date is required", ErrValidationFailed)
	ErrSameAirports         = fmt.Errorf("%w: departure and arrival airports must differ", ErrValidationFailed)
)

// FlightService provides business logic for flights and their lifecycle.
type FlightService struct {
	flightRepo   repository.FlightRepository
	documentRepo repository.DocumentRepository
	airportRepo  repository.AirportRepository
	store        storage.Store
	logger       *zap.Logger
}

// NewFlightService creates a new FlightService.
func NewFlightService(
	flightRepo repository.FlightRepository,
	documentRepo repository.DocumentRepository,
	airportRepo repository.AirportRepository,
	store storage.Store,
	logger *zap.Logger,
) *FlightService {
	return &FlightService{
		flightRepo:   flightRepo,
		documentRepo: documentRepo,
		airportRepo:  airportRepo,
		store:        store,
		logger:       logger.With(zap.String("service", "flight_service")),
	}
}

// ListFlightsInput represents filters for listing flights.
type ListFlightsInput struct {
	FlightID    *uint64
	DepartureOn *time.Time
	Page        int
	PageSize    int
}

// ListFlights returns the flights visible to actor.
func (s *FlightService) ListFlights(actor rbac.Actor, input ListFlightsInput) ([]models.Flight, int64, error) {
	scope, err := s.flightScope(actor)
	if err != nil {
		return nil, 0, err
	}

	flights, total, err := s.flightRepo.List(repository.FlightFilter{
		Scope:       scope,
		FlightID:    input.FlightID,
		DepartureOn: input.DepartureOn,
		Page:        input.Page,
		PageSize:    input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list flights: %w", err)
	}
	return flights, total, nil
}

// SearchFlights looks a flight up by id or departure day; at least one is required.
func (s *FlightService) SearchFlights(actor rbac.Actor, flightID *uint64, departureOn *time.Time) ([]models.Flight, error) {
	if flightID == nil && departureOn == nil {
		return []models.Flight{}, nil
	}
	flights, _, err := s.ListFlights(actor, ListFlightsInput{FlightID: flightID, DepartureOn: departureOn})
	return flights, err
}

// GetFlight returns a flight with its airports and roster.
func (s *FlightService) GetFlight(actor rbac.Actor, id uint64) (*models.Flight, error) {
	flight, err := s.findFlight(id, "DepartureAirport", "ArrivalAirport", "Roster.User")
	if err != nil {
		return nil, err
	}

	scope, err := s.flightScope(actor)
	if err != nil {
		return nil, err
	}
	if !scope.Allows(flight.ID) {
		return nil, rbac.ErrNotPermitted
	}
	return flight, nil
}

// CreateFlightInput represents parameters to schedule a new flight.
type CreateFlightInput struct {
	DepartureDate      time.Time
	AircraftType       string
	DepartureAirportID uint64
	ArrivalAirportID   uint64
}

// CreateFlight schedules a flight. New flights always start NOT_DEPARTED.
func (s *FlightService) CreateFlight(actor rbac.Actor, input CreateFlightInput) (*models.Flight, error) {
	if !rbac.HasElevatedOperationalPrivilege(actor.Role) {
		return nil, rbac.ErrNotPermitted
	}

	aircraftType := strings.TrimSpace(input.AircraftType)
	if aircraftType == "" {
		return nil, ErrAircraftTypeRequired
	}
	if input.DepartureDate.IsZero() {
		return nil, ErrDepartureRequired
	}
	if input.DepartureAirportID == input.ArrivalAirportID {
		return nil, ErrSameAirports
	}
	for _, id := range []uint64{input.DepartureAirportID, input.ArrivalAirportID} {
		if _, err := s.airportRepo.FindByID(id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAirportNotFound
			}
			return nil, fmt.Errorf("failed to find airport: %w", err)
		}
	}

	flight := &models.Flight{
		DepartureDate:      input.DepartureDate,
		AircraftType:       aircraftType,
		Status:             flightstate.Initial(),
		DepartureAirportID: input.DepartureAirportID,
		ArrivalAirportID:   input.ArrivalAirportID,
	}
	if err := s.flightRepo.Create(flight); err != nil {
		return nil, fmt.Errorf("failed to create flight: %w", err)
	}

	s.logger.Info("flight created", zap.Uint64("flight_id", flight.ID), zap.Uint64("actor_id", actor.UserID))
	return flight, nil
}

// UpdateDepartureDate reschedules a flight that has not departed.
func (s *FlightService) UpdateDepartureDate(actor rbac.Actor, id uint64, departure time.Time) (*models.Flight, error) {
	if !rbac.HasElevatedOperationalPrivilege(actor.Role) {
		return nil, rbac.ErrNotPermitted
	}
	if departure.IsZero() {
		return nil, ErrDepartureRequired
	}

	flight, err := s.findFlight(id)
	if err != nil {
		return nil, err
	}
	if err := flightstate.CanMutateFlight(flight.Status); err != nil {
		return nil, err
	}

	flight.DepartureDate = departure
	if err := s.flightRepo.Update(flight); err != nil {
		return nil, fmt.Errorf("failed to update flight: %w", err)
	}
	return flight, nil
}

// AdvanceStatus moves a flight one step along its lifecycle. Reaching LANDED
// releases the roster. A concurrent advance that got there first makes this
// call fail with ErrInvalidTransition.
func (s *FlightService) AdvanceStatus(actor rbac.Actor, id uint64) (*models.Flight, error) {
	if !rbac.HasElevatedOperationalPrivilege(actor.Role) {
		return nil, rbac.ErrNotPermitted
	}

	flight, err := s.findFlight(id)
	if err != nil {
		return nil, err
	}

	from := flight.Status
	to, effects, err := flightstate.Advance(from)
	if err != nil {
		return nil, err
	}

	if err := s.flightRepo.AdvanceStatus(flight.ID, from, to, effects, time.Now()); err != nil {
		if errors.Is(err, repository.ErrStatusConflict) {
			return nil, flightstate.ErrInvalidTransition
		}
		return nil, fmt.Errorf("failed to advance flight status: %w", err)
	}

	flight.Status = to
	s.logger.Info("flight status advanced",
		zap.Uint64("flight_id", flight.ID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)
	return flight, nil
}

// DeleteFlight removes a flight that has not departed, with its documents and
// their stored files.
func (s *FlightService) DeleteFlight(ctx context.Context, actor rbac.Actor, id uint64) error {
	if !rbac.HasElevatedOperationalPrivilege(actor.Role) {
		return rbac.ErrNotPermitted
	}

	flight, err := s.findFlight(id)
	if err != nil {
		return err
	}
	if err := flightstate.CanMutateFlight(flight.Status); err != nil {
		return err
	}

	docs, err := s.documentRepo.ListByFlight(flight.ID)
	if err != nil {
		return fmt.Errorf("failed to list flight documents: %w", err)
	}

	if err := s.flightRepo.Delete(flight.ID); err != nil {
		return fmt.Errorf("failed to delete flight: %w", err)
	}

	for _, doc := range docs {
		if doc.FilePath == "" {
			continue
		}
		if err := s.store.Delete(ctx, doc.FilePath); err != nil {
			s.logger.Warn("failed to remove stored file",
				zap.Uint64("document_id", doc.ID),
				zap.String("path", doc.FilePath),
				zap.Error(err),
			)
		}
	}
	return nil
}

// FlightDocuments lists the documents of a visible flight whose title contains name.
func (s *FlightService) FlightDocuments(actor rbac.Actor, flightID uint64, name string) ([]models.Document, error) {
	if _, err := s.GetFlight(actor, flightID); err != nil {
		return nil, err
	}

	docs, _, err := s.documentRepo.List(repository.DocumentFilter{
		Scope:    rbac.Scope{FlightIDs: []uint64{flightID}},
		FlightID: &flightID,
		Title:    strings.TrimSpace(name),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list flight documents: %w", err)
	}
	return docs, nil
}

func (s *FlightService) flightScope(actor rbac.Actor) (rbac.Scope, error) {
	if rbac.HasElevatedOperationalPrivilege(actor.Role) {
		return rbac.FlightScope(actor, nil), nil
	}
	ids, err := s.flightRepo.RosterFlightIDs(actor.UserID)
	if err != nil {
		return rbac.Scope{}, fmt.Errorf("failed to resolve roster: %w", err)
	}
	return rbac.FlightScope(actor, ids), nil
}

func (s *FlightService) findFlight(id uint64, preload ...string) (*models.Flight, error) {
	flight, err := s.flightRepo.FindByID(id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, fmt.Errorf("failed to find flight: %w", err)
	}
	return flight, nil
}
