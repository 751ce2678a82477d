package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/flight-docs-api/internal/models"
	"github.com/yukikurage/flight-docs-api/internal/rbac"
	"github.com/yukikurage/flight-docs-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrAirportNotFound    = errors.New("airport not found")
	ErrAirportCodeTaken   = errors.New("airport code already exists")
	ErrAirportInUse       = errors.New("airport is referenced by flights")
	ErrAirportNameMissing = fmt.Errorf("%w: airport name and code are required", ErrValidationFailed)
	ErrInvalidRunwayCount = fmt.Errorf("%w: runway count cannot be negative", ErrValidationFailed)
)

// AirportService manages the airport directory.
type AirportService struct {
	airportRepo repository.AirportRepository
	logger      *zap.Logger
}

// NewAirportService creates a new AirportService.
func NewAirportService(airportRepo repository.AirportRepository, logger *zap.Logger) *AirportService {
	return &AirportService{
		airportRepo: airportRepo,
		logger:      logger.With(zap.String("service", "airport_service")),
	}
}

// AirportInput holds the editable airport attributes.
type AirportInput struct {
	Name          string
	Code          string
	Address       string
	RunwayCount   int
	RunwayType    string
	IsOperational bool
	Level         string
	Notes         *string
}

func (s *AirportService) ListAirports(page, pageSize int) ([]models.Airport, int64, error) {
	airports, total, err := s.airportRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list airports: %w", err)
	}
	return airports, total, nil
}

func (s *AirportService) GetAirport(id uint64) (*models.Airport, error) {
	airport, err := s.airportRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAirportNotFound
		}
		return nil, fmt.Errorf("failed to find airport: %w", err)
	}
	return airport, nil
}

func (s *AirportService) CreateAirport(actor rbac.Actor, input AirportInput) (*models.Airport, error) {
	if !rbac.HasElevatedOperationalPrivilege(actor.Role) {
		return nil, rbac.ErrNotPermitted
	}
	input.Code = strings.ToUpper(strings.TrimSpace(input.Code))
	if err := validateAirport(input); err != nil {
		return nil, err
	}

	if _, err := s.airportRepo.FindByCode(input.Code); err == nil {
		return nil, ErrAirportCodeTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check airport code: %w", err)
	}

	airport := &models.Airport{}
	applyAirportInput(airport, input)
	if err := s.airportRepo.Create(airport); err != nil {
		return nil, fmt.Errorf("failed to create airport: %w", err)
	}
	return airport, nil
}

// UpdateAirport replaces the editable attributes. The code is fixed at creation.
func (s *AirportService) UpdateAirport(actor rbac.Actor, id uint64, input AirportInput) (*models.Airport, error) {
	if !rbac.HasElevatedOperationalPrivilege(actor.Role) {
		return nil, rbac.ErrNotPermitted
	}
	airport, err := s.GetAirport(id)
	if err != nil {
		return nil, err
	}

	input.Code = airport.Code
	if err := validateAirport(input); err != nil {
		return nil, err
	}

	applyAirportInput(airport, input)
	if err := s.airportRepo.Update(airport); err != nil {
		return nil, fmt.Errorf("failed to update airport: %w", err)
	}
	return airport, nil
}

func (s *AirportService) DeleteAirport(actor rbac.Actor, id uint64) error {
	if !rbac.HasElevatedOperationalPrivilege(actor.Role) {
		return rbac.ErrNotPermitted
	}
	if _, err := s.GetAirport(id); err != nil {
		return err
	}

	inUse, err := s.airportRepo.InUse(id)
	if err != nil {
		return fmt.Errorf("failed to check airport usage: %w", err)
	}
	if inUse {
		return ErrAirportInUse
	}

	if err := s.airportRepo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete airport: %w", err)
	}
	return nil
}

func validateAirport(input AirportInput) error {
	if strings.TrimSpace(input.Name) == "" || input.Code == "" {
		return ErrAirportNameMissing
	}
	if input.RunwayCount < 0 {
		return ErrInvalidRunwayCount
	}
	return nil
}

func applyAirportInput(airport *models.Airport, input AirportInput) {
	airport.Name = strings.TrimSpace(input.Name)
	airport.Code = input.Code
	airport.Address = input.Address
	airport.RunwayCount = input.RunwayCount
	airport.RunwayType = input.RunwayType
	airport.IsOperational = input.IsOperational
	airport.Level = input.Level
	airport.Notes = input.Notes
}
