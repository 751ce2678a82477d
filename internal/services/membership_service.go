package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/flight-docs-api/internal/flightstate"
	"github.com/yukikurage/flight-docs-api/internal/models"
	"github.com/yukikurage/flight-docs-api/internal/rbac"
	"github.com/yukikurage/flight-docs-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// MembershipService assigns users to flight rosters.
type MembershipService struct {
	flightRepo repository.FlightRepository
	userRepo   repository.UserRepository
	logger     *zap.Logger
}

// NewMembershipService creates a new MembershipService.
func NewMembershipService(
	flightRepo repository.FlightRepository,
	userRepo repository.UserRepository,
	logger *zap.Logger,
) *MembershipService {
	return &MembershipService{
		flightRepo: flightRepo,
		userRepo:   userRepo,
		logger:     logger.With(zap.String("service", "membership_service")),
	}
}

// AddUsers puts every user on the flight's roster with role, and makes role
// their account role. The actor must be allowed to act on every user.
// Either all users are assigned or none are.
func (s *MembershipService) AddUsers(ctx context.Context, actor rbac.Actor, flightID uint64, userIDs []uint64, role string) error {
	if !rbac.HasElevatedOperationalPrivilege(actor.Role) {
		return rbac.ErrNotPermitted
	}

	r, err := parseRosterRole(role)
	if err != nil {
		return err
	}

	ids := uniqueUint64(userIDs)
	if len(ids) == 0 {
		return ErrNoUserIDsProvided
	}

	flight, err := s.flightRepo.FindByID(flightID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFlightNotFound
		}
		return fmt.Errorf("failed to find flight: %w", err)
	}
	if err := flightstate.CanMutateFlight(flight.Status); err != nil {
		return err
	}

	users, err := s.userRepo.FindByIDs(ids)
	if err != nil {
		return fmt.Errorf("failed to look up users: %w", err)
	}
	if len(users) != len(ids) {
		return ErrUserNotFound
	}
	// Rostering overwrites the account role, so it is an action on each user.
	// Administrators are never rostered: landing would clear their role.
	for i := range users {
		target := users[i].AccountRole()
		if target == rbac.RoleAdmin || !rbac.MayActOnPeer(actor.Role, target) {
			return rbac.ErrNotPermitted
		}
	}

	if err := s.flightRepo.AssignRoster(flight.ID, ids, r, time.Now()); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsersMissing):
			return ErrUserNotFound
		case errors.Is(err, repository.ErrStatusConflict):
			return flightstate.ErrFlightNotMutable
		default:
			return fmt.Errorf("failed to assign roster: %w", err)
		}
	}

	s.logger.Info("roster assigned",
		zap.Uint64("flight_id", flight.ID),
		zap.Uint64s("user_ids", ids),
		zap.String("role", string(r)),
		zap.Uint64("actor_id", actor.UserID),
	)
	return nil
}

// Roster lists the entries of a flight, released ones included.
func (s *MembershipService) Roster(actor rbac.Actor, flightID uint64) ([]models.RosterEntry, error) {
	if !rbac.HasElevatedOperationalPrivilege(actor.Role) {
		return nil, rbac.ErrNotPermitted
	}
	if _, err := s.flightRepo.FindByID(flightID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFlightNotFound
		}
		return nil, fmt.Errorf("failed to find flight: %w", err)
	}

	entries, err := s.flightRepo.ListRoster(flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	return entries, nil
}
