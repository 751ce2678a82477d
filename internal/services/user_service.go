package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yukikurage/flight-docs-api/internal/auth"
	"github.com/yukikurage/flight-docs-api/internal/constants"
	"github.com/yukikurage/flight-docs-api/internal/models"
	"github.com/yukikurage/flight-docs-api/internal/notify"
	"github.com/yukikurage/flight-docs-api/internal/rbac"
	"github.com/yukikurage/flight-docs-api/internal/repository"
	"github.com/yukikurage/flight-docs-api/internal/utils"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken           = errors.New("email already exists")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrRoleNotAssigned      = errors.New("user role is not assigned")
	ErrUserNotFound         = errors.New("user not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrSameOwner            = fmt.Errorf("%w: new owner must be another user", ErrValidationFailed)
)

// UserService handles accounts, authentication and role administration.
type UserService struct {
	userRepo    repository.UserRepository
	tokens      *auth.TokenIssuer
	notifier    notify.Notifier
	emailDomain string
	logger      *zap.Logger
}

// NewUserService creates a new UserService.
func NewUserService(
	userRepo repository.UserRepository,
	tokens *auth.TokenIssuer,
	notifier notify.Notifier,
	emailDomain string,
	logger *zap.Logger,
) *UserService {
	if emailDomain == "" {
		emailDomain = constants.DefaultEmailDomain
	}
	return &UserService{
		userRepo:    userRepo,
		tokens:      tokens,
		notifier:    notifier,
		emailDomain: emailDomain,
		logger:      logger.With(zap.String("service", "user_service")),
	}
}

// RegisterInput represents the information needed to create an account.
type RegisterInput struct {
	Email       string
	Username    string
	Password    string
	PhoneNumber string
	Role        string
}

// Register creates an account and mails the credentials to it.
func (s *UserService) Register(ctx context.Context, actor rbac.Actor, input RegisterInput) (*models.User, error) {
	if !rbac.IsAdministrator(actor.Role) {
		return nil, rbac.ErrNotPermitted
	}

	email := normalizeEmail(input.Email)
	if err := validateEmailDomain(email, s.emailDomain); err != nil {
		return nil, err
	}
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	if err := validatePassword(input.Password); err != nil {
		return nil, err
	}
	if err := validatePhoneNumber(input.PhoneNumber); err != nil {
		return nil, err
	}

	role := rbac.RoleNone
	if strings.TrimSpace(input.Role) != "" {
		r, err := parseAssignableRole(input.Role)
		if err != nil {
			return nil, err
		}
		role = r
	}

	if err := s.ensureEmailAvailable(email, 0); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrFailedToHashPassword
	}

	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: string(hashedPassword),
		PhoneNumber:  input.PhoneNumber,
		Role:         models.RolePtr(role),
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", zap.Uint64("user_id", user.ID), zap.Uint64("actor_id", actor.UserID))
	if err := s.notifier.SendWelcome(ctx, user.Email, user.Username, input.Password); err != nil {
		s.logger.Warn("failed to send welcome mail", zap.Uint64("user_id", user.ID), zap.Error(err))
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult is an authenticated user and the bearer token issued to it.
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

// Login verifies credentials and issues a token. Accounts without a role
// cannot sign in.
func (s *UserService) Login(input LoginInput) (*LoginResult, error) {
	email := normalizeEmail(input.Email)
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if err := validateEmailDomain(email, s.emailDomain); err != nil {
		return nil, err
	}
	if !user.AccountRole().Assigned() {
		return nil, ErrRoleNotAssigned
	}

	token, expiresAt, err := s.tokens.Issue(user.ID, user.AccountRole())
	if err != nil {
		return nil, err
	}

	return &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}, nil
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	return user, nil
}

// Actor resolves the current role of a user for the request in progress.
func (s *UserService) Actor(userID uint64) (rbac.Actor, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return rbac.Actor{}, err
	}
	return rbac.Actor{UserID: user.ID, Role: user.AccountRole()}, nil
}

// GetUserFor returns a user to an elevated actor, or to the user themselves.
func (s *UserService) GetUserFor(actor rbac.Actor, id uint64) (*models.User, error) {
	if actor.UserID != id && !rbac.HasElevatedOperationalPrivilege(actor.Role) {
		return nil, rbac.ErrNotPermitted
	}
	return s.GetUser(id)
}

// ListUsers returns every account, paginated.
func (s *UserService) ListUsers(actor rbac.Actor, page, pageSize int) ([]models.User, int64, error) {
	if !rbac.HasElevatedOperationalPrivilege(actor.Role) {
		return nil, 0, rbac.ErrNotPermitted
	}

	users, total, err := s.userRepo.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

// UsersByRole lists accounts holding a role; "None" lists unassigned accounts.
func (s *UserService) UsersByRole(actor rbac.Actor, role string) ([]models.User, error) {
	if !rbac.HasElevatedOperationalPrivilege(actor.Role) {
		return nil, rbac.ErrNotPermitted
	}

	r := rbac.RoleNone
	if !strings.EqualFold(strings.TrimSpace(role), rbac.RoleNone.String()) {
		parsed, err := parseAssignableRole(role)
		if err != nil {
			return nil, err
		}
		r = parsed
	}

	users, err := s.userRepo.ListByRole(r)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// UpdateUserInput holds the profile fields that may change. Nil fields are kept.
type UpdateUserInput struct {
	Email       *string
	Username    *string
	PhoneNumber *string
}

// UpdateUser edits another user's profile, subject to the peer rule.
func (s *UserService) UpdateUser(actor rbac.Actor, id uint64, input UpdateUserInput) (*models.User, error) {
	user, err := s.GetUser(id)
	if err != nil {
		return nil, err
	}
	if !rbac.MayActOnPeer(actor.Role, user.AccountRole()) {
		return nil, rbac.ErrNotPermitted
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if err := validateEmailDomain(email, s.emailDomain); err != nil {
			return nil, err
		}
		if err := s.ensureEmailAvailable(email, user.ID); err != nil {
			return nil, err
		}
		user.Email = email
	}
	if input.Username != nil {
		username := strings.TrimSpace(*input.Username)
		if username == "" {
			return nil, ErrUsernameRequired
		}
		user.Username = username
	}
	if input.PhoneNumber != nil {
		if err := validatePhoneNumber(*input.PhoneNumber); err != nil {
			return nil, err
		}
		user.PhoneNumber = *input.PhoneNumber
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser removes another user's account, subject to the peer rule.
func (s *UserService) DeleteUser(actor rbac.Actor, id uint64) error {
	user, err := s.GetUser(id)
	if err != nil {
		return err
	}
	if !rbac.MayActOnPeer(actor.Role, user.AccountRole()) {
		return rbac.ErrNotPermitted
	}

	if err := s.userRepo.Delete(user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	s.logger.Info("user deleted", zap.Uint64("user_id", user.ID), zap.Uint64("actor_id", actor.UserID))
	return nil
}

// ForgotPassword replaces the password with a random one and mails it.
func (s *UserService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to find user: %w", err)
	}

	password := utils.GeneratePassword(constants.ResetPasswordLength)
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return ErrFailedToHashPassword
	}
	user.PasswordHash = string(hashedPassword)

	if err := s.userRepo.Update(user); err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	if err := s.notifier.SendPasswordReset(ctx, user.Email, user.Username, password); err != nil {
		return fmt.Errorf("failed to deliver new password: %w", err)
	}
	return nil
}

// ChangeOwner hands the administrator role to another user by swapping roles.
func (s *UserService) ChangeOwner(actor rbac.Actor, newOwnerID uint64) error {
	if !rbac.IsAdministrator(actor.Role) {
		return rbac.ErrNotPermitted
	}
	if actor.UserID == newOwnerID {
		return ErrSameOwner
	}

	current, err := s.GetUser(actor.UserID)
	if err != nil {
		return err
	}
	newOwner, err := s.GetUser(newOwnerID)
	if err != nil {
		return err
	}

	if err := s.userRepo.SwapRoles(current, newOwner); err != nil {
		return fmt.Errorf("failed to change owner: %w", err)
	}
	s.logger.Info("ownership transferred", zap.Uint64("from", current.ID), zap.Uint64("to", newOwner.ID))
	return nil
}

func (s *UserService) ensureEmailAvailable(email string, exceptID uint64) error {
	existing, err := s.userRepo.FindByEmail(email)
	if err == nil {
		if existing.ID != exceptID {
			return ErrEmailTaken
		}
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check email: %w", err)
	}
	return nil
}
