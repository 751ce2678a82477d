package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/yukikurage/flight-docs-api/internal/constants"
	"github.com/yukikurage/flight-docs-api/internal/rbac"
)

// ErrValidationFailed is wrapped by every input validation error.
var ErrValidationFailed = errors.New("validation failed")

var (
	ErrInvalidPhoneNumber = fmt.Errorf("%w: phone number must start with 0 and be exactly 10 digits", ErrValidationFailed)
	ErrPasswordTooShort   = fmt.Errorf("%w: password must be at least %d characters long", ErrValidationFailed, constants.MinPasswordLength)
	ErrPasswordNoUpper    = fmt.Errorf("%w: password must contain at least one uppercase letter", ErrValidationFailed)
	ErrPasswordNoSpecial  = fmt.Errorf("%w: password must contain at least one special character", ErrValidationFailed)
	ErrInvalidEmailDomain = fmt.Errorf("%w: email is outside the company domain", ErrValidationFailed)
	ErrInvalidRole        = fmt.Errorf("%w: role must be Admin, GroundOps, Pilot or Crew", ErrValidationFailed)
	ErrUsernameRequired   = fmt.Errorf("%w: username is required", ErrValidationFailed)
	ErrNoUserIDsProvided  = fmt.Errorf("%w: at least one user ID is required", ErrValidationFailed)
	ErrInvalidRosterRole  = fmt.Errorf("%w: roster role must be GroundOps, Pilot or Crew", ErrInvalidRole)
)

var (
	phonePattern   = regexp.MustCompile(`^0\d{9}$`)
	specialPattern = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

func validatePhoneNumber(phone string) error {
	if !phonePattern.MatchString(phone) {
		return ErrInvalidPhoneNumber
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < constants.MinPasswordLength {
		return ErrPasswordTooShort
	}
	if !strings.ContainsFunc(password, unicode.IsUpper) {
		return ErrPasswordNoUpper
	}
	if !specialPattern.MatchString(password) {
		return ErrPasswordNoSpecial
	}
	return nil
}

func validateEmailDomain(email, domain string) error {
	if !strings.HasSuffix(normalizeEmail(email), strings.ToLower(domain)) {
		return ErrInvalidEmailDomain
	}
	return nil
}

// parseAssignableRole accepts any operational role name; empty is rejected.
func parseAssignableRole(s string) (rbac.Role, error) {
	role, err := rbac.ParseRole(s)
	if err != nil {
		return rbac.RoleNone, ErrInvalidRole
	}
	return role, nil
}

// parseRosterRole is parseAssignableRole without Admin. Landing clears the
// role again, so an administrator can never be rostered.
func parseRosterRole(s string) (rbac.Role, error) {
	role, err := parseAssignableRole(s)
	if err != nil {
		return rbac.RoleNone, err
	}
	if role == rbac.RoleAdmin {
		return rbac.RoleNone, ErrInvalidRosterRole
	}
	return role, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// uniqueUint64 removes duplicate values from a slice of uint64
func uniqueUint64(values []uint64) []uint64 {
	seen := make(map[uint64]struct{}, len(values))
	result := make([]uint64, 0, len(values))

	for _, v := range values {
		if _, exists := seen[v]; exists {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
