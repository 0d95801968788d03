package user

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"treasurecove/internal/domain/permission"
	"treasurecove/internal/domain/validation"
)

// Role is the coarse job title of a user. It only seeds default permissions.
type Role string

const (
	RoleSeniorAdmin Role = "SENIOR_ADMIN"
	RoleAdmin       Role = "ADMIN"
	RoleViewer      Role = "VIEWER"
)

// ValidRoles contains all valid role values.
var ValidRoles = []Role{RoleSeniorAdmin, RoleAdmin, RoleViewer}

// ProtectedID is the seed senior admin, which cannot be edited or deactivated.
const ProtectedID = 1

// Password hashing parameters.
const (
	MinPasswordLength = 8
	DefaultCost       = 12
)

// Domain errors
var (
	ErrInvalidRole      = errors.New("role must be one of: SENIOR_ADMIN, ADMIN, VIEWER")
	ErrEmptyPassword    = errors.New("password cannot be empty")
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters", MinPasswordLength)
	ErrWrongPassword    = errors.New("incorrect password")
)

// User is an operator of the tool.
type User struct {
	ID           int            `json:"id"`
	Username     string         `json:"username"`
	PasswordHash string         `json:"password_hash"`
	Role         Role           `json:"role"`
	Active       bool           `json:"active"`
	CreatedBy    string         `json:"created_by"`
	CreatedAt    time.Time      `json:"created_date"`
	LastLogin    *time.Time     `json:"last_login"`
	Permissions  permission.Set `json:"individual_permissions"`
}

// ParseRole converts user input to a Role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	for _, v := range ValidRoles {
		if v == r {
			return r, nil
		}
	}
	return "", ErrInvalidRole
}

// DefaultPermissions is the checkbox state offered when a role is picked.
// The stored set on each user stays authoritative.
func DefaultPermissions(r Role) permission.Set {
	switch r {
	case RoleSeniorAdmin:
		return permission.AllSet()
	case RoleAdmin:
		return permission.NewSet(
			permission.EditAllAudits,
			permission.ViewAllAudits,
			permission.CreateAudits,
			permission.ManageLifeguards,
			permission.ViewActivityLog,
			permission.ExportData,
		)
	case RoleViewer:
		return permission.NewSet(permission.ViewAllAudits)
	}
	return 0
}

// Validate checks if the User has valid data.
// PRE: User struct is populated
// POST: Returns nil if valid, a *validation.Error otherwise
func (u *User) Validate() error {
	if err := validation.Required("username", u.Username); err != nil {
		return err
	}
	if _, err := ParseRole(string(u.Role)); err != nil {
		return validation.New("role", err.Error())
	}
	if u.PasswordHash == "" {
		return validation.New("password", ErrEmptyPassword.Error())
	}
	return nil
}

// Can reports whether the user holds capability c.
func (u User) Can(c permission.Capability) bool {
	return u.Permissions.Has(c)
}

// IsProtected reports whether the user is the seed senior admin.
func (u User) IsProtected() bool {
	return u.ID == ProtectedID
}

// HashPassword returns a bcrypt hash of plaintext.
// PRE: plaintext is non-empty and >= MinPasswordLength characters
func HashPassword(plaintext string, cost int) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if len(plaintext) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	return ImportPassword(plaintext, cost)
}

// ImportPassword hashes a password carried over from stored data without
// applying the length policy, which older records may predate.
// PRE: plaintext is non-empty
func ImportPassword(plaintext string, cost int) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyPassword
	}
	if cost < bcrypt.MinCost {
		cost = DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// SetPassword hashes and stores a password.
// POST: PasswordHash is set to bcrypt hash
func (u *User) SetPassword(plaintext string, cost int) error {
	hash, err := HashPassword(plaintext, cost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash.
// INVARIANT: User fields are not mutated
func (u *User) CheckPassword(plaintext string) error {
	if u.PasswordHash == "" {
		return ErrWrongPassword
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(plaintext)); err != nil {
		return ErrWrongPassword
	}
	return nil
}

var (
	dummyOnce sync.Once
	dummyHash []byte
)

// BurnCompare spends the same work as CheckPassword against a throwaway hash.
// Used when no account matched so response time does not reveal that.
func BurnCompare(plaintext string, cost int) {
	dummyOnce.Do(func() {
		if cost < bcrypt.MinCost {
			cost = DefaultCost
		}
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte("treasure-cove-placeholder"), cost)
	})
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(plaintext))
}
