package identity

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/feedoffice/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// Role is the permission level of an admin user
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "STAFF"
)

// IsValid returns true if the role is known
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// Password cost for bcrypt
const bcryptCost = 12

var (
	ErrAdminUserNotFound  = shared.NewDomainError(shared.CodeAdminUserNotFound, "Admin user not found")
	ErrUsernameExists     = shared.NewDomainError(shared.CodeUsernameExists, "Username already exists")
	ErrInvalidCredentials = shared.NewDomainError(shared.CodeInvalidCredentials, "Invalid username or password")
	ErrAccountDisabled    = shared.NewDomainError(shared.CodeAccountDisabled, "Account is disabled")
)

var (
	usernameRegex = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	hasLetter     = regexp.MustCompile(`[a-zA-Z]`)
	hasNumber     = regexp.MustCompile(`[0-9]`)
)

// AdminUser is an office user who operates the dashboard
type AdminUser struct {
	shared.BaseAggregateRoot
	Username     string
	PasswordHash string
	FullName     string
	Role         Role
	IsActive     bool
	LastLoginAt  *time.Time
}

// NewAdminUser creates an active admin user with a hashed password
func NewAdminUser(username, password, fullName string, role Role) (*AdminUser, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if role == "" {
		role = RoleStaff
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Role must be ADMIN or STAFF")
	}

	u := &AdminUser{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(strings.TrimSpace(username)),
		FullName:          strings.TrimSpace(fullName),
		Role:              role,
		IsActive:          true,
	}
	if err := u.SetPassword(password); err != nil {
		return nil, err
	}
	return u, nil
}

// SetPassword replaces the password hash
func (u *AdminUser) SetPassword(password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	u.PasswordHash = string(hash)
	u.Touch()
	return nil
}

// ChangePassword verifies the current password before replacing it
func (u *AdminUser) ChangePassword(current, next string) error {
	if !u.VerifyPassword(current) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Current password is incorrect")
	}
	return u.SetPassword(next)
}

// VerifyPassword verifies if the provided password matches
func (u *AdminUser) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// CanLogin returns nil when the user may authenticate
func (u *AdminUser) CanLogin() error {
	if !u.IsActive {
		return ErrAccountDisabled
	}
	return nil
}

// RecordLogin stamps a successful login
func (u *AdminUser) RecordLogin() {
	now := time.Now()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// SetActive enables or disables the account
func (u *AdminUser) SetActive(active bool) {
	u.IsActive = active
	u.Touch()
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if len(username) < 3 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Username must be at least 3 characters")
	}
	if len(username) > 100 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Username cannot exceed 100 characters")
	}
	if !usernameRegex.MatchString(username) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Username can only contain letters, numbers, underscores, hyphens, and dots")
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 8 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Password must be at least 8 characters")
	}
	if len(password) > 72 {
		return shared.NewDomainError(shared.CodeInvalidInput, "Password cannot exceed 72 characters")
	}
	if !hasLetter.MatchString(password) || !hasNumber.MatchString(password) {
		return shared.NewDomainError(shared.CodeInvalidInput, "Password must contain at least one letter and one number")
	}
	return nil
}
