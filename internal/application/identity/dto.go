package identity

import (
	"time"

	"github.com/feedoffice/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// LoginInput represents login credentials
type LoginInput struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,max=72"`
}

// LoginResult represents the issued session
type LoginResult struct {
	AccessToken           string            `json:"access_token"`
	RefreshToken          string            `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time         `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time         `json:"refresh_token_expires_at"`
	TokenType             string            `json:"token_type"`
	User                  AdminUserResponse `json:"user"`
}

// RefreshTokenInput carries a refresh token. Handlers fall back to the
// refresh cookie when the body is empty.
type RefreshTokenInput struct {
	RefreshToken string `json:"refresh_token"`
}

// LogoutInput identifies the tokens to revoke
type LogoutInput struct {
	AccessJTI      string
	AccessTokenTTL time.Duration
	RefreshToken   string
}

// CreateAdminUserRequest represents a request to create an admin user
type CreateAdminUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	FullName string `json:"full_name" binding:"max=200"`
	Role     string `json:"role" binding:"omitempty,oneof=ADMIN STAFF"`
}

// ChangePasswordRequest represents a password change. CurrentPassword is
// required when users change their own password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"max=72"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// UpdateStatusRequest activates or deactivates an admin user
type UpdateStatusRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// AdminUserResponse represents an admin user in API responses
type AdminUserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"full_name"`
	Role        string     `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ToAdminUserResponse converts an admin user to a response
func ToAdminUserResponse(u *identity.AdminUser) AdminUserResponse {
	return AdminUserResponse{
		ID:          u.ID,
		Username:    u.Username,
		FullName:    u.FullName,
		Role:        string(u.Role),
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}
