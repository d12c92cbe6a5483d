package identity

import (
	"context"
	"time"

	"github.com/feedoffice/backend/internal/domain/identity"
	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/feedoffice/backend/internal/infrastructure/auth"
	"github.com/feedoffice/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AdminUserService manages office accounts
type AdminUserService struct {
	users     identity.AdminUserRepository
	blacklist auth.TokenBlacklist
	// sessionTTL is how long an issued token may live; revoking a user's
	// sessions must outlast it
	sessionTTL time.Duration
}

// NewAdminUserService creates a new AdminUserService
func NewAdminUserService(users identity.AdminUserRepository, blacklist auth.TokenBlacklist, sessionTTL time.Duration) *AdminUserService {
	return &AdminUserService{users: users, blacklist: blacklist, sessionTTL: sessionTTL}
}

// Create adds an active admin user; role defaults to STAFF
func (s *AdminUserService) Create(ctx context.Context, req CreateAdminUserRequest) (*AdminUserResponse, error) {
	exists, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, identity.ErrUsernameExists
	}

	user, err := identity.NewAdminUser(req.Username, req.Password, req.FullName, identity.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("admin user created",
		zap.String("username", user.Username),
		zap.String("role", string(user.Role)))
	resp := ToAdminUserResponse(user)
	return &resp, nil
}

// List returns every admin user
func (s *AdminUserService) List(ctx context.Context) ([]AdminUserResponse, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]AdminUserResponse, len(users))
	for i := range users {
		out[i] = ToAdminUserResponse(&users[i])
	}
	return out, nil
}

// SetStatus activates or deactivates a user. Deactivation ends the user's
// open sessions; nobody can deactivate themselves.
func (s *AdminUserService) SetStatus(ctx context.Context, actorID, userID uuid.UUID, active bool) (*AdminUserResponse, error) {
	if actorID == userID && !active {
		return nil, shared.ErrInvalidInput.WithMessage("You cannot deactivate your own account")
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.SetActive(active)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	if !active {
		if err := s.blacklist.RevokeUser(ctx, user.ID.String(), s.sessionTTL); err != nil {
			return nil, err
		}
	}

	logger.FromContext(ctx).Info("admin user status changed",
		zap.String("username", user.Username),
		zap.Bool("is_active", active))
	resp := ToAdminUserResponse(user)
	return &resp, nil
}

// ChangePassword replaces a password. Users changing their own password
// must give the current one; an ADMIN may reset anyone else's. Existing
// sessions of the user are revoked.
func (s *AdminUserService) ChangePassword(ctx context.Context, actorID uuid.UUID, actorRole identity.Role, userID uuid.UUID, req ChangePasswordRequest) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	switch {
	case actorID == userID:
		err = user.ChangePassword(req.CurrentPassword, req.NewPassword)
	case actorRole == identity.RoleAdmin:
		err = user.SetPassword(req.NewPassword)
	default:
		return shared.ErrUnauthorized
	}
	if err != nil {
		return err
	}

	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	if err := s.blacklist.RevokeUser(ctx, user.ID.String(), s.sessionTTL); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("admin password changed",
		zap.String("username", user.Username),
		zap.String("by", actorID.String()))
	return nil
}

// EnsureBootstrapAdmin creates the first ADMIN account on an empty system.
// It does nothing once any admin user exists or when no username is configured.
func (s *AdminUserService) EnsureBootstrapAdmin(ctx context.Context, username, password string) (bool, error) {
	if username == "" {
		return false, nil
	}
	count, err := s.users.Count(ctx)
	if err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}
	if _, err := s.Create(ctx, CreateAdminUserRequest{
		Username: username,
		Password: password,
		FullName: "Administrator",
		Role:     string(identity.RoleAdmin),
	}); err != nil {
		return false, err
	}
	return true, nil
}
