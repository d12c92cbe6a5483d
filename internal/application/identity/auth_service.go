package identity

import (
	"context"
	"errors"

	"github.com/feedoffice/backend/internal/domain/identity"
	"github.com/feedoffice/backend/internal/infrastructure/auth"
	"github.com/feedoffice/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService handles admin sessions: login, token refresh, logout and
// verification of access tokens for the HTTP middleware.
type AuthService struct {
	users      identity.AdminUserRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
}

// NewAuthService creates a new authentication service
func NewAuthService(users identity.AdminUserRepository, jwtService *auth.JWTService, blacklist auth.TokenBlacklist) *AuthService {
	return &AuthService{users: users, jwtService: jwtService, blacklist: blacklist}
}

// Login authenticates an admin user and issues a token pair. Unknown users
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	log := logger.FromContext(ctx).With(zap.String("username", input.Username))

	user, err := s.users.FindByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, identity.ErrAdminUserNotFound) {
			log.Warn("login for unknown user")
			return nil, identity.ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.VerifyPassword(input.Password) {
		log.Warn("invalid password attempt")
		return nil, identity.ErrInvalidCredentials
	}
	if err := user.CanLogin(); err != nil {
		log.Warn("login attempt for disabled account")
		return nil, err
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	user.RecordLogin()
	if err := s.users.Save(ctx, user); err != nil {
		// the session is valid either way
		log.Error("failed to record login", zap.Error(err))
	}

	log.Info("admin logged in", zap.String("user_id", user.ID.String()))
	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToAdminUserResponse(user),
	}, nil
}

// Refresh exchanges a refresh token for a new pair. The old refresh token is
// revoked so each one can be used once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.verify(ctx, refreshToken, s.jwtService.ValidateRefreshToken)
	if err != nil {
		return nil, err
	}
	userID, _ := claims.GetUserUUID()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, identity.ErrAdminUserNotFound) {
			return nil, auth.ErrInvalidToken
		}
		return nil, err
	}
	if err := user.CanLogin(); err != nil {
		return nil, err
	}

	if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
		return nil, err
	}
	pair, err := s.issue(user)
	if err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("token refreshed", zap.String("user_id", user.ID.String()))
	return &LoginResult{
		AccessToken:           pair.AccessToken,
		RefreshToken:          pair.RefreshToken,
		AccessTokenExpiresAt:  pair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: pair.RefreshTokenExpiresAt,
		TokenType:             pair.TokenType,
		User:                  ToAdminUserResponse(user),
	}, nil
}

// Logout revokes the current access token and, when supplied and still
// valid, the refresh token.
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.AccessJTI != "" {
		if err := s.blacklist.Revoke(ctx, input.AccessJTI, input.AccessTokenTTL); err != nil {
			return err
		}
	}
	if input.RefreshToken != "" {
		if claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken); err == nil {
			if err := s.blacklist.Revoke(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
				return err
			}
		}
	}
	logger.FromContext(ctx).Info("admin logged out")
	return nil
}

// Authenticate fully verifies an access token: signature, algorithm,
// expiry, type and both blacklists.
func (s *AuthService) Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error) {
	return s.verify(ctx, accessToken, s.jwtService.ValidateAccessToken)
}

// Me returns the admin user behind the current session
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*AdminUserResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := ToAdminUserResponse(user)
	return &resp, nil
}

func (s *AuthService) verify(ctx context.Context, token string, validate func(string) (*auth.Claims, error)) (*auth.Claims, error) {
	claims, err := validate(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if !revoked && claims.IssuedAt != nil {
		revoked, err = s.blacklist.IsUserRevoked(ctx, claims.UserID, claims.IssuedAt.Time)
		if err != nil {
			return nil, err
		}
	}
	if revoked {
		return nil, auth.ErrRevokedToken
	}
	return claims, nil
}

func (s *AuthService) issue(user *identity.AdminUser) (*auth.TokenPair, error) {
	return s.jwtService.GenerateTokenPair(auth.Subject{
		UserID:   user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	})
}
