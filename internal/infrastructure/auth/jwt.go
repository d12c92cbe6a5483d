package auth

import (
	"errors"
	"time"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/feedoffice/backend/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenType represents the type of JWT token
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

var (
	ErrExpiredToken = shared.NewDomainError(shared.CodeTokenExpired, "Token has expired")
	ErrInvalidToken = shared.NewDomainError(shared.CodeTokenInvalid, "Token is invalid")
	ErrRevokedToken = shared.NewDomainError(shared.CodeTokenRevoked, "Token has been revoked")
)

// Claims represents the admin session claims
type Claims struct {
	jwt.RegisteredClaims
	UserID    string    `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	TokenType TokenType `json:"token_type"`
}

// Subject identifies the admin user a token is issued for
type Subject struct {
	UserID   uuid.UUID
	Username string
	Role     string
}

// TokenPair represents an access and refresh token pair
type TokenPair struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"` // Bearer
}

// JWTService signs and verifies HS256 tokens with a single shared secret
type JWTService struct {
	secret            []byte
	accessExpiration  time.Duration
	refreshExpiration time.Duration
	issuer            string
	now               func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.JWTConfig) *JWTService {
	return &JWTService{
		secret:            []byte(cfg.Secret),
		accessExpiration:  cfg.AccessTokenExpiration,
		refreshExpiration: cfg.RefreshTokenExpiration,
		issuer:            cfg.Issuer,
		now:               time.Now,
	}
}

// WithClock replaces the time source used to issue and verify tokens
func (s *JWTService) WithClock(now func() time.Time) *JWTService {
	s.now = now
	return s
}

// GenerateTokenPair issues a fresh access and refresh token for sub
func (s *JWTService) GenerateTokenPair(sub Subject) (*TokenPair, error) {
	now := s.now()

	accessToken, accessExp, err := s.sign(sub, TokenTypeAccess, now, s.accessExpiration)
	if err != nil {
		return nil, err
	}
	refreshToken, refreshExp, err := s.sign(sub, TokenTypeRefresh, now, s.refreshExpiration)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:           accessToken,
		RefreshToken:          refreshToken,
		AccessTokenExpiresAt:  accessExp,
		RefreshTokenExpiresAt: refreshExp,
		TokenType:             "Bearer",
	}, nil
}

func (s *JWTService) sign(sub Subject, tokenType TokenType, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			Subject:   sub.UserID.String(),
			ExpiresAt: jwt.NewNumericDate(exp),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID:    sub.UserID.String(),
		Username:  sub.Username,
		Role:      sub.Role,
		TokenType: tokenType,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ValidateAccessToken validates an access token and returns its claims
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.validateToken(tokenString, TokenTypeAccess)
}

// ValidateRefreshToken validates a refresh token and returns its claims
func (s *JWTService) ValidateRefreshToken(tokenString string) (*Claims, error) {
	return s.validateToken(tokenString, TokenTypeRefresh)
}

// validateToken checks signature, algorithm (HS256 only, so alg=none and
// RS/ES confusion are rejected), exp/nbf, issuer and token type.
func (s *JWTService) validateToken(tokenString string, expectedType TokenType) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken.Wrap(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != expectedType {
		return nil, ErrInvalidToken.WithMessage("Wrong token type")
	}
	if _, err := uuid.Parse(claims.UserID); err != nil || claims.ID == "" {
		return nil, ErrInvalidToken.WithMessage("Token is missing required claims")
	}
	return claims, nil
}

// GetUserUUID extracts and parses the user ID from claims
func (c *Claims) GetUserUUID() (uuid.UUID, error) {
	return uuid.Parse(c.UserID)
}

// GetRemainingTTL returns the remaining time until the token expires
func (c *Claims) GetRemainingTTL() time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	remaining := time.Until(c.ExpiresAt.Time)
	if remaining < 0 {
		return 0
	}
	return remaining
}

// GetAccessTokenExpiration returns the access token expiration duration
func (s *JWTService) GetAccessTokenExpiration() time.Duration {
	return s.accessExpiration
}

// GetRefreshTokenExpiration returns the refresh token expiration duration
func (s *JWTService) GetRefreshTokenExpiration() time.Duration {
	return s.refreshExpiration
}
