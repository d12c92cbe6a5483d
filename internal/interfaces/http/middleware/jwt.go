package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/feedoffice/backend/internal/infrastructure/auth"
	"github.com/feedoffice/backend/internal/infrastructure/logger"
	"github.com/feedoffice/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// JWT context keys
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTUsernameKey = "jwt_username"
	JWTRoleKey     = "jwt_role"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
	// AccessTokenCookie carries the access token for browser clients
	AccessTokenCookie = "access_token"
	// RefreshTokenCookie carries the refresh token for browser clients
	RefreshTokenCookie = "refresh_token"
)

// Authenticator fully verifies an access token
type Authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (*auth.Claims, error)
}

// JWTAuth rejects requests without a valid, unrevoked access token. The
// token is read from the Authorization header, then the access_token cookie.
func JWTAuth(authenticator Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractAccessToken(c)
		if token == "" {
			abortAuth(c, shared.ErrUnauthorized.WithMessage("Authentication required"))
			return
		}

		claims, err := authenticator.Authenticate(c.Request.Context(), token)
		if err != nil {
			abortAuth(c, err)
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTUsernameKey, claims.Username)
		c.Set(JWTRoleKey, claims.Role)
		c.Request = c.Request.WithContext(logger.WithUserID(c.Request.Context(), claims.UserID))
		c.Next()
	}
}

// ExtractAccessToken returns the bearer token or the access cookie, or ""
func ExtractAccessToken(c *gin.Context) string {
	if header := c.GetHeader(AuthHeaderKey); strings.HasPrefix(header, BearerPrefix) {
		if token := strings.TrimSpace(strings.TrimPrefix(header, BearerPrefix)); token != "" {
			return token
		}
	}
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil {
		return cookie
	}
	return ""
}

func abortAuth(c *gin.Context, err error) {
	code, message := dto.ErrCodeInternal, dto.InternalErrorMessage
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code, message = domainErr.Code, domainErr.Message
	}
	logger.FromContext(c.Request.Context()).Warn("authentication failed",
		zap.String("path", c.Request.URL.Path),
		zap.String("code", code),
		zap.Error(err))

	status := dto.GetHTTPStatus(code)
	if status >= 500 {
		code, message = dto.ErrCodeInternal, dto.InternalErrorMessage
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, message, c.GetString("request_id")))
}

// GetJWTClaims retrieves JWT claims from gin.Context
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// GetJWTUserID retrieves the admin id as a UUID
func GetJWTUserID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.GetString(JWTUserIDKey))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetJWTRole retrieves the admin role from JWT claims in context
func GetJWTRole(c *gin.Context) string {
	return c.GetString(JWTRoleKey)
}

// RequireRole allows only admins holding one of roles. It must run after JWTAuth.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		if _, ok := allowed[GetJWTRole(c)]; !ok {
			c.AbortWithStatusJSON(dto.GetHTTPStatus(dto.ErrCodeForbidden),
				dto.NewErrorResponse(dto.ErrCodeForbidden, "You do not have permission to perform this action", c.GetString("request_id")))
			return
		}
		c.Next()
	}
}
