package handler

import (
	"net/http"
	"strings"
	"time"

	identityapp "github.com/feedoffice/backend/internal/application/identity"
	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/feedoffice/backend/internal/infrastructure/config"
	"github.com/feedoffice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler serves login, refresh, logout and the current session
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
	cookie      config.CookieConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(authService *identityapp.AuthService, cookie config.CookieConfig) *AuthHandler {
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	return &AuthHandler{authService: authService, cookie: cookie}
}

// Login verifies credentials and issues a token pair, returned in the body
// and as HttpOnly cookies.
func (h *AuthHandler) Login(c *gin.Context) {
	var req identityapp.LoginInput
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.setSessionCookies(c, result)
	h.SuccessMessage(c, "Login successful", result)
}

// Refresh rotates the token pair. The refresh token comes from the body or
// the refresh cookie.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identityapp.RefreshTokenInput
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	token := strings.TrimSpace(req.RefreshToken)
	if token == "" {
		token, _ = c.Cookie(middleware.RefreshTokenCookie)
	}
	if token == "" {
		h.HandleError(c, shared.ErrUnauthorized.WithMessage("Refresh token required"))
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		h.clearSessionCookies(c)
		h.HandleError(c, err)
		return
	}
	h.setSessionCookies(c, result)
	h.Success(c, result)
}

// Logout revokes the current access token and, when supplied, the refresh
// token, then clears the cookies.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.HandleError(c, shared.ErrUnauthorized)
		return
	}
	var req identityapp.RefreshTokenInput
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	refresh := req.RefreshToken
	if refresh == "" {
		refresh, _ = c.Cookie(middleware.RefreshTokenCookie)
	}

	err := h.authService.Logout(c.Request.Context(), identityapp.LogoutInput{
		AccessJTI:      claims.ID,
		AccessTokenTTL: claims.GetRemainingTTL(),
		RefreshToken:   refresh,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.clearSessionCookies(c)
	h.SuccessMessage(c, "Logged out", nil)
}

// Me returns the authenticated admin user
func (h *AuthHandler) Me(c *gin.Context) {
	id, ok := h.adminID(c)
	if !ok {
		return
	}
	user, err := h.authService.Me(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

func (h *AuthHandler) setSessionCookies(c *gin.Context, result *identityapp.LoginResult) {
	h.setCookie(c, middleware.AccessTokenCookie, result.AccessToken, time.Until(result.AccessTokenExpiresAt))
	h.setCookie(c, middleware.RefreshTokenCookie, result.RefreshToken, time.Until(result.RefreshTokenExpiresAt))
}

func (h *AuthHandler) clearSessionCookies(c *gin.Context) {
	h.setCookie(c, middleware.AccessTokenCookie, "", -time.Second)
	h.setCookie(c, middleware.RefreshTokenCookie, "", -time.Second)
}

func (h *AuthHandler) setCookie(c *gin.Context, name, value string, ttl time.Duration) {
	c.SetSameSite(sameSite(h.cookie.SameSite))
	c.SetCookie(name, value, int(ttl.Seconds()), h.cookie.Path, h.cookie.Domain, h.cookie.Secure, true)
}

func sameSite(mode string) http.SameSite {
	switch strings.ToLower(mode) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
