package handler

import (
	identityapp "github.com/feedoffice/backend/internal/application/identity"
	"github.com/feedoffice/backend/internal/domain/identity"
	"github.com/feedoffice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AdminUserHandler manages office accounts
type AdminUserHandler struct {
	BaseHandler
	adminService *identityapp.AdminUserService
}

// NewAdminUserHandler creates a new AdminUserHandler
func NewAdminUserHandler(adminService *identityapp.AdminUserService) *AdminUserHandler {
	return &AdminUserHandler{adminService: adminService}
}

// List returns every admin user
func (h *AdminUserHandler) List(c *gin.Context) {
	users, err := h.adminService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, users)
}

// Create adds an admin user
func (h *AdminUserHandler) Create(c *gin.Context) {
	var req identityapp.CreateAdminUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.adminService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// ChangePassword changes a password. Staff may only change their own.
func (h *AdminUserHandler) ChangePassword(c *gin.Context) {
	actorID, ok := h.adminID(c)
	if !ok {
		return
	}
	userID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req identityapp.ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}
	role := identity.Role(middleware.GetJWTRole(c))
	if err := h.adminService.ChangePassword(c.Request.Context(), actorID, role, userID, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessMessage(c, "Password changed", nil)
}

// SetStatus activates or deactivates an admin user
func (h *AdminUserHandler) SetStatus(c *gin.Context) {
	actorID, ok := h.adminID(c)
	if !ok {
		return
	}
	userID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req identityapp.UpdateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	user, err := h.adminService.SetStatus(c.Request.Context(), actorID, userID, *req.IsActive)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
