package handler

import (
	"errors"
	"net/http"

	"github.com/feedoffice/backend/internal/domain/shared"
	"github.com/feedoffice/backend/internal/infrastructure/logger"
	"github.com/feedoffice/backend/internal/interfaces/http/dto"
	"github.com/feedoffice/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessMessage sends a 200 response carrying a message
func (h *BaseHandler) SuccessMessage(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, dto.NewMessageResponse(message, data))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Paginated sends one page of results with meta
func Paginated[T any](c *gin.Context, page shared.Paginated[T]) {
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.ErrCodeBadRequest, message, getRequestID(c)))
}

// ValidationError sends a 400 VALIDATION_ERROR response for a binding failure
func (h *BaseHandler) ValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(getRequestID(c), middleware.ValidationDetails(err)))
}

// HandleError converts an error to a response. Domain errors map through
// the status table; anything else is logged and hidden behind a 500.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := getRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		if status < http.StatusInternalServerError {
			c.JSON(status, dto.NewErrorResponse(domainErr.Code, domainErr.Message, requestID))
			return
		}
	}

	_ = c.Error(err)
	logger.FromContext(c.Request.Context()).Error("request failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(dto.ErrCodeInternal, dto.InternalErrorMessage, requestID))
}

// bindJSON binds the body, answering 400 VALIDATION_ERROR on failure
func (h *BaseHandler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.ValidationError(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters, answering 400 VALIDATION_ERROR on failure
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		h.ValidationError(c, err)
		return false
	}
	return true
}

// pathID parses a UUID path parameter, answering 400 when malformed
func (h *BaseHandler) pathID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(getRequestID(c),
			[]dto.ValidationDetail{{Field: name, Message: "Invalid UUID format"}}))
		return uuid.Nil, false
	}
	return id, true
}

// queryID parses an optional UUID query parameter into *dst
func (h *BaseHandler) queryID(c *gin.Context, name string, dst **uuid.UUID) bool {
	raw := c.Query(name)
	if raw == "" {
		return true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(getRequestID(c),
			[]dto.ValidationDetail{{Field: name, Message: "Invalid UUID format"}}))
		return false
	}
	*dst = &id
	return true
}

// adminID returns the authenticated admin. JWTAuth guarantees it on
// protected routes, so a miss is answered as unauthorized.
func (h *BaseHandler) adminID(c *gin.Context) (uuid.UUID, bool) {
	id, ok := middleware.GetJWTUserID(c)
	if !ok {
		h.HandleError(c, shared.ErrUnauthorized)
		return uuid.Nil, false
	}
	return id, true
}
