// Package dto holds the JSON envelope shared by every API response and the
// mapping from error codes to HTTP statuses.
package dto

import "github.com/feedoffice/backend/internal/domain/shared"

// Response is the envelope of every API response
type Response struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorInfo `json:"error,omitempty"`
	Meta    *Meta      `json:"meta,omitempty"`
}

// ErrorInfo represents error details
type ErrorInfo struct {
	Code      string             `json:"code"`
	Message   string             `json:"message"`
	RequestID string             `json:"request_id,omitempty"`
	Details   []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail describes one field that failed validation
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Meta represents pagination metadata
type Meta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewMessageResponse creates a success response with a message and optional data
func NewMessageResponse(message string, data any) Response {
	return Response{Success: true, Message: message, Data: data}
}

// NewPaginatedResponse moves a page's items into data and its counters into meta
func NewPaginatedResponse[T any](page shared.Paginated[T]) Response {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	return Response{
		Success: true,
		Data:    items,
		Meta: &Meta{
			Total:      page.Total,
			Page:       page.Page,
			PageSize:   page.PageSize,
			TotalPages: page.TotalPages,
		},
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(code, message, requestID string) Response {
	return Response{
		Success: false,
		Error:   &ErrorInfo{Code: code, Message: message, RequestID: requestID},
	}
}

// NewValidationErrorResponse creates a VALIDATION_ERROR response with field details
func NewValidationErrorResponse(requestID string, details []ValidationDetail) Response {
	return Response{
		Success: false,
		Error: &ErrorInfo{
			Code:      ErrCodeValidation,
			Message:   "Request validation failed",
			RequestID: requestID,
			Details:   details,
		},
	}
}
