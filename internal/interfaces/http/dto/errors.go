package dto

import (
	"net/http"
	"strings"

	"github.com/feedoffice/backend/internal/domain/shared"
)

// Codes produced only by the HTTP layer
const (
	ErrCodeInternal      = "INTERNAL_ERROR"
	ErrCodeBadRequest    = "BAD_REQUEST"
	ErrCodeForbidden     = "FORBIDDEN"
	ErrCodeRouteNotFound = "ROUTE_NOT_FOUND"
	ErrCodeValidation    = shared.CodeValidation
)

// InternalErrorMessage is the only detail clients see for unexpected errors
const InternalErrorMessage = "An unexpected error occurred"

var errorCodeHTTPStatus = map[string]int{
	// 404
	shared.CodeNotFound:                  http.StatusNotFound,
	shared.CodeCustomerNotFound:          http.StatusNotFound,
	shared.CodeOrderNotFound:             http.StatusNotFound,
	shared.CodeFeedCategoryNotFound:      http.StatusNotFound,
	shared.CodeRawMaterialNotFound:       http.StatusNotFound,
	shared.CodeSnapshotNotFound:          http.StatusNotFound,
	shared.CodeRefundNotFoundOrProcessed: http.StatusNotFound,
	shared.CodeAnimalTypeNotFound:        http.StatusNotFound,
	shared.CodeAdminUserNotFound:         http.StatusNotFound,
	shared.CodeProductionBatchNotFound:   http.StatusNotFound,
	ErrCodeRouteNotFound:                 http.StatusNotFound,

	// 400
	shared.CodeInsufficientStock:       http.StatusBadRequest,
	shared.CodeOverpayment:             http.StatusBadRequest,
	shared.CodeFinalState:              http.StatusBadRequest,
	shared.CodeInvalidStatusTransition: http.StatusBadRequest,
	shared.CodeInvalidDiscount:         http.StatusBadRequest,
	shared.CodeInvalidAmount:           http.StatusBadRequest,
	shared.CodeInvalidQuantity:         http.StatusBadRequest,
	shared.CodeInvalidInput:            http.StatusBadRequest,
	shared.CodeDuplicateMaterial:       http.StatusBadRequest,
	shared.CodeValidation:              http.StatusBadRequest,
	ErrCodeBadRequest:                  http.StatusBadRequest,

	// 409
	shared.CodeConcurrentModification: http.StatusConflict,

	// 401
	shared.CodeInvalidCredentials: http.StatusUnauthorized,
	shared.CodeUnauthorized:       http.StatusUnauthorized,
	shared.CodeTokenExpired:       http.StatusUnauthorized,
	shared.CodeTokenInvalid:       http.StatusUnauthorized,
	shared.CodeTokenRevoked:       http.StatusUnauthorized,
	shared.CodeAccountDisabled:    http.StatusUnauthorized,

	ErrCodeForbidden: http.StatusForbidden,
}

// GetHTTPStatus maps an error code to its HTTP status. Every *_EXISTS code
// is a conflict; unknown codes are internal errors.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasSuffix(code, "_EXISTS") {
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}
