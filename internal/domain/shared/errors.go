package shared

// Error codes shared between the domain and the HTTP layer.
const (
	CodeNotFound                  = "NOT_FOUND"
	CodeAlreadyExists             = "ALREADY_EXISTS"
	CodeInvalidInput              = "INVALID_INPUT"
	CodeConcurrentModification    = "CONCURRENT_MODIFICATION"
	CodeUnauthorized              = "UNAUTHORIZED"
	CodeCustomerNotFound          = "CUSTOMER_NOT_FOUND"
	CodeInsufficientStock         = "INSUFFICIENT_STOCK"
	CodeOverpayment               = "OVERPAYMENT"
	CodeOrderNotFound             = "ORDER_NOT_FOUND"
	CodeFeedCategoryNotFound      = "FEED_CATEGORY_NOT_FOUND"
	CodeFinalState                = "FINAL_STATE"
	CodeRefundNotFoundOrProcessed = "REFUND_NOT_FOUND_OR_PROCESSED"
	CodeInvalidStatusTransition   = "INVALID_STATUS_TRANSITION"
	CodeInvalidDiscount           = "INVALID_DISCOUNT"
	CodeInvalidAmount             = "INVALID_AMOUNT"
	CodeInvalidQuantity           = "INVALID_QUANTITY"
	CodeRawMaterialNotFound       = "RAW_MATERIAL_NOT_FOUND"
	CodeRawMaterialExists         = "RAW_MATERIAL_EXISTS"
	CodeFeedCategoryExists        = "FEED_CATEGORY_EXISTS"
	CodeAnimalTypeNotFound        = "ANIMAL_TYPE_NOT_FOUND"
	CodeAnimalTypeExists          = "ANIMAL_TYPE_EXISTS"
	CodeSnapshotNotFound          = "SNAPSHOT_NOT_FOUND"
	CodeUsernameExists            = "USERNAME_EXISTS"
	CodeAdminUserNotFound         = "ADMIN_USER_NOT_FOUND"
	CodeInvalidCredentials        = "INVALID_CREDENTIALS"
	CodeAccountDisabled           = "ACCOUNT_DISABLED"
	CodeProductionBatchNotFound   = "PRODUCTION_BATCH_NOT_FOUND"
	CodeDuplicateMaterial         = "DUPLICATE_MATERIAL"
	CodeTokenExpired              = "TOKEN_EXPIRED"
	CodeTokenInvalid              = "TOKEN_INVALID"
	CodeTokenRevoked              = "TOKEN_REVOKED"
	CodeValidation                = "VALIDATION_ERROR"
)

// DomainError represents a domain-level error. Two DomainErrors match under
// errors.Is when their codes are equal, so callers can compare against the
// package sentinels even when the message was specialised.
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause, if any
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is reports whether target is a DomainError with the same code
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithMessage returns a copy of the error carrying a more specific message
func (e *DomainError) WithMessage(message string) *DomainError {
	return &DomainError{Code: e.Code, Message: message, cause: e.cause}
}

// Wrap returns a copy of the error that wraps cause
func (e *DomainError) Wrap(cause error) *DomainError {
	return &DomainError{Code: e.Code, Message: e.Message, cause: cause}
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound               = NewDomainError(CodeNotFound, "Resource not found")
	ErrAlreadyExists          = NewDomainError(CodeAlreadyExists, "Resource already exists")
	ErrInvalidInput           = NewDomainError(CodeInvalidInput, "Invalid input provided")
	ErrConcurrentModification = NewDomainError(CodeConcurrentModification, "Resource was modified by another process")
	ErrUnauthorized           = NewDomainError(CodeUnauthorized, "Not authorized to perform this action")
	ErrInsufficientStock      = NewDomainError(CodeInsufficientStock, "Insufficient stock available")
	ErrInvalidQuantity        = NewDomainError(CodeInvalidQuantity, "Quantity must be non-zero")
	ErrInvalidAmount          = NewDomainError(CodeInvalidAmount, "Amount must be greater than zero")
)
