package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/teamdesk-api/internal/constants"
	"github.com/yukikurage/teamdesk-api/internal/translator"
	"gorm.io/gorm"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodeForbidden = "FORBIDDEN"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"

	// Resource errors
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	ErrCodeConflict      = "CONFLICT"

	// Business logic errors
	ErrCodeOperationFailed = "OPERATION_FAILED"

	// Service errors
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Lang returns the negotiated request language.
func Lang(c *gin.Context) string {
	if lang, ok := c.Get(constants.ContextKeyLang); ok {
		if s, ok := lang.(string); ok {
			return s
		}
	}
	return c.GetHeader("Accept-Language")
}

// T translates key for the request.
func T(c *gin.Context, key string) string {
	return translator.Message(Lang(c), key)
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.AbortWithStatusJSON(statusCode, err)
}

func respond(c *gin.Context, status int, code, key, fallbackKey string) {
	if key == "" {
		key = fallbackKey
	}
	RespondWithError(c, status, NewAPIError(code, T(c, key)))
}

// Helper functions for common error responses. Each takes a message key;
// an empty key uses the generic message for the status.

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, key string) {
	respond(c, http.StatusUnauthorized, ErrCodeUnauthorized, key, "unauthorized")
}

// InvalidCredentials sends a 401 response for a failed login
func InvalidCredentials(c *gin.Context) {
	respond(c, http.StatusUnauthorized, ErrCodeInvalidCredentials, "invalidCredentials", "")
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, key string) {
	respond(c, http.StatusForbidden, ErrCodeForbidden, key, "forbidden")
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, key string) {
	respond(c, http.StatusNotFound, ErrCodeNotFound, key, "notFound")
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, key string) {
	respond(c, http.StatusBadRequest, ErrCodeInvalidInput, key, "invalidInput")
}

// BadRequestWithDetails sends a 400 response with details
func BadRequestWithDetails(c *gin.Context, key string, details interface{}) {
	if key == "" {
		key = "invalidInput"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIErrorWithDetails(ErrCodeInvalidInput, T(c, key), details))
}

// Conflict sends a 409 response
func Conflict(c *gin.Context, key string) {
	respond(c, http.StatusConflict, ErrCodeAlreadyExists, key, "operationFailed")
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, key string) {
	respond(c, http.StatusInternalServerError, ErrCodeInternalError, key, "operationFailed")
}

// ServiceUnavailable sends a 503 response
func ServiceUnavailable(c *gin.Context, key string) {
	respond(c, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, key, "serviceUnavailable")
}

// Database maps a remote failure that no flow handled. Duplicate keys get
// the registered-email text; everything else is reported generically.
func Database(c *gin.Context, err error) {
	if stderrors.Is(err, gorm.ErrDuplicatedKey) {
		Conflict(c, "emailAlreadyRegistered")
		return
	}
	_ = c.Error(err)
	respond(c, http.StatusInternalServerError, ErrCodeOperationFailed, "operationFailed", "")
}
