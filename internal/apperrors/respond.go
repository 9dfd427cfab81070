package apperrors

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodePreconditionFailed = "PRECONDITION_FAILED"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// APIError is the standardized error response body.
type APIError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Field   string       `json:"field,omitempty"`
	Reason  string       `json:"reason,omitempty"`
	Fields  []FieldError `json:"fields,omitempty"`
}

// Respond maps a domain error to its HTTP response. Anything outside the
// taxonomy is a storage or programming failure and surfaces as a 500.
func Respond(c *gin.Context, err error) {
	var (
		validationErr   *ValidationError
		conflictErr     *ConflictError
		forbiddenErr    *ForbiddenError
		notFoundErr     *NotFoundError
		preconditionErr *PreconditionError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, APIError{
			Code:    ErrCodeInvalidInput,
			Message: "Validation failed",
			Fields:  validationErr.Fields,
		})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, APIError{
			Code:    ErrCodeConflict,
			Message: conflictErr.Message,
			Field:   conflictErr.Field,
		})
	case errors.As(err, &forbiddenErr):
		c.JSON(http.StatusForbidden, APIError{
			Code:    ErrCodeForbidden,
			Message: forbiddenErr.Error(),
		})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, APIError{
			Code:    ErrCodeNotFound,
			Message: notFoundErr.Error(),
		})
	case errors.As(err, &preconditionErr):
		c.JSON(http.StatusConflict, APIError{
			Code:    ErrCodePreconditionFailed,
			Message: preconditionErr.Message,
			Reason:  string(preconditionErr.Reason),
		})
	default:
		c.JSON(http.StatusInternalServerError, APIError{
			Code:    ErrCodeInternalError,
			Message: "Internal server error",
		})
	}
}

// Unauthorized sends a 401 response.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	c.JSON(http.StatusUnauthorized, APIError{Code: ErrCodeUnauthorized, Message: message})
}

// NotFound sends a 404 response.
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	c.JSON(http.StatusNotFound, APIError{Code: ErrCodeNotFound, Message: message})
}

// BadRequest sends a 400 response.
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	c.JSON(http.StatusBadRequest, APIError{Code: ErrCodeInvalidInput, Message: message})
}

// InternalError sends a 500 response.
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	c.JSON(http.StatusInternalServerError, APIError{Code: ErrCodeInternalError, Message: message})
}
