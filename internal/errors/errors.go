package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeConflict           = "CONFLICT"
	ErrCodeNothingToExport    = "NOTHING_TO_EXPORT"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// APIError is the body of every error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return e.Message
}

func NewAPIError(code, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

func NewAPIErrorWithDetails(code, message string, details any) *APIError {
	return &APIError{Code: code, Message: message, Details: details}
}

// RespondWithError writes err with the given status
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

// statusDefaults holds the code and fallback message per status
var statusDefaults = map[int]struct{ code, message string }{
	http.StatusBadRequest:          {ErrCodeInvalidInput, "Invalid request"},
	http.StatusUnauthorized:        {ErrCodeUnauthorized, "Authentication required"},
	http.StatusForbidden:           {ErrCodeForbidden, "Access denied"},
	http.StatusNotFound:            {ErrCodeNotFound, "Resource not found"},
	http.StatusConflict:            {ErrCodeConflict, "Resource conflict"},
	http.StatusUnprocessableEntity: {ErrCodeInvalidInput, "Request could not be processed"},
	http.StatusInternalServerError: {ErrCodeInternalError, "Internal server error"},
	http.StatusServiceUnavailable:  {ErrCodeServiceUnavailable, "Service temporarily unavailable"},
}

func respond(c *gin.Context, status int, message string) {
	d := statusDefaults[status]
	if message == "" {
		message = d.message
	}
	RespondWithError(c, status, NewAPIError(d.code, message))
}

func Unauthorized(c *gin.Context, message string) {
	respond(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	respond(c, http.StatusForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	respond(c, http.StatusNotFound, message)
}

func BadRequest(c *gin.Context, message string) {
	respond(c, http.StatusBadRequest, message)
}

func Conflict(c *gin.Context, message string) {
	respond(c, http.StatusConflict, message)
}

// Unprocessable answers 422 for well-formed input the server could not act on
func Unprocessable(c *gin.Context, message string) {
	respond(c, http.StatusUnprocessableEntity, message)
}

func InternalError(c *gin.Context, message string) {
	respond(c, http.StatusInternalServerError, message)
}

func ServiceUnavailable(c *gin.Context, message string) {
	respond(c, http.StatusServiceUnavailable, message)
}
