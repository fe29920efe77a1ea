package errors

import (
	"errors"
	"net/http"
)

// Error kinds. Every DomainError unwraps to exactly one of these.
var (
	// ErrValidation is returned when input is missing or malformed.
	ErrValidation = errors.New("validation error")
	// ErrNotFound is returned when a user or record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrAuth is returned when credentials do not match.
	ErrAuth = errors.New("authentication failed")
	// ErrConflict is returned when a unique value is already taken.
	ErrConflict = errors.New("conflict")
	// ErrDependency is returned when an external collaborator such as email delivery fails.
	ErrDependency = errors.New("dependency failure")
	// ErrInvalidToken is returned for absent, expired or forged tokens.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// DomainError carries a client-safe message and a stable code for one error kind.
type DomainError struct {
	Kind    error
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Unwrap exposes the kind so callers can use errors.Is.
func (e *DomainError) Unwrap() error {
	return e.Kind
}

// Validation creates a validation error.
func Validation(code, message string) *DomainError {
	return &DomainError{Kind: ErrValidation, Code: code, Message: message}
}

// NotFound creates a not-found error.
func NotFound(code, message string) *DomainError {
	return &DomainError{Kind: ErrNotFound, Code: code, Message: message}
}

// Auth creates a bad-credentials error.
func Auth(code, message string) *DomainError {
	return &DomainError{Kind: ErrAuth, Code: code, Message: message}
}

// Conflict creates a uniqueness violation error.
func Conflict(code, message string) *DomainError {
	return &DomainError{Kind: ErrConflict, Code: code, Message: message}
}

// Dependency creates an external collaborator failure.
func Dependency(code, message string) *DomainError {
	return &DomainError{Kind: ErrDependency, Code: code, Message: message}
}

// InvalidToken creates an invalid-token error.
func InvalidToken(code, message string) *DomainError {
	return &DomainError{Kind: ErrInvalidToken, Code: code, Message: message}
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Success: false,
		Error:   e.Message,
		Code:    e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
// Errors that are not DomainErrors never leak their message.
func MapErrorToHTTP(err error) *HTTPError {
	var de *DomainError
	if !errors.As(err, &de) {
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}

	switch {
	case errors.Is(de, ErrValidation):
		return NewHTTPError(http.StatusBadRequest, de.Message, de.Code)
	case errors.Is(de, ErrNotFound):
		return NewHTTPError(http.StatusNotFound, de.Message, de.Code)
	case errors.Is(de, ErrAuth):
		return NewHTTPError(http.StatusBadRequest, de.Message, de.Code)
	case errors.Is(de, ErrConflict):
		return NewHTTPError(http.StatusBadRequest, de.Message, de.Code)
	case errors.Is(de, ErrDependency):
		return NewHTTPError(http.StatusInternalServerError, de.Message, de.Code)
	case errors.Is(de, ErrInvalidToken):
		return NewHTTPError(http.StatusNotFound, de.Message, de.Code)
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
