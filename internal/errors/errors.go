package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// DomainError represents a domain-specific error with a code and message
type DomainError struct {
	Code    string
	Message string
	Err     error // underlying error for wrapping
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is and errors.As
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target is a domain error with the same code, so a
// wrapped error still matches its predefined sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapError wraps an existing error with domain error context
func WrapError(domainErr *DomainError, err error) *DomainError {
	return &DomainError{
		Code:    domainErr.Code,
		Message: domainErr.Message,
		Err:     err,
	}
}

// Predefined domain errors
var (
	// User errors
	ErrUserNotFound      = NewDomainError("USER_NOT_FOUND", "User not found")
	ErrAccountExists     = NewDomainError("ACCOUNT_EXISTS", "Account already exists")
	ErrInvalidEmail      = NewDomainError("INVALID_EMAIL", "Invalid email")
	ErrEmailNotConfirmed = NewDomainError("EMAIL_NOT_CONFIRMED", "Email not confirmed")
	ErrInvalidPassword   = NewDomainError("INVALID_PASSWORD", "Invalid password")
	ErrVerification      = NewDomainError("VERIFICATION_ERROR", "Verification error")

	// Contact errors
	ErrContactNotFound = NewDomainError("CONTACT_NOT_FOUND", "Contact not found")

	// Authentication errors
	ErrNotAuthenticated    = NewDomainError("NOT_AUTHENTICATED", "Not authenticated")
	ErrCouldNotValidate    = NewDomainError("COULD_NOT_VALIDATE", "Could not validate credentials")
	ErrInvalidScope        = NewDomainError("INVALID_SCOPE", "Invalid scope for token")
	ErrInvalidRefreshToken = NewDomainError("INVALID_REFRESH_TOKEN", "Invalid refresh token")
	ErrInvalidEmailToken   = NewDomainError("INVALID_EMAIL_TOKEN", "Invalid token for email verification")

	// Validation errors
	ErrInvalidInput = NewDomainError("INVALID_INPUT", "Invalid input")

	// Throttling
	ErrTooManyRequests = NewDomainError("TOO_MANY_REQUESTS", "Too Many Requests")

	// System errors
	ErrInternal           = NewDomainError("INTERNAL_ERROR", "Internal server error")
	ErrServiceUnavailable = NewDomainError("SERVICE_UNAVAILABLE", "Service unavailable")
)

// IsDomainError checks if an error is a domain error
func IsDomainError(err error) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr)
}

// GetDomainError extracts the domain error from an error
func GetDomainError(err error) *DomainError {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return nil
}

// IsAuthError reports whether err should be answered with 401.
func IsAuthError(err error) bool {
	return ToHTTPStatus(err) == http.StatusUnauthorized
}

// ToHTTPStatus maps domain errors to HTTP status codes
// This should only be used in the handler/presentation layer
func ToHTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}

	// Check if it's a domain error
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErrorToHTTPStatus(domainErr)
	}

	// Default to internal server error for unknown errors
	return http.StatusInternalServerError
}

// domainErrorToHTTPStatus maps specific domain errors to HTTP status codes
func domainErrorToHTTPStatus(err *DomainError) int {
	switch err.Code {
	// 400 Bad Request
	case "VERIFICATION_ERROR":
		return http.StatusBadRequest

	// 401 Unauthorized
	case "NOT_AUTHENTICATED", "COULD_NOT_VALIDATE", "INVALID_SCOPE",
		"INVALID_REFRESH_TOKEN", "INVALID_EMAIL", "EMAIL_NOT_CONFIRMED", "INVALID_PASSWORD":
		return http.StatusUnauthorized

	// 404 Not Found
	case "USER_NOT_FOUND", "CONTACT_NOT_FOUND":
		return http.StatusNotFound

	// 409 Conflict
	case "ACCOUNT_EXISTS":
		return http.StatusConflict

	// 422 Unprocessable Entity
	case "INVALID_EMAIL_TOKEN", "INVALID_INPUT":
		return http.StatusUnprocessableEntity

	// 429 Too Many Requests
	case "TOO_MANY_REQUESTS":
		return http.StatusTooManyRequests

	// 503 Service Unavailable
	case "SERVICE_UNAVAILABLE":
		return http.StatusServiceUnavailable

	// 500 Internal Server Error (default)
	default:
		return http.StatusInternalServerError
	}
}

// GetErrorMessage returns the message safe to show to clients. Errors that
// are not domain errors never leak their text.
func GetErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}

	return ErrInternal.Message
}
