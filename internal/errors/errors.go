// Package errors defines the service error taxonomy shared by the domain
// services and the HTTP layer.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a category of service failure.
type Code string

const (
	CodeNotFound     Code = "NOT_FOUND"
	CodeConflict     Code = "CONFLICT"
	CodeInUse        Code = "IN_USE"
	CodeForbidden    Code = "FORBIDDEN"
	CodeUnauthorized Code = "UNAUTHORIZED"
	CodeInvalidInput Code = "INVALID_INPUT"
	CodeRateLimited  Code = "RATE_LIMITED"
	CodeInternal     Code = "INTERNAL"
)

// ServiceError is a categorized failure with an HTTP mapping. It wraps an
// optional underlying cause and carries structured details for responses.
type ServiceError struct {
	Code       Code
	Message    string
	HTTPStatus int
	Details    map[string]interface{}
	Err        error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause to errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is matches two service errors by code, so callers can compare against a
// sentinel like errors.NotFound("").
func (e *ServiceError) Is(target error) bool {
	var se *ServiceError
	if errors.As(target, &se) {
		return e.Code == se.Code
	}
	return false
}

// WithDetails attaches a key/value pair to the error and returns it.
func (e *ServiceError) WithDetails(key string, value interface{}) *ServiceError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// NotFound signals that a referenced id or name does not exist.
func NotFound(message string) *ServiceError {
	return &ServiceError{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

// Conflict signals a duplicate id or name.
func Conflict(message string) *ServiceError {
	return &ServiceError{Code: CodeConflict, Message: message, HTTPStatus: http.StatusConflict}
}

// InUse signals that a resource cannot be removed while referenced.
func InUse(message string) *ServiceError {
	return &ServiceError{Code: CodeInUse, Message: message, HTTPStatus: http.StatusConflict}
}

// Forbidden signals a protected resource or insufficient role.
func Forbidden(message string) *ServiceError {
	return &ServiceError{Code: CodeForbidden, Message: message, HTTPStatus: http.StatusForbidden}
}

// Unauthorized signals missing or bad credentials.
func Unauthorized(message string) *ServiceError {
	return &ServiceError{Code: CodeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// InvalidToken signals a session token that failed validation.
func InvalidToken(err error) *ServiceError {
	return &ServiceError{Code: CodeUnauthorized, Message: "Invalid or expired token", HTTPStatus: http.StatusUnauthorized, Err: err}
}

// InvalidInput signals malformed input, such as an empty required field.
func InvalidInput(message string) *ServiceError {
	return &ServiceError{Code: CodeInvalidInput, Message: message, HTTPStatus: http.StatusBadRequest}
}

// RateLimitExceeded signals that the caller exceeded the allowed request rate.
func RateLimitExceeded(limit int, window string) *ServiceError {
	return (&ServiceError{
		Code:       CodeRateLimited,
		Message:    "Rate limit exceeded",
		HTTPStatus: http.StatusTooManyRequests,
	}).WithDetails("limit", limit).WithDetails("window", window)
}

// Internal signals an unexpected failure. The cause is preserved for logs
// but never serialized into responses.
func Internal(message string, err error) *ServiceError {
	return &ServiceError{Code: CodeInternal, Message: message, HTTPStatus: http.StatusInternalServerError, Err: err}
}

// GetServiceError returns the ServiceError in err's chain, or nil.
func GetServiceError(err error) *ServiceError {
	var se *ServiceError
	if errors.As(err, &se) {
		return se
	}
	return nil
}

// IsNotFound reports whether err is a not-found failure.
func IsNotFound(err error) bool {
	se := GetServiceError(err)
	return se != nil && se.Code == CodeNotFound
}

// IsConflict reports whether err is a duplicate or in-use failure.
func IsConflict(err error) bool {
	se := GetServiceError(err)
	return se != nil && (se.Code == CodeConflict || se.Code == CodeInUse)
}
