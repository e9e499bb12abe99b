package errors

import (
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ValidationError ErrorType = "VALIDATION_ERROR"
	NotFoundError   ErrorType = "NOT_FOUND"
	SchemaError     ErrorType = "SCHEMA_MISMATCH"
	UpstreamError   ErrorType = "UPSTREAM_ERROR"
	ServerError     ErrorType = "SERVER_ERROR"
	ConflictError   ErrorType = "CONFLICT"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// GetHTTPStatus returns the HTTP status code associated with the error.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// Unwrap exposes the underlying error for errors.Is/As chains.
func (e *AppError) Unwrap() error {
	return e.Raw
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// Helper functions for common errors

func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

// SchemaMismatch signals that stored field data no longer lines up with the
// package's field schema. It is soft by design: validation flows report it
// as missing-field content and only surface it as an error when a request
// addresses a section or field the schema does not know.
func SchemaMismatch(message string, details string) *AppError {
	return &AppError{
		Type:       SchemaError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusUnprocessableEntity,
	}
}

// UpstreamFailure wraps a transport-level failure talking to the booking or
// catalog API.
func UpstreamFailure(err error, operation string) *AppError {
	return &AppError{
		Type:       UpstreamError,
		Message:    fmt.Sprintf("upstream %s call failed", operation),
		Detail:     err.Error(),
		HTTPStatus: http.StatusBadGateway,
		Raw:        err,
	}
}

func SessionNotFound(id string) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    "Booking session not found",
		Detail:     fmt.Sprintf("Session ID: %s", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func NewConflictError(message string, detail string) *AppError {
	return &AppError{
		Type:       ConflictError,
		Message:    message,
		Detail:     detail,
		HTTPStatus: http.StatusConflict,
	}
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case SchemaError:
		return http.StatusUnprocessableEntity
	case UpstreamError:
		return http.StatusBadGateway
	case ConflictError:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
