package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	apperrors "rapidscribe/internal/app/errors"
)

// ErrorKind classifies an API error for status code selection
type ErrorKind string

const (
	KindValidation   ErrorKind = "validation"
	KindBadRequest   ErrorKind = "bad_request"
	KindNotFound     ErrorKind = "not_found"
	KindUnauthorized ErrorKind = "unauthorized"
	KindForbidden    ErrorKind = "forbidden"
	KindConflict     ErrorKind = "conflict"
	KindRateLimit    ErrorKind = "rate_limit"
	KindProvider     ErrorKind = "provider"
	KindInternal     ErrorKind = "internal"
	KindUnavailable  ErrorKind = "unavailable"
	KindTimeout      ErrorKind = "timeout"
)

// APIError is the structured error carried through handlers and rendered by
// the error middleware
type APIError struct {
	Kind      ErrorKind         `json:"kind"`
	Message   string            `json:"message"`
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty"`
	Code      string            `json:"code,omitempty"`
}

// Envelope is the wire shape: the error object nested under an "error" key
type Envelope struct {
	Error *APIError `json:"error"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// HTTPStatus returns the HTTP status code for the error kind
func (e *APIError) HTTPStatus() int {
	switch e.Kind {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindBadRequest:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindRateLimit:
		return http.StatusTooManyRequests
	case KindUnavailable:
		return http.StatusServiceUnavailable
	case KindTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// NewValidationError creates a validation error with field details
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Kind:    KindValidation,
		Message: message,
		Details: fields,
	}
}

// NewBadRequestError creates a bad request error
func NewBadRequestError(message string) *APIError {
	return &APIError{
		Kind:    KindBadRequest,
		Message: message,
	}
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *APIError {
	return &APIError{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError(message string) *APIError {
	return &APIError{
		Kind:    KindUnauthorized,
		Message: message,
	}
}

// NewForbiddenError creates a forbidden error
func NewForbiddenError(message string) *APIError {
	return &APIError{
		Kind:    KindForbidden,
		Message: message,
	}
}

// NewConflictError creates a conflict error
func NewConflictError(message string) *APIError {
	return &APIError{
		Kind:    KindConflict,
		Message: message,
	}
}

// NewRateLimitError creates a rate limit error
func NewRateLimitError(message string) *APIError {
	return &APIError{
		Kind:    KindRateLimit,
		Message: message,
	}
}

// NewProviderError creates an error for a failed upstream provider call
func NewProviderError(providerName, message string) *APIError {
	return &APIError{
		Kind:    KindProvider,
		Message: message,
		Details: map[string]string{"provider": providerName},
	}
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *APIError {
	return &APIError{
		Kind:    KindInternal,
		Message: message,
	}
}

// NewUnavailableError creates a service unavailable error
func NewUnavailableError(message string) *APIError {
	return &APIError{
		Kind:    KindUnavailable,
		Message: message,
	}
}

// NewTimeoutError creates a gateway timeout error
func NewTimeoutError(message string) *APIError {
	return &APIError{
		Kind:    KindTimeout,
		Message: message,
	}
}

// FromError maps a domain error onto an APIError. Existing APIErrors pass
// through unchanged; unknown errors become opaque internal errors so domain
// detail never leaks to clients.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, apperrors.ErrAudioNotFound),
		errors.Is(err, apperrors.ErrRecordNotFound),
		errors.Is(err, apperrors.ErrJobNotFound),
		errors.Is(err, apperrors.ErrProviderNotFound):
		return &APIError{Kind: KindNotFound, Message: err.Error()}
	case errors.Is(err, apperrors.ErrPathOutsideRoot),
		errors.Is(err, apperrors.ErrReplyNotJSON):
		return &APIError{Kind: KindValidation, Message: err.Error()}
	case errors.Is(err, apperrors.ErrLLMUnavailable),
		errors.Is(err, apperrors.ErrProviderDisabled):
		return &APIError{Kind: KindUnavailable, Message: err.Error()}
	case errors.Is(err, apperrors.ErrTranscriptionFailed):
		return &APIError{Kind: KindProvider, Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return &APIError{Kind: KindTimeout, Message: "request timed out"}
	default:
		return &APIError{Kind: KindInternal, Message: "internal server error"}
	}
}
