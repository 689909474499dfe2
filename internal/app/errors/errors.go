package errors

import (
	"fmt"
)

// Domain sentinels. Callers match these with errors.Is to pick status codes
// and retry behavior.
var (
	// Configuration errors
	ErrMissingAPIKey = New("API key is required")
	ErrInvalidConfig = New("invalid configuration")

	// Provider errors
	ErrProviderNotFound = New("provider not found")
	ErrProviderDisabled = New("provider is disabled")
	ErrLLMUnavailable   = New("LLM endpoint unreachable")

	// Audio and transcription errors
	ErrAudioNotFound       = New("audio file not found")
	ErrPathOutsideRoot     = New("path escapes the audio root")
	ErrTranscriptionFailed = New("transcription failed")
	ErrReplyNotJSON        = New("reply is not valid JSON")

	// Persistence errors
	ErrRecordNotFound     = New("record not found")
	ErrJobNotFound        = New("job not found")
	ErrDatabaseConnection = New("database connection failed")
	ErrQueryFailed        = New("query failed")
	ErrInsertFailed       = New("insert failed")
)

// Error is a message with an optional cause, comparable by message so
// wrapped sentinels still match errors.Is.
type Error struct {
	message string
	cause   error
}

// New creates a new error
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: message,
		cause:   err,
	}
}

// Wrapf wraps an error with formatted context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{
		message: fmt.Sprintf(format, args...),
		cause:   err,
	}
}

// WithCause attaches a cause to a sentinel so errors.Is matches the sentinel
// while the message keeps the underlying detail.
func WithCause(sentinel *Error, cause error) error {
	return &Error{message: sentinel.message, cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}

// NotFound returns an error for items that were not found
func NotFound(itemType string, identifier string) error {
	return Newf("%s not found: %s", itemType, identifier)
}

// RequiredField returns an error for missing required fields
func RequiredField(field string) error {
	return Newf("%s is required", field)
}

// InvalidField returns an error for invalid field values
func InvalidField(field string, reason string) error {
	return Newf("%s is invalid: %s", field, reason)
}
