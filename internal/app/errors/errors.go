package errors

import (
	"fmt"
)

// Pipeline error kinds. Fatal kinds abort the remaining run; anything else is
// caught at the segment boundary and converted into an absent result.
var (
	// ErrProvisioning means the segment bucket cannot be created or reached.
	// Fatal before any segment work starts.
	ErrProvisioning = New("bucket provisioning failed")

	// ErrDecode means the source recording cannot be decoded. Fatal before
	// segmentation produces any output.
	ErrDecode = New("source audio cannot be decoded")

	// ErrAssembly means no segment produced a transcript, or the destination
	// file could not be written.
	ErrAssembly = New("transcript assembly failed")

	// ErrMissingCredentials means the service account reference required by
	// the configured providers is not resolvable.
	ErrMissingCredentials = New("service credentials are not configured")
)

// Error is a message plus an optional cause, comparable by message through Is.
type Error struct {
	message string
	cause   error
}

// New creates a new error.
func New(message string) *Error {
	return &Error{message: message}
}

// Newf creates a new formatted error.
func Newf(format string, args ...interface{}) *Error {
	return &Error{message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{message: message, cause: err}
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return &Error{message: fmt.Sprintf(format, args...), cause: err}
}

// WrapKind tags err with one of the pipeline kinds so that errors.Is(err, kind)
// holds for the wrapped result.
func WrapKind(kind *Error, err error) error {
	if err == nil {
		return kind
	}
	return &Error{message: kind.message, cause: err}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.cause
}

// Is checks if the error matches target.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.message == t.message
}
