package domain

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeNotFound indicates the aggregate has no persisted history.
	CodeNotFound Code = "NOT_FOUND"
	// CodeInvalidState indicates a command is not legal in the order's current status.
	CodeInvalidState Code = "INVALID_STATE"
	// CodeInvalidArgument indicates malformed or out-of-range command input.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	// CodeEncodingFailed indicates an event could not be serialized.
	CodeEncodingFailed Code = "ENCODING_FAILED"
	// CodeDecodingFailed indicates a persisted payload could not be decoded.
	CodeDecodingFailed Code = "DECODING_FAILED"
	// CodeVersionConflict indicates a concurrent writer advanced the aggregate
	// between load and append.
	CodeVersionConflict Code = "VERSION_CONFLICT"
	// CodeStorageFailure indicates an infrastructure failure at the storage boundary.
	CodeStorageFailure Code = "STORAGE_FAILURE"
	// CodeProjectionFailure indicates a subscriber failed after the log commit.
	// The appended events are durable; only derived views may be stale.
	CodeProjectionFailure Code = "PROJECTION_FAILURE"
)

// Error is a domain error with a machine-readable code.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// NewError creates a domain error with the given code.
func NewError(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Errorf creates a domain error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// WrapError wraps a cause with a domain code.
func WrapError(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// CodeOf extracts the domain code from err, or CodeStorageFailure when err
// carries no code.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeStorageFailure
}

// IsCode reports whether err carries the given domain code.
func IsCode(err error, code Code) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == code
}
