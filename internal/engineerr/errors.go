// Package engineerr defines the structured error kinds shared across
// the engine's components, following the same code+message+cause
// shape the matching engine's own error package uses internally.
package engineerr

import "fmt"

// Code identifies a class of engine failure.
type Code string

const (
	// InvalidArgument is returned when add() receives a non-positive
	// price or quantity.
	InvalidArgument Code = "INVALID_ARGUMENT"
	// NotFound classifies a cancel() of an unknown id. Book.Cancel
	// reports that case as a false return, not as an error.
	NotFound Code = "NOT_FOUND"
	// TransportSetupFailure covers socket create/bind/listen failures.
	TransportSetupFailure Code = "TRANSPORT_SETUP_FAILURE"
	// ClientHandshakeFailure covers a malformed or truncated upgrade.
	ClientHandshakeFailure Code = "CLIENT_HANDSHAKE_FAILURE"
	// ClientWriteFailure covers a broadcast write that errored.
	ClientWriteFailure Code = "CLIENT_WRITE_FAILURE"
)

// Error is a structured engine error carrying a Code and an optional
// wrapped cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the wrapped cause to errors.Is / errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// New creates an Error with no wrapped cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error around an existing cause.
func Wrap(cause error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Is reports whether err carries the given Code.
func Is(err error, code Code) bool {
	e, ok := err.(*Error)
	return ok && e.Code == code
}
