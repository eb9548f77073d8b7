package apiclient

import "errors"

// DefaultErrorMessage is used when a failed response carries no usable message.
const DefaultErrorMessage = "An error occurred"

// Error is the single failure shape returned by the executor. Transport,
// decode and application failures are all flattened into a message; the
// HTTP status is intentionally not exposed.
type Error struct {
	Message string
	cause   error
}

func newError(msg string, cause error) *Error {
	if msg == "" {
		msg = DefaultErrorMessage
	}
	return &Error{Message: msg, cause: cause}
}

// Error returns the human-readable failure text.
func (e *Error) Error() string { return e.Message }

// Unwrap exposes the transport or decode cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Message extracts the failure text from err. It returns "" for a nil error.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
