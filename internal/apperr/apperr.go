package apperr

import (
	"errors"
	"fmt"
)

// Kind is the stable machine-readable error code exposed to clients.
type Kind string

const (
	KindMissingInput     Kind = "missing_input"
	KindInvalidDate      Kind = "invalid_date"
	KindIntakeFailure    Kind = "intake_failure"
	KindDetectionFailure Kind = "detection_failure"
	KindUnauthorized     Kind = "unauthorized"
	KindStoreFailure     Kind = "store_failure"
)

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf extracts the Kind from err, or KindStoreFailure when err carries
// no kind (unexpected infrastructure errors map to a 500).
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindStoreFailure
}

// MessageOf returns the client-facing message for err.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal error"
}
