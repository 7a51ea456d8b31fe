package core

import "fmt"

// Error represents an error due to an issue with a core data type
// (Uid or encoded value) in the runtime.
type Error struct {
	ReasonCode ErrorCoreReasonCode
	Err        error
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

type ErrorCoreReasonCode string

const (
	// ErrorCoreReasonCodeInvalidUidFormat is provided when a textual
	// Uid does not match the canonical 8-4-4-4-12 hex form.
	ErrorCoreReasonCodeInvalidUidFormat ErrorCoreReasonCode = "invalid_uid_format"
)

func errInvalidUidFormat(input string) error {
	return &Error{
		ReasonCode: ErrorCoreReasonCodeInvalidUidFormat,
		Err: fmt.Errorf(
			"%q is not a canonical uid (expected 36 characters in 8-4-4-4-12 hex form)",
			input,
		),
	}
}
