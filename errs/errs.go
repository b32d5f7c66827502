package errs

import (
	"errors"
	"fmt"
)

// Kind classifies a failure so callers can map it to a transport status
// without parsing messages.
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindInvalidInput  Kind = "invalid_input"
	KindConflict      Kind = "conflict"
	KindInvalidState  Kind = "invalid_state"
	KindLimitExceeded Kind = "limit_exceeded"
	KindBlocked       Kind = "blocked"
	KindUnavailable   Kind = "unavailable"
)

// Constraint codes reported by field validation.
const (
	ConstraintRequired    = "required"
	ConstraintTooLong     = "too_long"
	ConstraintOutOfRange  = "out_of_range"
	ConstraintBadFormat   = "bad_format"
	ConstraintInvalidEnum = "invalid_enum_value"
)

type Error struct {
	Kind  Kind
	Field string // set when a single field caused the rejection
	Msg   string
	cause error
}

func (e *Error) Error() string { return e.Msg }
func (e *Error) Unwrap() error { return e.cause }

func New(kind Kind, msg string) *Error { return &Error{Kind: kind, Msg: msg} }

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Field builds the invalid_input rejection for one field, naming the
// violated constraint.
func Field(field, constraint string) *Error {
	return &Error{
		Kind:  KindInvalidInput,
		Field: field,
		Msg:   fmt.Sprintf("%s: %s", field, constraint),
	}
}

// Unavailable wraps an infrastructure failure (store unreachable, query
// error) so it is never conflated with a domain rejection.
func Unavailable(err error) *Error {
	return &Error{Kind: KindUnavailable, Msg: "store unavailable: " + err.Error(), cause: err}
}

// KindOf extracts the kind from any error in the chain, or "" for nil
// and KindUnavailable for errors this package never produced.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnavailable
}
