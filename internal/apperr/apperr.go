// Package apperr defines the error kinds shared by the policy, repository
// and handler layers. A kind is a sentinel; E attaches a message to it.
package apperr

import "errors"

var (
	Validation       = errors.New("validation_error")
	Unauthenticated  = errors.New("unauthenticated")
	Forbidden        = errors.New("forbidden")
	InvalidOperation = errors.New("invalid_operation")
	NotFound         = errors.New("not_found")
	Conflict         = errors.New("conflict")
	Expired          = errors.New("expired")
	Upstream         = errors.New("upstream_failure")
)

var kinds = []error{Validation, Unauthenticated, Forbidden, InvalidOperation, NotFound, Conflict, Expired, Upstream}

// Error is a kind plus a human readable message.
type Error struct {
	Kind error
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}
	return []error{e.Kind}
}

// E builds an *Error of the given kind.
func E(kind error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// Wrap builds an *Error of the given kind that keeps cause in its chain.
func Wrap(kind error, msg string, cause error) *Error {
	return &Error{Kind: kind, Msg: msg, Err: cause}
}

// KindOf returns the kind carried by err, or nil for unclassified errors.
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}

// Message returns the user-facing message of err, or fallback when err
// is not an *Error.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg
	}
	return fallback
}
