// Package apperrors defines the error kinds returned by the object lifecycle
// engine. Every error that crosses a service boundary carries exactly one Kind
// so callers (the HTTP layer, the CLI) can translate it without string matching.
package apperrors

import (
	stderrors "errors"
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies an error.
type Kind string

const (
	KindNotFound       Kind = "not_found"
	KindInvalidInput   Kind = "invalid_input"
	KindForbidden      Kind = "forbidden"
	KindConflict       Kind = "conflict"
	KindStateViolation Kind = "state_violation"
	KindInternal       Kind = "internal"
)

// Error is a kinded error. Op names the operation that failed, e.g.
// "object.move" or "repository.update".
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	} else if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if e.Op != "" {
		return e.Op + ": " + msg
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match against another *Error of the same kind, so
// errors.Is(err, apperrors.ErrStaleWrite) works on wrapped values.
func (e *Error) Is(target error) bool {
	var t *Error
	if !stderrors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// ErrStaleWrite is returned when an optimistic update lost the race against
// another writer. Callers may retry the whole read-modify-write cycle.
var ErrStaleWrite = &Error{Kind: KindConflict, Message: "stale write: record was modified concurrently"}

func newf(kind Kind, op, format string, args ...any) error {
	return errors.WithStack(&Error{Kind: kind, Op: op, Message: fmt.Sprintf(format, args...)})
}

// NotFound reports a missing object, plan, annotation or conflict entry.
func NotFound(op, format string, args ...any) error {
	return newf(KindNotFound, op, format, args...)
}

// InvalidInput reports a request rejected before any mutation.
func InvalidInput(op, format string, args ...any) error {
	return newf(KindInvalidInput, op, format, args...)
}

// Forbidden reports a permission failure.
func Forbidden(op, format string, args ...any) error {
	return newf(KindForbidden, op, format, args...)
}

// StateViolation reports a transition the lifecycle table does not allow.
func StateViolation(op, format string, args ...any) error {
	return newf(KindStateViolation, op, format, args...)
}

// StaleWrite wraps ErrStaleWrite with the failing operation.
func StaleWrite(op string) error {
	return errors.WithStack(&Error{Kind: KindConflict, Op: op, Message: ErrStaleWrite.Message})
}

// Internal wraps an unexpected failure (usually storage) with context.
func Internal(op string, err error, message string) error {
	if err == nil {
		return nil
	}
	return errors.WithStack(&Error{Kind: KindInternal, Op: op, Message: message, Err: err})
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
