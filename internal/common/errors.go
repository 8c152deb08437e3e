package common

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures surfaced by services and repositories
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindNotFound
	KindConflict
	KindValidation
	KindStorage
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindConflict:
		return "CONFLICT"
	case KindValidation:
		return "VALIDATION_ERROR"
	case KindStorage:
		return "STORAGE_ERROR"
	default:
		return "UNKNOWN"
	}
}

// Error is an immutable domain error. Build it with the constructors below.
type Error struct {
	kind    ErrorKind
	message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Kind returns the error classification
func (e *Error) Kind() ErrorKind { return e.kind }

// Message returns the client-safe message, without the cause
func (e *Error) Message() string { return e.message }

func (e *Error) Unwrap() error { return e.cause }

// Is matches another *Error of the same kind, so sentinel comparisons work
// with errors.Is(err, common.ErrNotFound).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.message == "" && t.kind == e.kind
}

// Kind-only sentinels for errors.Is checks
var (
	ErrNotFound   = &Error{kind: KindNotFound}
	ErrConflict   = &Error{kind: KindConflict}
	ErrValidation = &Error{kind: KindValidation}
	ErrStorage    = &Error{kind: KindStorage}
)

// NotFoundError reports that resource does not resolve to an active row
func NotFoundError(resource string) *Error {
	return &Error{kind: KindNotFound, message: fmt.Sprintf("%s not found", resource)}
}

// ConflictError reports a uniqueness or referential-integrity violation
func ConflictError(format string, args ...interface{}) *Error {
	return &Error{kind: KindConflict, message: fmt.Sprintf(format, args...)}
}

// ValidationError reports a missing or malformed input field
func ValidationError(format string, args ...interface{}) *Error {
	return &Error{kind: KindValidation, message: fmt.Sprintf(format, args...)}
}

// StorageError wraps a persistence failure. The cause is kept for logs only.
func StorageError(operation string, cause error) *Error {
	return &Error{kind: KindStorage, message: fmt.Sprintf("failed to %s", operation), cause: cause}
}

// KindOf returns the kind of the first *Error in err's chain
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.kind
	}
	return KindUnknown
}
