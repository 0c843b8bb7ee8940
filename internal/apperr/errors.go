// Package apperr defines the error taxonomy surfaced to API callers.
// Services return these; handlers map them to HTTP status codes. Raw
// storage errors must never cross the handler boundary.
package apperr

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindUnauthenticated
	KindPermissionDenied
)

type Error struct {
	ErrKind Kind
	Message string
	// Fields carries per-field validation messages when available.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{ErrKind: KindValidation, Message: message}
}

func ValidationFields(message string, fields map[string]string) *Error {
	return &Error{ErrKind: KindValidation, Message: message, Fields: fields}
}

func NotFound(message string) *Error {
	return &Error{ErrKind: KindNotFound, Message: message}
}

func Unauthenticated(message string) *Error {
	return &Error{ErrKind: KindUnauthenticated, Message: message}
}

func PermissionDenied(message string) *Error {
	return &Error{ErrKind: KindPermissionDenied, Message: message}
}

func Internal(message string, err error) *Error {
	return &Error{ErrKind: KindInternal, Message: message, Err: err}
}

// KindOf extracts the taxonomy kind, defaulting to internal for
// anything that is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.ErrKind
	}
	return KindInternal
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
