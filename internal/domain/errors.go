package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP status codes with errors.Is.
var (
	ErrValidation        = errors.New("validation failed")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrForbidden         = errors.New("forbidden")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrDuplicate is returned by repositories when a unique constraint rejects a write.
	ErrDuplicate = errors.New("duplicate key")
)

// Error is a classified failure whose message is safe to show to the caller.
type Error struct {
	kind error
	msg  string
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Unwrap() error { return e.kind }

// Errorf builds an Error of the given kind.
func Errorf(kind error, format string, args ...any) error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// PublicMessage returns the caller-safe message of err, or "" if err is not classified.
func PublicMessage(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.msg
	}
	for _, kind := range []error{ErrValidation, ErrUnauthorized, ErrForbidden, ErrNotFound, ErrConflict, ErrInvalidTransition} {
		if errors.Is(err, kind) {
			return kind.Error()
		}
	}
	return ""
}
