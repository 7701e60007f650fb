package services

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/autoservice-app/store"
)

type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindNotFound          ErrorKind = "not_found"
	KindConflict          ErrorKind = "conflict"
	KindForbidden         ErrorKind = "forbidden"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindUnauthorized      ErrorKind = "unauthorized"
)

// DomainError is a failure scoped to a single user action.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// Is matches any DomainError of the same kind, so errors.Is(err, ErrConflict) works.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
	}
	return false
}

var (
	ErrValidation        = &DomainError{Kind: KindValidation}
	ErrNotFound          = &DomainError{Kind: KindNotFound}
	ErrConflict          = &DomainError{Kind: KindConflict}
	ErrForbidden         = &DomainError{Kind: KindForbidden}
	ErrInvalidTransition = &DomainError{Kind: KindInvalidTransition}
	ErrUnauthorized      = &DomainError{Kind: KindUnauthorized}
)

func validationError(format string, args ...interface{}) error {
	return &DomainError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func conflictError(format string, args ...interface{}) error {
	return &DomainError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func forbiddenError(format string, args ...interface{}) error {
	return &DomainError{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func transitionError(format string, args ...interface{}) error {
	return &DomainError{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func notFound(entity string) error {
	return &DomainError{Kind: KindNotFound, Message: entity + " not found"}
}

// lookupError turns a missing record into a not-found DomainError and wraps anything else.
func lookupError(entity string, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return notFound(entity)
	}
	return fmt.Errorf("load %s: %w", entity, err)
}
