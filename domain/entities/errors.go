package entities

import (
	"errors"
	"fmt"
)

// ErrorKind classifies expected, user-facing failures. Anything outside
// these kinds is treated as an internal error by the presentation layer.
type ErrorKind string

const (
	ErrKindNotAuthorized      ErrorKind = "not_authorized"
	ErrKindNotFound           ErrorKind = "not_found"
	ErrKindInvalidState       ErrorKind = "invalid_state"
	ErrKindValidation         ErrorKind = "validation"
	ErrKindCapacityExceeded   ErrorKind = "capacity_exceeded"
	ErrKindConflict           ErrorKind = "conflict"
	ErrKindAlreadyActive      ErrorKind = "already_active"
	ErrKindWinnerAlreadyDrawn ErrorKind = "winner_already_drawn"
)

// DomainError is an expected failure with a user-presentable message.
type DomainError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a DomainError with a formatted message.
func NewDomainError(kind ErrorKind, format string, args ...any) *DomainError {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WrapDomainError attaches an underlying cause to a DomainError.
func WrapDomainError(kind ErrorKind, err error, format string, args ...any) *DomainError {
	return &DomainError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the error's kind, or "" if err is not a DomainError.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a DomainError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}

// IsConflict reports whether err is the retryable optimistic-insert
// collision. Callers may safely retry the whole operation; no partial
// state is left behind on a rejected batch.
func IsConflict(err error) bool {
	return IsKind(err, ErrKindConflict)
}
