package model

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain failure so the transport layer can map it to
// a status code without string matching.
type ErrorKind string

const (
	KindNotFound              ErrorKind = "not_found"
	KindConflict              ErrorKind = "conflict"
	KindInvalidTransition     ErrorKind = "invalid_transition"
	KindPreconditionFailed    ErrorKind = "precondition_failed"
	KindInsufficientResources ErrorKind = "insufficient_resources"
	KindValidation            ErrorKind = "validation"
)

// DomainError is a typed operation failure. Infrastructure errors are wrapped
// with %w instead and surface as internal errors at the transport boundary.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func ErrNotFound(format string, args ...interface{}) error {
	return &DomainError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func ErrConflict(format string, args ...interface{}) error {
	return &DomainError{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func ErrInvalidTransition(format string, args ...interface{}) error {
	return &DomainError{Kind: KindInvalidTransition, Message: fmt.Sprintf(format, args...)}
}

func ErrPreconditionFailed(format string, args ...interface{}) error {
	return &DomainError{Kind: KindPreconditionFailed, Message: fmt.Sprintf(format, args...)}
}

func ErrInsufficientResources(format string, args ...interface{}) error {
	return &DomainError{Kind: KindInsufficientResources, Message: fmt.Sprintf(format, args...)}
}

func ErrValidation(format string, args ...interface{}) error {
	return &DomainError{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the error's kind, or "" for non-domain errors.
func KindOf(err error) ErrorKind {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

func IsNotFound(err error) bool           { return KindOf(err) == KindNotFound }
func IsConflict(err error) bool           { return KindOf(err) == KindConflict }
func IsInvalidTransition(err error) bool  { return KindOf(err) == KindInvalidTransition }
func IsPreconditionFailed(err error) bool { return KindOf(err) == KindPreconditionFailed }
func IsValidation(err error) bool         { return KindOf(err) == KindValidation }
