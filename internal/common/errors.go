package common

import (
	"errors"
	"fmt"
)

// Kind classifies an AppError. The HTTP status and the user-facing message
// are derived from it at the handler boundary.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindUpload      Kind = "upload"
	KindPersistence Kind = "persistence"
	KindAuth        Kind = "auth"
	KindNotFound    Kind = "not_found"
	KindForbidden   Kind = "forbidden"
	KindConflict    Kind = "conflict"
	KindInternal    Kind = "internal"
)

// AppError is the single error shape produced at every fallible boundary.
// Message is an i18n key (or literal text when no translation exists).
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another *AppError by kind, and by message when the target carries one.
// errors.Is(err, ErrNotFound) is true for every not_found AppError.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Message == "" || t.Message == e.Message
}

// Kind sentinels for errors.Is
var (
	ErrValidation  = &AppError{Kind: KindValidation}
	ErrUpload      = &AppError{Kind: KindUpload}
	ErrPersistence = &AppError{Kind: KindPersistence}
	ErrAuth        = &AppError{Kind: KindAuth}
	ErrNotFound    = &AppError{Kind: KindNotFound}
	ErrForbidden   = &AppError{Kind: KindForbidden}
	ErrConflict    = &AppError{Kind: KindConflict}
)

// NewValidation creates a validation error
func NewValidation(message string, cause error) *AppError {
	return &AppError{Kind: KindValidation, Message: message, Cause: cause}
}

// NewUpload creates an upload error
func NewUpload(message string, cause error) *AppError {
	return &AppError{Kind: KindUpload, Message: message, Cause: cause}
}

// NewPersistence wraps a storage failure
func NewPersistence(cause error) *AppError {
	return &AppError{Kind: KindPersistence, Message: "error.persistence", Cause: cause}
}

// NewAuth creates an auth error
func NewAuth(message string, cause error) *AppError {
	return &AppError{Kind: KindAuth, Message: message, Cause: cause}
}

// NewNotFound creates a not found error
func NewNotFound(message string) *AppError {
	return &AppError{Kind: KindNotFound, Message: message}
}

// NewForbidden creates a forbidden error
func NewForbidden(message string) *AppError {
	return &AppError{Kind: KindForbidden, Message: message}
}

// NewConflict creates a conflict error
func NewConflict(message string, cause error) *AppError {
	return &AppError{Kind: KindConflict, Message: message, Cause: cause}
}

// KindOf returns the kind of the first AppError in err's chain, or KindInternal
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
