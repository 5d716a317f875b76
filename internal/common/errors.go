package common

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// ErrorKind classifies failures so transports can map them to status codes.
type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
	KindBadRequest
)

func (k ErrorKind) String() string {
	switch k {
	case KindNotFound:
		return "Not Found"
	case KindConflict:
		return "Conflict"
	case KindUnauthorized:
		return "Unauthorized"
	case KindForbidden:
		return "Forbidden"
	case KindBadRequest:
		return "Bad Request"
	default:
		return "Internal Server Error"
	}
}

type AppError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NotFound(msg string) error     { return &AppError{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) error     { return &AppError{Kind: KindConflict, Message: msg} }
func Unauthorized(msg string) error { return &AppError{Kind: KindUnauthorized, Message: msg} }
func Forbidden(msg string) error    { return &AppError{Kind: KindForbidden, Message: msg} }
func BadRequest(msg string) error   { return &AppError{Kind: KindBadRequest, Message: msg} }

// Internal wraps an unexpected failure; the cause is logged, never shown to clients.
func Internal(msg string, err error) error {
	return &AppError{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf reports the kind of err. Unclassified errors are internal.
func KindOf(err error) ErrorKind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// IsKind is shorthand for KindOf(err) == kind.
func IsKind(err error, kind ErrorKind) bool {
	return err != nil && KindOf(err) == kind
}

// FromRepoError maps a repository's gorm errors onto the error kinds.
// AppErrors pass through untouched.
func FromRepoError(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return NotFound(what + " not found")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return Conflict(what + " already exists")
	default:
		var appErr *AppError
		if errors.As(err, &appErr) {
			return err
		}
		return Internal(what, err)
	}
}
