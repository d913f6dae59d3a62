package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an application error.
type ErrorCode int

const (
	ErrNotFound ErrorCode = iota + 1000
	ErrValidation
	ErrPrecondition
	ErrDependency
	ErrUnauthorized
	ErrInternal
)

// AppError is the error type every command surfaces to callers.
//
// ErrValidation and ErrPrecondition guarantee no writes happened.
// ErrDependency means the primary write committed and a secondary effect
// failed; callers may retry just the secondary effect.
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
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

// StatusCode maps the error class to an HTTP status.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrValidation:
		return http.StatusBadRequest
	case ErrPrecondition:
		return http.StatusConflict
	case ErrDependency:
		return http.StatusFailedDependency
	case ErrUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

func NewNotFound(resource string, err error) *AppError {
	return &AppError{Code: ErrNotFound, Message: fmt.Sprintf("%s not found", resource), Err: err}
}

func NewValidation(message string) *AppError {
	return &AppError{Code: ErrValidation, Message: message}
}

func NewPrecondition(message string) *AppError {
	return &AppError{Code: ErrPrecondition, Message: message}
}

func NewDependency(message string, err error) *AppError {
	return &AppError{Code: ErrDependency, Message: message, Err: err}
}

func NewUnauthorized(message string) *AppError {
	return &AppError{Code: ErrUnauthorized, Message: message}
}

func NewInternal(err error) *AppError {
	return &AppError{Code: ErrInternal, Message: "internal error", Err: err}
}

func is(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

func IsNotFound(err error) bool     { return is(err, ErrNotFound) }
func IsValidation(err error) bool   { return is(err, ErrValidation) }
func IsPrecondition(err error) bool { return is(err, ErrPrecondition) }
func IsDependency(err error) bool   { return is(err, ErrDependency) }
