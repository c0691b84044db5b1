package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind string

const (
	KindValidation   Kind = "VALIDATION_ERROR"
	KindNotFound     Kind = "NOT_FOUND"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindInvalidState Kind = "INVALID_STATE"
	KindConflict     Kind = "CONFLICT"
	KindDependency   Kind = "DEPENDENCY_ERROR"
	KindInternal     Kind = "INTERNAL_ERROR"
)

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

func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

func Newf(kind Kind, format string, args ...any) *AppError {
	return &AppError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(err error, kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message, Cause: err}
}

// KindOf returns the kind carried by err, or KindInternal when err is not
// an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// HTTPStatus maps the error kind to the status code the API surfaces.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalidState:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	case KindDependency:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Kind == kind
}

func IsValidation(err error) bool   { return IsKind(err, KindValidation) }
func IsNotFound(err error) bool     { return IsKind(err, KindNotFound) }
func IsForbidden(err error) bool    { return IsKind(err, KindForbidden) }
func IsInvalidState(err error) bool { return IsKind(err, KindInvalidState) }
func IsConflict(err error) bool     { return IsKind(err, KindConflict) }
func IsDependency(err error) bool   { return IsKind(err, KindDependency) }
