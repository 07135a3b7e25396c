package services

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map each kind to an HTTP status.
var (
	ErrValidation   = errors.New("validation error")
	ErrNoCouple     = errors.New("no couple yet")
	ErrForbidden    = errors.New("permission denied")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")
)

// Error carries a client-facing message and the kind it belongs to.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...any) error {
	return newError(ErrValidation, format, args...)
}

func notFoundError(format string, args ...any) error {
	return newError(ErrNotFound, format, args...)
}

func forbiddenError() error {
	return newError(ErrForbidden, "Bạn không có quyền thực hiện thao tác này")
}

func noCoupleError() error {
	return newError(ErrNoCouple, "Bạn chưa có cặp đôi. Hãy kết nối với người ấy trước nhé!")
}
