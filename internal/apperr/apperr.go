// Package apperr carries the marketplace error taxonomy across service
// boundaries so handlers can answer with a stable code and status.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Code string

const (
	Unauthenticated    Code = "unauthenticated"
	InvalidArgument    Code = "invalid-argument"
	NotFound           Code = "not-found"
	FailedPrecondition Code = "failed-precondition"
	PermissionDenied   Code = "permission-denied"
	Conflict           Code = "already-exists"
	// Upstream marks a failed payment-provider call. It is reported to
	// clients with the generic internal code.
	Upstream Code = "upstream"
	Internal Code = "internal"
)

// Error is a coded error. Message is safe to show to the caller.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or Internal.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Internal
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	return err != nil && CodeOf(err) == code
}

// WireCode is the code exposed to clients.
func WireCode(code Code) string {
	if code == Upstream {
		return string(Internal)
	}
	return string(code)
}

func HTTPStatus(code Code) int {
	switch code {
	case Unauthenticated:
		return fiber.StatusUnauthorized
	case InvalidArgument:
		return fiber.StatusBadRequest
	case NotFound:
		return fiber.StatusNotFound
	case FailedPrecondition:
		return fiber.StatusPreconditionFailed
	case PermissionDenied:
		return fiber.StatusForbidden
	case Conflict:
		return fiber.StatusConflict
	case Upstream:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// PublicMessage returns the message to expose for err. Internal and upstream
// details are never exposed.
func PublicMessage(err error) string {
	var e *Error
	if !errors.As(err, &e) {
		return "Internal server error"
	}
	if e.Code == Internal {
		return "Internal server error"
	}
	return e.Message
}
