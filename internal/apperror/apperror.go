package apperror

import (
	"errors"
	"net/http"
)

type Code string

const (
	BadRequest    Code = "BAD_REQUEST"
	NotFound      Code = "NOT_FOUND"
	Unprocessable Code = "UNPROCESSABLE"
	BadGateway    Code = "BAD_GATEWAY"
	Internal      Code = "INTERNAL"
)

type AppError struct {
	code    Code
	message string
	err     error
}

func New(code Code, message string) *AppError {
	return &AppError{code: code, message: message}
}

// Wrap attaches a code and user-facing message to err, keeping err reachable
// through errors.Is and errors.As.
func Wrap(code Code, message string, err error) *AppError {
	return &AppError{code: code, message: message, err: err}
}

func (e *AppError) Error() string {
	if e.err != nil {
		return e.message + ": " + e.err.Error()
	}
	return e.message
}

func (e *AppError) Unwrap() error   { return e.err }
func (e *AppError) Code() Code      { return e.code }
func (e *AppError) Message() string { return e.message }

func (e *AppError) HTTPStatus() int {
	switch e.code {
	case BadRequest:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Unprocessable:
		return http.StatusUnprocessableEntity
	case BadGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// From returns err as an *AppError, or an Internal one if it is not.
func From(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return Wrap(Internal, "internal error", err)
}
