package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound           = errors.New("resource not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAlreadyVerified    = errors.New("mobile number already verified")
	ErrInvalidToken       = errors.New("invalid or expired verification token")
)

// AppError represents an application error with an HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, "ERR_NOT_FOUND", message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, "ERR_BAD_REQUEST", message, ErrInvalidInput)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, "ERR_UNAUTHORIZED", message, ErrUnauthorized)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, "ERR_CONFLICT", message, ErrAlreadyExists)
}

// UnprocessableEntity covers user-state conflicts such as redeeming a token
// for an already verified number.
func UnprocessableEntity(message string, err error) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, "ERR_UNPROCESSABLE", message, err)
}

// NotAcceptable covers token mismatches (wrong, expired, or unknown token).
func NotAcceptable(message string, err error) *AppError {
	return NewAppError(http.StatusNotAcceptable, "ERR_NOT_ACCEPTABLE", message, err)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, "ERR_INTERNAL", "internal server error", err)
}
