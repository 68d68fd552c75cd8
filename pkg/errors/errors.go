package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"-"`
	Err     error  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// Common error constructors

// Validation creates a 400 error; the message names the offending field
func Validation(message string, err error) *AppError {
	return &AppError{
		Code:    "VALIDATION_ERROR",
		Message: message,
		Status:  http.StatusBadRequest,
		Err:     err,
	}
}

// Unauthorized creates a 401 error
func Unauthorized(message string, err error) *AppError {
	return &AppError{
		Code:    "UNAUTHORIZED",
		Message: message,
		Status:  http.StatusUnauthorized,
		Err:     err,
	}
}

// NotFound creates a 404 error
func NotFound(message string, err error) *AppError {
	return &AppError{
		Code:    "NOT_FOUND",
		Message: message,
		Status:  http.StatusNotFound,
		Err:     err,
	}
}

// Conflict creates a 409 error
func Conflict(message string, err error) *AppError {
	return &AppError{
		Code:    "CONFLICT",
		Message: message,
		Status:  http.StatusConflict,
		Err:     err,
	}
}

// Internal creates a 500 error
func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    "INTERNAL_ERROR",
		Message: message,
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// Domain-specific errors

var (
	ErrTripNotFound   = NotFound("El viaje no existe.", nil)
	ErrUserNotFound   = NotFound("El usuario no existe.", nil)
	ErrAuthorNotFound = NotFound("El autor no existe.", nil)

	ErrEmailTaken = Conflict("El email ya está registrado.", nil)
	ErrDNITaken   = Conflict("El DNI ya está registrado.", nil)

	// Unknown email and wrong password must be indistinguishable to the caller.
	ErrInvalidCredentials = Unauthorized("Credenciales inválidas.", nil)

	ErrInsufficientSeats = &AppError{
		Code:    "INSUFFICIENT_SEATS",
		Message: "No hay suficientes asientos disponibles.",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidTransition = &AppError{
		Code:    "INVALID_TRANSITION",
		Message: "Transición de estado no válida para el viaje.",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidScore = &AppError{
		Code:    "INVALID_SCORE",
		Message: "La calificación debe estar entre 1 y 5.",
		Status:  http.StatusBadRequest,
	}
)

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError attempts to convert an error to AppError
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	// Return generic internal error if not an AppError
	return Internal("Ocurrió un error inesperado.", err)
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
