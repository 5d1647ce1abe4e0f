package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrBadRequest
	ErrUnauthorized
	ErrForbidden
	ErrInternal
)

// Scheduling error codes
const (
	ErrInvalidRange ErrorCode = iota + 2000
	ErrOutsideWorkingHours
	ErrSpecialistUnavailable
	ErrRoomConflict
	ErrSpecialistConflict
)

// AppError represents an application error
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

// StatusCode maps the error code to an HTTP status. Consumed by the error
// middleware and handler helpers.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrBadRequest, ErrInvalidRange:
		return http.StatusBadRequest
	case ErrUnauthorized:
		return http.StatusUnauthorized
	case ErrForbidden:
		return http.StatusForbidden
	case ErrOutsideWorkingHours, ErrSpecialistUnavailable, ErrRoomConflict, ErrSpecialistConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Code extracts the ErrorCode from err, or ErrInternal for unknown errors.
func Code(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return Code(err) == code
}

// Error constructors
func NotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func BadRequest(message string, err error) *AppError {
	return &AppError{
		Code:    ErrBadRequest,
		Message: message,
		Err:     err,
	}
}

func Internal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

func Unauthorized(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthorized,
		Message: "unauthorized",
		Err:     err,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: message,
	}
}

func InvalidRange(message string) *AppError {
	return &AppError{
		Code:    ErrInvalidRange,
		Message: message,
	}
}

func OutsideWorkingHours(message string) *AppError {
	return &AppError{
		Code:    ErrOutsideWorkingHours,
		Message: message,
	}
}

func SpecialistUnavailable(message string) *AppError {
	return &AppError{
		Code:    ErrSpecialistUnavailable,
		Message: message,
	}
}

func RoomConflict(message string) *AppError {
	return &AppError{
		Code:    ErrRoomConflict,
		Message: message,
	}
}

func SpecialistConflict(message string) *AppError {
	return &AppError{
		Code:    ErrSpecialistConflict,
		Message: message,
	}
}
