// AngelaMos | 2026
// errors.go

package core

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicateKey = errors.New("duplicate key")
	ErrInvalidID    = errors.New("invalid identifier")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

// AppError is an error that already knows how it must be presented to the
// client. Err is kept for errors.Is checks against the sentinels above.
type AppError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
	Details    []string
}

func NewAppError(err error, message string, statusCode int, code string) *AppError {
	return &AppError{
		Err:        err,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
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

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// DuplicateKeyError names the field whose unique constraint was violated.
type DuplicateKeyError struct {
	Field string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate key on %s", e.Field)
}

func (e *DuplicateKeyError) Unwrap() error {
	return ErrDuplicateKey
}

func BadRequestError(message string) *AppError {
	return NewAppError(ErrInvalidInput, message, http.StatusBadRequest, "BAD_REQUEST")
}

func ValidationFailedError(details []string) *AppError {
	appErr := NewAppError(
		ErrInvalidInput,
		"Error de validación",
		http.StatusBadRequest,
		"VALIDATION_ERROR",
	)
	appErr.Details = details
	return appErr
}

func NotFoundError(message string) *AppError {
	return NewAppError(ErrNotFound, message, http.StatusNotFound, "NOT_FOUND")
}

func DuplicateError(field string) *AppError {
	return NewAppError(
		&DuplicateKeyError{Field: field},
		fmt.Sprintf("%s ya existe en la base de datos", field),
		http.StatusBadRequest,
		"DUPLICATE_KEY",
	)
}

func InvalidIDError() *AppError {
	return NewAppError(ErrInvalidID, "ID inválido", http.StatusBadRequest, "INVALID_ID")
}

func UnauthorizedError(message string) *AppError {
	return NewAppError(ErrUnauthorized, message, http.StatusUnauthorized, "UNAUTHORIZED")
}

func ForbiddenError(message string) *AppError {
	return NewAppError(ErrForbidden, message, http.StatusForbidden, "FORBIDDEN")
}

func TokenInvalidError() *AppError {
	return NewAppError(
		ErrTokenInvalid,
		"Token inválido o expirado",
		http.StatusUnauthorized,
		"TOKEN_INVALID",
	)
}

func TokenExpiredError() *AppError {
	return NewAppError(
		ErrTokenExpired,
		"Token inválido o expirado",
		http.StatusUnauthorized,
		"TOKEN_EXPIRED",
	)
}
