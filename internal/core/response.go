// AngelaMos | 2026
// response.go

package core

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
)

// Envelope is the shape of every JSON body the API returns.
type Envelope struct {
	Success bool     `json:"success"`
	Message string   `json:"mensaje,omitempty"`
	Data    any      `json:"data,omitempty"`
	Count   *int     `json:"cantidad,omitempty"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errores,omitempty"`
	Stack   string   `json:"stack,omitempty"`
}

type errorDetailKey struct{}

// WithErrorDetail marks the request so internal errors are reported with
// their message and stack. Only set in development.
func WithErrorDetail(ctx context.Context) context.Context {
	return context.WithValue(ctx, errorDetailKey{}, true)
}

func ErrorDetailEnabled(ctx context.Context) bool {
	enabled, _ := ctx.Value(errorDetailKey{}).(bool)
	return enabled
}

func JSON(w http.ResponseWriter, status int, body Envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(body)
}

func OK(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

func Created(w http.ResponseWriter, message string, data any) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Message: message, Data: data})
}

func List(w http.ResponseWriter, data any, count int) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data, Count: &count})
}

// Error is the single point where failures become HTTP responses.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		JSON(w, appErr.StatusCode, Envelope{
			Message: appErr.Message,
			Errors:  appErr.Details,
		})
		return
	}

	var dupErr *DuplicateKeyError
	switch {
	case errors.As(err, &dupErr):
		JSON(w, http.StatusBadRequest, Envelope{
			Message: DuplicateError(dupErr.Field).Message,
		})
	case errors.Is(err, ErrInvalidID):
		Error(w, r, InvalidIDError())
	case errors.Is(err, ErrInvalidInput):
		JSON(w, http.StatusBadRequest, Envelope{Message: "Petición inválida"})
	case errors.Is(err, ErrNotFound):
		JSON(w, http.StatusNotFound, Envelope{Message: "Recurso no encontrado"})
	case errors.Is(err, ErrTokenInvalid), errors.Is(err, ErrTokenExpired):
		JSON(w, http.StatusUnauthorized, Envelope{Message: "Token inválido o expirado"})
	case errors.Is(err, ErrUnauthorized):
		JSON(w, http.StatusUnauthorized, Envelope{Message: "No autorizado"})
	case errors.Is(err, ErrForbidden):
		JSON(w, http.StatusForbidden, Envelope{Message: "Acceso denegado"})
	default:
		InternalServerError(w, r, err)
	}
}

func InternalServerError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	slog.ErrorContext(ctx, "unhandled error",
		"error", err,
		"method", r.Method,
		"path", r.URL.Path,
	)
	SetSpanError(ctx, err)

	body := Envelope{Message: "Error del servidor"}
	if ErrorDetailEnabled(ctx) {
		body.Error = err.Error()
		body.Stack = string(debug.Stack())
	}

	JSON(w, http.StatusInternalServerError, body)
}
