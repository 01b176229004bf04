// AngelaMos | 2026
// server_test.go

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umb-labs/umb-api/internal/config"
	"github.com/umb-labs/umb-api/internal/core"
	"github.com/umb-labs/umb-api/internal/health"
)

func newTestServer(hh *health.Handler) *Server {
	return New(Config{
		ServerConfig: config.ServerConfig{
			Host:         "127.0.0.1",
			Port:         0,
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		AppConfig:     config.AppConfig{Version: "2.0.0"},
		HealthHandler: hh,
	})
}

func TestWelcome(t *testing.T) {
	s := newTestServer(nil)
	s.RegisterWelcome()

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool            `json:"success"`
		Data    WelcomeResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "¡Bienvenido a uMB API!", body.Data.Message)
	assert.Equal(t, "2.0.0", body.Data.Version)
	assert.Equal(t, "/api/bots", body.Data.Endpoints["bots"])
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(nil)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/nada", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var env core.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	assert.Equal(t, "Ruta no encontrada", env.Message)
}

func TestShutdownFailsProbes(t *testing.T) {
	hh := health.NewHandler()
	s := newTestServer(hh)
	hh.RegisterRoutes(s.Router())

	require.NoError(t, s.Shutdown(context.Background(), 0))

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestShutdownHonoursContext(t *testing.T) {
	s := newTestServer(nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, s.Shutdown(ctx, time.Minute), context.Canceled)
}
