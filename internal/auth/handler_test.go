// AngelaMos | 2026
// handler_test.go

package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/umb-labs/umb-api/internal/core"
	"github.com/umb-labs/umb-api/internal/middleware"
)

type stubIdentityLoader struct {
	identity *middleware.Identity
}

func (s stubIdentityLoader) LoadIdentity(_ context.Context, _ string) (*middleware.Identity, error) {
	if s.identity == nil {
		return nil, core.ErrNotFound
	}
	return s.identity, nil
}

func newTestRouter(t *testing.T, loader middleware.IdentityLoader) (http.Handler, *Service, *mockUserProvider) {
	t.Helper()
	svc, provider := newTestService(t)

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, middleware.Authenticator(svc.tokens, loader))
	return r, svc, provider
}

func doJSON(h http.Handler, method, path, body, token string) (*httptest.ResponseRecorder, core.Envelope) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env core.Envelope
	//nolint:errcheck // asserted through fields
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestHandler_RegisterValidation(t *testing.T) {
	h, _, provider := newTestRouter(t, stubIdentityLoader{})

	rec, env := doJSON(h, http.MethodPost, "/auth/registro",
		`{"nombre":"","email":"no-es-email","password":"123"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Equal(t, "Error de validación", env.Message)
	assert.Len(t, env.Errors, 3)
	provider.AssertNotCalled(t, "EmailExists", mock.Anything, mock.Anything)
}

func TestHandler_RegisterMalformedBody(t *testing.T) {
	h, _, _ := newTestRouter(t, stubIdentityLoader{})

	rec, env := doJSON(h, http.MethodPost, "/auth/registro", `{"nombre":`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Cuerpo de la petición inválido", env.Message)
}

func TestHandler_RegisterCreated(t *testing.T) {
	h, _, provider := newTestRouter(t, stubIdentityLoader{})

	provider.On("EmailExists", mock.Anything, "ana@example.com").Return(false, nil)
	provider.On("Create", mock.Anything, "Ana", "ana@example.com", mock.Anything, "usuario").
		Return(&UserInfo{ID: "user-1", Name: "Ana", Email: "ana@example.com", Role: "usuario", Active: true}, nil)

	rec, env := doJSON(h, http.MethodPost, "/auth/registro",
		`{"nombre":"Ana","email":"ana@example.com","password":"secreto"}`, "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Usuario registrado exitosamente", env.Message)

	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "user-1", data["id"])
	assert.NotEmpty(t, data["token"])
	assert.NotContains(t, data, "password")
}

func TestHandler_LoginErrors(t *testing.T) {
	h, _, provider := newTestRouter(t, stubIdentityLoader{})
	provider.On("GetByEmail", mock.Anything, "nadie@example.com").Return(nil, core.ErrNotFound)

	rec, env := doJSON(h, http.MethodPost, "/auth/login", `{"email":""}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Por favor proporcione email y contraseña", env.Message)

	rec, env = doJSON(h, http.MethodPost, "/auth/login",
		`{"email":"nadie@example.com","password":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Credenciales inválidas", env.Message)
}

func TestHandler_LoginOK(t *testing.T) {
	h, _, provider := newTestRouter(t, stubIdentityLoader{})
	provider.On("GetByEmail", mock.Anything, "ana@example.com").Return(storedUser(t, "secreto", true), nil)

	rec, env := doJSON(h, http.MethodPost, "/auth/login",
		`{"email":"ana@example.com","password":"secreto"}`, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login exitoso", env.Message)
}

func TestHandler_GetMe(t *testing.T) {
	loader := stubIdentityLoader{identity: &middleware.Identity{
		ID: "user-1", Role: middleware.RoleUser, Active: true,
	}}
	h, svc, provider := newTestRouter(t, loader)
	provider.On("GetByID", mock.Anything, "user-1").Return(storedUser(t, "secreto", true), nil)

	rec, _ := doJSON(h, http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, err := svc.tokens.Issue("user-1")
	require.NoError(t, err)

	rec, env := doJSON(h, http.MethodGet, "/auth/me", "", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	data, ok := env.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", data["email"])
	assert.Equal(t, true, data["activo"])
}
