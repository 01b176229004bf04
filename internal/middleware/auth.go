// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/umb-labs/umb-api/internal/core"
)

const (
	RoleUser  = "usuario"
	RoleAdmin = "admin"
)

const IdentityKey contextKey = "identity"

// Identity is the authenticated caller, resolved from the store on every
// request so role and active flag changes apply immediately.
type Identity struct {
	ID     string
	Name   string
	Email  string
	Role   string
	Active bool
}

type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

type IdentityLoader interface {
	LoadIdentity(ctx context.Context, userID string) (*Identity, error)
}

// Authenticator requires a valid bearer token whose subject is an existing,
// active user. The store is not consulted until the token has verified.
func Authenticator(
	verifier TokenVerifier,
	loader IdentityLoader,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				core.Error(w, r, core.UnauthorizedError(
					"No autorizado. Token no proporcionado",
				))
				return
			}

			userID, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				handleTokenError(w, r, err)
				return
			}

			identity, err := loader.LoadIdentity(r.Context(), userID)
			if err != nil {
				if errors.Is(err, core.ErrNotFound) ||
					errors.Is(err, core.ErrInvalidID) {
					core.Error(w, r, core.UnauthorizedError("Usuario no encontrado"))
					return
				}
				core.Error(w, r, err)
				return
			}

			if !identity.Active {
				core.Error(w, r, core.UnauthorizedError("Usuario inactivo"))
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireRole(roles ...string) func(http.Handler) http.Handler {
	roleSet := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := GetIdentity(r.Context())
			if identity == nil {
				core.Error(w, r, core.UnauthorizedError("No autorizado"))
				return
			}

			if _, ok := roleSet[identity.Role]; !ok {
				core.Error(w, r, core.ForbiddenError(
					"Acceso denegado. Se requieren permisos de administrador",
				))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(RoleAdmin)(next)
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	scheme, token, ok := strings.Cut(authHeader, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}

	return strings.TrimSpace(token)
}

func handleTokenError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, core.ErrTokenExpired) {
		core.Error(w, r, core.TokenExpiredError())
		return
	}
	core.Error(w, r, core.TokenInvalidError())
}

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityKey).(*Identity); ok {
		return identity
	}
	return nil
}

func GetUserID(ctx context.Context) string {
	if identity := GetIdentity(ctx); identity != nil {
		return identity.ID
	}
	return ""
}
