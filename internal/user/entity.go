// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/umb-labs/umb-api/internal/middleware"
)

type User struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Role         string    `db:"role"`
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

const (
	RoleUser  = middleware.RoleUser
	RoleAdmin = middleware.RoleAdmin
)
