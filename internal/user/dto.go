// AngelaMos | 2026
// dto.go

package user

import (
	"time"
)

type CreateUserRequest struct {
	Name     string `json:"nombre"   validate:"required,notblank,max=100"`
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=128"`
	Role     string `json:"rol"      validate:"omitempty,oneof=usuario admin"`
	Active   *bool  `json:"activo,omitempty"`
}

// UpdateUserRequest distinguishes an absent field from a zero value, so
// {"activo": false} deactivates the account.
type UpdateUserRequest struct {
	Name   *string `json:"nombre,omitempty" validate:"omitempty,notblank,max=100"`
	Email  *string `json:"email,omitempty"  validate:"omitempty,email,max=255"`
	Role   *string `json:"rol,omitempty"    validate:"omitempty,oneof=usuario admin"`
	Active *bool   `json:"activo,omitempty"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	Email     string    `json:"email"`
	Role      string    `json:"rol"`
	Active    bool      `json:"activo"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	responses := make([]UserResponse, 0, len(users))
	for i := range users {
		responses = append(responses, ToUserResponse(&users[i]))
	}
	return responses
}
