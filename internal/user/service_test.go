// AngelaMos | 2026
// service_test.go

package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/umb-labs/umb-api/internal/auth"
	"github.com/umb-labs/umb-api/internal/core"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, user *User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id string) (*User, error) {
	args := m.Called(ctx, id)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	args := m.Called(ctx, email)
	if u := args.Get(0); u != nil {
		return u.(*User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Update(ctx context.Context, user *User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return m.Called(ctx, id, passwordHash).Error(0)
}

func (m *mockRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepository) List(ctx context.Context) ([]User, error) {
	args := m.Called(ctx)
	if u := args.Get(0); u != nil {
		return u.([]User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func existingUser() *User {
	return &User{
		ID:     "user-1",
		Name:   "Ana",
		Email:  "ana@example.com",
		Role:   RoleUser,
		Active: true,
	}
}

func ptr[T any](v T) *T {
	return &v
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ana@example.com", NormalizeEmail("  Ana@Example.COM "))
}

func TestService_GetByEmailNormalizes(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)
	repo.On("GetByEmail", mock.Anything, "ana@example.com").Return(existingUser(), nil)

	info, err := svc.GetByEmail(context.Background(), "ANA@example.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", info.ID)
	repo.AssertExpectations(t)
}

func TestService_CreateUserDefaults(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	repo.On("ExistsByEmail", mock.Anything, "nuevo@example.com").Return(false, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return u.Email == "nuevo@example.com" &&
			u.Role == RoleUser &&
			u.Active &&
			u.PasswordHash != "secreto" &&
			u.ID != ""
	})).Return(nil)

	u, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Name:     "Nuevo",
		Email:    "Nuevo@Example.com",
		Password: "secreto",
	})
	require.NoError(t, err)
	assert.Equal(t, RoleUser, u.Role)
	repo.AssertExpectations(t)
}

func TestService_CreateUserDuplicate(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)
	repo.On("ExistsByEmail", mock.Anything, "ana@example.com").Return(true, nil)

	_, err := svc.CreateUser(context.Background(), CreateUserRequest{
		Name: "Ana", Email: "ana@example.com", Password: "secreto",
	})
	assert.ErrorIs(t, err, auth.ErrEmailExists)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_UpdateUserAppliesFalseActive(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	repo.On("GetByID", mock.Anything, "user-1").Return(existingUser(), nil)
	repo.On("Update", mock.Anything, mock.MatchedBy(func(u *User) bool {
		return !u.Active && u.Name == "Ana" && u.Email == "ana@example.com"
	})).Return(nil)

	u, err := svc.UpdateUser(context.Background(), "user-1", UpdateUserRequest{
		Active: ptr(false),
	})
	require.NoError(t, err)
	assert.False(t, u.Active)
	repo.AssertExpectations(t)
}

func TestService_UpdateUserEmailTaken(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	repo.On("GetByID", mock.Anything, "user-1").Return(existingUser(), nil)
	repo.On("ExistsByEmail", mock.Anything, "otro@example.com").Return(true, nil)

	_, err := svc.UpdateUser(context.Background(), "user-1", UpdateUserRequest{
		Email: ptr("Otro@example.com"),
	})
	assert.ErrorIs(t, err, auth.ErrEmailExists)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_UpdateUserSameEmailSkipsCheck(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	repo.On("GetByID", mock.Anything, "user-1").Return(existingUser(), nil)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	u, err := svc.UpdateUser(context.Background(), "user-1", UpdateUserRequest{
		Email: ptr("ANA@example.com"),
		Role:  ptr(RoleAdmin),
	})
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
	repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything)
}

func TestService_NotFoundMapsToUserMessage(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)

	repo.On("GetByID", mock.Anything, "missing").Return(nil, core.ErrNotFound)
	repo.On("Delete", mock.Anything, "missing").Return(core.ErrNotFound)

	_, err := svc.GetUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.UpdateUser(context.Background(), "missing", UpdateUserRequest{})
	assert.ErrorIs(t, err, ErrUserNotFound)

	err = svc.DeleteUser(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_LoadIdentity(t *testing.T) {
	repo := new(mockRepository)
	svc := NewService(repo)
	repo.On("GetByID", mock.Anything, "user-1").Return(existingUser(), nil)

	identity, err := svc.LoadIdentity(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.ID)
	assert.True(t, identity.Active)
	assert.Equal(t, RoleUser, identity.Role)
}
