// AngelaMos | 2026
// jwt_test.go

package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umb-labs/umb-api/internal/config"
	"github.com/umb-labs/umb-api/internal/core"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:   testSecret,
		Expire:   time.Hour,
		Issuer:   "umb-api",
		Audience: "umb-api",
	}
}

func newTestTokenManager(t *testing.T) *TokenManager {
	t.Helper()
	m, err := NewTokenManager(testJWTConfig())
	require.NoError(t, err)
	return m
}

func TestTokenManager_IssueAndVerify(t *testing.T) {
	m := newTestTokenManager(t)

	token, err := m.Issue("user-1")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	subject, err := m.VerifyToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)
	assert.Equal(t, time.Hour, m.ExpiresIn())
}

func TestTokenManager_RejectsExpiredToken(t *testing.T) {
	m := newTestTokenManager(t)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := m.Issue("user-1")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenExpired)
	assert.NotErrorIs(t, err, core.ErrTokenInvalid)
}

func TestTokenManager_RejectsTamperedToken(t *testing.T) {
	m := newTestTokenManager(t)

	token, err := m.Issue("user-1")
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	if tampered == token {
		tampered = token[:len(token)-2] + "yy"
	}

	_, err = m.VerifyToken(context.Background(), tampered)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	m := newTestTokenManager(t)

	other := testJWTConfig()
	other.Secret = "fedcba9876543210fedcba9876543210"
	foreign, err := NewTokenManager(other)
	require.NoError(t, err)

	token, err := foreign.Issue("user-1")
	require.NoError(t, err)

	_, err = m.VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestTokenManager_RejectsGarbage(t *testing.T) {
	m := newTestTokenManager(t)

	_, err := m.VerifyToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
}

func TestNewTokenManager_InvalidConfig(t *testing.T) {
	cfg := testJWTConfig()
	cfg.Secret = ""
	_, err := NewTokenManager(cfg)
	assert.Error(t, err)

	cfg = testJWTConfig()
	cfg.Expire = 0
	_, err = NewTokenManager(cfg)
	assert.Error(t, err)
}

func TestTokenManager_NotYetValidIsNotExpired(t *testing.T) {
	m := newTestTokenManager(t)
	m.now = func() time.Time { return time.Now().Add(time.Hour) }

	token, err := m.Issue("user-1")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.VerifyToken(context.Background(), token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)
	assert.NotErrorIs(t, err, core.ErrTokenExpired)
}
