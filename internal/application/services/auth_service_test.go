package services

import (
	"testing"
	"time"

	"github.com/commonsforge/pagecraft-go/internal/infrastructure/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestLoginWithPlainPasswords(t *testing.T) {
	svc := NewAuthService("test-secret", "admin-pw", "editor-pw", time.Hour, false, newTestLogger(t))

	token, role, err := svc.Login("admin-pw")
	require.NoError(t, err)
	assert.Equal(t, security.RoleAdmin, role)

	got, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, security.RoleAdmin, got)

	_, role, err = svc.Login("editor-pw")
	require.NoError(t, err)
	assert.Equal(t, security.RoleEditor, role)

	_, _, err = svc.Login("wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginWithBcryptHash(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	svc := NewAuthService("test-secret", string(hash), "", time.Hour, false, newTestLogger(t))

	_, role, err := svc.Login("s3cret")
	require.NoError(t, err)
	assert.Equal(t, security.RoleAdmin, role)

	_, _, err = svc.Login("not-it")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEmptyConfiguredPasswordNeverMatches(t *testing.T) {
	svc := NewAuthService("test-secret", "", "", time.Hour, false, newTestLogger(t))

	_, _, err := svc.Login("")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDemoLogin(t *testing.T) {
	svc := NewAuthService("test-secret", "", "", time.Hour, true, newTestLogger(t))

	_, role, err := svc.Login("")
	require.NoError(t, err)
	assert.Equal(t, security.RoleEditor, role)
}

func TestValidateRejectsForeignToken(t *testing.T) {
	svc := NewAuthService("test-secret", "pw", "", time.Hour, false, newTestLogger(t))

	foreign, err := security.GenerateRoleToken(security.RoleAdmin, "other-secret", time.Hour)
	require.NoError(t, err)
	_, err = svc.ValidateToken(foreign)
	assert.Error(t, err)
}
