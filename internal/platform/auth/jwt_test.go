package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	userID := uuid.New()

	token, err := m.Generate(userID, RoleReceptionist)
	require.NoError(t, err)

	principal, err := m.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, userID, principal.UserID)
	assert.Equal(t, RoleReceptionist, principal.Role)
	assert.True(t, principal.IsStaff())
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := NewJWTManager("secret-a", time.Hour).Generate(uuid.New(), RoleGuest)
	require.NoError(t, err)

	_, err = NewJWTManager("secret-b", time.Hour).Verify(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)
	token, err := m.Generate(uuid.New(), RoleGuest)
	require.NoError(t, err)

	_, err = m.Verify(token)
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestVerifyRejectsGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)
	_, err := m.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestIsStaff(t *testing.T) {
	assert.False(t, Principal{Role: RoleGuest}.IsStaff())
	assert.True(t, Principal{Role: RoleReceptionist}.IsStaff())
	assert.True(t, Principal{Role: RoleManager}.IsStaff())
}
