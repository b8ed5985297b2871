package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidate(t *testing.T) {
	m := NewManager("secret", time.Hour, "sandbox")
	token, err := m.GenerateToken(7, "a@b.com", "Ada Lovelace", 2, "v1")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "a@b.com", claims.Email)
	assert.Equal(t, uint(2), claims.RoleID)
	assert.Equal(t, "v1", claims.TokenVersion)
	assert.Equal(t, "sandbox", claims.Issuer)
}

func TestValidateRejectsOtherSecret(t *testing.T) {
	token, err := NewManager("one", time.Hour, "sandbox").GenerateToken(1, "a@b.com", "A", 1, "v")
	require.NoError(t, err)

	_, err = NewManager("two", time.Hour, "sandbox").ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewManager("secret", time.Minute, "sandbox")
	issued := time.Now().Add(-time.Hour)
	m.now = func() time.Time { return issued }
	token, err := m.GenerateToken(1, "a@b.com", "A", 1, "v")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMissing(t *testing.T) {
	_, err := NewManager("secret", 0, "sandbox").ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)
}
