package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/legal-services-api/internal/model"
)

func TestTokenRoundTrip(t *testing.T) {
	m := NewTokenManager("secret", "catalog", time.Hour)
	actor := &model.Actor{UserID: 3, Username: "jane", Email: "jane@example.com", IsStaff: true}

	token, err := m.GenerateAccessToken(actor)
	require.NoError(t, err)

	got, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, actor, got)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenManager("one", "catalog", time.Hour).
		GenerateAccessToken(&model.Actor{UserID: 1, Username: "a"})
	require.NoError(t, err)

	_, err = NewTokenManager("two", "catalog", time.Hour).ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	m := NewTokenManager("secret", "catalog", time.Minute)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := m.GenerateAccessToken(&model.Actor{UserID: 1, Username: "a"})
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestGenerateRejectsAnonymous(t *testing.T) {
	_, err := NewTokenManager("s", "", time.Hour).GenerateAccessToken(nil)
	assert.Error(t, err)
}
