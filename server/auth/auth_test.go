package auth

import (
	"testing"
	"time"

	"newsdeck/model"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerifyRoundTrip(t *testing.T) {
	tokens := NewTokenServiceWithSecret("test-secret")
	user := model.User{Name: "Clark Kent", Email: "clark@superman.com"}

	signed, err := tokens.Sign(user)
	require.NoError(t, err)

	claims, err := tokens.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "clark@superman.com", claims.Email)
	assert.Equal(t, "Clark Kent", claims.Name)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	signed, err := NewTokenServiceWithSecret("secret-a").Sign(model.User{Email: "a@b.com"})
	require.NoError(t, err)

	_, err = NewTokenServiceWithSecret("secret-b").Verify(signed)
	assert.Error(t, err)
	assert.False(t, errors.Is(err, ErrTokenExpired))
}

func TestVerifyReportsExpiry(t *testing.T) {
	tokens := NewTokenServiceWithSecret("test-secret")
	issuedAt := time.Now().Add(-2 * time.Hour)
	tokens.now = func() time.Time { return issuedAt }

	signed, err := tokens.Sign(model.User{Email: "a@b.com"})
	require.NoError(t, err)

	tokens.now = time.Now
	_, err = tokens.Verify(signed)
	assert.True(t, errors.Is(err, ErrTokenExpired))
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tokens := NewTokenServiceWithSecret("test-secret")
	_, err := tokens.Verify("not.a.token")
	assert.Error(t, err)
}
