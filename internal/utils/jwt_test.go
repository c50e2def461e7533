package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePairRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 30*time.Minute, 7*24*time.Hour)

	access, refresh, err := tm.GeneratePair(42, "alisher", "alisher@example.com", true)
	require.NoError(t, err)
	assert.NotEqual(t, access, refresh)

	claims, err := tm.ValidateType(access, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, 42, claims.UserID)
	assert.Equal(t, "alisher", claims.Username)
	assert.Equal(t, "alisher@example.com", claims.Email)
	assert.True(t, claims.IsSuperuser)
	assert.NotEmpty(t, claims.ID)

	refreshClaims, err := tm.ValidateType(refresh, TokenTypeRefresh)
	require.NoError(t, err)
	assert.Equal(t, 42, refreshClaims.UserID)
	assert.NotEqual(t, claims.ID, refreshClaims.ID)
}

func TestValidateTypeRejectsWrongType(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Minute, time.Hour)

	access, refresh, err := tm.GeneratePair(1, "user", "user@example.com", false)
	require.NoError(t, err)

	_, err = tm.ValidateType(access, TokenTypeRefresh)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = tm.ValidateType(refresh, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsExpired(t *testing.T) {
	tm := NewTokenManager("test-secret", -time.Minute, time.Hour)

	access, _, err := tm.GeneratePair(1, "user", "user@example.com", false)
	require.NoError(t, err)

	_, err = tm.Validate(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsForeignSecret(t *testing.T) {
	issuer := NewTokenManager("secret-a", time.Minute, time.Hour)
	verifier := NewTokenManager("secret-b", time.Minute, time.Hour)

	access, _, err := issuer.GeneratePair(1, "user", "user@example.com", false)
	require.NoError(t, err)

	_, err = verifier.Validate(access)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsGarbage(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Minute, time.Hour)

	_, err := tm.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
