package jwthelper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	key := []byte("signing-key")

	raw, err := GenerateToken(key, 42, "organizer", "go-test", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(key, raw)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)
	assert.Equal(t, "organizer", claims.Role)
	assert.Equal(t, "go-test", claims.UserAgent)
}

func TestParseToken_WrongKey(t *testing.T) {
	raw, err := GenerateToken([]byte("a"), 1, "admin", "", time.Hour)
	require.NoError(t, err)

	_, err = ParseToken([]byte("b"), raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_Expired(t *testing.T) {
	key := []byte("k")
	raw, err := GenerateToken(key, 1, "admin", "", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(key, raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
