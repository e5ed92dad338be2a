package util

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, exp, err := GenerateJWT("learner-1", "secret", time.Hour)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), exp, time.Minute)

	claims, err := ParseJWT(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "learner-1", claims.LearnerID)

	_, err = ParseJWT(token, "other")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := GenerateJWT("learner-1", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = ParseJWT(expired, "secret")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSafeFileName(t *testing.T) {
	assert.Equal(t, "Python_List_Comprehensions", SafeFileName("Python List Comprehensions"))
	assert.Equal(t, "Algorithm_Binary_Search", SafeFileName("Algorithm: Binary  Search"))
	assert.Equal(t, "a_b", SafeFileName(" a/ b "))
}

func TestParseNonNegativeInt(t *testing.T) {
	v, err := ParseNonNegativeInt("position", "12")
	require.NoError(t, err)
	assert.Equal(t, 12, v)

	_, err = ParseNonNegativeInt("position", "-1")
	assert.Error(t, err)
	_, err = ParseNonNegativeInt("position", "x")
	assert.Error(t, err)
}

func TestValidateMimeType(t *testing.T) {
	_, err := ValidateMimeType(bytes.NewReader([]byte("plain text")), []string{MimeVideo})
	assert.Error(t, err)

	mt, err := ValidateMimeType(bytes.NewReader([]byte("plain text")), []string{"text/plain"})
	require.NoError(t, err)
	assert.False(t, IsVideo(mt))

	assert.True(t, HasVideoExtension("intro.MP4"))
	assert.False(t, HasVideoExtension("notes.md"))
}
