package random

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOTP(t *testing.T) {
	for i := 0; i < 50; i++ {
		otp, err := GenerateOTP()
		require.NoError(t, err)
		require.Len(t, otp, 6)

		n, err := strconv.Atoi(otp)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestGenerateInt(t *testing.T) {
	n, err := GenerateInt(5, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	_, err = GenerateInt(10, 1)
	assert.Error(t, err)

	for i := 0; i < 50; i++ {
		n, err := GenerateInt(1, 3)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, int64(1))
		assert.LessOrEqual(t, n, int64(3))
	}
}

func TestGenerateUsername(t *testing.T) {
	username, err := GenerateUsername("shopper@example.com")
	require.NoError(t, err)

	require.Len(t, username, 18)
	assert.Equal(t, "sh", username[:2])
	for _, r := range username[2:] {
		assert.Contains(t, usernameAlphabet, string(r))
	}
}

func TestGenerateUsername_ShortAndUnsafePrefixes(t *testing.T) {
	username, err := GenerateUsername("a@example.com")
	require.NoError(t, err)
	assert.Len(t, username, 17)
	assert.True(t, strings.HasPrefix(username, "a"))

	// Characters outside the username set are dropped from the prefix.
	username, err = GenerateUsername("+1@example.com")
	require.NoError(t, err)
	assert.Len(t, username, 17)
	assert.True(t, strings.HasPrefix(username, "1"))
}

func TestGenerateString(t *testing.T) {
	s, err := GenerateString("ab", 32)
	require.NoError(t, err)
	require.Len(t, s, 32)
	for _, r := range s {
		assert.True(t, r == 'a' || r == 'b')
	}

	empty, err := GenerateString("ab", 0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
