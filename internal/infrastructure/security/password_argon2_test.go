package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hansraja/MegaMarket/internal/config"
)

func testHasher(t *testing.T) PasswordHasher {
	t.Helper()
	hasher, err := NewArgon2idHasher(config.SecurityConfig{
		Argon2Memory:      16 * 1024,
		Argon2Iterations:  1,
		Argon2Parallelism: 1,
		Argon2SaltLength:  16,
		Argon2KeyLength:   32,
	})
	require.NoError(t, err)
	return hasher
}

func TestHashPassword_EncodedForm(t *testing.T) {
	hasher := testHasher(t)

	encoded, err := hasher.HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=16384,t=1,p=1$"))
	assert.Len(t, strings.Split(encoded, "$"), 6)
}

func TestHashPassword_SaltsDiffer(t *testing.T) {
	hasher := testHasher(t)

	a, err := hasher.HashPassword("secret")
	require.NoError(t, err)
	b, err := hasher.HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestCheckPasswordHash(t *testing.T) {
	hasher := testHasher(t)

	encoded, err := hasher.HashPassword("secret")
	require.NoError(t, err)

	ok, err := hasher.CheckPasswordHash("secret", encoded)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = hasher.CheckPasswordHash("wrong", encoded)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckPasswordHash_MalformedEncodings(t *testing.T) {
	hasher := testHasher(t)

	for _, encoded := range []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=16384,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=16384,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=16384,t=1,p=1$!!$aGFzaA",
	} {
		_, err := hasher.CheckPasswordHash("secret", encoded)
		assert.Error(t, err, encoded)
	}
}

func TestNewArgon2idHasher_RejectsZeroParams(t *testing.T) {
	_, err := NewArgon2idHasher(config.SecurityConfig{})
	assert.Error(t, err)
}
