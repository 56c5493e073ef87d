package crypto_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaremote/internal/crypto"
)

func TestHashPassword_Verify(t *testing.T) {
	for _, pw := range []string{"a", "123456789", "correct horse battery staple", "påsswörd"} {
		hash, err := crypto.HashPassword(pw)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$"), hash)

		assert.True(t, crypto.VerifyPassword(pw, hash))
		assert.False(t, crypto.VerifyPassword(pw+"x", hash))
		assert.False(t, crypto.VerifyPassword("", hash))
	}
}

func TestHashPassword_Salted(t *testing.T) {
	h1, err := crypto.HashPassword("same")
	require.NoError(t, err)
	h2, err := crypto.HashPassword("same")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
	assert.True(t, crypto.VerifyPassword("same", h1))
	assert.True(t, crypto.VerifyPassword("same", h2))
}

func TestVerifyPassword_MalformedHashIsFalse(t *testing.T) {
	good, err := crypto.HashPassword("pw")
	require.NoError(t, err)
	parts := strings.Split(good, "$")

	for _, hash := range []string{
		"",
		"plaintext",
		"$argon2i$v=19$m=19456,t=2,p=1$" + parts[4] + "$" + parts[5],
		"$argon2id$v=16$m=19456,t=2,p=1$" + parts[4] + "$" + parts[5],
		"$argon2id$v=19$m=0,t=2,p=1$" + parts[4] + "$" + parts[5],
		"$argon2id$v=19$m=99999999,t=2,p=1$" + parts[4] + "$" + parts[5],
		"$argon2id$v=19$m=19456,t=2,p=1$!!!$" + parts[5],
		"$argon2id$v=19$m=19456,t=2,p=1$" + parts[4],
		good + "$extra",
	} {
		assert.False(t, crypto.VerifyPassword("pw", hash), hash)
	}
}

func TestGenerateSessionPassword(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 2000; i++ {
		pw := crypto.GenerateSessionPassword()
		require.Len(t, pw, crypto.SessionPasswordDigits)
		for _, c := range []byte(pw) {
			require.True(t, c >= '0' && c <= '9', pw)
		}
		seen[pw] = struct{}{}
	}
	assert.Greater(t, len(seen), 1990)
}
