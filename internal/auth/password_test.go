package auth_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/questforge/quest-board/internal/auth"
)

func TestHashPassword(t *testing.T) {
	t.Run("produces self-describing argon2id hash", func(t *testing.T) {
		hash, err := auth.HashPassword("hunter2")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$argon2id$"))
	})

	t.Run("same password produces different hashes", func(t *testing.T) {
		hash1, err := auth.HashPassword("samepassword")
		require.NoError(t, err)
		hash2, err := auth.HashPassword("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, hash1, hash2)

		ok, err := auth.VerifyPassword("samepassword", hash1)
		require.NoError(t, err)
		assert.True(t, ok)
		ok, err = auth.VerifyPassword("samepassword", hash2)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("accepts empty password", func(t *testing.T) {
		hash, err := auth.HashPassword("")
		require.NoError(t, err)

		ok, err := auth.VerifyPassword("", hash)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = auth.VerifyPassword("not-empty", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("accepts arbitrary bytes", func(t *testing.T) {
		password := "p\x00a\xffss\nword"
		hash, err := auth.HashPassword(password)
		require.NoError(t, err)

		ok, err := auth.VerifyPassword(password, hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})
}

func TestVerifyPassword(t *testing.T) {
	t.Run("correct password verifies", func(t *testing.T) {
		hash, err := auth.HashPassword("correctpassword")
		require.NoError(t, err)

		ok, err := auth.VerifyPassword("correctpassword", hash)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("wrong password is a mismatch, not an error", func(t *testing.T) {
		hash, err := auth.HashPassword("correctpassword")
		require.NoError(t, err)

		ok, err := auth.VerifyPassword("wrongpassword", hash)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("malformed hash is an error", func(t *testing.T) {
		cases := map[string]string{
			"not an encoded hash": "not-a-valid-hash",
			"wrong algorithm":     "$argon2i$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
			"bad version":         "$argon2id$vXX$m=65536,t=1,p=4$c2FsdA$aGFzaA",
			"bad parameters":      "$argon2id$v=19$invalid$c2FsdA$aGFzaA",
			"bad salt base64":     "$argon2id$v=19$m=65536,t=1,p=4$!!!$aGFzaA",
			"bad digest base64":   "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$!!!",
			"threads overflow":    "$argon2id$v=19$m=65536,t=1,p=256$c2FsdA$aGFzaA",
		}
		for name, encoded := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := auth.VerifyPassword("password", encoded)
				assert.Error(t, err)
			})
		}
	})
}
