package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenHash(t *testing.T) {
	t.Run("known value", func(t *testing.T) {
		// sha256("abc")
		assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", TokenHash("abc"))
	})

	t.Run("deterministic", func(t *testing.T) {
		assert.Equal(t, TokenHash("a.b.c"), TokenHash("a.b.c"))
	})

	t.Run("distinct tokens give distinct hashes", func(t *testing.T) {
		assert.NotEqual(t, TokenHash("a.b.c"), TokenHash("a.b.d"))
	})

	t.Run("lowercase hex of 32 bytes", func(t *testing.T) {
		assert.Regexp(t, "^[0-9a-f]{64}$", TokenHash("token"))
	})
}
