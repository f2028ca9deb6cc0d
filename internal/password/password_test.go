package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/deltacargo-server/internal/model"
)

func TestHash_Verify_Roundtrip(t *testing.T) {
	hash, err := Hash("secret1")
	require.NoError(t, err)

	assert.True(t, Verify("secret1", hash))
	assert.False(t, Verify("secret2", hash))
}

func TestHash_SaltedPerCall(t *testing.T) {
	h1, err := Hash("same-password")
	require.NoError(t, err)
	h2, err := Hash("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, Verify("same-password", h1))
	assert.True(t, Verify("same-password", h2))
}

func TestHash_TooLong(t *testing.T) {
	_, err := Hash(strings.Repeat("a", 73))
	require.ErrorIs(t, err, model.ErrValidation)
}

func TestVerify_MalformedHash(t *testing.T) {
	t.Parallel()

	for _, hash := range []string{"", "not-a-hash", "$2a$10$short", strings.Repeat("$", 60)} {
		assert.False(t, Verify("anything", hash), hash)
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	p1, err := Generate(8)
	require.NoError(t, err)
	assert.Len(t, p1, 8)
	for _, r := range p1 {
		assert.True(t, strings.ContainsRune(alphabet, r))
	}

	p2, err := Generate(8)
	require.NoError(t, err)
	assert.NotEqual(t, p1, p2)

	_, err = Generate(0)
	require.ErrorIs(t, err, model.ErrValidation)
}
