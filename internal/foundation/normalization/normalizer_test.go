package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type level string

const (
	levelDebug level = "debug"
	levelInfo  level = "info"
)

func newLevelNormalizer() *Normalizer[level] {
	return NewNormalizer(map[string]level{
		"debug": levelDebug,
		"INFO":  levelInfo,
	}, levelInfo)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newLevelNormalizer()

	assert.Equal(t, levelDebug, n.Normalize("  DeBuG "))
	assert.Equal(t, levelInfo, n.Normalize("info"))
	assert.Equal(t, levelInfo, n.Normalize("verbose"), "unknown input falls back to default")
}

func TestNormalizer_NormalizeWithError(t *testing.T) {
	n := newLevelNormalizer()

	v, err := n.NormalizeWithError("Debug")
	require.NoError(t, err)
	assert.Equal(t, levelDebug, v)

	v, err = n.NormalizeWithError("")
	require.NoError(t, err)
	assert.Equal(t, levelInfo, v)

	_, err = n.NormalizeWithError("trace")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[debug info]")
}

func TestNormalizer_ValidKeysIsACopy(t *testing.T) {
	n := newLevelNormalizer()
	keys := n.ValidKeys()
	keys[0] = "mutated"

	assert.Equal(t, []string{"debug", "info"}, n.ValidKeys())
}
