package coupon

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeEncoderRoundTrip(t *testing.T) {
	enc, err := NewCodeEncoder("signing-key")
	require.NoError(t, err)

	seen := map[string]bool{}
	for seq := int64(1000); seq < 1050; seq++ {
		code, err := enc.Encode(seq)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(code, "EVS-"))
		assert.GreaterOrEqual(t, len(code), len("EVS-")+codeMinLength)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true

		decoded, err := enc.Decode(strings.ToLower(code))
		require.NoError(t, err)
		assert.Equal(t, seq, decoded)
	}
}

func TestCodeEncoderSaltChangesCodes(t *testing.T) {
	a, err := NewCodeEncoder("salt-a")
	require.NoError(t, err)
	b, err := NewCodeEncoder("salt-b")
	require.NoError(t, err)

	codeA, err := a.Encode(1000)
	require.NoError(t, err)
	codeB, err := b.Encode(1000)
	require.NoError(t, err)
	assert.NotEqual(t, codeA, codeB)
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "EVS-ABCD", NormalizeCode("  evs-abcd "))
}
