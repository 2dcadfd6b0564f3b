package game

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode_Shape(t *testing.T) {
	code := GenerateCode(func(string) bool { return false })

	require.Len(t, code, codeLength)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected rune %q in code %q", r, code)
	}
}

func TestGenerateCode_RetriesOnCollision(t *testing.T) {
	rejected := 0
	code := GenerateCode(func(string) bool {
		if rejected < 3 {
			rejected++
			return true
		}
		return false
	})

	assert.Equal(t, 3, rejected, "first three draws should be rejected")
	assert.Len(t, code, codeLength)
}

func TestRandomCode_DrawsUniformly(t *testing.T) {
	const draws = 100000

	counts := make(map[byte]int, len(codeAlphabet))
	for i := 0; i < draws; i++ {
		for _, b := range []byte(randomCode()) {
			counts[b]++
		}
	}

	// A modulo-biased draw over 36 characters puts roughly 14% extra
	// weight on the first four; 5% tolerance is far outside sampling
	// noise at this volume.
	expected := float64(draws*codeLength) / float64(len(codeAlphabet))
	for _, b := range []byte(codeAlphabet) {
		assert.InEpsilon(t, expected, float64(counts[b]), 0.05,
			"character %q drawn %d times, expected about %.0f", b, counts[b], expected)
	}
}

func TestGenerateCode_NeverReturnsLiveCode(t *testing.T) {
	live := make(map[string]bool)

	for i := 0; i < 1000; i++ {
		code := GenerateCode(func(c string) bool { return live[c] })
		require.False(t, live[code], "generated a code already live: %s", code)
		live[code] = true
	}
}
