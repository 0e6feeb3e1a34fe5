package ens

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ---------------------------------------------------------------------------
// Namehash — EIP-137 vectors
// ---------------------------------------------------------------------------

func TestNamehash_Empty(t *testing.T) {
	assert.Equal(t, [32]byte{}, Namehash(""))
	assert.Equal(t, "0000000000000000000000000000000000000000000000000000000000000000", NamehashHex(""))
}

func TestNamehash_ETH(t *testing.T) {
	expected := "93cdeb708b7545dc668eb9280176169d1c33cfd8ed6f04690a0bcc88a93fc4ae"
	assert.Equal(t, expected, NamehashHex("eth"))
}

func TestNamehash_FooETH(t *testing.T) {
	expected := "de9b09fd7c5f901e23a3f19fecc54828e9c848539801e86591bd9801b019f84f"
	assert.Equal(t, expected, NamehashHex("foo.eth"))
}

func TestNamehash_Deterministic(t *testing.T) {
	for _, name := range []string{"", "eth", "vitalik.eth", "sub.test.eth", "a.b.c.d.e"} {
		assert.Equal(t, Namehash(name), Namehash(name), "namehash(%q) must be stable", name)
	}
}

func TestNamehash_LabelOrderMatters(t *testing.T) {
	assert.NotEqual(t, Namehash("a.b"), Namehash("b.a"))
}

func TestNamehash_DifferentNames(t *testing.T) {
	assert.NotEqual(t, Namehash("alice.eth"), Namehash("bob.eth"))
}

func TestNamehash_Subdomain(t *testing.T) {
	assert.Len(t, NamehashHex("sub.test.eth"), 64)
	assert.NotEqual(t, Namehash("test.eth"), Namehash("sub.test.eth"))
}

// ---------------------------------------------------------------------------
// Normalize
// ---------------------------------------------------------------------------

func TestNamehash_CaseInsensitive(t *testing.T) {
	// Names are lower-cased before hashing.
	assert.Equal(t, Namehash("test.eth"), Namehash("Test.ETH"))
}

func TestNormalize_ComposesBeforeLowercasing(t *testing.T) {
	// "e" + combining acute accent composes to U+00E9.
	decomposed := "cafe\u0301.eth"
	composed := "caf\u00e9.eth"
	assert.Equal(t, composed, Normalize(decomposed))
	assert.Equal(t, Namehash(composed), Namehash(decomposed))
}

func TestNormalize_Lowercase(t *testing.T) {
	assert.Equal(t, "vitalik.eth", Normalize("VITALIK.eth"))
}
