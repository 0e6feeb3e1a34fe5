package ens

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/sha3"
	"golang.org/x/text/unicode/norm"
)

// Namehash implements the EIP-137 namehash algorithm.
//
//	namehash("")    = 0x00...00
//	namehash("eth") = keccak256(namehash("") + keccak256("eth"))
//
// The name is NFC-normalised and lower-cased before hashing.
func Namehash(name string) [32]byte {
	var node [32]byte

	name = Normalize(name)
	if name == "" {
		return node
	}

	labels := strings.Split(name, ".")
	// Process labels right-to-left.
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := keccak256([]byte(labels[i]))
		copy(node[:], keccak256(node[:], labelHash))
	}

	return node
}

// NamehashHex returns Namehash(name) as 64 lowercase hex characters, no prefix.
func NamehashHex(name string) string {
	node := Namehash(name)
	return hex.EncodeToString(node[:])
}

// Normalize composes the name (NFC) and lower-cases it.
func Normalize(name string) string {
	return strings.ToLower(norm.NFC.String(name))
}

// keccak256 returns the Keccak-256 hash of the concatenated inputs.
func keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}
