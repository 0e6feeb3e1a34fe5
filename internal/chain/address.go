package chain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// InvalidAddressFormatError is returned for a target that is neither a
// dotted name nor a 0x-prefixed 40-hex-digit address.
type InvalidAddressFormatError struct {
	Input string
}

func (e *InvalidAddressFormatError) Error() string {
	return fmt.Sprintf("invalid address format: %q (expected 0x followed by 40 hex characters, or a name like vitalik.eth)", e.Input)
}

// Target is a parsed wallet target: either a literal address or a name
// that still needs resolving.
type Target struct {
	Raw     string
	Name    string
	Address common.Address
}

// IsName reports whether the target must be resolved before use.
func (t Target) IsName() bool { return t.Name != "" }

// ParseTarget classifies s. Anything containing a dot is a name; everything
// else must be a literal address.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ".") {
		return Target{Raw: s, Name: s}, nil
	}
	addr, err := ParseAddress(s)
	if err != nil {
		return Target{}, err
	}
	return Target{Raw: s, Address: addr}, nil
}

// ParseAddress validates a 0x-prefixed, 42-character hex address.
// Checksums are not enforced.
func ParseAddress(s string) (common.Address, error) {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return common.Address{}, &InvalidAddressFormatError{Input: s}
	}
	raw, err := hex.DecodeString(s[2:])
	if err != nil {
		return common.Address{}, &InvalidAddressFormatError{Input: s}
	}
	return common.BytesToAddress(raw), nil
}

// Hex returns the canonical lowercase 0x form of addr.
func Hex(addr common.Address) string {
	return "0x" + hex.EncodeToString(addr[:])
}

// ShortAddr truncates an address for display: 0x1234…abcd.
func ShortAddr(addr string) string {
	if len(addr) <= 12 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}
