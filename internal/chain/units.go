package chain

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

// NativeDecimals is the number of decimals of every EVM native currency (wei).
const NativeDecimals = 18

// ParseQuantity parses a 0x-prefixed hex quantity. Leading zeros are
// accepted, as eth_call results are zero-padded 32-byte words. A bare "0x"
// (empty return data) is zero.
func ParseQuantity(s string) (*big.Int, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return nil, fmt.Errorf("hex quantity %q: missing 0x prefix", s)
	}
	digits := s[2:]
	if digits == "" {
		return new(big.Int), nil
	}
	n, ok := new(big.Int).SetString(digits, 16)
	if !ok || n.Sign() < 0 {
		return nil, fmt.Errorf("hex quantity %q: not a hex number", s)
	}
	return n, nil
}

// ToDecimal scales a raw integer amount down by 10^decimals, exactly.
func ToDecimal(raw *big.Int, decimals uint8) decimal.Decimal {
	return decimal.NewFromBigInt(raw, -int32(decimals))
}

// WeiToETH converts a wei amount to its exact native-unit value.
func WeiToETH(wei *big.Int) decimal.Decimal {
	return ToDecimal(wei, NativeDecimals)
}
