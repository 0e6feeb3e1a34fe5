package balance

import (
	"fmt"

	"github.com/Mohsinsiddi/walletfetch/internal/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Result is one successful balance lookup. It is either a Native or a Token.
type Result interface {
	NetworkName() string
	NetworkChainID() uint64
	AssetSymbol() string
	Value() decimal.Decimal
	isResult()
}

// Native is a network's native-currency balance.
type Native struct {
	Network string
	ChainID uint64
	Symbol  string
	Amount  decimal.Decimal
}

func (n Native) NetworkName() string { return n.Network }
func (n Native) NetworkChainID() uint64 { return n.ChainID }
func (n Native) AssetSymbol() string { return n.Symbol }
func (n Native) Value() decimal.Decimal { return n.Amount }
func (Native) isResult() {}

// Token is an ERC-20 balance on one network.
type Token struct {
	Network  string
	ChainID  uint64
	Symbol   string
	Contract common.Address
	Amount   decimal.Decimal
}

func (t Token) NetworkName() string { return t.Network }
func (t Token) NetworkChainID() uint64 { return t.ChainID }
func (t Token) AssetSymbol() string { return t.Symbol }
func (t Token) Value() decimal.Decimal { return t.Amount }
func (Token) isResult() {}

// UnitError is a failed lookup for one (network, asset) pair.
type UnitError struct {
	Network  string
	ChainID  uint64
	Symbol   string
	Native   bool
	Contract common.Address
	Err      error
}

func (e *UnitError) Error() string {
	if e.Native {
		return fmt.Sprintf("%s: native %s balance: %v", e.Network, e.Symbol, e.Err)
	}
	return fmt.Sprintf("%s: %s (%s) balance: %v", e.Network, e.Symbol, chain.Hex(e.Contract), e.Err)
}

func (e *UnitError) Unwrap() error { return e.Err }

// Outcome is everything FetchAll produced. Order is not significant.
type Outcome struct {
	Results  []Result
	Failures []*UnitError
}
