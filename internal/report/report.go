// Package report groups balance results into a per-network summary.
package report

import (
	"sort"

	"github.com/Mohsinsiddi/walletfetch/internal/balance"
	"github.com/Mohsinsiddi/walletfetch/internal/chain"
	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Line is one balance on a network.
type Line struct {
	Symbol   string          `json:"symbol"`
	Amount   decimal.Decimal `json:"amount"`
	Native   bool            `json:"native"`
	Contract *common.Address `json:"contract,omitempty"`
}

// String returns the exact amount followed by the symbol, e.g. "1.5 ETH".
func (l Line) String() string {
	return l.Amount.String() + " " + l.Symbol
}

// Network is every balance found on one network, native first.
type Network struct {
	Name    string `json:"name"`
	ChainID uint64 `json:"chain_id"`
	Lines   []Line `json:"balances"`
}

// Report is the aggregated view, networks sorted by name. Networks with no
// successful result are absent.
type Report struct {
	Networks []Network `json:"networks"`
}

// Empty reports whether no balance was found at all.
func (r Report) Empty() bool { return len(r.Networks) == 0 }

// Network returns the entry for name.
func (r Report) Network(name string) (Network, bool) {
	for _, n := range r.Networks {
		if n.Name == name {
			return n, true
		}
	}
	return Network{}, false
}

// Lines returns the ordered balance strings for the named network, or nil.
func (r Report) Lines(name string) []string {
	n, ok := r.Network(name)
	if !ok {
		return nil
	}
	out := make([]string, len(n.Lines))
	for i, l := range n.Lines {
		out[i] = l.String()
	}
	return out
}

// Map returns networkName → ordered balance strings.
func (r Report) Map() map[string][]string {
	out := make(map[string][]string, len(r.Networks))
	for _, n := range r.Networks {
		out[n.Name] = r.Lines(n.Name)
	}
	return out
}

// Aggregate groups results by network name. Within a network the native
// balance comes first, then tokens by symbol and contract address.
func Aggregate(results []balance.Result) Report {
	byName := make(map[string]*Network)
	var names []string

	for _, res := range results {
		name := res.NetworkName()
		n, ok := byName[name]
		if !ok {
			n = &Network{Name: name, ChainID: res.NetworkChainID()}
			byName[name] = n
			names = append(names, name)
		}

		line := Line{Symbol: res.AssetSymbol(), Amount: res.Value()}
		switch v := res.(type) {
		case balance.Native:
			line.Native = true
		case balance.Token:
			contract := v.Contract
			line.Contract = &contract
		}
		n.Lines = append(n.Lines, line)
	}

	sort.Strings(names)
	rep := Report{Networks: make([]Network, 0, len(names))}
	for _, name := range names {
		n := byName[name]
		sort.SliceStable(n.Lines, func(i, j int) bool {
			return lineLess(n.Lines[i], n.Lines[j])
		})
		rep.Networks = append(rep.Networks, *n)
	}
	return rep
}

func lineLess(a, b Line) bool {
	if a.Native != b.Native {
		return a.Native
	}
	if a.Symbol != b.Symbol {
		return a.Symbol < b.Symbol
	}
	return contractHex(a) < contractHex(b)
}

func contractHex(l Line) string {
	if l.Contract == nil {
		return ""
	}
	return chain.Hex(*l.Contract)
}
