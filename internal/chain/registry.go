package chain

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// ErrChainNotFound is returned when a network is not in the set.
var ErrChainNotFound = errors.New("network not found")

// DefaultNativeSymbol is used when a network does not name its native currency.
const DefaultNativeSymbol = "ETH"

// TokenSpec describes an ERC-20 token tracked on one network.
type TokenSpec struct {
	Symbol   string         `json:"symbol"`
	Address  common.Address `json:"address"`
	Decimals uint8          `json:"decimals"`
}

// Network is a single EVM network reachable over JSON-RPC.
// Its identity is ChainID.
type Network struct {
	ChainID      uint64      `json:"chain_id"`
	Name         string      `json:"name"`
	RPCURL       string      `json:"rpc_url"`
	NativeSymbol string      `json:"native_symbol"`
	Tokens       []TokenSpec `json:"tokens,omitempty"`
}

// Symbol returns the native currency symbol, falling back to ETH.
func (n Network) Symbol() string {
	if n.NativeSymbol == "" {
		return DefaultNativeSymbol
	}
	return n.NativeSymbol
}

// Units is the number of independent balance lookups this network needs:
// one native plus one per token.
func (n Network) Units() int {
	return 1 + len(n.Tokens)
}

// DuplicateChainIDError is returned when two networks share a chain id.
type DuplicateChainIDError struct {
	ChainID uint64
	First   string
	Second  string
}

func (e *DuplicateChainIDError) Error() string {
	return fmt.Sprintf("duplicate chain id %d (%q and %q)", e.ChainID, e.First, e.Second)
}

// DuplicateNetworkNameError is returned when two networks share a name
// (compared case-insensitively). Reports are grouped by name, so names must
// be unique.
type DuplicateNetworkNameError struct {
	Name   string
	First  uint64
	Second uint64
}

func (e *DuplicateNetworkNameError) Error() string {
	return fmt.Sprintf("duplicate network name %q (chain ids %d and %d)", e.Name, e.First, e.Second)
}

// NetworkSet is an immutable set of networks keyed by chain id.
// Iteration order is stable: by name, then chain id.
type NetworkSet struct {
	networks []Network
	byName   map[string]*Network
	byID     map[uint64]*Network
}

// NewNetworkSet builds a set from networks. Duplicate chain ids and
// duplicate names are rejected.
func NewNetworkSet(networks ...Network) (NetworkSet, error) {
	sorted := make([]Network, len(networks))
	copy(sorted, networks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Name != sorted[j].Name {
			return sorted[i].Name < sorted[j].Name
		}
		return sorted[i].ChainID < sorted[j].ChainID
	})

	s := NetworkSet{
		networks: sorted,
		byName:   make(map[string]*Network, len(sorted)),
		byID:     make(map[uint64]*Network, len(sorted)),
	}
	for i := range s.networks {
		n := &s.networks[i]
		if prev, ok := s.byID[n.ChainID]; ok {
			return NetworkSet{}, &DuplicateChainIDError{ChainID: n.ChainID, First: prev.Name, Second: n.Name}
		}
		key := strings.ToLower(n.Name)
		if prev, ok := s.byName[key]; ok {
			return NetworkSet{}, &DuplicateNetworkNameError{Name: n.Name, First: prev.ChainID, Second: n.ChainID}
		}
		s.byID[n.ChainID] = n
		s.byName[key] = n
	}
	return s, nil
}

// MustNetworkSet is like NewNetworkSet but panics on error.
func MustNetworkSet(networks ...Network) NetworkSet {
	s, err := NewNetworkSet(networks...)
	if err != nil {
		panic(err)
	}
	return s
}

// All returns a copy of every network in iteration order.
func (s NetworkSet) All() []Network {
	out := make([]Network, len(s.networks))
	copy(out, s.networks)
	return out
}

// Len returns the number of networks.
func (s NetworkSet) Len() int { return len(s.networks) }

// Units returns the total number of balance lookups across the set.
func (s NetworkSet) Units() int {
	total := 0
	for _, n := range s.networks {
		total += n.Units()
	}
	return total
}

// GetByName looks up a network by name (case-insensitive).
func (s NetworkSet) GetByName(name string) (Network, error) {
	n, ok := s.byName[strings.ToLower(name)]
	if !ok {
		return Network{}, fmt.Errorf("%w: %s", ErrChainNotFound, name)
	}
	return *n, nil
}

// GetByChainID looks up a network by chain id.
func (s NetworkSet) GetByChainID(id uint64) (Network, error) {
	n, ok := s.byID[id]
	if !ok {
		return Network{}, fmt.Errorf("%w: chain id %d", ErrChainNotFound, id)
	}
	return *n, nil
}
