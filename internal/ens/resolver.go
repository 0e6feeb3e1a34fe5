package ens

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/Mohsinsiddi/walletfetch/internal/chain"
	"github.com/Mohsinsiddi/walletfetch/internal/rpc"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// RegistryAddress is the ENS registry, identical on mainnet and its testnets.
var RegistryAddress = common.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

// MainnetChainID is the chain the registry is queried on.
const MainnetChainID = 1

// Function selectors.
const (
	selectorResolver = "0x0178b8bf" // resolver(bytes32)
	selectorAddr     = "0x3b3b57de" // addr(bytes32)
	selectorName     = "0x691f3431" // name(bytes32)
)

// ErrResolutionUnavailable is returned when no network with chain id 1 is
// configured, so there is nowhere to query the registry.
var ErrResolutionUnavailable = errors.New("name resolution unavailable: no network with chain id 1 configured")

// Stage is the step of a lookup.
type Stage int

const (
	StageResolverLookup Stage = iota
	StageAddressLookup
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageResolverLookup:
		return "resolver lookup"
	case StageAddressLookup:
		return "address lookup"
	case StageDone:
		return "done"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// LookupError wraps an RPC or decode failure with the stage it happened in.
type LookupError struct {
	Name  string
	Stage Stage
	Err   error
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("resolving %q: %s: %v", e.Name, e.Stage, e.Err)
}

func (e *LookupError) Unwrap() error { return e.Err }

// NoResolverFoundError means the registry has no resolver for the name.
type NoResolverFoundError struct {
	Name string
}

func (e *NoResolverFoundError) Error() string {
	return fmt.Sprintf("no resolver found for %q", e.Name)
}

// NoAddressFoundError means the resolver has no address record for the name.
type NoAddressFoundError struct {
	Name string
}

func (e *NoAddressFoundError) Error() string {
	return fmt.Sprintf("no address found for %q", e.Name)
}

// NoNameFoundError means an address has no reverse record.
type NoNameFoundError struct {
	Address common.Address
}

func (e *NoNameFoundError) Error() string {
	return fmt.Sprintf("no reverse name for %s", chain.Hex(e.Address))
}

// Resolver performs ENS lookups against one endpoint.
type Resolver struct {
	caller   rpc.Caller
	endpoint string
	registry common.Address
}

// NewResolver returns a Resolver that queries the registry via endpoint.
func NewResolver(caller rpc.Caller, endpoint string) *Resolver {
	return &Resolver{caller: caller, endpoint: endpoint, registry: RegistryAddress}
}

// NewResolverForNetworks picks the chain id 1 network from set. It fails with
// ErrResolutionUnavailable, before any call is made, if there is none.
func NewResolverForNetworks(caller rpc.Caller, set chain.NetworkSet) (*Resolver, error) {
	n, err := set.GetByChainID(MainnetChainID)
	if err != nil {
		return nil, ErrResolutionUnavailable
	}
	return NewResolver(caller, n.RPCURL), nil
}

// Resolve resolves name to an address: the registry is asked for the name's
// resolver, then the resolver for its addr record.
func (r *Resolver) Resolve(ctx context.Context, name string) (common.Address, error) {
	node := NamehashHex(name)

	resolver, err := r.lookupResolver(ctx, name, node)
	if err != nil {
		return common.Address{}, err
	}

	result, err := r.ethCall(ctx, resolver, selectorAddr+node)
	if err != nil {
		return common.Address{}, &LookupError{Name: name, Stage: StageAddressLookup, Err: err}
	}
	addr, err := parseAddress(result)
	if err != nil {
		return common.Address{}, &LookupError{Name: name, Stage: StageAddressLookup, Err: err}
	}
	if addr == (common.Address{}) {
		return common.Address{}, &NoAddressFoundError{Name: name}
	}
	return addr, nil
}

// ReverseLookup resolves addr to its primary name via <hex>.addr.reverse.
func (r *Resolver) ReverseLookup(ctx context.Context, addr common.Address) (string, error) {
	reverseName := chain.Hex(addr)[2:] + ".addr.reverse"
	node := NamehashHex(reverseName)

	resolver, err := r.lookupResolver(ctx, reverseName, node)
	if err != nil {
		return "", err
	}

	result, err := r.ethCall(ctx, resolver, selectorName+node)
	if err != nil {
		return "", &LookupError{Name: reverseName, Stage: StageAddressLookup, Err: err}
	}
	name, err := decodeString(result)
	if err != nil {
		return "", &LookupError{Name: reverseName, Stage: StageAddressLookup, Err: err}
	}
	if name == "" {
		return "", &NoNameFoundError{Address: addr}
	}
	return name, nil
}

func (r *Resolver) lookupResolver(ctx context.Context, name, node string) (common.Address, error) {
	result, err := r.ethCall(ctx, r.registry, selectorResolver+node)
	if err != nil {
		return common.Address{}, &LookupError{Name: name, Stage: StageResolverLookup, Err: err}
	}
	resolver, err := parseAddress(result)
	if err != nil {
		return common.Address{}, &LookupError{Name: name, Stage: StageResolverLookup, Err: err}
	}
	if resolver == (common.Address{}) {
		return common.Address{}, &NoResolverFoundError{Name: name}
	}
	return resolver, nil
}

func (r *Resolver) ethCall(ctx context.Context, to common.Address, data string) (string, error) {
	return r.caller.Call(ctx, r.endpoint, "eth_call", map[string]string{
		"to":   chain.Hex(to),
		"data": data,
	}, "latest")
}

// parseAddress extracts the address from the last 20 bytes of a 32-byte
// ABI word.
func parseAddress(result string) (common.Address, error) {
	b, err := hexutil.Decode(result)
	if err != nil {
		return common.Address{}, &rpc.DecodeError{Method: "eth_call", Reason: "address word", Err: err}
	}
	if len(b) < 32 {
		return common.Address{}, &rpc.DecodeError{
			Method: "eth_call",
			Reason: fmt.Sprintf("address word is %d bytes, want 32", len(b)),
		}
	}
	return common.BytesToAddress(b[12:32]), nil
}

// decodeString decodes an ABI-encoded dynamic string return value:
// an offset word, then a length word and the bytes at that offset.
func decodeString(result string) (string, error) {
	b, err := hexutil.Decode(result)
	if err != nil {
		return "", &rpc.DecodeError{Method: "eth_call", Reason: "string", Err: err}
	}
	if len(b) == 0 {
		return "", nil
	}
	if len(b) < 64 {
		return "", &rpc.DecodeError{Method: "eth_call", Reason: fmt.Sprintf("string return is %d bytes, want at least 64", len(b))}
	}

	offset := new(big.Int).SetBytes(b[:32])
	if !offset.IsUint64() || offset.Uint64() > uint64(len(b)) || offset.Uint64()+32 > uint64(len(b)) {
		return "", &rpc.DecodeError{Method: "eth_call", Reason: "string offset out of range"}
	}
	start := offset.Uint64()

	length := new(big.Int).SetBytes(b[start : start+32])
	if !length.IsUint64() || length.Uint64() > uint64(len(b)) || start+32+length.Uint64() > uint64(len(b)) {
		return "", &rpc.DecodeError{Method: "eth_call", Reason: "string length out of range"}
	}
	data := b[start+32 : start+32+length.Uint64()]
	return string(data), nil
}
