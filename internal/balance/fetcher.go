package balance

import (
	"context"
	"sync/atomic"

	"github.com/Mohsinsiddi/walletfetch/internal/chain"
	"github.com/Mohsinsiddi/walletfetch/internal/rpc"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Progress describes one finished unit. Done counts finished units so far.
type Progress struct {
	Network string
	ChainID uint64
	Symbol  string
	Native  bool
	Err     error
	Done    int
	Total   int
}

// Fetcher queries native and token balances across networks in parallel.
type Fetcher struct {
	caller   rpc.Caller
	log      *zap.Logger
	limit    int
	progress func(Progress)
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithConcurrency caps the number of in-flight lookups. n <= 0 means no cap.
func WithConcurrency(n int) Option {
	return func(f *Fetcher) { f.limit = n }
}

// WithProgress registers fn to be called as each lookup finishes. fn is
// called from multiple goroutines.
func WithProgress(fn func(Progress)) Option {
	return func(f *Fetcher) { f.progress = fn }
}

// WithLogger sets the logger failed lookups are reported to.
func WithLogger(log *zap.Logger) Option {
	return func(f *Fetcher) {
		if log != nil {
			f.log = log
		}
	}
}

// NewFetcher returns a Fetcher issuing calls through caller.
func NewFetcher(caller rpc.Caller, opts ...Option) *Fetcher {
	f := &Fetcher{caller: caller, log: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// unit is one (network, asset) lookup. token is nil for the native balance.
type unit struct {
	network chain.Network
	token   *chain.TokenSpec
}

func (u unit) symbol() string {
	if u.token == nil {
		return u.network.Symbol()
	}
	return u.token.Symbol
}

// FetchAll looks up owner's native balance on every network in set and each
// configured token balance, all concurrently. It waits for every lookup to
// finish or fail; a failed lookup never cancels the others. Deadlines come
// from ctx.
func (f *Fetcher) FetchAll(ctx context.Context, owner common.Address, set chain.NetworkSet) Outcome {
	units := make([]unit, 0, set.Units())
	for _, n := range set.All() {
		units = append(units, unit{network: n})
		for i := range n.Tokens {
			units = append(units, unit{network: n, token: &n.Tokens[i]})
		}
	}

	results := make([]Result, len(units))
	failures := make([]*UnitError, len(units))
	var done atomic.Int64

	var g errgroup.Group
	if f.limit > 0 {
		g.SetLimit(f.limit)
	}
	for i, u := range units {
		g.Go(func() error {
			res, err := f.fetchUnit(ctx, owner, u)
			if err != nil {
				failures[i] = f.unitError(u, err)
			} else {
				results[i] = res
			}
			if f.progress != nil {
				f.progress(Progress{
					Network: u.network.Name,
					ChainID: u.network.ChainID,
					Symbol:  u.symbol(),
					Native:  u.token == nil,
					Err:     err,
					Done:    int(done.Add(1)),
					Total:   len(units),
				})
			}
			// Failures are kept per unit; returning nil keeps siblings running.
			return nil
		})
	}
	_ = g.Wait()

	var out Outcome
	for i := range units {
		if results[i] != nil {
			out.Results = append(out.Results, results[i])
		}
		if failures[i] != nil {
			out.Failures = append(out.Failures, failures[i])
		}
	}
	return out
}

func (f *Fetcher) fetchUnit(ctx context.Context, owner common.Address, u unit) (Result, error) {
	if u.token == nil {
		return f.fetchNative(ctx, owner, u.network)
	}
	return f.fetchToken(ctx, owner, u.network, *u.token)
}

func (f *Fetcher) fetchNative(ctx context.Context, owner common.Address, n chain.Network) (Result, error) {
	result, err := f.caller.Call(ctx, n.RPCURL, "eth_getBalance", chain.Hex(owner), "latest")
	if err != nil {
		return nil, err
	}
	wei, err := chain.ParseQuantity(result)
	if err != nil {
		return nil, &rpc.DecodeError{Method: "eth_getBalance", Reason: "balance", Err: err}
	}
	return Native{
		Network: n.Name,
		ChainID: n.ChainID,
		Symbol:  n.Symbol(),
		Amount:  chain.WeiToETH(wei),
	}, nil
}

func (f *Fetcher) fetchToken(ctx context.Context, owner common.Address, n chain.Network, tok chain.TokenSpec) (Result, error) {
	result, err := f.caller.Call(ctx, n.RPCURL, "eth_call", map[string]string{
		"to":   chain.Hex(tok.Address),
		"data": balanceOfCalldata(owner),
	}, "latest")
	if err != nil {
		return nil, err
	}
	raw, err := chain.ParseQuantity(result)
	if err != nil {
		return nil, &rpc.DecodeError{Method: "eth_call", Reason: "balanceOf " + tok.Symbol, Err: err}
	}
	return Token{
		Network:  n.Name,
		ChainID:  n.ChainID,
		Symbol:   tok.Symbol,
		Contract: tok.Address,
		Amount:   chain.ToDecimal(raw, tok.Decimals),
	}, nil
}

func (f *Fetcher) unitError(u unit, err error) *UnitError {
	ue := &UnitError{
		Network: u.network.Name,
		ChainID: u.network.ChainID,
		Symbol:  u.symbol(),
		Native:  u.token == nil,
		Err:     err,
	}
	if u.token != nil {
		ue.Contract = u.token.Address
	}
	// The caller renders failures; keep them out of the default warn output.
	f.log.Debug("balance lookup failed",
		zap.String("network", ue.Network),
		zap.Uint64("chain_id", ue.ChainID),
		zap.String("symbol", ue.Symbol),
		zap.Error(err),
	)
	return ue
}
