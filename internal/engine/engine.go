// Package engine drives a single walletfetch run: target parsing, optional
// name resolution, the balance fan-out and aggregation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Mohsinsiddi/walletfetch/internal/balance"
	"github.com/Mohsinsiddi/walletfetch/internal/chain"
	"github.com/Mohsinsiddi/walletfetch/internal/ens"
	"github.com/Mohsinsiddi/walletfetch/internal/report"
	"github.com/Mohsinsiddi/walletfetch/internal/rpc"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// DefaultTimeout is the overall fetch deadline when Settings leaves it unset.
const DefaultTimeout = 15 * time.Second

// ErrNoNetworks is returned when there is nothing to query.
var ErrNoNetworks = errors.New("no networks configured")

// Settings are the run parameters that do not describe networks.
type Settings struct {
	Timeout        time.Duration
	MaxConcurrency int
}

// Result is the outcome of one run.
type Result struct {
	Target   chain.Target
	Address  common.Address
	Report   report.Report
	Failures []*balance.UnitError
	Networks int
}

// Engine runs lookups against a fixed set of networks.
type Engine struct {
	settings Settings
	networks chain.NetworkSet
	caller   rpc.Caller
	log      *zap.Logger
	progress func(balance.Progress)
}

// Option configures an Engine.
type Option func(*Engine)

// WithProgress forwards per-lookup progress from the fetcher to fn.
func WithProgress(fn func(balance.Progress)) Option {
	return func(e *Engine) { e.progress = fn }
}

// New returns an Engine. log may be nil.
func New(settings Settings, networks chain.NetworkSet, caller rpc.Caller, log *zap.Logger, opts ...Option) *Engine {
	if settings.Timeout <= 0 {
		settings.Timeout = DefaultTimeout
	}
	if log == nil {
		log = zap.NewNop()
	}
	e := &Engine{
		settings: settings,
		networks: networks,
		caller:   caller,
		log:      log,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Networks returns the configured set.
func (e *Engine) Networks() chain.NetworkSet { return e.networks }

// Resolve turns target into an address, resolving it through ENS when it is
// a name. Literal addresses never trigger a call.
func (e *Engine) Resolve(ctx context.Context, target chain.Target) (common.Address, error) {
	if !target.IsName() {
		return target.Address, nil
	}
	resolver, err := ens.NewResolverForNetworks(e.caller, e.networks)
	if err != nil {
		return common.Address{}, err
	}
	addr, err := resolver.Resolve(ctx, target.Name)
	if err != nil {
		return common.Address{}, err
	}
	e.log.Debug("resolved name", zap.String("name", target.Name), zap.String("address", chain.Hex(addr)))
	return addr, nil
}

// Run fetches and aggregates every balance for target. Individual lookup
// failures are returned in Result.Failures; only target and resolution
// errors, or an empty network set, fail the run. Name resolution and the
// fetch are each bounded by Settings.Timeout.
func (e *Engine) Run(ctx context.Context, target string) (*Result, error) {
	parsed, err := chain.ParseTarget(target)
	if err != nil {
		return nil, err
	}

	// Resolution gets its own Timeout budget, separate from the fetch.
	resolveCtx, cancelResolve := context.WithTimeout(ctx, e.settings.Timeout)
	addr, err := e.Resolve(resolveCtx, parsed)
	cancelResolve()
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", parsed.Raw, err)
	}

	if e.networks.Len() == 0 {
		return nil, ErrNoNetworks
	}

	fetchCtx, cancel := context.WithTimeout(ctx, e.settings.Timeout)
	defer cancel()

	opts := []balance.Option{
		balance.WithLogger(e.log),
		balance.WithConcurrency(e.settings.MaxConcurrency),
	}
	if e.progress != nil {
		opts = append(opts, balance.WithProgress(e.progress))
	}

	start := time.Now()
	outcome := balance.NewFetcher(e.caller, opts...).FetchAll(fetchCtx, addr, e.networks)
	e.log.Debug("fetch finished",
		zap.Int("results", len(outcome.Results)),
		zap.Int("failures", len(outcome.Failures)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return &Result{
		Target:   parsed,
		Address:  addr,
		Report:   report.Aggregate(outcome.Results),
		Failures: outcome.Failures,
		Networks: e.networks.Len(),
	}, nil
}
