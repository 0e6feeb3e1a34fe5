package rpc

import (
	"context"
	"time"

	"github.com/Mohsinsiddi/walletfetch/internal/chain"
)

// pingTimeout bounds a single health probe when the caller sets no deadline.
const pingTimeout = 5 * time.Second

// Endpoint is the measured state of one RPC endpoint.
type Endpoint struct {
	URL     string
	Latency time.Duration
	ChainID uint64
	Healthy bool
	Err     error
}

// Ping issues eth_chainId against url and reports latency and chain id.
func Ping(ctx context.Context, caller Caller, url string) Endpoint {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, pingTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := caller.Call(ctx, url, "eth_chainId")
	ep := Endpoint{URL: url, Latency: time.Since(start)}
	if err != nil {
		ep.Err = err
		return ep
	}

	id, err := chain.ParseQuantity(result)
	if err != nil {
		ep.Err = &DecodeError{Method: "eth_chainId", Reason: "chain id", Err: err}
		return ep
	}
	ep.ChainID = id.Uint64()
	ep.Healthy = true
	return ep
}
