package rpc

import (
	"context"
	"sync"

	"github.com/Mohsinsiddi/walletfetch/internal/chain"
)

// NetworkHealth is the probe result for one configured network.
type NetworkHealth struct {
	Network  chain.Network
	Endpoint Endpoint
}

// Mismatch reports whether the node answered with a chain id other than the
// one configured for the network.
func (h NetworkHealth) Mismatch() bool {
	return h.Endpoint.Healthy && h.Endpoint.ChainID != h.Network.ChainID
}

// CheckAll pings every network in set in parallel. Results are returned in
// the set's iteration order.
func CheckAll(ctx context.Context, caller Caller, set chain.NetworkSet) []NetworkHealth {
	networks := set.All()
	results := make([]NetworkHealth, len(networks))
	var wg sync.WaitGroup

	for i, n := range networks {
		wg.Add(1)
		go func(idx int, n chain.Network) {
			defer wg.Done()
			results[idx] = NetworkHealth{
				Network:  n,
				Endpoint: Ping(ctx, caller, n.RPCURL),
			}
		}(i, n)
	}

	wg.Wait()
	return results
}
