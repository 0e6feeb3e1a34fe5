package rpc

import (
	"context"
	"sync"

	"golang.org/x/time/rate"
)

// limiterSet hands out one token bucket per endpoint.
type limiterSet struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

func newLimiterSet(perSecond float64, burst int) *limiterSet {
	if burst < 1 {
		burst = 1
	}
	return &limiterSet{
		limit:    rate.Limit(perSecond),
		burst:    burst,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (s *limiterSet) get(endpoint string) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[endpoint]
	if !ok {
		l = rate.NewLimiter(s.limit, s.burst)
		s.limiters[endpoint] = l
	}
	return l
}

// wait blocks until endpoint may be called again or ctx is done.
func (s *limiterSet) wait(ctx context.Context, endpoint string) error {
	return s.get(endpoint).Wait(ctx)
}
