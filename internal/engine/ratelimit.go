package engine

import (
	"context"

	"golang.org/x/time/rate"
)

// NewLimiter builds the outbound youtube.com limiter. rps <= 0 disables limiting.
func NewLimiter(rps float64, burst int) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// WaitYouTube blocks until the limiter admits one more request or ctx ends.
func WaitYouTube(ctx context.Context) error {
	if cfg.Limiter == nil {
		return ctx.Err()
	}
	return cfg.Limiter.Wait(ctx)
}
