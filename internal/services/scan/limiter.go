package scan

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Gate is the shared throttle applied to every externally-bound call made per
// listing. It enforces two independent bounds: at most maxConcurrent
// operations in flight, and at least minInterval between operation starts.
// Completions are not serialized; up to maxConcurrent operations may be
// awaiting completion at once.
type Gate struct {
	sem     chan struct{}
	spacing *rate.Limiter
}

// NewGate creates a gate with the given concurrency and spacing bounds
func NewGate(maxConcurrent int, minInterval time.Duration) *Gate {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}

	spacing := rate.NewLimiter(rate.Inf, 1)
	if minInterval > 0 {
		spacing = rate.NewLimiter(rate.Every(minInterval), 1)
	}

	return &Gate{
		sem:     make(chan struct{}, maxConcurrent),
		spacing: spacing,
	}
}

// Do runs fn once both bounds are satisfied, propagating fn's result
// transparently. The gate itself fails only when ctx is cancelled while
// waiting for a slot.
func (g *Gate) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	select {
	case g.sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { <-g.sem }()

	if err := g.spacing.Wait(ctx); err != nil {
		return err
	}

	return fn(ctx)
}
