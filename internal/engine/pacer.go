package engine

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces provider calls so the aggregate request rate stays inside the
// gateway's tolerance. It replaces per-strategy sleeps with a token bucket
// that remains correct if strategies are ever run concurrently.
type Pacer struct {
	limiter *rate.Limiter
}

func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Wait blocks until the next call is allowed or the context is done.
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}
