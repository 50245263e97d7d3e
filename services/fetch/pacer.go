package fetch

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out provider calls. It is injectable so tests can run
// without wall-clock delay.
type Pacer interface {
	Wait(ctx context.Context) error
}

type intervalPacer struct {
	limiter *rate.Limiter
}

// NewIntervalPacer returns a Pacer enforcing a minimum interval between
// consecutive waits, backed by a token bucket of size one.
func NewIntervalPacer(interval time.Duration) Pacer {
	return &intervalPacer{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

func (p *intervalPacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}

type nopPacer struct{}

func (nopPacer) Wait(context.Context) error { return nil }

// NopPacer never waits.
func NopPacer() Pacer { return nopPacer{} }
