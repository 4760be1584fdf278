// Package ratelimit paces calls against the upstream quota.
package ratelimit

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the smallest spacing the free tier tolerates.
const DefaultInterval = 13 * time.Second

// Pacer gates the stages of one session. stage counts from zero.
type Pacer interface {
	Wait(ctx context.Context, stage int) error
}

// Fixed sleeps the full Interval before every stage but the first,
// however long the previous call took.
type Fixed struct {
	Interval time.Duration
}

func (f Fixed) Wait(ctx context.Context, stage int) error {
	if stage == 0 || f.Interval <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(f.Interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Adaptive spaces consecutive calls at least Interval apart measured from the
// previous call, across sessions. Time already spent in a slow call counts
// toward the wait.
type Adaptive struct {
	l *rate.Limiter
}

func NewAdaptive(interval time.Duration) *Adaptive {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Adaptive{l: rate.NewLimiter(limit, 1)}
}

func (a *Adaptive) Wait(ctx context.Context, _ int) error {
	return a.l.Wait(ctx)
}

// Mode selects a Pacer implementation.
type Mode string

const (
	ModeFixed    Mode = "fixed"
	ModeAdaptive Mode = "adaptive"
)

// New returns the pacer for mode. Unknown modes fall back to Fixed.
func New(mode Mode, interval time.Duration) Pacer {
	if mode == ModeAdaptive {
		return NewAdaptive(interval)
	}
	return Fixed{Interval: interval}
}
