package ratelimit

import (
	"context"
	"time"
)

// RateLimiter blocks between network-touching steps.
type RateLimiter interface {
	Wait(ctx context.Context) error
}

// FixedDelay waits the full delay on every call. There is no burst
// allowance and no accounting for time already spent elsewhere.
type FixedDelay struct {
	delay time.Duration
}

func NewFixedDelay(delay time.Duration) *FixedDelay {
	return &FixedDelay{delay: delay}
}

func (f *FixedDelay) Delay() time.Duration {
	return f.delay
}

func (f *FixedDelay) Wait(ctx context.Context) error {
	if f.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(f.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
