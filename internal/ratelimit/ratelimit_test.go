package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedDelayWaitsFullDelay(t *testing.T) {
	limiter := NewFixedDelay(30 * time.Millisecond)

	start := time.Now()
	assert.NoError(t, limiter.Wait(context.Background()))
	assert.NoError(t, limiter.Wait(context.Background()))

	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestFixedDelayZero(t *testing.T) {
	limiter := NewFixedDelay(0)

	start := time.Now()
	assert.NoError(t, limiter.Wait(context.Background()))
	assert.Less(t, time.Since(start), 10*time.Millisecond)
}

func TestFixedDelayCancelled(t *testing.T) {
	limiter := NewFixedDelay(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := limiter.Wait(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
