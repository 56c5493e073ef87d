package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adaremote/internal/ratelimit"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestAllow_BurstThenRefill(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	l := ratelimit.New(ratelimit.Config{PerMinute: 60, Burst: 3})
	l.SetClock(c.now)

	for i := 0; i < 3; i++ {
		require.NoError(t, l.Allow("a"))
	}
	assert.ErrorIs(t, l.Allow("a"), ratelimit.ErrLimitExceeded)
	assert.NoError(t, l.Allow("b"), "keys are independent")

	c.t = c.t.Add(time.Second)
	assert.NoError(t, l.Allow("a"))
	assert.ErrorIs(t, l.Allow("a"), ratelimit.ErrLimitExceeded)

	l.Reset("a")
	assert.NoError(t, l.Allow("a"))
}

func TestAllow_Disabled(t *testing.T) {
	l := ratelimit.New(ratelimit.Config{})
	for i := 0; i < 100; i++ {
		require.NoError(t, l.Allow("a"))
	}
	var nilLimiter *ratelimit.Limiter
	assert.NoError(t, nilLimiter.Allow("a"))
}

func TestExpire(t *testing.T) {
	c := &clock{t: time.Unix(1_700_000_000, 0)}
	l := ratelimit.New(ratelimit.Config{PerMinute: 1, Burst: 1, Expiry: time.Minute})
	l.SetClock(c.now)

	require.NoError(t, l.Allow("a"))
	c.t = c.t.Add(30 * time.Second)
	require.NoError(t, l.Allow("b"))
	assert.Equal(t, 2, l.Len())

	c.t = c.t.Add(45 * time.Second)
	l.Expire()
	assert.Equal(t, 1, l.Len())
}

func TestRun_StopsOnCancel(t *testing.T) {
	l := ratelimit.New(ratelimit.Config{PerMinute: 1, CleanupInterval: time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}
