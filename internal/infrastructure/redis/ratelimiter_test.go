package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestFixedWindowLimiter_NoRedis_FailsOpen(t *testing.T) {
	t.Parallel()

	d, err := NewFixedWindowLimiter(nil).AllowFixedWindow(context.Background(), "k", 10, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 10, d.Remaining)
}

func TestFixedWindowLimiter_LimitZero_Allows(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t)
	d, err := NewFixedWindowLimiter(c).AllowFixedWindow(context.Background(), "k", 0, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestFixedWindowLimiter_BlocksAfterLimit(t *testing.T) {
	t.Parallel()

	c, mr := newTestClient(t)
	l := NewFixedWindowLimiter(c)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := l.AllowFixedWindow(ctx, "rl:login:ip:1.2.3.4:1", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "hit %d", i)
		assert.Equal(t, 3-i, d.Remaining)
	}

	d, err := l.AllowFixedWindow(ctx, "rl:login:ip:1.2.3.4:1", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Greater(t, d.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, d.RetryAfter, time.Minute)

	assert.Greater(t, mr.TTL("rl:login:ip:1.2.3.4:1"), time.Duration(0))

	// other keys are independent
	d, err = l.AllowFixedWindow(ctx, "rl:login:ip:5.6.7.8:1", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestFixedWindowLimiter_WindowExpiryResets(t *testing.T) {
	t.Parallel()

	c, mr := newTestClient(t)
	l := NewFixedWindowLimiter(c)
	ctx := context.Background()

	_, err := l.AllowFixedWindow(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	d, err := l.AllowFixedWindow(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	assert.False(t, d.Allowed)

	mr.FastForward(2 * time.Second)

	d, err = l.AllowFixedWindow(ctx, "k", 1, time.Second)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestFixedWindowLimiter_RedisDown_ReturnsError(t *testing.T) {
	t.Parallel()

	c, mr := newTestClient(t)
	mr.Close()

	_, err := NewFixedWindowLimiter(c).AllowFixedWindow(context.Background(), "k", 1, time.Minute)
	assert.Error(t, err)
}

func TestClient_Ping(t *testing.T) {
	t.Parallel()

	c, mr := newTestClient(t)
	require.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}
