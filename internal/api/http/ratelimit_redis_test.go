package http

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMiniredisLimiter(t *testing.T) (*miniredis.Miniredis, RateLimiter) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, NewRedisRateLimiter(client, zap.NewNop())
}

func TestRedisRateLimiter_WindowKeyAlwaysExpires(t *testing.T) {
	mr, rl := newMiniredisLimiter(t)
	key := "tasks:ratelimit:/api/auth/login|1.2.3.4"

	d := rl.Allow("/api/auth/login|1.2.3.4", 2, time.Minute)
	assert.True(t, d.allowed)
	assert.Equal(t, 1, d.count)
	require.True(t, mr.Exists(key))
	ttl := mr.TTL(key)
	assert.Positive(t, ttl)
	assert.LessOrEqual(t, ttl, time.Minute)

	assert.True(t, rl.Allow("/api/auth/login|1.2.3.4", 2, time.Minute).allowed)
	d = rl.Allow("/api/auth/login|1.2.3.4", 2, time.Minute)
	assert.False(t, d.allowed)
	assert.Equal(t, 3, d.count)

	// Later hits in the window keep the original expiry.
	assert.LessOrEqual(t, mr.TTL(key), ttl)

	mr.FastForward(time.Minute)
	d = rl.Allow("/api/auth/login|1.2.3.4", 2, time.Minute)
	assert.True(t, d.allowed)
	assert.Equal(t, 1, d.count)
}

func TestRedisRateLimiter_FailsOpen(t *testing.T) {
	mr, rl := newMiniredisLimiter(t)
	mr.Close()

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("/api/auth/login|1.2.3.4", 1, time.Minute).allowed)
	}
}
