package http

import (
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestMemoryRateLimiter_FixedWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := &memoryRateLimiter{entries: make(map[string]rateState), now: func() time.Time { return now }}

	for i := 1; i <= 3; i++ {
		d := rl.Allow("login|1.2.3.4", 3, time.Minute)
		assert.True(t, d.allowed, "hit %d", i)
		assert.Equal(t, i, d.count)
	}
	d := rl.Allow("login|1.2.3.4", 3, time.Minute)
	assert.False(t, d.allowed)
	assert.Equal(t, now.Add(time.Minute), d.windowEnd)

	assert.True(t, rl.Allow("login|5.6.7.8", 3, time.Minute).allowed)

	now = now.Add(time.Minute)
	d = rl.Allow("login|1.2.3.4", 3, time.Minute)
	assert.True(t, d.allowed)
	assert.Equal(t, 1, d.count)
}

func TestMemoryRateLimiter_DisabledLimit(t *testing.T) {
	rl := NewMemoryRateLimiter()
	for i := 0; i < 10; i++ {
		assert.True(t, rl.Allow("k", 0, time.Minute).allowed)
	}
}

func TestRateLimit_Headers(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, MiddlewareConfig{Logger: zap.NewNop()})
	app.Post("/login", RateLimit(NewMemoryRateLimiter(), 1, time.Minute, nil), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", resp.Header.Get("X-RateLimit-Remaining"))

	resp, err = app.Test(httptest.NewRequest(nethttp.MethodPost, "/login", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusTooManyRequests, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(fiber.HeaderRetryAfter))
}

func TestErrorHandling_RecoversPanics(t *testing.T) {
	app := fiber.New()
	RegisterMiddlewares(app, MiddlewareConfig{Logger: zap.NewNop()})
	app.Get("/boom", func(c *fiber.Ctx) error {
		panic("boom")
	})

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/boom", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, nethttp.StatusInternalServerError, resp.StatusCode)
	assert.Equal(t, "INTERNAL_ERROR", decodeEnvelope(t, resp).Error.Code)
}

func decodeEnvelope(t *testing.T, resp *nethttp.Response) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return env
}
