package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func readyResponse(t *testing.T, h *HealthHandler) (int, string) {
	t.Helper()
	app := fiber.New()
	app.Get("/health/ready", h.Ready)
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(raw)
}

func TestReady_AllUp(t *testing.T) {
	ok := pingerFunc(func(context.Context) error { return nil })

	status, body := readyResponse(t, NewHealthHandler("task-tracker", "test", ok, ok, nil))
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, `"postgres":"ok"`)
	assert.Contains(t, body, `"redis":"ok"`)
}

func TestReady_FailureDetailsStayInLogs(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	dbDown := pingerFunc(func(context.Context) error {
		return errors.New("dial tcp db.internal:5432: password authentication failed for user tasks")
	})
	redisDown := pingerFunc(func(context.Context) error {
		return errors.New("dial tcp cache.internal:6379: connection refused")
	})

	status, body := readyResponse(t, NewHealthHandler("task-tracker", "test", dbDown, redisDown, zap.New(core)))
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, body, `"postgres":"unreachable"`)
	assert.Contains(t, body, `"redis":"unreachable"`)
	assert.NotContains(t, body, "db.internal")
	assert.NotContains(t, body, "cache.internal")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "postgres", logs.All()[0].ContextMap()["dependency"])
	assert.Contains(t, logs.All()[0].ContextMap()["error"], "db.internal")
}
