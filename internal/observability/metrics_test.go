package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Record(t *testing.T) {
	m := NewMetrics("tasks")

	m.RecordRequest("/api/tasks", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/tasks", "GET", 200, 20*time.Millisecond)
	m.RecordError("/api/tasks/:id", "PUT", "NOT_FOUND")
	m.RecordRateLimited("/api/auth/login")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestTotal.WithLabelValues("GET", "/api/tasks", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorTotal.WithLabelValues("PUT", "/api/tasks/:id", "NOT_FOUND")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rateLimitHits.WithLabelValues("/api/auth/login")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		m.RecordRateLimited("/")
	})
}
