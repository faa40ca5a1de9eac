package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counts(t *testing.T) {
	m := New()
	m.ObserveEvaluation("ok", 120*time.Millisecond)
	m.ObserveEvaluation("ok", 80*time.Millisecond)
	m.ObserveEvaluation("data_unavailable", time.Millisecond)
	m.Degrade("sector")
	m.UpstreamFailure("yahoo")

	body := scrape(t, m)
	assert.Contains(t, body, `monitor_evaluations_total{result="ok"} 2`)
	assert.Contains(t, body, `monitor_evaluations_total{result="data_unavailable"} 1`)
	assert.Contains(t, body, `monitor_evaluation_duration_seconds_count 3`)
	assert.Contains(t, body, `monitor_degraded_total{component="sector"} 1`)
	assert.Contains(t, body, `monitor_upstream_failures_total{upstream="yahoo"} 1`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveEvaluation("ok", time.Second)
		m.Degrade("news")
		m.UpstreamFailure("rss")
	})
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 200, rec.Code)
	return rec.Body.String()
}
