package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"MarketMonitor/internal/metrics"
)

func TestGuard_Get(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Mozilla/5.0", r.Header.Get("User-Agent"))
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	g := New("test", Options{Timeout: time.Second})
	body, err := g.Get(context.Background(), srv.URL, http.Header{"User-Agent": {"Mozilla/5.0"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
}

func TestGuard_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	m := metrics.New()
	g := New("test", Options{Timeout: time.Second, Metrics: m})
	_, err := g.Get(context.Background(), srv.URL, nil)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.Code)
}

func TestGuard_BreakerOpensOnServerErrors(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	g := New("flaky", Options{Timeout: time.Second})
	for i := 0; i < 5; i++ {
		_, err := g.Get(context.Background(), srv.URL, nil)
		require.Error(t, err)
	}
	_, err := g.Get(context.Background(), srv.URL, nil)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, int32(5), hits.Load())
}

func TestGuard_ClientErrorsKeepBreakerClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	g := New("strict", Options{Timeout: time.Second})
	for i := 0; i < 8; i++ {
		_, err := g.Get(context.Background(), srv.URL, nil)
		assert.NotErrorIs(t, err, gobreaker.ErrOpenState)
	}
}

func TestGuard_CancelledContext(t *testing.T) {
	g := New("slow", Options{Timeout: time.Second, RateLimit: 0.001, Burst: 1})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	_, err := g.Get(context.Background(), srv.URL, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = g.Get(ctx, srv.URL, nil)
	assert.Error(t, err, "second request must wait for a token and give up")
}
