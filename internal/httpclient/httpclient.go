package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"MarketMonitor/internal/metrics"
)

// StatusError is returned for non-200 responses.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("status %d, body: %s", e.Code, e.Body)
}

// Options configures a Guard.
type Options struct {
	Timeout   time.Duration
	Proxy     string
	RateLimit float64 // requests per second, 0 disables limiting
	Burst     int
	Metrics   *metrics.Metrics
}

// NewClient returns an http.Client with the given timeout, routed through
// proxyURL when set.
func NewClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{Proxy: http.ProxyFromEnvironment}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		} else {
			log.Warn().Err(err).Str("proxy", proxyURL).Msg("ignoring invalid proxy url")
		}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// Guard wraps an http.Client for one upstream with a token bucket and a
// circuit breaker. Server errors and transport failures trip the breaker;
// 4xx responses do not.
type Guard struct {
	name    string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	metrics *metrics.Metrics
}

// New creates a Guard for the named upstream.
func New(name string, opts Options) *Guard {
	if opts.Timeout <= 0 {
		opts.Timeout = 8 * time.Second
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}

	st := gobreaker.Settings{Name: name}
	st.Interval = 60 * time.Second
	st.Timeout = 30 * time.Second
	st.ReadyToTrip = func(counts gobreaker.Counts) bool {
		return counts.ConsecutiveFailures >= 5
	}
	st.IsSuccessful = func(err error) bool {
		var se *StatusError
		if errors.As(err, &se) {
			return se.Code < 500
		}
		return err == nil || errors.Is(err, context.Canceled)
	}
	st.OnStateChange = func(name string, from, to gobreaker.State) {
		log.Warn().Str("upstream", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
	}

	return &Guard{
		name:    name,
		client:  NewClient(opts.Proxy, opts.Timeout),
		limiter: rate.NewLimiter(limit, opts.Burst),
		breaker: gobreaker.NewCircuitBreaker(st),
		metrics: opts.Metrics,
	}
}

// Name returns the upstream name.
func (g *Guard) Name() string { return g.name }

// Get performs a GET request and returns the body of a 200 response.
func (g *Guard) Get(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%s: rate limit: %w", g.name, err)
	}

	body, err := g.breaker.Execute(func() (any, error) {
		return g.do(ctx, rawURL, header)
	})
	if err != nil {
		g.metrics.UpstreamFailure(g.name)
		return nil, fmt.Errorf("%s: %w", g.name, err)
	}
	return body.([]byte), nil
}

func (g *Guard) do(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if len(body) > 256 {
			body = body[:256]
		}
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
