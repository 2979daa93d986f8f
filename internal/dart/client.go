package dart

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/guttosm/dartpulse/config"
	"github.com/guttosm/dartpulse/internal/logger"
)

const (
	registryPath   = "/corpCode.xml"
	statementsPath = "/fnlttSinglAcntAll.json"
)

// Client talks to the DART open API. It is safe for concurrent use.
type Client struct {
	baseURL  string
	apiKey   string
	parallel int
	http     *http.Client
	limiter  *rate.Limiter
	log      zerolog.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client (tests use httptest servers' clients).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// NewClient builds a Client from the resolved configuration.
//
// Behavior:
//   - cfg.Timeout of zero leaves requests without a deadline.
//   - cfg.RatePerSec > 0 installs a token bucket limiter (burst 1) shared by all requests.
//   - cfg.Parallel < 1 is treated as 1 (sequential yearly requests).
func NewClient(cfg config.DartConfig, opts ...Option) *Client {
	c := &Client{
		baseURL:  cfg.BaseURL,
		apiKey:   cfg.APIKey,
		parallel: cfg.Parallel,
		http:     &http.Client{Timeout: cfg.Timeout},
		log:      logger.Named("dart"),
	}
	if c.parallel < 1 {
		c.parallel = 1
	}
	if cfg.RatePerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSec), 1)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// HasCredential reports whether an API key is configured.
func (c *Client) HasCredential() bool {
	return c.apiKey != ""
}

// get performs one GET against path with the given query and returns the body.
// Transport failures and non-2xx statuses are reported as ErrNetwork.
func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrNetwork, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrNetwork, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: GET %s: unexpected status %d", ErrNetwork, path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body of %s: %w", ErrNetwork, path, err)
	}
	return body, nil
}
