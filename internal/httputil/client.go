// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP client shared across stages.
package httputil

import (
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/pdiddy/papergenie/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultUserAgent = "papergenie/0.1"
)

// Client wraps http.Client with a token-bucket rate limiter and a fixed
// User-Agent. Each request is attempted once; there is no retry.
type Client struct {
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
}

// New builds a Client from cfg. A zero RateLimit disables limiting.
func New(cfg types.HTTPConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return NewWithHTTPClient(&http.Client{Timeout: timeout}, cfg)
}

// NewDownloader builds a Client for document downloads. It keeps the rate
// limit and User-Agent from cfg but sets no overall request timeout, so a
// large transfer is bounded only by the request context and the transport.
func NewDownloader(cfg types.HTTPConfig) *Client {
	return NewWithHTTPClient(&http.Client{}, cfg)
}

// NewWithHTTPClient wraps an existing http.Client, e.g. one returned by
// httptest.Server.Client().
func NewWithHTTPClient(hc *http.Client, cfg types.HTTPConfig) *Client {
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}

	c := &Client{http: hc, userAgent: ua}
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	return c
}

// Do waits for the rate limiter, sets the User-Agent header when the caller
// has not, and executes the request.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(req.Context()); err != nil {
			return nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.http.Do(req)
}
