// Package scryfall looks cards up on the Scryfall API.
//
// The client resolves a free-text name to one card and lists every unique
// art print of a card. It holds no mutable state besides the shared
// courtesy rate limiter, so one Client can serve concurrent callers.
package scryfall

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "https://api.scryfall.com"
	DefaultUserAgent = "mtgfactory/1.0"

	// MinPageDelay is the pause Scryfall asks for between consecutive requests
	MinPageDelay = 100 * time.Millisecond

	defaultTimeout  = 10 * time.Second
	defaultMaxPages = 20
	maxBodyBytes    = 16 << 20
)

// Config describes how to reach the provider
type Config struct {
	BaseURL   string
	UserAgent string

	// Timeout bounds every single request
	Timeout time.Duration

	// PageDelay is slept between search pages. Values below MinPageDelay are raised.
	PageDelay time.Duration

	// MaxPages caps one art lookup
	MaxPages int

	// RequestsPerSecond and Burst configure the limiter shared by every call
	// made through the client. Zero RequestsPerSecond disables it.
	RequestsPerSecond float64
	Burst             int

	// HTTPClient replaces the default transport (tests, proxies)
	HTTPClient *http.Client

	Logger *log.Logger
}

// DefaultConfig returns the settings used against the public API
func DefaultConfig() Config {
	return Config{
		BaseURL:           DefaultBaseURL,
		UserAgent:         DefaultUserAgent,
		Timeout:           defaultTimeout,
		PageDelay:         MinPageDelay,
		MaxPages:          defaultMaxPages,
		RequestsPerSecond: 10,
		Burst:             10,
	}
}

// Client talks to Scryfall
type Client struct {
	baseURL   string
	userAgent string
	timeout   time.Duration
	pageDelay time.Duration
	maxPages  int
	http      *http.Client
	limiter   *rate.Limiter
	logger    *log.Logger
}

// New creates a client, filling unset fields from DefaultConfig
func New(cfg Config) *Client {
	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.PageDelay < MinPageDelay {
		cfg.PageDelay = MinPageDelay
	}
	if cfg.MaxPages <= 0 {
		cfg.MaxPages = def.MaxPages
	}

	c := &Client{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		timeout:   cfg.Timeout,
		pageDelay: cfg.PageDelay,
		maxPages:  cfg.MaxPages,
		http:      cfg.HTTPClient,
		logger:    cfg.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: cfg.Timeout}
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard, "", 0)
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	return c
}

func (c *Client) endpoint(path string, query url.Values) string {
	return c.baseURL + path + "?" + query.Encode()
}

// fetch performs one GET and returns the status and decoded body. An error
// means no usable response was received.
func (c *Client) fetch(ctx context.Context, u string) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, fmt.Errorf("waiting for rate limiter: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, br")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	reader, err := bodyReader(resp)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("decode %s body: %w", resp.Header.Get("Content-Encoding"), err)
	}
	body, err := io.ReadAll(io.LimitReader(reader, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func bodyReader(resp *http.Response) (io.Reader, error) {
	switch strings.ToLower(resp.Header.Get("Content-Encoding")) {
	case "gzip":
		return gzip.NewReader(resp.Body)
	case "br":
		return brotli.NewReader(resp.Body), nil
	default:
		return resp.Body, nil
	}
}

// sleep waits d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
