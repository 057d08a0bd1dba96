// Package gorgias is the single point of outbound access to the Gorgias
// REST API. Every call goes through the shared rate limiter, the retry
// policy, and HTTP-status classification into the domain error taxonomy.
package gorgias

import (
	"context"
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/gorgias-tools/gorgias-mcp/internal/metrics"
	"github.com/gorgias-tools/gorgias-mcp/internal/ratelimit"
	"github.com/gorgias-tools/gorgias-mcp/internal/retry"
)

const (
	// DefaultTimeout bounds a single HTTP exchange, not a whole operation.
	DefaultTimeout = 30 * time.Second
	// DefaultRateLimit / DefaultRateWindow match the Gorgias account
	// budget of 40 requests per 20 seconds.
	DefaultRateLimit  = 40
	DefaultRateWindow = 20 * time.Second

	defaultUserAgent = "gorgias-mcp/" + Version

	// maxErrorBody caps how much response body is kept in error details.
	maxErrorBody = 512
)

// Version is the client and server version string.
const Version = "0.3.1"

// Config carries the connection settings for a Client.
type Config struct {
	// Domain is the Gorgias account domain, either the bare subdomain
	// ("acme") or the full host ("acme.gorgias.com").
	Domain   string
	Username string
	APIKey   string

	Timeout        time.Duration
	RateLimit      int
	RateWindow     time.Duration
	RetryAttempts  int
	RetryBaseDelay time.Duration
	Debug          bool
}

// Client is the Gorgias API client. It owns the transport configuration for
// the process lifetime and is safe for concurrent use; the rate limiter is
// the only shared mutable state behind it.
type Client struct {
	http    *resty.Client
	baseURL string
	limiter *ratelimit.Limiter
	retry   retry.Policy
	debug   bool
}

// NewClient builds a client from cfg, applying the documented defaults for
// any zero values.
func NewClient(cfg *Config) *Client {
	domain := cfg.Domain
	if domain != "" && !strings.Contains(domain, ".") {
		domain += ".gorgias.com"
	}
	baseURL := "https://" + domain + "/api"

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = DefaultRateLimit
	}
	window := cfg.RateWindow
	if window <= 0 {
		window = DefaultRateWindow
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetBasicAuth(cfg.Username, cfg.APIKey).
		SetHeader("User-Agent", defaultUserAgent).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	policy := retry.NewPolicy(cfg.RetryAttempts, cfg.RetryBaseDelay, IsRetryable)
	policy.Debug = cfg.Debug

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		limiter: ratelimit.New(limit, window),
		retry:   policy,
		debug:   cfg.Debug,
	}
}

// BaseURL returns the resolved API base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Limiter exposes the shared rate limiter for observability.
func (c *Client) Limiter() *ratelimit.Limiter { return c.limiter }

// SetTransport swaps the underlying HTTP transport. Test hook.
func (c *Client) SetTransport(baseURL string) {
	c.baseURL = baseURL
	c.http.SetBaseURL(baseURL)
}

// do runs one remote operation through the full envelope: each attempt
// re-enters the rate limiter, so retries count against the request budget
// like any other call. The terminal error is already classified.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	return c.retry.Do(ctx, op, func(ctx context.Context) error {
		if err := c.limiter.Acquire(ctx); err != nil {
			return err
		}
		metrics.RateLimitRemaining.Set(float64(c.limiter.Remaining()))

		req := c.http.R().SetContext(ctx)
		if query != nil {
			req.SetQueryParamsFromValues(query)
		}
		if body != nil {
			req.SetBody(body)
		}
		if out != nil {
			req.SetResult(out)
		}

		if c.debug {
			log.Printf("gorgias: %s %s (%s)", method, path, op)
		}

		start := time.Now()
		resp, err := req.Execute(method, path)
		if err != nil {
			metrics.ObserveRequest(op, 0, time.Since(start))
			return &NetworkError{Op: op, URL: c.baseURL + path, Err: err}
		}
		metrics.ObserveRequest(op, resp.StatusCode(), time.Since(start))

		if resp.IsSuccess() {
			return nil
		}
		return classifyStatus(op, resp.StatusCode(), truncateBody(resp.Body()))
	})
}

// TestConnection issues a minimal list-tickets call and reports whether it
// succeeded. It never returns an error.
func (c *Client) TestConnection(ctx context.Context) bool {
	_, err := c.ListTickets(ctx, &TicketListOptions{Limit: 1})
	if err != nil && c.debug {
		log.Printf("gorgias: connection test failed: %v", err)
	}
	return err == nil
}

func truncateBody(body []byte) string {
	if len(body) > maxErrorBody {
		return string(body[:maxErrorBody]) + "..."
	}
	return string(body)
}

// orderParam serializes an order field and direction as "field:direction",
// defaulting the direction to descending.
func orderParam(field, direction string) string {
	if field == "" {
		return ""
	}
	if direction == "" {
		direction = "desc"
	}
	return field + ":" + direction
}

// shouldFallback reports whether a primary-endpoint failure means the
// endpoint is unsupported on this account rather than temporarily down.
// Only not-found and not-implemented-class responses degrade to the
// client-side fallback; transient failures surface after retries instead of
// silently weakening results.
func shouldFallback(err error) bool {
	if IsNotFound(err) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 405 || apiErr.StatusCode == 501
	}
	return false
}
