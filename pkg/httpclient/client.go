package httpclient

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RetryStrategy classifies how a failed request should be retried.
type RetryStrategy int

const (
	NoRetry RetryStrategy = iota
	// BackoffRetry retries with exponential backoff, honoring a
	// Retry-After header when the server provides one.
	BackoffRetry
	// QuickRetry retries at most twice with a short fixed delay, for
	// transient server errors.
	QuickRetry
)

// StrategyFunc maps a status code to a retry strategy.
type StrategyFunc func(statusCode int) RetryStrategy

// Client is a retrying HTTP client for the Leadline backend. The zero
// value is not usable; construct with New.
type Client struct {
	client     *http.Client
	maxRetries int
	baseDelay  time.Duration
	strategy   StrategyFunc
	sleep      func(time.Duration)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.client = hc
	}
}

// WithMaxRetries caps retry attempts for backoff-retryable responses.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithBaseDelay sets the first backoff delay.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		c.baseDelay = d
	}
}

// WithStrategy replaces the status-code classification.
func WithStrategy(fn StrategyFunc) Option {
	return func(c *Client) {
		c.strategy = fn
	}
}

// WithSleep replaces the sleep function (tests).
func WithSleep(fn func(time.Duration)) Option {
	return func(c *Client) {
		c.sleep = fn
	}
}

// New creates a retrying client with sane defaults.
func New(opts ...Option) *Client {
	c := &Client{
		client:     &http.Client{Timeout: 30 * time.Second},
		maxRetries: 3,
		baseDelay:  time.Second,
		strategy:   DefaultStrategy,
		sleep:      time.Sleep,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DefaultStrategy retries rate limits and gateway-class errors with
// backoff, transient server errors quickly, and nothing else.
func DefaultStrategy(statusCode int) RetryStrategy {
	switch statusCode {
	case http.StatusTooManyRequests, http.StatusServiceUnavailable:
		return BackoffRetry
	case http.StatusRequestTimeout, http.StatusBadGateway, http.StatusGatewayTimeout:
		return QuickRetry
	default:
		return NoRetry
	}
}

// Do executes the request, retrying per the configured strategy. The
// request must have GetBody set for retries to replay the body (true
// for requests built with bytes.Reader bodies).
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	for attempt := 0; ; attempt++ {
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, &RetryableError{
					Message: "failed to recreate request body for retry",
					Err:     err,
				}
			}
			req.Body = body
		}

		resp, err := c.client.Do(req)
		if err != nil {
			// Network errors are not retried; the caller decides.
			return nil, err
		}
		if resp.StatusCode < 400 {
			return resp, nil
		}

		strategy := c.strategy(resp.StatusCode)
		if strategy == NoRetry {
			return resp, nil
		}

		delay, retryable := c.delayFor(strategy, attempt, resp)
		if !retryable || attempt >= c.maxRetries {
			return resp, nil
		}

		resp.Body.Close()
		slog.Debug("Retrying backend request",
			"status", resp.StatusCode,
			"attempt", attempt+1,
			"delay", delay)
		c.sleep(delay)
	}
}

// delayFor computes the wait before the next attempt.
func (c *Client) delayFor(strategy RetryStrategy, attempt int, resp *http.Response) (time.Duration, bool) {
	switch strategy {
	case BackoffRetry:
		if after := parseRetryAfter(resp.Header); after > 0 {
			return after, true
		}
		backoff := time.Duration(math.Pow(2, float64(attempt))) * c.baseDelay
		return backoff, true
	case QuickRetry:
		if attempt >= 2 {
			return 0, false
		}
		return time.Duration(attempt+1) * 500 * time.Millisecond, true
	default:
		return 0, false
	}
}

// parseRetryAfter reads a seconds-valued Retry-After header.
func parseRetryAfter(h http.Header) time.Duration {
	v := h.Get("Retry-After")
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
