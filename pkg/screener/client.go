// Package screener implements a client for the DEX Screener public API.
package screener

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jpillora/backoff"
	"github.com/raykavin/solscout/pkg/core"
	"github.com/raykavin/solscout/pkg/logger"
)

const (
	// DefaultBaseURL is the public DEX Screener endpoint
	DefaultBaseURL = "https://api.dexscreener.com"

	defaultTimeout    = 30 * time.Second
	defaultMaxRetries = 3
)

// Client implements core.Screener against the DEX Screener REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	log        logger.Logger
}

// Option is a function that configures a Client instance
type Option func(*Client)

// WithBaseURL overrides the API endpoint, mainly for tests
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom http.Client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithMaxRetries sets how many times a retryable request is attempted
func WithMaxRetries(retries int) Option {
	return func(c *Client) {
		c.maxRetries = retries
	}
}

// NewClient creates a DEX Screener client with the provided options
func NewClient(log logger.Logger, options ...Option) *Client {
	client := &Client{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
		maxRetries: defaultMaxRetries,
		log:        log,
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// setupBackoffRetry creates a backoff with sensible defaults
func setupBackoffRetry() *backoff.Backoff {
	return &backoff.Backoff{
		Min:    500 * time.Millisecond,
		Max:    10 * time.Second,
		Jitter: true,
	}
}

// Search fetches the latest pairs matching the query.
func (c *Client) Search(ctx context.Context, query string) ([]core.Pair, error) {
	endpoint := fmt.Sprintf("%s/latest/dex/search?q=%s", c.baseURL, url.QueryEscape(query))

	body, err := c.getWithRetry(ctx, endpoint)
	if err != nil {
		return nil, err
	}

	pairs := make([]core.Pair, 0, len(body.Pairs))
	for _, apiPair := range body.Pairs {
		pairs = append(pairs, apiPair.toPair())
	}

	c.log.WithField("query", query).Debugf("screener returned %d pairs", len(pairs))
	return pairs, nil
}

// getWithRetry performs the request, retrying rate limits and server errors
func (c *Client) getWithRetry(ctx context.Context, endpoint string) (*searchResponse, error) {
	retry := setupBackoffRetry()

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			wait := retry.Duration()
			c.log.WithError(lastErr).Warnf("screener request failed, retrying in %s", wait)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(wait):
			}
		}

		response, err := c.get(ctx, endpoint)
		if err == nil {
			return response, nil
		}

		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("screener request failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) get(ctx context.Context, endpoint string) (*searchResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &requestError{err: err, retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &requestError{
			err:       fmt.Errorf("unexpected status %s", resp.Status),
			retryable: resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500,
		}
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &body, nil
}

// requestError wraps transport and status errors with retry classification
type requestError struct {
	err       error
	retryable bool
}

func (e *requestError) Error() string { return e.err.Error() }
func (e *requestError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	if reqErr, ok := err.(*requestError); ok {
		return reqErr.retryable
	}
	return false
}
