package forgeseal

import (
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 30 * time.Second

// clientConfig holds configuration for the client.
type clientConfig struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	proxyURL   *url.URL
	timeout    time.Duration
	retries    int
	retryOn    []int

	skipTokenCheck bool
}

// Option configures the client.
type Option func(*clientConfig)

// WithBaseURL sets the API base URL, for forge-compatible servers that
// are not the default host.
func WithBaseURL(baseURL string) Option {
	return func(c *clientConfig) {
		c.baseURL = baseURL
	}
}

// WithHTTPClient sets a custom HTTP client. It takes precedence over
// WithProxy and WithTimeout.
func WithHTTPClient(client *http.Client) Option {
	return func(c *clientConfig) {
		c.httpClient = client
	}
}

// WithProxy routes all of this client's requests through the given proxy.
// Orchestration pairs each account token with its own proxy, so the proxy
// is per-client rather than taken from the environment.
func WithProxy(proxyURL *url.URL) Option {
	return func(c *clientConfig) {
		c.proxyURL = proxyURL
	}
}

// WithTimeout sets the per-request timeout. Default: 30 seconds.
func WithTimeout(timeout time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = timeout
	}
}

// WithRetries sets the number of retries for API calls. Default: 3.
func WithRetries(count int) Option {
	return func(c *clientConfig) {
		c.retries = count
	}
}

// WithRetryOn sets the HTTP status codes that trigger a retry.
// Default: [403, 408, 429, 500, 502, 503, 504].
func WithRetryOn(statusCodes []int) Option {
	return func(c *clientConfig) {
		c.retryOn = statusCodes
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *clientConfig) {
		c.userAgent = ua
	}
}

// withoutTokenCheck skips the token validation call during New. Used by
// tests that do not serve /user.
func withoutTokenCheck() Option {
	return func(c *clientConfig) {
		c.skipTokenCheck = true
	}
}
