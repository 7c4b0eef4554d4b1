package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const (
	defaultBaseURL   = "https://api.github.com"
	defaultUserAgent = "forgeseal-client-go"
	defaultTimeout   = 30 * time.Second

	// apiVersion is sent on every request so the forge serves a stable
	// wire format.
	apiVersion = "2022-11-28"
)

// Client is the forge HTTP API client. It is safe for concurrent use.
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	retry      *RetryConfig
}

// Option configures the API client.
type Option func(*Client)

// WithBaseURL sets the API base URL, for forge-compatible servers that
// are not the default host.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithUserAgent sets the User-Agent header sent on every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithTimeout sets the per-request timeout on the underlying HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithRetryConfig replaces the retry policy.
func WithRetryConfig(cfg *RetryConfig) Option {
	return func(c *Client) {
		c.retry = cfg
	}
}

// WithProxy routes all requests through the given proxy URL. Accounts are
// paired one-to-one with proxies upstream, so the proxy is fixed per
// client rather than read from the environment.
func WithProxy(proxyURL *url.URL) Option {
	return func(c *Client) {
		c.httpClient.Transport = &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
		}
	}
}

// New creates a forge API client authenticating with the given token.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, fmt.Errorf("API token is required")
	}

	c := &Client{
		baseURL:   defaultBaseURL,
		token:     token,
		userAgent: defaultUserAgent,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		retry: DefaultRetryConfig(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// SetHTTPClient replaces the underlying HTTP client. Intended for tests
// and callers that need full transport control.
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// Do performs one API call: marshal body (if any), send with auth and
// version headers, retry per the retry policy, and decode the JSON
// response into result (if non-nil).
func (c *Client) Do(ctx context.Context, method, path string, body, result interface{}) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		payload = data
	}

	resp, err := c.send(ctx, method, path, payload)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return parseErrorResponse(resp)
	}

	if result != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// send issues the request, retrying network failures and retryable status
// codes with backoff. The request body is rebuilt from payload on every
// attempt.
func (c *Client) send(ctx context.Context, method, path string, payload []byte) (*http.Response, error) {
	requestURL := c.baseURL + path

	for attempt := 0; ; attempt++ {
		var bodyReader io.Reader
		if payload != nil {
			bodyReader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, requestURL, bodyReader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/vnd.github+json")
		req.Header.Set("X-GitHub-Api-Version", apiVersion)
		req.Header.Set("User-Agent", c.userAgent)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if attempt >= c.retry.MaxRetries {
				return nil, &NetworkError{Err: err, URL: requestURL, Attempt: attempt + 1}
			}
			if waitErr := c.retry.Wait(ctx, attempt, 0); waitErr != nil {
				return nil, waitErr
			}
			continue
		}

		if !c.retry.ShouldRetry(attempt, resp.StatusCode) {
			return resp, nil
		}

		// Rate-limited responses carry the server's preferred delay.
		after := retryAfter(resp)
		resp.Body.Close()

		if err := c.retry.Wait(ctx, attempt, after); err != nil {
			return nil, err
		}
	}
}

// retryAfter reads the Retry-After header, if present and sane.
func retryAfter(resp *http.Response) time.Duration {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err != nil || seconds < 0 {
		return 0
	}
	return time.Duration(seconds) * time.Second
}

func parseErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	apiErr := &APIError{StatusCode: resp.StatusCode}

	var errResp struct {
		Message          string `json:"message"`
		DocumentationURL string `json:"documentation_url"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		apiErr.Message = errResp.Message
		apiErr.DocumentationURL = errResp.DocumentationURL
	} else {
		apiErr.Message = string(body)
	}

	return apiErr
}
