package forgeseal

import (
	"context"
	"fmt"
	"time"

	"github.com/forgeseal/client-go/internal/api"
)

// Client is a forge client bound to one account token. It is stateless
// after construction and safe for concurrent use.
type Client struct {
	apiClient *api.Client
	login     string
}

// buildAPIClient creates and configures an API client from the given config.
func buildAPIClient(token string, cfg *clientConfig) (*api.Client, error) {
	apiOpts := []api.Option{}
	if cfg.baseURL != "" {
		apiOpts = append(apiOpts, api.WithBaseURL(cfg.baseURL))
	}
	if cfg.userAgent != "" {
		apiOpts = append(apiOpts, api.WithUserAgent(cfg.userAgent))
	}
	if cfg.timeout > 0 {
		apiOpts = append(apiOpts, api.WithTimeout(cfg.timeout))
	}
	if cfg.proxyURL != nil {
		apiOpts = append(apiOpts, api.WithProxy(cfg.proxyURL))
	}
	if cfg.retries > 0 || len(cfg.retryOn) > 0 {
		retry := api.DefaultRetryConfig()
		if cfg.retries > 0 {
			retry.MaxRetries = cfg.retries
		}
		if len(cfg.retryOn) > 0 {
			codes := make(map[int]bool, len(cfg.retryOn))
			for _, code := range cfg.retryOn {
				codes[code] = true
			}
			retry.RetryableOn = func(statusCode int) bool { return codes[statusCode] }
		}
		apiOpts = append(apiOpts, api.WithRetryConfig(retry))
	}

	apiClient, err := api.New(token, apiOpts...)
	if err != nil {
		return nil, err
	}

	if cfg.httpClient != nil {
		apiClient.SetHTTPClient(cfg.httpClient)
	}

	return apiClient, nil
}

// New creates a client for the given account token. The token is verified
// against the forge and the account login is cached on the client.
func New(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	cfg := &clientConfig{
		timeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	apiClient, err := buildAPIClient(token, cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{apiClient: apiClient}

	if !cfg.skipTokenCheck {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.timeout)
		defer cancel()

		user, err := apiClient.GetAuthenticatedUser(ctx)
		if err != nil {
			return nil, fmt.Errorf("verify token: %w", wrapError(err))
		}
		c.login = user.Login
	}

	return c, nil
}

// Login returns the account login the token authenticated as.
func (c *Client) Login() string {
	return c.login
}

// Repository fetches a repository by "owner/name".
func (c *Client) Repository(ctx context.Context, repo string) (*Repository, error) {
	r, err := c.apiClient.GetRepository(ctx, repo)
	if err != nil {
		return nil, wrapError(err)
	}
	return newRepository(r), nil
}

// RepositoryExists reports whether a repository exists and is visible to
// this client's token.
func (c *Client) RepositoryExists(ctx context.Context, repo string) (bool, error) {
	_, err := c.Repository(ctx, repo)
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Repository describes a repository, trimmed to the fields the SDK uses.
type Repository struct {
	FullName      string
	DefaultBranch string
	Fork          bool
	Parent        string
}

func newRepository(r *api.Repository) *Repository {
	repo := &Repository{
		FullName:      r.FullName,
		DefaultBranch: r.DefaultBranch,
		Fork:          r.Fork,
	}
	if r.Parent != nil {
		repo.Parent = r.Parent.FullName
	}
	return repo
}

// waitPoll is the polling interval for readiness and completion waits.
// Variable so tests can shorten it.
var waitPoll = 5 * time.Second
