package forgeseal

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// CreateFork forks parentRepo into the authenticated account and returns
// the fork's "owner/name". If the fork already exists it is returned
// as-is; the forge treats repeated fork requests as idempotent but this
// avoids the round trip and the asynchronous wait.
func (c *Client) CreateFork(ctx context.Context, parentRepo string) (string, error) {
	_, name, ok := strings.Cut(parentRepo, "/")
	if !ok {
		return "", fmt.Errorf("invalid repository %q: want owner/name", parentRepo)
	}

	expected := c.login + "/" + name
	exists, err := c.RepositoryExists(ctx, expected)
	if err != nil {
		return "", err
	}
	if exists {
		return expected, nil
	}

	fork, err := c.apiClient.CreateFork(ctx, parentRepo)
	if err != nil {
		return "", wrapError(err)
	}
	return fork.FullName, nil
}

// WaitForFork polls until the fork repository is visible, which is when
// the server-side asynchronous fork has materialized. Bound the wait with
// a context deadline; on expiry the error matches ErrForkTimeout.
func (c *Client) WaitForFork(ctx context.Context, forkRepo string) error {
	ticker := time.NewTicker(waitPoll)
	defer ticker.Stop()

	for {
		exists, err := c.RepositoryExists(ctx, forkRepo)
		if err == nil && exists {
			return nil
		}
		// Lookup errors here are transient visibility, not fatal: the
		// repository appears partway through fork materialization.

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %s: %v", ErrForkTimeout, forkRepo, ctx.Err())
		case <-ticker.C:
		}
	}
}

// DeleteRepository permanently deletes a repository. The token needs the
// delete_repo scope.
func (c *Client) DeleteRepository(ctx context.Context, repo string) error {
	return wrapError(c.apiClient.DeleteRepository(ctx, repo))
}
