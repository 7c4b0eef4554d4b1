package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// GetAuthenticatedUser returns the account that owns the token.
func (c *Client) GetAuthenticatedUser(ctx context.Context) (*User, error) {
	var result User
	if err := c.Do(ctx, "GET", "/user", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetRepository fetches a repository by "owner/name".
func (c *Client) GetRepository(ctx context.Context, repo string) (*Repository, error) {
	var result Repository
	if err := c.Do(ctx, "GET", "/repos/"+escapeRepo(repo), nil, &result); err != nil {
		return nil, WithResourceType(err, ResourceRepo)
	}
	return &result, nil
}

// GetRepoPublicKey fetches the Actions secrets public key for a repository.
func (c *Client) GetRepoPublicKey(ctx context.Context, repo string) (*PublicKey, error) {
	path := fmt.Sprintf("/repos/%s/actions/secrets/public-key", escapeRepo(repo))
	var result PublicKey
	if err := c.Do(ctx, "GET", path, nil, &result); err != nil {
		return nil, WithResourceType(err, ResourceRepo)
	}
	return &result, nil
}

// PutRepoSecret creates or updates a repository secret from a sealed,
// base64-encoded ciphertext.
func (c *Client) PutRepoSecret(ctx context.Context, repo, name string, req *PutSecretRequest) error {
	path := fmt.Sprintf("/repos/%s/actions/secrets/%s", escapeRepo(repo), url.PathEscape(name))
	return WithResourceType(c.Do(ctx, "PUT", path, req, nil), ResourceSecret)
}

// GetRepoSecret fetches a secret's metadata. The value is never readable.
func (c *Client) GetRepoSecret(ctx context.Context, repo, name string) (*Secret, error) {
	path := fmt.Sprintf("/repos/%s/actions/secrets/%s", escapeRepo(repo), url.PathEscape(name))
	var result Secret
	if err := c.Do(ctx, "GET", path, nil, &result); err != nil {
		return nil, WithResourceType(err, ResourceSecret)
	}
	return &result, nil
}

// DeleteRepoSecret removes a repository secret.
func (c *Client) DeleteRepoSecret(ctx context.Context, repo, name string) error {
	path := fmt.Sprintf("/repos/%s/actions/secrets/%s", escapeRepo(repo), url.PathEscape(name))
	return WithResourceType(c.Do(ctx, "DELETE", path, nil, nil), ResourceSecret)
}

// ListRepoSecrets lists secrets metadata for a repository.
func (c *Client) ListRepoSecrets(ctx context.Context, repo string) (*SecretList, error) {
	path := fmt.Sprintf("/repos/%s/actions/secrets?per_page=100", escapeRepo(repo))
	var result SecretList
	if err := c.Do(ctx, "GET", path, nil, &result); err != nil {
		return nil, WithResourceType(err, ResourceRepo)
	}
	return &result, nil
}

// ListWorkflows lists the workflow definitions in a repository.
func (c *Client) ListWorkflows(ctx context.Context, repo string) (*WorkflowList, error) {
	path := fmt.Sprintf("/repos/%s/actions/workflows", escapeRepo(repo))
	var result WorkflowList
	if err := c.Do(ctx, "GET", path, nil, &result); err != nil {
		return nil, WithResourceType(err, ResourceRepo)
	}
	return &result, nil
}

// EnableWorkflow enables a workflow by ID.
func (c *Client) EnableWorkflow(ctx context.Context, repo string, workflowID int64) error {
	path := fmt.Sprintf("/repos/%s/actions/workflows/%d/enable", escapeRepo(repo), workflowID)
	return WithResourceType(c.Do(ctx, "PUT", path, nil, nil), ResourceWorkflow)
}

// DisableWorkflow disables a workflow by ID.
func (c *Client) DisableWorkflow(ctx context.Context, repo string, workflowID int64) error {
	path := fmt.Sprintf("/repos/%s/actions/workflows/%d/disable", escapeRepo(repo), workflowID)
	return WithResourceType(c.Do(ctx, "PUT", path, nil, nil), ResourceWorkflow)
}

// DispatchWorkflow triggers a workflow_dispatch event for a workflow file
// on the given ref, with optional workflow inputs.
func (c *Client) DispatchWorkflow(ctx context.Context, repo, workflowFile, ref string, inputs map[string]string) error {
	path := fmt.Sprintf("/repos/%s/actions/workflows/%s/dispatches",
		escapeRepo(repo), url.PathEscape(workflowFile))
	return WithResourceType(c.Do(ctx, "POST", path, &DispatchRequest{Ref: ref, Inputs: inputs}, nil), ResourceWorkflow)
}

// ListWorkflowRuns lists the most recent workflow runs in a repository.
func (c *Client) ListWorkflowRuns(ctx context.Context, repo string, perPage int) (*WorkflowRunList, error) {
	path := fmt.Sprintf("/repos/%s/actions/runs?per_page=%d", escapeRepo(repo), perPage)
	var result WorkflowRunList
	if err := c.Do(ctx, "GET", path, nil, &result); err != nil {
		return nil, WithResourceType(err, ResourceRepo)
	}
	return &result, nil
}

// GetWorkflowRun fetches a single workflow run.
func (c *Client) GetWorkflowRun(ctx context.Context, repo string, runID int64) (*WorkflowRun, error) {
	path := fmt.Sprintf("/repos/%s/actions/runs/%d", escapeRepo(repo), runID)
	var result WorkflowRun
	if err := c.Do(ctx, "GET", path, nil, &result); err != nil {
		return nil, WithResourceType(err, ResourceWorkflow)
	}
	return &result, nil
}

// CreateFork forks a repository into the authenticated account. Forking
// is asynchronous on the server; the returned repository may not be
// ready immediately.
func (c *Client) CreateFork(ctx context.Context, repo string) (*Repository, error) {
	path := fmt.Sprintf("/repos/%s/forks", escapeRepo(repo))
	var result Repository
	if err := c.Do(ctx, "POST", path, nil, &result); err != nil {
		return nil, WithResourceType(err, ResourceRepo)
	}
	return &result, nil
}

// DeleteRepository permanently deletes a repository.
func (c *Client) DeleteRepository(ctx context.Context, repo string) error {
	return WithResourceType(c.Do(ctx, "DELETE", "/repos/"+escapeRepo(repo), nil, nil), ResourceRepo)
}

// GetActionsBilling fetches Actions usage for a user account.
func (c *Client) GetActionsBilling(ctx context.Context, login string) (*ActionsBilling, error) {
	path := fmt.Sprintf("/users/%s/settings/billing/actions", url.PathEscape(login))
	var result ActionsBilling
	if err := c.Do(ctx, "GET", path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetContent fetches a file through the contents API.
func (c *Client) GetContent(ctx context.Context, repo, path string) (*ContentFile, error) {
	apiPath := fmt.Sprintf("/repos/%s/contents/%s", escapeRepo(repo), escapePath(path))
	var result ContentFile
	if err := c.Do(ctx, "GET", apiPath, nil, &result); err != nil {
		return nil, WithResourceType(err, ResourceContent)
	}
	return &result, nil
}

// PutContent creates or updates a file through the contents API.
func (c *Client) PutContent(ctx context.Context, repo, path string, req *PutContentRequest) error {
	apiPath := fmt.Sprintf("/repos/%s/contents/%s", escapeRepo(repo), escapePath(path))
	return WithResourceType(c.Do(ctx, "PUT", apiPath, req, nil), ResourceContent)
}

// escapeRepo escapes an "owner/name" pair, keeping the separating slash.
func escapeRepo(repo string) string {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok {
		return url.PathEscape(repo)
	}
	return url.PathEscape(owner) + "/" + url.PathEscape(name)
}

// escapePath escapes a slash-separated file path segment by segment.
func escapePath(path string) string {
	segs := strings.Split(path, "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return strings.Join(segs, "/")
}
