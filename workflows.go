package forgeseal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Workflow run lifecycle values reported by the forge.
const (
	RunStatusCompleted = "completed"

	RunConclusionSuccess = "success"
	RunConclusionFailure = "failure"
)

// WorkflowRun describes one execution of a workflow. Conclusion is empty
// until Status is "completed".
type WorkflowRun struct {
	ID         int64
	Status     string
	Conclusion string
	CreatedAt  time.Time
}

// WorkflowID finds a workflow by its file name (e.g. "deploy.yml") and
// returns its numeric ID. Returns ErrWorkflowNotFound if no workflow's
// path matches.
func (c *Client) WorkflowID(ctx context.Context, repo, workflowFile string) (int64, error) {
	list, err := c.apiClient.ListWorkflows(ctx, repo)
	if err != nil {
		return 0, wrapError(err)
	}

	for _, wf := range list.Workflows {
		if strings.HasSuffix(wf.Path, "/"+workflowFile) || wf.Path == workflowFile {
			return wf.ID, nil
		}
	}
	return 0, fmt.Errorf("%w: %s in %s", ErrWorkflowNotFound, workflowFile, repo)
}

// EnableWorkflow enables a workflow by file name. Enabling an
// already-enabled workflow is a no-op.
func (c *Client) EnableWorkflow(ctx context.Context, repo, workflowFile string) error {
	id, err := c.WorkflowID(ctx, repo, workflowFile)
	if err != nil {
		return err
	}
	if err := c.apiClient.EnableWorkflow(ctx, repo, id); err != nil {
		return ignoreAlreadyInState(wrapError(err))
	}
	return nil
}

// DisableWorkflow disables a workflow by file name. Disabling an
// already-disabled workflow is a no-op.
func (c *Client) DisableWorkflow(ctx context.Context, repo, workflowFile string) error {
	id, err := c.WorkflowID(ctx, repo, workflowFile)
	if err != nil {
		return err
	}
	if err := c.apiClient.DisableWorkflow(ctx, repo, id); err != nil {
		return ignoreAlreadyInState(wrapError(err))
	}
	return nil
}

// ignoreAlreadyInState swallows the validation error the forge returns
// when a workflow is already in the requested enable/disable state.
func ignoreAlreadyInState(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		msg := strings.ToLower(apiErr.Message)
		if strings.Contains(msg, "already") || strings.Contains(msg, "not enabled") {
			return nil
		}
	}
	return err
}

// DispatchWorkflow triggers a workflow_dispatch event for the workflow
// file on the given ref.
func (c *Client) DispatchWorkflow(ctx context.Context, repo, workflowFile, ref string) error {
	return wrapError(c.apiClient.DispatchWorkflow(ctx, repo, workflowFile, ref, nil))
}

// DispatchWorkflowInputs is DispatchWorkflow with workflow_dispatch
// inputs attached to the run.
func (c *Client) DispatchWorkflowInputs(ctx context.Context, repo, workflowFile, ref string, inputs map[string]string) error {
	return wrapError(c.apiClient.DispatchWorkflow(ctx, repo, workflowFile, ref, inputs))
}

// LatestRun returns the most recent workflow run in the repository, or
// nil if there has never been one.
func (c *Client) LatestRun(ctx context.Context, repo string) (*WorkflowRun, error) {
	list, err := c.apiClient.ListWorkflowRuns(ctx, repo, 1)
	if err != nil {
		return nil, wrapError(err)
	}
	if len(list.WorkflowRuns) == 0 {
		return nil, nil
	}
	run := list.WorkflowRuns[0]
	return &WorkflowRun{
		ID:         run.ID,
		Status:     run.Status,
		Conclusion: run.Conclusion,
		CreatedAt:  run.CreatedAt,
	}, nil
}

// Run fetches a single workflow run by ID.
func (c *Client) Run(ctx context.Context, repo string, runID int64) (*WorkflowRun, error) {
	run, err := c.apiClient.GetWorkflowRun(ctx, repo, runID)
	if err != nil {
		return nil, wrapError(err)
	}
	return &WorkflowRun{
		ID:         run.ID,
		Status:     run.Status,
		Conclusion: run.Conclusion,
		CreatedAt:  run.CreatedAt,
	}, nil
}

// WaitForRun polls a workflow run until it completes or ctx is done. On
// completion the run's conclusion is returned; bound the wait with a
// context deadline.
func (c *Client) WaitForRun(ctx context.Context, repo string, runID int64) (string, error) {
	ticker := time.NewTicker(waitPoll)
	defer ticker.Stop()

	for {
		run, err := c.Run(ctx, repo, runID)
		if err != nil {
			return "", err
		}
		if run.Status == RunStatusCompleted {
			return run.Conclusion, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}
