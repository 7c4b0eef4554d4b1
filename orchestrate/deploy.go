package orchestrate

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	forgeseal "github.com/forgeseal/client-go"
)

// ErrBadWorkflow wraps workflow file validation failures.
var ErrBadWorkflow = fmt.Errorf("invalid workflow file")

// ValidateWorkflow checks that content is parseable YAML shaped like a
// workflow: a mapping with "on" triggers and "jobs". Catching a broken
// file here beats discovering it as a run that never starts.
func ValidateWorkflow(content []byte) error {
	var doc map[string]any
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return fmt.Errorf("%w: %v", ErrBadWorkflow, err)
	}
	if doc == nil {
		return fmt.Errorf("%w: empty document", ErrBadWorkflow)
	}
	if _, ok := doc["on"]; !ok {
		return fmt.Errorf("%w: no trigger section", ErrBadWorkflow)
	}
	jobs, ok := doc["jobs"].(map[string]any)
	if !ok || len(jobs) == 0 {
		return fmt.Errorf("%w: no jobs", ErrBadWorkflow)
	}
	return nil
}

// Deploy validates the workflow file and commits it to the active fork
// under .github/workflows/, creating or updating as needed.
func (o *Orchestrator) Deploy(ctx context.Context, content []byte, message string) error {
	if err := ValidateWorkflow(content); err != nil {
		return err
	}

	s, err := o.states.Load()
	if err != nil {
		return err
	}
	acct, node, _, err := o.activeAccount(s)
	if err != nil {
		return err
	}

	path := ".github/workflows/" + o.workflowFile

	// An existing file must be updated under its current blob SHA.
	existing, err := acct.Client.GetFile(ctx, node.Repo, path)
	if err != nil {
		return fmt.Errorf("check existing workflow: %w", err)
	}
	sha := ""
	if existing != nil {
		sha = existing.SHA
	}

	repoInfo, err := acct.Client.Repository(ctx, node.Repo)
	if err != nil {
		return err
	}

	if err := acct.Client.PutFile(ctx, node.Repo, path, repoInfo.DefaultBranch, message, content, sha); err != nil {
		return fmt.Errorf("deploy workflow to %s: %w", node.Repo, err)
	}

	o.log.WithFields(map[string]any{
		"repo": node.Repo,
		"path": path,
	}).Info("workflow deployed")
	return nil
}

// SetSecrets seals and stores the given secrets on the active fork.
func (o *Orchestrator) SetSecrets(ctx context.Context, secrets []forgeseal.Secret) error {
	s, err := o.states.Load()
	if err != nil {
		return err
	}
	acct, node, _, err := o.activeAccount(s)
	if err != nil {
		return err
	}

	if err := acct.Client.SetSecrets(ctx, node.Repo, secrets); err != nil {
		return err
	}

	o.log.WithFields(map[string]any{
		"repo":  node.Repo,
		"count": len(secrets),
	}).Info("secrets updated")
	return nil
}

// Dispatch triggers the workflow on the active fork's default branch.
func (o *Orchestrator) Dispatch(ctx context.Context) error {
	s, err := o.states.Load()
	if err != nil {
		return err
	}
	acct, node, _, err := o.activeAccount(s)
	if err != nil {
		return err
	}

	repoInfo, err := acct.Client.Repository(ctx, node.Repo)
	if err != nil {
		return err
	}
	return acct.Client.DispatchWorkflow(ctx, node.Repo, o.workflowFile, repoInfo.DefaultBranch)
}
