package orchestrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgeseal/client-go/internal/state"
)

// ErrChainExhausted is returned by Rotate when no account remains to
// rotate to.
var ErrChainExhausted = errors.New("all accounts exhausted")

// RotationResult describes what Rotate did.
type RotationResult struct {
	// Rotated is false when the active account still has minutes and
	// nothing changed.
	Rotated bool
	// From and To are account logins. From is always set; To only when
	// Rotated.
	From string
	To   string
	// Repo is the fork now active.
	Repo string
}

// Rotate checks the active account's billing and, if its included
// minutes are effectively gone, moves the chain to the next account:
// the workflow is disabled on the exhausted fork, the fork is marked
// exhausted, the next account forks the chain tip, and the new fork
// becomes active. The caller then deploys and sets secrets on it.
func (o *Orchestrator) Rotate(ctx context.Context) (*RotationResult, error) {
	s, err := o.states.Load()
	if err != nil {
		return nil, err
	}
	acct, node, idx, err := o.activeAccount(s)
	if err != nil {
		return nil, err
	}

	usage, err := acct.Client.ActionsBilling(ctx)
	if err != nil {
		return nil, fmt.Errorf("billing for %s: %w", acct.Login, err)
	}
	if err := o.states.RecordBilling(s, idx, usage.MinutesUsed); err != nil {
		return nil, err
	}

	if !usage.Exhausted() {
		o.log.WithFields(map[string]any{
			"login":     acct.Login,
			"remaining": usage.Remaining(),
		}).Info("active account still has minutes")
		return &RotationResult{From: acct.Login, Repo: node.Repo}, nil
	}

	o.log.WithField("login", acct.Login).Warn("active account exhausted, rotating")

	// Stop the workflow before abandoning the fork so the exhausted
	// account does not keep queueing runs.
	if err := acct.Client.DisableWorkflow(ctx, node.Repo, o.workflowFile); err != nil {
		o.log.WithError(err).Warn("disable workflow on exhausted fork")
	}
	if err := o.states.UpdateStatus(s, idx, state.StatusExhausted); err != nil {
		return nil, err
	}

	next, err := o.nextAccount(node.AccountIndex)
	if err != nil {
		o.alert(ctx, fmt.Sprintf("Rotation failed: %s exhausted and no account remains", acct.Login))
		return nil, err
	}

	parent := o.sourceRepo
	if tip, ok := s.NextParentRepo(); ok {
		parent = tip
	}

	forkRepo, err := next.Client.CreateFork(ctx, parent)
	if err != nil {
		return nil, fmt.Errorf("fork %s as %s: %w", parent, next.Login, err)
	}
	if err := next.Client.WaitForFork(ctx, forkRepo); err != nil {
		return nil, err
	}

	if err := o.states.AddFork(s, state.ForkNode{
		AccountIndex: next.Index,
		Login:        next.Login,
		Repo:         forkRepo,
		Parent:       parent,
		Status:       state.StatusActive,
	}); err != nil {
		return nil, err
	}

	o.alert(ctx, fmt.Sprintf("Rotated %s -> %s (%s)", acct.Login, next.Login, forkRepo))
	o.log.WithFields(map[string]any{
		"from": acct.Login,
		"to":   next.Login,
		"repo": forkRepo,
	}).Info("rotation complete")

	return &RotationResult{
		Rotated: true,
		From:    acct.Login,
		To:      next.Login,
		Repo:    forkRepo,
	}, nil
}

// nextAccount returns the first account after the given index.
func (o *Orchestrator) nextAccount(after int) (*Account, error) {
	var best *Account
	for i := range o.accounts {
		a := &o.accounts[i]
		if a.Index <= after {
			continue
		}
		if best == nil || a.Index < best.Index {
			best = a
		}
	}
	if best == nil {
		return nil, ErrChainExhausted
	}
	return best, nil
}

// alert sends a notification if an alerter is configured. Failures are
// logged, never propagated; alerting is best effort.
func (o *Orchestrator) alert(ctx context.Context, message string) {
	if o.alerter == nil {
		return
	}
	if err := o.alerter.Send(ctx, message); err != nil {
		o.log.WithError(err).Warn("send alert")
	}
}
