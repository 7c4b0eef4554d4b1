package orchestrate

import (
	"context"
	"errors"
	"fmt"

	"github.com/forgeseal/client-go/internal/state"
)

// ErrAlreadyBootstrapped is returned by Bootstrap when a fork chain
// already exists.
var ErrAlreadyBootstrapped = errors.New("fork chain already initialized")

// Bootstrap seeds the fork chain: the first account forks the source
// repository, and the fork becomes the chain's active node. The source
// itself is recorded as the chain root so later rotations can trace
// lineage.
func (o *Orchestrator) Bootstrap(ctx context.Context) (string, error) {
	s, err := o.states.Load()
	if err != nil {
		return "", err
	}
	if len(s.ForkChain) > 0 {
		return "", ErrAlreadyBootstrapped
	}

	first := o.accounts[0]

	forkRepo, err := first.Client.CreateFork(ctx, o.sourceRepo)
	if err != nil {
		return "", fmt.Errorf("fork %s as %s: %w", o.sourceRepo, first.Login, err)
	}
	if err := first.Client.WaitForFork(ctx, forkRepo); err != nil {
		return "", err
	}

	if err := o.states.AddFork(s, state.ForkNode{
		AccountIndex: -1,
		Repo:         o.sourceRepo,
		Status:       state.StatusSource,
	}); err != nil {
		return "", err
	}
	if err := o.states.AddFork(s, state.ForkNode{
		AccountIndex: first.Index,
		Login:        first.Login,
		Repo:         forkRepo,
		Parent:       o.sourceRepo,
		Status:       state.StatusActive,
	}); err != nil {
		return "", err
	}

	o.log.WithFields(map[string]any{
		"login": first.Login,
		"repo":  forkRepo,
	}).Info("fork chain initialized")
	return forkRepo, nil
}
