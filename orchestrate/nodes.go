package orchestrate

import (
	"context"
	"fmt"
	"strings"

	forgeseal "github.com/forgeseal/client-go"
	"github.com/forgeseal/client-go/internal/config"
)

// Secret names the workflow reads its roster from.
const (
	secretNodeIDs = "NODE_IDS"
	secretWallets = "WALLETS"
)

// freeTierMaxNodes caps matrix width per dispatch on free-tier runners.
const freeTierMaxNodes = 20

// SetNodeSecrets validates the roster and stores it on the active fork
// as two newline-joined secrets, NODE_IDS and WALLETS. The workflow
// splits them back by line; positions pair a node with its wallet.
func (o *Orchestrator) SetNodeSecrets(ctx context.Context, set *config.NodeSet) error {
	if err := set.Validate(); err != nil {
		return fmt.Errorf("node roster: %w", err)
	}

	secrets := []forgeseal.Secret{
		{Name: secretNodeIDs, Value: []byte(strings.Join(set.NodeIDs, "\n"))},
		{Name: secretWallets, Value: []byte(strings.Join(set.Wallets, "\n"))},
	}
	if err := o.SetSecrets(ctx, secrets); err != nil {
		return err
	}

	o.log.WithFields(map[string]any{
		"nodes": set.Len(),
	}).Info("node roster stored")
	return nil
}

// DispatchBatches splits the roster into batches of at most batchSize
// nodes (freeTierMaxNodes when batchSize <= 0) and triggers one workflow
// run per batch on the active fork, passing the batch's job matrix as
// the "matrix" workflow input. Returns the number of runs dispatched.
func (o *Orchestrator) DispatchBatches(ctx context.Context, set *config.NodeSet, batchSize int) (int, error) {
	if err := set.Validate(); err != nil {
		return 0, fmt.Errorf("node roster: %w", err)
	}
	if batchSize <= 0 {
		batchSize = freeTierMaxNodes
	}

	s, err := o.states.Load()
	if err != nil {
		return 0, err
	}
	acct, node, _, err := o.activeAccount(s)
	if err != nil {
		return 0, err
	}
	repoInfo, err := acct.Client.Repository(ctx, node.Repo)
	if err != nil {
		return 0, err
	}

	batches := set.SplitBatches(batchSize)
	for i, batch := range batches {
		matrix, err := batch.MatrixJSON()
		if err != nil {
			return i, err
		}
		inputs := map[string]string{"matrix": matrix}
		if err := acct.Client.DispatchWorkflowInputs(ctx, node.Repo, o.workflowFile, repoInfo.DefaultBranch, inputs); err != nil {
			return i, fmt.Errorf("dispatch batch %d of %d: %w", i+1, len(batches), err)
		}
	}

	o.log.WithFields(map[string]any{
		"repo":    node.Repo,
		"batches": len(batches),
		"nodes":   set.Len(),
	}).Info("roster dispatched")
	return len(batches), nil
}
