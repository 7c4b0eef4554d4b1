package orchestrate

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	forgeseal "github.com/forgeseal/client-go"
	"github.com/forgeseal/client-go/internal/state"
)

// Account is one rotation slot: a verified client and its position in
// the account list. Index order is rotation order.
type Account struct {
	Index  int
	Login  string
	Client *forgeseal.Client
}

// Config assembles an Orchestrator.
type Config struct {
	// Accounts in rotation order. At least one is required.
	Accounts []Account
	// SourceRepo is the upstream "owner/name" the first fork chains from.
	SourceRepo string
	// WorkflowFile is the workflow file name driven on each fork,
	// e.g. "run.yml".
	WorkflowFile string
	// States persists the fork chain.
	States *state.Manager
	// Alerter receives rotation and health notifications. Optional.
	Alerter *Alerter
	// Log defaults to the standard logger.
	Log logrus.FieldLogger
}

// Orchestrator coordinates deploys, secret updates, and rotation across
// the fork chain.
type Orchestrator struct {
	accounts     []Account
	sourceRepo   string
	workflowFile string
	states       *state.Manager
	alerter      *Alerter
	log          logrus.FieldLogger
}

// New validates cfg and builds an Orchestrator.
func New(cfg Config) (*Orchestrator, error) {
	if len(cfg.Accounts) == 0 {
		return nil, errors.New("at least one account is required")
	}
	if cfg.SourceRepo == "" {
		return nil, errors.New("source repo is required")
	}
	if cfg.WorkflowFile == "" {
		return nil, errors.New("workflow file is required")
	}
	if cfg.States == nil {
		return nil, errors.New("state manager is required")
	}

	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Orchestrator{
		accounts:     cfg.Accounts,
		sourceRepo:   cfg.SourceRepo,
		workflowFile: cfg.WorkflowFile,
		states:       cfg.States,
		alerter:      cfg.Alerter,
		log:          log,
	}, nil
}

// account returns the rotation slot at index.
func (o *Orchestrator) account(index int) (*Account, error) {
	for i := range o.accounts {
		if o.accounts[i].Index == index {
			return &o.accounts[i], nil
		}
	}
	return nil, fmt.Errorf("no account at index %d", index)
}

// activeAccount resolves the chain's active fork to its account.
func (o *Orchestrator) activeAccount(s *state.State) (*Account, *state.ForkNode, int, error) {
	node, idx, err := s.ActiveFork()
	if err != nil {
		return nil, nil, 0, err
	}
	acct, err := o.account(node.AccountIndex)
	if err != nil {
		return nil, nil, 0, err
	}
	return acct, node, idx, nil
}
