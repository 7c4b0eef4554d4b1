// Package state persists the fork-chain bookkeeping of the orchestration
// layer as a JSON file, written atomically so a crash never corrupts it.
package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ForkStatus is a fork-chain node's lifecycle phase.
type ForkStatus string

const (
	// StatusSource marks the upstream repository the chain forks from.
	StatusSource ForkStatus = "source"
	// StatusActive marks the node whose account currently runs workflows.
	StatusActive ForkStatus = "active"
	// StatusExhausted marks a node whose account ran out of included minutes.
	StatusExhausted ForkStatus = "exhausted"
	// StatusDisabled marks a node taken out of rotation by the operator.
	StatusDisabled ForkStatus = "disabled"
)

// ForkNode is one account's position in the fork chain.
type ForkNode struct {
	AccountIndex int        `json:"account_index"`
	Login        string     `json:"login"`
	Repo         string     `json:"repo"`
	Parent       string     `json:"parent,omitempty"`
	BillingUsed  float64    `json:"billing_used"`
	Status       ForkStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// State is the serialized orchestrator state.
type State struct {
	ForkChain     []ForkNode `json:"fork_chain"`
	TotalAccounts int        `json:"total_accounts"`
	LastRotation  time.Time  `json:"last_rotation,omitzero"`
}

// ErrNoActiveFork is returned when the chain has no node in the active
// state, meaning every account has been exhausted or disabled.
var ErrNoActiveFork = errors.New("no active fork in chain")

// Manager loads and saves the state file.
type Manager struct {
	path string
}

// NewManager creates a manager for dir, creating dir if needed.
func NewManager(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Manager{path: filepath.Join(dir, "active.json")}, nil
}

// Load reads the current state, returning an empty state when no file
// exists yet.
func (m *Manager) Load() (*State, error) {
	content, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		return &State{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	var s State
	if err := json.Unmarshal(content, &s); err != nil {
		return nil, fmt.Errorf("parse state: %w", err)
	}
	return &s, nil
}

// Save writes the state via a temp file and rename.
func (m *Manager) Save(s *State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, m.path); err != nil {
		return fmt.Errorf("rename state: %w", err)
	}
	return nil
}

// AddFork appends a node to the chain, stamps it, and persists.
func (m *Manager) AddFork(s *State, node ForkNode) error {
	now := time.Now().UTC()
	node.CreatedAt = now
	node.UpdatedAt = now
	s.ForkChain = append(s.ForkChain, node)
	s.LastRotation = now
	return m.Save(s)
}

// UpdateStatus sets a chain node's status by index and persists.
func (m *Manager) UpdateStatus(s *State, index int, status ForkStatus) error {
	if index < 0 || index >= len(s.ForkChain) {
		return fmt.Errorf("fork index %d out of range", index)
	}
	s.ForkChain[index].Status = status
	s.ForkChain[index].UpdatedAt = time.Now().UTC()
	return m.Save(s)
}

// RecordBilling updates a chain node's observed billing usage and persists.
func (m *Manager) RecordBilling(s *State, index int, minutesUsed float64) error {
	if index < 0 || index >= len(s.ForkChain) {
		return fmt.Errorf("fork index %d out of range", index)
	}
	s.ForkChain[index].BillingUsed = minutesUsed
	s.ForkChain[index].UpdatedAt = time.Now().UTC()
	return m.Save(s)
}

// ActiveFork returns the chain's active node and its index, or
// ErrNoActiveFork.
func (s *State) ActiveFork() (*ForkNode, int, error) {
	for i := range s.ForkChain {
		if s.ForkChain[i].Status == StatusActive {
			return &s.ForkChain[i], i, nil
		}
	}
	return nil, 0, ErrNoActiveFork
}

// NextParentRepo returns the repository the next fork should be created
// from: the most recent chain node's repo, so forks chain tip-to-tip
// rather than all pointing at the source.
func (s *State) NextParentRepo() (string, bool) {
	if len(s.ForkChain) == 0 {
		return "", false
	}
	return s.ForkChain[len(s.ForkChain)-1].Repo, true
}
