package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// NodeSet is a roster of compute nodes and their payout wallets, paired
// by position. The two rosters must be the same length.
type NodeSet struct {
	NodeIDs []string `json:"node_ids"`
	Wallets []string `json:"wallets"`
}

// matrixItem is one entry in the workflow job matrix.
type matrixItem struct {
	Index  int    `json:"index"`
	NodeID string `json:"node_id"`
	Wallet string `json:"wallet"`
}

// LoadNodeSet reads the node id and wallet roster files, one entry per
// line, blank lines skipped.
func LoadNodeSet(nodesPath, walletsPath string) (*NodeSet, error) {
	nodeIDs, err := readLines(nodesPath)
	if err != nil {
		return nil, fmt.Errorf("read nodes file: %w", err)
	}
	wallets, err := readLines(walletsPath)
	if err != nil {
		return nil, fmt.Errorf("read wallets file: %w", err)
	}

	if len(nodeIDs) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoNodes, nodesPath)
	}
	if len(nodeIDs) != len(wallets) {
		return nil, fmt.Errorf("%w: %d node ids vs %d wallets", ErrRosterMismatch, len(nodeIDs), len(wallets))
	}

	return &NodeSet{NodeIDs: nodeIDs, Wallets: wallets}, nil
}

// Validate checks every roster entry: node ids must be non-trivial and
// wallets must be 0x-prefixed 40-digit hex addresses.
func (s *NodeSet) Validate() error {
	for i, id := range s.NodeIDs {
		if len(id) < 5 {
			return fmt.Errorf("%w at index %d: %q", ErrInvalidNodeID, i, id)
		}
	}
	for i, wallet := range s.Wallets {
		if err := validateWallet(wallet); err != nil {
			return fmt.Errorf("%w at index %d: %s", ErrInvalidWallet, i, wallet)
		}
	}
	return nil
}

func validateWallet(wallet string) error {
	hexPart, ok := strings.CutPrefix(wallet, "0x")
	if !ok || len(hexPart) != 40 {
		return ErrInvalidWallet
	}
	for _, c := range hexPart {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'a' && c <= 'f':
		case c >= 'A' && c <= 'F':
		default:
			return ErrInvalidWallet
		}
	}
	return nil
}

// Len returns the number of nodes in the roster.
func (s *NodeSet) Len() int {
	return len(s.NodeIDs)
}

// MatrixJSON renders the roster as a workflow job matrix, the
// {"include": [...]} form workflow_dispatch inputs accept. Indexes are
// 1-based for operator-facing run names.
func (s *NodeSet) MatrixJSON() (string, error) {
	items := make([]matrixItem, 0, len(s.NodeIDs))
	for i, id := range s.NodeIDs {
		items = append(items, matrixItem{
			Index:  i + 1,
			NodeID: id,
			Wallet: s.Wallets[i],
		})
	}

	data, err := json.Marshal(map[string][]matrixItem{"include": items})
	if err != nil {
		return "", fmt.Errorf("encode matrix: %w", err)
	}
	return string(data), nil
}

// SplitBatches splits the roster into consecutive batches of at most max
// nodes each, preserving the node/wallet pairing. Free-tier runners cap
// matrix width, so large rosters run as several dispatches.
func (s *NodeSet) SplitBatches(max int) []*NodeSet {
	if max <= 0 || s.Len() == 0 {
		return nil
	}

	var batches []*NodeSet
	for start := 0; start < s.Len(); start += max {
		end := start + max
		if end > s.Len() {
			end = s.Len()
		}
		batches = append(batches, &NodeSet{
			NodeIDs: s.NodeIDs[start:end],
			Wallets: s.Wallets[start:end],
		})
	}
	return batches
}

// readLines reads a file into trimmed non-empty lines.
func readLines(path string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines, nil
}
