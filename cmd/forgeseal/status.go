package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/forgeseal/client-go/internal/state"
)

func newStatusCmd(configDir *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the persisted fork chain",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			states, err := state.NewManager(filepath.Join(*configDir, "cache"))
			if err != nil {
				return err
			}
			s, err := states.Load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(s.ForkChain) == 0 {
				fmt.Fprintln(out, "no fork chain yet")
				return nil
			}

			for i, node := range s.ForkChain {
				fmt.Fprintf(out, "[%2d] %-10s @%-20s %s", i, node.Status, node.Login, node.Repo)
				if node.Parent != "" {
					fmt.Fprintf(out, " (from %s)", node.Parent)
				}
				fmt.Fprintf(out, " billing=%.1f\n", node.BillingUsed)
			}
			if !s.LastRotation.IsZero() {
				fmt.Fprintf(out, "last rotation: %s\n", s.LastRotation.Format("2006-01-02 15:04:05 MST"))
			}
			return nil
		},
	}
	return cmd
}
