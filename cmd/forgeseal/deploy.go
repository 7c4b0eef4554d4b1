package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newDeployCmd(configDir *string) *cobra.Command {
	var sourceRepo string
	var workflowPath string
	var message string

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the workflow file to the active fork",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := os.ReadFile(workflowPath)
			if err != nil {
				return fmt.Errorf("read workflow file: %w", err)
			}

			o, _, err := buildOrchestrator(*configDir, sourceRepo, filepath.Base(workflowPath))
			if err != nil {
				return err
			}
			return o.Deploy(cmd.Context(), content, message)
		},
	}

	cmd.Flags().StringVar(&sourceRepo, "source-repo", "", "upstream repository the chain forks from")
	cmd.Flags().StringVar(&workflowPath, "file", "", "workflow file to deploy")
	cmd.Flags().StringVar(&message, "message", "update workflow", "commit message")
	cmd.MarkFlagRequired("source-repo")
	cmd.MarkFlagRequired("file")
	return cmd
}
