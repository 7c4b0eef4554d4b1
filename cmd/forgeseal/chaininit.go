package main

import (
	"github.com/spf13/cobra"
)

func newInitCmd(configDir *string) *cobra.Command {
	var sourceRepo string
	var workflowFile string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the fork chain from the source repository",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, err := buildOrchestrator(*configDir, sourceRepo, workflowFile)
			if err != nil {
				return err
			}

			repo, err := o.Bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			log.WithField("repo", repo).Info("chain initialized; deploy the workflow next")
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceRepo, "source-repo", "", "upstream repository to fork")
	cmd.Flags().StringVar(&workflowFile, "workflow", "run.yml", "workflow file name driven on each fork")
	cmd.MarkFlagRequired("source-repo")
	return cmd
}
