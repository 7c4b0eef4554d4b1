package main

import (
	"github.com/spf13/cobra"
)

func newRotateCmd(configDir *string) *cobra.Command {
	var sourceRepo string
	var workflowFile string

	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Rotate to the next account if the active one is exhausted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, err := buildOrchestrator(*configDir, sourceRepo, workflowFile)
			if err != nil {
				return err
			}

			res, err := o.Rotate(cmd.Context())
			if err != nil {
				return err
			}
			if !res.Rotated {
				log.WithField("login", res.From).Info("no rotation needed")
				return nil
			}
			log.WithFields(map[string]any{
				"from": res.From,
				"to":   res.To,
				"repo": res.Repo,
			}).Info("rotated; deploy and set secrets on the new fork")
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceRepo, "source-repo", "", "upstream repository the chain forks from")
	cmd.Flags().StringVar(&workflowFile, "workflow", "run.yml", "workflow file name driven on each fork")
	cmd.MarkFlagRequired("source-repo")
	return cmd
}
