package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd(configDir *string) *cobra.Command {
	var sourceRepo string
	var workflowFile string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Report billing health for every account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, _, err := buildOrchestrator(*configDir, sourceRepo, workflowFile)
			if err != nil {
				return err
			}

			report, err := o.Health(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, a := range report.Accounts {
				if a.Err != nil {
					fmt.Fprintf(out, "%-20s %-10s %v\n", a.Login, a.Status, a.Err)
					continue
				}
				fmt.Fprintf(out, "%-20s %-10s used=%.1f remaining=%.1f\n", a.Login, a.Status, a.MinutesUsed, a.MinutesRemaining)
			}
			fmt.Fprintf(out, "ok=%d warning=%d exhausted=%d error=%d\n", report.OK, report.Warnings, report.Exhausted, report.Errors)
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceRepo, "source-repo", "", "upstream repository the chain forks from")
	cmd.Flags().StringVar(&workflowFile, "workflow", "run.yml", "workflow file name driven on each fork")
	cmd.MarkFlagRequired("source-repo")
	return cmd
}
