package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/forgeseal/client-go/internal/config"
)

func newNodesCmd(configDir *string) *cobra.Command {
	var sourceRepo string
	var workflowFile string
	var dispatch bool
	var batchSize int

	cmd := &cobra.Command{
		Use:   "nodes",
		Short: "Push the node roster to the active fork as secrets",
		Long: `nodes reads nodes.txt and wallets.txt from the config directory,
validates the roster, and stores it on the active fork as the
NODE_IDS and WALLETS secrets. With --dispatch it also triggers one
workflow run per batch of nodes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := config.LoadNodeSet(
				filepath.Join(*configDir, "nodes.txt"),
				filepath.Join(*configDir, "wallets.txt"),
			)
			if err != nil {
				return err
			}

			o, _, err := buildOrchestrator(*configDir, sourceRepo, workflowFile)
			if err != nil {
				return err
			}

			if err := o.SetNodeSecrets(cmd.Context(), set); err != nil {
				return err
			}
			log.WithField("nodes", set.Len()).Info("roster secrets set")

			if !dispatch {
				return nil
			}
			runs, err := o.DispatchBatches(cmd.Context(), set, batchSize)
			if err != nil {
				return err
			}
			log.WithField("runs", runs).Info("workflow runs dispatched")
			return nil
		},
	}

	cmd.Flags().StringVar(&sourceRepo, "source-repo", "", "upstream repository the chain forks from")
	cmd.Flags().StringVar(&workflowFile, "workflow", "run.yml", "workflow file name driven on each fork")
	cmd.Flags().BoolVar(&dispatch, "dispatch", false, "dispatch one workflow run per node batch")
	cmd.Flags().IntVar(&batchSize, "batch-size", 20, "maximum nodes per dispatched run")
	cmd.MarkFlagRequired("source-repo")
	return cmd
}
