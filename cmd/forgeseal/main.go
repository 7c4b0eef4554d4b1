package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	forgeseal "github.com/forgeseal/client-go"
	"github.com/forgeseal/client-go/internal/config"
)

var log = logrus.New()

func main() {
	var configDir string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:   "forgeseal",
		Short: "forgeseal - encrypted Actions secrets and fork-chain orchestration",
		Long: `forgeseal seals secrets for GitHub-compatible forges with anonymous
public-key encryption and drives a chain of forked repositories:
deploying workflows, rotating accounts on billing exhaustion, and
reporting account health.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if verbose {
				log.SetLevel(logrus.DebugLevel)
			}
			if err := config.LoadEnv(".env"); err != nil {
				return fmt.Errorf("load .env: %w", err)
			}
			// Nothing can be sealed without a working crypto subsystem.
			if err := forgeseal.Init(); err != nil {
				return fmt.Errorf("crypto subsystem unavailable: %w", err)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "config", "directory holding tokens.txt, proxies.txt, nodes.txt, wallets.txt, cache/")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(newSecretsCmd())
	rootCmd.AddCommand(newInitCmd(&configDir))
	rootCmd.AddCommand(newDeployCmd(&configDir))
	rootCmd.AddCommand(newNodesCmd(&configDir))
	rootCmd.AddCommand(newRotateCmd(&configDir))
	rootCmd.AddCommand(newHealthCmd(&configDir))
	rootCmd.AddCommand(newStatusCmd(&configDir))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
