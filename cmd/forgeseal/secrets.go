package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSecretsCmd() *cobra.Command {
	var repo string

	cmd := &cobra.Command{
		Use:   "secrets",
		Short: "Manage a repository's Actions secrets",
	}
	cmd.PersistentFlags().StringVar(&repo, "repo", "", "target repository as owner/name")
	cmd.MarkPersistentFlagRequired("repo")

	setCmd := &cobra.Command{
		Use:   "set NAME VALUE",
		Short: "Seal a value and store it as a repository secret",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := singleClient()
			if err != nil {
				return err
			}
			if err := client.SetSecret(cmd.Context(), repo, args[0], []byte(args[1])); err != nil {
				return err
			}
			log.WithField("secret", args[0]).Info("secret stored")
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the repository's secrets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := singleClient()
			if err != nil {
				return err
			}
			infos, err := client.ListSecrets(cmd.Context(), repo)
			if err != nil {
				return err
			}
			for _, info := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t(updated %s)\n", info.Name, info.UpdatedAt.Format("2006-01-02"))
			}
			return nil
		},
	}

	deleteCmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a repository secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := singleClient()
			if err != nil {
				return err
			}
			if err := client.DeleteSecret(cmd.Context(), repo, args[0]); err != nil {
				return err
			}
			log.WithField("secret", args[0]).Info("secret deleted")
			return nil
		},
	}

	cmd.AddCommand(setCmd, listCmd, deleteCmd)
	return cmd
}
