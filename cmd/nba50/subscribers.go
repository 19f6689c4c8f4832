package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"nba-alert-service/internal/config"
	"nba-alert-service/internal/subscribers"
)

func subscribersCmd(cfg config.Config, logger *slog.Logger) *cobra.Command {
	_ = logger

	cmd := &cobra.Command{
		Use:   "subscribers",
		Short: "Manage the local subscriber roster",
	}

	store := subscribers.NewStore(cfg.Storage.SubscribersPath)

	cmd.AddCommand(&cobra.Command{
		Use:   "add <email>",
		Short: "Add a subscriber",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := store.Add(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added %s\nunsubscribe token: %s\n", entry.Email, entry.UnsubscribeToken)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove <email>",
		Short: "Remove a subscriber by email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := store.Remove(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "remove-token <token>",
		Short: "Remove a subscriber by unsubscribe token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := store.RemoveByToken(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", email)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List subscribers",
		RunE: func(cmd *cobra.Command, args []string) error {
			roster, err := store.List()
			if err != nil {
				return err
			}
			if len(roster) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no subscribers yet")
				return nil
			}
			for i, sub := range roster {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s (since %s, token %s)\n",
					i+1, sub.Email, sub.SubscribedDate, sub.UnsubscribeToken)
			}
			return nil
		},
	})

	return cmd
}
