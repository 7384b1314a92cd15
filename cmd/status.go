// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"
)

var statusLabel string

// statusCmd follows an existing deployment task.
var statusCmd = &cobra.Command{
	Use:   "status <task-id>",
	Short: "Follow a deployment task until it finishes",
	Long: `The status command checks a deployment task at the configured poll interval
until it completes, fails, or the backend rejects the check. Use it to pick up
a task whose progress you stopped following.`,
	Args: cobra.ExactArgs(1),

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := newSession()
		if err != nil {
			return err
		}
		if err := s.requireSignIn(ctx); err != nil {
			return err
		}
		label := statusLabel
		if label == "" {
			label = args[0]
		}
		_, err = s.app.Follow(ctx, label, args[0])
		return reported(err)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
	statusCmd.Flags().StringVar(&statusLabel, "name", "", "Business name to show in messages")
}
