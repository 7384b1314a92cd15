// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// logoutCmd signs out and removes the stored session.
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove saved credentials",
	Long: `The logout command drops the current session and removes the ID token,
refresh token and session state from the OS keychain. Commands that talk to
the backend will ask you to sign in again afterwards.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := newSession()
		if err != nil {
			return err
		}
		s.restore(cmd.Context())
		if err := s.auth.SignOut(cmd.Context()); err != nil {
			return err
		}
		fmt.Println("✅ All credentials and tokens have been removed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
