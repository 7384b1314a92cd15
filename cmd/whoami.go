// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"localarb/cli/internal/logging"
)

// whoamiCmd shows the signed-in account, asking the backend first and
// falling back to the identity stored with the session.
var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show current authenticated account",
	Long: `The whoami command displays the account you are signed in as. It asks the
backend for your profile and falls back to the email stored with the session
when the backend cannot be reached.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := newSession()
		if err != nil {
			return err
		}
		if !s.restore(ctx) {
			fmt.Println("🔒 You're not logged in yet!")
			fmt.Println("   Run 'localarb login' to get started.")
			return nil
		}

		userData, err := s.api.GetMe(ctx)
		if err != nil {
			logging.L().Debug("whoami: profile unavailable", logging.Args("error", err))
		}
		for _, key := range []string{"email", "user_id", "uid", "id"} {
			if v, ok := userData[key].(string); ok && v != "" {
				fmt.Println(whoAmIPhrase(v))
				return nil
			}
		}
		_, account := s.auth.Status()
		fmt.Println(whoAmIPhrase(account))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func whoAmIPhrase(identifier string) string {
	return fmt.Sprintf("👤 Current user: %s", identifier)
}
