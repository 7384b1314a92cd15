// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"

	"localarb/cli/internal/terminal"
)

// promptForKey is the --set-key value used when the flag is given without
// an argument; the key is then read without echo.
const promptForKey = "\x00prompt"

var setKey string

// settingsCmd shows or updates the user's settings.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or update your settings",
	Long: `The settings command shows your saved settings with the Netlify API key
masked. Use --set-key to store a new key; without a value the key is read from
the terminal without echo. An empty key leaves the stored one unchanged.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := newSession()
		if err != nil {
			return err
		}
		if err := s.requireSignIn(ctx); err != nil {
			return err
		}

		if cmd.Flags().Changed("set-key") {
			key := setKey
			if key == promptForKey {
				if key, err = terminal.ReadPassword("Netlify API key: "); err != nil {
					return err
				}
			}
			if err := s.app.SaveSettings(ctx, key); err != nil {
				return reported(err)
			}
		}
		_, err = s.app.LoadSettings(ctx)
		return reported(err)
	},
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.Flags().StringVar(&setKey, "set-key", "", "Store a new Netlify API key (prompts when no value is given)")
	settingsCmd.Flags().Lookup("set-key").NoOptDefVal = promptForKey
}
