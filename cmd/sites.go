// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"
)

var sitesCmd = &cobra.Command{
	Use:     "sites",
	Aliases: []string{"ls"},
	Short:   "List the sites stored in your CMS",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := newSession()
		if err != nil {
			return err
		}
		if err := s.requireSignIn(ctx); err != nil {
			return err
		}
		_, err = s.app.LoadSites(ctx)
		return reported(err)
	},
}

func init() {
	rootCmd.AddCommand(sitesCmd)
}
