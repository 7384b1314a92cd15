// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"github.com/spf13/cobra"
)

var editDeploy bool

// editCmd opens a stored site in the page editor.
var editCmd = &cobra.Command{
	Use:   "edit <site-id>",
	Short: "Edit a stored site and push the changes",
	Long: `The edit command loads a site from the CMS by its id (see 'localarb sites')
and opens it in the page editor. Pushing the edited pages starts a deployment
that is followed until it finishes.`,
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
		ed, err := s.app.OpenSite(ctx, args[0])
		if err != nil {
			return reported(err)
		}
		return editSession(ctx, s, ed, editDeploy)
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
	editCmd.Flags().BoolVar(&editDeploy, "deploy", false, "Push the site without editing")
}
