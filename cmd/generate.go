// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"localarb/cli/internal/dashboard"
	"localarb/cli/internal/terminal"
	"localarb/cli/internal/view"
)

var (
	businessName string
	deployNow    bool
)

// generateCmd drafts site content for a market and opens it for editing.
var generateCmd = &cobra.Command{
	Use:   "generate <niche> <location>",
	Short: "Generate site content for a market and edit it before pushing",
	Long: `The generate command drafts website content for a business in the given
niche and location. You are asked for the business name (default "Apex
<niche>") unless --name is set.

The draft then opens in the page editor, where you can switch between pages,
edit each one in $EDITOR, and finally push the result to the CMS. With --deploy
the draft is pushed unchanged.`,
	Args: cobra.ExactArgs(2),

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		s, err := newSession()
		if err != nil {
			return err
		}
		if err := s.requireSignIn(ctx); err != nil {
			return err
		}
		return runGenerate(cmd, s, strings.TrimSpace(args[0]), strings.TrimSpace(args[1]))
	},
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().StringVar(&businessName, "name", "", "Business name for the site")
	generateCmd.Flags().BoolVar(&deployNow, "deploy", false, "Push the generated draft without editing")
}

// runGenerate asks for the business name when needed, generates the draft
// and hands it to the editor session.
func runGenerate(cmd *cobra.Command, s *session, niche, location string) error {
	name := strings.TrimSpace(businessName)
	if name == "" {
		name = view.DefaultBusinessName(niche)
		if terminal.IsInteractive() {
			answer, err := pterm.DefaultInteractiveTextInput.
				WithDefaultValue(name).
				Show("Business name")
			if err != nil {
				return err
			}
			name = answer
		}
	}
	return generateNamed(cmd.Context(), s, name, niche, location, deployNow)
}

// generateNamed generates the draft and opens the editor. A blank name
// means the user declined, which is not a failure.
func generateNamed(ctx context.Context, s *session, name, niche, location string, deploy bool) error {
	ed, err := s.app.Generate(ctx, name, niche, location)
	if errors.Is(err, dashboard.ErrBlankName) {
		return nil
	}
	if err != nil {
		return reported(err)
	}
	return editSession(ctx, s, ed, deploy)
}
