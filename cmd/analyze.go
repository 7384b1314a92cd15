// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"localarb/cli/internal/backend"
	"localarb/cli/internal/terminal"
)

// analyzeCmd scores the opportunity of a niche in a location.
var analyzeCmd = &cobra.Command{
	Use:   "analyze <niche> <location>",
	Short: "Score the market opportunity for a niche in a location",
	Long: `The analyze command asks the backend to score how promising a local service
market is, from 0 to 100, with a short justification. Values the backend could
not determine are shown as N/A.

In an interactive terminal you are offered to generate content for the market
right away.`,
	Args: cobra.ExactArgs(2),

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		niche, location := strings.TrimSpace(args[0]), strings.TrimSpace(args[1])
		s, err := newSession()
		if err != nil {
			return err
		}
		if err := s.requireSignIn(ctx); err != nil {
			return err
		}
		res, err := s.app.Analyze(ctx, niche, location)
		if err != nil {
			return reported(err)
		}
		if !terminal.IsInteractive() {
			return nil
		}
		return offerGenerate(res, confirm, func() error {
			return runGenerate(cmd, s, niche, location)
		})
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

// offerGenerate is the follow-up action of a successful analysis: it asks
// whether to generate content for the same niche and location.
func offerGenerate(res *backend.AnalysisResult, ask func(question string) (bool, error), generate func() error) error {
	if res == nil || res.Error != "" {
		return nil
	}
	ok, err := ask("Generate content for this market now?")
	if err != nil || !ok {
		return err
	}
	return generate()
}

func confirm(question string) (bool, error) {
	return pterm.DefaultInteractiveConfirm.WithDefaultValue(false).Show(question)
}
