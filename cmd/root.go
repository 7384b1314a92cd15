// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package cmd provides the command-line interface for the Localarb CLI.
// It implements subcommands for signing in, market analysis, content
// generation, editing and deployment using the Cobra CLI framework.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	apperr "localarb/cli/internal/errors"
	"localarb/cli/internal/httperrors"
	"localarb/cli/internal/logging"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "localarb",
	Short: "Find local market opportunities and publish sites for them",
	Long: `Localarb analyzes local service markets (a niche in a location), generates
website content for promising ones, lets you edit it page by page and pushes
the result to the CMS, following the deployment until it finishes.

Run 'localarb login' first, then 'localarb dashboard' for the interactive menu.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// reportedError marks an error that was already shown to the user.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return &reportedError{err: err}
}

// Execute runs the CLI application and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err == nil {
		return
	}
	var shown *reportedError
	switch {
	case apperr.Is(err, apperr.Transport):
		_ = httperrors.FormatNetworkError(err, "contacting the backend", apiHost)
	case errors.As(err, &shown):
	default:
		fmt.Fprintln(os.Stderr, logging.PresentError("", err))
	}
	logging.L().Debug("command failed", logging.Args("error", err))
	os.Exit(1)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs")
}
