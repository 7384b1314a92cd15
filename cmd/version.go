// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"localarb/cli/internal/backend"
)

var (
	// Version holds the CLI version information.
	// This value is typically set at build time using -ldflags.
	Version = "0.0.0-dev"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show CLI version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("localarb %s\n", Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	backend.UserAgent = "localarb-cli/" + Version
}
