// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package main is the entry point for the Localarb CLI application.
package main

import (
	"localarb/cli/cmd"
)

func main() {
	cmd.Execute()
}
