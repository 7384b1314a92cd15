// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package xdg resolves XDG Base Directory paths for localarb.
// Config lives under $XDG_CONFIG_HOME/localarb, scratch files for the content
// editor under $XDG_STATE_HOME/localarb. Both directories are private (0700).
package xdg

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under every XDG base directory.
const AppName = "localarb"

// ConfigDir returns the XDG config directory for localarb.
// The directory is created with private permissions (0700) if missing.
// It falls back to ~/.config/localarb when XDG_CONFIG_HOME is unset.
func ConfigDir() (string, error) {
	return ensure("XDG_CONFIG_HOME", ".config")
}

// StateDir returns the XDG state directory for localarb.
// It falls back to ~/.local/state/localarb when XDG_STATE_HOME is unset.
func StateDir() (string, error) {
	return ensure("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

// DraftDir returns the directory holding temporary editor buffers.
func DraftDir() (string, error) {
	base, err := StateDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(base, "drafts")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func ensure(envKey, homeFallback string) (string, error) {
	base := os.Getenv(envKey)
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, homeFallback)
	}
	dir := filepath.Join(base, AppName)
	if err := os.MkdirAll(dir, 0o700); err != nil { // private dir
		return "", err
	}
	return dir, nil
}
