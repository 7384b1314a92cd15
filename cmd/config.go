// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"localarb/cli/internal/config"
)

var (
	cfgAPIURL         string
	cfgFirebaseKey    string
	cfgGoogleClientID string
	cfgPollInterval   string
	cfgPollTimeout    string
)

// configCmd shows the effective configuration or writes new values to
// config.json.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the CLI configuration",
	Long: `The config command prints the effective configuration: built-in defaults,
overridden by config.json, overridden by LOCALARB_* environment variables.

Any flag given updates config.json with that value. Values that come only
from the environment or a .env file are not written.
Secrets are never stored here; the session lives in the OS keychain.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		steps := []struct {
			flag  string
			apply func(*config.Config) error
		}{
			{"api-url", func(c *config.Config) error { c.API.BaseURL = cfgAPIURL; return nil }},
			{"firebase-api-key", func(c *config.Config) error { c.Identity.FirebaseAPIKey = cfgFirebaseKey; return nil }},
			{"google-client-id", func(c *config.Config) error { c.Identity.GoogleClientID = cfgGoogleClientID; return nil }},
			{"poll-interval", func(c *config.Config) error { return parseDuration(cfgPollInterval, &c.Poll.Interval) }},
			{"poll-timeout", func(c *config.Config) error { return parseDuration(cfgPollTimeout, &c.Poll.Timeout) }},
		}
		changed := false
		for _, st := range steps {
			changed = changed || cmd.Flags().Changed(st.flag)
		}
		if changed {
			// Only the file layer is rewritten; environment overrides stay out of it.
			_, err := config.Update(func(c *config.Config) error {
				for _, st := range steps {
					if !cmd.Flags().Changed(st.flag) {
						continue
					}
					if err := st.apply(c); err != nil {
						return fmt.Errorf("--%s: %w", st.flag, err)
					}
				}
				return nil
			})
			if err != nil {
				return err
			}
			pterm.Success.Println("Configuration saved")
		}

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		return pterm.DefaultTable.WithData(pterm.TableData{
			{"api.base_url", cfg.API.BaseURL},
			{"api.timeout", cfg.API.Timeout.Std().String()},
			{"identity.firebase_api_key", orUnset(cfg.Identity.FirebaseAPIKey)},
			{"identity.google_client_id", orUnset(cfg.Identity.GoogleClientID)},
			{"poll.interval", cfg.Poll.Interval.Std().String()},
			{"poll.timeout", cfg.Poll.Timeout.Std().String()},
			{"poll.max_transport_errors", fmt.Sprint(cfg.Poll.MaxTransportErrors)},
			{"log_level", cfg.LogLevel},
		}).Render()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	f := configCmd.Flags()
	f.StringVar(&cfgAPIURL, "api-url", "", "Backend base URL")
	f.StringVar(&cfgFirebaseKey, "firebase-api-key", "", "Firebase web API key")
	f.StringVar(&cfgGoogleClientID, "google-client-id", "", "OAuth client id for Google sign-in")
	f.StringVar(&cfgPollInterval, "poll-interval", "", "Delay between deployment status checks (e.g. 5s)")
	f.StringVar(&cfgPollTimeout, "poll-timeout", "", "Give up following a deployment after this long (e.g. 30m)")
}

func parseDuration(s string, dst *config.Duration) error {
	var d config.Duration
	if err := d.UnmarshalJSON([]byte(fmt.Sprintf("%q", s))); err != nil {
		return err
	}
	*dst = d
	return nil
}

func orUnset(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}
