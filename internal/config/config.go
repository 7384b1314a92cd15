// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package config loads and stores CLI configuration in the XDG config dir.
// Only non-secret settings are kept here; secrets go to OS keychain.
//
// Values are resolved in three layers: built-in defaults, the config.json
// file, then environment variables (optionally seeded from a local .env file).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"localarb/cli/internal/xdg"
)

// Environment variable names recognised by Load.
const (
	EnvAPIURL             = "LOCALARB_API_URL"
	EnvFirebaseAPIKey     = "LOCALARB_FIREBASE_API_KEY"
	EnvGoogleClientID     = "LOCALARB_GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret = "LOCALARB_GOOGLE_CLIENT_SECRET"
	EnvPollInterval       = "LOCALARB_POLL_INTERVAL"
	EnvPollTimeout        = "LOCALARB_POLL_TIMEOUT"
	EnvLogLevel           = "LOCALARB_LOG_LEVEL"
	EnvVerbose            = "LOCALARB_VERBOSE"
)

// Config holds non-sensitive CLI settings.
type Config struct {
	LogLevel string         `json:"log_level"`
	API      APIConfig      `json:"api"`
	Identity IdentityConfig `json:"identity"`
	Poll     PollConfig     `json:"poll"`
}

// APIConfig locates the backend.
type APIConfig struct {
	BaseURL string   `json:"base_url"`
	Timeout Duration `json:"timeout"`
}

// IdentityConfig configures the identity provider. The Firebase web API key
// is a public project identifier, not a secret.
type IdentityConfig struct {
	FirebaseAPIKey     string `json:"firebase_api_key"`
	GoogleClientID     string `json:"google_client_id"`
	GoogleClientSecret string `json:"google_client_secret,omitempty"`
}

// PollConfig tunes the deployment status poller.
type PollConfig struct {
	Interval           Duration `json:"interval"`
	Timeout            Duration `json:"timeout"`
	MaxTransportErrors int      `json:"max_transport_errors"`
	MaxBackoff         Duration `json:"max_backoff"`
}

// Duration is a time.Duration that reads and writes as "5s" in JSON.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

// UnmarshalJSON accepts "5s" style strings or integer seconds.
func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		v, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(v)
		return nil
	}
	var secs int64
	if err := json.Unmarshal(b, &secs); err != nil {
		return fmt.Errorf("duration must be a string like \"5s\" or seconds: %w", err)
	}
	*d = Duration(time.Duration(secs) * time.Second)
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		LogLevel: "info",
		API: APIConfig{
			BaseURL: "http://localhost:8000",
			Timeout: Duration(30 * time.Second),
		},
		Poll: PollConfig{
			Interval:           Duration(5 * time.Second),
			Timeout:            Duration(30 * time.Minute),
			MaxTransportErrors: 3,
			MaxBackoff:         Duration(time.Minute),
		},
	}
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults. Environment
// variables (and a .env file in the working directory) override the file.
func Load() (Config, error) {
	c, err := LoadFile()
	if err != nil {
		return c, err
	}

	// .env is optional; a missing file is not an error.
	_ = godotenv.Load()

	if err := applyEnv(&c); err != nil {
		return c, err
	}
	return c, c.Validate()
}

// LoadFile reads only the defaults and config.json, without environment
// overrides. This is the layer Update writes back.
func LoadFile() (Config, error) {
	c := Default()
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return c, err
	default:
		if err := json.Unmarshal(data, &c); err != nil {
			return c, fmt.Errorf("parse %s: %w", p, err)
		}
	}
	return c, nil
}

// Update applies fn to the file layer and saves it. Values that only come
// from the environment or .env are never written.
func Update(fn func(*Config) error) (Config, error) {
	c, err := LoadFile()
	if err != nil {
		return c, err
	}
	if err := fn(&c); err != nil {
		return c, err
	}
	if err := c.Validate(); err != nil {
		return c, err
	}
	return c, Save(c)
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

// Validate rejects settings the client cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.API.BaseURL) == "" {
		return errors.New("api.base_url is required")
	}
	if c.Poll.Interval.Std() <= 0 {
		return errors.New("poll.interval must be positive")
	}
	if c.Poll.MaxTransportErrors < 0 {
		return errors.New("poll.max_transport_errors must not be negative")
	}
	return nil
}

// Verbose reports whether debug output was requested through the environment.
func Verbose() bool {
	v, _ := strconv.ParseBool(os.Getenv(EnvVerbose))
	return v
}

func applyEnv(c *Config) error {
	if v := getEnv(EnvAPIURL); v != "" {
		c.API.BaseURL = v
	}
	if v := getEnv(EnvFirebaseAPIKey); v != "" {
		c.Identity.FirebaseAPIKey = v
	}
	if v := getEnv(EnvGoogleClientID); v != "" {
		c.Identity.GoogleClientID = v
	}
	if v := getEnv(EnvGoogleClientSecret); v != "" {
		c.Identity.GoogleClientSecret = v
	}
	if v := getEnv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := getEnv(EnvPollInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPollInterval, err)
		}
		c.Poll.Interval = Duration(d)
	}
	if v := getEnv(EnvPollTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvPollTimeout, err)
		}
		c.Poll.Timeout = Duration(d)
	}
	return nil
}

func getEnv(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}
