// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Poll.Interval.Std() != 5*time.Second {
		t.Errorf("poll interval = %v, want 5s", c.Poll.Interval.Std())
	}
	if c.API.BaseURL == "" {
		t.Error("expected a default base URL")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Chdir(t.TempDir())

	dir := filepath.Join(home, "localarb")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	file := Default()
	file.API.BaseURL = "https://from-file.example"
	file.Identity.FirebaseAPIKey = "file-key"
	b, _ := json.Marshal(file)
	if err := os.WriteFile(filepath.Join(dir, "config.json"), b, 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv(EnvAPIURL, "https://from-env.example")
	t.Setenv(EnvPollInterval, "250ms")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.API.BaseURL != "https://from-env.example" {
		t.Errorf("base URL = %q, want env value", c.API.BaseURL)
	}
	if c.Identity.FirebaseAPIKey != "file-key" {
		t.Errorf("firebase key = %q, want file value", c.Identity.FirebaseAPIKey)
	}
	if c.Poll.Interval.Std() != 250*time.Millisecond {
		t.Errorf("poll interval = %v, want 250ms", c.Poll.Interval.Std())
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	wd := t.TempDir()
	t.Chdir(wd)
	// Register the variable with t.Setenv so the value godotenv sets is
	// restored after the test.
	t.Setenv(EnvFirebaseAPIKey, "")
	os.Unsetenv(EnvFirebaseAPIKey)

	if err := os.WriteFile(filepath.Join(wd, ".env"), []byte(EnvFirebaseAPIKey+"=dotenv-key\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if c.Identity.FirebaseAPIKey != "dotenv-key" {
		t.Errorf("firebase key = %q, want value from .env", c.Identity.FirebaseAPIKey)
	}
}

func TestDurationUnmarshal(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want time.Duration
		err  bool
	}{
		{name: "string", in: `"5s"`, want: 5 * time.Second},
		{name: "seconds", in: `7`, want: 7 * time.Second},
		{name: "bad string", in: `"soon"`, err: true},
		{name: "bool", in: `true`, err: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.err {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Std() != tt.want {
				t.Errorf("got %v, want %v", d.Std(), tt.want)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	c := Default()
	c.Poll.Interval = 0
	if err := c.Validate(); err == nil {
		t.Error("expected error for zero poll interval")
	}
	c = Default()
	c.API.BaseURL = " "
	if err := c.Validate(); err == nil {
		t.Error("expected error for blank base URL")
	}
}

func TestSaveThenLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Chdir(t.TempDir())

	c := Default()
	c.API.BaseURL = "https://api.example"
	c.Poll.Timeout = Duration(10 * time.Minute)
	if err := Save(c); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	info, err := os.Stat(filepath.Join(home, "localarb", "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("config.json mode = %v, want 0600", info.Mode().Perm())
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.API.BaseURL != "https://api.example" || got.Poll.Timeout.Std() != 10*time.Minute {
		t.Errorf("Load() = %+v", got)
	}
}

func TestUpdateKeepsEnvironmentOutOfFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Chdir(t.TempDir())
	t.Setenv(EnvGoogleClientSecret, "env-only-secret")
	t.Setenv(EnvAPIURL, "https://from-env.example")

	_, err := Update(func(c *Config) error {
		c.Identity.GoogleClientID = "client-id"
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(home, "localarb", "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	for _, leaked := range []string{"env-only-secret", "from-env.example"} {
		if strings.Contains(string(b), leaked) {
			t.Errorf("config.json contains environment value %q:\n%s", leaked, b)
		}
	}
	if !strings.Contains(string(b), "client-id") {
		t.Errorf("config.json lost the update:\n%s", b)
	}

	// The environment still applies on top when loading.
	c, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if c.Identity.GoogleClientSecret != "env-only-secret" || c.Identity.GoogleClientID != "client-id" {
		t.Errorf("Load() identity = %+v", c.Identity)
	}
}

func TestUpdateRejectsInvalidConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Chdir(t.TempDir())

	_, err := Update(func(c *Config) error {
		c.Poll.Interval = 0
		return nil
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if _, statErr := os.Stat(filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "localarb", "config.json")); !errors.Is(statErr, os.ErrNotExist) {
		t.Errorf("invalid config was written: %v", statErr)
	}
}
