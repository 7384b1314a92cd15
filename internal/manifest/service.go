// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package manifest

import (
	"fmt"

	"localarb/cli/internal/config"
)

// FromConfig returns the manifest for cfg, using the RAM cache if available.
// This function is the main entry point for retrieving backend configuration.
func FromConfig(cfg config.Config) (*Manifest, error) {
	if cached := GetCached(); cached != nil {
		return cached, nil
	}
	if cfg.API.BaseURL == "" {
		return nil, fmt.Errorf("backend URL not configured; set %s", config.EnvAPIURL)
	}
	m := &Manifest{BaseURL: cfg.API.BaseURL, HTTP: DefaultHTTPEndpoints()}
	SetCached(m)
	return m, nil
}
