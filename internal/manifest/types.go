// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package manifest describes where the backend lives and which REST paths it
// exposes. Paths default to the v1 API and can be overridden per deployment.
package manifest

import (
	"net/url"
	"strings"
)

// Manifest represents the backend endpoint configuration.
type Manifest struct {
	BaseURL string        `json:"base_url"`
	HTTP    HTTPEndpoints `json:"http"`
}

// HTTPEndpoints contains REST API endpoint paths. Paths ending in a slash
// take a trailing identifier (see Join).
type HTTPEndpoints struct {
	Settings         string `json:"user_settings"`     // e.g., "/api/v1/user/settings"
	Sites            string `json:"sites"`             // e.g., "/api/v1/sites"
	Analyze          string `json:"analyze"`           // e.g., "/api/v1/analyze"
	GenerateContent  string `json:"generate_content"`  // e.g., "/api/v1/generate-content"
	AssembleDeploy   string `json:"assemble_deploy"`   // e.g., "/api/v1/assemble-and-deploy"
	DeploymentStatus string `json:"deployment_status"` // e.g., "/api/v1/deployment-status"
	Me               string `json:"me"`                // e.g., "/api/v1/me"
}

// DefaultHTTPEndpoints returns the v1 REST paths.
func DefaultHTTPEndpoints() HTTPEndpoints {
	return HTTPEndpoints{
		Settings:         "/api/v1/user/settings",
		Sites:            "/api/v1/sites",
		Analyze:          "/api/v1/analyze",
		GenerateContent:  "/api/v1/generate-content",
		AssembleDeploy:   "/api/v1/assemble-and-deploy",
		DeploymentStatus: "/api/v1/deployment-status",
		Me:               "/api/v1/me",
	}
}

// HTTPBaseURL returns the scheme and host of the backend without a trailing slash.
func (m *Manifest) HTTPBaseURL() string {
	u, err := url.Parse(strings.TrimSpace(m.BaseURL))
	if err != nil || u.Host == "" {
		return strings.TrimRight(m.BaseURL, "/")
	}
	base := u.Scheme + "://" + u.Host + strings.TrimRight(u.Path, "/")
	return strings.TrimRight(base, "/")
}

// Join appends an escaped identifier to an endpoint path,
// e.g. Join("/api/v1/sites", "abc") = "/api/v1/sites/abc".
// Dot segments in id are kept literally, never resolved.
func Join(endpoint, id string) string {
	return strings.TrimRight(endpoint, "/") + "/" + url.PathEscape(id)
}
