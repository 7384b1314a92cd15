// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"localarb/cli/internal/manifest"
)

// New creates a backend API implementation with manifest endpoints.
// Requests carry the bearer token from tokens.
func New(m *manifest.Manifest, tokens TokenSource, opts ...Option) API {
	return newHTTP(m.HTTPBaseURL(), m.HTTP, tokens, opts...)
}
