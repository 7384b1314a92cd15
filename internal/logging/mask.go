// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package logging provides structured logging and secret masking for the CLI.
//
// Bearer credentials, refresh tokens and the user's Netlify API key pass
// through this client; anything printed or logged goes through Mask first.
package logging

import (
	"regexp"
	"strings"
)

var (
	rePassword = regexp.MustCompile(`(?i)(password=)([^\s;&]+)`)
	reToken    = regexp.MustCompile(`(?i)(token=|bearer\s+)([A-Za-z0-9._-]+)`)
	reAPIKey   = regexp.MustCompile(`(?i)(apikey=|api_key=|key=)([^\s;&]+)`)
	reJSONKey  = regexp.MustCompile(`(?i)("(?:netlify_api_key|idToken|refreshToken|id_token|refresh_token|password)"\s*:\s*")([^"]*)(")`)
)

// Mask replaces sensitive values in the input string with "***".
func Mask(s string) string {
	out := s
	out = rePassword.ReplaceAllString(out, "$1***")
	out = reToken.ReplaceAllString(out, "$1***")
	out = reAPIKey.ReplaceAllString(out, "$1***")
	out = reJSONKey.ReplaceAllString(out, "$1***$3")
	for _, k := range []string{"LOCALARB_GOOGLE_CLIENT_SECRET", "NETLIFY_API_KEY"} {
		out = strings.ReplaceAll(out, k+"=", k+"=***")
	}
	return out
}

// MaskKey shows only the last four characters of a stored key, e.g. "****abcd".
func MaskKey(key string) string {
	key = strings.TrimSpace(key)
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", 4) + key[len(key)-4:]
}
