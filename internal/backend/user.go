// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"
)

// GetMe calls GET /api/v1/me and returns the backend's user_data, or the
// whole body when it has no such field.
func (h *HTTP) GetMe(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := h.do(ctx, http.MethodGet, h.endpoints.Me, nil, &out); err != nil {
		return nil, err
	}
	if ud, ok := out["user_data"].(map[string]any); ok {
		return ud, nil
	}
	return out, nil
}

// GetSettings calls GET /api/v1/user/settings. A user without stored
// settings gets the zero value.
func (h *HTTP) GetSettings(ctx context.Context) (*Settings, error) {
	var s Settings
	if err := h.do(ctx, http.MethodGet, h.endpoints.Settings, nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SaveSettings calls POST /api/v1/user/settings with { netlify_api_key }.
func (h *HTTP) SaveSettings(ctx context.Context, netlifyAPIKey string) error {
	return h.do(ctx, http.MethodPost, h.endpoints.Settings, Settings{NetlifyAPIKey: netlifyAPIKey}, nil)
}
