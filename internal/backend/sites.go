// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"net/http"

	"localarb/cli/internal/manifest"
)

// ListSites calls GET /api/v1/sites.
func (h *HTTP) ListSites(ctx context.Context) ([]Site, error) {
	var sites []Site
	if err := h.do(ctx, http.MethodGet, h.endpoints.Sites, nil, &sites); err != nil {
		return nil, err
	}
	return sites, nil
}

// GetSite calls GET /api/v1/sites/{id}.
func (h *HTTP) GetSite(ctx context.Context, id string) (*SiteDetail, error) {
	var d SiteDetail
	if err := h.do(ctx, http.MethodGet, manifest.Join(h.endpoints.Sites, id), nil, &d); err != nil {
		return nil, err
	}
	if d.SanitySiteID == "" {
		d.SanitySiteID = id
	}
	return &d, nil
}

// Analyze calls POST /api/v1/analyze with { niche, location }.
func (h *HTTP) Analyze(ctx context.Context, niche, location string) (*AnalysisResult, error) {
	in := map[string]string{"niche": niche, "location": location}
	var out AnalysisResult
	if err := h.do(ctx, http.MethodPost, h.endpoints.Analyze, in, &out); err != nil {
		return nil, err
	}
	if out.Niche == "" {
		out.Niche = niche
	}
	if out.Location == "" {
		out.Location = location
	}
	return &out, nil
}

// GenerateContent calls POST /api/v1/generate-content.
func (h *HTTP) GenerateContent(ctx context.Context, req GenerateRequest) (*GeneratedContent, error) {
	var out GeneratedContent
	if err := h.do(ctx, http.MethodPost, h.endpoints.GenerateContent, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
