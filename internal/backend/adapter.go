// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package backend provides interfaces and implementations for communicating with the dashboard backend.
// It defines the API contract for settings, sites, analysis, content generation and deployment tasks.
// Every call is authenticated; nothing is sent while the session is signed out.
package backend

import "context"

// API defines backend operations the CLI depends on.
// Implementations may call real HTTP endpoints or provide mocks for tests.
type API interface {
	GetSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, netlifyAPIKey string) error
	ListSites(ctx context.Context) ([]Site, error)
	GetSite(ctx context.Context, id string) (*SiteDetail, error)
	Analyze(ctx context.Context, niche, location string) (*AnalysisResult, error)
	GenerateContent(ctx context.Context, req GenerateRequest) (*GeneratedContent, error)
	// AssembleAndDeploy starts a CMS push and returns its task id.
	AssembleAndDeploy(ctx context.Context, req DeployRequest) (taskID string, err error)
	DeploymentStatus(ctx context.Context, taskID string) (*TaskStatus, error)
	// GetMe returns the backend's view of the signed-in user.
	GetMe(ctx context.Context) (map[string]any, error)
}

// TokenSource yields the current bearer token. It must fail while signed out.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}
