// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import "encoding/json"

// Settings are the user's stored dashboard settings.
type Settings struct {
	NetlifyAPIKey string `json:"netlify_api_key,omitempty"`
}

// Site is one entry of the user's asset list.
type Site struct {
	BusinessName string `json:"business_name"`
	Niche        string `json:"niche"`
	Location     string `json:"location"`
	SanitySiteID string `json:"sanity_site_id"`
}

// SiteDetail is a stored site with its editable content.
type SiteDetail struct {
	Site
	Content       Content         `json:"content"`
	SiteStructure json.RawMessage `json:"site_structure,omitempty"`
}

// AnalysisResult is the opportunity analysis for a niche and location.
// Score and Justification are nil when the backend omitted them.
type AnalysisResult struct {
	Niche         string       `json:"niche"`
	Location      string       `json:"location"`
	Score         *json.Number `json:"opportunity_score,omitempty"`
	Justification *string      `json:"justification,omitempty"`
	Error         string       `json:"error,omitempty"`
}

// GenerateRequest asks the backend to draft content for a new site.
type GenerateRequest struct {
	BusinessName string `json:"business_name"`
	Niche        string `json:"niche"`
	Location     string `json:"location"`
}

// GeneratedContent is the initial draft returned by content generation.
type GeneratedContent struct {
	Content       Content         `json:"content"`
	SiteStructure json.RawMessage `json:"site_structure,omitempty"`
}

// DeployRequest carries the edited draft to assemble-and-deploy.
type DeployRequest struct {
	BusinessName  string          `json:"business_name"`
	Niche         string          `json:"niche"`
	Location      string          `json:"location"`
	EditedContent Content         `json:"edited_content"`
	SiteStructure json.RawMessage `json:"site_structure"`
}

// Task statuses reported by deployment-status.
const (
	TaskComplete = "complete"
	TaskFailed   = "failed"
)

// TaskStatus is one poll of a deployment task.
type TaskStatus struct {
	Status string      `json:"status"`
	Result *TaskResult `json:"result,omitempty"`
	Error  string      `json:"error,omitempty"`
}

// TaskResult is the payload of a completed task. A CMS error here does not
// fail the task.
type TaskResult struct {
	Success      bool          `json:"success"`
	Error        string        `json:"error,omitempty"`
	SanityResult *SanityResult `json:"sanity_result,omitempty"`
}

// SanityResult is the CMS push outcome nested in a task result.
type SanityResult struct {
	Error string `json:"error,omitempty"`
}

// CMSError returns the nested CMS error of a completed task, if any.
func (r *TaskResult) CMSError() string {
	if r == nil {
		return ""
	}
	if r.SanityResult != nil && r.SanityResult.Error != "" {
		return r.SanityResult.Error
	}
	return r.Error
}
