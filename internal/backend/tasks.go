// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"context"
	"errors"
	"net/http"
	"strings"

	apperr "localarb/cli/internal/errors"
	"localarb/cli/internal/manifest"
)

// ErrNoTaskID means the backend accepted a deployment without naming a task.
var ErrNoTaskID = errors.New("backend returned no task id")

// AssembleAndDeploy calls POST /api/v1/assemble-and-deploy and returns the
// task id to poll.
func (h *HTTP) AssembleAndDeploy(ctx context.Context, req DeployRequest) (string, error) {
	if len(req.SiteStructure) == 0 {
		req.SiteStructure = []byte("{}")
	}
	var out struct {
		TaskID  string `json:"task_id"`
		Message string `json:"message"`
	}
	if err := h.do(ctx, http.MethodPost, h.endpoints.AssembleDeploy, req, &out); err != nil {
		return "", err
	}
	if strings.TrimSpace(out.TaskID) == "" {
		return "", apperr.Wrap(apperr.Request, "assemble-and-deploy", ErrNoTaskID)
	}
	return out.TaskID, nil
}

// DeploymentStatus calls GET /api/v1/deployment-status/{task_id}.
func (h *HTTP) DeploymentStatus(ctx context.Context, taskID string) (*TaskStatus, error) {
	var st TaskStatus
	if err := h.do(ctx, http.MethodGet, manifest.Join(h.endpoints.DeploymentStatus, taskID), nil, &st); err != nil {
		return nil, err
	}
	return &st, nil
}
