// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package dashboard

import (
	"context"

	"localarb/cli/internal/editor"
	apperr "localarb/cli/internal/errors"
	"localarb/cli/internal/logging"
	"localarb/cli/internal/poller"
	"localarb/cli/internal/view"
)

// Deploy finalizes the editor, submits the draft and follows the resulting
// task to a terminal state. Without a task id nothing is followed.
func (a *App) Deploy(ctx context.Context, ed *editor.Editor) (poller.Outcome, error) {
	if err := a.signedIn(); err != nil {
		return poller.Outcome{}, err
	}
	draft, err := ed.Finalize()
	if err != nil {
		return poller.Outcome{}, err
	}
	if err := a.acquirePoller(); err != nil {
		a.out.Show(view.RegionAssets, view.Errorf("Error starting task", err.Error()))
		return poller.Outcome{}, err
	}
	defer a.releasePoller()

	a.out.Show(view.RegionAssets, view.Pushing(draft.BusinessName))
	taskID, err := a.api.AssembleAndDeploy(ctx, draft.DeployRequest())
	if err != nil {
		a.out.Show(view.RegionAssets, view.Errorf("Error starting task", view.ErrorMessage(err, "Failed to start task.")))
		return poller.Outcome{}, err
	}
	a.out.Show(view.RegionAssets, view.DeployStarted(draft.BusinessName, taskID))
	return a.follow(ctx, draft.BusinessName, taskID)
}

// Follow attaches to an existing task.
func (a *App) Follow(ctx context.Context, label, taskID string) (poller.Outcome, error) {
	if err := a.signedIn(); err != nil {
		return poller.Outcome{}, err
	}
	if err := checkID(taskID); err != nil {
		a.out.Show(view.RegionAssets, view.Error(err.Error()))
		return poller.Outcome{}, err
	}
	if err := a.acquirePoller(); err != nil {
		return poller.Outcome{}, err
	}
	defer a.releasePoller()
	return a.follow(ctx, label, taskID)
}

func (a *App) follow(ctx context.Context, label, taskID string) (poller.Outcome, error) {
	var opts []poller.Option
	if a.onTick != nil {
		opts = append(opts, poller.WithObserver(func(t poller.Tick) { a.onTick(taskID, t) }))
	}
	out := poller.New(a.api, a.pollCfg, opts...).Run(ctx, taskID)
	a.out.Show(view.RegionAssets, view.Outcome(label, out))
	logging.L().Debug("dashboard: task finished", logging.Args("task", taskID, "state", out.State.String()))

	if out.State == poller.Done {
		// Authoritative list after the push; a failure here is rendered by LoadSites.
		_, _ = a.LoadSites(ctx)
		return out, nil
	}
	if out.Err == nil {
		out.Err = apperr.New(apperr.Task, "task did not complete")
	}
	return out, out.Err
}

func (a *App) acquirePoller() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.polling {
		return ErrPollerBusy
	}
	a.polling = true
	return nil
}

func (a *App) releasePoller() {
	a.mu.Lock()
	a.polling = false
	a.mu.Unlock()
}
