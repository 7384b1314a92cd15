// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package dashboard orchestrates the user's actions: loading settings and
// sites, analysis, content generation, editing and deployment. It owns the
// current draft and the single task poller of the session, and renders every
// outcome into a view.Surface. Failures are rendered where they happen and
// returned to the caller; nothing here retries.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"localarb/cli/internal/auth"
	"localarb/cli/internal/backend"
	"localarb/cli/internal/editor"
	"localarb/cli/internal/logging"
	"localarb/cli/internal/poller"
	"localarb/cli/internal/view"
)

var (
	// ErrBlankName means the user declined to name the business.
	ErrBlankName = errors.New("business name is required")
	// ErrPollerBusy means a task is already being followed.
	ErrPollerBusy = errors.New("another deployment is already being followed")
	// ErrInvalidID means a site or task id cannot name a resource.
	ErrInvalidID = errors.New("invalid id")
)

// Session reports the sign-in status.
type Session interface {
	Status() (auth.Status, string)
}

// App is the dashboard.
type App struct {
	api     backend.API
	session Session
	out     view.Surface
	pollCfg poller.Config
	onTick  func(taskID string, t poller.Tick)

	mu      sync.Mutex
	draft   *editor.Draft
	polling bool
}

// Option customises an App.
type Option func(*App)

// WithPollConfig sets the task poller bounds.
func WithPollConfig(cfg poller.Config) Option { return func(a *App) { a.pollCfg = cfg } }

// WithPollProgress registers a callback for every status check.
func WithPollProgress(fn func(taskID string, t poller.Tick)) Option {
	return func(a *App) { a.onTick = fn }
}

// New creates the dashboard.
func New(api backend.API, session Session, out view.Surface, opts ...Option) *App {
	a := &App{api: api, session: session, out: out}
	for _, o := range opts {
		o(a)
	}
	return a
}

// signedIn guards every authenticated action. While signed out the action
// is a no-op that reports auth.ErrNotSignedIn.
func (a *App) signedIn() error {
	if st, _ := a.session.Status(); st != auth.SignedIn {
		a.out.Show(view.RegionAuth, view.SignedOut())
		return auth.ErrNotSignedIn
	}
	return nil
}

// OnSessionChange is the session listener: it switches the view and, on
// sign-in, loads settings and sites.
func (a *App) OnSessionChange(ctx context.Context, t auth.Transition) {
	switch t.To {
	case auth.SignedIn:
		a.out.Show(view.RegionAuth, view.Welcome(t.Account))
		_ = a.LoadAll(ctx)
	default:
		a.mu.Lock()
		a.draft = nil
		a.mu.Unlock()
		a.out.Show(view.RegionAuth, view.SignedOut())
	}
}

// LoadAll loads settings and sites concurrently. Neither waits for the
// other; the first error is returned once both finished.
func (a *App) LoadAll(ctx context.Context) error {
	if err := a.signedIn(); err != nil {
		return err
	}
	var g errgroup.Group
	g.Go(func() error { _, err := a.LoadSettings(ctx); return err })
	g.Go(func() error { _, err := a.LoadSites(ctx); return err })
	return g.Wait()
}

// LoadSettings fetches and renders the user's settings.
func (a *App) LoadSettings(ctx context.Context) (*backend.Settings, error) {
	if err := a.signedIn(); err != nil {
		return nil, err
	}
	a.out.Show(view.RegionSettings, view.Info("Loading settings..."))
	s, err := a.api.GetSettings(ctx)
	if err != nil {
		logging.L().Error("Could not load user settings", logging.Args("error", err))
		a.out.Show(view.RegionSettings, view.Error(view.ErrorMessage(err, "Could not load user settings.")))
		return nil, err
	}
	a.out.Show(view.RegionSettings, view.Settings(s))
	return s, nil
}

// SaveSettings stores the Netlify API key. An empty key does nothing.
func (a *App) SaveSettings(ctx context.Context, netlifyAPIKey string) error {
	key := strings.TrimSpace(netlifyAPIKey)
	if key == "" {
		return nil
	}
	if err := a.signedIn(); err != nil {
		return err
	}
	a.out.Show(view.RegionSettings, view.Info("Saving..."))
	if err := a.api.SaveSettings(ctx, key); err != nil {
		a.out.Show(view.RegionSettings, view.Errorf("Error", view.ErrorMessage(err, "Failed to save.")))
		return err
	}
	a.out.Show(view.RegionSettings, view.Info("Settings saved successfully!"))
	return nil
}

// LoadSites fetches and renders the user's sites.
func (a *App) LoadSites(ctx context.Context) ([]backend.Site, error) {
	if err := a.signedIn(); err != nil {
		return nil, err
	}
	a.out.Show(view.RegionSites, view.SitesLoading())
	sites, err := a.api.ListSites(ctx)
	if err != nil {
		a.out.Show(view.RegionSites, view.Error(view.ErrorMessage(err, "Failed to load sites.")))
		return nil, err
	}
	a.out.Show(view.RegionSites, view.Sites(sites))
	return sites, nil
}

// Analyze runs an opportunity analysis and renders the summary.
func (a *App) Analyze(ctx context.Context, niche, location string) (*backend.AnalysisResult, error) {
	if err := a.signedIn(); err != nil {
		return nil, err
	}
	a.out.Show(view.RegionResults, view.Analyzing(niche, location))
	res, err := a.api.Analyze(ctx, niche, location)
	if err != nil {
		a.out.Show(view.RegionResults, view.Errorf("Failed to get analysis", view.ErrorMessage(err, "An unknown error occurred.")))
		return nil, err
	}
	a.out.Show(view.RegionResults, view.Analysis(res))
	return res, nil
}

// Generate drafts content for a new site and opens it in the editor.
// A blank business name does nothing.
func (a *App) Generate(ctx context.Context, businessName, niche, location string) (*editor.Editor, error) {
	businessName = strings.TrimSpace(businessName)
	if businessName == "" {
		return nil, ErrBlankName
	}
	if err := a.signedIn(); err != nil {
		return nil, err
	}
	a.out.Show(view.RegionAssets, view.Generating(businessName))
	gen, err := a.api.GenerateContent(ctx, backend.GenerateRequest{BusinessName: businessName, Niche: niche, Location: location})
	if err != nil {
		a.out.Show(view.RegionAssets, view.Errorf("Error generating content", view.ErrorMessage(err, "Failed to generate content.")))
		return nil, err
	}
	ed, err := a.open(editor.FromGenerated(businessName, niche, location, gen))
	if err != nil {
		a.out.Show(view.RegionAssets, view.Errorf("Error generating content", err.Error()))
		return nil, err
	}
	a.out.Show(view.RegionAssets, view.Generated())
	return ed, nil
}

// OpenSite loads a stored site and opens it in the editor.
func (a *App) OpenSite(ctx context.Context, id string) (*editor.Editor, error) {
	if err := a.signedIn(); err != nil {
		return nil, err
	}
	if err := checkID(id); err != nil {
		a.out.Show(view.RegionAssets, view.Error(err.Error()))
		return nil, err
	}
	a.out.Show(view.RegionAssets, view.LoadingSite())
	detail, err := a.api.GetSite(ctx, id)
	if err != nil {
		a.out.Show(view.RegionAssets, view.Error(view.ErrorMessage(err, "Failed to load site content.")))
		return nil, err
	}
	ed, err := a.open(editor.FromSite(detail))
	if err != nil {
		a.out.Show(view.RegionAssets, view.Error(err.Error()))
		return nil, err
	}
	return ed, nil
}

// open replaces the current draft.
func (a *App) open(d *editor.Draft) (*editor.Editor, error) {
	ed, err := editor.Open(d)
	if err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.draft = d
	a.mu.Unlock()
	return ed, nil
}

// Draft returns the current draft, or nil.
func (a *App) Draft() *editor.Draft {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.draft
}

// checkID rejects ids that would address a different path once sent.
func checkID(id string) error {
	switch strings.TrimSpace(id) {
	case "", ".", "..":
		return fmt.Errorf("%w %q", ErrInvalidID, id)
	}
	return nil
}
