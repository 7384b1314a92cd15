// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"os"
	"os/exec"
	goruntime "runtime"

	"localarb/cli/internal/auth"
	"localarb/cli/internal/backend"
	"localarb/cli/internal/config"
	"localarb/cli/internal/dashboard"
	"localarb/cli/internal/httperrors"
	"localarb/cli/internal/identity"
	"localarb/cli/internal/keychain"
	"localarb/cli/internal/logging"
	"localarb/cli/internal/manifest"
	"localarb/cli/internal/poller"
	"localarb/cli/internal/view"
)

// apiHost is the backend host of the current invocation, used for network
// troubleshooting hints.
var apiHost = "server"

// session bundles the wired components every command works with.
type session struct {
	cfg  config.Config
	auth *auth.Controller
	api  backend.API
	term *view.Terminal
	app  *dashboard.App
}

// newSession loads configuration and wires the identity provider, session
// controller, backend client and dashboard. The persisted session is not
// restored yet; call restore once listeners are subscribed.
func newSession() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	level := cfg.LogLevel
	if verbose || config.Verbose() {
		level = "debug"
	}
	logging.Configure(level, os.Stderr)

	m, err := manifest.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	apiHost = httperrors.ExtractHostFromURL(m.HTTPBaseURL())

	var store auth.Store
	if km, err := keychain.GetManager(); err == nil {
		store = auth.NewKeychainStore(km)
	} else {
		// Sign-in still works; it just lasts for this process only.
		logging.L().Warn("keychain unavailable, session will not be saved", logging.Args("error", err))
		store = &auth.MemoryStore{}
	}

	fb := identity.NewFirebase(cfg.Identity.FirebaseAPIKey)
	var opts []auth.Option
	if cfg.Identity.GoogleClientID != "" {
		opts = append(opts, auth.WithGoogle(&identity.GoogleFlow{
			ClientID:     cfg.Identity.GoogleClientID,
			ClientSecret: cfg.Identity.GoogleClientSecret,
			Open:         showConsentURL,
		}))
	}
	ctrl := auth.NewController(fb, store, opts...)

	api := backend.New(m, ctrl, backend.WithTimeout(cfg.API.Timeout.Std()))
	term := view.NewTerminal(os.Stdout)
	app := dashboard.New(api, ctrl, term,
		dashboard.WithPollConfig(poller.Config{
			Interval:           cfg.Poll.Interval.Std(),
			Timeout:            cfg.Poll.Timeout.Std(),
			MaxTransportErrors: cfg.Poll.MaxTransportErrors,
			MaxBackoff:         cfg.Poll.MaxBackoff.Std(),
		}),
		dashboard.WithPollProgress(term.Progress),
	)
	return &session{cfg: cfg, auth: ctrl, api: api, term: term, app: app}, nil
}

// restore resumes the persisted session, if any, and reports whether the
// user is signed in.
func (s *session) restore(ctx context.Context) bool {
	ok, err := s.auth.Restore(ctx)
	if err != nil {
		logging.L().Debug("could not restore session", logging.Args("error", err))
	}
	return ok
}

// requireSignIn restores the session and fails with the sign-in hint when
// there is none.
func (s *session) requireSignIn(ctx context.Context) error {
	if s.restore(ctx) {
		return nil
	}
	s.term.Show(view.RegionAuth, view.SignedOut())
	return reported(auth.ErrNotSignedIn)
}

// showConsentURL prints the Google consent link and tries to open it.
func showConsentURL(url string) {
	view.NewTerminal(os.Stdout).Show(view.RegionAuth, view.Info("Open this link to sign in with Google:\n"+url+"\n"))
	openBrowser(url)
}

// openBrowser attempts to open the provided URL in the user's default browser.
// It uses platform-specific commands to launch the default browser:
//   - Windows: rundll32 url.dll,FileProtocolHandler
//   - macOS: open command
//   - Linux: xdg-open command
//
// The function starts the browser process but does not wait for it to complete.
func openBrowser(url string) {
	var cmd *exec.Cmd
	switch goruntime.GOOS {
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	case "darwin":
		cmd = exec.Command("open", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	_ = cmd.Start()
}
