// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"localarb/cli/internal/auth"
	"localarb/cli/internal/backend"
	"localarb/cli/internal/logging"
	"localarb/cli/internal/terminal"
	"localarb/cli/internal/view"
)

const (
	menuAnalyze  = "Analyze a market"
	menuGenerate = "Generate content"
	menuEdit     = "Edit a site"
	menuSettings = "Set Netlify API key"
	menuRefresh  = "Refresh"
	menuSignIn   = "Sign in"
	menuGoogle   = "Sign in with Google"
	menuSignOut  = "Sign out"
	menuQuit     = "Quit"
)

// dashboardCmd is the interactive menu over every other command. Failures
// are shown and the menu comes back; only Quit or Ctrl-C end it.
var dashboardCmd = &cobra.Command{
	Use:     "dashboard",
	Aliases: []string{"ui"},
	Short:   "Interactive menu for analysis, generation and editing",
	Long: `The dashboard command shows your settings and sites as soon as you are signed
in and offers every action from one menu: analyze a market, generate content,
edit a stored site, update your Netlify key, or sign in and out.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if !terminal.IsInteractive() {
			return terminal.ErrNotInteractive
		}
		s, err := newSession()
		if err != nil {
			return err
		}
		s.auth.Subscribe(s.app.OnSessionChange)
		if !s.restore(ctx) {
			s.term.Show(view.RegionAuth, view.SignedOut())
		}

		for ctx.Err() == nil {
			choice, err := pterm.DefaultInteractiveSelect.
				WithOptions(menuOptions(s)).
				Show("What next?")
			if err != nil {
				return err
			}
			if choice == menuQuit {
				return nil
			}
			if err := runMenuAction(ctx, cmd, s, choice); err != nil {
				logging.L().Debug("dashboard action failed", logging.Args("action", choice, "error", err))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

func menuOptions(s *session) []string {
	if st, _ := s.auth.Status(); st != auth.SignedIn {
		opts := []string{menuSignIn}
		if s.cfg.Identity.GoogleClientID != "" {
			opts = append(opts, menuGoogle)
		}
		return append(opts, menuQuit)
	}
	return []string{menuAnalyze, menuGenerate, menuEdit, menuSettings, menuRefresh, menuSignOut, menuQuit}
}

func runMenuAction(ctx context.Context, cmd *cobra.Command, s *session, choice string) error {
	switch choice {
	case menuSignIn:
		email, password, err := askCredentials()
		if err != nil {
			return err
		}
		return showAuthError(s, s.auth.SignInWithPassword(ctx, email, password))
	case menuGoogle:
		return showAuthError(s, s.auth.SignInWithGoogle(ctx))
	case menuSignOut:
		return s.auth.SignOut(ctx)
	case menuRefresh:
		return s.app.LoadAll(ctx)
	case menuSettings:
		key, err := terminal.ReadPassword("Netlify API key: ")
		if err != nil {
			return err
		}
		return s.app.SaveSettings(ctx, key)
	case menuAnalyze:
		niche, location, err := askMarket()
		if err != nil {
			return err
		}
		res, err := s.app.Analyze(ctx, niche, location)
		if err != nil {
			return err
		}
		return offerGenerate(res, confirm, func() error {
			return runGenerate(cmd, s, niche, location)
		})
	case menuGenerate:
		niche, location, err := askMarket()
		if err != nil {
			return err
		}
		return runGenerate(cmd, s, niche, location)
	case menuEdit:
		return editStoredSite(ctx, s)
	}
	return fmt.Errorf("unknown menu entry %q", choice)
}

func showAuthError(s *session, err error) error {
	if err != nil {
		s.term.Show(view.RegionAuth, view.Error(view.ErrorMessage(err, "Sign-in failed.")))
	}
	return err
}

func askMarket() (niche, location string, err error) {
	niche, err = pterm.DefaultInteractiveTextInput.Show("Niche (e.g. plumbers)")
	if err != nil {
		return "", "", err
	}
	location, err = pterm.DefaultInteractiveTextInput.Show("Location (e.g. Austin, TX)")
	if err != nil {
		return "", "", err
	}
	niche, location = strings.TrimSpace(niche), strings.TrimSpace(location)
	if niche == "" || location == "" {
		return "", "", errors.New("niche and location are required")
	}
	return niche, location, nil
}

func editStoredSite(ctx context.Context, s *session) error {
	sites, err := s.app.LoadSites(ctx)
	if err != nil || len(sites) == 0 {
		return err
	}
	labels := make([]string, len(sites))
	byLabel := make(map[string]backend.Site, len(sites))
	for i, site := range sites {
		labels[i] = fmt.Sprintf("%s (%s, %s) %s", site.BusinessName, site.Niche, site.Location, site.SanitySiteID)
		byLabel[labels[i]] = site
	}
	choice, err := pterm.DefaultInteractiveSelect.WithOptions(labels).Show("Site")
	if err != nil {
		return err
	}
	ed, err := s.app.OpenSite(ctx, byLabel[choice].SanitySiteID)
	if err != nil {
		return err
	}
	return editSession(ctx, s, ed, false)
}
