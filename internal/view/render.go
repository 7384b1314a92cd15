// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package view renders dashboard state as terminal text. Every function
// returns a string; printing is left to the caller's Surface.
package view

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"localarb/cli/internal/backend"
	"localarb/cli/internal/editor"
	"localarb/cli/internal/logging"
	"localarb/cli/internal/poller"
)

// NA stands in for a value the backend did not provide.
const NA = "N/A"

var (
	titleStyle   = pterm.NewStyle(pterm.FgCyan, pterm.Bold)
	errorStyle   = pterm.NewStyle(pterm.FgRed)
	successStyle = pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	mutedStyle   = pterm.NewStyle(pterm.FgGray)
)

// Error renders an inline error line.
func Error(msg string) string { return errorStyle.Sprint(msg) }

// Errorf renders an inline error line with a prefix, e.g. "Error starting task: ...".
func Errorf(prefix, msg string) string { return errorStyle.Sprintf("%s: %s", prefix, msg) }

// Info renders a plain status line.
func Info(msg string) string { return msg }

// Welcome is shown when the session is signed in.
func Welcome(account string) string {
	return fmt.Sprintf("Welcome, %s", titleStyle.Sprint(account))
}

// SignedOut is shown when the session is signed out.
func SignedOut() string {
	return mutedStyle.Sprint("Not signed in. Run: localarb login")
}

// Settings renders stored settings with the Netlify key masked.
func Settings(s *backend.Settings) string {
	if s == nil || s.NetlifyAPIKey == "" {
		return "Netlify API key: " + mutedStyle.Sprint("not set")
	}
	return "Netlify API key: " + logging.MaskKey(s.NetlifyAPIKey)
}

// SitesLoading is the placeholder while the asset list loads.
func SitesLoading() string { return "Loading sites..." }

// Sites renders the asset list.
func Sites(sites []backend.Site) string {
	if len(sites) == 0 {
		return "No content found in CMS. Generate some above!"
	}
	data := pterm.TableData{{"Business", "Market", "Site ID"}}
	for _, s := range sites {
		data = append(data, []string{s.BusinessName, fmt.Sprintf("%s in %s", s.Niche, s.Location), s.SanitySiteID})
	}
	out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		// Table rendering only fails on malformed data; fall back to lines.
		var b strings.Builder
		for _, s := range sites {
			fmt.Fprintf(&b, "%s\n  %s in %s (%s)\n", s.BusinessName, s.Niche, s.Location, s.SanitySiteID)
		}
		return strings.TrimRight(b.String(), "\n")
	}
	return out
}

// Analyzing is the placeholder while an analysis runs.
func Analyzing(niche, location string) string {
	return fmt.Sprintf("Analyzing opportunity for %q in %q...", niche, location)
}

// Analysis renders an analysis result. Missing score or justification
// render as N/A; an error inside the result replaces the summary.
func Analysis(res *backend.AnalysisResult) string {
	if res.Error != "" {
		return Errorf("Analysis Error", res.Error)
	}
	score := NA
	if res.Score != nil && res.Score.String() != "" {
		score = res.Score.String()
	}
	justification := NA
	if res.Justification != nil && strings.TrimSpace(*res.Justification) != "" {
		justification = *res.Justification
	}
	body := fmt.Sprintf("Opportunity Score: %s / 100\nJustification: %s\n\nNext: localarb generate %q %q",
		score, justification, res.Niche, res.Location)
	title := titleStyle.Sprintf("Analysis for %q in %q", res.Niche, res.Location)
	return pterm.DefaultBox.WithTitle(title).WithPadding(1).Sprint(body)
}

// DefaultBusinessName is the suggested name for content in a niche.
func DefaultBusinessName(niche string) string { return "Apex " + niche }

// Generating is the placeholder while content is generated.
func Generating(businessName string) string {
	return fmt.Sprintf("Generating initial content for %q...", businessName)
}

// Generated confirms generated content is ready for review.
func Generated() string { return "Content generated. Please review in the editor." }

// LoadingSite is the placeholder while a stored site loads.
func LoadingSite() string { return "Loading content for editing..." }

// Tabs renders the editor tab strip with the active tab highlighted.
func Tabs(tabs []editor.Tab) string {
	parts := make([]string, len(tabs))
	for i, t := range tabs {
		if t.Active {
			parts[i] = titleStyle.Sprintf("[%s]", t.Title)
		} else {
			parts[i] = fmt.Sprintf(" %s ", t.Title)
		}
	}
	return strings.Join(parts, " ")
}

// Pushing is shown while the deploy request is in flight.
func Pushing(businessName string) string {
	return fmt.Sprintf("Pushing content to CMS for %q...", businessName)
}

// DeployStarted is shown once the backend accepted the deploy.
func DeployStarted(businessName, taskID string) string {
	return fmt.Sprintf("CMS push for %q is in progress. Task ID: %s", businessName, taskID)
}

// Polling is the live line while a task is followed.
func Polling(taskID string, tick poller.Tick) string {
	st := "waiting"
	if tick.Status != nil && tick.Status.Status != "" {
		st = tick.Status.Status
	}
	if tick.Err != nil {
		st = "retrying"
	}
	return fmt.Sprintf("Task %s: %s (check %d)", taskID, st, tick.Attempt)
}

// Outcome renders the terminal state of a followed task.
func Outcome(businessName string, out poller.Outcome) string {
	switch out.State {
	case poller.Done:
		msg := successStyle.Sprint("Success!") + fmt.Sprintf(" Content for %q pushed to CMS.", businessName)
		if out.Status != nil {
			if cms := out.Status.Result.CMSError(); cms != "" {
				msg += "\n" + Errorf("CMS Error", cms)
			}
		}
		return msg
	case poller.Failed:
		return errorStyle.Sprintf("Failed! Task for %q failed: %s", businessName, out.Message())
	case poller.Stopped:
		return Errorf(fmt.Sprintf("Stopped checking task %s", out.TaskID), ErrorMessage(out.Err, "status check was rejected"))
	case poller.Aborted:
		return Errorf(fmt.Sprintf("Gave up on task %s", out.TaskID),
			ErrorMessage(out.Err, "status unknown")+fmt.Sprintf(". Check later with: localarb status %s", out.TaskID))
	default:
		return fmt.Sprintf("Task %s is still running.", out.TaskID)
	}
}
