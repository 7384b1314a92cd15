// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"

	"github.com/pterm/pterm"

	"localarb/cli/internal/editor"
	"localarb/cli/internal/logging"
	"localarb/cli/internal/terminal"
	"localarb/cli/internal/view"
	"localarb/cli/internal/xdg"
)

const (
	actionEdit    = "Edit this page"
	actionSwitch  = "Switch page"
	actionPreview = "Preview this page"
	actionDeploy  = "Push to CMS"
	actionDiscard = "Discard draft"
)

// editSession drives the page editor until the draft is pushed or
// discarded. With deployNow, or without a terminal, the draft is pushed as
// it is.
func editSession(ctx context.Context, s *session, ed *editor.Editor, deployNow bool) error {
	if deployNow {
		return deploy(ctx, s, ed)
	}
	if !terminal.IsInteractive() {
		ed.Close()
		s.term.Show(view.RegionAssets, view.Info("Not a terminal; rerun with --deploy to push the draft unedited."))
		return reported(terminal.ErrNotInteractive)
	}

	for {
		s.term.Show(view.RegionAssets, view.Tabs(ed.Tabs()))
		action, err := pterm.DefaultInteractiveSelect.
			WithOptions([]string{actionEdit, actionSwitch, actionPreview, actionDeploy, actionDiscard}).
			Show(fmt.Sprintf("%s (%s)", editor.PageName(ed.Active()), ed.Active()))
		if err != nil {
			return err
		}

		switch action {
		case actionEdit:
			text, err := editExternally(ed.Active(), ed.Text())
			if err != nil {
				s.term.Show(view.RegionAssets, view.Errorf("Editor failed", err.Error()))
				continue
			}
			if err := ed.SetText(text); err != nil {
				return err
			}
		case actionSwitch:
			if err := switchPage(ed); err != nil {
				return err
			}
		case actionPreview:
			s.term.Show(view.RegionAssets, pterm.DefaultBox.WithTitle(ed.Active()).Sprint(ed.Text()))
		case actionDeploy:
			return deploy(ctx, s, ed)
		case actionDiscard:
			ed.Close()
			s.term.Show(view.RegionAssets, view.Info("Draft discarded."))
			return nil
		}
	}
}

func switchPage(ed *editor.Editor) error {
	tabs := ed.Tabs()
	titles := make([]string, len(tabs))
	byTitle := make(map[string]string, len(tabs))
	for i, t := range tabs {
		titles[i] = fmt.Sprintf("%s (%s)", t.Title, t.File)
		byTitle[titles[i]] = t.File
	}
	choice, err := pterm.DefaultInteractiveSelect.WithOptions(titles).Show("Page")
	if err != nil {
		return err
	}
	return ed.Select(byTitle[choice])
}

func deploy(ctx context.Context, s *session, ed *editor.Editor) error {
	_, err := s.app.Deploy(ctx, ed)
	return reported(err)
}

// editExternally writes text to a draft file, opens it in the user's editor
// and returns the saved contents.
func editExternally(file, text string) (string, error) {
	dir, err := xdg.DraftDir()
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp(dir, "*-"+filepath.Base(file))
	if err != nil {
		return "", err
	}
	path := f.Name()
	defer os.Remove(path)

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	argv := editorCommand()
	c := exec.Command(argv[0], append(argv[1:], path)...)
	c.Stdin, c.Stdout, c.Stderr = os.Stdin, os.Stdout, os.Stderr
	logging.L().Debug("opening editor", logging.Args("command", strings.Join(argv, " "), "file", path))
	if err := c.Run(); err != nil {
		return "", fmt.Errorf("%s: %w", argv[0], err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// editorCommand is $VISUAL, else $EDITOR, else the platform default.
func editorCommand() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}
	if goruntime.GOOS == "windows" {
		return []string{"notepad"}
	}
	return []string{"vi"}
}
