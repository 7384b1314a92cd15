// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package editor

import (
	"errors"
	"fmt"
	"testing"

	"localarb/cli/internal/backend"
)

func newDraft() *Draft {
	return &Draft{
		BusinessName: "Apex Plumbers",
		Niche:        "plumbers",
		Location:     "Austin",
		Content: backend.NewContent(
			"index.html", "<h1>home</h1>",
			"about-us.html", "<p>about</p>",
			"services.html", "<p>services</p>",
			"contact.html", "<p>contact</p>",
		),
	}
}

func TestOpenActivatesFirstTab(t *testing.T) {
	e, err := Open(newDraft())
	if err != nil {
		t.Fatal(err)
	}
	if e.Active() != "index.html" || e.Text() != "<h1>home</h1>" {
		t.Errorf("Active() = %q, Text() = %q", e.Active(), e.Text())
	}
	active := 0
	for _, tab := range e.Tabs() {
		if tab.Active {
			active++
		}
	}
	if active != 1 {
		t.Errorf("%d active tabs, want 1", active)
	}
	if _, err := Open(&Draft{}); err == nil {
		t.Error("expected error for empty draft")
	}
}

func TestSwitchingTabsKeepsEdits(t *testing.T) {
	files := newDraft().Content.Files()
	for _, from := range files {
		for _, to := range files {
			if from == to {
				continue
			}
			t.Run(from+"->"+to, func(t *testing.T) {
				d := newDraft()
				e, _ := Open(d)
				if err := e.Select(from); err != nil {
					t.Fatal(err)
				}
				edited := fmt.Sprintf("edited %s", from)
				_ = e.SetText(edited)
				if err := e.Select(to); err != nil {
					t.Fatal(err)
				}
				if got, _ := d.Content.Get(from); got != edited {
					t.Errorf("%s lost its edit: %q", from, got)
				}
				want, _ := newDraft().Content.Get(to)
				if e.Text() != want {
					t.Errorf("buffer = %q, want %q", e.Text(), want)
				}
				if e.Active() != to {
					t.Errorf("Active() = %q", e.Active())
				}
				// Back again: the edit is what comes up.
				_ = e.Select(from)
				if e.Text() != edited {
					t.Errorf("returning to %s shows %q", from, e.Text())
				}
			})
		}
	}
}

func TestFinalizeFlushesActiveTab(t *testing.T) {
	e, _ := Open(newDraft())
	_ = e.Select("services.html")
	_ = e.SetText("new services")

	d, err := e.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := d.Content.Get("services.html"); got != "new services" {
		t.Errorf("services.html = %q", got)
	}
	if !e.Closed() {
		t.Error("editor should be closed after Finalize")
	}
	if err := e.SetText("late"); !errors.Is(err, ErrClosed) {
		t.Errorf("SetText after Finalize = %v", err)
	}
	req := d.DeployRequest()
	if req.BusinessName != "Apex Plumbers" || req.EditedContent.Len() != 4 {
		t.Errorf("DeployRequest() = %+v", req)
	}
}

func TestCloseDiscardsBuffer(t *testing.T) {
	d := newDraft()
	e, _ := Open(d)
	_ = e.SetText("unsaved")
	e.Close()
	if got, _ := d.Content.Get("index.html"); got != "<h1>home</h1>" {
		t.Errorf("Close flushed the buffer: %q", got)
	}
	if _, err := e.Finalize(); !errors.Is(err, ErrClosed) {
		t.Errorf("Finalize after Close = %v", err)
	}
}

func TestSelectUnknownFile(t *testing.T) {
	e, _ := Open(newDraft())
	_ = e.SetText("kept")
	if err := e.Select("missing.html"); err == nil {
		t.Fatal("expected error")
	}
	if e.Text() != "kept" || e.Active() != "index.html" {
		t.Error("failed Select must not change the editor")
	}
}

func TestPageName(t *testing.T) {
	tests := []struct {
		file string
		want string
	}{
		{"index.html", "Index"},
		{"about-us.html", "About Us"},
		{"our-best-services.html", "Our Best-Services"},
		{"faq", "Faq"},
		{"contact.page.html", "Contact"},
	}
	for _, tt := range tests {
		if got := PageName(tt.file); got != tt.want {
			t.Errorf("PageName(%q) = %q, want %q", tt.file, got, tt.want)
		}
	}
}

func TestFromSite(t *testing.T) {
	detail := &backend.SiteDetail{
		Site:    backend.Site{BusinessName: "B", Niche: "n", Location: "l", SanitySiteID: "s1"},
		Content: backend.NewContent("a.html", "A"),
	}
	d := FromSite(detail)
	d.Content.Set("a.html", "changed")
	if got, _ := detail.Content.Get("a.html"); got != "A" {
		t.Error("draft must not alias the fetched content")
	}
	if d.SiteID != "s1" {
		t.Errorf("SiteID = %q", d.SiteID)
	}
}
