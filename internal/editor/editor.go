// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package editor holds the draft of a site being edited and the tabbed
// editor over it. The editor shows one file at a time through a single
// shared buffer; switching tabs writes the buffer back into the draft first,
// so no edit is lost.
package editor

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"localarb/cli/internal/backend"
)

// ErrClosed is returned by operations on a closed editor.
var ErrClosed = errors.New("editor is closed")

// Draft is the editable state of one site.
type Draft struct {
	BusinessName  string
	Niche         string
	Location      string
	Content       backend.Content
	SiteStructure json.RawMessage
	// SiteID correlates the draft with a stored site; empty for new content.
	SiteID string
}

// FromGenerated builds a draft for freshly generated content.
func FromGenerated(businessName, niche, location string, g *backend.GeneratedContent) *Draft {
	return &Draft{
		BusinessName:  businessName,
		Niche:         niche,
		Location:      location,
		Content:       g.Content.Clone(),
		SiteStructure: g.SiteStructure,
	}
}

// FromSite builds a draft for a stored site.
func FromSite(d *backend.SiteDetail) *Draft {
	return &Draft{
		BusinessName:  d.BusinessName,
		Niche:         d.Niche,
		Location:      d.Location,
		Content:       d.Content.Clone(),
		SiteStructure: d.SiteStructure,
		SiteID:        d.SanitySiteID,
	}
}

// DeployRequest converts the draft into the deploy payload.
func (d *Draft) DeployRequest() backend.DeployRequest {
	return backend.DeployRequest{
		BusinessName:  d.BusinessName,
		Niche:         d.Niche,
		Location:      d.Location,
		EditedContent: d.Content.Clone(),
		SiteStructure: d.SiteStructure,
	}
}

// Tab is one file of the draft.
type Tab struct {
	File   string
	Title  string
	Active bool
}

// Editor is the tabbed editor over a draft.
type Editor struct {
	draft  *Draft
	files  []string
	active int
	buffer string
	closed bool
}

// Open starts editing d with the first file active.
func Open(d *Draft) (*Editor, error) {
	if d == nil || d.Content.Len() == 0 {
		return nil, errors.New("draft has no content to edit")
	}
	e := &Editor{draft: d, files: d.Content.Files()}
	e.buffer, _ = d.Content.Get(e.files[0])
	return e, nil
}

// Draft returns the draft being edited. Edits in the buffer reach it only
// on Select or Finalize.
func (e *Editor) Draft() *Draft { return e.draft }

// Tabs lists the files in draft order; exactly one is active.
func (e *Editor) Tabs() []Tab {
	tabs := make([]Tab, len(e.files))
	for i, f := range e.files {
		tabs[i] = Tab{File: f, Title: PageName(f), Active: i == e.active}
	}
	return tabs
}

// Active returns the active file.
func (e *Editor) Active() string { return e.files[e.active] }

// Text returns the shared buffer.
func (e *Editor) Text() string { return e.buffer }

// SetText replaces the shared buffer.
func (e *Editor) SetText(s string) error {
	if e.closed {
		return ErrClosed
	}
	e.buffer = s
	return nil
}

// Select flushes the buffer into the active file, then loads file.
func (e *Editor) Select(file string) error {
	if e.closed {
		return ErrClosed
	}
	idx := -1
	for i, f := range e.files {
		if f == file {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("no tab for %q", file)
	}
	e.flush()
	e.active = idx
	e.buffer, _ = e.draft.Content.Get(file)
	return nil
}

// Finalize flushes the active file, closes the editor and returns the draft.
func (e *Editor) Finalize() (*Draft, error) {
	if e.closed {
		return nil, ErrClosed
	}
	e.flush()
	e.closed = true
	return e.draft, nil
}

// Close discards the editor without flushing. The draft stays as it was
// after the last tab switch.
func (e *Editor) Close() { e.closed = true }

// Closed reports whether the editor has been closed.
func (e *Editor) Closed() bool { return e.closed }

func (e *Editor) flush() {
	e.draft.Content.Set(e.files[e.active], e.buffer)
}

var wordStart = regexp.MustCompile(`\b\w`)

// PageName is the tab title for a file: the name up to the first dot, its
// first hyphen turned into a space, each word capitalised.
// "about-us.html" becomes "About Us".
func PageName(file string) string {
	stem, _, _ := strings.Cut(file, ".")
	stem = strings.Replace(stem, "-", " ", 1)
	return wordStart.ReplaceAllStringFunc(stem, strings.ToUpper)
}
