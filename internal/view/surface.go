// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package view

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"atomicgo.dev/cursor"
	"github.com/pterm/pterm"

	"localarb/cli/internal/poller"
)

// Region is an area of the dashboard that shows one status at a time.
type Region int

const (
	RegionAuth Region = iota
	RegionSettings
	RegionSites
	RegionResults
	RegionAssets
)

func (r Region) String() string {
	switch r {
	case RegionAuth:
		return "auth"
	case RegionSettings:
		return "settings"
	case RegionSites:
		return "sites"
	case RegionResults:
		return "results"
	case RegionAssets:
		return "assets"
	default:
		return fmt.Sprintf("region(%d)", int(r))
	}
}

// Surface displays rendered text in a region, replacing what was there.
type Surface interface {
	Show(r Region, text string)
}

// Terminal is a Surface that prints each update as it comes. It is safe
// for concurrent use.
type Terminal struct {
	mu   sync.Mutex
	w    io.Writer
	live *PollArea
}

// NewTerminal prints to w, or stdout when w is nil.
func NewTerminal(w io.Writer) *Terminal {
	if w == nil {
		w = os.Stdout
	}
	return &Terminal{w: w}
}

// Show prints text, closing a live poll area first.
func (t *Terminal) Show(_ Region, text string) {
	if text == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.live != nil {
		t.live.Stop()
		t.live = nil
	}
	pterm.Fprintln(t.w, text)
}

// Progress keeps a live spinner line for a followed task. Terminal ticks
// close it.
func (t *Terminal) Progress(taskID string, tick poller.Tick) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if tick.State.Terminal() {
		if t.live != nil {
			t.live.Stop()
			t.live = nil
		}
		return
	}
	if t.live == nil {
		t.live = StartPollArea(Polling(taskID, tick))
		return
	}
	t.live.Update(Polling(taskID, tick))
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// PollArea is a live, single-line spinner area for a followed task. The
// cursor is hidden while it runs.
type PollArea struct {
	area *pterm.AreaPrinter
	stop chan struct{}
	wg   sync.WaitGroup

	mu   sync.Mutex
	text string
}

// StartPollArea starts the area with an initial line. If the terminal does
// not support areas, updates are dropped and the caller's final Show still
// prints the outcome.
func StartPollArea(text string) *PollArea {
	p := &PollArea{stop: make(chan struct{}), text: text}
	cursor.Hide()
	area, err := pterm.DefaultArea.WithRemoveWhenDone(true).Start()
	if err != nil {
		cursor.Show()
		return p
	}
	p.area = area
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		t := time.NewTicker(120 * time.Millisecond)
		defer t.Stop()
		i := 0
		for {
			select {
			case <-t.C:
				i++
				p.mu.Lock()
				line := fmt.Sprintf("%s %s", spinnerFrames[i%len(spinnerFrames)], p.text)
				p.mu.Unlock()
				area.Update(line)
			case <-p.stop:
				return
			}
		}
	}()
	return p
}

// Update replaces the line shown next to the spinner.
func (p *PollArea) Update(text string) {
	p.mu.Lock()
	p.text = text
	p.mu.Unlock()
}

// Stop removes the area and shows the cursor again.
func (p *PollArea) Stop() {
	if p.area == nil {
		return
	}
	close(p.stop)
	p.wg.Wait()
	_ = p.area.Stop()
	p.area = nil
	cursor.Show()
}
