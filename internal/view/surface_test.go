// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package view

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"localarb/cli/internal/backend"
	"localarb/cli/internal/poller"
)

func TestTerminalPrintsConcurrentUpdates(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf)
	var wg sync.WaitGroup
	for _, r := range []Region{RegionSettings, RegionSites} {
		wg.Add(1)
		go func(r Region) {
			defer wg.Done()
			term.Show(r, "update for "+r.String())
		}(r)
	}
	wg.Wait()
	term.Show(RegionAssets, "")

	out := buf.String()
	if !strings.Contains(out, "update for settings\n") || !strings.Contains(out, "update for sites\n") {
		t.Errorf("output = %q", out)
	}
	if strings.Count(out, "\n") != 2 {
		t.Errorf("empty text must not print a line: %q", out)
	}
}

func TestPolling(t *testing.T) {
	got := Polling("t-1", poller.Tick{Attempt: 2, Status: &backend.TaskStatus{Status: "in_progress"}})
	if got != "Task t-1: in_progress (check 2)" {
		t.Errorf("Polling() = %q", got)
	}
}
