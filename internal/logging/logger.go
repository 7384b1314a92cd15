// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package logging

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/pterm/pterm"
)

var (
	mu     sync.RWMutex
	logger = pterm.DefaultLogger.WithLevel(pterm.LogLevelInfo).WithWriter(os.Stderr)
)

// ParseLevel maps a config string to a pterm level. Unknown values yield info.
func ParseLevel(s string) pterm.LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return pterm.LogLevelTrace
	case "debug":
		return pterm.LogLevelDebug
	case "warn", "warning":
		return pterm.LogLevelWarn
	case "error":
		return pterm.LogLevelError
	case "off", "disabled", "none":
		return pterm.LogLevelDisabled
	default:
		return pterm.LogLevelInfo
	}
}

// Configure sets the process-wide log level and destination.
func Configure(level string, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if w == nil {
		w = os.Stderr
	}
	logger = pterm.DefaultLogger.WithLevel(ParseLevel(level)).WithWriter(w)
}

// L returns the process-wide structured logger.
func L() *pterm.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Args builds masked key/value pairs for a log line.
func Args(kv ...any) []pterm.LoggerArgument {
	for i := 1; i < len(kv); i += 2 {
		if s, ok := kv[i].(string); ok {
			kv[i] = Mask(s)
		}
		if err, ok := kv[i].(error); ok && err != nil {
			kv[i] = Mask(err.Error())
		}
	}
	return L().Args(kv...)
}
