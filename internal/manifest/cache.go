// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package manifest

import "sync"

// The resolved manifest lives only in process memory; each CLI invocation
// resolves it once from config.
var (
	cached  *Manifest
	cacheMu sync.RWMutex
)

// GetCached returns the manifest resolved earlier in this process, or nil.
func GetCached() *Manifest {
	cacheMu.RLock()
	defer cacheMu.RUnlock()
	return cached
}

// SetCached stores m for the rest of the process.
func SetCached(m *Manifest) {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cached = m
}

// ClearCache drops the resolved manifest (primarily for testing).
func ClearCache() {
	cacheMu.Lock()
	defer cacheMu.Unlock()
	cached = nil
}
