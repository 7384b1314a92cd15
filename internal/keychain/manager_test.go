// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package keychain

import (
	"testing"

	"github.com/99designs/keyring"
)

func newTestManager() *Manager {
	return NewManagerWithRing(keyring.NewArrayKeyring(nil))
}

func TestSaveAndLoadTokens(t *testing.T) {
	m := newTestManager()
	if err := m.SaveAuthTokens("id-1", "refresh-1"); err != nil {
		t.Fatalf("SaveAuthTokens() error: %v", err)
	}
	if got, err := m.LoadIDToken(); err != nil || got != "id-1" {
		t.Fatalf("LoadIDToken() = %q, %v", got, err)
	}
	if got, err := m.LoadRefreshToken(); err != nil || got != "refresh-1" {
		t.Fatalf("LoadRefreshToken() = %q, %v", got, err)
	}

	// Rotating only the ID token keeps the refresh token.
	if err := m.SaveAuthTokens("id-2", ""); err != nil {
		t.Fatal(err)
	}
	if got, _ := m.LoadIDToken(); got != "id-2" {
		t.Errorf("LoadIDToken() after rotate = %q", got)
	}
	if got, _ := m.LoadRefreshToken(); got != "refresh-1" {
		t.Errorf("LoadRefreshToken() after rotate = %q", got)
	}
}

func TestAuthStateMissingIsEmpty(t *testing.T) {
	m := newTestManager()
	data, err := m.LoadAuthState()
	if err != nil {
		t.Fatalf("LoadAuthState() error: %v", err)
	}
	if data != nil {
		t.Errorf("expected nil state, got %q", data)
	}
}

func TestClearAuth(t *testing.T) {
	m := newTestManager()
	_ = m.SaveAuthTokens("id", "refresh")
	_ = m.SaveAuthState([]byte(`{"signed_in":true}`))

	if err := m.ClearAuth(); err != nil {
		t.Fatalf("ClearAuth() error: %v", err)
	}
	if _, err := m.LoadIDToken(); err == nil {
		t.Error("expected ID token to be gone")
	}
	if _, err := m.LoadRefreshToken(); err == nil {
		t.Error("expected refresh token to be gone")
	}
	if data, _ := m.LoadAuthState(); data != nil {
		t.Error("expected auth state to be gone")
	}
}

func TestGlobalManagerOverride(t *testing.T) {
	m := newTestManager()
	SetManager(m)
	t.Cleanup(func() { SetManager(nil) })

	got, err := GetManager()
	if err != nil {
		t.Fatalf("GetManager() error: %v", err)
	}
	if got != m {
		t.Error("GetManager() did not return the injected manager")
	}
}
