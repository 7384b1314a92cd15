// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain provides centralized, thread-safe keychain operations for localarb.
// This module manages all interactions with the OS keychain/credential store:
// the identity provider's ID token and refresh token, plus the serialized
// session state that lets a later CLI invocation resume the same sign-in.
//
// Native stores are preferred (macOS Keychain, Windows Credential Manager,
// Secret Service, KWallet, pass). An encrypted file store is the last resort
// on systems without any of them.
package keychain

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/99designs/keyring"

	"localarb/cli/internal/xdg"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// ErrNotFound is returned when a key has never been stored or was cleared.
var ErrNotFound = keyring.ErrKeyNotFound

// Manager provides centralized, thread-safe operations for the OS keychain.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "localarb"

// EnvFilePassword unlocks the encrypted file store without prompting.
const EnvFilePassword = "LOCALARB_KEYRING_PASSWORD"

// Keys used for storing secrets in the OS keychain.
const (
	KeyIDToken      = "auth_id_token"
	KeyRefreshToken = "auth_refresh_token"
	KeyAuthState    = "auth_state"
)

// NewManager creates a new keychain manager with the OS keyring initialized.
func NewManager() (*Manager, error) {
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// NewManagerWithRing wraps an already opened keyring (tests use
// keyring.NewArrayKeyring).
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// GetManager returns the global keychain manager instance.
// If not initialized, it will be created on first call.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}

	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}
	return globalManager, nil
}

// SetManager replaces the global manager; pass nil to force re-initialization.
func SetManager(m *Manager) {
	mu.Lock()
	defer mu.Unlock()
	globalManager = m
	globalError = nil
}

// openRing opens the OS keyring, preferring native platform backends.
func openRing() (keyring.Keyring, error) {
	var allowed []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		allowed = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowed = []keyring.BackendType{keyring.WinCredBackend}
	default:
		allowed = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
		}
	}
	allowed = append(allowed, keyring.FileBackend)

	dir, err := xdg.StateDir()
	if err != nil {
		return nil, err
	}

	cfg := keyring.Config{
		ServiceName:             ServiceName,
		AllowedBackends:         allowed,
		PassPrefix:              ServiceName,
		WinCredPrefix:           ServiceName,
		LibSecretCollectionName: ServiceName,
		KWalletAppID:            ServiceName,
		KWalletFolder:           ServiceName,
		FileDir:                 filepath.Join(dir, "keyring"),
		FilePasswordFunc:        filePassword,
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, errors.New("no secure credential store available; set " + EnvFilePassword + " to use the encrypted file store")
	}
	return ring, nil
}

func filePassword(prompt string) (string, error) {
	if v := os.Getenv(EnvFilePassword); v != "" {
		return v, nil
	}
	return keyring.TerminalPrompt(prompt)
}

func (m *Manager) set(key string, data []byte) error {
	return m.ring.Set(keyring.Item{Key: key, Data: data, Label: ServiceName + " " + key})
}

func (m *Manager) get(key string) ([]byte, error) {
	it, err := m.ring.Get(key)
	if err != nil {
		return nil, err
	}
	return it.Data, nil
}

func (m *Manager) remove(keys ...string) {
	for _, k := range keys {
		_ = m.ring.Remove(k)
	}
}

// SaveAuthTokens stores the ID token and refresh token. Empty values leave
// the stored value untouched so a refresh may rotate only one of them.
// This method is thread-safe.
func (m *Manager) SaveAuthTokens(idToken, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if idToken != "" {
		if err := m.set(KeyIDToken, []byte(idToken)); err != nil {
			return err
		}
	}
	if refreshToken != "" {
		if err := m.set(KeyRefreshToken, []byte(refreshToken)); err != nil {
			return err
		}
	}
	return nil
}

// LoadIDToken retrieves the ID token from the keychain.
// This method is thread-safe.
func (m *Manager) LoadIDToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := m.get(KeyIDToken)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty id token")
	}
	return string(data), nil
}

// LoadRefreshToken retrieves the refresh token from the keychain.
// This method is thread-safe.
func (m *Manager) LoadRefreshToken() (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := m.get(KeyRefreshToken)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", errors.New("empty refresh token")
	}
	return string(data), nil
}

// SaveAuthState stores serialized auth state in the keychain.
// This method is thread-safe.
func (m *Manager) SaveAuthState(data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.set(KeyAuthState, data)
}

// LoadAuthState retrieves serialized auth state from the keychain.
// A missing entry yields (nil, nil).
// This method is thread-safe.
func (m *Manager) LoadAuthState() ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, err := m.get(KeyAuthState)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return nil, nil
	}
	return data, err
}

// ClearAuth removes all auth-related secrets from the keychain.
// This method is thread-safe.
func (m *Manager) ClearAuth() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.remove(KeyIDToken, KeyRefreshToken, KeyAuthState)
	return nil
}
