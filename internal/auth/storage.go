// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"encoding/json"
	"errors"
	"time"

	"localarb/cli/internal/keychain"
	"localarb/cli/internal/logging"
)

// State represents persisted, non-secret session state for the current user.
type State struct {
	SignedIn  bool      `json:"signed_in"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store persists the session across CLI invocations.
type Store interface {
	Save(Credential) error
	// Load returns ok=false when nothing is stored.
	Load() (cred Credential, ok bool, err error)
	Clear() error
}

// KeychainStore keeps tokens and state in the OS keychain.
type KeychainStore struct {
	km *keychain.Manager
}

// NewKeychainStore returns a Store backed by km.
func NewKeychainStore(km *keychain.Manager) *KeychainStore {
	return &KeychainStore{km: km}
}

// Save writes the tokens and the session state.
func (s *KeychainStore) Save(c Credential) error {
	logging.L().Debug("auth: saving session", logging.Args("account", c.Account()))
	if err := s.km.SaveAuthTokens(c.IDToken, c.RefreshToken); err != nil {
		return err
	}
	b, err := json.MarshalIndent(State{
		SignedIn:  true,
		UserID:    c.UserID,
		Email:     c.Email,
		ExpiresAt: c.ExpiresAt,
	}, "", "  ")
	if err != nil {
		return err
	}
	return s.km.SaveAuthState(b)
}

// Load reads the session back. Missing state yields ok=false.
func (s *KeychainStore) Load() (Credential, bool, error) {
	var c Credential
	data, err := s.km.LoadAuthState()
	if err != nil {
		logging.L().Debug("auth: LoadAuthState failed", logging.Args("error", err))
		return c, false, err
	}
	if len(data) == 0 {
		return c, false, nil
	}
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return c, false, err
	}
	if !st.SignedIn {
		return c, false, nil
	}

	idToken, err := s.km.LoadIDToken()
	if err != nil {
		return c, false, nil
	}
	refresh, err := s.km.LoadRefreshToken()
	if err != nil && !errors.Is(err, keychain.ErrNotFound) {
		return c, false, err
	}
	c = Credential{
		IDToken:      idToken,
		RefreshToken: refresh,
		ExpiresAt:    st.ExpiresAt,
		UserID:       st.UserID,
		Email:        st.Email,
	}
	return c, true, nil
}

// Clear removes tokens and state.
func (s *KeychainStore) Clear() error {
	return s.km.ClearAuth()
}

// MemoryStore keeps the session in process memory only.
type MemoryStore struct {
	cred *Credential
}

func (m *MemoryStore) Save(c Credential) error { m.cred = &c; return nil }

func (m *MemoryStore) Load() (Credential, bool, error) {
	if m.cred == nil {
		return Credential{}, false, nil
	}
	return *m.cred, true, nil
}

func (m *MemoryStore) Clear() error { m.cred = nil; return nil }
