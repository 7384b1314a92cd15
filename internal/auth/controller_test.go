// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/99designs/keyring"
	"github.com/golang-jwt/jwt/v5"

	apperr "localarb/cli/internal/errors"
	"localarb/cli/internal/identity"
	"localarb/cli/internal/keychain"
)

type fakeProvider struct {
	signInErr  error
	signUpErr  error
	refreshErr error
	refreshed  *identity.Tokens

	signInCalls  int
	signUpCalls  int
	refreshCalls int
}

func (f *fakeProvider) SignInWithPassword(_ context.Context, email, _ string) (*identity.Tokens, error) {
	f.signInCalls++
	if f.signInErr != nil {
		return nil, f.signInErr
	}
	return &identity.Tokens{IDToken: "id-signin", RefreshToken: "rt", Email: email}, nil
}

func (f *fakeProvider) SignUp(_ context.Context, email, _ string) (*identity.Tokens, error) {
	f.signUpCalls++
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return &identity.Tokens{IDToken: "id-signup", RefreshToken: "rt", Email: email}, nil
}

func (f *fakeProvider) SignInWithIdp(_ context.Context, googleIDToken string) (*identity.Tokens, error) {
	return &identity.Tokens{IDToken: "id-" + googleIDToken, UserID: "g-user"}, nil
}

func (f *fakeProvider) Refresh(context.Context, string) (*identity.Tokens, error) {
	f.refreshCalls++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshed, nil
}

type fakeGoogle struct{ token string }

func (g fakeGoogle) IDToken(context.Context) (string, error) { return g.token, nil }

func notFound() error {
	return &identity.ProviderError{Status: 400, Code: "EMAIL_NOT_FOUND", Message: "EMAIL_NOT_FOUND"}
}

func TestSignInWithPassword(t *testing.T) {
	tests := []struct {
		name        string
		signInErr   error
		signUpErr   error
		wantSignUps int
		wantToken   string
		wantErr     string
		notWantErr  string
	}{
		{name: "existing account", wantSignUps: 0, wantToken: "id-signin"},
		{name: "unknown email creates account", signInErr: notFound(), wantSignUps: 1, wantToken: "id-signup"},
		{
			name:        "creation failure surfaces creation error only",
			signInErr:   notFound(),
			signUpErr:   &identity.ProviderError{Status: 400, Code: "WEAK_PASSWORD", Message: "WEAK_PASSWORD : Password should be at least 6 characters"},
			wantSignUps: 1,
			wantErr:     "Password should be at least 6 characters",
			notWantErr:  "EMAIL_NOT_FOUND",
		},
		{
			name:        "other sign-in failure is not retried",
			signInErr:   &identity.ProviderError{Status: 400, Code: "INVALID_PASSWORD", Message: "INVALID_PASSWORD"},
			wantSignUps: 0,
			wantErr:     "INVALID_PASSWORD",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &fakeProvider{signInErr: tt.signInErr, signUpErr: tt.signUpErr}
			c := NewController(p, &MemoryStore{})

			err := c.SignInWithPassword(context.Background(), "new@example.com", "pw")
			if p.signUpCalls != tt.wantSignUps {
				t.Errorf("sign-up calls = %d, want %d", p.signUpCalls, tt.wantSignUps)
			}
			if tt.wantErr != "" {
				if err == nil {
					t.Fatal("expected error")
				}
				if !apperr.Is(err, apperr.Auth) {
					t.Errorf("expected auth kind, got %v", err)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("error %q does not contain %q", err, tt.wantErr)
				}
				if tt.notWantErr != "" && strings.Contains(err.Error(), tt.notWantErr) {
					t.Errorf("error %q must not mention %q", err, tt.notWantErr)
				}
				if st, _ := c.Status(); st != SignedOut {
					t.Errorf("status = %v after failed sign-in", st)
				}
				return
			}
			if err != nil {
				t.Fatalf("SignInWithPassword() error: %v", err)
			}
			tok, err := c.Token(context.Background())
			if err != nil || tok != tt.wantToken {
				t.Errorf("Token() = %q, %v; want %q", tok, err, tt.wantToken)
			}
			if st, account := c.Status(); st != SignedIn || account != "new@example.com" {
				t.Errorf("Status() = %v, %q", st, account)
			}
		})
	}
}

func TestTokenWhileSignedOut(t *testing.T) {
	c := NewController(&fakeProvider{}, nil)
	if _, err := c.Token(context.Background()); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("Token() error = %v, want ErrNotSignedIn", err)
	}

	_ = c.SignInWithPassword(context.Background(), "a@example.com", "pw")
	if err := c.SignOut(context.Background()); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Token(context.Background()); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("Token() after sign-out error = %v, want ErrNotSignedIn", err)
	}
}

func TestSignInWithGoogle(t *testing.T) {
	c := NewController(&fakeProvider{}, nil)
	if err := c.SignInWithGoogle(context.Background()); !apperr.Is(err, apperr.Config) {
		t.Fatalf("expected config error without google flow, got %v", err)
	}

	c = NewController(&fakeProvider{}, nil, WithGoogle(fakeGoogle{token: "g"}))
	if err := c.SignInWithGoogle(context.Background()); err != nil {
		t.Fatal(err)
	}
	if tok, _ := c.Token(context.Background()); tok != "id-g" {
		t.Errorf("Token() = %q", tok)
	}
	if _, account := c.Status(); account != "g-user" {
		t.Errorf("account = %q, want user id fallback", account)
	}
}

func TestListenersSeeTransitionsInOrder(t *testing.T) {
	c := NewController(&fakeProvider{}, nil)
	var got []Transition
	c.Subscribe(func(_ context.Context, tr Transition) { got = append(got, tr) })

	ctx := context.Background()
	_ = c.SignInWithPassword(ctx, "a@example.com", "pw")
	_ = c.SignOut(ctx)

	want := []Transition{
		{From: SignedOut, To: SignedIn, Account: "a@example.com"},
		{From: SignedIn, To: SignedOut},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d transitions, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("transition %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func signedJWT(t *testing.T, exp time.Time, sub, email string) string {
	t.Helper()
	claims := idClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestTokenRefreshesNearExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	store := &MemoryStore{}
	_ = store.Save(Credential{
		IDToken:      signedJWT(t, now.Add(30*time.Second), "uid", "a@example.com"),
		RefreshToken: "rt",
	})
	p := &fakeProvider{refreshed: &identity.Tokens{IDToken: "fresh", RefreshToken: "rt2", ExpiresAt: now.Add(time.Hour)}}
	c := NewController(p, store, WithClock(func() time.Time { return now }))

	ok, err := c.Restore(context.Background())
	if err != nil || !ok {
		t.Fatalf("Restore() = %v, %v", ok, err)
	}
	if _, account := c.Status(); account != "a@example.com" {
		t.Errorf("account from claims = %q", account)
	}
	tok, err := c.Token(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if tok != "fresh" || p.refreshCalls != 1 {
		t.Errorf("Token() = %q after %d refreshes", tok, p.refreshCalls)
	}
	saved, _, _ := store.Load()
	if saved.RefreshToken != "rt2" {
		t.Errorf("refreshed pair not persisted: %+v", saved)
	}

	// Fresh now; no second refresh.
	if _, err := c.Token(context.Background()); err != nil || p.refreshCalls != 1 {
		t.Errorf("unexpected refresh: calls=%d err=%v", p.refreshCalls, err)
	}
}

func TestRejectedRefreshSignsOut(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	store := &MemoryStore{}
	_ = store.Save(Credential{IDToken: "old", RefreshToken: "rt", ExpiresAt: now.Add(-time.Minute), Email: "a@example.com"})
	p := &fakeProvider{refreshErr: &identity.ProviderError{Status: 400, Code: "TOKEN_EXPIRED", Message: "TOKEN_EXPIRED"}}
	c := NewController(p, store, WithClock(func() time.Time { return now }))
	if _, err := c.Restore(context.Background()); err != nil {
		t.Fatal(err)
	}

	if _, err := c.Token(context.Background()); !apperr.Is(err, apperr.Auth) {
		t.Fatalf("expected auth error, got %v", err)
	}
	if st, _ := c.Status(); st != SignedOut {
		t.Errorf("status = %v, want signed-out", st)
	}
	if _, ok, _ := store.Load(); ok {
		t.Error("store should be cleared")
	}
}

func TestKeychainStoreRoundTrip(t *testing.T) {
	km := keychain.NewManagerWithRing(keyring.NewArrayKeyring(nil))
	s := NewKeychainStore(km)

	if _, ok, err := s.Load(); ok || err != nil {
		t.Fatalf("empty Load() = %v, %v", ok, err)
	}
	exp := time.Unix(1_700_003_600, 0).UTC()
	in := Credential{IDToken: "id", RefreshToken: "rt", ExpiresAt: exp, UserID: "uid", Email: "a@example.com"}
	if err := s.Save(in); err != nil {
		t.Fatal(err)
	}
	out, ok, err := s.Load()
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	if out.IDToken != in.IDToken || out.RefreshToken != in.RefreshToken || !out.ExpiresAt.Equal(exp) || out.Account() != "a@example.com" {
		t.Errorf("Load() = %+v", out)
	}
	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := s.Load(); ok {
		t.Error("Load() after Clear should be empty")
	}
}

func expiringSession(t *testing.T, now time.Time, p *fakeProvider) (*Controller, *[]Transition, *sync.Mutex) {
	t.Helper()
	store := &MemoryStore{}
	_ = store.Save(Credential{IDToken: "old", RefreshToken: "rt", ExpiresAt: now.Add(30 * time.Second), Email: "a@example.com"})
	c := NewController(p, store, WithClock(func() time.Time { return now }))
	if _, err := c.Restore(context.Background()); err != nil {
		t.Fatal(err)
	}
	var mu sync.Mutex
	var seen []Transition
	c.Subscribe(func(_ context.Context, tr Transition) {
		mu.Lock()
		seen = append(seen, tr)
		mu.Unlock()
	})
	return c, &seen, &mu
}

func concurrentTokens(c *Controller, n int) ([]string, []error) {
	toks, errs := make([]string, n), make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			toks[i], errs[i] = c.Token(context.Background())
		}(i)
	}
	wg.Wait()
	return toks, errs
}

func TestConcurrentTokenCallsShareRefresh(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	p := &fakeProvider{refreshed: &identity.Tokens{IDToken: "fresh", RefreshToken: "rt2", ExpiresAt: now.Add(time.Hour)}}
	c, _, _ := expiringSession(t, now, p)

	toks, errs := concurrentTokens(c, 4)
	for i := range toks {
		if errs[i] != nil || toks[i] != "fresh" {
			t.Errorf("Token() #%d = %q, %v", i, toks[i], errs[i])
		}
	}
	if p.refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want 1", p.refreshCalls)
	}
}

func TestConcurrentRejectedRefreshSignsOutOnce(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	p := &fakeProvider{refreshErr: &identity.ProviderError{Status: 400, Code: "TOKEN_EXPIRED", Message: "TOKEN_EXPIRED"}}
	c, seen, mu := expiringSession(t, now, p)

	_, errs := concurrentTokens(c, 2)
	for i, err := range errs {
		if !apperr.Is(err, apperr.Auth) && !errors.Is(err, ErrNotSignedIn) {
			t.Errorf("Token() #%d error = %v", i, err)
		}
	}
	if p.refreshCalls != 1 {
		t.Errorf("refresh calls = %d, want 1", p.refreshCalls)
	}
	mu.Lock()
	defer mu.Unlock()
	want := []Transition{{From: SignedIn, To: SignedOut}}
	if len(*seen) != 1 || (*seen)[0] != want[0] {
		t.Errorf("transitions = %+v, want %+v", *seen, want)
	}
}

func TestSignOutWhileSignedOutIsSilent(t *testing.T) {
	c := NewController(&fakeProvider{}, nil)
	calls := 0
	c.Subscribe(func(context.Context, Transition) { calls++ })
	if err := c.SignOut(context.Background()); err != nil {
		t.Fatal(err)
	}
	if calls != 0 {
		t.Errorf("listener called %d times for a no-op sign-out", calls)
	}
}
