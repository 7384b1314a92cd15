// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package auth is the session controller. It owns the one session container
// of a CLI process: the sign-in status and the most recently issued bearer
// credential. Sign-in, sign-out, restore and refresh are its only transitions,
// and listeners are told about every one of them in order.
package auth

import (
	"context"
	"errors"
	"sync"
	"time"

	apperr "localarb/cli/internal/errors"
	"localarb/cli/internal/identity"
	"localarb/cli/internal/logging"
)

// ErrNotSignedIn is returned by every authenticated action while signed out.
var ErrNotSignedIn = errors.New("not signed in")

// Status is the sign-in status of the session.
type Status int

const (
	SignedOut Status = iota
	SignedIn
)

func (s Status) String() string {
	if s == SignedIn {
		return "signed-in"
	}
	return "signed-out"
}

// Credential is the bearer credential issued by the identity provider.
type Credential struct {
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
	UserID       string
	Email        string
}

// Account is the identifier shown to the user: email, else user id.
func (c Credential) Account() string {
	if c.Email != "" {
		return c.Email
	}
	return c.UserID
}

// Transition describes one session state change.
type Transition struct {
	From    Status
	To      Status
	Account string
}

// Listener is notified after every transition.
type Listener func(ctx context.Context, t Transition)

// GoogleSignIn yields a Google ID token for federated sign-in.
type GoogleSignIn interface {
	IDToken(ctx context.Context) (string, error)
}

// Controller is the session controller.
type Controller struct {
	idp    identity.Provider
	google GoogleSignIn
	store  Store
	now    func() time.Time
	skew   time.Duration

	// refreshMu serializes refreshes; mu guards the fields below it.
	refreshMu sync.Mutex

	mu        sync.Mutex
	status    Status
	cred      Credential
	listeners []Listener
}

// Option customises a Controller.
type Option func(*Controller)

// WithGoogle enables federated sign-in.
func WithGoogle(g GoogleSignIn) Option { return func(c *Controller) { c.google = g } }

// WithClock replaces time.Now (tests).
func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

// NewController creates a signed-out controller.
func NewController(idp identity.Provider, store Store, opts ...Option) *Controller {
	c := &Controller{
		idp:   idp,
		store: store,
		now:   time.Now,
		skew:  2 * time.Minute,
	}
	for _, o := range opts {
		o(c)
	}
	if c.store == nil {
		c.store = &MemoryStore{}
	}
	return c
}

// Subscribe registers a listener for future transitions.
func (c *Controller) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// Status returns the current status and account identifier.
func (c *Controller) Status() (Status, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status, c.cred.Account()
}

// SignInWithPassword signs in with email and password. An unknown email is
// registered with the same credentials, once; only the registration error is
// reported if that fails too.
func (c *Controller) SignInWithPassword(ctx context.Context, email, password string) error {
	tok, err := c.idp.SignInWithPassword(ctx, email, password)
	if errors.Is(err, identity.ErrAccountNotFound) {
		logging.L().Debug("auth: no account for email, creating one", logging.Args("email", email))
		tok, err = c.idp.SignUp(ctx, email, password)
	}
	if err != nil {
		return apperr.Wrap(apperr.Auth, "sign in", err)
	}
	return c.signedIn(ctx, tok)
}

// SignInWithGoogle runs the federated flow and exchanges the result at the
// identity provider.
func (c *Controller) SignInWithGoogle(ctx context.Context) error {
	if c.google == nil {
		return apperr.New(apperr.Config, "google sign-in is not configured")
	}
	googleID, err := c.google.IDToken(ctx)
	if err != nil {
		return apperr.Wrap(apperr.Auth, "google sign-in", err)
	}
	tok, err := c.idp.SignInWithIdp(ctx, googleID)
	if err != nil {
		return apperr.Wrap(apperr.Auth, "google sign-in", err)
	}
	return c.signedIn(ctx, tok)
}

func (c *Controller) signedIn(ctx context.Context, tok *identity.Tokens) error {
	cred := Credential{
		IDToken:      tok.IDToken,
		RefreshToken: tok.RefreshToken,
		ExpiresAt:    tok.ExpiresAt,
		UserID:       tok.UserID,
		Email:        tok.Email,
	}
	fillFromClaims(&cred)
	if err := c.store.Save(cred); err != nil {
		// The session still works for this process.
		logging.L().Warn("could not persist session", logging.Args("error", err))
	}

	c.mu.Lock()
	t := Transition{From: c.status, To: SignedIn, Account: cred.Account()}
	c.status = SignedIn
	c.cred = cred
	c.mu.Unlock()

	c.notify(ctx, t)
	return nil
}

// Restore resumes a session persisted by an earlier invocation. It reports
// whether a session was found.
func (c *Controller) Restore(ctx context.Context) (bool, error) {
	cred, ok, err := c.store.Load()
	if err != nil || !ok {
		return false, err
	}
	fillFromClaims(&cred)

	c.mu.Lock()
	t := Transition{From: c.status, To: SignedIn, Account: cred.Account()}
	c.status = SignedIn
	c.cred = cred
	c.mu.Unlock()

	c.notify(ctx, t)
	return true, nil
}

// SignOut drops the credential and clears persisted secrets. Listeners are
// not told when the session was already signed out.
func (c *Controller) SignOut(ctx context.Context) error {
	c.mu.Lock()
	t := Transition{From: c.status, To: SignedOut}
	c.status = SignedOut
	c.cred = Credential{}
	c.mu.Unlock()

	err := c.store.Clear()
	if t.From != t.To {
		c.notify(ctx, t)
	}
	return err
}

// Token returns the current bearer token, refreshing it first when it is
// about to expire. It returns ErrNotSignedIn while signed out. Concurrent
// callers share one refresh.
func (c *Controller) Token(ctx context.Context) (string, error) {
	if tok, ok, err := c.current(); err != nil || ok {
		return tok, err
	}

	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	// Another caller may have refreshed or signed out while this one waited.
	tok, ok, err := c.current()
	if err != nil || ok {
		return tok, err
	}
	c.mu.Lock()
	refreshToken := c.cred.RefreshToken
	c.mu.Unlock()

	fresh, err := c.idp.Refresh(ctx, refreshToken)
	if err != nil {
		var pe *identity.ProviderError
		if errors.As(err, &pe) {
			// The provider rejected the refresh token; the session is over.
			_ = c.SignOut(ctx)
			return "", apperr.Wrap(apperr.Auth, "session expired, sign in again", err)
		}
		return "", apperr.Wrap(apperr.Transport, "refresh credential", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != SignedIn {
		return "", ErrNotSignedIn
	}
	c.cred.IDToken = fresh.IDToken
	c.cred.ExpiresAt = fresh.ExpiresAt
	if fresh.RefreshToken != "" {
		c.cred.RefreshToken = fresh.RefreshToken
	}
	if err := c.store.Save(c.cred); err != nil {
		logging.L().Warn("could not persist refreshed credential", logging.Args("error", err))
	}
	return c.cred.IDToken, nil
}

// current returns the ID token when it can be used as is. ok is false when
// a refresh is due.
func (c *Controller) current() (tok string, ok bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.status != SignedIn {
		return "", false, ErrNotSignedIn
	}
	fresh := c.cred.ExpiresAt.IsZero() || c.now().Add(c.skew).Before(c.cred.ExpiresAt)
	if fresh || c.cred.RefreshToken == "" {
		return c.cred.IDToken, true, nil
	}
	return "", false, nil
}

func (c *Controller) notify(ctx context.Context, t Transition) {
	c.mu.Lock()
	ls := append([]Listener(nil), c.listeners...)
	c.mu.Unlock()
	logging.L().Debug("auth: transition", logging.Args("from", t.From.String(), "to", t.To.String()))
	for _, l := range ls {
		l(ctx, t)
	}
}

// fillFromClaims fills expiry and identity gaps from the ID token itself.
func fillFromClaims(c *Credential) {
	exp, sub, email, ok := inspectIDToken(c.IDToken)
	if !ok {
		return
	}
	if c.ExpiresAt.IsZero() || (!exp.IsZero() && exp.Before(c.ExpiresAt)) {
		c.ExpiresAt = exp
	}
	if c.UserID == "" {
		c.UserID = sub
	}
	if c.Email == "" {
		c.Email = email
	}
}
