// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package identity talks to the identity provider (Firebase Authentication)
// over its public REST API. It issues and refreshes the ID tokens the backend
// accepts as bearer credentials; it never inspects the backend itself.
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Default Google endpoints for Firebase Authentication.
const (
	DefaultIdentityToolkitURL = "https://identitytoolkit.googleapis.com/v1"
	DefaultSecureTokenURL     = "https://securetoken.googleapis.com/v1"
)

// ErrAccountNotFound is matched (errors.Is) by a *ProviderError whose code
// says the email has no account.
var ErrAccountNotFound = errors.New("identity: account not found")

// Provider is the subset of the identity provider the session controller uses.
type Provider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*Tokens, error)
	SignUp(ctx context.Context, email, password string) (*Tokens, error)
	SignInWithIdp(ctx context.Context, googleIDToken string) (*Tokens, error)
	Refresh(ctx context.Context, refreshToken string) (*Tokens, error)
}

// Tokens is a credential issued by the provider.
type Tokens struct {
	IDToken      string
	RefreshToken string
	ExpiresAt    time.Time
	UserID       string
	Email        string
}

// ProviderError is the provider's rejection. Message is shown to the user
// verbatim.
type ProviderError struct {
	Status  int
	Code    string
	Message string
}

func (e *ProviderError) Error() string { return e.Message }

// Is maps provider codes onto sentinel errors.
func (e *ProviderError) Is(target error) bool {
	return target == ErrAccountNotFound && e.Code == "EMAIL_NOT_FOUND"
}

// Firebase implements Provider over the Identity Toolkit REST API.
type Firebase struct {
	apiKey      string
	toolkitURL  string
	secureToken string
	client      *http.Client
	now         func() time.Time
}

// Option customises a Firebase client.
type Option func(*Firebase)

// WithBaseURLs points the client at alternative endpoints (emulator, tests).
func WithBaseURLs(toolkit, secureToken string) Option {
	return func(f *Firebase) {
		f.toolkitURL = strings.TrimRight(toolkit, "/")
		f.secureToken = strings.TrimRight(secureToken, "/")
	}
}

// WithHTTPClient replaces the default 15-second-timeout client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Firebase) { f.client = c }
}

// NewFirebase creates a client for the Firebase project identified by apiKey.
func NewFirebase(apiKey string, opts ...Option) *Firebase {
	f := &Firebase{
		apiKey:      apiKey,
		toolkitURL:  DefaultIdentityToolkitURL,
		secureToken: DefaultSecureTokenURL,
		client:      &http.Client{Timeout: 15 * time.Second},
		now:         time.Now,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// accountResponse is shared by signInWithPassword, signUp and signInWithIdp.
type accountResponse struct {
	IDToken      string `json:"idToken"`
	RefreshToken string `json:"refreshToken"`
	ExpiresIn    string `json:"expiresIn"`
	LocalID      string `json:"localId"`
	Email        string `json:"email"`
}

// SignInWithPassword calls accounts:signInWithPassword.
func (f *Firebase) SignInWithPassword(ctx context.Context, email, password string) (*Tokens, error) {
	return f.account(ctx, "accounts:signInWithPassword", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

// SignUp calls accounts:signUp, creating a password account.
func (f *Firebase) SignUp(ctx context.Context, email, password string) (*Tokens, error) {
	return f.account(ctx, "accounts:signUp", map[string]any{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
}

// SignInWithIdp exchanges a Google ID token for a Firebase credential.
func (f *Firebase) SignInWithIdp(ctx context.Context, googleIDToken string) (*Tokens, error) {
	post := url.Values{}
	post.Set("id_token", googleIDToken)
	post.Set("providerId", "google.com")
	return f.account(ctx, "accounts:signInWithIdp", map[string]any{
		"postBody":            post.Encode(),
		"requestUri":          "http://localhost",
		"returnIdpCredential": true,
		"returnSecureToken":   true,
	})
}

func (f *Firebase) account(ctx context.Context, method string, body map[string]any) (*Tokens, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	endpoint := f.toolkitURL + "/" + method + "?key=" + url.QueryEscape(f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var out accountResponse
	if err := f.do(req, &out); err != nil {
		return nil, err
	}
	if out.IDToken == "" {
		return nil, errors.New("identity provider returned no id token")
	}
	return &Tokens{
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresAt:    f.expiry(out.ExpiresIn),
		UserID:       out.LocalID,
		Email:        out.Email,
	}, nil
}

// Refresh exchanges a refresh token at the secure token service.
func (f *Firebase) Refresh(ctx context.Context, refreshToken string) (*Tokens, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)
	endpoint := f.secureToken + "/token?key=" + url.QueryEscape(f.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out struct {
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
		UserID       string `json:"user_id"`
	}
	if err := f.do(req, &out); err != nil {
		return nil, err
	}
	if out.IDToken == "" {
		return nil, errors.New("identity provider returned no id token")
	}
	return &Tokens{
		IDToken:      out.IDToken,
		RefreshToken: out.RefreshToken,
		ExpiresAt:    f.expiry(out.ExpiresIn),
		UserID:       out.UserID,
	}, nil
}

func (f *Firebase) do(req *http.Request, out any) error {
	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseProviderError(resp.StatusCode, body)
	}
	return json.Unmarshal(body, out)
}

// parseProviderError decodes {"error": {"code": 400, "message": "EMAIL_NOT_FOUND"}}.
// Messages may carry a suffix ("WEAK_PASSWORD : Password should be ...");
// the code is the part before " : ".
func parseProviderError(status int, body []byte) *ProviderError {
	var env struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil || env.Error.Message == "" {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = fmt.Sprintf("identity provider returned %d", status)
		}
		return &ProviderError{Status: status, Message: msg}
	}
	code := env.Error.Message
	if i := strings.Index(code, " : "); i >= 0 {
		code = code[:i]
	}
	return &ProviderError{Status: status, Code: strings.TrimSpace(code), Message: env.Error.Message}
}

func (f *Firebase) expiry(expiresIn string) time.Time {
	secs, err := strconv.Atoi(strings.TrimSpace(expiresIn))
	if err != nil || secs <= 0 {
		secs = 3600
	}
	return f.now().Add(time.Duration(secs) * time.Second)
}
