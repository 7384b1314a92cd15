// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package identity

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/oauth2"
)

// fakeBrowser follows the consent URL straight to the loopback redirect, as
// if the user had approved.
func fakeBrowser(t *testing.T, code string, tamperState bool) func(string) {
	return func(authURL string) {
		u, err := url.Parse(authURL)
		if err != nil {
			t.Errorf("bad auth URL: %v", err)
			return
		}
		q := u.Query()
		if q.Get("code_challenge") == "" || q.Get("code_challenge_method") != "S256" {
			t.Errorf("expected PKCE challenge in %s", authURL)
		}
		state := q.Get("state")
		if tamperState {
			state = "other"
		}
		cb := q.Get("redirect_uri") + "?" + url.Values{"code": {code}, "state": {state}}.Encode()
		go func() {
			resp, err := http.Get(cb)
			if err == nil {
				resp.Body.Close()
			}
		}()
	}
}

func newFakeTokenServer(t *testing.T) *httptest.Server {
	r := mux.NewRouter()
	r.HandleFunc("/token", func(w http.ResponseWriter, req *http.Request) {
		_ = req.ParseForm()
		if req.PostForm.Get("code") != "auth-code" {
			http.Error(w, `{"error":"invalid_grant"}`, http.StatusBadRequest)
			return
		}
		if req.PostForm.Get("code_verifier") == "" {
			t.Error("missing PKCE verifier in token exchange")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"at","token_type":"Bearer","expires_in":3600,"id_token":"google-id-token"}`))
	}).Methods(http.MethodPost)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestGoogleFlowReturnsIDToken(t *testing.T) {
	srv := newFakeTokenServer(t)
	flow := &GoogleFlow{
		ClientID: "client",
		Endpoint: oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"},
		Open:     fakeBrowser(t, "auth-code", false),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := flow.IDToken(ctx)
	if err != nil {
		t.Fatalf("IDToken() error: %v", err)
	}
	if got != "google-id-token" {
		t.Errorf("IDToken() = %q", got)
	}
}

func TestGoogleFlowRejectsForeignState(t *testing.T) {
	srv := newFakeTokenServer(t)
	flow := &GoogleFlow{
		ClientID: "client",
		Endpoint: oauth2.Endpoint{AuthURL: srv.URL + "/auth", TokenURL: srv.URL + "/token"},
		Open:     fakeBrowser(t, "auth-code", true),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := flow.IDToken(ctx); err == nil {
		t.Fatal("expected state mismatch error")
	}
}

func TestGoogleFlowRequiresClientID(t *testing.T) {
	if _, err := (&GoogleFlow{}).IDToken(context.Background()); err == nil {
		t.Fatal("expected configuration error")
	}
}
