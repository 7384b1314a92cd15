// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package identity

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

// GoogleFlow runs the OAuth2 authorization-code flow with PKCE on a loopback
// redirect and returns Google's ID token for SignInWithIdp.
type GoogleFlow struct {
	ClientID     string
	ClientSecret string
	// Endpoint defaults to Google's production endpoints.
	Endpoint oauth2.Endpoint
	// Open shows the consent URL to the user (usually by launching a browser).
	Open func(authURL string)
	// ListenAddr defaults to 127.0.0.1:0.
	ListenAddr string
}

type callbackResult struct {
	code string
	err  error
}

// IDToken blocks until the user finishes consent in the browser or ctx ends.
func (g *GoogleFlow) IDToken(ctx context.Context) (string, error) {
	if g.ClientID == "" {
		return "", errors.New("google sign-in is not configured (missing client id)")
	}
	addr := g.ListenAddr
	if addr == "" {
		addr = "127.0.0.1:0"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("start loopback listener: %w", err)
	}

	endpoint := g.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = endpoints.Google
	}
	conf := &oauth2.Config{
		ClientID:     g.ClientID,
		ClientSecret: g.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  "http://" + ln.Addr().String() + "/callback",
		Scopes:       []string{"openid", "email", "profile"},
	}

	state := uuid.NewString()
	verifier := oauth2.GenerateVerifier()
	results := make(chan callbackResult, 1)

	r := mux.NewRouter()
	r.HandleFunc("/callback", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query()
		var res callbackResult
		switch {
		case q.Get("state") != state:
			res.err = errors.New("sign-in response did not match this request")
		case q.Get("error") != "":
			res.err = fmt.Errorf("google sign-in failed: %s", q.Get("error"))
		case q.Get("code") == "":
			res.err = errors.New("google sign-in returned no authorization code")
		default:
			res.code = q.Get("code")
		}
		if res.err != nil {
			http.Error(w, res.err.Error(), http.StatusBadRequest)
		} else {
			fmt.Fprintln(w, "Signed in. You can close this window and return to the terminal.")
		}
		select {
		case results <- res:
		default:
		}
	}).Methods(http.MethodGet)

	srv := &http.Server{Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() { _ = srv.Serve(ln) }()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	authURL := conf.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))
	if g.Open != nil {
		g.Open(authURL)
	}

	var res callbackResult
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res = <-results:
	}
	if res.err != nil {
		return "", res.err
	}

	tok, err := conf.Exchange(ctx, res.code, oauth2.VerifierOption(verifier))
	if err != nil {
		return "", fmt.Errorf("exchange authorization code: %w", err)
	}
	idToken, _ := tok.Extra("id_token").(string)
	if idToken == "" {
		return "", errors.New("google did not return an id token")
	}
	return idToken, nil
}
