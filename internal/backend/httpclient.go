// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	apperr "localarb/cli/internal/errors"
	"localarb/cli/internal/logging"
	"localarb/cli/internal/manifest"
)

// UserAgent is sent with every request.
var UserAgent = "localarb-cli"

// HTTP implements API over the backend's REST endpoints.
type HTTP struct {
	// baseURL is the base URL for all HTTP requests (e.g., "http://localhost:8000")
	baseURL string
	// endpoints contains the URL paths for the API endpoints
	endpoints manifest.HTTPEndpoints
	// client is the underlying HTTP client with configured timeout
	client *http.Client
	tokens TokenSource
}

// Option customises the HTTP client.
type Option func(*HTTP)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option { return func(h *HTTP) { h.client = c } }

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTP) {
		if d > 0 {
			h.client = &http.Client{Timeout: d}
		}
	}
}

// newHTTP creates a new HTTP client with the given base URL and endpoints.
// It configures a 30-second timeout unless an option says otherwise.
func newHTTP(baseURL string, endpoints manifest.HTTPEndpoints, tokens TokenSource, opts ...Option) *HTTP {
	h := &HTTP{
		baseURL:   strings.TrimRight(baseURL, "/"),
		endpoints: endpoints,
		client:    &http.Client{Timeout: 30 * time.Second},
		tokens:    tokens,
	}
	for _, o := range opts {
		o(h)
	}
	return h
}

// setStandardHeaders stamps the headers every request carries.
func (h *HTTP) setStandardHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("X-Request-ID", uuid.NewString())
}

// do performs one authenticated request. The token is obtained first, so a
// signed-out session never reaches the network. in, when non-nil, is sent as
// JSON; out, when non-nil, receives the decoded 2xx body.
func (h *HTTP) do(ctx context.Context, method, path string, in, out any) error {
	token, err := h.tokens.Token(ctx)
	if err != nil {
		return err
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, body)
	if err != nil {
		return err
	}
	h.setStandardHeaders(req)
	req.Header.Set("Authorization", "Bearer "+token)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logging.L().Trace("backend: request", logging.Args("method", method, "path", path, "request_id", req.Header.Get("X-Request-ID")))
	resp, err := h.client.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.Transport, method+" "+path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Wrap(apperr.Transport, method+" "+path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logging.L().Debug("backend: request failed", logging.Args("path", path, "status", resp.StatusCode))
		return apperr.Wrap(apperr.Request, method+" "+path, parseAPIError(resp.StatusCode, raw))
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return apperr.Wrap(apperr.Transport, fmt.Sprintf("decode %s response", path), err)
	}
	return nil
}
