// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package view

import (
	"context"
	"errors"

	"localarb/cli/internal/auth"
	"localarb/cli/internal/backend"
	apperr "localarb/cli/internal/errors"
	"localarb/cli/internal/httperrors"
	"localarb/cli/internal/identity"
	"localarb/cli/internal/logging"
)

// ErrorMessage picks the user-facing text for err: the backend's detail or
// fallback for request failures, the provider's message verbatim for
// sign-in failures, a short network summary for transport failures.
func ErrorMessage(err error, fallback string) string {
	if err == nil {
		return fallback
	}
	var ae *backend.APIError
	if errors.As(err, &ae) {
		return ae.Message(fallback)
	}
	var pe *identity.ProviderError
	if errors.As(err, &pe) {
		return pe.Message
	}
	if errors.Is(err, auth.ErrNotSignedIn) {
		return "Not signed in. Run: localarb login"
	}
	if apperr.Is(err, apperr.Transport) {
		return httperrors.Summary(err)
	}
	var e *apperr.E
	if errors.As(err, &e) && e.Kind == apperr.Task {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return e.Message + " (timed out)"
		case errors.Is(err, context.Canceled):
			return e.Message + " (cancelled)"
		case e.Err == nil:
			return e.Message
		}
	}
	return logging.Mask(err.Error())
}
