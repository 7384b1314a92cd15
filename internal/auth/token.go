// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// idClaims are the ID token claims the client reads for display and refresh
// scheduling. Signature verification is the backend's job.
type idClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// inspectIDToken reads the expiry, subject and email of an ID token without
// verifying it. ok is false when the token is not a parseable JWT.
func inspectIDToken(idToken string) (exp time.Time, subject, email string, ok bool) {
	var claims idClaims
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, &claims); err != nil {
		return time.Time{}, "", "", false
	}
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return exp, claims.Subject, claims.Email, true
}
