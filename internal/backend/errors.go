// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

package backend

import (
	"encoding/json"
	"fmt"
	"strings"
)

// APIError is a non-2xx backend response. Detail is the body's "detail"
// field when it is a string; it is empty otherwise.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("backend returned status %d", e.Status)
}

// Message returns Detail, or fallback when the backend gave none.
func (e *APIError) Message(fallback string) string {
	if e.Detail != "" {
		return e.Detail
	}
	return fallback
}

// parseAPIError decodes {"detail": "..."}; FastAPI validation errors carry a
// list in detail, which falls back to the caller's generic message.
func parseAPIError(status int, body []byte) *APIError {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	e := &APIError{Status: status}
	if json.Unmarshal(body, &env) != nil || len(env.Detail) == 0 {
		return e
	}
	var s string
	if json.Unmarshal(env.Detail, &s) == nil {
		e.Detail = strings.TrimSpace(s)
	}
	return e
}
