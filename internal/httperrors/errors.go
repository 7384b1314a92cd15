// Copyright (c) 2025 Localarb
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package httperrors turns network failures into messages a user can act on.
package httperrors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"syscall"

	"github.com/pterm/pterm"
)

// Class is the broad cause of a network failure.
type Class int

const (
	Other Class = iota
	Timeout
	DNS
	Refused
	TLS
)

// Classify inspects err for the common network failure causes.
func Classify(err error) Class {
	switch {
	case err == nil:
		return Other
	case isTimeoutError(err):
		return Timeout
	case isDNSError(err):
		return DNS
	case isConnectionRefusedError(err):
		return Refused
	case isSSLError(err):
		return TLS
	default:
		return Other
	}
}

// Summary is a one-line description of a network failure for inline
// status lines.
func Summary(err error) string {
	switch Classify(err) {
	case Timeout:
		return "the server took too long to respond"
	case DNS:
		return "cannot resolve the server address"
	case Refused:
		return "the server refused the connection"
	case TLS:
		return "secure connection failed"
	}
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err.Error()
	}
	return err.Error()
}

// FormatNetworkError prints troubleshooting hints for a network failure
// while doing context against host, and returns err wrapped for logging.
func FormatNetworkError(err error, context, host string) error {
	if err == nil {
		return nil
	}
	displayErrorMessage(err, context, host)
	return fmt.Errorf("network error: %w", err)
}

func displayErrorMessage(err error, context, host string) {
	var title string
	var hints []string
	switch Classify(err) {
	case Timeout:
		title = "⏱️  Connection timeout while " + context
		hints = []string{"Slow internet connection", "Server is under heavy load", "Network firewall is blocking the connection"}
	case DNS:
		title = "🌐 Cannot resolve server address while " + context
		hints = []string{"Your internet connection is working", fmt.Sprintf("%s is spelled correctly (%s)", host, "LOCALARB_API_URL"), "No DNS-level blocking"}
	case Refused:
		title = "🚫 Connection refused while " + context
		hints = []string{"The backend is running and listening on " + host, "Firewall is not blocking the connection", "The server address and port are correct"}
	case TLS:
		title = "🔒 Secure connection failed while " + context
		hints = []string{"SSL/TLS certificate issue", "Network proxy interfering with HTTPS", "System clock is incorrect"}
	default:
		title = "❌ Cannot reach " + host + " while " + context
		hints = []string{"Your internet connection", "Whether " + host + " is accessible from your network"}
	}

	pterm.Println(title)
	pterm.Println()
	pterm.Println("Please check:")
	for _, h := range hints {
		pterm.Println("  • " + h)
	}
	pterm.Println()

	details := err.Error()
	if len(details) > 100 {
		details = details[:100] + "..."
	}
	pterm.Debug.Printf("Technical details: %s\n", details)
}

// isTimeoutError checks if the error is a timeout error.
func isTimeoutError(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded")
}

// isDNSError checks if the error is a DNS resolution error.
func isDNSError(err error) bool {
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}

// isConnectionRefusedError checks if the error is a connection refused error.
func isConnectionRefusedError(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "connection refused")
}

// isSSLError checks if the error is an SSL/TLS error.
func isSSLError(err error) bool {
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "tls") ||
		strings.Contains(errStr, "x509") ||
		strings.Contains(errStr, "certificate") ||
		strings.Contains(errStr, "handshake")
}

// ExtractHostFromURL extracts the hostname from a URL for error messages.
func ExtractHostFromURL(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Host == "" {
		return "server"
	}
	return u.Host
}
