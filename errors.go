// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package fortigate

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/tidwall/gjson"
)

// ErrDeviceNotFound is matched by every NotFoundError via errors.Is
var ErrDeviceNotFound = errors.New("device not found")

// ErrResponseTooLarge is wrapped by the DecodeError of a success response
// that exceeds MaxResponseSize
var ErrResponseTooLarge = errors.New("response body too large")

// NotFoundError is returned by Registry lookups for an unregistered device ID
type NotFoundError struct {
	// DeviceID is the identifier that was looked up
	DeviceID string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("fortigate: device %q not found", e.DeviceID)
}

// Is reports whether target is ErrDeviceNotFound
func (e *NotFoundError) Is(target error) bool {
	return target == ErrDeviceNotFound
}

// TransportError is returned when no HTTP response was obtained from the
// appliance: DNS failure, connection refused, TLS handshake failure, timeout
// or cancellation of the caller's context.
type TransportError struct {
	// Method is the HTTP method of the failed request
	Method string

	// URL is the outgoing request URL (never contains the token)
	URL string

	// Err is the underlying cause
	Err error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("fortigate: %s %s: transport error: %v", e.Method, e.URL, e.Err)
}

// Unwrap returns the underlying cause
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the failure was caused by a deadline
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(e.Err, &netErr) {
		return netErr.Timeout()
	}
	return false
}

// HTTPError is returned for every response with a status code >= 400.
//
// All error statuses map to this single type; inspect StatusCode to tell a
// 404 from a 500.
//
// Example:
//
//	var httpErr *fortigate.HTTPError
//	if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
//	    // object does not exist
//	}
type HTTPError struct {
	// Method is the HTTP method of the failed request
	Method string

	// URL is the outgoing request URL
	URL string

	// StatusCode is the HTTP status returned by the appliance
	StatusCode int

	// Body is the raw response payload, verbatim
	Body string
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	if msg := e.Message(); msg != "" {
		return fmt.Sprintf("fortigate: %s %s: HTTP %d: %s", e.Method, e.URL, e.StatusCode, msg)
	}
	return fmt.Sprintf("fortigate: %s %s: HTTP %d", e.Method, e.URL, e.StatusCode)
}

// JSON reports whether Body is a valid JSON document
func (e *HTTPError) JSON() bool {
	return e.Body != "" && gjson.Valid(e.Body)
}

// Value queries the JSON body with a gjson path.
// Returns an empty result when the body is not JSON.
func (e *HTTPError) Value(path string) gjson.Result {
	if !e.JSON() {
		return gjson.Result{}
	}
	return gjson.Get(e.Body, path)
}

// Message extracts a human-readable message from the appliance payload.
//
// FortiOS reports failures as {"status":"error","error":-5,"cli_error":"..."};
// other appliances use {"error":"..."}. Plain-text bodies are returned as-is
// (truncated).
func (e *HTTPError) Message() string {
	if !e.JSON() {
		return truncate(e.Body, 200)
	}
	for _, path := range []string{"cli_error", "message", "error"} {
		if v := gjson.Get(e.Body, path); v.Exists() && v.Type == gjson.String && v.String() != "" {
			return v.String()
		}
	}
	return ""
}

// DecodeError is returned when a 2xx/3xx response body is not valid JSON
type DecodeError struct {
	// Method is the HTTP method of the request
	Method string

	// URL is the outgoing request URL
	URL string

	// StatusCode is the HTTP status returned by the appliance
	StatusCode int

	// Body is the raw response payload that failed to parse (only a prefix
	// when the response exceeded MaxResponseSize)
	Body string

	// Err describes the decoding failure
	Err error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("fortigate: %s %s: HTTP %d: invalid JSON response: %v", e.Method, e.URL, e.StatusCode, e.Err)
}

// Unwrap returns the decoding failure
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// truncate shortens s to at most n bytes for error messages
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
