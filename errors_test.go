// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package fortigate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
)

func TestNotFoundError(t *testing.T) {
	err := error(&NotFoundError{DeviceID: "fw9"})

	if err.Error() != `fortigate: device "fw9" not found` {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrDeviceNotFound) {
		t.Error("errors.Is(err, ErrDeviceNotFound) = false")
	}

	wrapped := fmt.Errorf("sync: %w", err)
	if !errors.Is(wrapped, ErrDeviceNotFound) {
		t.Error("wrapped error lost ErrDeviceNotFound")
	}
	var notFound *NotFoundError
	if !errors.As(wrapped, &notFound) || notFound.DeviceID != "fw9" {
		t.Errorf("errors.As() = %v", notFound)
	}
}

// timeoutErr is a net.Error reporting a timeout
type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

var _ net.Error = timeoutErr{}

func TestTransportError(t *testing.T) {
	tests := []struct {
		name        string
		cause       error
		wantTimeout bool
	}{
		{name: "refused", cause: errors.New("connect: connection refused"), wantTimeout: false},
		{name: "deadline", cause: context.DeadlineExceeded, wantTimeout: true},
		{name: "wrapped deadline", cause: fmt.Errorf("dial: %w", context.DeadlineExceeded), wantTimeout: true},
		{name: "net timeout", cause: timeoutErr{}, wantTimeout: true},
		{name: "canceled", cause: context.Canceled, wantTimeout: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &TransportError{Method: "GET", URL: "https://10.0.0.1/api/v2/monitor/system/status", Err: tt.cause}

			if err.Timeout() != tt.wantTimeout {
				t.Errorf("Timeout() = %v, want %v", err.Timeout(), tt.wantTimeout)
			}
			if !errors.Is(err, tt.cause) {
				t.Error("Unwrap does not expose the cause")
			}
			msg := err.Error()
			if !strings.Contains(msg, "GET https://10.0.0.1/api/v2/monitor/system/status") {
				t.Errorf("Error() = %q, want method and URL", msg)
			}
			if !strings.Contains(msg, tt.cause.Error()) {
				t.Errorf("Error() = %q, want cause %q", msg, tt.cause.Error())
			}
		})
	}
}

func TestHTTPError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantJSON    bool
		wantMessage string
		wantError   string
	}{
		{
			name:        "json error field",
			status:      404,
			body:        `{"error":"not found"}`,
			wantJSON:    true,
			wantMessage: "not found",
			wantError:   "fortigate: GET https://fw/api/v2/x: HTTP 404: not found",
		},
		{
			name:        "cli error preferred",
			status:      500,
			body:        `{"status":"error","error":-3,"cli_error":"entry not found"}`,
			wantJSON:    true,
			wantMessage: "entry not found",
			wantError:   "fortigate: GET https://fw/api/v2/x: HTTP 500: entry not found",
		},
		{
			name:        "json without message",
			status:      403,
			body:        `{"http_status":403}`,
			wantJSON:    true,
			wantMessage: "",
			wantError:   "fortigate: GET https://fw/api/v2/x: HTTP 403",
		},
		{
			name:        "plain text",
			status:      502,
			body:        "Bad Gateway",
			wantJSON:    false,
			wantMessage: "Bad Gateway",
			wantError:   "fortigate: GET https://fw/api/v2/x: HTTP 502: Bad Gateway",
		},
		{
			name:        "long plain text truncated",
			status:      500,
			body:        strings.Repeat("x", 300),
			wantJSON:    false,
			wantMessage: strings.Repeat("x", 200) + "...",
			wantError:   "fortigate: GET https://fw/api/v2/x: HTTP 500: " + strings.Repeat("x", 200) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &HTTPError{Method: "GET", URL: "https://fw/api/v2/x", StatusCode: tt.status, Body: tt.body}

			if err.JSON() != tt.wantJSON {
				t.Errorf("JSON() = %v, want %v", err.JSON(), tt.wantJSON)
			}
			if err.Message() != tt.wantMessage {
				t.Errorf("Message() = %q, want %q", err.Message(), tt.wantMessage)
			}
			if err.Error() != tt.wantError {
				t.Errorf("Error() = %q, want %q", err.Error(), tt.wantError)
			}
			if err.Body != tt.body {
				t.Error("Body not kept verbatim")
			}
		})
	}
}

func TestHTTPErrorValue(t *testing.T) {
	err := &HTTPError{StatusCode: 500, Body: `{"status":"error","error":-5,"revision":"abc"}`}
	if got := err.Value("error").Int(); got != -5 {
		t.Errorf("Value(error) = %d, want -5", got)
	}

	plain := &HTTPError{StatusCode: 500, Body: "oops"}
	if plain.Value("error").Exists() {
		t.Error("Value() on a non-JSON body should be empty")
	}
}

func TestDecodeError(t *testing.T) {
	cause := errors.New("invalid character '<' looking for beginning of value")
	err := &DecodeError{Method: "GET", URL: "https://fw/api/v2/x", StatusCode: 200, Body: "<html>", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("Unwrap does not expose the cause")
	}
	if !strings.Contains(err.Error(), "HTTP 200: invalid JSON response") {
		t.Errorf("Error() = %q", err.Error())
	}
}

// TestErrorKindsAreDistinct checks that each failure maps to exactly one type
func TestErrorKindsAreDistinct(t *testing.T) {
	errs := []error{
		&NotFoundError{DeviceID: "x"},
		&TransportError{Err: errors.New("refused")},
		&HTTPError{StatusCode: 500},
		&DecodeError{Err: errors.New("bad")},
	}

	for i, err := range errs {
		var (
			notFound  *NotFoundError
			transport *TransportError
			httpErr   *HTTPError
			decodeErr *DecodeError
		)
		matches := 0
		for _, ok := range []bool{
			errors.As(err, &notFound),
			errors.As(err, &transport),
			errors.As(err, &httpErr),
			errors.As(err, &decodeErr),
		} {
			if ok {
				matches++
			}
		}
		if matches != 1 {
			t.Errorf("error %d (%T) matched %d kinds, want 1", i, err, matches)
		}
		if i > 0 && errors.Is(err, ErrDeviceNotFound) {
			t.Errorf("%T matches ErrDeviceNotFound", err)
		}
	}
}
