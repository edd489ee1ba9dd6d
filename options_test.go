// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package fortigate

import (
	"net/http"
	"net/url"
	"testing"
	"time"
)

// TestVerifyCertificateOption tests the VerifyCertificate functional option
func TestVerifyCertificateOption(t *testing.T) {
	tests := []struct {
		name   string
		verify bool
	}{
		{name: "verification enabled", verify: true},
		{name: "verification disabled", verify: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &Client{}
			VerifyCertificate(tt.verify)(client)

			if client.verifyCertificate != tt.verify {
				t.Errorf("VerifyCertificate() set verifyCertificate to %v, want %v", client.verifyCertificate, tt.verify)
			}
		})
	}
}

// TestTLSCAOption tests the TLSCA functional option
func TestTLSCAOption(t *testing.T) {
	client := &Client{}
	TLSCA("/etc/fortigate/ca.pem")(client)

	if client.tlsCA != "/etc/fortigate/ca.pem" {
		t.Errorf("TLSCA() set tlsCA to %q, want %q", client.tlsCA, "/etc/fortigate/ca.pem")
	}
}

// TestRequestTimeoutOption tests the RequestTimeout functional option
func TestRequestTimeoutOption(t *testing.T) {
	tests := []struct {
		name    string
		timeout time.Duration
	}{
		{name: "default timeout", timeout: DefaultRequestTimeout},
		{name: "short timeout", timeout: 5 * time.Second},
		{name: "long timeout", timeout: 2 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &Client{}
			RequestTimeout(tt.timeout)(client)

			if client.requestTimeout != tt.timeout {
				t.Errorf("RequestTimeout() set requestTimeout to %v, want %v", client.requestTimeout, tt.timeout)
			}
		})
	}
}

func TestUserAgentOption(t *testing.T) {
	client := &Client{}
	UserAgent("fleet-sync/1.0")(client)

	if client.userAgent != "fleet-sync/1.0" {
		t.Errorf("UserAgent() set userAgent to %q", client.userAgent)
	}
}

func TestWithHTTPClientOption(t *testing.T) {
	custom := &http.Client{Timeout: time.Second}

	client, err := NewClient("10.0.0.1", "T1", WithHTTPClient(custom))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	if client.httpClient != custom {
		t.Error("WithHTTPClient() did not install the custom client")
	}

	plain := &Client{}
	WithHTTPClient(nil)(plain)
	if plain.customHTTPClient {
		t.Error("WithHTTPClient(nil) should be ignored")
	}
}

// TestWithLoggerOption tests the WithLogger functional option
func TestWithLoggerOption(t *testing.T) {
	customLogger := NewDefaultLogger(LogLevelDebug)
	client := &Client{logger: &NoOpLogger{}}
	WithLogger(customLogger)(client)

	if client.logger != customLogger {
		t.Error("WithLogger() did not set custom logger")
	}

	WithLogger(nil)(client)
	if client.logger != customLogger {
		t.Error("WithLogger(nil) should keep the existing logger")
	}
}

// TestWithPrettyPrintLogsOption tests the WithPrettyPrintLogs functional option
func TestWithPrettyPrintLogsOption(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		client := &Client{}
		WithPrettyPrintLogs(enabled)(client)

		if client.prettyPrintLogs != enabled {
			t.Errorf("WithPrettyPrintLogs(%v) set prettyPrintLogs to %v", enabled, client.prettyPrintLogs)
		}
	}
}

func TestRegistryOptions(t *testing.T) {
	logger := NewDefaultLogger(LogLevelInfo)
	registry := NewRegistry(
		RegistryLogger(logger),
		ClientOptions(RequestTimeout(time.Second)),
		ClientOptions(UserAgent("ua")),
	)

	if registry.logger != logger {
		t.Error("RegistryLogger() did not set the logger")
	}
	if len(registry.clientOpts) != 2 {
		t.Errorf("ClientOptions() accumulated %d options, want 2", len(registry.clientOpts))
	}
}

// TestVdomRequestModifier tests the Vdom request modifier
func TestVdomRequestModifier(t *testing.T) {
	tests := []struct {
		name string
		vdom string
	}{
		{name: "root", vdom: "root"},
		{name: "named partition", vdom: "dmz"},
		{name: "empty", vdom: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := &Req{Vdom: DefaultVdom}
			Vdom(tt.vdom)(req)

			if req.Vdom != tt.vdom {
				t.Errorf("Vdom() set Vdom to %q, want %q", req.Vdom, tt.vdom)
			}
		})
	}
}

func TestQueryRequestModifier(t *testing.T) {
	req := &Req{}
	Query("filter", "name==web01")(req)
	Query("filter", "type==ipmask")(req)
	Query("count", "10")(req)

	if got := req.Query["filter"]; len(got) != 2 {
		t.Errorf("filter values = %v, want 2 entries", got)
	}
	if req.Query.Get("count") != "10" {
		t.Errorf("count = %q, want 10", req.Query.Get("count"))
	}
}

func TestParamsRequestModifier(t *testing.T) {
	req := &Req{}
	Query("count", "10")(req)
	Params(url.Values{"start": {"0"}, "count": {"20"}})(req)
	Params(nil)(req)

	if got := req.Query["count"]; len(got) != 2 || got[0] != "10" || got[1] != "20" {
		t.Errorf("count = %v, want [10 20]", got)
	}
	if req.Query.Get("start") != "0" {
		t.Errorf("start = %q, want 0", req.Query.Get("start"))
	}
}

func TestDataRequestModifier(t *testing.T) {
	req := &Req{}
	Data(`{"name":"web01"}`)(req)

	if req.Data != `{"name":"web01"}` {
		t.Errorf("Data() set Data to %q", req.Data)
	}
}

// TestOptionsCombination tests applying several options through NewClient
func TestOptionsCombination(t *testing.T) {
	logger := NewDefaultLogger(LogLevelError)
	client, err := NewClient("fw.example.net:8443", "T1",
		RequestTimeout(10*time.Second),
		UserAgent("fleet-sync"),
		WithLogger(logger),
		WithPrettyPrintLogs(true),
	)
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}

	if client.RequestTimeout() != 10*time.Second {
		t.Errorf("RequestTimeout() = %v", client.RequestTimeout())
	}
	if client.userAgent != "fleet-sync" {
		t.Errorf("userAgent = %q", client.userAgent)
	}
	if client.logger != logger {
		t.Error("logger not applied")
	}
	if !client.prettyPrintLogs {
		t.Error("prettyPrintLogs not applied")
	}
	if client.BaseURL() != "https://fw.example.net:8443/api/v2" {
		t.Errorf("BaseURL() = %q", client.BaseURL())
	}
}
