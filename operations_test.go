// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package fortigate

import (
	"strings"
	"testing"
)

func TestCmdbAndMonitor(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"cmdb table", Cmdb("firewall/policy"), "cmdb/firewall/policy"},
		{"cmdb with key", Cmdb("firewall/policy", "10"), "cmdb/firewall/policy/10"},
		{"cmdb escaped key", Cmdb("firewall/address", "h/1 a"), "cmdb/firewall/address/h%2F1%20a"},
		{"cmdb trimmed path", Cmdb("/router/static/"), "cmdb/router/static"},
		{"monitor", Monitor("system/status"), "monitor/system/status"},
		{"monitor nested key", Monitor("router/ipv4", "a", "b"), "monitor/router/ipv4/a/b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestValidateEndpoint(t *testing.T) {
	tests := []struct {
		name       string
		endpoint   string
		wantErrMsg string
	}{
		{"valid cmdb", "cmdb/firewall/policy", ""},
		{"valid escaped key", "cmdb/firewall/address/h%2F1", ""},
		{"dots inside segment", "cmdb/system/..hidden", ""},
		{"empty", "", "endpoint cannot be empty"},
		{"too long", "cmdb/" + strings.Repeat("a", MaxEndpointLength), "exceeds maximum length"},
		{"null byte", "cmdb/\x00", "null byte at position 5"},
		{"query", "cmdb/firewall/policy?vdom=dmz", "must not contain a query or fragment"},
		{"fragment", "cmdb/firewall/policy#x", "must not contain a query or fragment"},
		{"parent segment", "cmdb/../../etc", `relative path segment ".."`},
		{"current segment", "cmdb/./firewall", `relative path segment "."`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateEndpoint(tt.endpoint)
			if tt.wantErrMsg == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErrMsg) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErrMsg)
			}
		})
	}
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name       string
		req        Req
		wantErrMsg string
	}{
		{
			name: "get without body",
			req:  Req{Method: MethodGet, Endpoint: "cmdb/firewall/policy", Vdom: "root"},
		},
		{
			name: "post with body",
			req:  Req{Method: MethodPost, Endpoint: "cmdb/firewall/address", Vdom: "dmz", Data: `{"name":"a"}`},
		},
		{
			name:       "lowercase method rejected",
			req:        Req{Method: "get", Endpoint: "cmdb/firewall/policy"},
			wantErrMsg: "unsupported method",
		},
		{
			name:       "patch rejected",
			req:        Req{Method: "PATCH", Endpoint: "cmdb/firewall/policy"},
			wantErrMsg: "unsupported method",
		},
		{
			name:       "vdom whitespace",
			req:        Req{Method: MethodGet, Endpoint: "cmdb/firewall/policy", Vdom: "dmz "},
			wantErrMsg: "vdom contains surrounding whitespace",
		},
		{
			name:       "body too large",
			req:        Req{Method: MethodPost, Endpoint: "cmdb/firewall/address", Data: `"` + strings.Repeat("a", MaxBodySize) + `"`},
			wantErrMsg: "body size exceeds maximum",
		},
		{
			name:       "invalid body",
			req:        Req{Method: MethodPut, Endpoint: "cmdb/firewall/address/a", Data: `{name: a}`},
			wantErrMsg: "invalid JSON body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateRequest(&tt.req)
			if tt.wantErrMsg == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErrMsg) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErrMsg)
			}
		})
	}
}

// BenchmarkValidateRequest benchmarks request validation
func BenchmarkValidateRequest(b *testing.B) {
	req := Req{
		Method:   MethodPost,
		Endpoint: "cmdb/firewall/policy",
		Vdom:     "dmz",
		Data:     `{"name":"allow-web","srcintf":[{"name":"port1"}],"action":"accept"}`,
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = validateRequest(&req)
	}
}
