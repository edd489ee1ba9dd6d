// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package fortigate

import (
	"encoding/json"

	"github.com/tidwall/gjson"
)

// Res represents a successful appliance response
//
// The whole JSON document is kept; the conventional "results" payload is
// available through Results().
type Res struct {
	// Method is the HTTP method of the request
	Method string

	// URL is the outgoing request URL
	URL string

	// StatusCode is the HTTP status code (2xx or 3xx)
	StatusCode int

	// Raw is the response body, guaranteed to be valid JSON
	Raw string
}

// Get retrieves a value from the response using a gjson path.
//
// Example paths:
//   - "results.0.name" - name of the first object
//   - "results.#.policyid" - all policy IDs
//   - "http_status" - status reported by the appliance
//
// Example:
//
//	res, err := client.Get(ctx, "cmdb/firewall/policy")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, id := range res.Get("results.#.policyid").Array() {
//	    fmt.Println(id.Int())
//	}
func (r Res) Get(path string) gjson.Result {
	if r.Raw == "" {
		return gjson.Result{}
	}
	return gjson.Get(r.Raw, path)
}

// Results returns the "results" field of the response
func (r Res) Results() gjson.Result {
	return r.Get("results")
}

// Status returns the appliance-level status ("success" or "error")
func (r Res) Status() string {
	return r.Get("status").String()
}

// Serial returns the appliance serial number reported with the response
func (r Res) Serial() string {
	return r.Get("serial").String()
}

// Version returns the firmware version reported with the response
func (r Res) Version() string {
	return r.Get("version").String()
}

// Build returns the firmware build number reported with the response
func (r Res) Build() int64 {
	return r.Get("build").Int()
}

// Vdom returns the partition the appliance processed the request in
func (r Res) Vdom() string {
	return r.Get("vdom").String()
}

// JSON returns the raw response document
func (r Res) JSON() string {
	return r.Raw
}

// Value decodes the whole response document into generic Go values
// (map[string]any, []any, float64, string, bool or nil).
func (r Res) Value() (any, error) {
	var v any
	if err := json.Unmarshal([]byte(r.Raw), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Decode unmarshals the "results" field into out
//
// Example:
//
//	var policies []struct {
//	    ID   int    `json:"policyid"`
//	    Name string `json:"name"`
//	}
//	if err := res.Decode(&policies); err != nil {
//	    log.Fatal(err)
//	}
func (r Res) Decode(out any) error {
	results := r.Results()
	if !results.Exists() {
		return json.Unmarshal([]byte("null"), out)
	}
	return json.Unmarshal([]byte(results.Raw), out)
}
