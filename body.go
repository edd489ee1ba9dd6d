// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package fortigate

import (
	"fmt"

	"github.com/tidwall/sjson"
)

// Body provides a fluent interface for building JSON payloads using sjson
// path syntax.
//
// Errors are tracked internally so calls can be chained; check them with
// String(), Bytes() or Err().
//
// Example:
//
//	body := fortigate.Body{}.
//	    Set("name", "allow-web").
//	    Set("action", "accept").
//	    Append("srcintf", map[string]string{"name": "port1"}).
//	    Append("dstintf", map[string]string{"name": "port2"})
//
//	payload, err := body.String()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := client.Post(ctx, fortigate.EndpointFirewallPolicy, payload)
type Body struct {
	str string
	err error
}

// Set sets a value at the specified path (e.g. "name", "members.0.name")
//
// Once an error occurs, all subsequent operations are no-ops that preserve it.
func (b Body) Set(path string, value any) Body {
	if b.err != nil {
		return b
	}
	result, err := sjson.Set(b.str, path, value)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Set(%q): %w", path, err)}
	}
	return Body{str: result}
}

// SetRaw sets a pre-encoded JSON value at the specified path
func (b Body) SetRaw(path, rawJSON string) Body {
	if b.err != nil {
		return b
	}
	result, err := sjson.SetRaw(b.str, path, rawJSON)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("SetRaw(%q): %w", path, err)}
	}
	return Body{str: result}
}

// Append adds a value to the end of the array at path, creating it if needed
func (b Body) Append(path string, value any) Body {
	return b.Set(path+".-1", value)
}

// Delete removes the value at the specified path
func (b Body) Delete(path string) Body {
	if b.err != nil {
		return b
	}
	result, err := sjson.Delete(b.str, path)
	if err != nil {
		return Body{str: b.str, err: fmt.Errorf("Delete(%q): %w", path, err)}
	}
	return Body{str: result}
}

// String returns the JSON document and any error encountered while building
func (b Body) String() (string, error) {
	return b.str, b.err
}

// Err returns any error that occurred while building
func (b Body) Err() error {
	return b.err
}

// Res returns the JSON document, or "" when building failed
func (b Body) Res() string {
	if b.err != nil {
		return ""
	}
	return b.str
}

// Bytes returns the JSON document as bytes
func (b Body) Bytes() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	return []byte(b.str), nil
}
