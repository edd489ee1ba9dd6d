// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package fortigate

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/tidwall/gjson"
)

// Input validation constants
const (
	// MaxBodySize is the maximum size of a request payload in bytes (10MB)
	MaxBodySize = 10 * 1024 * 1024

	// MaxEndpointLength is the maximum length of an endpoint path
	MaxEndpointLength = 2048
)

// validateRequest checks a request before anything is sent
//
// Checks:
//   - Method is GET, POST, PUT or DELETE
//   - Endpoint is non-empty, bounded, free of NUL bytes, query strings,
//     fragments and ".." segments
//   - Payload is bounded and valid JSON
func validateRequest(req *Req) error {
	switch req.Method {
	case MethodGet, MethodPost, MethodPut, MethodDelete:
	default:
		return fmt.Errorf("unsupported method: %q (must be GET, POST, PUT or DELETE)", req.Method)
	}

	if err := validateEndpoint(req.Endpoint); err != nil {
		return err
	}

	if strings.TrimSpace(req.Vdom) != req.Vdom {
		return fmt.Errorf("vdom contains surrounding whitespace: %q", req.Vdom)
	}

	if len(req.Data) > MaxBodySize {
		return fmt.Errorf("body size exceeds maximum of %d bytes (got %d bytes)", MaxBodySize, len(req.Data))
	}
	if req.Data != "" && !gjson.Valid(req.Data) {
		return fmt.Errorf("invalid JSON body")
	}

	return nil
}

// validateEndpoint checks an endpoint path relative to the API base URL
func validateEndpoint(endpoint string) error {
	if endpoint == "" {
		return fmt.Errorf("endpoint cannot be empty")
	}
	if len(endpoint) > MaxEndpointLength {
		return fmt.Errorf("endpoint exceeds maximum length of %d characters", MaxEndpointLength)
	}
	if i := strings.IndexByte(endpoint, 0); i >= 0 {
		return fmt.Errorf("endpoint contains null byte at position %d", i)
	}
	if strings.ContainsAny(endpoint, "?#") {
		return fmt.Errorf("endpoint must not contain a query or fragment, use Query() or Params(): %s", endpoint)
	}
	for _, segment := range strings.Split(endpoint, "/") {
		if segment == ".." || segment == "." {
			return fmt.Errorf("endpoint contains relative path segment %q: %s", segment, endpoint)
		}
	}
	return nil
}

// Cmdb builds a configuration endpoint, appending an escaped object key
//
// Example:
//
//	fortigate.Cmdb("firewall/policy")           // cmdb/firewall/policy
//	fortigate.Cmdb("firewall/address", "h/1")   // cmdb/firewall/address/h%2F1
func Cmdb(path string, mkey ...string) string {
	return buildEndpoint("cmdb", path, mkey)
}

// Monitor builds a live-state endpoint
//
// Example:
//
//	fortigate.Monitor("system/status")  // monitor/system/status
func Monitor(path string, mkey ...string) string {
	return buildEndpoint("monitor", path, mkey)
}

func buildEndpoint(family, path string, mkey []string) string {
	endpoint := family + "/" + strings.Trim(path, "/")
	for _, key := range mkey {
		endpoint += "/" + url.PathEscape(key)
	}
	return endpoint
}

// Get performs a GET request
//
// Example:
//
//	res, err := client.Get(ctx, fortigate.EndpointFirewallAddress, fortigate.Vdom("dmz"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, name := range res.Get("results.#.name").Array() {
//	    fmt.Println(name.String())
//	}
func (c *Client) Get(ctx context.Context, endpoint string, mods ...func(*Req)) (Res, error) {
	return c.Execute(ctx, MethodGet, endpoint, mods...)
}

// Post performs a POST request with a JSON payload
//
// Example:
//
//	addr := fortigate.Address{Name: "web01", Subnet: "10.1.1.10/32"}
//	if err := addr.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	body, _ := addr.Body().String()
//	res, err := client.Post(ctx, fortigate.EndpointFirewallAddress, body)
func (c *Client) Post(ctx context.Context, endpoint, data string, mods ...func(*Req)) (Res, error) {
	return c.Execute(ctx, MethodPost, endpoint, append(mods[:len(mods):len(mods)], Data(data))...)
}

// Put performs a PUT request with a JSON payload
func (c *Client) Put(ctx context.Context, endpoint, data string, mods ...func(*Req)) (Res, error) {
	return c.Execute(ctx, MethodPut, endpoint, append(mods[:len(mods):len(mods)], Data(data))...)
}

// Delete performs a DELETE request
func (c *Client) Delete(ctx context.Context, endpoint string, mods ...func(*Req)) (Res, error) {
	return c.Execute(ctx, MethodDelete, endpoint, mods...)
}

// SystemStatus retrieves monitor/system/status (hostname, serial, firmware)
func (c *Client) SystemStatus(ctx context.Context) (Res, error) {
	return c.Get(ctx, EndpointSystemStatus)
}

// ListVdoms returns the names of all partitions configured on the appliance
func (c *Client) ListVdoms(ctx context.Context) ([]string, error) {
	res, err := c.Get(ctx, EndpointSystemVdom)
	if err != nil {
		return nil, err
	}
	names := res.Get("results.#.name").Array()
	vdoms := make([]string, 0, len(names))
	for _, name := range names {
		vdoms = append(vdoms, name.String())
	}
	return vdoms, nil
}

// Ping verifies reachability and credentials by requesting the system status
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.SystemStatus(ctx)
	return err
}
