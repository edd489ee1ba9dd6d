// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package fortigate

import (
	"net/http"
	"net/url"
	"time"
)

// Client configuration options using the functional options pattern

// VerifyCertificate enables or disables TLS certificate verification (default: false)
//
// Appliances ship with self-signed certificates, so verification is off
// unless explicitly requested. Combine with TLSCA to trust a private CA.
//
// Example:
//
//	client, _ := fortigate.NewClient("fw.example.net", token,
//	    fortigate.VerifyCertificate(true),
//	    fortigate.TLSCA("/etc/fortigate/ca.pem"))
func VerifyCertificate(verify bool) func(*Client) {
	return func(c *Client) {
		c.verifyCertificate = verify
	}
}

// TLSCA sets a PEM file with CA certificates used when verification is enabled
func TLSCA(caPath string) func(*Client) {
	return func(c *Client) {
		c.tlsCA = caPath
	}
}

// RequestTimeout sets the per-request timeout (default: 30s)
//
// A shorter deadline on the caller's context still wins.
func RequestTimeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.requestTimeout = duration
	}
}

// UserAgent sets the User-Agent header sent with every request
func UserAgent(userAgent string) func(*Client) {
	return func(c *Client) {
		c.userAgent = userAgent
	}
}

// WithHTTPClient replaces the HTTP client built by NewClient
//
// The supplied client must be safe for concurrent use. TLS options
// (VerifyCertificate, TLSCA) are ignored when a custom client is given.
func WithHTTPClient(httpClient *http.Client) func(*Client) {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
			c.customHTTPClient = true
		}
	}
}

// WithLogger configures a custom logger for the client
//
// By default, the client uses NoOpLogger which discards all log messages.
// Request and response bodies logged at Debug level are redacted
// (passwords, secrets, keys, tokens); the bearer token is never logged.
//
// Example:
//
//	logger := fortigate.NewDefaultLogger(fortigate.LogLevelDebug)
//	client, _ := fortigate.NewClient("10.0.0.1", token,
//	    fortigate.WithLogger(logger))
func WithLogger(logger Logger) func(*Client) {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPrettyPrintLogs enables/disables JSON pretty printing in debug logs (default: false)
func WithPrettyPrintLogs(enabled bool) func(*Client) {
	return func(c *Client) {
		c.prettyPrintLogs = enabled
	}
}

// Registry options

// RegistryLogger sets the logger used for registry events
func RegistryLogger(logger Logger) func(*Registry) {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// ClientOptions sets options applied to every Client the registry creates
//
// Example:
//
//	logger := fortigate.NewDefaultLogger(fortigate.LogLevelInfo)
//	registry := fortigate.NewRegistry(
//	    fortigate.RegistryLogger(logger),
//	    fortigate.ClientOptions(
//	        fortigate.WithLogger(logger),
//	        fortigate.RequestTimeout(10*time.Second),
//	    ))
func ClientOptions(opts ...func(*Client)) func(*Registry) {
	return func(r *Registry) {
		r.clientOpts = append(r.clientOpts, opts...)
	}
}

// Request modifiers for individual operations

// Vdom scopes the request to a partition (default: root)
//
// Requests to the root partition carry no vdom query parameter.
//
// Example:
//
//	res, err := client.Get(ctx, fortigate.EndpointFirewallPolicy,
//	    fortigate.Vdom("dmz"))
func Vdom(name string) func(*Req) {
	return func(req *Req) {
		req.Vdom = name
	}
}

// Query adds a query parameter to the request
//
// Example:
//
//	res, err := client.Get(ctx, fortigate.EndpointRouterLookup,
//	    fortigate.Query("destination", "8.8.8.8"))
func Query(key, value string) func(*Req) {
	return func(req *Req) {
		if req.Query == nil {
			req.Query = url.Values{}
		}
		req.Query.Add(key, value)
	}
}

// Params merges a set of query parameters into the request
func Params(params url.Values) func(*Req) {
	return func(req *Req) {
		if len(params) == 0 {
			return
		}
		if req.Query == nil {
			req.Query = url.Values{}
		}
		for k, vs := range params {
			for _, v := range vs {
				req.Query.Add(k, v)
			}
		}
	}
}

// Data sets the JSON request payload
//
// Example:
//
//	body := fortigate.Body{}.Set("name", "web01").Set("subnet", "10.1.1.10/32")
//	res, err := client.Execute(ctx, fortigate.MethodPost,
//	    fortigate.EndpointFirewallAddress, fortigate.Data(body.Res()))
func Data(json string) func(*Req) {
	return func(req *Req) {
		req.Data = json
	}
}
