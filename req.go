// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package fortigate

import "net/url"

// DefaultVdom is the partition used when a request does not name one.
// Requests scoped to it carry no vdom query parameter.
const DefaultVdom = "root"

// vdomParam is the query parameter carrying the partition name
const vdomParam = "vdom"

// Req represents a single request to the appliance.
//
// Method and endpoint are passed directly to Execute; everything else is
// applied through request modifiers.
//
// Example:
//
//	res, err := client.Get(ctx, "cmdb/firewall/policy",
//	    fortigate.Vdom("dmz"),
//	    fortigate.Query("filter", "action==accept"))
type Req struct {
	// Method is the HTTP method (GET, POST, PUT, DELETE)
	Method string

	// Endpoint is the path relative to the /api/v2 base URL
	Endpoint string

	// Vdom is the target partition (default: root)
	Vdom string

	// Query holds caller-supplied query parameters
	Query url.Values

	// Data is the JSON request payload, empty for no body
	Data string
}

// Supported HTTP methods
const (
	MethodGet    = "GET"
	MethodPost   = "POST"
	MethodPut    = "PUT"
	MethodDelete = "DELETE"
)

// scopedQuery returns the query to send, including the vdom parameter when the
// request targets a non-default partition. A vdom already set by the caller is
// left untouched. The Req's own Query is never modified.
func (r *Req) scopedQuery() url.Values {
	if r.Vdom == "" || r.Vdom == DefaultVdom {
		return r.Query
	}
	if r.Query.Has(vdomParam) {
		return r.Query
	}
	query := make(url.Values, len(r.Query)+1)
	for k, v := range r.Query {
		query[k] = append([]string(nil), v...)
	}
	query.Set(vdomParam, r.Vdom)
	return query
}
