// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package fortigate manages many FortiGate appliances, and the VDOMs inside
// them, through each appliance's HTTPS REST API (/api/v2).
//
// A Registry maps caller-chosen device IDs to Clients. A Client holds one
// authenticated, connection-pooled session per appliance and turns
// (method, endpoint, vdom, query, body) into a correctly scoped request,
// returning either the decoded response or a typed error.
//
// # Quick Start
//
//	registry := fortigate.NewRegistry()
//	if err := registry.Register("fw1", "10.0.0.1", os.Getenv("FW1_TOKEN"), "root", "dmz"); err != nil {
//	    log.Fatal(err)
//	}
//
//	client, err := registry.Lookup("fw1")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	ctx := context.Background()
//	res, err := client.Get(ctx, fortigate.EndpointFirewallPolicy, fortigate.Vdom("dmz"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, name := range res.Get("results.#.name").Array() {
//	    fmt.Println(name.String())
//	}
//
// # Partitions
//
// Requests default to the root VDOM and carry no vdom parameter. Any other
// VDOM is sent as ?vdom=<name>, merged with caller query parameters; a vdom
// parameter set explicitly with Query is never overwritten.
//
// # JSON Payloads
//
// Use the Body builder, or the typed objects (Address, FirewallPolicy,
// StaticRoute, LocalUser) which validate before producing a payload:
//
//	policy := fortigate.FirewallPolicy{
//	    Name:    "allow-web",
//	    SrcIntf: []string{"port1"},
//	    DstIntf: []string{"port2"},
//	    SrcAddr: []string{"all"},
//	    DstAddr: []string{"web01"},
//	    Service: []string{"HTTPS"},
//	    Action:  fortigate.ActionAccept,
//	}
//	if err := policy.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	payload, _ := policy.Body().String()
//	res, err = client.Post(ctx, fortigate.EndpointFirewallPolicy, payload)
//
// # Error Handling
//
// Every request is sent once; there are no retries. Failures are typed:
//
//   - *NotFoundError: unknown device ID (errors.Is(err, ErrDeviceNotFound))
//   - *TransportError: no response (DNS, refused, TLS, timeout, cancellation)
//   - *HTTPError: appliance status >= 400, with the body verbatim
//   - *DecodeError: success status but the body is not JSON
//
// # Thread Safety
//
// Registry methods and Client.Execute are safe for concurrent use.
// Re-registering a device swaps its Client atomically.
//
// # TLS
//
// Certificate verification is disabled by default because appliances use
// self-signed certificates. Enable it per client with VerifyCertificate(true),
// optionally with TLSCA.
//
// # References
//
//   - FortiOS REST API: https://docs.fortinet.com/document/fortigate/latest/administration-guide
//   - gjson: https://github.com/tidwall/gjson
//   - sjson: https://github.com/tidwall/sjson
package fortigate
