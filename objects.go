// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package fortigate

import (
	"fmt"
	"net/netip"
	"strings"
)

// Well-known endpoints
const (
	EndpointSystemStatus          = "monitor/system/status"
	EndpointSystemVdom            = "cmdb/system/vdom"
	EndpointSystemInterface       = "cmdb/system/interface"
	EndpointFirewallPolicy        = "cmdb/firewall/policy"
	EndpointFirewallAddress       = "cmdb/firewall/address"
	EndpointFirewallServiceCustom = "cmdb/firewall/service/custom"
	EndpointFirewallVIP           = "cmdb/firewall/vip"
	EndpointRouterStatic          = "cmdb/router/static"
	EndpointRouterPolicy          = "cmdb/router/policy"
	EndpointUserLocal             = "cmdb/user/local"
	EndpointUserGroup             = "cmdb/user/group"
	EndpointRoutingTable          = "monitor/router/ipv4"
	EndpointRouterLookup          = "monitor/router/lookup"
	EndpointPolicyLookup          = "monitor/firewall/policy-lookup"
)

// ValidationError lists every problem found in a configuration object
type ValidationError struct {
	// Object is the kind of object validated (e.g. "firewall policy")
	Object string

	// Problems holds one message per failed rule
	Problems []string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Object, strings.Join(e.Problems, "; "))
}

// validation collects problems for one object
type validation struct {
	object   string
	problems []string
}

func (v *validation) check(ok bool, format string, args ...any) {
	if !ok {
		v.problems = append(v.problems, fmt.Sprintf(format, args...))
	}
}

func (v *validation) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return &ValidationError{Object: v.object, Problems: v.problems}
}

// nameList converts names to the [{"name": ...}] form used by FortiOS
func nameList(names []string) []map[string]string {
	list := make([]map[string]string, 0, len(names))
	for _, n := range names {
		list = append(list, map[string]string{"name": n})
	}
	return list
}

func enableDisable(enabled bool) string {
	if enabled {
		return "enable"
	}
	return "disable"
}

// Address is a firewall address object
//
// Exactly one of Subnet, FQDN or StartIP/EndIP must be set.
type Address struct {
	Name      string
	Subnet    string // CIDR, e.g. 10.1.1.0/24
	FQDN      string
	StartIP   string
	EndIP     string
	Interface string // associated interface, optional
	Comment   string
}

// Type returns the FortiOS address type derived from the populated fields
func (a Address) Type() string {
	switch {
	case a.FQDN != "":
		return "fqdn"
	case a.StartIP != "" || a.EndIP != "":
		return "iprange"
	default:
		return "ipmask"
	}
}

// Validate checks the address before it is sent
func (a Address) Validate() error {
	v := validation{object: "address"}
	v.check(strings.TrimSpace(a.Name) != "", "name required")

	kinds := 0
	if a.Subnet != "" {
		kinds++
		_, err := netip.ParsePrefix(a.Subnet)
		v.check(err == nil, "subnet %q is not a CIDR prefix", a.Subnet)
	}
	if a.FQDN != "" {
		kinds++
	}
	if a.StartIP != "" || a.EndIP != "" {
		kinds++
		start, errStart := netip.ParseAddr(a.StartIP)
		end, errEnd := netip.ParseAddr(a.EndIP)
		v.check(errStart == nil, "start-ip %q is not an IP address", a.StartIP)
		v.check(errEnd == nil, "end-ip %q is not an IP address", a.EndIP)
		if errStart == nil && errEnd == nil {
			v.check(start.Compare(end) <= 0, "start-ip must not be greater than end-ip")
		}
	}
	v.check(kinds == 1, "exactly one of subnet, fqdn or ip range required")

	return v.err()
}

// Body returns the canonical payload for EndpointFirewallAddress
func (a Address) Body() Body {
	body := Body{}.Set("name", a.Name).Set("type", a.Type())
	switch a.Type() {
	case "fqdn":
		body = body.Set("fqdn", a.FQDN)
	case "iprange":
		body = body.Set("start-ip", a.StartIP).Set("end-ip", a.EndIP)
	default:
		body = body.Set("subnet", a.Subnet)
	}
	if a.Interface != "" {
		body = body.Set("associated-interface", a.Interface)
	}
	if a.Comment != "" {
		body = body.Set("comment", a.Comment)
	}
	return body
}

// Policy actions
const (
	ActionAccept = "accept"
	ActionDeny   = "deny"
)

// FirewallPolicy is a firewall policy object
type FirewallPolicy struct {
	ID         int // policyid, 0 lets the appliance assign one
	Name       string
	SrcIntf    []string
	DstIntf    []string
	SrcAddr    []string
	DstAddr    []string
	Service    []string
	Action     string // accept or deny
	Schedule   string // default: always
	NAT        bool
	LogTraffic string // all, utm or disable; empty leaves the appliance default
	Comments   string
}

// Validate checks the policy before it is sent
func (p FirewallPolicy) Validate() error {
	v := validation{object: "firewall policy"}
	v.check(strings.TrimSpace(p.Name) != "", "policy name required")
	v.check(len(p.SrcIntf) > 0, "at least one source interface required")
	v.check(len(p.DstIntf) > 0, "at least one destination interface required")
	v.check(len(p.SrcAddr) > 0, "at least one source address required")
	v.check(len(p.DstAddr) > 0, "at least one destination address required")
	v.check(len(p.Service) > 0, "at least one service required")
	v.check(p.Action == ActionAccept || p.Action == ActionDeny, "action must be 'accept' or 'deny'")
	v.check(p.ID >= 0, "policy id must not be negative")
	switch p.LogTraffic {
	case "", "all", "utm", "disable":
	default:
		v.check(false, "logtraffic must be 'all', 'utm' or 'disable'")
	}
	return v.err()
}

// Body returns the canonical payload for EndpointFirewallPolicy
func (p FirewallPolicy) Body() Body {
	schedule := p.Schedule
	if schedule == "" {
		schedule = "always"
	}
	body := Body{}
	if p.ID > 0 {
		body = body.Set("policyid", p.ID)
	}
	body = body.
		Set("name", p.Name).
		Set("srcintf", nameList(p.SrcIntf)).
		Set("dstintf", nameList(p.DstIntf)).
		Set("srcaddr", nameList(p.SrcAddr)).
		Set("dstaddr", nameList(p.DstAddr)).
		Set("service", nameList(p.Service)).
		Set("action", p.Action).
		Set("schedule", schedule).
		Set("nat", enableDisable(p.NAT))
	if p.LogTraffic != "" {
		body = body.Set("logtraffic", p.LogTraffic)
	}
	if p.Comments != "" {
		body = body.Set("comments", p.Comments)
	}
	return body
}

// StaticRoute is a static route object
type StaticRoute struct {
	SeqNum   int    // 0 lets the appliance assign one
	Dst      string // CIDR prefix
	Gateway  string
	Device   string // outgoing interface
	Distance int    // administrative distance, 0 keeps the default
	Comment  string
}

// Validate checks the route before it is sent
func (s StaticRoute) Validate() error {
	v := validation{object: "static route"}
	_, err := netip.ParsePrefix(s.Dst)
	v.check(err == nil, "dst %q is not a CIDR prefix", s.Dst)
	v.check(s.Gateway != "" || s.Device != "", "gateway or device required")
	if s.Gateway != "" {
		_, err := netip.ParseAddr(s.Gateway)
		v.check(err == nil, "gateway %q is not an IP address", s.Gateway)
	}
	v.check(s.Distance >= 0 && s.Distance <= 255, "distance must be between 0 and 255")
	v.check(s.SeqNum >= 0, "seq-num must not be negative")
	return v.err()
}

// Body returns the canonical payload for EndpointRouterStatic
func (s StaticRoute) Body() Body {
	body := Body{}
	if s.SeqNum > 0 {
		body = body.Set("seq-num", s.SeqNum)
	}
	body = body.Set("dst", s.Dst)
	if s.Gateway != "" {
		body = body.Set("gateway", s.Gateway)
	}
	if s.Device != "" {
		body = body.Set("device", s.Device)
	}
	if s.Distance > 0 {
		body = body.Set("distance", s.Distance)
	}
	if s.Comment != "" {
		body = body.Set("comment", s.Comment)
	}
	return body
}

// Local user authentication types
const (
	UserTypePassword = "password"
	UserTypeLDAP     = "ldap"
	UserTypeRADIUS   = "radius"
)

// LocalUser is a local user object
type LocalUser struct {
	Name         string
	Type         string // password (default), ldap or radius
	Password     string
	LDAPServer   string
	RADIUSServer string
	Email        string
	Disabled     bool
}

// Validate checks the user before it is sent
func (u LocalUser) Validate() error {
	v := validation{object: "local user"}
	v.check(strings.TrimSpace(u.Name) != "", "name required")
	switch u.Type {
	case "", UserTypePassword:
		v.check(u.Password != "", "password required for password users")
	case UserTypeLDAP:
		v.check(u.LDAPServer != "", "ldap-server required for ldap users")
	case UserTypeRADIUS:
		v.check(u.RADIUSServer != "", "radius-server required for radius users")
	default:
		v.check(false, "type must be 'password', 'ldap' or 'radius'")
	}
	return v.err()
}

// Body returns the canonical payload for EndpointUserLocal
func (u LocalUser) Body() Body {
	userType := u.Type
	if userType == "" {
		userType = UserTypePassword
	}
	body := Body{}.
		Set("name", u.Name).
		Set("type", userType).
		Set("status", enableDisable(!u.Disabled))
	switch userType {
	case UserTypePassword:
		body = body.Set("passwd", u.Password)
	case UserTypeLDAP:
		body = body.Set("ldap-server", u.LDAPServer)
	case UserTypeRADIUS:
		body = body.Set("radius-server", u.RADIUSServer)
	}
	if u.Email != "" {
		body = body.Set("email-to", u.Email)
	}
	return body
}
