// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package fortigate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// Device describes a registered appliance. It never carries the API token.
type Device struct {
	// ID is the caller-chosen unique identifier
	ID string `json:"device_id" yaml:"device_id"`

	// Host is the normalized appliance address
	Host string `json:"host" yaml:"host"`

	// Vdoms lists the partitions declared for the device (default: root)
	Vdoms []string `json:"vdoms" yaml:"vdoms"`

	// Description is an optional human-readable label
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// copyDevice returns d with its own Vdoms slice
func copyDevice(d Device) Device {
	d.Vdoms = append([]string(nil), d.Vdoms...)
	return d
}

// registryEntry binds a descriptor to its session. Entries are never mutated
// after being stored; replacement swaps the pointer.
type registryEntry struct {
	device Device
	client *Client
}

// Registry maps device identifiers to sessions
//
// Construct one at startup and pass it to whatever needs appliance access.
// All methods are safe for concurrent use.
//
// Example:
//
//	registry := fortigate.NewRegistry()
//	if err := registry.Register("fw1", "10.0.0.1", token, "root", "dmz"); err != nil {
//	    log.Fatal(err)
//	}
//	client, err := registry.Lookup("fw1")
//	if err != nil {
//	    log.Fatal(err) // *NotFoundError
//	}
//	res, err := client.Get(ctx, "cmdb/firewall/policy", fortigate.Vdom("dmz"))
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*registryEntry
	order   []string // insertion order of IDs

	clientOpts []func(*Client)
	logger     Logger
}

// NewRegistry creates an empty registry
func NewRegistry(opts ...func(*Registry)) *Registry {
	r := &Registry{
		entries: make(map[string]*registryEntry),
		logger:  &NoOpLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register creates a session for host/token and stores it under id
//
// A previous registration under the same id is replaced atomically and keeps
// its position in List. With no vdoms the device gets the root partition.
// The host is not contacted, so an unreachable appliance registers fine.
//
// Register fails, leaving any previous entry in place, when:
//   - id is empty after trimming
//   - host is empty or contains any of "/?#@ " after normalization
//   - token is empty after trimming
//   - a vdom name is blank (duplicates are dropped, not rejected)
//   - a TLSCA option names a missing or unusable CA file
//
// Registry.Load logs and skips config entries that fail these checks.
func (r *Registry) Register(id, host, token string, vdoms ...string) error {
	return r.RegisterDevice(Device{ID: id, Host: host, Vdoms: vdoms}, token)
}

// RegisterDevice is Register with a full descriptor (including Description)
func (r *Registry) RegisterDevice(d Device, token string) error {
	d.ID = strings.TrimSpace(d.ID)
	if d.ID == "" {
		return fmt.Errorf("device id cannot be empty")
	}

	vdoms, err := normalizeVdoms(d.Vdoms)
	if err != nil {
		return fmt.Errorf("device %q: %w", d.ID, err)
	}
	d.Vdoms = vdoms

	client, err := NewClient(d.Host, token, r.clientOpts...)
	if err != nil {
		return fmt.Errorf("device %q: %w", d.ID, err)
	}
	d.Host = client.Host()

	entry := &registryEntry{device: d, client: client}

	r.mu.Lock()
	_, replaced := r.entries[d.ID]
	r.entries[d.ID] = entry
	if !replaced {
		r.order = append(r.order, d.ID)
	}
	r.mu.Unlock()

	if replaced {
		r.logger.Info(context.Background(), "Device re-registered",
			"device", d.ID,
			"host", d.Host,
			"vdoms", strings.Join(d.Vdoms, ","))
	} else {
		r.logger.Info(context.Background(), "Device registered",
			"device", d.ID,
			"host", d.Host,
			"vdoms", strings.Join(d.Vdoms, ","))
	}

	return nil
}

// normalizeVdoms defaults to root, drops duplicates and rejects blank names
func normalizeVdoms(vdoms []string) ([]string, error) {
	if len(vdoms) == 0 {
		return []string{DefaultVdom}, nil
	}
	out := make([]string, 0, len(vdoms))
	seen := make(map[string]bool, len(vdoms))
	for _, v := range vdoms {
		v = strings.TrimSpace(v)
		if v == "" {
			return nil, fmt.Errorf("vdom name cannot be empty")
		}
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out, nil
}

// Lookup returns the session registered under id
//
// Returns *NotFoundError (errors.Is(err, ErrDeviceNotFound)) for unknown ids.
func (r *Registry) Lookup(id string) (*Client, error) {
	r.mu.RLock()
	entry, ok := r.entries[id]
	r.mu.RUnlock()

	if !ok {
		return nil, &NotFoundError{DeviceID: id}
	}
	return entry.client, nil
}

// Device returns the descriptor registered under id
func (r *Registry) Device(id string) (Device, error) {
	r.mu.RLock()
	entry, ok := r.entries[id]
	r.mu.RUnlock()

	if !ok {
		return Device{}, &NotFoundError{DeviceID: id}
	}
	return copyDevice(entry.device), nil
}

// List returns all descriptors in registration order
//
// Re-registered devices keep their original position but show the latest
// host and partitions. The returned slice is a copy.
func (r *Registry) List() []Device {
	r.mu.RLock()
	defer r.mu.RUnlock()

	devices := make([]Device, 0, len(r.order))
	for _, id := range r.order {
		devices = append(devices, copyDevice(r.entries[id].device))
	}
	return devices
}

// Len returns the number of registered devices
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Load registers every device of cfg in file order
//
// A device that fails to register is logged and skipped; the others are
// still registered. The returned error joins all individual failures.
func (r *Registry) Load(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	var errs []error
	loaded := 0
	for _, dc := range cfg.Devices {
		err := r.RegisterDevice(Device{
			ID:          dc.ID,
			Host:        dc.Host,
			Vdoms:       dc.Vdoms,
			Description: dc.Description,
		}, dc.Token)
		if err != nil {
			r.logger.Error(context.Background(), "Device load failed",
				"device", dc.ID,
				"error", err.Error())
			errs = append(errs, err)
			continue
		}
		loaded++
	}

	r.logger.Info(context.Background(), "Devices loaded",
		"loaded", loaded,
		"failed", len(errs))

	return errors.Join(errs...)
}
