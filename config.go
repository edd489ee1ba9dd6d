// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package fortigate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Config file formats
const (
	FormatYAML = "yaml"
	FormatTOML = "toml"
)

// Config is a device file: one entry per appliance, in document order
type Config struct {
	Devices []DeviceConfig
}

// DeviceConfig is one appliance entry of a device file
//
// YAML:
//
//	devices:
//	  fw-hq:
//	    host: 192.168.1.1
//	    token: ${FW_HQ_TOKEN}
//	    vdoms: [root, dmz]
//	    description: Headquarters
//
// TOML:
//
//	[devices.fw-hq]
//	host = "192.168.1.1"
//	token = "${FW_HQ_TOKEN}"
//	vdoms = ["root", "dmz"]
type DeviceConfig struct {
	ID          string   `yaml:"-" toml:"-"`
	Host        string   `yaml:"host" toml:"host"`
	Token       string   `yaml:"token" toml:"token"`
	Vdoms       []string `yaml:"vdoms" toml:"vdoms"`
	Description string   `yaml:"description" toml:"description"`
}

// LoadConfig reads a device file. Files ending in .toml are parsed as TOML,
// everything else as YAML.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	format := FormatYAML
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		format = FormatTOML
	}

	cfg, err := ParseConfig(data, format)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", filepath.Base(path), err)
	}
	return cfg, nil
}

// ParseConfig parses a device file in the given format
//
// ${VAR} references in host and token are expanded from the environment and
// devices without vdoms get the root partition.
func ParseConfig(data []byte, format string) (*Config, error) {
	var (
		cfg *Config
		err error
	)
	switch strings.ToLower(format) {
	case FormatYAML, "yml":
		cfg, err = parseYAML(data)
	case FormatTOML:
		cfg, err = parseTOML(data)
	default:
		return nil, fmt.Errorf("unsupported config format: %q (must be yaml or toml)", format)
	}
	if err != nil {
		return nil, err
	}

	for i := range cfg.Devices {
		d := &cfg.Devices[i]
		d.Host = expandEnv(d.Host)
		d.Token = expandEnv(d.Token)
		if len(d.Vdoms) == 0 {
			d.Vdoms = []string{DefaultVdom}
		}
	}
	return cfg, nil
}

// parseYAML decodes the devices mapping node by node to keep document order
func parseYAML(data []byte) (*Config, error) {
	var doc struct {
		Devices yaml.Node `yaml:"devices"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	cfg := &Config{}
	node := doc.Devices
	if node.Kind == 0 || node.Tag == "!!null" {
		return cfg, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: devices must be a mapping of device id to settings", node.Line)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		var dc DeviceConfig
		if err := value.Decode(&dc); err != nil {
			return nil, fmt.Errorf("device %q: %w", key.Value, err)
		}
		dc.ID = key.Value
		cfg.Devices = append(cfg.Devices, dc)
	}
	return cfg, nil
}

// parseTOML decodes the devices table; metadata keys give document order
func parseTOML(data []byte) (*Config, error) {
	var doc struct {
		Devices map[string]DeviceConfig `toml:"devices"`
	}
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != "devices" {
			continue
		}
		dc, ok := doc.Devices[key[1]]
		if !ok {
			continue
		}
		dc.ID = key[1]
		cfg.Devices = append(cfg.Devices, dc)
	}
	return cfg, nil
}

// expandEnv substitutes ${VAR} references. Strings without "${" are returned
// unchanged so literal "$" characters in tokens survive.
func expandEnv(s string) string {
	if !strings.Contains(s, "${") {
		return s
	}
	return os.Expand(s, os.Getenv)
}
