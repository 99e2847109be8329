// Package config loads the server configuration from a YAML file. A missing
// file is not an error; the built-in defaults stand in so the server runs
// unconfigured out of the box.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Supported vendor software names.
const (
	SoftwareETABS = "ETABS"
	SoftwareLUSAS = "LUSAS"
)

// Config is the full server configuration.
type Config struct {
	Server Server `yaml:"server"`
	FEA    FEA    `yaml:"fea"`
}

// Server names the MCP server as announced to clients.
type Server struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

// FEA selects the vendor application to bind.
type FEA struct {
	Software string  `yaml:"software"`
	Version  version `yaml:"version"`
}

// version accepts both quoted strings and bare YAML floats, so "21.1" and
// 21.1 configure the same thing.
type version string

func (v *version) UnmarshalYAML(node *yaml.Node) error {
	*v = version(node.Value)
	return nil
}

// Default is the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: Server{Name: "FEA MCP", Version: "1.0.0"},
		FEA:    FEA{Software: SoftwareLUSAS, Version: "21.1"},
	}
}

// Load reads the configuration at path, falling back to Default when the
// file does not exist. Fields left empty in the file keep their defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config %s: %w", path, err)
	}

	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if file.Server.Name != "" {
		cfg.Server.Name = file.Server.Name
	}
	if file.Server.Version != "" {
		cfg.Server.Version = file.Server.Version
	}
	if file.FEA.Software != "" {
		cfg.FEA.Software = strings.ToUpper(strings.TrimSpace(file.FEA.Software))
	}
	if file.FEA.Version != "" {
		cfg.FEA.Version = file.FEA.Version
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	cfg.FEA.Version = normalizeVersion(cfg.FEA.Version)
	return cfg, nil
}

func (c Config) validate() error {
	switch c.FEA.Software {
	case SoftwareETABS, SoftwareLUSAS:
		return nil
	default:
		return fmt.Errorf("unsupported software %q (expected %s or %s)",
			c.FEA.Software, SoftwareETABS, SoftwareLUSAS)
	}
}

// normalizeVersion pins vendor versions to one decimal place, the form the
// automation prog IDs use ("21" registers as "21.0").
func normalizeVersion(v version) version {
	f, err := strconv.ParseFloat(string(v), 64)
	if err != nil {
		return v
	}
	return version(strconv.FormatFloat(f, 'f', 1, 64))
}

// SoftwareVersion returns the normalized vendor version string.
func (f FEA) SoftwareVersion() string { return string(f.Version) }
