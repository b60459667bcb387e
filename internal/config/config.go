// Package config loads the cluster membership list and store settings
// shared by every node and client from a YAML file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type StoreConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type Config struct {
	Servers []string    `yaml:"servers"`
	Store   StoreConfig `yaml:"store"`
}

// Load reads and validates a cluster config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if len(cfg.Servers) == 0 {
		return nil, fmt.Errorf("config %s: servers list must not be empty", path)
	}
	seen := make(map[string]bool, len(cfg.Servers))
	for _, addr := range cfg.Servers {
		if seen[addr] {
			return nil, fmt.Errorf("config %s: duplicate server address %q", path, addr)
		}
		seen[addr] = true
	}
	if cfg.Store.Driver == "" {
		cfg.Store.Driver = "memory"
	}

	return &cfg, nil
}

// NodeID returns address's fixed position in the server list, which
// doubles as its permanent node id.
func (c *Config) NodeID(address string) (int64, error) {
	for i, addr := range c.Servers {
		if addr == address {
			return int64(i), nil
		}
	}
	return 0, fmt.Errorf("address %q is not a member of servers", address)
}

// QuorumSize returns floor(N/2)+1 for the full membership.
func (c *Config) QuorumSize() int {
	return len(c.Servers)/2 + 1
}
