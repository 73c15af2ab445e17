// Package config provides configuration loading for the unlockpath binaries.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bayleafwalker/unlockpath/internal/catalog"
)

// Config represents the complete unlockpath configuration
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Search  SearchConfig  `yaml:"search"`
	Output  OutputConfig  `yaml:"output"`
	Server  ServerConfig  `yaml:"server"`
}

// CatalogConfig selects the provider catalog
type CatalogConfig struct {
	// Path is a ProviderCatalog manifest (empty = built-in engineer catalog)
	Path string `yaml:"path"`
	// VersionConstraint rejects catalogs whose data version does not match (e.g. "^3.4")
	VersionConstraint string `yaml:"versionConstraint"`
}

// SearchConfig tunes the planner
type SearchConfig struct {
	// AllPaths surfaces every minimal path (default: true)
	AllPaths *bool `yaml:"allPaths"`
	// Progress reports search progress on stderr
	Progress bool `yaml:"progress"`
	// Timeout bounds a single search (0 = unbounded)
	Timeout time.Duration `yaml:"timeout"`
}

// OutputConfig configures the CLI report
type OutputConfig struct {
	// Detailed lists every offering of every provider
	Detailed bool `yaml:"detailed"`
	// Color is one of auto, always, never
	Color string `yaml:"color"`
}

// ServerConfig configures cmd/unlockpath-server
type ServerConfig struct {
	GRPCAddress    string `yaml:"grpcAddress"`
	MetricsAddress string `yaml:"metricsAddress"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	allPaths := true
	return &Config{
		Catalog: CatalogConfig{
			Path: "", // Built-in
		},
		Search: SearchConfig{
			AllPaths: &allPaths,
		},
		Output: OutputConfig{
			Color: "auto",
		},
		Server: ServerConfig{
			GRPCAddress:    ":50051",
			MetricsAddress: ":8080",
		},
	}
}

// AllPathsEnabled reports the effective all-paths setting.
func (s SearchConfig) AllPathsEnabled() bool {
	return s.AllPaths == nil || *s.AllPaths
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	switch c.Output.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("output.color must be one of auto, always, never (got %q)", c.Output.Color)
	}
	if c.Search.Timeout < 0 {
		return fmt.Errorf("search.timeout must not be negative")
	}
	if c.Server.GRPCAddress == "" {
		return fmt.Errorf("server.grpcAddress is required")
	}
	if c.Server.MetricsAddress == "" {
		return fmt.Errorf("server.metricsAddress is required")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file on top of the defaults
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// Merge merges another config into this one (other takes precedence for non-zero values)
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	// Catalog
	if other.Catalog.Path != "" {
		c.Catalog.Path = other.Catalog.Path
	}
	if other.Catalog.VersionConstraint != "" {
		c.Catalog.VersionConstraint = other.Catalog.VersionConstraint
	}

	// Search
	if other.Search.AllPaths != nil {
		v := *other.Search.AllPaths
		c.Search.AllPaths = &v
	}
	if other.Search.Progress {
		c.Search.Progress = true
	}
	if other.Search.Timeout != 0 {
		c.Search.Timeout = other.Search.Timeout
	}

	// Output
	if other.Output.Detailed {
		c.Output.Detailed = true
	}
	if other.Output.Color != "" {
		c.Output.Color = other.Output.Color
	}

	// Server
	if other.Server.GRPCAddress != "" {
		c.Server.GRPCAddress = other.Server.GRPCAddress
	}
	if other.Server.MetricsAddress != "" {
		c.Server.MetricsAddress = other.Server.MetricsAddress
	}
}

// LoadCatalog loads the configured catalog and applies the version constraint.
func (c CatalogConfig) LoadCatalog() (*catalog.Catalog, error) {
	var (
		cat *catalog.Catalog
		err error
	)
	if c.Path == "" {
		cat, err = catalog.Builtin()
	} else {
		cat, err = catalog.LoadFile(c.Path)
	}
	if err != nil {
		return nil, err
	}
	if err := catalog.CheckVersion(cat, c.VersionConstraint); err != nil {
		return nil, err
	}
	return cat, nil
}
