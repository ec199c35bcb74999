// Package config loads server and recorder settings from an optional
// YAML file and EZMOCK_-prefixed environment variables. Environment
// variables override the file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/rvegajr/ez-api-mocker-sub000/internal/crawler"
	"github.com/rvegajr/ez-api-mocker-sub000/internal/expand"
)

// EnvPrefix namespaces the environment variables consulted by Load.
const EnvPrefix = "EZMOCK_"

// Config holds every tunable of the mock server and the recorder.
type Config struct {
	// Listen is the HTTP listen address, host:port.
	Listen string `koanf:"listen"`

	// DataDir is the directory seeded into (and persisted from) the
	// store. Empty means the server starts with no collections.
	DataDir string `koanf:"data_dir"`

	// Timestamps controls createdAt/updatedAt stamping on writes.
	Timestamps bool `koanf:"timestamps"`

	// MaxPages caps how many pages the recorder drains per endpoint.
	MaxPages int `koanf:"max_pages"`

	// TruncateLimit caps item counts in recorded payloads.
	TruncateLimit int `koanf:"truncate_limit"`

	// Relationships declares navigation properties per tenant and
	// collection, overriding convention-based expansion.
	Relationships map[string]expand.Descriptors `koanf:"relationships"`
}

// Default returns the configuration used when no file and no
// environment variables are present.
func Default() Config {
	return Config{
		Listen:        ":8080",
		Timestamps:    true,
		MaxPages:      crawler.DefaultMaxPages,
		TruncateLimit: crawler.DefaultTruncateLimit,
	}
}

// Load reads path (when non-empty) and then the environment on top of
// the defaults. A missing explicit path is an error; an empty path just
// skips the file step.
func Load(path string) (Config, error) {
	cfg := Default()

	k := koanf.New(".")
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return cfg, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return cfg, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	// EZMOCK_MAX_PAGES -> max_pages
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return cfg, fmt.Errorf("loading environment: %w", err)
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.MaxPages <= 0 {
		return fmt.Errorf("max_pages must be positive, got %d", c.MaxPages)
	}
	if c.TruncateLimit <= 0 {
		return fmt.Errorf("truncate_limit must be positive, got %d", c.TruncateLimit)
	}
	if c.Listen == "" {
		return fmt.Errorf("listen address must not be empty")
	}
	return nil
}

// DescriptorsFor returns the relationship descriptors declared for a
// tenant, or nil when the tenant relies on convention alone.
func (c Config) DescriptorsFor(tenant string) expand.Descriptors {
	return c.Relationships[tenant]
}
