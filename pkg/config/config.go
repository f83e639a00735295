// Package config loads the optional crateindex.toml configuration file.
//
// All values have working defaults; the file only exists so recurring builds
// (cron jobs, CI) don't repeat flags. Command-line flags override file values.
//
// Example:
//
//	max_crates = 20000
//	output = "../extension/index/crates.js"
//
//	[cache]
//	backend = "file"   # "file", "redis", or "none"
//	redis_addr = "localhost:6379"
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/searchdex/crateindex/pkg/errors"
)

// DefaultMaxCrates is the ranked population cutoff. The index retains the
// top DefaultMaxCrates+1 crates by downloads.
const DefaultMaxCrates = 20 * 1000

// Config is the top-level configuration.
type Config struct {
	// MaxCrates is the ranking cutoff; the index holds MaxCrates+1 entries.
	MaxCrates int `toml:"max_crates"`

	// Output is the artifact path.
	Output string `toml:"output"`

	Cache CacheConfig `toml:"cache"`
}

// CacheConfig selects the artifact-cache backend.
type CacheConfig struct {
	// Backend is "file" (default), "redis", or "none".
	Backend string `toml:"backend"`

	// RedisAddr is the host:port for the redis backend.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		MaxCrates: DefaultMaxCrates,
		Cache:     CacheConfig{Backend: "file"},
	}
}

// Load reads a TOML config file and fills unset fields with defaults.
// A missing file is not an error when optional is true.
func Load(path string, optional bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && optional {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeIO, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if cfg.MaxCrates <= 0 {
		cfg.MaxCrates = DefaultMaxCrates
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "file"
	}
	return cfg, nil
}
