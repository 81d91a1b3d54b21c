// Package config loads the etymon configuration file.
//
// Configuration lives at ~/.config/etymon/config.toml (respecting
// XDG_CONFIG_HOME). Every field has a default, a missing file is not an
// error, and command-line flags override file values. A minimal file:
//
//	[oracle]
//	model = "gpt-4o"
//
//	[layout]
//	mode = "radial"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mhuisman/etymon/pkg/errors"
)

// Backend names accepted by the cache and garden sections.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
	BackendOff    = "off"
)

// Config mirrors the config file layout.
type Config struct {
	Oracle OracleConfig `toml:"oracle"`
	Layout LayoutConfig `toml:"layout"`
	Render RenderConfig `toml:"render"`
	Cache  CacheConfig  `toml:"cache"`
	Garden GardenConfig `toml:"garden"`
	Serve  ServeConfig  `toml:"serve"`
}

// OracleConfig selects the generation service.
type OracleConfig struct {
	BaseURL   string `toml:"base_url"`    // OpenAI-compatible API root
	Model     string `toml:"model"`       // model name
	APIKeyEnv string `toml:"api_key_env"` // environment variable holding the key
	MaxDepth  int    `toml:"max_depth"`   // ancestry depth to request
	MaxNodes  int    `toml:"max_nodes"`   // word form cap
}

// LayoutConfig sets the default geometry.
type LayoutConfig struct {
	Mode   string  `toml:"mode"`   // default visualization mode
	Width  float64 `toml:"width"`  // default viewport width
	Height float64 `toml:"height"` // default viewport height
}

// RenderConfig sets the default export surface.
type RenderConfig struct {
	Formats  []string `toml:"formats"`  // default export formats
	Dark     bool     `toml:"dark"`     // dark palette
	Tooltips string   `toml:"tooltips"` // tooltip detail: full, compact, off
}

// CacheConfig selects the pipeline cache backend.
type CacheConfig struct {
	Backend  string   `toml:"backend"`   // file, redis, mongo, off
	Dir      string   `toml:"dir"`       // file backend directory override
	TTL      Duration `toml:"ttl"`       // entry lifetime for remote backends
	RedisURL string   `toml:"redis_url"` // redis backend address
	MongoURL string   `toml:"mongo_url"` // mongo backend address
}

// GardenConfig selects the saved-word store backend.
type GardenConfig struct {
	Backend  string   `toml:"backend"`   // file, memory, redis, sqlite
	Path     string   `toml:"path"`      // file/sqlite path override
	TTL      Duration `toml:"ttl"`       // redis backend entry lifetime
	RedisURL string   `toml:"redis_url"` // redis backend address
}

// ServeConfig configures the HTTP API server.
type ServeConfig struct {
	Addr string `toml:"addr"` // listen address
}

// Duration decodes TOML duration strings such as "24h" or "90s".
type Duration struct{ time.Duration }

// UnmarshalText implements encoding.TextUnmarshaler for toml decoding.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Oracle: OracleConfig{
			APIKeyEnv: "ETYMON_API_KEY",
		},
		Layout: LayoutConfig{
			Mode:   "tree",
			Width:  800,
			Height: 600,
		},
		Render: RenderConfig{
			Formats:  []string{"svg"},
			Tooltips: "full",
		},
		Cache: CacheConfig{
			Backend: BackendFile,
		},
		Garden: GardenConfig{
			Backend: BackendFile,
			TTL:     Duration{30 * 24 * time.Hour},
		},
		Serve: ServeConfig{
			Addr: ":8573",
		},
	}
}

// DefaultPath returns the standard config file location,
// ~/.config/etymon/config.toml on Linux.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "etymon", "config.toml"), nil
}

// Load reads the config file at path, layered over [Default]. An empty
// path means [DefaultPath]. A missing file yields the defaults; a file
// that exists but does not parse is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidPath, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	return cfg, nil
}
