// Package config loads visunn's settings.
//
// Settings are layered: built-in defaults, then the TOML file
// (~/.config/visunn/config.toml unless --config names another), then
// VISUNN_* environment variables. Command-line flags are applied last by the
// CLI. The merged result is checked with struct tags before use.
//
//	server  = "http://localhost:5000"
//	prefix  = "api"
//	timeout = "10s"
//
//	[cache]
//	backend = "file"
//	ttl     = "24h"
//
//	[log]
//	level = "info"
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/visunn/pkg/errors"
)

const appName = "visunn"

// Environment variables that override the file.
const (
	EnvServer    = "VISUNN_SERVER"
	EnvPrefix    = "VISUNN_PREFIX"
	EnvRedisAddr = "VISUNN_REDIS_ADDR"
	EnvLogLevel  = "VISUNN_LOG_LEVEL"
)

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the complete configuration.
type Config struct {
	Server  string        `toml:"server" validate:"required,url"`
	Prefix  string        `toml:"prefix" validate:"required,oneof=api topology"`
	Timeout time.Duration `toml:"timeout" validate:"gte=0"`
	Cache   CacheConfig   `toml:"cache"`
	Log     LogConfig     `toml:"log"`
	Serve   ServeConfig   `toml:"serve"`
}

// CacheConfig selects and configures the snapshot cache.
type CacheConfig struct {
	Backend   string        `toml:"backend" validate:"oneof=none file redis"`
	Dir       string        `toml:"dir"`
	TTL       time.Duration `toml:"ttl" validate:"gte=0"`
	RedisAddr string        `toml:"redis_addr" validate:"required_if=Backend redis"`
	RedisDB   int           `toml:"redis_db" validate:"gte=0"`
}

// LogConfig sets the default log level.
type LogConfig struct {
	Level string `toml:"level" validate:"oneof=debug info warn error"`
}

// ServeConfig configures the fixture backend.
type ServeConfig struct {
	Addr  string `toml:"addr" validate:"required,hostname_port"`
	Watch bool   `toml:"watch"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server:  "http://localhost:5000",
		Prefix:  "api",
		Timeout: 10 * time.Second,
		Cache: CacheConfig{
			Backend: CacheFile,
			TTL:     24 * time.Hour,
		},
		Log:   LogConfig{Level: "info"},
		Serve: ServeConfig{Addr: "localhost:5000", Watch: true},
	}
}

// DefaultPath returns the default config file location, honoring
// XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load builds the configuration from defaults, the file at path and the
// environment. An empty path means DefaultPath, which may be absent; an
// explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.decodeFile(path, explicit); err != nil {
			return Config{}, err
		}
	}

	cfg.ApplyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string, mustExist bool) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !mustExist {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "config file %s", path)
	}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// ApplyEnv overrides fields from VISUNN_* variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv(EnvServer); v != "" {
		c.Server = v
	}
	if v := getenv(EnvPrefix); v != "" {
		c.Prefix = strings.Trim(v, "/")
	}
	if v := getenv(EnvRedisAddr); v != "" {
		c.Cache.RedisAddr = v
		c.Cache.Backend = CacheRedis
	}
	if v := getenv(EnvLogLevel); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
}

var validate = validator.New()

// Validate checks the configuration against its struct tags.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, formatValidationError(err), "invalid configuration")
	}
	return nil
}

func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err
	}
	msgs := make([]string, len(verrs))
	for i, fe := range verrs {
		msgs[i] = fe.Namespace() + ": failed " + fe.Tag()
		if fe.Param() != "" {
			msgs[i] += "=" + fe.Param()
		}
	}
	return errors.New(errors.ErrCodeInvalidConfig, "%s", strings.Join(msgs, "; "))
}

// CacheDir returns the directory of the file cache: the configured one, or
// ~/.cache/visunn honoring XDG_CACHE_HOME.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// SessionDir returns the directory of saved viewing sessions.
func SessionDir() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "sessions"), nil
}

func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
