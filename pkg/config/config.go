// Package config loads tracelayout settings from a TOML file.
//
// The file is optional. Without one, [Default] applies. Command-line flags
// override file values; the CLI does that merge.
//
//	[log]
//	level = "info"
//
//	[cache]
//	backend = "redis"          # file, redis or none
//	[cache.redis]
//	addr = "localhost:6379"
//	prefix = "tracelayout:"
//
//	[server]
//	addr = ":8080"
//	read_timeout = "10s"
//
//	[layout]
//	check_order = true
//	formats = ["ascii"]
//
//	[source]
//	mongo_uri = "mongodb://localhost:27017/traces?collection=slices"
package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/tracelayout/pkg/errors"
	"github.com/matzehuels/tracelayout/pkg/render/sink"
)

const appName = "tracelayout"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

type Config struct {
	Log    LogConfig    `toml:"log"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Layout LayoutConfig `toml:"layout"`
	Source SourceConfig `toml:"source"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Redis   RedisConfig `toml:"redis"`
}

type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

type LayoutConfig struct {
	CheckOrder bool     `toml:"check_order"`
	Width      int      `toml:"width"`
	Formats    []string `toml:"formats"`
}

type SourceConfig struct {
	MongoURI string `toml:"mongo_uri"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:   LogConfig{Level: "info"},
		Cache: CacheConfig{Backend: BackendFile, Redis: RedisConfig{Addr: "localhost:6379", Prefix: appName + ":"}},
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Layout: LayoutConfig{Formats: []string{sink.FormatASCII}},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/tracelayout/config.toml, falling
// back to ~/.config.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load reads the configuration at path over the defaults. An empty path
// reads [DefaultPath] and tolerates it being absent; an explicit path must
// exist. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}

	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		if os.IsNotExist(err) {
			if explicit {
				return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
			}
			return Default(), nil
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return cfg, errors.New(errors.ErrCodeInvalidFormat, "config %s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks values the decoder cannot.
func (c Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return errors.New(errors.ErrCodeInvalidInput, "log.level: unknown level %q", c.Log.Level)
	}

	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if err := errors.ValidateAddr(c.Cache.Redis.Addr); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "cache.redis.addr")
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend: unknown backend %q (want file, redis or none)", c.Cache.Backend)
	}

	if err := errors.ValidateAddr(c.Server.Addr); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "server.addr")
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "server timeouts must not be negative")
	}

	if c.Layout.Width < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "layout.width must not be negative")
	}
	for _, f := range c.Layout.Formats {
		if !slices.Contains(sink.Formats, f) {
			return errors.New(errors.ErrCodeInvalidInput, "layout.formats: unknown format %q", f)
		}
	}

	if c.Source.MongoURI != "" {
		if err := errors.ValidateMongoURI(c.Source.MongoURI); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "source.mongo_uri")
		}
	}
	return nil
}

// CacheDir returns the configured cache directory, defaulting to
// $XDG_CACHE_HOME/tracelayout or ~/.cache/tracelayout.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
