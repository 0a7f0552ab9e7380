package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matzehuels/tracelayout/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"

[cache]
backend = "redis"
[cache.redis]
addr = "redis:6379"
db = 2

[server]
addr = "127.0.0.1:9000"
read_timeout = "3s"

[layout]
check_order = true
width = 80
formats = ["ascii", "svg"]

[source]
mongo_uri = "mongodb://localhost/traces?collection=slices"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.Redis.Addr != "redis:6379" || cfg.Cache.Redis.DB != 2 {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.Redis.Prefix != "tracelayout:" {
		t.Errorf("unset Redis.Prefix should keep its default, got %q", cfg.Cache.Redis.Prefix)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("Server = %+v", cfg.Server)
	}
	if cfg.Server.WriteTimeout != Default().Server.WriteTimeout {
		t.Errorf("unset WriteTimeout = %v, want default", cfg.Server.WriteTimeout)
	}
	if !cfg.Layout.CheckOrder || cfg.Layout.Width != 80 || len(cfg.Layout.Formats) != 2 {
		t.Errorf("Layout = %+v", cfg.Layout)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{"malformed", `[log`, errors.ErrCodeInvalidFormat},
		{"unknown key", "[log]\ncolour = true", errors.ErrCodeInvalidFormat},
		{"bad level", "[log]\nlevel = \"loud\"", errors.ErrCodeInvalidInput},
		{"bad backend", "[cache]\nbackend = \"memcached\"", errors.ErrCodeInvalidInput},
		{"redis without port", "[cache]\nbackend = \"redis\"\n[cache.redis]\naddr = \"redis\"", errors.ErrCodeInvalidInput},
		{"bad format", "[layout]\nformats = [\"png\"]", errors.ErrCodeInvalidInput},
		{"bad mongo uri", "[source]\nmongo_uri = \"http://x\"", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if !errors.Is(err, tt.code) {
				t.Errorf("Load() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") without a file error = %v", err)
	}
	if cfg.Cache.Backend != BackendFile {
		t.Errorf("Cache.Backend = %q, want default", cfg.Cache.Backend)
	}

	_, err = Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(absent) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestDefaultPathAndCacheDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_CACHE_HOME", "/cache")

	if p, _ := DefaultPath(); p != filepath.Join("/cfg", "tracelayout", "config.toml") {
		t.Errorf("DefaultPath() = %s", p)
	}
	cfg := Default()
	if d, _ := cfg.CacheDir(); d != filepath.Join("/cache", "tracelayout") {
		t.Errorf("CacheDir() = %s", d)
	}
	cfg.Cache.Dir = "/custom"
	if d, _ := cfg.CacheDir(); d != "/custom" {
		t.Errorf("CacheDir() with override = %s", d)
	}
}

func TestExampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "examples", "config.toml"))
	if err != nil {
		t.Fatalf("Load(examples/config.toml) error = %v", err)
	}
	if cfg.Server.WriteTimeout != 30*time.Second {
		t.Errorf("Server.WriteTimeout = %v, want 30s", cfg.Server.WriteTimeout)
	}
	if cfg.Cache.Redis.Prefix != "tracelayout:" {
		t.Errorf("Cache.Redis.Prefix = %q", cfg.Cache.Redis.Prefix)
	}
}
