package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodegraph/pkg/cache"
	nerrors "github.com/matzehuels/nodegraph/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	c := Default()

	if c.Log.Level != "info" || c.LogLevel() != log.InfoLevel {
		t.Errorf("log level = %q", c.Log.Level)
	}
	if c.Cache.Backend != BackendFile {
		t.Errorf("backend = %q, want file", c.Cache.Backend)
	}
	if c.Cache.Dir != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("dir = %q", c.Cache.Dir)
	}
	if c.Cache.TTL.Duration != DefaultCacheTTL {
		t.Errorf("ttl = %v", c.Cache.TTL)
	}
	if c.Resolver.Name != DefaultResolverName || c.Server.Addr != DefaultServerAddr {
		t.Errorf("resolver/server = %q %q", c.Resolver.Name, c.Server.Addr)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
[log]
level = "debug"

[cache]
backend = "redis"
ttl = "90m"
layered = true
dir = "/var/cache/ng"
prefix = "team:"

[cache.redis]
addr = "redis:6379"
db = 2

[resolver]
name = "canonical"

[server]
addr = "127.0.0.1:9000"
`)

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.LogLevel() != log.DebugLevel {
		t.Errorf("level = %v", c.LogLevel())
	}
	if c.Cache.Backend != BackendRedis || c.Cache.TTL.Duration != 90*time.Minute || !c.Cache.Layered {
		t.Errorf("cache = %+v", c.Cache)
	}
	if c.Cache.Redis.Addr != "redis:6379" || c.Cache.Redis.DB != 2 {
		t.Errorf("redis = %+v", c.Cache.Redis)
	}
	if c.Cache.Mongo.Database != DefaultMongoDatabase {
		t.Errorf("unset sections should get defaults, mongo = %+v", c.Cache.Mongo)
	}
	if c.Resolver.Name != "canonical" || c.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("resolver/server = %q %q", c.Resolver.Name, c.Server.Addr)
	}
	if got := c.Cache.Keyer().NodeKey("r", "v"); !strings.HasPrefix(got, "team:node:r") {
		t.Errorf("scoped key = %q", got)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	c, err := Load("")
	if err != nil {
		t.Fatalf("missing default config should not fail: %v", err)
	}
	if c.Cache.Backend != BackendFile {
		t.Errorf("backend = %q", c.Cache.Backend)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("missing explicit config should fail")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"UnknownKey", "[cache]\nbackend = \"file\"\nbakend = \"x\"\n", "cache.bakend"},
		{"BadTOML", "[cache\n", ""},
		{"BadDuration", "[cache]\nttl = \"forever\"\n", ""},
		{"BadBackend", "[cache]\nbackend = \"s3\"\n", "unknown backend"},
		{"BadLevel", "[log]\nlevel = \"loud\"\n", "log.level"},
		{"MongoWithoutURI", "[cache]\nbackend = \"mongo\"\n", "cache.mongo.uri"},
		{"BadResolverName", "[resolver]\nname = \"a/b\"\n", "resolver.name"},
		{"NegativeDB", "[cache]\nbackend = \"redis\"\n[cache.redis]\ndb = -1\n", "cache.redis.db"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("want error")
			}
			if !nerrors.Is(err, nerrors.ErrCodeInvalidConfig) {
				t.Errorf("error code = %v, want %v", nerrors.GetCode(err), nerrors.ErrCodeInvalidConfig)
			}
			if tt.want != "" && !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q should mention %q", err, tt.want)
			}
		})
	}
}

func TestValidateReportsAll(t *testing.T) {
	c := Default()
	c.Log.Level = "loud"
	c.Cache.Backend = "s3"
	c.Resolver.Name = "a b"

	err := c.Validate()
	for _, want := range []string{"log.level", "cache.backend", "resolver.name"} {
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() = %v, should mention %s", err, want)
		}
	}
}

func TestOpenCache(t *testing.T) {
	ctx := context.Background()

	t.Run("None", func(t *testing.T) {
		c := Default().Cache
		c.Backend = BackendNone
		got, err := c.OpenCache(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if _, ok := got.(*cache.NullCache); !ok {
			t.Errorf("cache = %T, want *cache.NullCache", got)
		}
	})

	t.Run("File", func(t *testing.T) {
		c := Default().Cache
		c.Dir = t.TempDir()
		got, err := c.OpenCache(ctx)
		if err != nil {
			t.Fatal(err)
		}
		defer got.Close()
		fc, ok := got.(*cache.FileCache)
		if !ok || fc.Dir() != c.Dir {
			t.Errorf("cache = %T, want file cache in %s", got, c.Dir)
		}
	})

	t.Run("RedisUnreachable", func(t *testing.T) {
		if testing.Short() {
			t.Skip("dials the network")
		}
		c := Default().Cache
		c.Backend = BackendRedis
		c.Redis.Addr = "127.0.0.1:1"
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if _, err := c.OpenCache(ctx); err == nil {
			t.Error("want error for unreachable redis")
		}
	})
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	dir, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, ".cache", AppName); dir != want {
		t.Errorf("CacheDir() = %q, want %q", dir, want)
	}

	t.Setenv("XDG_CACHE_HOME", "/xdg")
	if dir, _ := CacheDir(); dir != filepath.Join("/xdg", AppName) {
		t.Errorf("CacheDir() with XDG_CACHE_HOME = %q", dir)
	}
}
