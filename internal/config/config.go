// Package config loads the nodegraph TOML configuration file.
//
// A missing file is not an error: every field has a default, so an empty
// configuration selects a file cache under the XDG cache directory, info
// logging and a server on :8080.
//
//	[log]
//	level = "debug"
//
//	[cache]
//	backend = "redis"   # file, redis, mongo or none
//	ttl = "24h"
//	layered = true      # keep a file cache in front of redis or mongo
//
//	[cache.redis]
//	addr = "localhost:6379"
//
//	[resolver]
//	name = "store"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"go.uber.org/multierr"

	nerrors "github.com/matzehuels/nodegraph/pkg/errors"
)

// AppName names the cache directory and the default config file.
const AppName = "nodegraph"

// Cache backends.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Defaults.
const (
	DefaultLogLevel        = "info"
	DefaultCacheTTL        = 7 * 24 * time.Hour
	DefaultResolverName    = "store"
	DefaultServerAddr      = ":8080"
	DefaultRedisAddr       = "localhost:6379"
	DefaultMongoDatabase   = AppName
	DefaultMongoCollection = "documents"
)

// Config is the parsed configuration file.
type Config struct {
	Log      LogConfig      `toml:"log"`
	Cache    CacheConfig    `toml:"cache"`
	Resolver ResolverConfig `toml:"resolver"`
	Server   ServerConfig   `toml:"server"`
}

// LogConfig configures the CLI logger.
type LogConfig struct {
	Level string `toml:"level"`
}

// CacheConfig selects and configures the document cache.
type CacheConfig struct {
	Backend string   `toml:"backend"`
	Dir     string   `toml:"dir"`
	TTL     Duration `toml:"ttl"`
	Layered bool     `toml:"layered"`
	Prefix  string   `toml:"prefix"`

	Redis RedisConfig `toml:"redis"`
	Mongo MongoConfig `toml:"mongo"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the MongoDB backend.
type MongoConfig struct {
	URI        string `toml:"uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ResolverConfig names the cache-backed resolver used by encode and decode.
type ResolverConfig struct {
	Name string `toml:"name"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration is a time.Duration written as a string ("24h", "90m") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText writes the duration string.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// Load reads the configuration at path. An empty path reads [DefaultPath];
// a missing file at the default path yields the defaults. Unknown keys are
// rejected so typos do not silently fall back to defaults.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	c := &Config{}
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, nerrors.Wrap(nerrors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, nerrors.New(nerrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}

	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// SetDefaults fills every unset field.
func (c *Config) SetDefaults() {
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendFile
	}
	if c.Cache.Dir == "" {
		if dir, err := CacheDir(); err == nil {
			c.Cache.Dir = dir
		}
	}
	if c.Cache.TTL.Duration == 0 {
		c.Cache.TTL.Duration = DefaultCacheTTL
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = DefaultRedisAddr
	}
	if c.Cache.Mongo.Database == "" {
		c.Cache.Mongo.Database = DefaultMongoDatabase
	}
	if c.Cache.Mongo.Collection == "" {
		c.Cache.Mongo.Collection = DefaultMongoCollection
	}
	if c.Resolver.Name == "" {
		c.Resolver.Name = DefaultResolverName
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultServerAddr
	}
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var err error
	if _, perr := log.ParseLevel(c.Log.Level); perr != nil {
		err = multierr.Append(err, fmt.Errorf("log.level: %w", perr))
	}

	switch c.Cache.Backend {
	case BackendFile, BackendNone:
	case BackendRedis:
		if c.Cache.Redis.Addr == "" {
			err = multierr.Append(err, errors.New("cache.redis.addr is required"))
		}
		if c.Cache.Redis.DB < 0 {
			err = multierr.Append(err, errors.New("cache.redis.db must be >= 0"))
		}
	case BackendMongo:
		if c.Cache.Mongo.URI == "" {
			err = multierr.Append(err, errors.New("cache.mongo.uri is required"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("cache.backend: unknown backend %q", c.Cache.Backend))
	}
	if c.Cache.TTL.Duration < 0 {
		err = multierr.Append(err, errors.New("cache.ttl must not be negative"))
	}
	if c.Cache.Backend == BackendFile || c.Cache.Layered {
		if c.Cache.Dir == "" {
			err = multierr.Append(err, errors.New("cache.dir is required for the file cache"))
		}
	}
	if verr := nerrors.ValidateResolverName(c.Resolver.Name); verr != nil {
		err = multierr.Append(err, fmt.Errorf("resolver.name: %s", nerrors.UserMessage(verr)))
	}

	if err != nil {
		return nerrors.Wrap(nerrors.ErrCodeInvalidConfig, err, "invalid configuration")
	}
	return nil
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() log.Level {
	l, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return l
}

// CacheDir returns the cache directory using XDG standard (~/.cache/nodegraph/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// DefaultPath returns the default config file (~/.config/nodegraph/config.toml).
func DefaultPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}
