// Package config loads HexGlobe settings.
//
// Settings are layered, later layers winning:
//
//  1. built-in defaults
//  2. the user file, $XDG_CONFIG_HOME/hexglobe/config.toml
//  3. the project file, ./hexglobe.toml
//  4. a .env file in the working directory (never overrides the real environment)
//  5. HEXGLOBE_* environment variables
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/hexglobe/pkg/cache"
	"github.com/matzehuels/hexglobe/pkg/errors"
	"github.com/matzehuels/hexglobe/pkg/pipeline"
	"github.com/matzehuels/hexglobe/pkg/tile"
)

// AppName names the configuration, cache and data directories.
const AppName = "hexglobe"

// Backend names.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Duration is a time.Duration written as a string ("24h", "90m") in TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Config is the full HexGlobe configuration.
type Config struct {
	Layout LayoutConfig `toml:"layout"`
	Cache  CacheConfig  `toml:"cache"`
	Tiles  TilesConfig  `toml:"tiles"`
	Server ServerConfig `toml:"server"`

	// Sources lists the files that contributed, in load order.
	Sources []string `toml:"-"`
}

// LayoutConfig holds request defaults.
type LayoutConfig struct {
	Resolution int `toml:"resolution"`
	Width      int `toml:"width"`
	Height     int `toml:"height"`
	MaxRings   int `toml:"max_rings"`
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend string      `toml:"backend"`
	Dir     string      `toml:"dir"`
	Prefix  string      `toml:"prefix"`
	TTL     Duration    `toml:"ttl"`
	Redis   RedisConfig `toml:"redis"`
}

// RedisConfig locates the Redis cache.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// TilesConfig selects and configures tile storage.
type TilesConfig struct {
	Backend   string      `toml:"backend"`
	Dir       string      `toml:"dir"`
	Namespace string      `toml:"namespace"`
	Mongo     MongoConfig `toml:"mongo"`
}

// MongoConfig locates the tile database.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// ServerConfig configures `hexglobe serve`.
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout: LayoutConfig{
			Resolution: pipeline.DefaultResolution,
			Width:      pipeline.DefaultWidth,
			Height:     pipeline.DefaultHeight,
			MaxRings:   pipeline.DefaultMaxRings,
		},
		Cache: CacheConfig{
			Backend: BackendFile,
			Dir:     CacheDir(),
			TTL:     Duration{cache.TTLLayout},
			Redis:   RedisConfig{Addr: "localhost:6379"},
		},
		Tiles: TilesConfig{
			Backend:   BackendFile,
			Dir:       filepath.Join(DataDir(), "tiles"),
			Namespace: tile.DefaultNamespace,
			Mongo:     MongoConfig{URI: "mongodb://localhost:27017", Database: AppName},
		},
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  Duration{15 * time.Second},
			WriteTimeout: Duration{60 * time.Second},
		},
	}
}

// Paths names the files Load reads. Empty entries are skipped.
type Paths struct {
	User    string
	Project string
	EnvFile string
}

// DefaultPaths returns the standard file locations.
func DefaultPaths() Paths {
	return Paths{
		User:    filepath.Join(ConfigDir(), "config.toml"),
		Project: AppName + ".toml",
		EnvFile: ".env",
	}
}

// Load builds the configuration from the standard locations.
func Load() (Config, error) {
	return LoadFrom(DefaultPaths())
}

// LoadFrom builds the configuration from the given files. Missing files are
// ignored; malformed ones are errors.
func LoadFrom(p Paths) (Config, error) {
	cfg := Default()
	for _, path := range []string{p.User, p.Project} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "config %s", path)
		}
		cfg.Sources = append(cfg.Sources, path)
	}

	if p.EnvFile != "" {
		if _, err := os.Stat(p.EnvFile); err == nil {
			if err := godotenv.Load(p.EnvFile); err != nil {
				return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "env file %s", p.EnvFile)
			}
			cfg.Sources = append(cfg.Sources, p.EnvFile)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() error {
	strs := map[string]*string{
		"HEXGLOBE_CACHE_BACKEND":   &c.Cache.Backend,
		"HEXGLOBE_CACHE_DIR":       &c.Cache.Dir,
		"HEXGLOBE_CACHE_PREFIX":    &c.Cache.Prefix,
		"HEXGLOBE_REDIS_ADDR":      &c.Cache.Redis.Addr,
		"HEXGLOBE_REDIS_PASSWORD":  &c.Cache.Redis.Password,
		"HEXGLOBE_TILES_BACKEND":   &c.Tiles.Backend,
		"HEXGLOBE_TILES_DIR":       &c.Tiles.Dir,
		"HEXGLOBE_TILES_NAMESPACE": &c.Tiles.Namespace,
		"HEXGLOBE_MONGO_URI":       &c.Tiles.Mongo.URI,
		"HEXGLOBE_MONGO_DATABASE":  &c.Tiles.Mongo.Database,
		"HEXGLOBE_ADDR":            &c.Server.Addr,
	}
	for name, dst := range strs {
		if v, ok := os.LookupEnv(name); ok {
			*dst = v
		}
	}

	ints := map[string]*int{
		"HEXGLOBE_RESOLUTION": &c.Layout.Resolution,
		"HEXGLOBE_WIDTH":      &c.Layout.Width,
		"HEXGLOBE_HEIGHT":     &c.Layout.Height,
		"HEXGLOBE_MAX_RINGS":  &c.Layout.MaxRings,
		"HEXGLOBE_REDIS_DB":   &c.Cache.Redis.DB,
	}
	for name, dst := range ints {
		if v, ok := os.LookupEnv(name); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "%s", name)
			}
			*dst = n
		}
	}

	if v, ok := os.LookupEnv("HEXGLOBE_CACHE_TTL"); ok {
		if err := c.Cache.TTL.UnmarshalText([]byte(v)); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "HEXGLOBE_CACHE_TTL")
		}
	}
	return nil
}

// Validate checks value ranges and backend names.
func (c Config) Validate() error {
	if err := errors.ValidateResolution(c.Layout.Resolution); err != nil {
		return err
	}
	if err := errors.ValidateExtent(c.Layout.Width, c.Layout.Height); err != nil {
		return err
	}
	if c.Layout.MaxRings < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "layout.max_rings must be positive")
	}
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "cache.backend must be %s, %s or %s (got %q)",
			BackendFile, BackendRedis, BackendNone, c.Cache.Backend)
	}
	switch c.Tiles.Backend {
	case BackendFile, BackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "tiles.backend must be %s or %s (got %q)",
			BackendFile, BackendMongo, c.Tiles.Backend)
	}
	return nil
}

// String renders the configuration as TOML with secrets masked.
func (c Config) String() string {
	masked := c
	if masked.Cache.Redis.Password != "" {
		masked.Cache.Redis.Password = "********"
	}
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(masked); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return b.String()
}

// =============================================================================
// Paths
// =============================================================================

// ConfigDir returns $XDG_CONFIG_HOME/hexglobe (~/.config/hexglobe).
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// CacheDir returns $XDG_CACHE_HOME/hexglobe (~/.cache/hexglobe).
func CacheDir() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// DataDir returns $XDG_DATA_HOME/hexglobe (~/.local/share/hexglobe).
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) string {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(home, fallback, AppName)
}
