package app

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/raysh454/vulnscan-web/internal/cli"
	"github.com/raysh454/vulnscan-web/internal/history"
	"github.com/raysh454/vulnscan-web/internal/logging"
)

// Environment overrides, applied after the config file.
const (
	EnvAPIBaseURL    = "VULNSCAN_API_BASE_URL"
	EnvListenAddr    = "VULNSCAN_LISTEN_ADDR"
	EnvSessionSecret = "VULNSCAN_SESSION_SECRET"
	EnvLogLevel      = "VULNSCAN_LOG_LEVEL"
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheSQLite = "sqlite"
)

// Log backends.
const (
	LogStdout = "stdout"
	LogZap    = "zap"
)

// Config holds every runtime option of the web front end.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Backend BackendConfig `yaml:"backend"`
	Session SessionConfig `yaml:"session"`
	Cache   CacheConfig   `yaml:"cache"`
	Log     LogConfig     `yaml:"log"`
}

type ServerConfig struct {
	ListenAddr   string        `yaml:"listen_addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	HistoryLimit int           `yaml:"history_limit"`
}

// BackendConfig points at the scanning backend.
type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
}

type SessionConfig struct {
	// Secret signs session cookies. Empty means a random secret per process.
	Secret        string        `yaml:"secret"`
	CookieName    string        `yaml:"cookie_name"`
	TTL           time.Duration `yaml:"ttl"`
	IdleTimeout   time.Duration `yaml:"idle_timeout"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
	Secure        bool          `yaml:"secure"`
}

// CacheConfig selects where the per-session result is kept.
type CacheConfig struct {
	Backend string `yaml:"backend"`
	Path    string `yaml:"path"`
}

type LogConfig struct {
	Backend    string `yaml:"backend"`
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// DefaultConfig returns a Config populated with sensible development defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddr:   ":8080",
			ReadTimeout:  15 * time.Second,
			HistoryLimit: history.DefaultLimit,
		},
		Backend: BackendConfig{
			BaseURL: "http://localhost:8000",
		},
		Session: SessionConfig{
			TTL:           7 * 24 * time.Hour,
			IdleTimeout:   24 * time.Hour,
			SweepInterval: 10 * time.Minute,
		},
		Cache: CacheConfig{
			Backend: CacheMemory,
			Path:    "data/vulnscan-web.db",
		},
		Log: LogConfig{
			Backend: LogStdout,
			Level:   "info",
		},
	}
}

// LoadConfig reads path over the defaults. An empty path yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.UnmarshalStrict(b, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from the environment through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvAPIBaseURL)); v != "" {
		c.Backend.BaseURL = v
	}
	if v := strings.TrimSpace(getenv(EnvListenAddr)); v != "" {
		c.Server.ListenAddr = v
	}
	if v := getenv(EnvSessionSecret); v != "" {
		c.Session.Secret = v
	}
	if v := strings.TrimSpace(getenv(EnvLogLevel)); v != "" {
		c.Log.Level = v
	}
}

// ApplyArgs overrides fields from command-line flags.
func (c *Config) ApplyArgs(args *cli.CLIArgs) {
	if args == nil {
		return
	}
	if args.ListenAddr != "" {
		c.Server.ListenAddr = args.ListenAddr
	}
	if args.APIBaseURL != "" {
		c.Backend.BaseURL = args.APIBaseURL
	}
	if args.LogLevel != "" {
		c.Log.Level = args.LogLevel
	}
}

// Validate rejects configurations the application cannot start with.
func (c *Config) Validate() error {
	u, err := url.Parse(strings.TrimSpace(c.Backend.BaseURL))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("backend.base_url must be an absolute http(s) url, got %q", c.Backend.BaseURL)
	}
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	switch c.Cache.Backend {
	case CacheMemory:
	case CacheSQLite:
		if strings.TrimSpace(c.Cache.Path) == "" {
			return fmt.Errorf("cache.path is required for the sqlite backend")
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	switch c.Log.Backend {
	case LogStdout, LogZap:
	default:
		return fmt.Errorf("unknown log backend %q", c.Log.Backend)
	}
	return nil
}

// ZapConfig maps the log section onto the zap logger options.
func (c LogConfig) ZapConfig() logging.ZapConfig {
	return logging.ZapConfig{
		Level:      c.Level,
		File:       c.File,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
	}
}
