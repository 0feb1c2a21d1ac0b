package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"voicedash/config/session"
	"voicedash/internal/logging"
)

// Store backends
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Settings is the contents of settings.yaml after defaults and
// environment overrides are applied.
type Settings struct {
	Store   StoreSettings   `yaml:"store"`
	Catalog CatalogSettings `yaml:"catalog"`
	Session SessionSettings `yaml:"session"`
	Log     LogSettings     `yaml:"log"`
}

// StoreSettings selects the key-value backend.
type StoreSettings struct {
	Backend string        `yaml:"backend"`
	Path    string        `yaml:"path"`
	Backups int           `yaml:"backups"`
	Redis   RedisSettings `yaml:"redis"`
}

// RedisSettings configures the redis backend.
type RedisSettings struct {
	Addr   string `yaml:"addr"`
	DB     int    `yaml:"db"`
	Prefix string `yaml:"prefix"`
}

// CatalogSettings points at the STT catalog. An empty source means the
// bundled catalog.
type CatalogSettings struct {
	Source  string        `yaml:"source"`
	Timeout time.Duration `yaml:"timeout"`
}

// SessionSettings controls session restore.
type SessionSettings struct {
	Restore string `yaml:"restore"`
}

// LogSettings controls the log file.
type LogSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// DefaultSettings returns the built-in settings.
func DefaultSettings() Settings {
	return Settings{
		Store: StoreSettings{
			Backend: BackendFile,
			Backups: 3,
			Redis: RedisSettings{
				Addr:   "localhost:6379",
				Prefix: "voicedash",
			},
		},
		Catalog: CatalogSettings{
			Timeout: 10 * time.Second,
		},
		Session: SessionSettings{
			Restore: string(session.RestoreTrust),
		},
		Log: LogSettings{
			Level:  "info",
			Format: "json",
		},
	}
}

// DefaultSettingsYAML is written by `voicedash config init`.
const DefaultSettingsYAML = `# voicedash settings
store:
  backend: file        # file | redis | memory
  path: ""             # default: store.json in the config directory
  backups: 3
  redis:
    addr: "localhost:6379"
    db: 0
    prefix: "voicedash"
catalog:
  source: ""           # empty = bundled catalog; a file path or http(s) URL
  timeout: 10s
session:
  restore: trust       # trust | validate
log:
  level: info          # debug | info | warn | error
  format: json         # json | text
`

// decodeSettings layers a YAML document over s.
func decodeSettings(data []byte, s *Settings) error {
	if err := yaml.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to parse settings: %w", err)
	}
	return nil
}

// applyEnv overrides settings from VOICEDASH_* variables.
func applyEnv(s *Settings) {
	s.Store.Backend = getEnv("VOICEDASH_STORE_BACKEND", s.Store.Backend)
	s.Store.Path = getEnv("VOICEDASH_STORE_PATH", s.Store.Path)
	s.Store.Redis.Addr = getEnv("VOICEDASH_REDIS_ADDR", s.Store.Redis.Addr)
	s.Store.Redis.Prefix = getEnv("VOICEDASH_REDIS_PREFIX", s.Store.Redis.Prefix)
	s.Catalog.Source = getEnv("VOICEDASH_CATALOG", s.Catalog.Source)
	s.Session.Restore = getEnv("VOICEDASH_SESSION_RESTORE", s.Session.Restore)
	s.Log.Level = getEnv("VOICEDASH_LOG_LEVEL", s.Log.Level)
	s.Log.Format = getEnv("VOICEDASH_LOG_FORMAT", s.Log.Format)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Validate checks the settings for values no component can use.
func (s Settings) Validate() error {
	switch s.Store.Backend {
	case BackendFile, BackendMemory:
	case BackendRedis:
		if s.Store.Redis.Addr == "" {
			return fmt.Errorf("store.redis.addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("unknown store backend %q (want file, redis or memory)", s.Store.Backend)
	}
	if s.Store.Backups < 0 {
		return fmt.Errorf("store.backups cannot be negative")
	}
	if s.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog.timeout must be positive")
	}
	if _, err := session.ParseRestorePolicy(s.Session.Restore); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(s.Log.Level); err != nil {
		return err
	}
	if s.Log.Format != "json" && s.Log.Format != "text" {
		return fmt.Errorf("unknown log format %q (want json or text)", s.Log.Format)
	}
	return nil
}

// RestorePolicy returns the parsed session restore policy.
func (s Settings) RestorePolicy() session.RestorePolicy {
	p, err := session.ParseRestorePolicy(s.Session.Restore)
	if err != nil {
		return session.RestoreTrust
	}
	return p
}
