package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"voicedash/config/storage"
)

const (
	settingsFile = "settings.yaml"
	storeFile    = "store.json"
	logFile      = "voicedash.log"
)

// Manager resolves the config directory and loads settings
type Manager struct {
	configDir string
	mu        sync.Mutex // Mutex to protect concurrent access
}

// NewConfigManager creates a new Manager rooted at the XDG config directory
func NewConfigManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	// Check XDG_CONFIG_HOME environment variable for custom config location
	xdgConfigHome := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfigHome == "" {
		// Use default XDG path (~/.config)
		xdgConfigHome = filepath.Join(homeDir, ".config")
	}

	configDir := filepath.Join(xdgConfigHome, "voicedash")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	// Migrate a store written by older versions to the XDG location
	oldStorePath := filepath.Join(homeDir, ".voicedash.json")
	newStorePath := filepath.Join(configDir, storeFile)
	if storage.ShouldMigrateConfig(oldStorePath, newStorePath) {
		if err := storage.MigrateConfig(oldStorePath, newStorePath); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  Failed to migrate store: %v\n", err)
		} else {
			fmt.Fprintln(os.Stderr, "✅ Migrated store from old location successfully")
		}
	}

	return &Manager{
		configDir: configDir,
	}, nil
}

// NewManagerAt creates a Manager for an explicit directory, without migration
func NewManagerAt(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}
	return &Manager{configDir: dir}, nil
}

// GetConfigDir returns the config directory
func (cm *Manager) GetConfigDir() string {
	return cm.configDir
}

// SettingsPath returns the path of settings.yaml
func (cm *Manager) SettingsPath() string {
	return filepath.Join(cm.configDir, settingsFile)
}

// DefaultStorePath returns where the file backend keeps its document
func (cm *Manager) DefaultStorePath() string {
	return filepath.Join(cm.configDir, storeFile)
}

// LogPath returns the log file path
func (cm *Manager) LogPath() string {
	return filepath.Join(cm.configDir, logFile)
}

// Load returns defaults overlaid with settings.yaml (if present) and the
// environment, validated.
func (cm *Manager) Load() (*Settings, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	s := DefaultSettings()

	data, err := os.ReadFile(cm.SettingsPath())
	switch {
	case err == nil:
		if err := decodeSettings(data, &s); err != nil {
			return nil, fmt.Errorf("%s: %w", cm.SettingsPath(), err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	applyEnv(&s)

	if s.Store.Path == "" {
		s.Store.Path = cm.DefaultStorePath()
	}

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return &s, nil
}

// WriteDefault writes the default settings.yaml. An existing file is only
// replaced when force is set; the previous version is kept as a backup.
func (cm *Manager) WriteDefault(force bool) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	path := cm.SettingsPath()
	if storage.FileExists(path) && !force {
		return fmt.Errorf("settings file already exists: %s", path)
	}

	backups := 0
	if force {
		backups = storage.DefaultBackupRetention
	}
	if err := storage.AtomicWrite(path, []byte(DefaultSettingsYAML), backups); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
