package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server ServerSettings `json:"server"`
	Addons []AddonConfig  `json:"addons"`
	Fetch  FetchSettings  `json:"fetch"`
	Log    LogConfig      `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// AddonConfig describes one upstream Stremio addon to aggregate.
type AddonConfig struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	URL     string `json:"url"`    // base URL, with or without /manifest.json
	Format  string `json:"format"` // "torbox" for the labeled format, empty for generic
	Enabled bool   `json:"enabled"`
}

type FetchSettings struct {
	TimeoutSeconds  int `json:"timeoutSeconds"`
	CacheTTLSeconds int `json:"cacheTtlSeconds"`
	Retries         int `json:"retries"`
}

type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"` // megabytes
	MaxBackups int    `json:"maxBackups"`
	MaxAge     int    `json:"maxAge"` // days
	Compress   bool   `json:"compress"`
}

// DefaultSettings returns the settings written on first run.
func DefaultSettings() *Settings {
	return &Settings{
		Server: ServerSettings{Host: "0.0.0.0", Port: 8480},
		Fetch: FetchSettings{
			TimeoutSeconds:  30,
			CacheTTLSeconds: 600,
			Retries:         0,
		},
		Log: LogConfig{
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     14,
			Compress:   true,
		},
	}
}

// Manager loads and persists settings at a fixed path.
type Manager struct {
	path string
	mu   sync.Mutex
}

func NewManager(path string) *Manager {
	return &Manager{path: path}
}

// Load reads the settings file, creating it with defaults when missing.
func (m *Manager) Load() (*Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	data, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		settings := DefaultSettings()
		if err := m.save(settings); err != nil {
			return nil, fmt.Errorf("write default settings: %w", err)
		}
		return settings, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parse settings %s: %w", m.path, err)
	}
	return settings, nil
}

// Save persists settings atomically (temp file + rename).
func (m *Manager) Save(settings *Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.save(settings)
}

func (m *Manager) save(settings *Settings) error {
	if dir := filepath.Dir(m.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, m.path)
}
