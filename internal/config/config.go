// Package config handles configuration loading, validation, and
// persistence for the TF2 Game Coordinator client.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	DefaultConfigDir  = "config"
	DefaultConfigFile = "config.json"

	// DefaultAppID is the Steam application id of Team Fortress 2.
	DefaultAppID = 440

	// DefaultGCVersion is the protocol version sent in ClientHello.
	DefaultGCVersion = 1

	DefaultCraftTimeoutSec = 60
	DefaultAPIPort         = 5440
)

// Config is the root configuration structure.
type Config struct {
	mu   sync.RWMutex
	path string

	GCData          GCData          `json:"gc_data"`
	ApplicationData ApplicationData `json:"application_data"`
}

// GCData contains Game Coordinator session configuration.
type GCData struct {
	// Steam application id the GC session is addressed to.
	AppID uint32 `json:"app_id"`

	// GC protocol version advertised in ClientHello.
	Version uint32 `json:"gc_version"`

	// Account identity (SteamID64) owning the shared object cache.
	AccountID uint64 `json:"account_id"`

	// Bound on waiting for a craft response, in seconds.
	CraftTimeoutSec int `json:"craft_timeout_sec"`

	// Path of the sqlite item schema cache. Empty disables caching.
	SchemaCachePath string `json:"schema_cache_path"`
}

// ApplicationData contains tooling configuration.
type ApplicationData struct {
	Logging LoggingConfig `json:"logging"`
	API     APIConfig     `json:"api"`
	MQTT    MQTTConfig    `json:"mqtt"`
}

// LoggingConfig holds log output settings.
type LoggingConfig struct {
	Level     string `json:"level"`
	Directory string `json:"directory"`
	Console   bool   `json:"console"`
}

// APIConfig holds debug/introspection HTTP server settings.
type APIConfig struct {
	Enabled bool   `json:"enabled"`
	Bind    string `json:"bind_address"`
	Port    int    `json:"port"`
}

// MQTTConfig holds optional telemetry publishing settings.
type MQTTConfig struct {
	Enabled   bool   `json:"enabled"`
	BrokerURL string `json:"broker_url"`
	Port      int    `json:"port"`
	ClientID  string `json:"client_id"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	UseTLS    bool   `json:"use_tls"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		GCData: GCData{
			AppID:           DefaultAppID,
			Version:         DefaultGCVersion,
			CraftTimeoutSec: DefaultCraftTimeoutSec,
			SchemaCachePath: filepath.Join(DefaultConfigDir, "schema.db"),
		},
		ApplicationData: ApplicationData{
			Logging: LoggingConfig{Level: "info", Directory: "logs", Console: true},
			API:     APIConfig{Bind: "127.0.0.1", Port: DefaultAPIPort},
		},
	}
}

// Load reads a config file, applying defaults for absent fields.
func Load(path string) (*Config, error) {
	cfg := Default()
	cfg.path = path

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config back to its file.
func (c *Config) Save() error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.path == "" {
		return fmt.Errorf("config has no backing file")
	}
	data, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return os.WriteFile(c.path, data, 0644)
}

// Validate checks required fields.
func (c *Config) Validate() error {
	if c.GCData.AppID == 0 {
		return fmt.Errorf("gc_data.app_id must be set")
	}
	if c.GCData.CraftTimeoutSec <= 0 {
		c.GCData.CraftTimeoutSec = DefaultCraftTimeoutSec
	}
	return nil
}

// GetGCData returns a copy of the GC session configuration.
func (c *Config) GetGCData() GCData {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.GCData
}

// SetAccountID records the cache owner identity. Used by tooling that
// infers the owner from a capture instead of configuration.
func (c *Config) SetAccountID(id uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.GCData.AccountID = id
}

// CraftTimeout returns the craft response bound as a duration.
func (c *Config) CraftTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(c.GCData.CraftTimeoutSec) * time.Second
}
