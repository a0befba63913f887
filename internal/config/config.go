// Package config handles configuration loading for sprintforge.
// It supports XDG config paths, environment variables, and built-in defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for sprintforge.
type Config struct {
	Storage Storage `mapstructure:"storage"`
	Engine  Engine  `mapstructure:"engine"`
	Board   Board   `mapstructure:"board"`
}

// Storage selects and locates the persistence backend.
type Storage struct {
	// Backend is "yaml" or "sqlite".
	Backend string `mapstructure:"backend"`
	// Path is the collections file (yaml) or database file (sqlite).
	// Empty means the default under the XDG data directory.
	Path string `mapstructure:"path"`
	// Watch enables reloading when the collections file changes on disk.
	Watch bool `mapstructure:"watch"`
}

// Engine holds lifecycle engine settings.
type Engine struct {
	// TickInterval is how often sprint statuses are re-resolved against
	// the wall clock. Anything up to a day keeps statuses observably
	// fresh; shorter just lowers latency.
	TickInterval time.Duration `mapstructure:"tick_interval"`
	// DebugLog is the path of the engine debug log. Empty disables it.
	DebugLog string `mapstructure:"debug_log"`
}

// Board holds terminal board settings.
type Board struct {
	RefreshRate time.Duration `mapstructure:"refresh_rate"`
}

// maxTickInterval bounds the tick so sprint statuses never lag the calendar
// by more than a day.
const maxTickInterval = 24 * time.Hour

// DataDir returns the sprintforge data directory.
func DataDir() string {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, _ := os.UserHomeDir()
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "sprintforge")
}

func userConfigDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, _ := os.UserHomeDir()
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "sprintforge")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", "yaml")
	v.SetDefault("storage.path", "")
	v.SetDefault("storage.watch", false)
	v.SetDefault("engine.tick_interval", 3*time.Second)
	v.SetDefault("engine.debug_log", "")
	v.SetDefault("board.refresh_rate", time.Second)
}

// Load reads configuration from the user config file and the environment.
// Precedence (highest to lowest):
// 1. Environment variables (SPRINTFORGE_*)
// 2. User config (~/.config/sprintforge/config.yaml)
// 3. Built-in defaults
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(userConfigDir())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading user config: %w", err)
		}
	}

	v.SetEnvPrefix("SPRINTFORGE")
	v.AutomaticEnv()
	v.BindEnv("storage.backend", "SPRINTFORGE_STORAGE_BACKEND")
	v.BindEnv("storage.path", "SPRINTFORGE_STORAGE_PATH")

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg.normalize()
}

// LoadFromPath loads configuration from a specific file (for testing).
func LoadFromPath(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg.normalize()
}

// normalize fills derived defaults and validates ranges.
func (c *Config) normalize() (*Config, error) {
	switch c.Storage.Backend {
	case "yaml":
		if c.Storage.Path == "" {
			c.Storage.Path = filepath.Join(DataDir(), "collections.yaml")
		}
	case "sqlite":
		if c.Storage.Path == "" {
			c.Storage.Path = filepath.Join(DataDir(), "sprintforge.db")
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want yaml or sqlite)", c.Storage.Backend)
	}

	if c.Engine.TickInterval <= 0 {
		c.Engine.TickInterval = 3 * time.Second
	}
	if c.Engine.TickInterval > maxTickInterval {
		return nil, fmt.Errorf("tick_interval %s exceeds the one-day maximum", c.Engine.TickInterval)
	}
	if c.Board.RefreshRate <= 0 {
		c.Board.RefreshRate = time.Second
	}
	return c, nil
}
