// Package daemon manages the engagement engine's lifecycle and
// configuration.
package daemon

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/heritageworks/engage/internal/domain"
)

// Config holds all daemon configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Engine    EngineConfig    `toml:"engine"`
	Telemetry TelemetryConfig `toml:"telemetry"`
	Logging   LoggingConfig   `toml:"logging"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Host        string   `toml:"host"`
	Port        int      `toml:"port"`
	CORSOrigins []string `toml:"cors_origins"`
}

// DatabaseConfig controls the sqlite store location.
type DatabaseConfig struct {
	Dir string `toml:"dir"`
}

// EngineConfig controls engine behavior.
type EngineConfig struct {
	// AchievementsFile optionally points at a toml overlay of achievement
	// definitions provisioned by an external administrative process.
	// Definitions it names replace the built-in seed.
	AchievementsFile string `toml:"achievements_file"`

	// DefaultLeaderboardLimit is the top-N size when callers do not ask
	// for one.
	DefaultLeaderboardLimit int `toml:"default_leaderboard_limit"`
}

// TelemetryConfig controls observability.
type TelemetryConfig struct {
	Prometheus bool `toml:"prometheus"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	home := engageHome()
	return Config{
		Server: ServerConfig{
			Host:        "127.0.0.1",
			Port:        8087,
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Dir: home,
		},
		Engine: EngineConfig{
			DefaultLeaderboardLimit: 10,
		},
		Telemetry: TelemetryConfig{
			Prometheus: true,
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  filepath.Join(home, "engage.log"),
		},
	}
}

// LoadConfig reads config from ~/.engage/config.toml, falling back to
// defaults when no file exists.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(engageHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// SaveConfig writes the config to ~/.engage/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(engageHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// achievementsOverlay is the toml shape of an externally provisioned
// achievement definitions file.
type achievementsOverlay struct {
	Achievements []domain.AchievementDefinition `toml:"achievements"`
}

// LoadAchievementsFile parses a toml achievement overlay.
func LoadAchievementsFile(path string) ([]domain.AchievementDefinition, error) {
	var overlay achievementsOverlay
	if _, err := toml.DecodeFile(path, &overlay); err != nil {
		return nil, fmt.Errorf("parse achievements file: %w", err)
	}
	return overlay.Achievements, nil
}

// engageHome returns the engine's data directory.
func engageHome() string {
	if env := os.Getenv("ENGAGE_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".engage")
}

// EngageHome is exported for use by other packages.
func EngageHome() string {
	return engageHome()
}
