// internal/config/config.go
//
// This package handles configuration and the .counter directory structure.
// Every terminal that runs the counter client gets a .counter/ folder in
// the directory it was launched from, holding config, session state and logs.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// CounterDir is the name of the directory we create next to the binary
	CounterDir = ".counter"

	defaultBaseURL        = "http://127.0.0.1:8000"
	defaultTimeoutSeconds = 15
	defaultPollSeconds    = 10
)

const defaultConfigYAML = `# counter client configuration
version: 1

api:
  # Base address of the counter backend. Can be overridden with
  # COUNTER_API_BASE_URL.
  base_url: http://127.0.0.1:8000
  timeout_seconds: 15

board:
  # The public display re-reads active orders on this fixed interval.
  # Staleness on the board is bounded by one interval.
  poll_seconds: 10
`

// APIConfig describes how to reach the backend.
type APIConfig struct {
	BaseURL        string `yaml:"base_url" env:"COUNTER_API_BASE_URL" validate:"required,url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" env:"COUNTER_API_TIMEOUT" validate:"gte=1"`
}

// BoardConfig captures the display board schedule.
type BoardConfig struct {
	PollSeconds int `yaml:"poll_seconds" env:"COUNTER_BOARD_POLL" validate:"gte=1"`
}

// FileConfig models .counter/config.yaml.
type FileConfig struct {
	Version int         `yaml:"version" validate:"gte=1"`
	API     APIConfig   `yaml:"api"`
	Board   BoardConfig `yaml:"board"`
}

// Config holds the runtime configuration for the counter client.
type Config struct {
	// BaseDir is the directory the client was launched from
	BaseDir string

	// CounterHome is BaseDir/.counter
	CounterHome string

	File FileConfig
}

// InitCounterDir creates the .counter directory structure in the given base
// directory. This is called before the TUI starts.
//
// Structure created:
// .counter/
// ├── state/  <- persisted session (credential + role survive restarts)
// └── logs/   <- shift logbook
func InitCounterDir(baseDir string) error {
	home := filepath.Join(baseDir, CounterDir)
	dirs := []string{
		filepath.Join(home, "state"),
		filepath.Join(home, "logs"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureConfigFile(filepath.Join(home, "config.yaml"))
}

// New loads configuration for the given base directory. Precedence is
// defaults, then config.yaml, then a .env file, then real environment
// variables.
func New(baseDir string) (*Config, error) {
	cfg := &Config{
		BaseDir:     baseDir,
		CounterHome: filepath.Join(baseDir, CounterDir),
		File:        defaultFileConfig(),
	}

	if err := cfg.loadFile(); err != nil {
		return nil, err
	}

	// A .env next to the binary is optional; missing is not an error.
	_ = godotenv.Load(filepath.Join(baseDir, ".env"))
	if err := env.Parse(&cfg.File.API); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}
	if err := env.Parse(&cfg.File.Board); err != nil {
		return nil, fmt.Errorf("config: environment: %w", err)
	}

	cfg.File.applyDefaults()
	cfg.File.normalize()
	if err := cfg.File.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// ConfigPath returns the on-disk location of the config file.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.CounterHome, "config.yaml")
}

// StateDir returns the directory that holds the persisted session.
func (c *Config) StateDir() string {
	return filepath.Join(c.CounterHome, "state")
}

// LogPath returns the shift logbook file.
func (c *Config) LogPath() string {
	return filepath.Join(c.CounterHome, "logs", "shift.log")
}

// BaseURL returns the backend address.
func (c *Config) BaseURL() string {
	return c.File.API.BaseURL
}

// RequestTimeout returns the per-request deadline for backend calls.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.File.API.TimeoutSeconds) * time.Second
}

// PollInterval returns the fixed interval between display board reads.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.File.Board.PollSeconds) * time.Second
}

func (c *Config) loadFile() error {
	path := c.ConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	var parsed FileConfig
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	c.File = parsed
	return nil
}

func defaultFileConfig() FileConfig {
	return FileConfig{
		Version: 1,
		API: APIConfig{
			BaseURL:        defaultBaseURL,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Board: BoardConfig{
			PollSeconds: defaultPollSeconds,
		},
	}
}

func (fc *FileConfig) applyDefaults() {
	if fc.Version == 0 {
		fc.Version = 1
	}
	if fc.API.BaseURL == "" {
		fc.API.BaseURL = defaultBaseURL
	}
	if fc.API.TimeoutSeconds == 0 {
		fc.API.TimeoutSeconds = defaultTimeoutSeconds
	}
	if fc.Board.PollSeconds == 0 {
		fc.Board.PollSeconds = defaultPollSeconds
	}
}

func (fc *FileConfig) normalize() {
	fc.API.BaseURL = strings.TrimRight(strings.TrimSpace(fc.API.BaseURL), "/")
}

func (fc *FileConfig) validate() error {
	if err := validator.New().Struct(fc); err != nil {
		var invalid validator.ValidationErrors
		if errors.As(err, &invalid) && len(invalid) > 0 {
			first := invalid[0]
			return fmt.Errorf("field %s failed %q validation", first.Namespace(), first.Tag())
		}
		return err
	}
	return nil
}

func ensureConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
