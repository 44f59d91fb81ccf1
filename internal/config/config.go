package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"

	"github.com/arcanaland/cardfan/internal/motion"
)

// EnvPrefix is the prefix of environment overrides, e.g. CARDFAN_MY_SEAT
const EnvPrefix = "cardfan"

// Config represents the application configuration
type Config struct {
	// MySeat is the seat whose cards are shown face up (0 bottom .. 3 left)
	MySeat int `toml:"my_seat" envconfig:"my_seat"`
	// Turn selects the seat rotation; only 0 is supported
	Turn int `toml:"turn" envconfig:"turn"`

	LogLevel  string `toml:"log_level" envconfig:"log_level"`
	LogFile   string `toml:"log_file" envconfig:"log_file"`
	LogFormat string `toml:"log_format" envconfig:"log_format"`

	AssetDir string `toml:"asset_dir" envconfig:"asset_dir"`
	RNG      string `toml:"rng" envconfig:"rng"`
	FPS      int    `toml:"fps" envconfig:"fps"`
	Sound    bool   `toml:"sound" envconfig:"sound"`

	Threshold float64        `toml:"threshold" envconfig:"threshold"`
	Springs   motion.Springs `toml:"springs" ignored:"true"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		MySeat:    0,
		LogLevel:  "info",
		LogFormat: "text",
		RNG:       "default",
		FPS:       60,
		Threshold: motion.DefaultThreshold,
		Springs:   motion.DefaultSprings(),
	}
}

// Step returns the animation step implied by FPS
func (c Config) Step() time.Duration {
	if c.FPS <= 0 {
		return motion.DefaultStep
	}
	return time.Second / time.Duration(c.FPS)
}

// Validate checks values that cannot be fixed up later
func (c Config) Validate() error {
	if c.MySeat < 0 || c.MySeat > 3 {
		return fmt.Errorf("my_seat must be between 0 and 3, got %d", c.MySeat)
	}
	if c.FPS < 0 || c.FPS > 240 {
		return fmt.Errorf("fps must be between 1 and 240, got %d", c.FPS)
	}
	if c.Threshold <= 0 {
		return fmt.Errorf("threshold must be positive, got %g", c.Threshold)
	}
	return c.Springs.Validate()
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return xdgConfig
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".config")
}

// GetXDGStateHome returns XDG_STATE_HOME or default path
func GetXDGStateHome() string {
	if xdgState := os.Getenv("XDG_STATE_HOME"); xdgState != "" {
		return xdgState
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".local", "state")
}

// GetXDGCacheHome returns XDG_CACHE_HOME or default path
func GetXDGCacheHome() string {
	if xdgCache := os.Getenv("XDG_CACHE_HOME"); xdgCache != "" {
		return xdgCache
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(homeDir, ".cache")
}

// GetCacheDir returns the directory for generated previews
func GetCacheDir() string {
	return filepath.Join(GetXDGCacheHome(), "cardfan")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), "cardfan", "config.toml")
}

// GetDefaultLogPath returns where play logs when no log file is configured
func GetDefaultLogPath() string {
	return filepath.Join(GetXDGStateHome(), "cardfan", "play.log")
}

// Load reads the config file at path (the default path when empty), then
// applies environment overrides. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		path = GetConfigFilePath()
	}

	config := Default()
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, &config); err != nil {
			return Config{}, fmt.Errorf("error decoding config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("error reading config file: %w", err)
	}

	if err := envconfig.Process(EnvPrefix, &config); err != nil {
		return Config{}, fmt.Errorf("error reading environment: %w", err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// Write encodes config to path, creating its directory
func Write(path string, config Config) error {
	if path == "" {
		path = GetConfigFilePath()
	}

	// Ensure the config directory exists
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}
	defer file.Close()

	encoder := toml.NewEncoder(file)
	if err := encoder.Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	return nil
}

// Init writes the default config if none exists and returns its path
func Init(path string) (string, bool, error) {
	if path == "" {
		path = GetConfigFilePath()
	}

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := Write(path, Default()); err != nil {
		return "", false, err
	}
	return path, true, nil
}
