// Package config loads optional tool configuration. The assembler reads no
// implicit configuration: a file is only consulted when the user passes
// -config, and command-line flags always win over file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds the tool options a user may preset in a file.
type Config struct {
	// Output settings
	Output struct {
		Directory string `toml:"directory"`
		Verbose   bool   `toml:"verbose"`
	} `toml:"output"`

	// Symbol dump settings
	Symbols struct {
		Dump bool   `toml:"dump"`
		File string `toml:"file"`
	} `toml:"symbols"`

	// TUI browser settings
	TUI struct {
		Enabled bool `toml:"enabled"`
	} `toml:"tui"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.Output.Directory = "."
	cfg.Output.Verbose = false
	cfg.Symbols.Dump = false
	cfg.Symbols.File = ""
	cfg.TUI.Enabled = false
	return cfg
}

// GetConfigPath returns the platform-specific config file path
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\word15asm\config.toml
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "word15asm")

	case "darwin", "linux":
		// macOS/Linux: ~/.config/word15asm/config.toml
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "word15asm")

	default:
		// Unknown platform: use current directory
		return "config.toml"
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		// If we can't create the directory, fall back to current directory
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load reads a TOML configuration file over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as TOML, creating parent directories as
// needed.
func (c *Config) Save(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	f, err := os.Create(path) // #nosec G304 -- user-specified config path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
