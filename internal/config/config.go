// Package config loads the user's saveguard configuration file, which can
// widen the protected-path rules and set CLI defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds user overrides from config.toml. Scalar defaults are
// pointers so "not set" is distinguishable from zero values.
type Config struct {
	// ProtectDirs are extra directory names treated as protected, on top of
	// the built-in list.
	ProtectDirs []string `toml:"protect-dirs,omitempty"`
	// ProtectExts are extra file extensions treated as protected.
	ProtectExts []string `toml:"protect-exts,omitempty"`
	ScanDepth   *int     `toml:"scan-depth,omitempty"`
	Verbose     *bool    `toml:"verbose,omitempty"`
	LogFile     *string  `toml:"log-file,omitempty"`
}

// Dir returns the configuration directory, using XDG_CONFIG_HOME with a
// fallback to ~/.config.
func Dir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "saveguard")
}

// Path returns the config file location.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads the config file. A missing file is not an error; it yields an
// empty config.
func Load() (*Config, error) {
	var c Config
	if _, err := toml.DecodeFile(Path(), &c); err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return &c, nil
}

// Save writes the config file, creating the directory if needed.
func Save(c *Config) error {
	if err := os.MkdirAll(Dir(), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	f, err := os.Create(Path())
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	return nil
}
