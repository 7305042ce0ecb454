// Package config loads and saves the gamma tools settings file.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/algo-gamma/gamma/detect"
	"github.com/cwbudde/algo-gamma/gamma/peak"
	"github.com/cwbudde/algo-gamma/gamma/roi"
)

// FileName is the settings file kept in the home directory.
const FileName = ".gamma_tools_config.json"

// Config holds the last used folder and the detection parameters. Fields
// are loaded from JSON and may be overridden by command-line flags.
type Config struct {
	LastUsedFolder string `json:"last_used_folder"`

	// Detection parameters
	Sigma         float64 `json:"sigma"`
	MinProminence float64 `json:"min_prominence"`
	GuardOffset   float64 `json:"guard_offset"`
	Expansion     float64 `json:"expansion"`

	LogLevel string `json:"log_level"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Sigma:         peak.DefaultSigma,
		MinProminence: peak.DefaultMinProminence,
		GuardOffset:   detect.DefaultGuard,
		Expansion:     roi.DefaultExpansion,
		LogLevel:      "info",
	}
}

// DefaultPath returns the settings file in the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: home directory: %w", err)
	}
	return filepath.Join(home, FileName), nil
}

// Validate clamps values to usable ranges.
func (c *Config) Validate() error {
	if c.Sigma <= 0 {
		c.Sigma = peak.DefaultSigma
	}
	if c.MinProminence <= 0 {
		c.MinProminence = peak.DefaultMinProminence
	}
	if c.GuardOffset < 0 {
		c.GuardOffset = detect.DefaultGuard
	}
	if c.Expansion <= 0 || c.Expansion > 10 {
		c.Expansion = roi.DefaultExpansion
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
		c.LogLevel = strings.ToLower(c.LogLevel)
	default:
		c.LogLevel = "info"
	}
	return nil
}

// Locator returns the peak locator these settings describe.
func (c *Config) Locator() peak.Locator {
	return peak.Locator{Sigma: c.Sigma, MinProminence: c.MinProminence}
}

// Load reads the configuration at path. A missing file yields
// DefaultConfig(). On a JSON error the defaults are returned with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: open: %w", err)
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("config: decode %s: %w", path, err)
	}
	_ = cfg.Validate()
	return cfg, nil
}

// Save writes the configuration to path as indented JSON.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("config: create: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// Remember stores folder as the last used folder and saves the file.
func (c *Config) Remember(path, folder string) error {
	c.LastUsedFolder = folder
	return c.Save(path)
}
