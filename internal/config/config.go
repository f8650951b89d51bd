// Package config loads svg2png settings from defaults, an optional YAML
// file and command-line flags, and validates them.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/AnyUserName/svg2png-cli/internal/profile"
)

// Config holds the run settings before they are frozen into a profile.
type Config struct {
	Zoom          float64 `yaml:"zoom"`           // 0 = not given
	Format        string  `yaml:"format"`         // grayscale, rgb or rgba
	ExpectedWidth int     `yaml:"expected_width"` // 0 = not given
	Sizes         []int   `yaml:"sizes"`          // nil or one per category
	Jobs          int     `yaml:"jobs"`           // 0 = NumCPU
	Manifest      bool    `yaml:"manifest"`
}

// ConfigError reports invalid user input. It aborts the run before any
// file is converted.
type ConfigError struct {
	Field string
	Err   error
}

func (e *ConfigError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

func invalid(field, format string, args ...any) *ConfigError {
	return &ConfigError{Field: field, Err: fmt.Errorf(format, args...)}
}

// Default returns the built-in settings.
func Default() Config {
	return Config{Format: string(profile.FormatRGBA)}
}

// Load reads a YAML file over the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, &ConfigError{Field: "config", Err: fmt.Errorf("failed to read config file: %w", err)}
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, &ConfigError{Field: "config", Err: fmt.Errorf("failed to parse config: %w", err)}
	}
	return cfg, nil
}

// Validate checks value ranges. It returns a *ConfigError.
func (c Config) Validate() error {
	if c.Zoom < 0 {
		return invalid("zoom", "must be > 0, got %v", c.Zoom)
	}
	if _, err := profile.ParseFormat(c.Format); err != nil {
		return &ConfigError{Field: "format", Err: err}
	}
	if c.ExpectedWidth < 0 {
		return invalid("expected_width", "must be > 0, got %d", c.ExpectedWidth)
	}
	if c.Sizes != nil {
		if len(c.Sizes) != profile.NumCategories {
			return invalid("sizes", "need %d values, got %d", profile.NumCategories, len(c.Sizes))
		}
		for i, s := range c.Sizes {
			if s <= 0 {
				return invalid("sizes", "%s size must be > 0, got %d", profile.Categories[i].Name, s)
			}
		}
	}
	if c.Jobs < 0 {
		return invalid("jobs", "must be >= 0, got %d", c.Jobs)
	}
	return nil
}

// Profile validates c and freezes it into an immutable profile.
func (c Config) Profile() (profile.Profile, error) {
	if err := c.Validate(); err != nil {
		return profile.Profile{}, err
	}
	format, _ := profile.ParseFormat(c.Format)
	p, err := profile.New(profile.Options{
		Zoom:          c.Zoom,
		Sizes:         c.Sizes,
		ExpectedWidth: c.ExpectedWidth,
		Format:        format,
	})
	if err != nil {
		return profile.Profile{}, &ConfigError{Err: err}
	}
	return p, nil
}
