package config

import "twprefix/internal/logging"

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level      string          `yaml:"level" validate:"omitempty,oneof=debug info warn error"`
	Format     string          `yaml:"format" validate:"omitempty,oneof=console json"`
	Categories map[string]bool `yaml:"categories,omitempty"` // Per-category toggles
}

// IsCategoryEnabled returns whether logging is enabled for a category.
// Categories not listed are enabled.
func (c *LoggingConfig) IsCategoryEnabled(category string) bool {
	if c.Categories == nil {
		return true
	}
	enabled, exists := c.Categories[category]
	if !exists {
		return true
	}
	return enabled
}

// Options converts the config into logger options. verbose forces debug.
func (c *LoggingConfig) Options(verbose bool) logging.Options {
	opts := logging.Options{
		Level:      c.Level,
		Format:     c.Format,
		Categories: c.Categories,
	}
	if verbose {
		opts.Level = "debug"
	}
	return opts
}
