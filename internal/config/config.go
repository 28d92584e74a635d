package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"twprefix/internal/scan"
)

// FileName is the workspace config file looked up by default.
const FileName = ".twprefix.yaml"

var (
	// ErrBlankPrefix is returned by Validate when a prefix is set but blank.
	ErrBlankPrefix = errors.New("prefix cannot be empty")
	// ErrPrefixWhitespace is returned for a prefix containing whitespace,
	// which would split every prefixed class in two.
	ErrPrefixWhitespace = errors.New("prefix cannot contain whitespace")
)

// CheckPrefix rejects a blank prefix or one containing whitespace.
func CheckPrefix(prefix string) error {
	if strings.TrimSpace(prefix) == "" {
		return ErrBlankPrefix
	}
	if strings.ContainsFunc(prefix, unicode.IsSpace) {
		return ErrPrefixWhitespace
	}
	return nil
}

// Config holds all twprefix configuration.
type Config struct {
	// Prefix inserted before every utility class. Empty means "ask".
	Prefix string `yaml:"prefix"`

	// Dialect forces one grammar for every file; empty picks by extension.
	Dialect string `yaml:"dialect" validate:"omitempty,oneof=script typed-script markup-script typed-markup-script js javascript jsx ts typescript tsx"`

	// Helpers are the call names whose string arguments are class lists.
	Helpers []string `yaml:"helpers" validate:"required,min=1,dive,required"`

	// ClassAttributes are the markup attribute names holding class lists.
	ClassAttributes []string `yaml:"class_attributes" validate:"required,min=1,dive,required"`

	// Workspace scanning
	Workspace WorkspaceConfig `yaml:",inline"`

	// Watch mode
	Watch WatchConfig `yaml:"watch"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// WatchConfig configures the filesystem watcher.
type WatchConfig struct {
	Debounce string `yaml:"debounce"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	opts := scan.DefaultOptions()
	return &Config{
		Helpers:         opts.Helpers,
		ClassAttributes: opts.ClassAttributes,
		Workspace:       DefaultWorkspaceConfig(),
		Watch:           WatchConfig{Debounce: "300ms"},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// DefaultPath returns the config path inside workspace.
func DefaultPath(workspace string) string {
	return filepath.Join(workspace, FileName)
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults with environment overrides applied.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if p, ok := os.LookupEnv("TWPREFIX_PREFIX"); ok && p != "" {
		c.Prefix = p
	}
	if w := os.Getenv("TWPREFIX_WORKERS"); w != "" {
		if n, err := strconv.Atoi(w); err == nil && n > 0 {
			c.Workspace.Workers = n
		}
	}
	if lvl := os.Getenv("TWPREFIX_LOG_LEVEL"); lvl != "" {
		c.Logging.Level = lvl
	}
}

var validate = validator.New()

// Validate checks the configuration. A missing prefix is allowed (the CLI
// prompts for it); a blank one is not.
func (c *Config) Validate() error {
	if c.Prefix != "" {
		if err := CheckPrefix(c.Prefix); err != nil {
			return err
		}
	}
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if _, err := c.GetDebounce(); err != nil {
		return fmt.Errorf("invalid config: watch.debounce: %w", err)
	}
	return nil
}

// ScanOptions returns the scanner options described by the config.
func (c *Config) ScanOptions() scan.Options {
	return scan.Options{
		Helpers:         c.Helpers,
		ClassAttributes: c.ClassAttributes,
	}
}

// ForcedDialect returns the configured dialect override, if any.
func (c *Config) ForcedDialect() (scan.Dialect, bool, error) {
	if c.Dialect == "" {
		return "", false, nil
	}
	d, err := scan.ParseDialect(c.Dialect)
	if err != nil {
		return "", false, err
	}
	return d, true, nil
}

// GetDebounce returns the watch debounce as a duration.
func (c *Config) GetDebounce() (time.Duration, error) {
	if c.Watch.Debounce == "" {
		return 300 * time.Millisecond, nil
	}
	return time.ParseDuration(c.Watch.Debounce)
}
