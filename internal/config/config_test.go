package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"twprefix/internal/scan"
)

func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv("TWPREFIX_PREFIX", "")
	t.Setenv("TWPREFIX_WORKERS", "")
	t.Setenv("TWPREFIX_LOG_LEVEL", "")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Empty(t, cfg.Prefix)
	assert.Equal(t, []string{"cva", "cn"}, cfg.Helpers)
	assert.Equal(t, []string{"className", "class"}, cfg.ClassAttributes)
	assert.Equal(t, int64(2*1024*1024), cfg.Workspace.MaxFileBytes)
	assert.GreaterOrEqual(t, cfg.Workspace.Workers, 2)
	assert.LessOrEqual(t, cfg.Workspace.Workers, 16)
	assert.Contains(t, cfg.Workspace.IgnorePatterns, "node_modules")
	assert.Equal(t, "warn", cfg.Logging.Level)
	require.NoError(t, cfg.Validate())

	d, err := cfg.GetDebounce()
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, d)
}

func TestConfig_SaveLoad(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := DefaultConfig()
	cfg.Prefix = "tw-"
	cfg.Helpers = []string{"cn", "clsx"}
	cfg.Watch.Debounce = "1s"

	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tw-", loaded.Prefix)
	assert.Equal(t, []string{"cn", "clsx"}, loaded.Helpers)

	d, err := loaded.GetDebounce()
	require.NoError(t, err)
	assert.Equal(t, time.Second, d)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Helpers, cfg.Helpers)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("prefix: ui-\ndialect: tsx\n"), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "ui-", cfg.Prefix)
	assert.Equal(t, []string{"className", "class"}, cfg.ClassAttributes)

	d, forced, err := cfg.ForcedDialect()
	require.NoError(t, err)
	assert.True(t, forced)
	assert.Equal(t, scan.DialectTypedMarkupScript, d)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("helpers: [unterminated\n"), 0644))

	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"blank prefix", func(c *Config) { c.Prefix = "   " }, true},
		{"unknown dialect", func(c *Config) { c.Dialect = "python" }, true},
		{"no helpers", func(c *Config) { c.Helpers = nil }, true},
		{"empty helper name", func(c *Config) { c.Helpers = []string{"cn", ""} }, true},
		{"zero workers", func(c *Config) { c.Workspace.Workers = 0 }, true},
		{"extension without dot", func(c *Config) { c.Workspace.Extensions = []string{"tsx"} }, true},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, true},
		{"bad debounce", func(c *Config) { c.Watch.Debounce = "soon" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_DialectAliases(t *testing.T) {
	names := []string{"js", "javascript", "jsx", "ts", "typescript", "tsx"}
	for _, d := range scan.Dialects {
		names = append(names, string(d))
	}
	for _, name := range names {
		cfg := DefaultConfig()
		cfg.Dialect = name
		assert.NoError(t, cfg.Validate(), "dialect %q", name)
		_, forced, err := cfg.ForcedDialect()
		assert.NoError(t, err, "dialect %q", name)
		assert.True(t, forced)
	}
}

func TestValidate_BlankPrefixSentinel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Prefix = "\t"
	assert.ErrorIs(t, cfg.Validate(), ErrBlankPrefix)
}

func TestValidate_PrefixWhitespace(t *testing.T) {
	for _, p := range []string{" ts-", "ts- ", "t s-", "ts-\n"} {
		cfg := DefaultConfig()
		cfg.Prefix = p
		assert.ErrorIs(t, cfg.Validate(), ErrPrefixWhitespace, "prefix %q", p)
	}
	assert.NoError(t, CheckPrefix("tw:"))
}

func TestScanOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Helpers = []string{"tw"}
	opts := cfg.ScanOptions()
	assert.Equal(t, []string{"tw"}, opts.Helpers)
	assert.Equal(t, cfg.ClassAttributes, opts.ClassAttributes)
}

func TestLoggingConfig(t *testing.T) {
	lc := LoggingConfig{Level: "warn", Categories: map[string]bool{"scan": false}}
	assert.False(t, lc.IsCategoryEnabled("scan"))
	assert.True(t, lc.IsCategoryEnabled("rewrite"))

	assert.Equal(t, "warn", lc.Options(false).Level)
	assert.Equal(t, "debug", lc.Options(true).Level)

	var empty LoggingConfig
	assert.True(t, empty.IsCategoryEnabled("anything"))
}
