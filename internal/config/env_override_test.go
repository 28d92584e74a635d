package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides(t *testing.T) {
	t.Run("TWPREFIX_PREFIX overrides file prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TWPREFIX_PREFIX", "env-")

		cfg := &Config{Prefix: "file-"}
		cfg.applyEnvOverrides()

		assert.Equal(t, "env-", cfg.Prefix)
	})

	t.Run("empty TWPREFIX_PREFIX is ignored", func(t *testing.T) {
		clearEnv(t)

		cfg := &Config{Prefix: "file-"}
		cfg.applyEnvOverrides()

		assert.Equal(t, "file-", cfg.Prefix)
	})

	t.Run("TWPREFIX_WORKERS sets worker count", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TWPREFIX_WORKERS", "7")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 7, cfg.Workspace.Workers)
	})

	t.Run("invalid TWPREFIX_WORKERS is ignored", func(t *testing.T) {
		clearEnv(t)
		for _, v := range []string{"many", "0", "-3"} {
			t.Setenv("TWPREFIX_WORKERS", v)

			cfg := &Config{Workspace: WorkspaceConfig{Workers: 4}}
			cfg.applyEnvOverrides()

			assert.Equal(t, 4, cfg.Workspace.Workers, v)
		}
	})

	t.Run("TWPREFIX_LOG_LEVEL sets level", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("TWPREFIX_LOG_LEVEL", "debug")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "debug", cfg.Logging.Level)
	})
}
