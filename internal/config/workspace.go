package config

import "runtime"

// WorkspaceConfig controls file discovery and the per-file worker pool.
type WorkspaceConfig struct {
	// Workers caps concurrent per-file rewrites.
	Workers int `yaml:"workers" validate:"gte=1,lte=256"`
	// Extensions selects the files to process (with leading dot).
	Extensions []string `yaml:"extensions" validate:"required,min=1,dive,startswith=."`
	// IgnorePatterns skips matching paths/dirs (relative to workspace).
	IgnorePatterns []string `yaml:"ignore_patterns"`
	// MaxFileBytes skips files larger than this.
	MaxFileBytes int64 `yaml:"max_file_bytes" validate:"gt=0"`
}

// DefaultWorkspaceConfig returns defaults for workspace scanning.
func DefaultWorkspaceConfig() WorkspaceConfig {
	workers := runtime.NumCPU()
	if workers > 16 {
		workers = 16
	}
	if workers < 2 {
		workers = 2
	}
	return WorkspaceConfig{
		Workers:    workers,
		Extensions: []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx"},
		IgnorePatterns: []string{
			".git",
			"node_modules",
			"vendor",
			"dist",
			"build",
			".next",
			"coverage",
			".cache",
		},
		MaxFileBytes: 2 * 1024 * 1024,
	}
}
