// Package logging provides categorized logging for twprefix on top of zap.
// Nothing is logged until Initialize installs a logger; before that every
// category logger is a no-op.
package logging

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot      Category = "boot"      // Startup, flag and config resolution
	CategoryConfig    Category = "config"    // Config loading and validation
	CategoryScan      Category = "scan"      // Parsing and candidate discovery
	CategoryRewrite   Category = "rewrite"   // Prefixing and edit collection
	CategoryWorkspace Category = "workspace" // File discovery, per-file runs, write-back
	CategoryWatch     Category = "watch"     // Filesystem watcher
)

// Options controls the installed logger.
type Options struct {
	Level      string          // debug, info, warn, error
	Format     string          // console, json
	Categories map[string]bool // per-category toggles, missing = enabled
}

// Logger logs for one category.
type Logger struct {
	category Category
	sugar    *zap.SugaredLogger
}

var (
	mu         sync.RWMutex
	base       = zap.NewNop()
	categories map[string]bool
	loggers    = make(map[Category]*Logger)
)

// Initialize builds a zap logger from cfg and installs it.
func Initialize(cfg Options) error {
	level := zap.NewAtomicLevelAt(zapcore.InfoLevel)
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(strings.ToLower(cfg.Level))); err != nil {
			return fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
	}

	zc := zap.NewProductionConfig()
	zc.Level = level
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if cfg.Format == "json" {
		zc.Encoding = "json"
	}
	zc.DisableStacktrace = true

	z, err := zc.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	Install(z, cfg.Categories)
	Get(CategoryBoot).Debug("logging initialized (level=%s, format=%s)", level.String(), zc.Encoding)
	return nil
}

// Install replaces the underlying zap logger. Tests use it with zaptest or
// observer loggers.
func Install(z *zap.Logger, enabled map[string]bool) {
	if z == nil {
		z = zap.NewNop()
	}
	mu.Lock()
	defer mu.Unlock()
	base = z
	categories = enabled
	loggers = make(map[Category]*Logger)
}

// L returns the installed zap logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// Sync flushes buffered entries.
func Sync() {
	_ = L().Sync()
}

// IsCategoryEnabled returns whether a specific category is enabled
func IsCategoryEnabled(category Category) bool {
	mu.RLock()
	defer mu.RUnlock()
	if categories == nil {
		return true
	}
	enabled, ok := categories[string(category)]
	return !ok || enabled
}

// Get returns (or creates) a logger for the given category.
func Get(category Category) *Logger {
	if !IsCategoryEnabled(category) {
		return &Logger{category: category, sugar: zap.NewNop().Sugar()}
	}

	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l := &Logger{category: category, sugar: base.Named(string(category)).Sugar()}
	loggers[category] = l
	return l
}

// With returns a copy of the logger carrying extra key/value pairs.
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{category: l.category, sugar: l.sugar.With(keysAndValues...)}
}

func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// WithRunID creates a logger tagged with a run correlation ID.
func WithRunID(category Category, runID string) *Logger {
	return Get(category).With("run", runID)
}

// =============================================================================
// CATEGORY HELPERS
// =============================================================================

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Info(format, args...) }
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debug(format, args...) }

func Config(format string, args ...interface{})      { Get(CategoryConfig).Info(format, args...) }
func ConfigDebug(format string, args ...interface{}) { Get(CategoryConfig).Debug(format, args...) }
func ConfigWarn(format string, args ...interface{})  { Get(CategoryConfig).Warn(format, args...) }

func Scan(format string, args ...interface{})      { Get(CategoryScan).Info(format, args...) }
func ScanDebug(format string, args ...interface{}) { Get(CategoryScan).Debug(format, args...) }

func Rewrite(format string, args ...interface{})      { Get(CategoryRewrite).Info(format, args...) }
func RewriteDebug(format string, args ...interface{}) { Get(CategoryRewrite).Debug(format, args...) }

func Workspace(format string, args ...interface{})      { Get(CategoryWorkspace).Info(format, args...) }
func WorkspaceDebug(format string, args ...interface{}) { Get(CategoryWorkspace).Debug(format, args...) }
func WorkspaceWarn(format string, args ...interface{})  { Get(CategoryWorkspace).Warn(format, args...) }
func WorkspaceError(format string, args ...interface{}) { Get(CategoryWorkspace).Error(format, args...) }

func Watch(format string, args ...interface{})      { Get(CategoryWatch).Info(format, args...) }
func WatchDebug(format string, args ...interface{}) { Get(CategoryWatch).Debug(format, args...) }
func WatchError(format string, args ...interface{}) { Get(CategoryWatch).Error(format, args...) }

// =============================================================================
// TIMING HELPERS
// =============================================================================

// Timer helps measure operation duration
type Timer struct {
	category Category
	op       string
	start    time.Time
}

// StartTimer begins timing an operation
func StartTimer(category Category, operation string) *Timer {
	return &Timer{category: category, op: operation, start: time.Now()}
}

// Stop ends the timer and logs the duration at debug level.
func (t *Timer) Stop() time.Duration {
	elapsed := time.Since(t.start)
	Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	return elapsed
}

// StopWithThreshold logs a warning if the duration exceeds threshold.
func (t *Timer) StopWithThreshold(threshold time.Duration) time.Duration {
	elapsed := time.Since(t.start)
	if elapsed > threshold {
		Get(t.category).Warn("%s took %v (threshold: %v)", t.op, elapsed, threshold)
	} else {
		Get(t.category).Debug("%s completed in %v", t.op, elapsed)
	}
	return elapsed
}
