package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"twprefix/internal/config"
	"twprefix/internal/logging"
)

var (
	// Global flags
	verbose      bool
	workspaceDir string
	configPath   string
	prefixFlag   string
)

// exitError carries a process exit code other than 1.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "twprefix",
	Short: "Add a prefix to Tailwind utility classes in JS/TS source",
	Long: `twprefix finds Tailwind class strings in JavaScript, TypeScript and
JSX/TSX sources and inserts a prefix before every utility class, keeping
variant chains and arbitrary values intact.

Class strings are recognised in class attributes (className, class), in
arguments to class helpers (cva, cn) and in object values passed to them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspaceDir, "workspace", "w", "", "Workspace directory (default: current)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: <workspace>/"+config.FileName+")")
	rootCmd.PersistentFlags().StringVarP(&prefixFlag, "prefix", "p", "", "Prefix to insert (overrides config)")

	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			if ee.msg != "" {
				fmt.Fprintln(os.Stderr, ee.msg)
			}
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: ")+err.Error())
		os.Exit(1)
	}
}

// resolveWorkspace returns the absolute workspace root.
func resolveWorkspace() (string, error) {
	ws := workspaceDir
	if ws == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		ws = cwd
	}
	return filepath.Abs(ws)
}

// setup resolves the workspace, loads and validates config, and starts
// logging. Every command calls it first.
func setup() (string, *config.Config, error) {
	root, err := resolveWorkspace()
	if err != nil {
		return "", nil, err
	}

	path := configPath
	if path == "" {
		path = config.DefaultPath(root)
	}
	cfg, err := config.Load(path)
	if err != nil {
		return "", nil, err
	}
	if err := cfg.Validate(); err != nil {
		return "", nil, err
	}

	if err := logging.Initialize(cfg.Logging.Options(verbose)); err != nil {
		return "", nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logging.Boot("workspace=%s config=%s", root, path)
	logging.ConfigDebug("helpers=%v attributes=%v workers=%d", cfg.Helpers, cfg.ClassAttributes, cfg.Workspace.Workers)
	return root, cfg, nil
}
