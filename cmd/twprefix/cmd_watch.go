package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"twprefix/internal/report"
	"twprefix/internal/watch"
	"twprefix/internal/workspace"
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Prefix class strings in files as they are saved",
	Long: `Runs an initial pass over the directory (default: the workspace), then
watches it and rewrites each changed source file after it has been quiet for
the configured debounce window. Without --write changed files are only
checked and their findings printed. Stop with Ctrl+C.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

var watchWrite bool

func init() {
	watchCmd.Flags().BoolVar(&watchWrite, "write", false, "Write changes back as files are saved")
}

func runWatch(cmd *cobra.Command, args []string) error {
	root, cfg, err := setup()
	if err != nil {
		return err
	}
	prefix, err := resolvePrefix(prefixFlag, cfg.Prefix, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	debounce, err := cfg.GetDebounce()
	if err != nil {
		return err
	}

	dir := root
	if len(args) == 1 {
		dir = args[0]
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(root, dir)
		}
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	runner, err := workspace.NewRunner(root, cfg, prefix)
	if err != nil {
		return err
	}

	mode := workspace.ModeCheck
	if watchWrite {
		mode = workspace.ModeWrite
	}

	out := cmd.OutOrStdout()
	initial, err := runner.Run(ctx, []string{dir}, mode)
	if err != nil {
		return err
	}
	printFailures(cmd.ErrOrStderr(), initial)
	printSummary(out, root, initial)

	w, err := watch.New(dir, runner.Discoverer(), debounce, watchHandler(runner, mode, cmd))
	if err != nil {
		return err
	}
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	fmt.Fprintln(out, titleStyle.Render("Watching "+dir)+mutedStyle.Render(" (Ctrl+C to stop)"))
	<-ctx.Done()

	st := w.Stats()
	fmt.Fprintln(out, mutedStyle.Render(fmt.Sprintf("processed %d change(s), %d error(s)", st.Processed, st.Errors)))
	return nil
}

// watchHandler processes one changed file and prints its edits.
func watchHandler(runner *workspace.Runner, mode workspace.Mode, cmd *cobra.Command) watch.Handler {
	return func(ctx context.Context, path string) error {
		fr, err := runner.RunFile(ctx, path, mode)
		if err != nil {
			return err
		}
		if fr.Err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "%s %s: %v\n", errorStyle.Render("✗"), pathStyle.Render(fr.File.Rel), fr.Err)
			return fr.Err
		}
		mark := warnStyle.Render("• ")
		if fr.Written {
			mark = successStyle.Render("✓ ")
		}
		for _, line := range report.EditLines(fr) {
			fmt.Fprintln(cmd.OutOrStdout(), mark+line)
		}
		return nil
	}
}
