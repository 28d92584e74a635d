package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"twprefix/internal/report"
	"twprefix/internal/rewrite"
	"twprefix/internal/scan"
	"twprefix/internal/workspace"
)

var (
	applyWrite   bool
	applyDiff    bool
	applyJSON    bool
	applyStdin   bool
	applyDialect string
)

var applyCmd = &cobra.Command{
	Use:   "apply [paths...]",
	Short: "Prefix Tailwind utility classes in the workspace",
	Long: `Scans the given files and directories (default: the whole workspace)
and computes the edits that prefix every un-prefixed utility class.

Without --write nothing is changed on disk. With --stdin the source is read
from standard input and the rewritten source is written to standard output.

Example:
  twprefix apply -p tw- --diff src/
  cat Button.tsx | twprefix apply --stdin --dialect tsx -p tw-`,
	RunE: runApply,
}

func init() {
	applyCmd.Flags().BoolVar(&applyWrite, "write", false, "Write changes back to the files")
	applyCmd.Flags().BoolVar(&applyDiff, "diff", false, "Print a unified diff of the changes")
	applyCmd.Flags().BoolVar(&applyJSON, "json", false, "Print edits as JSON")
	applyCmd.Flags().BoolVar(&applyStdin, "stdin", false, "Read source from stdin and print the result")
	applyCmd.Flags().StringVar(&applyDialect, "dialect", "", "Dialect for --stdin: script, typed-script, markup-script, typed-markup-script (or js, ts, jsx, tsx)")
}

// signalContext cancels on SIGINT/SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runApply(cmd *cobra.Command, args []string) error {
	root, cfg, err := setup()
	if err != nil {
		return err
	}
	prefix, err := resolvePrefix(prefixFlag, cfg.Prefix, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(cmd.Context())
	defer cancel()

	if applyStdin {
		d := applyDialect
		if d == "" {
			d = cfg.Dialect
		}
		if d == "" {
			return fmt.Errorf("--stdin requires --dialect")
		}
		dialect, err := scan.ParseDialect(d)
		if err != nil {
			return err
		}
		return applyStream(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), rewrite.New(cfg.ScanOptions()), dialect, prefix)
	}

	mode := workspace.ModeCheck
	if applyWrite {
		mode = workspace.ModeWrite
	}
	runner, err := workspace.NewRunner(root, cfg, prefix)
	if err != nil {
		return err
	}
	res, err := runner.Run(ctx, args, mode)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if applyJSON {
		data, err := report.JSON(res)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
		return failedErr(res)
	}

	printFailures(cmd.ErrOrStderr(), res)
	if applyDiff {
		fmt.Fprint(out, report.Unified(res))
	} else if verbose {
		for i := range res.Files {
			for _, line := range report.EditLines(&res.Files[i]) {
				fmt.Fprintln(out, line)
			}
		}
	}
	printSummary(out, root, res)
	if mode == workspace.ModeCheck && res.EditCount() > 0 {
		fmt.Fprintln(out, mutedStyle.Render("Run again with --write to apply."))
	}
	return failedErr(res)
}

// applyStream rewrites one source read from in and writes the result to out.
func applyStream(ctx context.Context, in io.Reader, out io.Writer, rw *rewrite.Rewriter, dialect scan.Dialect, prefix string) error {
	src, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	res, err := rw.Rewrite(ctx, src, dialect, prefix)
	if err != nil {
		return err
	}
	if applyJSON {
		data, err := report.JSON(&workspace.RunResult{
			Prefix: prefix,
			Files: []workspace.FileResult{{
				File:       workspace.File{Rel: "-", Dialect: dialect},
				Candidates: res.Candidates,
				Edits:      res.Edits,
			}},
		})
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	updated, err := rewrite.Apply(src, res.Edits)
	if err != nil {
		return err
	}
	_, err = out.Write(updated)
	return err
}

func printFailures(w io.Writer, res *workspace.RunResult) {
	for _, f := range res.Failed() {
		fmt.Fprintf(w, "%s %s: %v\n", errorStyle.Render("✗"), pathStyle.Render(f.File.Rel), f.Err)
	}
	if verbose {
		for _, s := range res.Skipped {
			fmt.Fprintf(w, "%s %s: %s\n", warnStyle.Render("skipped"), s.Rel, s.Reason)
		}
	}
}

func printSummary(w io.Writer, root string, res *workspace.RunResult) {
	if res.ChangedFiles() > 0 || len(res.Failed()) > 0 {
		fmt.Fprint(w, report.Tree(filepath.Base(root), res))
	}
	s := report.Summarize(res)
	if s.Edits == 0 {
		fmt.Fprintln(w, mutedStyle.Render(s.Message()))
		return
	}
	fmt.Fprintln(w, successStyle.Render(s.Message()))
}

// failedErr turns per-file failures into a command error.
func failedErr(res *workspace.RunResult) error {
	if n := len(res.Failed()); n > 0 {
		return fmt.Errorf("%d file(s) could not be processed", n)
	}
	return nil
}
