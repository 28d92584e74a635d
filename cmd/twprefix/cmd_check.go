package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"twprefix/internal/report"
	"twprefix/internal/workspace"
)

var checkJSON bool

var checkCmd = &cobra.Command{
	Use:   "check [paths...]",
	Short: "List un-prefixed class strings; exit 2 if any are found",
	Long: `Lint mode for CI. Prints path:line:col for every class string that
would change and exits with status 2 when there is at least one.
Files that fail to parse are reported and make the command exit 1.`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Print findings as JSON")
}

func runCheck(cmd *cobra.Command, args []string) error {
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

	runner, err := workspace.NewRunner(root, cfg, prefix)
	if err != nil {
		return err
	}
	res, err := runner.Run(ctx, args, workspace.ModeCheck)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if checkJSON {
		data, err := report.JSON(res)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, string(data))
	} else {
		printFailures(cmd.ErrOrStderr(), res)
		for i := range res.Files {
			for _, line := range report.EditLines(&res.Files[i]) {
				fmt.Fprintln(out, line)
			}
		}
		fmt.Fprintln(out, report.Summarize(res).Message())
	}

	if err := failedErr(res); err != nil {
		return err
	}
	if res.EditCount() > 0 {
		return &exitError{code: 2}
	}
	return nil
}
