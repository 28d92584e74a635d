package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"twprefix/internal/config"
	"twprefix/internal/logging"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default " + config.FileName + " to the workspace",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

func runInit(cmd *cobra.Command, args []string) error {
	root, cfg, err := setup()
	if err != nil {
		return err
	}

	path := configPath
	if path == "" {
		path = config.DefaultPath(root)
	}
	out := cmd.OutOrStdout()

	if _, err := os.Stat(path); err == nil && !initForce {
		fmt.Fprintln(out, warnStyle.Render(path+" already exists; use --force to overwrite"))
		return nil
	}

	prefix, err := resolvePrefix(prefixFlag, cfg.Prefix, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	fresh := config.DefaultConfig()
	fresh.Prefix = prefix
	if err := fresh.Save(path); err != nil {
		return err
	}
	logging.Config("wrote %s", path)
	fmt.Fprintln(out, successStyle.Render("Created ")+pathStyle.Render(path))
	return nil
}
