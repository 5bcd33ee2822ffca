package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"

	"zl/internal/repl"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Check and compile entries interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd, ".")
		if err != nil {
			return err
		}
		if err := applyFlags(cmd, cfg); err != nil {
			return err
		}

		if !quiet(cmd) {
			name := "there"
			if u, err := user.Current(); err == nil {
				name = u.Username
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome to the zl REPL, %s!\n", name)
		}
		repl.Start(os.Stdin, cmd.OutOrStdout(), cfg.CompileOptions())
		return nil
	},
}

func init() {
	addCheckFlags(replCmd)
}
