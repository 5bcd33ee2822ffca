// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"golang.org/x/term"

	"zl/internal/config"
	"zl/internal/version"
)

var rootCmd = &cobra.Command{
	Use:           "zl",
	Short:         "Tagged-script transpiler",
	Long:          `zl checks type tags in .zl sources and emits plain .js`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := configureColor(cmd); err != nil {
			return err
		}
		configureLogging(cmd)
		return nil
	},
}

func init() {
	rootCmd.Version = version.Current().Version

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(replCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().String("config", "", "path to zl.toml (default: nearest one above the working directory)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "log verbosity, repeat for more")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errorsReported(err) {
			fmt.Fprintln(os.Stderr, color.RedString("error:"), err)
		}
		os.Exit(1)
	}
}

func configureColor(cmd *cobra.Command) error {
	mode, _ := cmd.Root().PersistentFlags().GetString("color")
	enabled, err := colorEnabled(mode, isTerminal(os.Stdout) && isTerminal(os.Stderr))
	if err != nil {
		return err
	}
	color.NoColor = !enabled
	return nil
}

func colorEnabled(mode string, tty bool) (bool, error) {
	switch strings.ToLower(mode) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return tty, nil
	default:
		return false, fmt.Errorf("unsupported color mode %q (must be auto, on or off)", mode)
	}
}

func configureLogging(cmd *cobra.Command) {
	verbose, _ := cmd.Root().PersistentFlags().GetCount("verbose")
	if quiet(cmd) {
		verbose = -1
	}
	commonlog.Configure(verbose, nil)
}

func quiet(cmd *cobra.Command) bool {
	q, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return q
}

// loadConfig reads --config, or the nearest zl.toml above startDir.
func loadConfig(cmd *cobra.Command, startDir string) (*config.Config, error) {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	if path != "" {
		return config.Load(path)
	}
	return config.Discover(startDir)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
