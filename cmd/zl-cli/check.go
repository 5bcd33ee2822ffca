package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"zl/internal/compiler"
)

var checkCmd = &cobra.Command{
	Use:   "check file.zl",
	Short: "Validate the tags of one file without writing output",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	addCheckFlags(checkCmd)
	checkCmd.Flags().Bool("emit", false, "print the generated script to stdout on success")
}

func runCheck(cmd *cobra.Command, args []string) error {
	start := time.Now()
	path := args[0]

	cfg, err := loadConfig(cmd, filepath.Dir(path))
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	result := compiler.Compile(string(source), cfg.CompileOptions())
	duration := formatDuration(time.Since(start))
	out := cmd.OutOrStdout()

	if result.Failed() {
		printDiagnostics(os.Stderr, path, string(source), result.Diagnostics)
		color.New(color.FgRed).Fprintf(out, "Check failed after %s\n", duration)
		return errReported
	}

	if emit, _ := cmd.Flags().GetBool("emit"); emit {
		fmt.Fprintln(out, result.Output)
		return nil
	}
	if !quiet(cmd) {
		color.New(color.FgGreen).Fprintf(out, "Successfully checked %s in %s (%d tags, %d rules)\n",
			path, duration, result.Tags.Len(), len(result.Rules))
	}
	return nil
}
