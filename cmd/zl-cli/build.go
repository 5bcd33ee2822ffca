package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"zl/internal/config"
	"zl/internal/driver"
)

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Compile a file or directory tree into the output root",
	Long: `Build compiles every source file under path (default: [build].input) and
writes the results under the output root. Other files are copied verbatim.
A file with errors produces no output.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringP("out", "o", "", "output root (overrides [build].out)")
	buildCmd.Flags().IntP("jobs", "j", 0, "parallel compilations, 0 = GOMAXPROCS")
	addCheckFlags(buildCmd)
}

// addCheckFlags registers the [check] overrides shared by build and check.
func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("inherit-rules", false, "make outer rules visible in nested blocks")
	cmd.Flags().Bool("tag-parameters", false, "record pipe-tagged parameters as tagged variables")
	cmd.Flags().Int("max-depth", 0, "bracket nesting limit")
	cmd.Flags().Int("max-diagnostics", 0, "stop collecting diagnostics after this many per file, 0 = unlimited")
}

// applyFlags overrides config values with the flags the user actually set.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if f := flags.Lookup("out"); f != nil && f.Changed {
		cfg.Build.Out, _ = flags.GetString("out")
	}
	if f := flags.Lookup("jobs"); f != nil && f.Changed {
		cfg.Build.Jobs, _ = flags.GetInt("jobs")
	}
	if flags.Changed("inherit-rules") {
		cfg.Check.InheritRules, _ = flags.GetBool("inherit-rules")
	}
	if flags.Changed("tag-parameters") {
		cfg.Check.TagParameters, _ = flags.GetBool("tag-parameters")
	}
	if flags.Changed("max-depth") {
		cfg.Check.MaxDepth, _ = flags.GetInt("max-depth")
	}
	if flags.Changed("max-diagnostics") {
		cfg.Check.MaxDiagnostics, _ = flags.GetInt("max-diagnostics")
	}
	return cfg.Validate()
}

func runBuild(cmd *cobra.Command, args []string) error {
	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
		if info, err := os.Stat(args[0]); err == nil && !info.IsDir() {
			startDir = filepath.Dir(args[0])
		}
	}

	cfg, err := loadConfig(cmd, startDir)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.Build.Input = args[0]
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	report, err := driver.Build(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	for i := range report.Files {
		f := &report.Files[i]
		switch f.Action {
		case driver.ActionFailed:
			fmt.Fprintf(out, "%s %s\n", red("failed  "), f.Rel)
			if f.Err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", red("error:"), f.Err)
			}
			printDiagnostics(os.Stderr, f.Source, f.Content, f.Diagnostics)
		case driver.ActionCompiled:
			if !quiet(cmd) {
				fmt.Fprintf(out, "%s %s %s\n", green("compiled"), f.Rel, dim(formatDuration(f.Duration)))
			}
		case driver.ActionCopied:
			if !quiet(cmd) {
				fmt.Fprintf(out, "%s %s\n", dim("copied  "), f.Rel)
			}
		}
	}

	duration := formatDuration(report.Duration)
	if report.Failed() {
		color.New(color.FgRed).Fprintf(out, "Build failed after %s (%d of %d files failed)\n",
			duration, report.Count(driver.ActionFailed), len(report.Files))
		return errReported
	}
	if !quiet(cmd) {
		color.New(color.FgGreen).Fprintf(out, "Successfully built %d file(s) into %s in %s\n",
			len(report.Files), cfg.Build.Out, duration)
	}
	return nil
}
