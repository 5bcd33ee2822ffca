package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"zl/internal/compiler"
	"zl/internal/errors"
	"zl/internal/parser"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.zl",
	Short: "Print the token tree of a source file",
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	path := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	tokens, err := parser.Tokenize(string(source))
	if err != nil {
		diag := compiler.LexDiagnostic(string(source), err, parser.DefaultMaxDepth)
		printDiagnostics(os.Stderr, path, string(source), []errors.CompilerError{diag})
		return errReported
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		data, err := parser.MarshalTree(tokens)
		if err != nil {
			return fmt.Errorf("failed to encode tokens: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	default:
		_, err = fmt.Fprint(out, parser.Dump(tokens))
		return err
	}
}
