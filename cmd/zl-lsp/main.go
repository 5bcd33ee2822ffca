// SPDX-License-Identifier: Apache-2.0
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"zl/internal/config"
	"zl/internal/lsp"
	"zl/internal/version"
)

const lsName = "zl"

var handler protocol.Handler

var rootCmd = &cobra.Command{
	Use:           "zl-lsp",
	Short:         "Language server for zl sources over stdio",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Version = version.Current().Version
	rootCmd.Flags().String("config", "", "path to zl.toml (default: nearest one above the working directory)")
	rootCmd.Flags().Int("verbosity", 1, "log verbosity")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	verbosity, _ := cmd.Flags().GetInt("verbosity")
	commonlog.Configure(verbosity, nil)
	log := commonlog.GetLogger("zl.lsp")

	path, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.Discover(".")
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zlHandler := lsp.NewZlHandler(cfg.CompileOptions())

	handler = protocol.Handler{
		Initialize:                     zlHandler.Initialize,
		Initialized:                    zlHandler.Initialized,
		Shutdown:                       zlHandler.Shutdown,
		SetTrace:                       zlHandler.SetTrace,
		TextDocumentDidOpen:            zlHandler.TextDocumentDidOpen,
		TextDocumentDidClose:           zlHandler.TextDocumentDidClose,
		TextDocumentDidChange:          zlHandler.TextDocumentDidChange,
		TextDocumentCompletion:         zlHandler.TextDocumentCompletion,
		TextDocumentSemanticTokensFull: zlHandler.TextDocumentSemanticTokensFull,
	}

	s := server.NewServer(&handler, lsName, false)

	log.Info("starting zl language server")
	if err := s.RunStdio(); err != nil {
		return fmt.Errorf("language server stopped: %w", err)
	}
	return nil
}
