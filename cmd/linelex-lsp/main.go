// SPDX-License-Identifier: Apache-2.0
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	"linelex/grammar"
	"linelex/internal/config"
	"linelex/internal/language"
	"linelex/internal/lsp"
	"linelex/internal/tracing"
)

const lsName = "linelex" // Name identifier for the language server

var version = "0.1.0"

var log = commonlog.GetLogger("linelex.server")

func main() {
	cfgFile := flag.String("config", "", "config file")
	flag.Parse()

	if err := run(*cfgFile); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfgFile string) error {
	cfg, err := config.Load(viper.New(), cfgFile)
	if err != nil {
		return err
	}

	// stdout carries the protocol, so logs and traces must go elsewhere
	var logFile *string
	if cfg.Log.File != "" {
		logFile = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, logFile)
	if cfg.Trace.Exporter == "stdout" {
		log.Warning("stdout trace exporter conflicts with the protocol stream, tracing disabled")
		cfg.Trace.Enabled = false
	}

	provider, err := tracing.NewProvider(cfg.Trace)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	defer func() { _ = provider.Shutdown(context.Background()) }()

	registry := language.NewRegistry()
	if cfg.LanguagesDir != "" {
		if _, err := grammar.NewLoader(registry).LoadDir(cfg.LanguagesDir); err != nil {
			log.Warningf("language definitions in %s: %s", cfg.LanguagesDir, err)
		}
	}
	if err := registry.SetDefault(cfg.DefaultLanguage); err != nil {
		log.Warningf("%s, keeping %s", err, registry.Default().Name)
	}

	h := lsp.NewHandler(lsName, version, registry, cfg.Worker.QueueSize)

	handler := protocol.Handler{
		Initialize:                      h.Initialize,
		Initialized:                     h.Initialized,
		Shutdown:                        h.Shutdown,
		SetTrace:                        h.SetTrace,
		TextDocumentDidOpen:             h.TextDocumentDidOpen,
		TextDocumentDidClose:            h.TextDocumentDidClose,
		TextDocumentDidChange:           h.TextDocumentDidChange,
		TextDocumentSemanticTokensFull:  h.TextDocumentSemanticTokensFull,
		TextDocumentSemanticTokensRange: h.TextDocumentSemanticTokensRange,
	}

	s := server.NewServer(&handler, lsName, cfg.Log.Verbosity > 2)

	log.Infof("starting %s %s", lsName, version)
	if err := s.RunStdio(); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
