package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"

	"linelex/grammar"
	"linelex/internal/config"
	"linelex/internal/language"
	"linelex/internal/tracing"
)

var version = "dev"

var log = commonlog.GetLogger("linelex.cli")

// app is the state shared by every command, set up before the command runs.
type app struct {
	cfgFile   string
	verbosity int
	trace     bool

	cfg      config.Config
	registry *language.Registry
	tracer   *tracing.Provider
}

func newRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:           "linelex",
		Short:         "Incremental syntax tokenizer",
		Long:          `Tokenize source files line by line, inspect language profiles and check language definition files.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.tracer == nil {
				return nil
			}
			return a.tracer.Shutdown(context.Background())
		},
	}

	cmd.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "",
		"config file (default: .linelex.yaml or ~/.config/linelex/config.yaml)")
	cmd.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "log more information (repeatable)")
	cmd.PersistentFlags().BoolVar(&a.trace, "trace", false, "record tracing spans and print them to stdout")

	cmd.AddCommand(a.tokenizeCmd())
	cmd.AddCommand(a.languagesCmd())
	cmd.AddCommand(a.checkCmd())
	cmd.AddCommand(a.replayCmd())
	cmd.AddCommand(a.replCmd())
	return cmd
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(viper.New(), a.cfgFile)
	if err != nil {
		return err
	}
	if a.verbosity > 0 {
		cfg.Log.Verbosity = a.verbosity
	}
	if a.trace {
		cfg.Trace.Enabled = true
		if cfg.Trace.Exporter == "none" || cfg.Trace.Exporter == "" {
			cfg.Trace.Exporter = "stdout"
		}
	}
	a.cfg = cfg

	var logFile *string
	if cfg.Log.File != "" {
		logFile = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, logFile)

	a.registry = language.NewRegistry()
	if cfg.LanguagesDir != "" {
		if _, err := grammar.NewLoader(a.registry).LoadDir(cfg.LanguagesDir); err != nil {
			log.Warningf("language definitions in %s: %s", cfg.LanguagesDir, err)
		}
	}
	if err := a.registry.SetDefault(cfg.DefaultLanguage); err != nil {
		return fmt.Errorf("default_language: %w", err)
	}

	a.tracer, err = tracing.NewProvider(cfg.Trace)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	return nil
}

// language resolves the --lang flag, then the file name, then the default.
func (a *app) language(name, path string) (*language.Language, error) {
	if name != "" {
		l, ok := a.registry.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("unknown language %q (see 'linelex languages')", name)
		}
		return l, nil
	}
	if path != "" {
		return a.registry.ForPath(path), nil
	}
	return a.registry.Default(), nil
}
