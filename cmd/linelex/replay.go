package main

import (
	"context"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"linelex/internal/engine"
	"linelex/internal/language"
	"linelex/internal/lexer"
	"linelex/token"
)

// replayReport summarizes a replay session.
type replayReport struct {
	File        string       `json:"file" yaml:"file"`
	Language    string       `json:"language" yaml:"language"`
	Lines       int          `json:"lines" yaml:"lines"`
	Tokens      int          `json:"tokens" yaml:"tokens"`
	Incremental engine.Stats `json:"incremental" yaml:"incremental"`
	// Lexed is what re-tokenizing from scratch after every step would cost.
	Lexed           int           `json:"full_rescan_lines" yaml:"full_rescan_lines"`
	IncrementalTime time.Duration `json:"incremental_ns" yaml:"incremental_ns"`
	FullTime        time.Duration `json:"full_ns" yaml:"full_ns"`
	Match           bool          `json:"match" yaml:"match"`
	FirstMismatch   *token.Token  `json:"first_mismatch,omitempty" yaml:"first_mismatch,omitempty"`
}

func (a *app) replayCmd() *cobra.Command {
	var (
		langName string
		format   = formatText
	)

	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "replay a file as a typing session and compare with a full tokenization",
		Long: `Replay types the file line by line into an incremental engine,
re-tokenizing after every line, then tokenizes the whole file from scratch and
checks that both agree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(format); err != nil {
				return err
			}
			source, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read file: %w", err)
			}
			lang, err := a.language(langName, args[0])
			if err != nil {
				return err
			}

			report, err := replay(cmd.Context(), lang, string(source))
			if err != nil {
				return err
			}
			report.File = args[0]

			out := cmd.OutOrStdout()
			if format != formatText {
				if err := writeStructured(out, format, report); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "%s (%s): %d lines, %d tokens\n", report.File, report.Language, report.Lines, report.Tokens)
				fmt.Fprintf(out, "  incremental: %d lines lexed in %d passes, %d fallbacks, %s\n",
					report.Incremental.LinesLexed, report.Incremental.Passes, report.Incremental.Fallbacks,
					formatDuration(report.IncrementalTime))
				fmt.Fprintf(out, "  full rescans would lex %d lines; one full pass takes %s\n",
					report.Lexed, formatDuration(report.FullTime))
				if report.Match {
					color.New(color.FgGreen).Fprintln(out, "  incremental and full tokenization agree")
				}
			}

			if !report.Match {
				if report.FirstMismatch != nil {
					return fmt.Errorf("incremental tokens differ from a full pass at %s", report.FirstMismatch.Range.Start)
				}
				return fmt.Errorf("incremental tokens differ from a full pass")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&langName, "lang", "l", "", "language name or alias (default: by file extension)")
	cmd.Flags().StringVarP(&format, "format", "f", format, "output format: text, json or yaml")
	return cmd
}

// replay appends source to an empty document one line at a time, running a
// pass after each append.
func replay(ctx context.Context, lang *language.Language, source string) (*replayReport, error) {
	lines := lexer.Lines(source)
	report := &replayReport{Language: lang.Name, Lines: len(lines)}

	e := engine.New(lang)
	defer e.Close()
	e.Initialize("")

	var (
		doc    string
		tokens []token.Token
		err    error
	)
	start := time.Now()
	for i, line := range lines {
		text := line
		if i > 0 {
			text = "\n" + line
		}
		at := token.Position{Offset: len(doc)}
		if i > 0 {
			at.Line, at.Column = i-1, len(lines[i-1])
		}
		doc += text

		if err := e.HandleTextChange(token.TextRange{Start: at, End: at}, len(text), doc); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		tokens, err = e.RetokenizeDirtyRegions(ctx, doc)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		report.Lexed += i + 1
	}
	report.IncrementalTime = time.Since(start)
	report.Incremental = e.Stats()

	start = time.Now()
	full, err := engine.New(lang).TokenizeDocument(ctx, doc)
	if err != nil {
		return nil, err
	}
	report.FullTime = time.Since(start)

	report.Tokens = len(full)
	report.Match = slices.Equal(tokens, full)
	if !report.Match {
		for i := range full {
			if i >= len(tokens) || tokens[i] != full[i] {
				mismatch := full[i]
				report.FirstMismatch = &mismatch
				break
			}
		}
	}
	return report, nil
}
