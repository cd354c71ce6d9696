package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"linelex/internal/engine"
	"linelex/internal/language"
	"linelex/internal/lexer"
	"linelex/token"
)

func (a *app) tokenizeCmd() *cobra.Command {
	var (
		langName string
		format   = formatText
		listing  bool
	)

	cmd := &cobra.Command{
		Use:   "tokenize [file]",
		Short: "tokenize a file, or stdin when no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validFormat(format); err != nil {
				return err
			}

			var (
				path   string
				source []byte
				err    error
			)
			if len(args) == 1 {
				path = args[0]
				source, err = os.ReadFile(path)
			} else {
				source, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			lang, err := a.language(langName, path)
			if err != nil {
				return err
			}

			start := time.Now()
			e := engine.New(lang)
			defer e.Close()
			tokens, err := e.TokenizeDocument(cmd.Context(), string(source))
			if err != nil {
				return err
			}
			log.Infof("tokenized %d lines as %s in %s", e.Stats().LinesLexed, lang.Name, formatDuration(time.Since(start)))

			out := cmd.OutOrStdout()
			switch {
			case format != formatText:
				return writeStructured(out, format, tokens)
			case listing:
				writeListing(out, string(source), tokens)
			default:
				writeTokens(out, lang, tokens)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&langName, "lang", "l", "", "language name or alias (default: by file extension)")
	cmd.Flags().StringVarP(&format, "format", "f", format, "output format: text, json or yaml")
	cmd.Flags().BoolVar(&listing, "listing", false, "print the source highlighted instead of a token table")
	return cmd
}

// writeTokens prints one token per line: position, category, text. Strings
// holding the language's interpolation marker are flagged.
func writeTokens(w io.Writer, lang *language.Language, tokens []token.Token) {
	dim := color.New(color.Faint)
	for _, tok := range tokens {
		dim.Fprintf(w, "%-12s ", tok.Range.Start.String()+"-"+tok.Range.End.String())
		categoryColor(tok.Category).Fprintf(w, "%-20s", tok.Category)
		fmt.Fprintf(w, " %s", strconv.Quote(tok.Text))
		if lang.Interpolates(tok) {
			dim.Fprint(w, " interpolated")
		}
		if tok.State.Carries() {
			dim.Fprintf(w, " -> %s", tok.State)
		}
		fmt.Fprintln(w)
	}
}

// writeListing prints the source with every token colored by category.
// Text between tokens is printed as is.
func writeListing(w io.Writer, source string, tokens []token.Token) {
	stream := token.NewStream(tokens)
	width := len(strconv.Itoa(len(lexer.Lines(source))))
	dim := color.New(color.Faint)

	for i, line := range lexer.Lines(source) {
		dim.Fprintf(w, "%*d │ ", width, i+1)
		var b strings.Builder
		col := 0
		for _, tok := range stream.Line(i) {
			if tok.Range.Start.Column < col || tok.Range.End.Column > len(line) {
				continue
			}
			b.WriteString(line[col:tok.Range.Start.Column])
			b.WriteString(categoryColor(tok.Category).Sprint(tok.Text))
			col = tok.Range.End.Column
		}
		b.WriteString(line[col:])
		fmt.Fprintln(w, b.String())
	}
}
