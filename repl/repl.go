// Package repl SPDX-License-Identifier: Apache-2.0
package repl

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"

	"linelex/internal/language"
	"linelex/internal/lexer"
	"linelex/token"
)

const (
	PROMPT = ">> "
	// CONTINUE is shown while a block comment or multiline string is open.
	CONTINUE = ".. "
)

// Start reads lines from in and prints the tokens of each one. The lexer
// state carries from one line to the next, so a block comment opened on
// one line continues on the following ones. ":reset" returns to the Normal
// state. Start returns when in is exhausted.
func Start(in io.Reader, out io.Writer, lang *language.Language) error {
	scanner := bufio.NewScanner(in)
	lx := lexer.New(lang)
	dim := color.New(color.Faint)

	var (
		state  = token.Normal
		line   int
		offset int
	)
	for {
		if state.Carries() {
			fmt.Fprint(out, CONTINUE)
		} else {
			fmt.Fprint(out, PROMPT)
		}
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		text := scanner.Text()
		if text == ":reset" {
			state, line, offset = token.Normal, 0, 0
			continue
		}

		var toks []token.Token
		toks, state = lx.ScanLine(text, line, offset, state)
		for _, tok := range toks {
			fmt.Fprintf(out, "  %-20s %s\n", tok.Category, strconv.Quote(tok.Text))
		}
		if state.Carries() {
			dim.Fprintf(out, "  (%s continues)\n", state)
		}
		line++
		offset += len(text) + 1
	}
}
