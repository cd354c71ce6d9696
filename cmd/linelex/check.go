package main

import (
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"linelex/grammar"
	"linelex/internal/errors"
)

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file.lang>...",
		Short: "validate language definition files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			failed := 0

			for _, path := range args {
				start := time.Now()
				source, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}

				langs, diags := grammar.Check(path, string(source))
				fmt.Fprint(out, errors.NewErrorReporter(path, string(source)).FormatAll(diags))

				duration := formatDuration(time.Since(start))
				if diags.HasErrors() {
					failed++
					color.New(color.FgRed).Fprintf(out, "%s: check failed after %s\n", path, duration)
					continue
				}
				color.New(color.FgGreen).Fprintf(out, "%s: %d language(s) OK in %s\n", path, len(langs), duration)
			}

			if failed > 0 {
				return fmt.Errorf("%d of %d file(s) failed", failed, len(args))
			}
			return nil
		},
	}
}
