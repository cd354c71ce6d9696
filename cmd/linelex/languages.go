package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"linelex/grammar"
	"linelex/internal/language"
)

func (a *app) languagesCmd() *cobra.Command {
	var dump bool

	cmd := &cobra.Command{
		Use:   "languages [name...]",
		Short: "list the known languages",
		Long: `List the built-in languages and those loaded from languages_dir.
With --dump the profiles are printed as a language definition file, which
is a starting point for writing new definitions.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			names := args
			if len(names) == 0 {
				names = a.registry.Names()
			}

			var langs []*language.Language
			for _, name := range names {
				l, ok := a.registry.Lookup(name)
				if !ok {
					return fmt.Errorf("unknown language %q", name)
				}
				langs = append(langs, l)
			}

			out := cmd.OutOrStdout()
			if dump {
				fmt.Fprint(out, grammar.Format(langs...))
				return nil
			}

			bold := color.New(color.Bold)
			dim := color.New(color.Faint)
			def := a.registry.Default().Name
			for _, l := range langs {
				bold.Fprintf(out, "%-12s", l.Name)
				fmt.Fprintf(out, " %-24s", strings.Join(l.Extensions, " "))
				if len(l.Aliases) > 0 {
					dim.Fprintf(out, " aka %s", strings.Join(l.Aliases, ", "))
				}
				if l.Name == def {
					color.New(color.FgGreen).Fprint(out, " (default)")
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dump, "dump", false, "print the profiles as a language definition file")
	return cmd
}
