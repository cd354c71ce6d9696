package main

import (
	"github.com/spf13/cobra"

	"linelex/repl"
)

func (a *app) replCmd() *cobra.Command {
	var langName string

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "tokenize lines as they are typed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := a.language(langName, "")
			if err != nil {
				return err
			}
			return repl.Start(cmd.InOrStdin(), cmd.OutOrStdout(), lang)
		},
	}

	cmd.Flags().StringVarP(&langName, "lang", "l", "", "language name or alias (default: default_language)")
	return cmd
}
