package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/jinnovation/jinja/lexer"
	"github.com/jinnovation/jinja/token"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens [template]",
	Short: "Tokenize a template and print the token stream",
	RunE: func(cmd *cobra.Command, args []string) error {
		source, _, err := readSource(args)
		if err != nil {
			return err
		}
		tokens, err := lexer.Tokenize(source)
		if err != nil {
			return err
		}
		typeColor := color.New(color.FgCyan)
		posColor := color.New(color.FgHiBlack)
		for _, tok := range tokens {
			literal := tok.Literal
			if tok.Type == token.TEXT || tok.Type == token.STRING {
				literal = fmt.Sprintf("%q", literal)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n",
				posColor.Sprintf("%3d:%-3d", tok.Line, tok.Column),
				typeColor.Sprintf("%-12s", string(tok.Type)),
				literal)
		}
		return nil
	},
}
