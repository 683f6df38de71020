package cmd

import (
	"fmt"
	"os"

	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
	"github.com/spf13/cobra"
)

var lexCmd = &cobra.Command{
	Use:   "lex [file]",
	Short: "Tokenize a JavaScript file or expression",
	Long: `Tokenize (lex) a JavaScript program and print the resulting tokens,
useful for debugging the lexer's ASI/regex-vs-division/template-literal
handling.`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         lexScript,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "tokenize inline code instead of reading from file")
}

func lexScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(args)
	if err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Printf("Tokenizing: %s\n", filename)
		fmt.Println("---")
	}

	l := lexer.New(input)
	for {
		tok := l.NextToken()
		fmt.Println(tok.String())
		if tok.Type == lexer.EOF {
			break
		}
	}
	if errs := l.Errors(); len(errs) > 0 {
		for _, lexErr := range errs {
			reportError(os.Stderr, &lexErr, input, filename)
		}
		return fmt.Errorf("lexing failed with %d error(s)", len(errs))
	}
	return nil
}
