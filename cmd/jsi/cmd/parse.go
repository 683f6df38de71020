package cmd

import (
	"fmt"
	"os"

	"github.com/kodjodevf/js-interpreter-sub002/internal/parser"
	"github.com/spf13/cobra"
)

var dumpAST bool

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a JavaScript file or expression",
	Long: `Parse a JavaScript program and report whether it parses cleanly.
Pass --dump-ast to also print the resulting syntax tree, useful for
debugging the parser's precedence ladder, ASI, and cover-grammar handling.`,
	Args:         cobra.MaximumNArgs(1),
	RunE:         parseScript,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(parseCmd)
	parseCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "parse inline code instead of reading from file")
	parseCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST")
}

func parseScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(args)
	if err != nil {
		return err
	}
	prog, err := parser.Parse(input)
	if err != nil {
		reportError(os.Stderr, err, input, filename)
		return fmt.Errorf("parse failed")
	}
	if dumpAST {
		fmt.Printf("%#v\n", prog)
	}
	return nil
}
