package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/kodjodevf/js-interpreter-sub002/pkg/jsi"
	"github.com/spf13/cobra"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive read-eval-print loop",
	Long: `Start an interactive session: each non-empty line is evaluated on its
own against one persistent Engine, so bindings declared on one line are
visible on the next, the way a browser devtools console behaves. A
statement must fit on one line; lines are not joined.`,
	RunE: runREPL,
}

func init() {
	rootCmd.AddCommand(replCmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	engine, err := jsi.New(jsi.WithOutput(os.Stdout))
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(os.Stderr, "> ")
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			fmt.Fprint(os.Stderr, "> ")
			continue
		}
		result, err := engine.EvalAsync(context.Background(), line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
		} else {
			fmt.Println(result.Output)
		}
		fmt.Fprint(os.Stderr, "> ")
	}
	return scanner.Err()
}
