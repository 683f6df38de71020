package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/kodjodevf/js-interpreter-sub002/pkg/jsi"
	"github.com/spf13/cobra"
)

var evalExpr string

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Run a JavaScript file or expression",
	Long: `Execute a JavaScript program from a file or inline expression,
draining the microtask and macrotask queues so Promise chains and timers
registered by the script run to completion.

Examples:
  # Run a script file
  jsi run script.js

  # Evaluate an inline expression
  jsi run -e "console.log('Hello, World!')"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScript,
	// A parse/runtime failure is reported as a caret diagnostic by
	// reportError before RunE returns; suppress cobra's usage dump so that
	// doesn't bury the diagnostic under an unrelated flag listing.
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVarP(&evalExpr, "eval", "e", "", "evaluate inline code instead of reading from file")
}

func runScript(cmd *cobra.Command, args []string) error {
	input, filename, err := readSource(args)
	if err != nil {
		return err
	}

	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	opts := []jsi.Option{jsi.WithOutput(os.Stdout)}
	engine, err := jsi.New(opts...)
	if err != nil {
		return err
	}
	for name, v := range cfg.Globals {
		if err := engine.SetGlobal(name, v); err != nil {
			return fmt.Errorf("failed to set global %q: %w", name, err)
		}
	}
	if cfg.ModuleRoot != "" {
		engine.SetModuleLoader(func(moduleID string) (string, error) {
			data, err := os.ReadFile(cfg.ModuleRoot + "/" + moduleID)
			if err != nil {
				return "", err
			}
			return string(data), nil
		})
	}

	result, err := engine.EvalAsync(context.Background(), input)
	if err != nil {
		reportError(os.Stderr, err, input, filename)
		return fmt.Errorf("execution failed")
	}
	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Fprintf(os.Stderr, "=> %s\n", result.Output)
	}
	return nil
}

// readSource resolves input source text from either -e or a positional file
// argument, the same precedence shared by the run/lex/parse commands.
func readSource(args []string) (input string, filename string, err error) {
	if evalExpr != "" {
		return evalExpr, "<eval>", nil
	}
	if len(args) == 1 {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return "", "", fmt.Errorf("failed to read file %s: %w", args[0], err)
		}
		return string(content), args[0], nil
	}
	return "", "", fmt.Errorf("either provide a file path or use -e flag for inline code")
}
