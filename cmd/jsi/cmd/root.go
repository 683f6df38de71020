package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version information, set by build flags via the usual
// Version/GitCommit/BuildDate ldflags convention.
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "jsi",
	Short: "An embeddable ECMAScript interpreter",
	Long: `jsi is a tree-walking interpreter for a large subset of ECMAScript
(through roughly ES2020+: classes, generators, async/await, Promises,
optional chaining, destructuring, modules).

This CLI is a thin driver over the pkg/jsi embeddable engine, useful for
running scripts, inspecting tokens/AST, and exploring interactively.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().String("config", "", "path to a .jsirc.yaml config file")
}
