// Command jsi is the CLI front-end for the embeddable ECMAScript
// interpreter: a thin main delegating to a cobra command tree in ./cmd.
package main

import (
	"os"

	"github.com/kodjodevf/js-interpreter-sub002/cmd/jsi/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
