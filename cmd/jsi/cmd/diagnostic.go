package cmd

import (
	"fmt"
	"io"

	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
	"github.com/kodjodevf/js-interpreter-sub002/internal/parser"
	"github.com/kodjodevf/js-interpreter-sub002/pkg/jsi"
)

// diagnosticContextLines is how many source lines of context surround the
// caret in a reported error, matching FormatWithContext's own parameter.
const diagnosticContextLines int = 2

// reportError prints err to w as a caret-annotated compiler diagnostic when
// it (or its cause) carries a source position, falling back to a plain
// one-line message otherwise. Used by run/lex/parse so a lex/parse/runtime
// failure looks the same no matter which subcommand hit it.
func reportError(w io.Writer, err error, source, file string) {
	switch e := err.(type) {
	case *jsi.EvalError:
		if e.Pos != nil {
			printDiagnostic(w, e.Kind+": "+e.Message, *e.Pos, source, file)
			return
		}
		fmt.Fprintf(w, "%s: %s\n", e.Kind, e.Message)
	case *parser.ParseError:
		printDiagnostic(w, e.Message, e.Pos, source, file)
	case *lexer.LexerError:
		printDiagnostic(w, e.Message, e.Pos, source, file)
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

// printDiagnostic renders a single message/position pair via
// errors.CompilerError's caret formatting.
func printDiagnostic(w io.Writer, message string, pos lexer.Position, source, file string) {
	ce := errors.NewCompilerError(pos, message, source, file)
	fmt.Fprintln(w, ce.FormatWithContext(diagnosticContextLines, false))
}
