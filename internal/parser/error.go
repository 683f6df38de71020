package parser

import (
	"fmt"

	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
)

// ParseError carries a message and source span; parsing aborts at the first
// error with no recovery (§4.2 Error reporting).
type ParseError struct {
	Message string
	Pos     lexer.Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("SyntaxError: %s at %s", e.Message, e.Pos)
}
