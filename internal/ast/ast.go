// Package ast defines the tagged-sum-type tree produced by internal/parser.
//
// Node kinds are grouped by concern (classes.go, expressions.go,
// statements.go, ...) across
// several files in this package rather than one large ast.go. Every node
// carries its source span so the evaluator and error reporter can locate it.
package ast

import "github.com/kodjodevf/js-interpreter-sub002/internal/lexer"

// Node is implemented by every AST node.
type Node interface {
	Span() (lexer.Position, lexer.Position)
	node()
}

// Statement is a marker for nodes that may appear where a statement is
// expected.
type Statement interface {
	Node
	stmt()
}

// Expression is a marker for nodes that may appear where an expression is
// expected.
type Expression interface {
	Node
	expr()
}

// base carries the span every node needs; embed it to satisfy Node.Span.
type base struct {
	Start lexer.Position
	End   lexer.Position
}

func (b base) Span() (lexer.Position, lexer.Position) { return b.Start, b.End }
func (base) node()                                    {}

// Program is the root of every parse: a script or a module body.
type Program struct {
	base
	Body       []Statement
	IsModule   bool
	UseStrict  bool // a "use strict" directive was seen in the prologue
}

func (*Program) stmt() {}
