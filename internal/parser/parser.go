// Package parser implements a recursive-descent parser over the token stream
// produced by internal/lexer. It mostly decides on 1 token of lookahead,
// peeks a second token in a few places (labels, async, accessors), and
// backtracks through the token cursor for the arrow-function cover grammar.
// It implements: Automatic Semicolon Insertion, the restricted productions,
// operator precedence via one parse function per precedence level, the
// arrow-function cover grammar, destructuring patterns, and strict-mode
// refinement.
package parser

import (
	"fmt"

	"github.com/kodjodevf/js-interpreter-sub002/internal/ast"
	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
)

// Parser walks a token cursor and produces an *ast.Program. Parsing stops at
// the first error; no partial AST is ever returned (§4.2 Error reporting).
type Parser struct {
	cur   *cursor
	scope *scopeContext
	err   *ParseError
	noIn  bool
}

// Parse tokenizes and parses src, returning the Program or the first error
// encountered. Lexer errors surface as parse errors too.
func Parse(src string) (*ast.Program, error) {
	l := lexer.New(src)
	p := &Parser{cur: newCursor(l), scope: newScopeContext(false)}
	prog := p.parseProgram()
	if p.err != nil {
		return nil, p.err
	}
	if errs := l.Errors(); len(errs) > 0 {
		return nil, &ParseError{Message: errs[0].Message, Pos: errs[0].Pos}
	}
	return prog, nil
}

func (p *Parser) fail(msg string, pos lexer.Position) *ast.Program {
	if p.err == nil {
		p.err = &ParseError{Message: msg, Pos: pos}
	}
	return nil
}

func (p *Parser) failExpr(msg string) ast.Expression {
	if p.err == nil {
		p.err = &ParseError{Message: msg, Pos: p.cur.peek().Start}
	}
	return nil
}

func (p *Parser) failStmt(msg string) ast.Statement {
	if p.err == nil {
		p.err = &ParseError{Message: msg, Pos: p.cur.peek().Start}
	}
	return nil
}

func (p *Parser) ok() bool { return p.err == nil }

func (p *Parser) at(tt lexer.TokenType) bool { return p.cur.peek().Type == tt }

func (p *Parser) expect(tt lexer.TokenType, what string) lexer.Token {
	tok := p.cur.peek()
	if tok.Type != tt {
		p.fail(fmt.Sprintf("expected %s, got %q", what, tok.Literal), tok.Start)
		return tok
	}
	return p.cur.advance()
}

// expectSemicolon implements ASI (§4.2): a virtual semicolon is accepted when
// the next token is `;` (consumed), `}`, EOF, or preceded by a line
// terminator; otherwise it is a parse error.
func (p *Parser) expectSemicolon() {
	if !p.ok() {
		return
	}
	tok := p.cur.peek()
	if tok.Type == lexer.SEMICOLON {
		p.cur.advance()
		return
	}
	if tok.Type == lexer.RBRACE || tok.Type == lexer.EOF || tok.PrecededByLineTerminator {
		return
	}
	p.fail(fmt.Sprintf("expected ';', got %q", tok.Literal), tok.Start)
}

func (p *Parser) parseProgram() *ast.Program {
	start := p.cur.peek()
	prog := &ast.Program{}
	useStrict, body := p.parseStatementListWithDirectives(lexer.EOF)
	if !p.ok() {
		return nil
	}
	prog.Body = body
	prog.UseStrict = useStrict
	end := p.cur.peek()
	prog.Start, prog.End = start.Start, end.Start
	return prog
}

// parseStatementListWithDirectives scans the directive prologue of a script
// or function body for "use strict" and sets strict mode accordingly before
// parsing the remaining statements (§4.2 Directive prologue).
func (p *Parser) parseStatementListWithDirectives(closeTok lexer.TokenType) (bool, []ast.Statement) {
	var body []ast.Statement
	inPrologue := true
	useStrict := p.scope.strict
	for p.ok() && !p.at(closeTok) && !p.at(lexer.EOF) {
		stmt := p.parseStatement()
		if !p.ok() {
			return useStrict, nil
		}
		if inPrologue {
			if es, isExpr := stmt.(*ast.ExpressionStatement); isExpr {
				if sl, isStr := es.Expression.(*ast.StringLiteral); isStr {
					if sl.Value == "use strict" {
						useStrict = true
						p.scope.strict = true
					}
					body = append(body, stmt)
					continue
				}
			}
			inPrologue = false
		}
		body = append(body, stmt)
	}
	return useStrict, body
}
