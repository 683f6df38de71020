package parser

import (
	"fmt"

	"github.com/kodjodevf/js-interpreter-sub002/internal/ast"
	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
)

func (p *Parser) parseStatement() ast.Statement {
	tok := p.cur.peek()
	switch tok.Type {
	case lexer.LBRACE:
		return p.parseBlockStatement()
	case lexer.SEMICOLON:
		p.cur.advance()
		return &ast.EmptyStatement{}
	case lexer.VAR, lexer.LET, lexer.CONST:
		s := p.parseVarDeclStatement()
		if p.ok() {
			p.expectSemicolon()
		}
		return s
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.DO:
		return p.parseDoWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.THROW:
		return p.parseThrowStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.BREAK:
		return p.parseBreakStatement()
	case lexer.CONTINUE:
		return p.parseContinueStatement()
	case lexer.FUNCTION:
		return p.parseFunctionDeclaration(false)
	case lexer.ASYNC:
		if p.cur.peekAt(1).Type == lexer.FUNCTION && !p.cur.peekAt(1).PrecededByLineTerminator {
			p.cur.advance()
			return p.parseFunctionDeclaration(true)
		}
	case lexer.CLASS:
		return p.parseClassDeclaration()
	case lexer.DEBUGGER:
		p.cur.advance()
		p.expectSemicolon()
		return &ast.DebuggerStatement{}
	case lexer.WITH:
		return p.parseWithStatement()
	case lexer.IMPORT:
		if p.cur.peekAt(1).Type != lexer.LPAREN && p.cur.peekAt(1).Type != lexer.DOT {
			return p.parseImportDeclaration()
		}
	case lexer.EXPORT:
		return p.parseExportDeclaration()
	}
	// Labeled statement: IDENT ':' — lookahead 2.
	if tok.Type == lexer.IDENT && p.cur.peekAt(1).Type == lexer.COLON {
		return p.parseLabeledStatement()
	}
	return p.parseExpressionStatement()
}

func (p *Parser) parseBlockStatement() *ast.BlockStatement {
	start := p.expect(lexer.LBRACE, "'{'")
	if !p.ok() {
		return nil
	}
	blockScope := p.scope.clone()
	outer := p.scope
	p.scope = blockScope
	_, body := p.parseStatementListWithDirectives(lexer.RBRACE)
	p.scope = outer
	if !p.ok() {
		return nil
	}
	end := p.expect(lexer.RBRACE, "'}'")
	b := &ast.BlockStatement{Body: body}
	b.Start, b.End = start.Start, end.End
	return b
}

func (p *Parser) parseVarDeclStatement() *ast.VarDeclStatement {
	tok := p.cur.advance()
	var kind ast.VarKind
	switch tok.Type {
	case lexer.VAR:
		kind = ast.KindVar
	case lexer.LET:
		kind = ast.KindLet
	case lexer.CONST:
		kind = ast.KindConst
	}
	var decls []*ast.Declarator
	for {
		target := p.parseBindingTarget()
		if !p.ok() {
			return nil
		}
		var init ast.Expression
		if p.at(lexer.ASSIGN) {
			p.cur.advance()
			init = p.parseAssignmentExpression()
		} else if kind == ast.KindConst {
			p.fail("missing initializer in const declaration", tok.Start)
			return nil
		}
		decls = append(decls, &ast.Declarator{Target: target, Init: init})
		if !p.at(lexer.COMMA) {
			break
		}
		p.cur.advance()
	}
	if !p.ok() {
		return nil
	}
	d := &ast.VarDeclStatement{Kind: kind, Declarations: decls}
	d.Start = tok.Start
	return d
}

// parseBindingTarget parses an identifier or destructuring pattern used as a
// declaration or parameter target.
func (p *Parser) parseBindingTarget() ast.Expression {
	switch p.cur.peek().Type {
	case lexer.LBRACK:
		return p.parseArrayPattern()
	case lexer.LBRACE:
		return p.parseObjectPattern()
	default:
		tok := p.cur.peek()
		if !isIdentLike(tok.Type) {
			p.fail("expected binding identifier, got "+tok.Literal, tok.Start)
			return nil
		}
		p.cur.advance()
		id := &ast.Identifier{Name: tok.Literal}
		id.Start, id.End = tok.Start, tok.End
		return id
	}
}

// isIdentLike reports whether tt may be used as a plain binding/reference
// identifier; several keywords (async, await, yield, of, get, static, let)
// are contextual rather than reserved outside the constructs that give them
// special meaning.
func isIdentLike(tt lexer.TokenType) bool {
	switch tt {
	case lexer.IDENT, lexer.OF, lexer.GET, lexer.STATIC, lexer.ASYNC, lexer.LET, lexer.YIELD, lexer.AWAIT:
		return true
	}
	return false
}

func (p *Parser) parseIfStatement() ast.Statement {
	start := p.cur.advance()
	p.expect(lexer.LPAREN, "'('")
	test := p.parseExpression()
	p.expect(lexer.RPAREN, "')'")
	if !p.ok() {
		return nil
	}
	cons := p.parseStatementNoDeclDirect()
	var alt ast.Statement
	if p.ok() && p.at(lexer.ELSE) {
		p.cur.advance()
		alt = p.parseStatementNoDeclDirect()
	}
	if !p.ok() {
		return nil
	}
	s := &ast.IfStatement{Test: test, Consequent: cons, Alternate: alt}
	s.Start = start.Start
	return s
}

// parseStatementNoDeclDirect enforces that let/const/class/function(non-
// block) may not be the direct child of if/else/while/for/with/labeled —
// §4.2 "Statements needing special rules".
func (p *Parser) parseStatementNoDeclDirect() ast.Statement {
	tok := p.cur.peek()
	switch tok.Type {
	case lexer.LET, lexer.CONST, lexer.CLASS:
		return p.failStmt(fmt.Sprintf("lexical declaration (%s) not allowed as direct child of this statement", tok.Literal))
	case lexer.FUNCTION:
		if p.scope.strict {
			return p.failStmt("function declaration not allowed as direct child of this statement in strict mode")
		}
	case lexer.ASYNC:
		if p.cur.peekAt(1).Type == lexer.FUNCTION {
			return p.failStmt("async function declaration not allowed as direct child of this statement")
		}
	}
	return p.parseStatement()
}

func (p *Parser) parseWhileStatement() ast.Statement {
	start := p.cur.advance()
	p.expect(lexer.LPAREN, "'('")
	if !p.ok() {
		return nil
	}
	test := p.parseExpression()
	p.expect(lexer.RPAREN, "')'")
	if !p.ok() {
		return nil
	}
	p.scope.inLoop++
	body := p.parseStatementNoDeclDirect()
	p.scope.inLoop--
	if !p.ok() {
		return nil
	}
	s := &ast.WhileStatement{Test: test, Body: body}
	s.Start = start.Start
	return s
}

func (p *Parser) parseDoWhileStatement() ast.Statement {
	start := p.cur.advance()
	p.scope.inLoop++
	body := p.parseStatement()
	p.scope.inLoop--
	p.expect(lexer.WHILE, "'while'")
	p.expect(lexer.LPAREN, "'('")
	if !p.ok() {
		return nil
	}
	test := p.parseExpression()
	p.expect(lexer.RPAREN, "')'")
	if !p.ok() {
		return nil
	}
	// `do { } while ( )` must be followed by `;` (insertable) — §4.2.
	if p.at(lexer.SEMICOLON) {
		p.cur.advance()
	}
	s := &ast.DoWhileStatement{Body: body, Test: test}
	s.Start = start.Start
	return s
}

func (p *Parser) parseThrowStatement() ast.Statement {
	start := p.cur.advance()
	// "no LineTerminator here" restricted production.
	if p.cur.peek().PrecededByLineTerminator {
		return p.failStmt("illegal newline after 'throw'")
	}
	arg := p.parseExpression()
	if !p.ok() {
		return nil
	}
	p.expectSemicolon()
	s := &ast.ThrowStatement{Argument: arg}
	s.Start = start.Start
	return s
}

func (p *Parser) parseReturnStatement() ast.Statement {
	start := p.cur.advance()
	var arg ast.Expression
	tok := p.cur.peek()
	if tok.Type != lexer.SEMICOLON && tok.Type != lexer.RBRACE && tok.Type != lexer.EOF && !tok.PrecededByLineTerminator {
		arg = p.parseExpression()
		if !p.ok() {
			return nil
		}
	}
	p.expectSemicolon()
	s := &ast.ReturnStatement{Argument: arg}
	s.Start = start.Start
	return s
}

func (p *Parser) parseBreakStatement() ast.Statement {
	start := p.cur.advance()
	label := ""
	tok := p.cur.peek()
	if tok.Type == lexer.IDENT && !tok.PrecededByLineTerminator {
		label = tok.Literal
		p.cur.advance()
	}
	p.expectSemicolon()
	s := &ast.BreakStatement{Label: label}
	s.Start = start.Start
	return s
}

func (p *Parser) parseContinueStatement() ast.Statement {
	start := p.cur.advance()
	label := ""
	tok := p.cur.peek()
	if tok.Type == lexer.IDENT && !tok.PrecededByLineTerminator {
		label = tok.Literal
		p.cur.advance()
	}
	p.expectSemicolon()
	s := &ast.ContinueStatement{Label: label}
	s.Start = start.Start
	return s
}

func (p *Parser) parseLabeledStatement() ast.Statement {
	tok := p.cur.advance()
	p.cur.advance() // ':'
	if p.scope.labels[tok.Literal] {
		return p.failStmt("label '" + tok.Literal + "' already declared")
	}
	p.scope.labels[tok.Literal] = true
	body := p.parseStatementNoDeclDirect()
	delete(p.scope.labels, tok.Literal)
	if !p.ok() {
		return nil
	}
	s := &ast.LabeledStatement{Label: tok.Literal, Body: body}
	s.Start = tok.Start
	return s
}

func (p *Parser) parseWithStatement() ast.Statement {
	start := p.cur.advance()
	if p.scope.strict {
		return p.failStmt("'with' statement not allowed in strict mode")
	}
	p.expect(lexer.LPAREN, "'('")
	obj := p.parseExpression()
	p.expect(lexer.RPAREN, "')'")
	if !p.ok() {
		return nil
	}
	body := p.parseStatementNoDeclDirect()
	if !p.ok() {
		return nil
	}
	s := &ast.WithStatement{Object: obj, Body: body}
	s.Start = start.Start
	return s
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	start := p.cur.peek()
	expr := p.parseExpression()
	if !p.ok() {
		return nil
	}
	p.expectSemicolon()
	if !p.ok() {
		return nil
	}
	s := &ast.ExpressionStatement{Expression: expr}
	s.Start = start.Start
	return s
}

func (p *Parser) parseSwitchStatement() ast.Statement {
	start := p.cur.advance()
	p.expect(lexer.LPAREN, "'('")
	disc := p.parseExpression()
	p.expect(lexer.RPAREN, "')'")
	p.expect(lexer.LBRACE, "'{'")
	if !p.ok() {
		return nil
	}
	var cases []*ast.SwitchCase
	p.scope.inSwitch++
	for p.ok() && !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		var test ast.Expression
		if p.at(lexer.CASE) {
			p.cur.advance()
			test = p.parseExpression()
		} else {
			p.expect(lexer.DEFAULT, "'case' or 'default'")
		}
		p.expect(lexer.COLON, "':'")
		if !p.ok() {
			break
		}
		var body []ast.Statement
		for p.ok() && !p.at(lexer.CASE) && !p.at(lexer.DEFAULT) && !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
			body = append(body, p.parseStatement())
		}
		cases = append(cases, &ast.SwitchCase{Test: test, Consequent: body})
	}
	p.scope.inSwitch--
	p.expect(lexer.RBRACE, "'}'")
	if !p.ok() {
		return nil
	}
	s := &ast.SwitchStatement{Discriminant: disc, Cases: cases}
	s.Start = start.Start
	return s
}

func (p *Parser) parseTryStatement() ast.Statement {
	start := p.cur.advance()
	block := p.parseBlockStatement()
	if !p.ok() {
		return nil
	}
	var handler *ast.CatchClause
	var finallyBlock *ast.BlockStatement
	if p.at(lexer.CATCH) {
		catchTok := p.cur.advance()
		var param ast.Expression
		if p.at(lexer.LPAREN) {
			p.cur.advance()
			param = p.parseBindingTarget()
			p.expect(lexer.RPAREN, "')'")
		}
		body := p.parseBlockStatement()
		if !p.ok() {
			return nil
		}
		handler = &ast.CatchClause{Param: param, Body: body}
		handler.Start = catchTok.Start
	}
	if p.at(lexer.FINALLY) {
		p.cur.advance()
		finallyBlock = p.parseBlockStatement()
	}
	if !p.ok() {
		return nil
	}
	if handler == nil && finallyBlock == nil {
		return p.failStmt("missing catch or finally after try")
	}
	s := &ast.TryStatement{Block: block, Handler: handler, Finally: finallyBlock}
	s.Start = start.Start
	return s
}

func (p *Parser) parseForStatement() ast.Statement {
	start := p.cur.advance()
	isAwait := false
	if p.at(lexer.AWAIT) {
		isAwait = true
		p.cur.advance()
	}
	p.expect(lexer.LPAREN, "'('")
	if !p.ok() {
		return nil
	}

	var init ast.Node
	if p.at(lexer.SEMICOLON) {
		init = nil
	} else if p.at(lexer.VAR) || p.at(lexer.LET) || p.at(lexer.CONST) {
		decl := p.parseVarDeclStatement()
		if !p.ok() {
			return nil
		}
		if (p.at(lexer.IN) || p.at(lexer.OF)) && len(decl.Declarations) == 1 {
			return p.finishForInOf(start, decl, isAwait)
		}
		init = decl
	} else {
		expr := p.parseExpressionNoIn()
		if !p.ok() {
			return nil
		}
		if p.at(lexer.IN) || p.at(lexer.OF) {
			return p.finishForInOf(start, expr, isAwait)
		}
		init = expr
	}

	p.expect(lexer.SEMICOLON, "';'")
	var test ast.Expression
	if !p.at(lexer.SEMICOLON) {
		test = p.parseExpression()
	}
	p.expect(lexer.SEMICOLON, "';'")
	var update ast.Expression
	if !p.at(lexer.RPAREN) {
		update = p.parseExpression()
	}
	p.expect(lexer.RPAREN, "')'")
	if !p.ok() {
		return nil
	}
	p.scope.inLoop++
	body := p.parseStatementNoDeclDirect()
	p.scope.inLoop--
	if !p.ok() {
		return nil
	}
	s := &ast.ForStatement{Init: init, Test: test, Update: update, Body: body}
	s.Start = start.Start
	return s
}

func (p *Parser) finishForInOf(start lexer.Token, left ast.Node, isAwait bool) ast.Statement {
	isOf := p.at(lexer.OF)
	p.cur.advance() // 'in' or 'of'
	var right ast.Expression
	if isOf {
		right = p.parseAssignmentExpression()
	} else {
		right = p.parseExpression()
	}
	p.expect(lexer.RPAREN, "')'")
	if !p.ok() {
		return nil
	}
	p.scope.inLoop++
	body := p.parseStatementNoDeclDirect()
	p.scope.inLoop--
	if !p.ok() {
		return nil
	}
	if isOf {
		s := &ast.ForOfStatement{Left: left, Right: right, Body: body, IsAwait: isAwait}
		s.Start = start.Start
		return s
	}
	s := &ast.ForInStatement{Left: left, Right: right, Body: body}
	s.Start = start.Start
	return s
}

// parseExpressionNoIn parses an expression, stopping before a bare top-level
// `in` so `for (x in y)` can be disambiguated from a relational `in`.
func (p *Parser) parseExpressionNoIn() ast.Expression {
	first := p.parseAssignmentExpressionNoIn()
	if !p.ok() || !p.at(lexer.COMMA) {
		return first
	}
	exprs := []ast.Expression{first}
	for p.ok() && p.at(lexer.COMMA) {
		p.cur.advance()
		exprs = append(exprs, p.parseAssignmentExpressionNoIn())
	}
	if !p.ok() {
		return nil
	}
	e := &ast.SequenceExpression{Expressions: exprs}
	e.Start, _ = first.Span()
	return e
}
