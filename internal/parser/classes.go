package parser

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/ast"
	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
)

func (p *Parser) parseClassDeclaration() ast.Statement {
	name, super, body, start := p.parseClassCommon()
	if !p.ok() {
		return nil
	}
	d := &ast.ClassDeclaration{Name: name, SuperClass: super, Body: body}
	d.Start = start
	return d
}

func (p *Parser) parseClassExpression() ast.Expression {
	name, super, body, start := p.parseClassCommon()
	if !p.ok() {
		return nil
	}
	e := &ast.ClassExpression{Name: name, SuperClass: super, Body: body}
	e.Start = start
	return e
}

func (p *Parser) parseClassCommon() (string, ast.Expression, *ast.ClassBody, lexer.Position) {
	start := p.cur.advance() // 'class'
	// A class body is always strict (§4.3 Classes).
	outer := p.scope
	p.scope = outer.clone()
	p.scope.strict = true
	defer func() { p.scope = outer }()

	name := ""
	if p.at(lexer.IDENT) {
		name = p.cur.advance().Literal
	}
	var super ast.Expression
	if p.at(lexer.EXTENDS) {
		p.cur.advance()
		super = p.parseLeftHandSideExpression()
	}
	if !p.ok() {
		return name, super, nil, start.Start
	}
	body := p.parseClassBody()
	return name, super, body, start.Start
}

func (p *Parser) parseClassBody() *ast.ClassBody {
	start := p.expect(lexer.LBRACE, "'{'")
	if !p.ok() {
		return nil
	}
	var members []*ast.ClassMember
	for p.ok() && !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		if p.at(lexer.SEMICOLON) {
			p.cur.advance()
			continue
		}
		members = append(members, p.parseClassMember())
		if !p.ok() {
			return nil
		}
	}
	end := p.expect(lexer.RBRACE, "'}'")
	if !p.ok() {
		return nil
	}
	b := &ast.ClassBody{Members: members}
	b.Start, b.End = start.Start, end.End
	return b
}

func (p *Parser) parseClassMember() *ast.ClassMember {
	start := p.cur.peek()
	static := false
	if p.at(lexer.STATIC) && p.cur.peekAt(1).Type != lexer.LPAREN && p.cur.peekAt(1).Type != lexer.ASSIGN {
		static = true
		p.cur.advance()
		if p.at(lexer.LBRACE) {
			// Static initialization block: treated as a field-like member
			// whose Value is a zero-arg function invoked at class definition.
			block := p.parseBlockStatement()
			fn := &ast.FunctionExpression{Body: block}
			fn.Start, fn.End = block.Span()
			m := &ast.ClassMember{Value: fn, Static: true, Kind: ast.PropMethod, IsStaticBlock: true}
			m.Start = start.Start
			return m
		}
	}
	isAsync, isGen := false, false
	if p.at(lexer.ASYNC) && p.cur.peekAt(1).Type != lexer.LPAREN && p.cur.peekAt(1).Type != lexer.ASSIGN && !p.cur.peekAt(1).PrecededByLineTerminator {
		isAsync = true
		p.cur.advance()
	}
	if p.at(lexer.STAR) {
		isGen = true
		p.cur.advance()
	}
	kind := ast.PropMethod
	if (p.at(lexer.GET) || (p.at(lexer.IDENT) && p.cur.peek().Literal == "set")) &&
		p.cur.peekAt(1).Type != lexer.LPAREN && p.cur.peekAt(1).Type != lexer.ASSIGN &&
		p.cur.peekAt(1).Type != lexer.SEMICOLON {
		if p.at(lexer.GET) {
			kind = ast.PropGet
		} else {
			kind = ast.PropSet
		}
		p.cur.advance()
	}
	key, computed := p.parsePropertyKey()
	if !p.ok() {
		return nil
	}
	m := &ast.ClassMember{Key: key, Computed: computed, Static: static, IsAsync: isAsync, IsGen: isGen, Kind: kind}
	m.Start = start.Start
	if p.at(lexer.LPAREN) {
		fn := p.parseFunctionTail(isAsync, isGen)
		m.Value = fn
		if kind != ast.PropGet && kind != ast.PropSet {
			m.Kind = ast.PropMethod
		}
		return m
	}
	// Field declaration, possibly with an initializer.
	m.IsField = true
	m.Kind = ast.PropInit
	if p.at(lexer.ASSIGN) {
		p.cur.advance()
		m.Value = p.parseAssignmentExpression()
	}
	p.expectSemicolon()
	return m
}
