package parser

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/ast"
	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
)

func (p *Parser) parseFunctionDeclaration(isAsync bool) ast.Statement {
	start := p.cur.advance() // 'function'
	isGen := false
	if p.at(lexer.STAR) {
		isGen = true
		p.cur.advance()
	}
	nameTok := p.expect(lexer.IDENT, "function name")
	if !p.ok() {
		return nil
	}
	params, body := p.parseFunctionRest(isAsync, isGen)
	if !p.ok() {
		return nil
	}
	d := &ast.FunctionDecl{Name: nameTok.Literal, Params: params, Body: body, IsAsync: isAsync, IsGen: isGen}
	d.Start = start.Start
	return d
}

func (p *Parser) parseFunctionExpression(isAsync bool) ast.Expression {
	start := p.cur.advance() // 'function'
	isGen := false
	if p.at(lexer.STAR) {
		isGen = true
		p.cur.advance()
	}
	name := ""
	if p.at(lexer.IDENT) {
		name = p.cur.advance().Literal
	}
	params, body := p.parseFunctionRest(isAsync, isGen)
	if !p.ok() {
		return nil
	}
	e := &ast.FunctionExpression{Name: name, Params: params, Body: body, IsAsync: isAsync, IsGen: isGen}
	e.Start = start.Start
	return e
}

// parseFunctionTail parses `(params) { body }` for object/class methods,
// where the name and `function` keyword have already been consumed
// (implicit in the property/member key).
func (p *Parser) parseFunctionTail(isAsync, isGen bool) *ast.FunctionExpression {
	start := p.cur.peek()
	params, body := p.parseFunctionRest(isAsync, isGen)
	if !p.ok() {
		return nil
	}
	e := &ast.FunctionExpression{Params: params, Body: body, IsAsync: isAsync, IsGen: isGen}
	e.Start = start.Start
	return e
}

func (p *Parser) parseFunctionRest(isAsync, isGen bool) ([]*ast.Param, *ast.BlockStatement) {
	params := p.parseParamList()
	if !p.ok() {
		return nil, nil
	}
	outer := p.scope
	fnScope := newScopeContext(outer.strict)
	fnScope.inFunction = true
	fnScope.inGenerator = isGen
	fnScope.inAsync = isAsync
	p.scope = fnScope
	useStrict, body := p.parseFunctionBody()
	p.scope = outer
	_ = useStrict
	if !p.ok() {
		return nil, nil
	}
	return params, body
}

func (p *Parser) parseFunctionBody() (bool, *ast.BlockStatement) {
	start := p.expect(lexer.LBRACE, "'{'")
	if !p.ok() {
		return false, nil
	}
	useStrict, body := p.parseStatementListWithDirectives(lexer.RBRACE)
	if !p.ok() {
		return false, nil
	}
	end := p.expect(lexer.RBRACE, "'}'")
	b := &ast.BlockStatement{Body: body}
	b.Start, b.End = start.Start, end.End
	return useStrict, b
}

func (p *Parser) parseParamList() []*ast.Param {
	p.expect(lexer.LPAREN, "'('")
	if !p.ok() {
		return nil
	}
	var params []*ast.Param
	for p.ok() && !p.at(lexer.RPAREN) {
		params = append(params, p.parseParam())
		if !p.ok() {
			return nil
		}
		if p.at(lexer.COMMA) {
			p.cur.advance()
		} else {
			break
		}
	}
	p.expect(lexer.RPAREN, "')'")
	return params
}

func (p *Parser) parseParam() *ast.Param {
	start := p.cur.peek()
	if p.at(lexer.DOTDOTDOT) {
		p.cur.advance()
		target := p.parseBindingTarget()
		if !p.ok() {
			return nil
		}
		param := &ast.Param{Pattern: target, Rest: true}
		param.Start = start.Start
		return param
	}
	target := p.parseBindingTarget()
	if !p.ok() {
		return nil
	}
	var def ast.Expression
	if p.at(lexer.ASSIGN) {
		p.cur.advance()
		def = p.parseAssignmentExpression()
	}
	if !p.ok() {
		return nil
	}
	param := &ast.Param{Pattern: target, Default: def}
	param.Start = start.Start
	return param
}
