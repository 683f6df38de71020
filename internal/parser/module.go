package parser

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/ast"
	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
)

func (p *Parser) parseImportDeclaration() ast.Statement {
	start := p.cur.advance() // 'import'
	var specs []*ast.ImportSpecifier
	if p.at(lexer.STRING) {
		src := p.cur.advance()
		p.expectSemicolon()
		d := &ast.ImportDeclaration{Source: src.Literal}
		d.Start = start.Start
		return d
	}
	// Default import.
	if p.at(lexer.IDENT) {
		tok := p.cur.advance()
		specs = append(specs, &ast.ImportSpecifier{Imported: "default", Local: tok.Literal})
		if p.at(lexer.COMMA) {
			p.cur.advance()
		}
	}
	if p.at(lexer.STAR) {
		p.cur.advance()
		p.expect(lexer.IDENT, "'as'") // consumes 'as' (lexed as IDENT)
		local := p.expect(lexer.IDENT, "binding name")
		if !p.ok() {
			return nil
		}
		specs = append(specs, &ast.ImportSpecifier{Imported: "*", Local: local.Literal})
	} else if p.at(lexer.LBRACE) {
		p.cur.advance()
		for p.ok() && !p.at(lexer.RBRACE) {
			nameTok := p.cur.advance()
			local := nameTok.Literal
			if p.at(lexer.IDENT) && p.cur.peek().Literal == "as" {
				p.cur.advance()
				local = p.cur.advance().Literal
			}
			specs = append(specs, &ast.ImportSpecifier{Imported: nameTok.Literal, Local: local})
			if p.at(lexer.COMMA) {
				p.cur.advance()
			} else {
				break
			}
		}
		p.expect(lexer.RBRACE, "'}'")
	}
	if !p.ok() {
		return nil
	}
	p.expect(lexer.IDENT, "'from'") // consumes 'from'
	src := p.expect(lexer.STRING, "module specifier string")
	if !p.ok() {
		return nil
	}
	p.expectSemicolon()
	d := &ast.ImportDeclaration{Specifiers: specs, Source: src.Literal}
	d.Start = start.Start
	return d
}

func (p *Parser) parseExportDeclaration() ast.Statement {
	start := p.cur.advance() // 'export'
	if p.at(lexer.DEFAULT) {
		p.cur.advance()
		var decl ast.Node
		switch {
		case p.at(lexer.FUNCTION):
			decl = p.parseFunctionDeclaration(false)
		case p.at(lexer.ASYNC) && p.cur.peekAt(1).Type == lexer.FUNCTION:
			p.cur.advance()
			decl = p.parseFunctionDeclaration(true)
		case p.at(lexer.CLASS):
			decl = p.parseClassDeclaration()
		default:
			decl = p.parseAssignmentExpression()
			p.expectSemicolon()
		}
		if !p.ok() {
			return nil
		}
		d := &ast.ExportDefaultDeclaration{Declaration: decl}
		d.Start = start.Start
		return d
	}
	if p.at(lexer.LBRACE) {
		p.cur.advance()
		var specs []*ast.ExportSpecifier
		for p.ok() && !p.at(lexer.RBRACE) {
			localTok := p.cur.advance()
			exported := localTok.Literal
			if p.at(lexer.IDENT) && p.cur.peek().Literal == "as" {
				p.cur.advance()
				exported = p.cur.advance().Literal
			}
			specs = append(specs, &ast.ExportSpecifier{Local: localTok.Literal, Exported: exported})
			if p.at(lexer.COMMA) {
				p.cur.advance()
			} else {
				break
			}
		}
		p.expect(lexer.RBRACE, "'}'")
		if p.at(lexer.IDENT) && p.cur.peek().Literal == "from" {
			p.cur.advance()
			p.expect(lexer.STRING, "module specifier string")
		}
		p.expectSemicolon()
		if !p.ok() {
			return nil
		}
		d := &ast.ExportNamedDeclaration{Specifiers: specs}
		d.Start = start.Start
		return d
	}
	if p.at(lexer.STAR) {
		p.cur.advance()
		if p.at(lexer.IDENT) && p.cur.peek().Literal == "as" {
			p.cur.advance()
			p.cur.advance()
		}
		p.expect(lexer.IDENT, "'from'")
		p.expect(lexer.STRING, "module specifier string")
		p.expectSemicolon()
		if !p.ok() {
			return nil
		}
		d := &ast.ExportNamedDeclaration{}
		d.Start = start.Start
		return d
	}
	decl := p.parseStatement()
	if !p.ok() {
		return nil
	}
	d := &ast.ExportNamedDeclaration{Declaration: decl}
	d.Start = start.Start
	return d
}
