package parser

import (
	"strconv"
	"strings"

	"github.com/kodjodevf/js-interpreter-sub002/internal/ast"
	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
)

// parseLeftHandSideExpression handles new-expressions, member access, calls,
// optional chaining, and tagged templates, all of which share the tightest
// precedence band (§4.2 operator table).
func (p *Parser) parseLeftHandSideExpression() ast.Expression {
	var expr ast.Expression
	if p.at(lexer.NEW) {
		expr = p.parseNewExpression()
	} else {
		expr = p.parsePrimaryExpression()
	}
	return p.parseCallMemberTail(expr)
}

func (p *Parser) parseNewExpression() ast.Expression {
	start := p.cur.advance()
	if p.at(lexer.DOT) {
		p.cur.advance()
		prop := p.expect(lexer.IDENT, "'target'")
		if !p.ok() {
			return nil
		}
		if prop.Literal != "target" {
			return p.failExpr("expected 'new.target'")
		}
		e := &ast.MetaProperty{Kind: ast.MetaNewTarget}
		e.Start = start.Start
		return e
	}
	var callee ast.Expression
	if p.at(lexer.NEW) {
		callee = p.parseNewExpression()
	} else {
		callee = p.parsePrimaryExpression()
	}
	// Member access binds into the callee before the constructor's own
	// argument list: `new a.b.C(...)`.
	callee = p.parseMemberOnlyTail(callee)
	if !p.ok() {
		return nil
	}
	var args []ast.Expression
	if p.at(lexer.LPAREN) {
		args = p.parseArguments()
	}
	if !p.ok() {
		return nil
	}
	e := &ast.NewExpression{Callee: callee, Args: args}
	e.Start = start.Start
	return e
}

// parseMemberOnlyTail consumes `.prop`/`[expr]` (not calls), used while
// still looking for the `new` callee.
func (p *Parser) parseMemberOnlyTail(expr ast.Expression) ast.Expression {
	for p.ok() {
		switch {
		case p.at(lexer.DOT):
			p.cur.advance()
			tok := p.cur.advance()
			m := &ast.MemberExpression{Object: expr, Property: p.identFromToken(tok), Computed: false}
			m.Start, _ = expr.Span()
			expr = m
		case p.at(lexer.LBRACK):
			p.cur.advance()
			prop := p.parseExpression()
			p.expect(lexer.RBRACK, "']'")
			if !p.ok() {
				return nil
			}
			m := &ast.MemberExpression{Object: expr, Property: prop, Computed: true}
			m.Start, _ = expr.Span()
			expr = m
		default:
			return expr
		}
	}
	return nil
}

func (p *Parser) identFromToken(tok lexer.Token) *ast.Identifier {
	id := &ast.Identifier{Name: tok.Literal}
	id.Start, id.End = tok.Start, tok.End
	return id
}

// parseCallMemberTail consumes the chain of `.prop`, `[expr]`, `(args)`,
// `?.`, and tagged templates that may follow a primary expression.
func (p *Parser) parseCallMemberTail(expr ast.Expression) ast.Expression {
	for p.ok() {
		switch {
		case p.at(lexer.DOT):
			p.cur.advance()
			tok := p.cur.advance()
			m := &ast.MemberExpression{Object: expr, Property: p.identFromToken(tok), Computed: false}
			m.Start, _ = expr.Span()
			expr = m
		case p.at(lexer.QUESTION_DOT):
			p.cur.advance()
			if p.at(lexer.LPAREN) {
				args := p.parseArguments()
				if !p.ok() {
					return nil
				}
				c := &ast.CallExpression{Callee: expr, Args: args, Optional: true}
				c.Start, _ = expr.Span()
				expr = c
			} else if p.at(lexer.LBRACK) {
				p.cur.advance()
				prop := p.parseExpression()
				p.expect(lexer.RBRACK, "']'")
				if !p.ok() {
					return nil
				}
				m := &ast.MemberExpression{Object: expr, Property: prop, Computed: true, Optional: true}
				m.Start, _ = expr.Span()
				expr = m
			} else {
				tok := p.cur.advance()
				m := &ast.MemberExpression{Object: expr, Property: p.identFromToken(tok), Computed: false, Optional: true}
				m.Start, _ = expr.Span()
				expr = m
			}
		case p.at(lexer.LBRACK):
			p.cur.advance()
			prop := p.parseExpression()
			p.expect(lexer.RBRACK, "']'")
			if !p.ok() {
				return nil
			}
			m := &ast.MemberExpression{Object: expr, Property: prop, Computed: true}
			m.Start, _ = expr.Span()
			expr = m
		case p.at(lexer.LPAREN):
			args := p.parseArguments()
			if !p.ok() {
				return nil
			}
			c := &ast.CallExpression{Callee: expr, Args: args}
			c.Start, _ = expr.Span()
			expr = c
		case p.at(lexer.TEMPLATE_HEAD) || p.at(lexer.TEMPLATE_NOSUB):
			tmpl := p.parseTemplateLiteral()
			if !p.ok() {
				return nil
			}
			t := &ast.TaggedTemplateExpression{Tag: expr, Template: tmpl}
			t.Start, _ = expr.Span()
			expr = t
		default:
			return expr
		}
	}
	return nil
}

func (p *Parser) parseArguments() []ast.Expression {
	p.expect(lexer.LPAREN, "'('")
	if !p.ok() {
		return nil
	}
	var args []ast.Expression
	for p.ok() && !p.at(lexer.RPAREN) {
		if p.at(lexer.DOTDOTDOT) {
			start := p.cur.advance()
			arg := p.parseAssignmentExpression()
			if !p.ok() {
				return nil
			}
			s := &ast.SpreadElement{Argument: arg}
			s.Start = start.Start
			args = append(args, s)
		} else {
			args = append(args, p.parseAssignmentExpression())
		}
		if !p.ok() {
			return nil
		}
		if !p.at(lexer.COMMA) {
			break
		}
		p.cur.advance()
	}
	p.expect(lexer.RPAREN, "')'")
	return args
}

func (p *Parser) parsePrimaryExpression() ast.Expression {
	tok := p.cur.peek()
	switch tok.Type {
	case lexer.NUMBER:
		return p.parseNumberLiteral()
	case lexer.STRING:
		p.cur.advance()
		e := &ast.StringLiteral{Value: tok.Literal}
		e.Start, e.End = tok.Start, tok.End
		return e
	case lexer.TEMPLATE_HEAD, lexer.TEMPLATE_NOSUB:
		return p.parseTemplateLiteral()
	case lexer.TRUE, lexer.FALSE:
		p.cur.advance()
		e := &ast.BooleanLiteral{Value: tok.Type == lexer.TRUE}
		e.Start, e.End = tok.Start, tok.End
		return e
	case lexer.NULL_KW:
		p.cur.advance()
		e := &ast.NullLiteral{}
		e.Start, e.End = tok.Start, tok.End
		return e
	case lexer.UNDEFINED_KW:
		p.cur.advance()
		e := &ast.UndefinedLiteral{}
		e.Start, e.End = tok.Start, tok.End
		return e
	case lexer.THIS:
		p.cur.advance()
		e := &ast.ThisExpression{}
		e.Start, e.End = tok.Start, tok.End
		return e
	case lexer.SUPER:
		p.cur.advance()
		e := &ast.SuperExpression{}
		e.Start, e.End = tok.Start, tok.End
		return e
	case lexer.REGEX:
		p.cur.advance()
		return p.parseRegexLiteral(tok)
	case lexer.IDENT, lexer.OF, lexer.GET, lexer.STATIC, lexer.ASYNC, lexer.LET, lexer.YIELD, lexer.AWAIT:
		// Contextual keywords parse as identifiers here; `async` may instead
		// introduce an async function expression or async arrow.
		if tok.Type == lexer.ASYNC {
			if nxt := p.cur.peekAt(1); nxt.Type == lexer.FUNCTION && !nxt.PrecededByLineTerminator {
				return p.parseFunctionExpression(true)
			}
		}
		if tok.Type == lexer.YIELD && p.scope.inGenerator {
			return p.failExpr("'yield' is not a valid identifier in a generator")
		}
		p.cur.advance()
		return p.identFromToken(tok)
	case lexer.FUNCTION:
		return p.parseFunctionExpression(false)
	case lexer.CLASS:
		return p.parseClassExpression()
	case lexer.LPAREN:
		return p.parseParenthesizedOrArrowParams()
	case lexer.LBRACK:
		return p.parseArrayLiteral()
	case lexer.LBRACE:
		return p.parseObjectLiteral()
	case lexer.IMPORT:
		p.cur.advance()
		if p.at(lexer.DOT) {
			p.cur.advance()
			p.expect(lexer.IDENT, "'meta'")
			e := &ast.MetaProperty{Kind: ast.MetaImportMeta}
			e.Start = tok.Start
			return e
		}
		arg := p.parseArguments()
		if !p.ok() || len(arg) != 1 {
			if p.ok() {
				p.fail("import() requires exactly one argument", tok.Start)
			}
			return nil
		}
		e := &ast.ImportExpression{Argument: arg[0]}
		e.Start = tok.Start
		return e
	}
	return p.failExpr("unexpected token " + tok.Literal)
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	tok := p.cur.advance()
	raw := tok.Literal
	isBigInt := strings.HasSuffix(raw, "n")
	literal := strings.TrimSuffix(raw, "n")
	var val float64
	switch {
	case strings.HasPrefix(literal, "0x") || strings.HasPrefix(literal, "0X"):
		n, _ := strconv.ParseUint(literal[2:], 16, 64)
		val = float64(n)
	case strings.HasPrefix(literal, "0b") || strings.HasPrefix(literal, "0B"):
		n, _ := strconv.ParseUint(literal[2:], 2, 64)
		val = float64(n)
	case strings.HasPrefix(literal, "0o") || strings.HasPrefix(literal, "0O"):
		n, _ := strconv.ParseUint(literal[2:], 8, 64)
		val = float64(n)
	case tok.OctalLegacy:
		n, _ := strconv.ParseUint(literal, 8, 64)
		val = float64(n)
	default:
		val, _ = strconv.ParseFloat(literal, 64)
	}
	e := &ast.NumberLiteral{Value: val, IsBigInt: isBigInt, Raw: raw}
	e.Start, e.End = tok.Start, tok.End
	return e
}

func (p *Parser) parseRegexLiteral(tok lexer.Token) ast.Expression {
	body := tok.Literal
	lastSlash := strings.LastIndexByte(body, '/')
	pattern := body[1:lastSlash]
	flags := body[lastSlash+1:]
	e := &ast.RegexLiteral{Pattern: pattern, Flags: flags}
	e.Start, e.End = tok.Start, tok.End
	return e
}

// parseTemplateLiteral stitches together TEMPLATE_HEAD/MIDDLE/TAIL tokens
// and the expressions between them (§2 template literal lexing).
func (p *Parser) parseTemplateLiteral() *ast.TemplateLiteral {
	tok := p.cur.advance()
	tmpl := &ast.TemplateLiteral{Quasis: []string{tok.Literal}}
	tmpl.Start = tok.Start
	if tok.Type == lexer.TEMPLATE_NOSUB {
		tmpl.End = tok.End
		return tmpl
	}
	for {
		expr := p.parseExpression()
		if !p.ok() {
			return nil
		}
		tmpl.Expressions = append(tmpl.Expressions, expr)
		next := p.cur.peek()
		if next.Type != lexer.TEMPLATE_MIDDLE && next.Type != lexer.TEMPLATE_TAIL {
			p.fail("unterminated template literal", next.Start)
			return nil
		}
		p.cur.advance()
		tmpl.Quasis = append(tmpl.Quasis, next.Literal)
		if next.Type == lexer.TEMPLATE_TAIL {
			tmpl.End = next.End
			break
		}
	}
	return tmpl
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	start := p.cur.advance()
	var elems []ast.Expression
	for p.ok() && !p.at(lexer.RBRACK) {
		if p.at(lexer.COMMA) {
			elems = append(elems, nil)
			p.cur.advance()
			continue
		}
		if p.at(lexer.DOTDOTDOT) {
			sTok := p.cur.advance()
			arg := p.parseAssignmentExpression()
			if !p.ok() {
				return nil
			}
			s := &ast.SpreadElement{Argument: arg}
			s.Start = sTok.Start
			elems = append(elems, s)
		} else {
			elems = append(elems, p.parseAssignmentExpression())
		}
		if !p.ok() {
			return nil
		}
		if p.at(lexer.COMMA) {
			p.cur.advance()
		} else {
			break
		}
	}
	end := p.expect(lexer.RBRACK, "']'")
	if !p.ok() {
		return nil
	}
	e := &ast.ArrayLiteral{Elements: elems}
	e.Start, e.End = start.Start, end.End
	return e
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	start := p.cur.advance()
	var props []*ast.Property
	for p.ok() && !p.at(lexer.RBRACE) {
		props = append(props, p.parsePropertyDefinition())
		if !p.ok() {
			return nil
		}
		if p.at(lexer.COMMA) {
			p.cur.advance()
		} else {
			break
		}
	}
	end := p.expect(lexer.RBRACE, "'}'")
	if !p.ok() {
		return nil
	}
	e := &ast.ObjectLiteral{Properties: props}
	e.Start, e.End = start.Start, end.End
	return e
}

func (p *Parser) parsePropertyDefinition() *ast.Property {
	start := p.cur.peek()
	if p.at(lexer.DOTDOTDOT) {
		p.cur.advance()
		arg := p.parseAssignmentExpression()
		if !p.ok() {
			return nil
		}
		prop := &ast.Property{Kind: ast.PropSpread, Value: arg}
		prop.Start = start.Start
		return prop
	}
	isAsync, isGen := false, false
	if p.at(lexer.ASYNC) && p.cur.peekAt(1).Type != lexer.COLON && p.cur.peekAt(1).Type != lexer.LPAREN && p.cur.peekAt(1).Type != lexer.COMMA && p.cur.peekAt(1).Type != lexer.RBRACE {
		isAsync = true
		p.cur.advance()
	}
	if p.at(lexer.STAR) {
		isGen = true
		p.cur.advance()
	}
	kind := ast.PropInit
	if (p.at(lexer.GET) || (p.at(lexer.IDENT) && p.cur.peek().Literal == "set")) &&
		p.cur.peekAt(1).Type != lexer.COLON && p.cur.peekAt(1).Type != lexer.LPAREN &&
		p.cur.peekAt(1).Type != lexer.COMMA && p.cur.peekAt(1).Type != lexer.RBRACE {
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
	prop := &ast.Property{Key: key, Computed: computed, Kind: kind, IsAsync: isAsync, IsGen: isGen}
	prop.Start = start.Start
	switch {
	case kind == ast.PropGet || kind == ast.PropSet:
		fn := p.parseFunctionTail(isAsync, false)
		prop.Value = fn
		prop.Kind = kind
	case p.at(lexer.LPAREN):
		fn := p.parseFunctionTail(isAsync, isGen)
		prop.Value = fn
		prop.Kind = ast.PropMethod
	case p.at(lexer.COLON):
		p.cur.advance()
		prop.Value = p.parseAssignmentExpression()
	case p.at(lexer.ASSIGN):
		// Shorthand with default, only valid inside a destructuring pattern
		// that this object literal will later be reinterpreted as.
		p.cur.advance()
		def := p.parseAssignmentExpression()
		if !p.ok() {
			return nil
		}
		ap := &ast.AssignmentPattern{Target: key, Default: def}
		ap.Start, _ = key.Span()
		prop.Value = ap
		prop.Shorthand = true
	default:
		prop.Value = key
		prop.Shorthand = true
	}
	return prop
}

func (p *Parser) parsePropertyKey() (ast.Expression, bool) {
	if p.at(lexer.LBRACK) {
		p.cur.advance()
		key := p.parseAssignmentExpression()
		p.expect(lexer.RBRACK, "']'")
		return key, true
	}
	tok := p.cur.peek()
	switch tok.Type {
	case lexer.STRING:
		p.cur.advance()
		e := &ast.StringLiteral{Value: tok.Literal}
		e.Start, e.End = tok.Start, tok.End
		return e, false
	case lexer.NUMBER:
		return p.parseNumberLiteral(), false
	default:
		p.cur.advance()
		return p.identFromToken(tok), false
	}
}

// parseParenthesizedOrArrowParams handles `( expr )`; arrow detection already
// happened in tryParseArrowFunction before this is reached, so this always
// produces a ParenthesizedExpression wrapping the inner expression.
func (p *Parser) parseParenthesizedOrArrowParams() ast.Expression {
	start := p.cur.advance()
	inner := p.parseExpression()
	end := p.expect(lexer.RPAREN, "')'")
	if !p.ok() {
		return nil
	}
	e := &ast.ParenthesizedExpression{Inner: inner}
	e.Start, e.End = start.Start, end.End
	return e
}
