package parser

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/ast"
	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
)

func (p *Parser) parseArrayPattern() ast.Expression {
	start := p.cur.advance() // '['
	var elems []ast.Expression
	for p.ok() && !p.at(lexer.RBRACK) {
		if p.at(lexer.COMMA) {
			elems = append(elems, nil)
			p.cur.advance()
			continue
		}
		if p.at(lexer.DOTDOTDOT) {
			restStart := p.cur.advance()
			target := p.parseBindingTarget()
			if !p.ok() {
				return nil
			}
			r := &ast.RestElement{Target: target}
			r.Start = restStart.Start
			elems = append(elems, r)
			break // rest must be last
		}
		target := p.parseBindingTarget()
		if !p.ok() {
			return nil
		}
		if p.at(lexer.ASSIGN) {
			p.cur.advance()
			def := p.parseAssignmentExpression()
			if !p.ok() {
				return nil
			}
			ap := &ast.AssignmentPattern{Target: target, Default: def}
			ap.Start, _ = target.Span()
			target = ap
		}
		elems = append(elems, target)
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
	e := &ast.ArrayPattern{Elements: elems}
	e.Start, e.End = start.Start, end.End
	return e
}

func (p *Parser) parseObjectPattern() ast.Expression {
	start := p.cur.advance() // '{'
	var props []*ast.ObjectPatternProperty
	var rest ast.Expression
	for p.ok() && !p.at(lexer.RBRACE) {
		if p.at(lexer.DOTDOTDOT) {
			restStart := p.cur.advance()
			target := p.parseBindingTarget()
			if !p.ok() {
				return nil
			}
			r := &ast.RestElement{Target: target}
			r.Start = restStart.Start
			rest = r
			break // rest must be last
		}
		propStart := p.cur.peek()
		key, computed := p.parsePropertyKey()
		if !p.ok() {
			return nil
		}
		prop := &ast.ObjectPatternProperty{Key: key, Computed: computed}
		prop.Start = propStart.Start
		if p.at(lexer.COLON) {
			p.cur.advance()
			prop.Value = p.parseBindingTarget()
		} else {
			prop.Shorthand = true
			prop.Value = key
		}
		if !p.ok() {
			return nil
		}
		if p.at(lexer.ASSIGN) {
			p.cur.advance()
			def := p.parseAssignmentExpression()
			if !p.ok() {
				return nil
			}
			ap := &ast.AssignmentPattern{Target: prop.Value, Default: def}
			ap.Start, _ = prop.Value.Span()
			prop.Value = ap
		}
		props = append(props, prop)
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
	e := &ast.ObjectPattern{Properties: props, Rest: rest}
	e.Start, e.End = start.Start, end.End
	return e
}

// convertToPattern reinterprets an already-parsed expression (array/object
// literal, identifier) as an assignment/binding pattern, needed because the
// parser cannot always tell `[a, b] = x` from an array literal until it
// sees the following `=` (§4.2 Destructuring cover grammar).
func convertToPattern(e ast.Expression) ast.Expression {
	switch v := e.(type) {
	case *ast.Identifier, *ast.MemberExpression:
		return e
	case *ast.ArrayLiteral:
		elems := make([]ast.Expression, len(v.Elements))
		for i, el := range v.Elements {
			if el == nil {
				continue
			}
			if sp, isSpread := el.(*ast.SpreadElement); isSpread {
				r := &ast.RestElement{Target: convertToPattern(sp.Argument)}
				r.Start, r.End = sp.Span()
				elems[i] = r
				continue
			}
			elems[i] = convertToPattern(el)
		}
		pat := &ast.ArrayPattern{Elements: elems}
		pat.Start, pat.End = v.Span()
		return pat
	case *ast.ObjectLiteral:
		var props []*ast.ObjectPatternProperty
		var rest ast.Expression
		for _, prop := range v.Properties {
			if prop.Kind == ast.PropSpread {
				r := &ast.RestElement{Target: convertToPattern(prop.Value)}
				r.Start, r.End = prop.Span()
				rest = r
				continue
			}
			pp := &ast.ObjectPatternProperty{Key: prop.Key, Computed: prop.Computed, Shorthand: prop.Shorthand}
			pp.Start, pp.End = prop.Span()
			pp.Value = convertToPattern(prop.Value)
			props = append(props, pp)
		}
		pat := &ast.ObjectPattern{Properties: props, Rest: rest}
		pat.Start, pat.End = v.Span()
		return pat
	case *ast.AssignmentExpression:
		if v.Op == "=" {
			ap := &ast.AssignmentPattern{Target: convertToPattern(v.Target), Default: v.Value}
			ap.Start, ap.End = v.Span()
			return ap
		}
		return v
	default:
		return e
	}
}
