package parser

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/ast"
	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
)

// parseExpression parses the comma operator (loosest binding, §4.2).
func (p *Parser) parseExpression() ast.Expression {
	first := p.parseAssignmentExpression()
	if !p.ok() || !p.at(lexer.COMMA) {
		return first
	}
	exprs := []ast.Expression{first}
	for p.ok() && p.at(lexer.COMMA) {
		p.cur.advance()
		exprs = append(exprs, p.parseAssignmentExpression())
	}
	if !p.ok() {
		return nil
	}
	e := &ast.SequenceExpression{Expressions: exprs}
	e.Start, _ = first.Span()
	return e
}

var assignOps = map[lexer.TokenType]string{
	lexer.ASSIGN: "=", lexer.PLUS_ASSIGN: "+=", lexer.MINUS_ASSIGN: "-=",
	lexer.STAR_ASSIGN: "*=", lexer.SLASH_ASSIGN: "/=", lexer.PERCENT_ASSIGN: "%=",
	lexer.POW_ASSIGN: "**=", lexer.SHL_ASSIGN: "<<=", lexer.SHR_ASSIGN: ">>=",
	lexer.USHR_ASSIGN: ">>>=", lexer.AND_ASSIGN: "&=", lexer.OR_ASSIGN: "|=",
	lexer.XOR_ASSIGN: "^=", lexer.LOGICAL_AND_ASSIGN: "&&=",
	lexer.LOGICAL_OR_ASSIGN: "||=", lexer.NULLISH_ASSIGN: "??=",
}

// parseAssignmentExpression handles the cover grammar for arrow functions
// (try the arrow form first when the lookahead looks like `(...) =>` or a
// bare `ident =>`) before falling back to the conditional-expression chain
// and then recognizing a trailing assignment operator (§4.2 Arrow functions).
func (p *Parser) parseAssignmentExpression() ast.Expression {
	if arrow := p.tryParseArrowFunction(); arrow != nil {
		return arrow
	}
	if !p.ok() {
		return nil
	}
	if p.at(lexer.YIELD) && p.scope.inGenerator {
		return p.parseYieldExpression()
	}
	left := p.parseConditionalExpression()
	if !p.ok() {
		return nil
	}
	tok := p.cur.peek()
	if op, isAssign := assignOps[tok.Type]; isAssign {
		p.cur.advance()
		right := p.parseAssignmentExpression()
		if !p.ok() {
			return nil
		}
		target := left
		if op == "=" {
			target = convertToPattern(left)
		}
		e := &ast.AssignmentExpression{Op: op, Target: target, Value: right}
		e.Start, _ = left.Span()
		return e
	}
	return left
}

func (p *Parser) parseAssignmentExpressionNoIn() ast.Expression {
	// Used only for the for-statement init clause; `in` is not consumed by
	// any level below relational, so it is enough to special-case relational.
	old := p.noIn
	p.noIn = true
	e := p.parseAssignmentExpression()
	p.noIn = old
	return e
}

func (p *Parser) parseYieldExpression() ast.Expression {
	start := p.cur.advance()
	delegate := false
	if p.at(lexer.STAR) {
		delegate = true
		p.cur.advance()
	}
	var arg ast.Expression
	tok := p.cur.peek()
	canHaveArg := tok.Type != lexer.SEMICOLON && tok.Type != lexer.RBRACE && tok.Type != lexer.RPAREN &&
		tok.Type != lexer.RBRACK && tok.Type != lexer.COMMA && tok.Type != lexer.COLON && tok.Type != lexer.EOF
	if canHaveArg && (!tok.PrecededByLineTerminator || delegate) {
		arg = p.parseAssignmentExpression()
	}
	if !p.ok() {
		return nil
	}
	e := &ast.YieldExpression{Argument: arg, Delegate: delegate}
	e.Start = start.Start
	return e
}

func (p *Parser) parseConditionalExpression() ast.Expression {
	test := p.parseNullishExpression()
	if !p.ok() || !p.at(lexer.QUESTION) {
		return test
	}
	p.cur.advance()
	cons := p.parseAssignmentExpression()
	p.expect(lexer.COLON, "':'")
	alt := p.parseAssignmentExpression()
	if !p.ok() {
		return nil
	}
	e := &ast.ConditionalExpression{Test: test, Consequent: cons, Alternate: alt}
	e.Start, _ = test.Span()
	return e
}

func isBareLogical(e ast.Expression) bool {
	le, ok := e.(*ast.LogicalExpression)
	return ok && (le.Op == "&&" || le.Op == "||")
}

func isBareNullish(e ast.Expression) bool {
	le, ok := e.(*ast.LogicalExpression)
	return ok && le.Op == "??"
}

// parseNullishExpression implements "mixing ?? with &&/|| without
// parentheses is rejected" by checking, at each step, that neither operand
// is a bare (unparenthesized) expression from the other family.
func (p *Parser) parseNullishExpression() ast.Expression {
	left := p.parseLogicalOrExpression()
	if !p.ok() || !p.at(lexer.QUESTION_QUESTION) {
		return left
	}
	if isBareLogical(left) {
		return p.failExpr("cannot mix '??' with '&&'/'||' without parentheses")
	}
	for p.ok() && p.at(lexer.QUESTION_QUESTION) {
		p.cur.advance()
		right := p.parseLogicalOrExpression()
		if !p.ok() {
			return nil
		}
		if isBareLogical(right) {
			return p.failExpr("cannot mix '??' with '&&'/'||' without parentheses")
		}
		e := &ast.LogicalExpression{Op: "??", Left: left, Right: right}
		e.Start, _ = left.Span()
		left = e
	}
	return left
}

func (p *Parser) parseLogicalOrExpression() ast.Expression {
	left := p.parseLogicalAndExpression()
	for p.ok() && p.at(lexer.LOGICAL_OR) {
		if isBareNullish(left) {
			return p.failExpr("cannot mix '||' with '??' without parentheses")
		}
		p.cur.advance()
		right := p.parseLogicalAndExpression()
		if !p.ok() {
			return nil
		}
		if isBareNullish(right) {
			return p.failExpr("cannot mix '||' with '??' without parentheses")
		}
		e := &ast.LogicalExpression{Op: "||", Left: left, Right: right}
		e.Start, _ = left.Span()
		left = e
	}
	return left
}

func (p *Parser) parseLogicalAndExpression() ast.Expression {
	left := p.parseBitOrExpression()
	for p.ok() && p.at(lexer.LOGICAL_AND) {
		if isBareNullish(left) {
			return p.failExpr("cannot mix '&&' with '??' without parentheses")
		}
		p.cur.advance()
		right := p.parseBitOrExpression()
		if !p.ok() {
			return nil
		}
		e := &ast.LogicalExpression{Op: "&&", Left: left, Right: right}
		e.Start, _ = left.Span()
		left = e
	}
	return left
}

func (p *Parser) parseBitOrExpression() ast.Expression {
	left := p.parseBitXorExpression()
	for p.ok() && p.at(lexer.OR) {
		p.cur.advance()
		right := p.parseBitXorExpression()
		left = p.bin(left, "|", right)
	}
	return left
}

func (p *Parser) parseBitXorExpression() ast.Expression {
	left := p.parseBitAndExpression()
	for p.ok() && p.at(lexer.XOR) {
		p.cur.advance()
		right := p.parseBitAndExpression()
		left = p.bin(left, "^", right)
	}
	return left
}

func (p *Parser) parseBitAndExpression() ast.Expression {
	left := p.parseEqualityExpression()
	for p.ok() && p.at(lexer.AND) {
		p.cur.advance()
		right := p.parseEqualityExpression()
		left = p.bin(left, "&", right)
	}
	return left
}

var equalityOps = map[lexer.TokenType]string{
	lexer.EQ: "==", lexer.NEQ: "!=", lexer.SEQ: "===", lexer.SNEQ: "!==",
}

func (p *Parser) parseEqualityExpression() ast.Expression {
	left := p.parseRelationalExpression()
	for p.ok() {
		op, isEq := equalityOps[p.cur.peek().Type]
		if !isEq {
			break
		}
		p.cur.advance()
		right := p.parseRelationalExpression()
		left = p.bin(left, op, right)
	}
	return left
}

var relOps = map[lexer.TokenType]string{
	lexer.LT: "<", lexer.GT: ">", lexer.LE: "<=", lexer.GE: ">=",
	lexer.INSTANCEOF: "instanceof",
}

func (p *Parser) parseRelationalExpression() ast.Expression {
	left := p.parseShiftExpression()
	for p.ok() {
		tt := p.cur.peek().Type
		if tt == lexer.IN && p.noIn {
			break
		}
		op, isRel := relOps[tt]
		if tt == lexer.IN {
			op, isRel = "in", true
		}
		if !isRel {
			break
		}
		p.cur.advance()
		right := p.parseShiftExpression()
		left = p.bin(left, op, right)
	}
	return left
}

var shiftOps = map[lexer.TokenType]string{lexer.SHL: "<<", lexer.SHR: ">>", lexer.USHR: ">>>"}

func (p *Parser) parseShiftExpression() ast.Expression {
	left := p.parseAdditiveExpression()
	for p.ok() {
		op, isShift := shiftOps[p.cur.peek().Type]
		if !isShift {
			break
		}
		p.cur.advance()
		right := p.parseAdditiveExpression()
		left = p.bin(left, op, right)
	}
	return left
}

func (p *Parser) parseAdditiveExpression() ast.Expression {
	left := p.parseMultiplicativeExpression()
	for p.ok() && (p.at(lexer.PLUS) || p.at(lexer.MINUS)) {
		op := "+"
		if p.at(lexer.MINUS) {
			op = "-"
		}
		p.cur.advance()
		right := p.parseMultiplicativeExpression()
		left = p.bin(left, op, right)
	}
	return left
}

var mulOps = map[lexer.TokenType]string{lexer.STAR: "*", lexer.SLASH: "/", lexer.PERCENT: "%"}

func (p *Parser) parseMultiplicativeExpression() ast.Expression {
	left := p.parseExponentExpression()
	for p.ok() {
		op, isMul := mulOps[p.cur.peek().Type]
		if !isMul {
			break
		}
		p.cur.advance()
		right := p.parseExponentExpression()
		left = p.bin(left, op, right)
	}
	return left
}

// parseExponentExpression is right-associative (§4.2 operator table).
func (p *Parser) parseExponentExpression() ast.Expression {
	left := p.parseUnaryExpression()
	if !p.ok() || !p.at(lexer.POW) {
		return left
	}
	p.cur.advance()
	right := p.parseExponentExpression()
	return p.bin(left, "**", right)
}

// tryParseArrowFunction implements the arrow-function cover grammar (§4.2):
// `ident =>`, `() =>`, and `(params) =>` are only known to be arrows after
// seeing the `=>` token, so a parenthesized parameter list is spelled
// exactly like a parenthesized expression until that point. We mark the
// cursor, attempt the arrow reading, and roll back on any mismatch so the
// caller can fall through to ordinary expression parsing.
func (p *Parser) tryParseArrowFunction() ast.Expression {
	isAsync := false
	start := p.cur.peek()
	lookOffset := 0
	if start.Type == lexer.ASYNC {
		nxt := p.cur.peekAt(1)
		if nxt.PrecededByLineTerminator {
			return nil
		}
		if nxt.Type == lexer.LPAREN || isIdentLike(nxt.Type) {
			isAsync = true
			lookOffset = 1
		} else {
			return nil
		}
	}
	head := p.cur.peekAt(lookOffset)
	if isIdentLike(head.Type) {
		after := p.cur.peekAt(lookOffset + 1)
		if after.Type != lexer.ARROW || after.PrecededByLineTerminator {
			return nil
		}
		mark := p.cur.mark()
		if isAsync {
			p.cur.advance()
		}
		nameTok := p.cur.advance()
		p.cur.advance() // '=>'
		id := p.identFromToken(nameTok)
		param := &ast.Param{Pattern: id}
		param.Start, param.End = id.Start, id.End
		body := p.parseArrowBody(isAsync)
		if !p.ok() {
			p.cur.reset(mark)
			return nil
		}
		e := &ast.ArrowFunctionExpression{Params: []*ast.Param{param}, Body: body, IsAsync: isAsync}
		e.Start = start.Start
		return e
	}
	if head.Type != lexer.LPAREN {
		return nil
	}
	mark := p.cur.mark()
	savedErr := p.err
	if isAsync {
		p.cur.advance()
	}
	params := p.parseParamList()
	if p.ok() && p.at(lexer.ARROW) && !p.cur.peek().PrecededByLineTerminator {
		p.cur.advance()
		body := p.parseArrowBody(isAsync)
		if !p.ok() {
			p.cur.reset(mark)
			p.err = savedErr
			return nil
		}
		e := &ast.ArrowFunctionExpression{Params: params, Body: body, IsAsync: isAsync}
		e.Start = start.Start
		return e
	}
	// Not an arrow: roll back completely and let ordinary parsing retry
	// `(...)` as a parenthesized expression (or async(...) as a call).
	p.cur.reset(mark)
	p.err = savedErr
	return nil
}

func (p *Parser) parseArrowBody(isAsync bool) ast.Node {
	outer := p.scope
	fnScope := newScopeContext(outer.strict)
	fnScope.inFunction = true
	fnScope.inAsync = isAsync
	p.scope = fnScope
	defer func() { p.scope = outer }()
	if p.at(lexer.LBRACE) {
		_, body := p.parseFunctionBody()
		return body
	}
	return p.parseAssignmentExpression()
}

func (p *Parser) bin(left ast.Expression, op string, right ast.Expression) ast.Expression {
	if !p.ok() {
		return nil
	}
	e := &ast.BinaryExpression{Op: op, Left: left, Right: right}
	e.Start, _ = left.Span()
	return e
}

var unaryOps = map[lexer.TokenType]ast.UnaryOp{
	lexer.PLUS: ast.UnaryPlus, lexer.MINUS: ast.UnaryMinus, lexer.NOT: ast.UnaryNot,
	lexer.BITNOT: ast.UnaryBitNot, lexer.TYPEOF: ast.UnaryTypeof,
	lexer.VOID: ast.UnaryVoid, lexer.DELETE: ast.UnaryDelete,
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	tok := p.cur.peek()
	if op, isUnary := unaryOps[tok.Type]; isUnary {
		p.cur.advance()
		arg := p.parseUnaryExpression()
		if !p.ok() {
			return nil
		}
		if op == ast.UnaryDelete && p.scope.strict {
			if _, bare := arg.(*ast.Identifier); bare {
				return p.failExpr("'delete' of an unqualified identifier is not allowed in strict mode")
			}
		}
		e := &ast.UnaryExpression{Op: op, Argument: arg}
		e.Start = tok.Start
		return e
	}
	if tok.Type == lexer.INC || tok.Type == lexer.DEC {
		p.cur.advance()
		arg := p.parseUnaryExpression()
		if !p.ok() {
			return nil
		}
		e := &ast.UpdateExpression{Op: tok.Literal, Prefix: true, Argument: arg}
		e.Start = tok.Start
		return e
	}
	if tok.Type == lexer.AWAIT && p.scope.inAsync {
		p.cur.advance()
		arg := p.parseUnaryExpression()
		if !p.ok() {
			return nil
		}
		e := &ast.AwaitExpression{Argument: arg}
		e.Start = tok.Start
		return e
	}
	return p.parsePostfixExpression()
}

// parsePostfixExpression handles `x++`/`x--`; the restricted production
// forbids a line terminator before the operator (§4.2).
func (p *Parser) parsePostfixExpression() ast.Expression {
	arg := p.parseLeftHandSideExpression()
	if !p.ok() {
		return arg
	}
	tok := p.cur.peek()
	if (tok.Type == lexer.INC || tok.Type == lexer.DEC) && !tok.PrecededByLineTerminator {
		p.cur.advance()
		e := &ast.UpdateExpression{Op: tok.Literal, Prefix: false, Argument: arg}
		e.Start, _ = arg.Span()
		return e
	}
	return arg
}
