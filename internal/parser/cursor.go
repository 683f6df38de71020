package parser

import "github.com/kodjodevf/js-interpreter-sub002/internal/lexer"

// cursor buffers every token the lexer has ever produced and walks it with a
// read index, which makes arbitrary-depth backtracking (mark/reset) cheap:
// no token is ever lexed twice. This is what the arrow-function cover
// grammar needs (§4.2): speculatively parse a parenthesized expression,
// discover `=>` follows, and reparse the same span as a parameter list.
type cursor struct {
	lex *lexer.Lexer
	buf []lexer.Token
	pos int
}

func newCursor(l *lexer.Lexer) *cursor {
	return &cursor{lex: l}
}

func (c *cursor) fill(n int) {
	for len(c.buf) <= n {
		c.buf = append(c.buf, c.lex.NextToken())
	}
}

func (c *cursor) peek() lexer.Token {
	c.fill(c.pos)
	return c.buf[c.pos]
}

func (c *cursor) peekAt(n int) lexer.Token {
	c.fill(c.pos + n)
	return c.buf[c.pos+n]
}

func (c *cursor) advance() lexer.Token {
	c.fill(c.pos)
	tok := c.buf[c.pos]
	c.pos++
	return tok
}

// mark returns a position that reset can later rewind to.
func (c *cursor) mark() int { return c.pos }

// reset rewinds the read position without discarding buffered tokens.
func (c *cursor) reset(m int) { c.pos = m }
