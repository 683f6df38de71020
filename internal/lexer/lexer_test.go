package lexer_test

import (
	"testing"

	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
)

func tokens(src string) []lexer.Token {
	l := lexer.New(src)
	var toks []lexer.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == lexer.EOF {
			break
		}
	}
	return toks
}

func TestLexer_RegexVsDivision(t *testing.T) {
	// After an identifier, `/` starts a division.
	toks := tokens(`a / b`)
	if toks[1].Type != lexer.SLASH {
		t.Fatalf("expected SLASH after identifier, got %v", toks[1].Type)
	}

	// At the start of an expression (after `=`), `/` starts a regex literal.
	toks = tokens(`var r = /abc/g;`)
	foundRegex := false
	for _, tok := range toks {
		if tok.Type == lexer.REGEX {
			foundRegex = true
			if tok.Literal != "/abc/g" {
				t.Errorf("regex literal = %q, want \"/abc/g\"", tok.Literal)
			}
		}
	}
	if !foundRegex {
		t.Fatal("expected a REGEX token")
	}

	// After `)`, `/` is division (e.g. closing an if-condition then dividing).
	toks = tokens(`(a) / b`)
	sawSlash := false
	for _, tok := range toks {
		if tok.Type == lexer.SLASH {
			sawSlash = true
		}
		if tok.Type == lexer.REGEX {
			t.Fatal("expected division after ')', got a regex token")
		}
	}
	if !sawSlash {
		t.Fatal("expected a SLASH token")
	}
}

func TestLexer_PrecededByLineTerminator(t *testing.T) {
	toks := tokens("a\nb")
	// toks[0]=IDENT a, toks[1]=IDENT b, toks[2]=EOF
	if toks[1].PrecededByLineTerminator != true {
		t.Errorf("expected second identifier to be preceded by a line terminator")
	}
	toks = tokens("a b")
	if toks[1].PrecededByLineTerminator != false {
		t.Errorf("expected second identifier to not be preceded by a line terminator")
	}
}

func TestLexer_TemplateLiteralSubstitution(t *testing.T) {
	toks := tokens("`a${1+2}b`")
	var kinds []lexer.TokenType
	for _, tok := range toks {
		kinds = append(kinds, tok.Type)
	}
	wantFirst := lexer.TEMPLATE_HEAD
	if kinds[0] != wantFirst {
		t.Fatalf("first token = %v, want TEMPLATE_HEAD", kinds[0])
	}
	foundTail := false
	for _, k := range kinds {
		if k == lexer.TEMPLATE_TAIL {
			foundTail = true
		}
	}
	if !foundTail {
		t.Fatal("expected a TEMPLATE_TAIL token closing the substitution")
	}
}

func TestLexer_TemplateNestedSubstitution(t *testing.T) {
	// `${ {a: 1} }` — an object literal inside a substitution must not
	// confuse the lexer's brace-depth tracking for the template's own `}`.
	toks := tokens("`x${ {a:1}.a }y`")
	foundTail := false
	for _, tok := range toks {
		if tok.Type == lexer.TEMPLATE_TAIL {
			foundTail = true
		}
	}
	if !foundTail {
		t.Fatal("expected nested braces inside a substitution not to terminate the template early")
	}
}

func TestLexer_LegacyOctal(t *testing.T) {
	toks := tokens("010")
	if toks[0].Type != lexer.NUMBER {
		t.Fatalf("expected NUMBER, got %v", toks[0].Type)
	}
	if !toks[0].OctalLegacy {
		t.Error("expected OctalLegacy to be set for a legacy octal literal")
	}
}

func TestLexer_UnterminatedStringIsError(t *testing.T) {
	l := lexer.New(`"abc`)
	for {
		tok := l.NextToken()
		if tok.Type == lexer.EOF {
			break
		}
	}
	if len(l.Errors()) == 0 {
		t.Error("expected an unterminated string to produce a lex error")
	}
}
