package parser_test

import (
	"testing"

	"github.com/kodjodevf/js-interpreter-sub002/internal/ast"
	"github.com/kodjodevf/js-interpreter-sub002/internal/parser"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return prog
}

func TestParse_ASIInsertsAfterReturn(t *testing.T) {
	// A line terminator right after `return` forces ASI, so the function
	// returns undefined rather than the following expression (§4.2
	// restricted production).
	prog := mustParse(t, "function f() {\n  return\n  1\n}")
	fn, ok := prog.Body[0].(*ast.FunctionDecl)
	if !ok {
		t.Fatalf("Body[0] = %T, want *ast.FunctionDecl", prog.Body[0])
	}
	ret, ok := fn.Body.Body[0].(*ast.ReturnStatement)
	if !ok {
		t.Fatalf("fn body[0] = %T, want *ast.ReturnStatement", fn.Body.Body[0])
	}
	if ret.Argument != nil {
		t.Errorf("expected ASI to force a bare return, got Argument = %#v", ret.Argument)
	}
}

func TestParse_BreakThenIncrementIsTwoStatements(t *testing.T) {
	// `break\nx++` must parse as a BreakStatement followed by a separate
	// ExpressionStatement, not `break x++` (which isn't valid syntax).
	prog := mustParse(t, "while (true) {\n  break\n  x++\n}")
	ws := prog.Body[0].(*ast.WhileStatement)
	block := ws.Body.(*ast.BlockStatement)
	if len(block.Body) != 2 {
		t.Fatalf("expected 2 statements inside the loop body, got %d", len(block.Body))
	}
	if _, ok := block.Body[0].(*ast.BreakStatement); !ok {
		t.Errorf("body[0] = %T, want *ast.BreakStatement", block.Body[0])
	}
	if _, ok := block.Body[1].(*ast.ExpressionStatement); !ok {
		t.Errorf("body[1] = %T, want *ast.ExpressionStatement", block.Body[1])
	}
}

func TestParse_PrecedenceLadder(t *testing.T) {
	// `a + b * c` must bind as `a + (b * c)`, not `(a + b) * c`.
	prog := mustParse(t, "a + b * c;")
	es := prog.Body[0].(*ast.ExpressionStatement)
	add, ok := es.Expression.(*ast.BinaryExpression)
	if !ok || add.Op != "+" {
		t.Fatalf("top-level expression = %#v, want BinaryExpression{Op: \"+\"}", es.Expression)
	}
	mul, ok := add.Right.(*ast.BinaryExpression)
	if !ok || mul.Op != "*" {
		t.Fatalf("right operand = %#v, want BinaryExpression{Op: \"*\"}", add.Right)
	}
}

func TestParse_ArrowFunctionCoverGrammar(t *testing.T) {
	// `(a, b) => a + b` must be recognized as an arrow function even though
	// `(a, b)` alone would otherwise parse as a parenthesized comma
	// expression; this is the cover-grammar backtrack the cursor exists for.
	prog := mustParse(t, "(a, b) => a + b;")
	es := prog.Body[0].(*ast.ExpressionStatement)
	arrow, ok := es.Expression.(*ast.ArrowFunctionExpression)
	if !ok {
		t.Fatalf("expression = %T, want *ast.ArrowFunctionExpression", es.Expression)
	}
	if len(arrow.Params) != 2 {
		t.Fatalf("expected 2 params, got %d", len(arrow.Params))
	}
	if _, ok := arrow.Body.(ast.Expression); !ok {
		t.Errorf("expected a concise (expression) body, got %T", arrow.Body)
	}
}

func TestParse_SingleParamArrowNeedsNoParens(t *testing.T) {
	prog := mustParse(t, "x => x * 2;")
	es := prog.Body[0].(*ast.ExpressionStatement)
	arrow, ok := es.Expression.(*ast.ArrowFunctionExpression)
	if !ok {
		t.Fatalf("expression = %T, want *ast.ArrowFunctionExpression", es.Expression)
	}
	if len(arrow.Params) != 1 {
		t.Fatalf("expected 1 param, got %d", len(arrow.Params))
	}
}

func TestParse_DestructuringArrayPattern(t *testing.T) {
	prog := mustParse(t, "var [a, , b, ...rest] = xs;")
	decl := prog.Body[0].(*ast.VarDeclStatement)
	pat, ok := decl.Declarations[0].Target.(*ast.ArrayPattern)
	if !ok {
		t.Fatalf("target = %T, want *ast.ArrayPattern", decl.Declarations[0].Target)
	}
	if len(pat.Elements) != 4 {
		t.Fatalf("expected 4 pattern slots (incl. the elision), got %d", len(pat.Elements))
	}
	if pat.Elements[1] != nil {
		t.Errorf("expected the middle slot to be an elision (nil), got %#v", pat.Elements[1])
	}
	if _, ok := pat.Elements[3].(*ast.RestElement); !ok {
		t.Errorf("expected the last slot to be a *ast.RestElement, got %T", pat.Elements[3])
	}
}

func TestParse_DestructuringObjectPatternWithDefault(t *testing.T) {
	prog := mustParse(t, "var {a, b: c = 1} = obj;")
	decl := prog.Body[0].(*ast.VarDeclStatement)
	pat, ok := decl.Declarations[0].Target.(*ast.ObjectPattern)
	if !ok {
		t.Fatalf("target = %T, want *ast.ObjectPattern", decl.Declarations[0].Target)
	}
	if len(pat.Properties) != 2 {
		t.Fatalf("expected 2 pattern properties, got %d", len(pat.Properties))
	}
	if _, ok := pat.Properties[1].Value.(*ast.AssignmentPattern); !ok {
		t.Errorf("expected the second property's value to carry a default, got %T", pat.Properties[1].Value)
	}
}

func TestParse_ClassWithMethodsAndFields(t *testing.T) {
	src := `class Point {
		x = 0;
		static origin = null;
		constructor(x, y) { this.x = x; this.y = y; }
		get magnitude() { return this.x; }
	}`
	prog := mustParse(t, src)
	cd, ok := prog.Body[0].(*ast.ClassDeclaration)
	if !ok {
		t.Fatalf("Body[0] = %T, want *ast.ClassDeclaration", prog.Body[0])
	}
	if len(cd.Body.Members) != 4 {
		t.Fatalf("expected 4 class members, got %d", len(cd.Body.Members))
	}
}

func TestParse_OptionalChainingShortCircuits(t *testing.T) {
	prog := mustParse(t, "a?.b.c;")
	es := prog.Body[0].(*ast.ExpressionStatement)
	outer, ok := es.Expression.(*ast.MemberExpression)
	if !ok {
		t.Fatalf("expression = %T, want *ast.MemberExpression", es.Expression)
	}
	inner, ok := outer.Object.(*ast.MemberExpression)
	if !ok {
		t.Fatalf("outer.Object = %T, want *ast.MemberExpression", outer.Object)
	}
	if !inner.Optional {
		t.Error("expected the `?.` member access to be marked Optional")
	}
}

func TestParse_TemplateLiteralWithSubstitution(t *testing.T) {
	prog := mustParse(t, "`a${1 + 2}b`;")
	es := prog.Body[0].(*ast.ExpressionStatement)
	tpl, ok := es.Expression.(*ast.TemplateLiteral)
	if !ok {
		t.Fatalf("expression = %T, want *ast.TemplateLiteral", es.Expression)
	}
	if len(tpl.Expressions) != 1 {
		t.Fatalf("expected 1 substitution, got %d", len(tpl.Expressions))
	}
}

func TestParse_UnterminatedStringIsAnError(t *testing.T) {
	if _, err := parser.Parse(`"abc`); err == nil {
		t.Error("expected an error for an unterminated string literal")
	}
}

func TestParse_MissingClosingParenIsAnError(t *testing.T) {
	if _, err := parser.Parse("(1 + 2;"); err == nil {
		t.Error("expected an error for a missing closing paren")
	}
}
