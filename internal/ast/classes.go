package ast

// ClassMember is one method, accessor, field, or static block in a class
// body.
type ClassMember struct {
	base
	Key           Expression
	Value         Expression // *FunctionExpression for methods; field initializer otherwise
	Kind          PropertyKind // PropInit (field), PropMethod, PropGet, PropSet
	Static        bool
	Computed      bool
	IsAsync       bool
	IsGen         bool
	IsField       bool
	IsStaticBlock bool // `static { ... }`; Value is a zero-arg *FunctionExpression
}

// ClassBody is the `{ ... }` of a class declaration/expression.
type ClassBody struct {
	base
	Members []*ClassMember
}

// ClassDeclaration is `class Name [extends Super] { ... }` (§4.3 Classes).
type ClassDeclaration struct {
	base
	Name       string
	SuperClass Expression // nil if no extends
	Body       *ClassBody
}

func (*ClassDeclaration) stmt() {}
func (*ClassDeclaration) expr() {} // a class declaration also evaluates to its constructor

// ClassExpression is a class used as an expression; Name may be "".
type ClassExpression struct {
	base
	Name       string
	SuperClass Expression
	Body       *ClassBody
}

func (*ClassExpression) expr() {}
