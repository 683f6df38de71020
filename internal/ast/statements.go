package ast

// ExpressionStatement wraps a bare expression used as a statement.
type ExpressionStatement struct {
	base
	Expression Expression
}

func (*ExpressionStatement) stmt() {}

// BlockStatement introduces a new lexical scope (§4.3 Block).
type BlockStatement struct {
	base
	Body []Statement
}

func (*BlockStatement) stmt() {}

// EmptyStatement is a bare `;`.
type EmptyStatement struct{ base }

func (*EmptyStatement) stmt() {}

// DebuggerStatement is the `debugger;` statement (a no-op for this host).
type DebuggerStatement struct{ base }

func (*DebuggerStatement) stmt() {}

// VarKind distinguishes var/let/const declaration scoping.
type VarKind int

const (
	KindVar VarKind = iota
	KindLet
	KindConst
)

// Declarator is one `name = init` (or pattern = init) clause of a declaration.
type Declarator struct {
	base
	Target Expression // Identifier or a binding pattern
	Init   Expression // nil if omitted
}

// VarDeclStatement is a var/let/const declaration, possibly hoisted.
type VarDeclStatement struct {
	base
	Kind         VarKind
	Declarations []*Declarator
}

func (*VarDeclStatement) stmt() {}

// IfStatement is `if (test) consequent else alternate`.
type IfStatement struct {
	base
	Test       Expression
	Consequent Statement
	Alternate  Statement // nil if no else
}

func (*IfStatement) stmt() {}

// WhileStatement is `while (test) body`.
type WhileStatement struct {
	base
	Test Expression
	Body Statement
}

func (*WhileStatement) stmt() {}

// DoWhileStatement is `do body while (test);`.
type DoWhileStatement struct {
	base
	Body Statement
	Test Expression
}

func (*DoWhileStatement) stmt() {}

// ForStatement is the classic three-clause for loop; Init may be a
// VarDeclStatement or an expression statement or nil.
type ForStatement struct {
	base
	Init   Node // *VarDeclStatement | Expression | nil
	Test   Expression
	Update Expression
	Body   Statement
}

func (*ForStatement) stmt() {}

// ForInStatement is `for (left in right) body`.
type ForInStatement struct {
	base
	Left  Node // *VarDeclStatement (single declarator) | Expression (pattern)
	Right Expression
	Body  Statement
}

func (*ForInStatement) stmt() {}

// ForOfStatement is `for [await] (left of right) body`.
type ForOfStatement struct {
	base
	Left    Node
	Right   Expression
	Body    Statement
	IsAwait bool
}

func (*ForOfStatement) stmt() {}

// SwitchCase is one `case test:`/`default:` clause.
type SwitchCase struct {
	base
	Test       Expression // nil for default
	Consequent []Statement
}

// SwitchStatement is `switch (disc) { case ...: ... }`.
type SwitchStatement struct {
	base
	Discriminant Expression
	Cases        []*SwitchCase
}

func (*SwitchStatement) stmt() {}

// CatchClause is the `catch (param) body` part of a TryStatement; Param may
// be nil for the ES2019 optional-catch-binding form.
type CatchClause struct {
	base
	Param Expression // Identifier or pattern, possibly nil
	Body  *BlockStatement
}

// TryStatement is `try block [catch] [finally]`.
type TryStatement struct {
	base
	Block   *BlockStatement
	Handler *CatchClause // nil if no catch
	Finally *BlockStatement
}

func (*TryStatement) stmt() {}

// ThrowStatement is `throw expr;`.
type ThrowStatement struct {
	base
	Argument Expression
}

func (*ThrowStatement) stmt() {}

// ReturnStatement is `return [expr];`.
type ReturnStatement struct {
	base
	Argument Expression // nil if bare return
}

func (*ReturnStatement) stmt() {}

// BreakStatement is `break [label];`.
type BreakStatement struct {
	base
	Label string // "" if unlabeled
}

func (*BreakStatement) stmt() {}

// ContinueStatement is `continue [label];`.
type ContinueStatement struct {
	base
	Label string
}

func (*ContinueStatement) stmt() {}

// LabeledStatement is `label: body`.
type LabeledStatement struct {
	base
	Label string
	Body  Statement
}

func (*LabeledStatement) stmt() {}

// WithStatement is `with (object) body` (strict mode forbids it — §4.2).
type WithStatement struct {
	base
	Object Expression
	Body   Statement
}

func (*WithStatement) stmt() {}

// FunctionDecl is a hoisted named function declaration.
type FunctionDecl struct {
	base
	Name      string
	Params    []*Param
	Body      *BlockStatement
	IsAsync   bool
	IsGen     bool
}

func (*FunctionDecl) stmt() {}
func (*FunctionDecl) expr() {} // evaluated at top level, a function decl yields its Function object
