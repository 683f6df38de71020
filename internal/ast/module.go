package ast

// ImportSpecifier binds one imported name into the local scope.
type ImportSpecifier struct {
	base
	Imported string // source-module export name ("default" for default import, "*" for namespace)
	Local    string
}

// ImportDeclaration is `import ... from "spec";`.
type ImportDeclaration struct {
	base
	Specifiers []*ImportSpecifier
	Source     string
}

func (*ImportDeclaration) stmt() {}

// ExportSpecifier is one `name [as alias]` entry of `export { ... }`.
type ExportSpecifier struct {
	base
	Local    string
	Exported string
}

// ExportNamedDeclaration is `export { a, b as c };` or `export const x = 1;`.
type ExportNamedDeclaration struct {
	base
	Declaration Statement // nil when Specifiers is used instead
	Specifiers  []*ExportSpecifier
}

func (*ExportNamedDeclaration) stmt() {}

// ExportDefaultDeclaration is `export default expr_or_decl;`.
type ExportDefaultDeclaration struct {
	base
	Declaration Node // Expression | *FunctionDecl | *ClassDeclaration
}

func (*ExportDefaultDeclaration) stmt() {}
