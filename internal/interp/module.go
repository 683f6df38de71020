package interp

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/ast"
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/parser"
)

// Module loading backs §4.5/§6's import/export scope item. Grounded on the
// same synchronous, single-goroutine evaluation the rest of the tree-walker
// uses: a module's body runs to completion (hoisting, then statement list)
// the same way EvalProgram runs a script, just against a module-private
// environment chained off Global instead of Global itself, with an exports
// namespace object collected alongside.

// resolveModuleID rewrites spec into a loader-understood module id via the
// host's ModuleResolver, falling back to using spec verbatim when no
// resolver was configured (the common case: a host embedding this
// interpreter with a flat, already-resolved module namespace).
func (it *Interpreter) resolveModuleID(spec, importer string) (string, error) {
	if it.ModuleResolver == nil {
		return spec, nil
	}
	return it.ModuleResolver(spec, importer)
}

// loadModule fetches, parses, and evaluates the module identified by
// moduleID (memoizing the result in it.modules), returning its exports
// namespace object. A module is entered in the memo table before its body
// runs so a circular import sees the in-progress (possibly partially
// populated) namespace rather than recursing forever.
func (it *Interpreter) loadModule(moduleID string) (*Object, error) {
	if ns, ok := it.modules[moduleID]; ok {
		return ns, nil
	}
	if it.ModuleLoader == nil {
		return nil, errors.TypeError(nil, "no module loader configured for import %q", moduleID)
	}
	src, err := it.ModuleLoader(moduleID)
	if err != nil {
		return nil, errors.TypeError(nil, "failed to load module %q: %v", moduleID, err)
	}
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}

	exports := NewObject(it.ObjectProto)
	it.modules[moduleID] = exports

	env := NewEnclosed(it.Global)
	strict := prog.UseStrict
	prevModule := it.currentModuleID
	it.currentModuleID = moduleID
	defer func() { it.currentModuleID = prevModule }()

	if err := it.hoistBlockBody(prog.Body, env, strict); err != nil {
		delete(it.modules, moduleID)
		return nil, err
	}
	for _, stmt := range prog.Body {
		comp, err := it.execModuleBodyStatement(stmt, env, strict, exports)
		if err != nil {
			delete(it.modules, moduleID)
			return nil, err
		}
		if comp.Kind == FlowThrow {
			delete(it.modules, moduleID)
			return nil, it.completionToError(comp)
		}
	}
	return exports, nil
}

// execModuleBodyStatement runs one top-level module statement, additionally
// collecting export bindings into exports as export declarations are
// encountered.
func (it *Interpreter) execModuleBodyStatement(stmt ast.Statement, env *Environment, strict bool, exports *Object) (Completion, error) {
	switch n := stmt.(type) {
	case *ast.ExportNamedDeclaration:
		return it.execExportNamed(n, env, strict, exports)
	case *ast.ExportDefaultDeclaration:
		return it.execExportDefault(n, env, strict, exports)
	case *ast.ImportDeclaration:
		return it.execImportDeclaration(n, env, strict)
	default:
		return it.execStatement(stmt, env, strict)
	}
}

// execModuleStatement handles import/export statements reached through the
// normal execStatement dispatch (e.g. a nested module-body statement that
// isn't the direct top-level list loadModule already special-cases, or a
// host calling RunProgram directly on source containing module syntax).
// Import bindings land in env; export bindings with no enclosing exports
// namespace (a script, not a module load) are simply evaluated for their
// side effects.
func (it *Interpreter) execModuleStatement(s ast.Statement, env *Environment, strict bool) (Completion, error) {
	switch n := s.(type) {
	case *ast.ImportDeclaration:
		return it.execImportDeclaration(n, env, strict)
	case *ast.ExportNamedDeclaration:
		return it.execExportNamed(n, env, strict, nil)
	case *ast.ExportDefaultDeclaration:
		return it.execExportDefault(n, env, strict, nil)
	default:
		return Completion{}, errors.SyntaxError(posOf(s), "unsupported module statement node %T", s)
	}
}

func (it *Interpreter) execImportDeclaration(n *ast.ImportDeclaration, env *Environment, strict bool) (Completion, error) {
	moduleID, err := it.resolveModuleID(n.Source, it.currentModuleID)
	if err != nil {
		return Completion{}, errors.TypeError(posOf(n), "%v", err)
	}
	ns, err := it.loadModule(moduleID)
	if err != nil {
		return Completion{}, err
	}
	for _, spec := range n.Specifiers {
		var v Value
		switch spec.Imported {
		case "*":
			v = ns
		default:
			v = ns.Get(StringKey(spec.Imported), ns)
		}
		env.DeclareLexical(spec.Local, true)
		env.InitializeLexical(spec.Local, v)
	}
	return normal(), nil
}

func (it *Interpreter) execExportNamed(n *ast.ExportNamedDeclaration, env *Environment, strict bool, exports *Object) (Completion, error) {
	if n.Declaration != nil {
		comp, err := it.execStatement(n.Declaration, env, strict)
		if err != nil || comp.isAbrupt() {
			return comp, err
		}
		if exports != nil {
			for _, name := range declaredNames(n.Declaration) {
				v, _ := env.Get(name)
				exports.SetOwn(StringKey(name), v)
			}
		}
		return normal(), nil
	}
	if exports != nil {
		for _, spec := range n.Specifiers {
			v, err := env.Get(spec.Local)
			if err != nil {
				return Completion{}, err
			}
			exports.SetOwn(StringKey(spec.Exported), v)
		}
	}
	return normal(), nil
}

func (it *Interpreter) execExportDefault(n *ast.ExportDefaultDeclaration, env *Environment, strict bool, exports *Object) (Completion, error) {
	var v Value
	switch decl := n.Declaration.(type) {
	case *ast.FunctionDecl:
		fn := it.makeFunction(decl.Name, decl.Params, decl.Body, env, strict, decl.IsAsync, decl.IsGen, false, ThisModeGlobal, nil)
		if decl.Name != "" {
			env.DeclareLexical(decl.Name, false)
			env.InitializeLexical(decl.Name, fn)
		}
		v = fn
	case *ast.ClassDeclaration:
		fn, err := it.evalClass(decl.Name, decl.SuperClass, decl.Body, env, strict)
		if err != nil {
			return Completion{}, err
		}
		if decl.Name != "" {
			env.DeclareLexical(decl.Name, false)
			env.InitializeLexical(decl.Name, fn)
		}
		v = fn
	case ast.Expression:
		var err error
		v, err = it.evalExpression(decl, env, strict)
		if err != nil {
			return Completion{}, err
		}
	default:
		return Completion{}, errors.SyntaxError(posOf(n), "unsupported export default node %T", n.Declaration)
	}
	if exports != nil {
		exports.SetOwn(StringKey("default"), v)
	}
	return normal(), nil
}

// declaredNames collects the binding names introduced by an
// `export <declaration>` form, so the same names can be copied onto the
// exports namespace after the declaration runs.
func declaredNames(s ast.Statement) []string {
	var names []string
	switch n := s.(type) {
	case *ast.VarDeclStatement:
		for _, d := range n.Declarations {
			hoistPatternNames(d.Target, func(name string) { names = append(names, name) })
		}
	case *ast.FunctionDecl:
		names = append(names, n.Name)
	case *ast.ClassDeclaration:
		names = append(names, n.Name)
	}
	return names
}

// evalDynamicImport implements the `import(specifier)` expression: the
// specifier is resolved and loaded eagerly (this interpreter has no
// asynchronous I/O of its own — the host's ModuleLoader is a synchronous
// function), then the settlement is still deferred to a microtask so script
// observing the returned promise always sees it pending at first, matching
// real engines never resolving a dynamic import synchronously.
func (it *Interpreter) evalDynamicImport(n *ast.ImportExpression, env *Environment, strict bool) (Value, error) {
	specVal, err := it.evalExpression(n.Argument, env, strict)
	if err != nil {
		return nil, err
	}
	spec := ToStringValue(specVal)
	cap := it.newPromiseCapability()
	importer := it.currentModuleID
	it.EnqueueMicrotask(func() {
		moduleID, err := it.resolveModuleID(spec, importer)
		if err != nil {
			cap.Reject(it.errorValueFromGo(err))
			return
		}
		ns, err := it.loadModule(moduleID)
		if err != nil {
			cap.Reject(it.errorValueFromGo(err))
			return
		}
		cap.Resolve(ns)
	})
	return cap.Promise, nil
}
