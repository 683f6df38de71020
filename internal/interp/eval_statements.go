package interp

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/ast"
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
)

// execStatement dispatches on the AST statement tag: the visitor pattern
// collapses to a switch over the statement/expression node type.
func (it *Interpreter) execStatement(s ast.Statement, env *Environment, strict bool) (Completion, error) {
	switch n := s.(type) {
	case *ast.ExpressionStatement:
		v, err := it.evalExpression(n.Expression, env, strict)
		if err != nil {
			return Completion{}, err
		}
		return Completion{Kind: FlowNormal, Value: v}, nil

	case *ast.EmptyStatement, *ast.DebuggerStatement:
		return normal(), nil

	case *ast.BlockStatement:
		return it.execBlock(n.Body, NewEnclosed(env), strict)

	case *ast.VarDeclStatement:
		return it.execVarDecl(n, env, strict)

	case *ast.FunctionDecl:
		// Hoisted already; evaluating it again yields the function object,
		// matching §9's documented deviation for top-level declarations.
		v, _ := env.Get(n.Name)
		return Completion{Kind: FlowNormal, Value: v}, nil

	case *ast.ClassDeclaration:
		fn, err := it.evalClass(n.Name, n.SuperClass, n.Body, env, strict)
		if err != nil {
			return Completion{}, err
		}
		env.InitializeLexical(n.Name, fn)
		return Completion{Kind: FlowNormal, Value: fn}, nil

	case *ast.IfStatement:
		test, err := it.evalExpression(n.Test, env, strict)
		if err != nil {
			return Completion{}, err
		}
		if ToBoolean(test) {
			return it.execStatement(n.Consequent, env, strict)
		}
		if n.Alternate != nil {
			return it.execStatement(n.Alternate, env, strict)
		}
		return normal(), nil

	case *ast.WhileStatement:
		return it.execWhile(n, env, strict, "")

	case *ast.DoWhileStatement:
		return it.execDoWhile(n, env, strict, "")

	case *ast.ForStatement:
		return it.execFor(n, env, strict, "")

	case *ast.ForInStatement:
		return it.execForIn(n, env, strict, "")

	case *ast.ForOfStatement:
		return it.execForOf(n, env, strict, "")

	case *ast.SwitchStatement:
		return it.execSwitch(n, env, strict, "")

	case *ast.TryStatement:
		return it.execTry(n, env, strict)

	case *ast.ThrowStatement:
		v, err := it.evalExpression(n.Argument, env, strict)
		if err != nil {
			return Completion{}, err
		}
		return throwFlow(v), nil

	case *ast.ReturnStatement:
		var v Value = Undefined{}
		if n.Argument != nil {
			var err error
			v, err = it.evalExpression(n.Argument, env, strict)
			if err != nil {
				return Completion{}, err
			}
		}
		return returnFlow(v), nil

	case *ast.BreakStatement:
		return breakFlow(n.Label), nil

	case *ast.ContinueStatement:
		return continueFlow(n.Label), nil

	case *ast.LabeledStatement:
		return it.execLabeled(n, env, strict)

	case *ast.WithStatement:
		return it.execWith(n, env, strict)

	case *ast.ImportDeclaration, *ast.ExportNamedDeclaration, *ast.ExportDefaultDeclaration:
		return it.execModuleStatement(n, env, strict)

	default:
		return Completion{}, errors.SyntaxError(posOf(s), "unsupported statement node %T", s)
	}
}

// execBlock runs a statement list in env (already freshly enclosed by the
// caller for block scopes, or the function/global scope for a body),
// hoisting var/function/let/const/class bindings first.
func (it *Interpreter) execBlock(body []ast.Statement, env *Environment, strict bool) (Completion, error) {
	if err := it.hoistBlockBody(body, env, strict); err != nil {
		return Completion{}, err
	}
	for _, stmt := range body {
		comp, err := it.execStatement(stmt, env, strict)
		if err != nil {
			return Completion{}, err
		}
		if comp.isAbrupt() {
			return comp, nil
		}
	}
	return normal(), nil
}

// hoistBlockBody implements §4.3's "Scope construction" rule: `var` and
// function declarations are hoisted to the nearest function/global scope
// (functions also initialized immediately); `let`/`const`/`class` are
// pre-created in the TDZ at the block they textually belong to.
func (it *Interpreter) hoistBlockBody(body []ast.Statement, env *Environment, strict bool) error {
	for _, stmt := range body {
		switch n := stmt.(type) {
		case *ast.VarDeclStatement:
			for _, d := range n.Declarations {
				switch n.Kind {
				case ast.KindVar:
					hoistPatternNames(d.Target, func(name string) { env.DeclareVar(name, nil) })
				case ast.KindLet, ast.KindConst:
					hoistPatternNames(d.Target, func(name string) { env.DeclareLexical(name, n.Kind == ast.KindConst) })
				}
			}
		case *ast.FunctionDecl:
			fn := it.makeFunction(n.Name, n.Params, n.Body, env, strict, n.IsAsync, n.IsGen, false, ThisModeGlobal, nil)
			env.DeclareFunction(n.Name, fn)
		case *ast.ClassDeclaration:
			env.DeclareLexical(n.Name, false)
		case *ast.LabeledStatement:
			if err := it.hoistBlockBody([]ast.Statement{n.Body}, env, strict); err != nil {
				return err
			}
		}
		// var-hoisting also reaches through nested statements (if/for/while/
		// blocks/try) to the enclosing function scope; function/let/const/
		// class declarations do not (ECMA-262 only hoists `var`+function
		// names through nested non-function statements).
		hoistNestedVars(stmt, env)
	}
	return nil
}

// hoistNestedVars walks into nested statement positions (but not into
// nested function bodies) collecting `var` names for function-scope
// hoisting, matching ECMA-262's VarDeclaredNames.
func hoistNestedVars(s ast.Statement, env *Environment) {
	switch n := s.(type) {
	case *ast.BlockStatement:
		for _, st := range n.Body {
			hoistVarOnly(st, env)
		}
	case *ast.IfStatement:
		hoistVarOnly(n.Consequent, env)
		if n.Alternate != nil {
			hoistVarOnly(n.Alternate, env)
		}
	case *ast.WhileStatement:
		hoistVarOnly(n.Body, env)
	case *ast.DoWhileStatement:
		hoistVarOnly(n.Body, env)
	case *ast.ForStatement:
		if vd, ok := n.Init.(*ast.VarDeclStatement); ok && vd.Kind == ast.KindVar {
			for _, d := range vd.Declarations {
				hoistPatternNames(d.Target, func(name string) { env.DeclareVar(name, nil) })
			}
		}
		hoistVarOnly(n.Body, env)
	case *ast.ForInStatement:
		if vd, ok := n.Left.(*ast.VarDeclStatement); ok && vd.Kind == ast.KindVar {
			for _, d := range vd.Declarations {
				hoistPatternNames(d.Target, func(name string) { env.DeclareVar(name, nil) })
			}
		}
		hoistVarOnly(n.Body, env)
	case *ast.ForOfStatement:
		if vd, ok := n.Left.(*ast.VarDeclStatement); ok && vd.Kind == ast.KindVar {
			for _, d := range vd.Declarations {
				hoistPatternNames(d.Target, func(name string) { env.DeclareVar(name, nil) })
			}
		}
		hoistVarOnly(n.Body, env)
	case *ast.TryStatement:
		for _, st := range n.Block.Body {
			hoistVarOnly(st, env)
		}
		if n.Handler != nil {
			for _, st := range n.Handler.Body.Body {
				hoistVarOnly(st, env)
			}
		}
		if n.Finally != nil {
			for _, st := range n.Finally.Body {
				hoistVarOnly(st, env)
			}
		}
	case *ast.SwitchStatement:
		for _, c := range n.Cases {
			for _, st := range c.Consequent {
				hoistVarOnly(st, env)
			}
		}
	case *ast.LabeledStatement:
		hoistVarOnly(n.Body, env)
	case *ast.WithStatement:
		hoistVarOnly(n.Body, env)
	}
}

func hoistVarOnly(s ast.Statement, env *Environment) {
	if vd, ok := s.(*ast.VarDeclStatement); ok && vd.Kind == ast.KindVar {
		for _, d := range vd.Declarations {
			hoistPatternNames(d.Target, func(name string) { env.DeclareVar(name, nil) })
		}
		return
	}
	hoistNestedVars(s, env)
}

// hoistPatternNames walks a binding target (identifier or destructuring
// pattern) collecting every bound name.
func hoistPatternNames(target ast.Expression, declare func(name string)) {
	switch t := target.(type) {
	case *ast.Identifier:
		declare(t.Name)
	case *ast.ArrayPattern:
		for _, el := range t.Elements {
			if el == nil {
				continue
			}
			hoistPatternNames(el, declare)
		}
	case *ast.ObjectPattern:
		for _, p := range t.Properties {
			hoistPatternNames(p.Value, declare)
		}
		if t.Rest != nil {
			hoistPatternNames(t.Rest, declare)
		}
	case *ast.AssignmentPattern:
		hoistPatternNames(t.Target, declare)
	case *ast.RestElement:
		hoistPatternNames(t.Target, declare)
	}
}

func (it *Interpreter) execVarDecl(n *ast.VarDeclStatement, env *Environment, strict bool) (Completion, error) {
	for _, d := range n.Declarations {
		var v Value = Undefined{}
		if d.Init != nil {
			var err error
			v, err = it.evalExpression(d.Init, env, strict)
			if err != nil {
				return Completion{}, err
			}
			if id, ok := d.Target.(*ast.Identifier); ok {
				nameAnonymousFunction(v, id.Name)
			}
		} else if n.Kind == ast.KindConst {
			return Completion{}, errors.SyntaxError(posOf(n), "Missing initializer in const declaration")
		}
		switch n.Kind {
		case ast.KindVar:
			if d.Init != nil {
				if err := it.bindPattern(d.Target, v, env, strict, bindAssignVar); err != nil {
					return Completion{}, err
				}
			}
		case ast.KindLet, ast.KindConst:
			if err := it.bindPattern(d.Target, v, env, strict, bindInitLexical); err != nil {
				return Completion{}, err
			}
		}
	}
	return normal(), nil
}

// nameAnonymousFunction implements the `name` inference rule (e.g. `const f
// = () => {}` makes `f.name === "f"`) for the common case of a direct
// identifier binding target.
func nameAnonymousFunction(v Value, name string) {
	if o, ok := v.(*Object); ok && o.Class == ClassFunction && o.Fn != nil && o.Fn.Name == "" {
		o.Fn.Name = name
		o.SetOwn(StringKey("name"), String(name))
	}
}

func (it *Interpreter) execWhile(n *ast.WhileStatement, env *Environment, strict bool, label string) (Completion, error) {
	for {
		test, err := it.evalExpression(n.Test, env, strict)
		if err != nil {
			return Completion{}, err
		}
		if !ToBoolean(test) {
			return normal(), nil
		}
		comp, err := it.execStatement(n.Body, env, strict)
		if err != nil {
			return Completion{}, err
		}
		if stop, ret, rerr := handleLoopCompletion(comp, label); rerr != nil || stop {
			return ret, rerr
		}
	}
}

func (it *Interpreter) execDoWhile(n *ast.DoWhileStatement, env *Environment, strict bool, label string) (Completion, error) {
	for {
		comp, err := it.execStatement(n.Body, env, strict)
		if err != nil {
			return Completion{}, err
		}
		if stop, ret, rerr := handleLoopCompletion(comp, label); rerr != nil || stop {
			return ret, rerr
		}
		test, err := it.evalExpression(n.Test, env, strict)
		if err != nil {
			return Completion{}, err
		}
		if !ToBoolean(test) {
			return normal(), nil
		}
	}
}

func (it *Interpreter) execFor(n *ast.ForStatement, outer *Environment, strict bool, label string) (Completion, error) {
	env := NewEnclosed(outer)
	if vd, ok := n.Init.(*ast.VarDeclStatement); ok {
		if vd.Kind != ast.KindVar {
			for _, d := range vd.Declarations {
				hoistPatternNames(d.Target, func(name string) { env.DeclareLexical(name, vd.Kind == ast.KindConst) })
			}
		}
		if _, err := it.execVarDecl(vd, env, strict); err != nil {
			return Completion{}, err
		}
	} else if expr, ok := n.Init.(ast.Expression); ok && expr != nil {
		if _, err := it.evalExpression(expr, env, strict); err != nil {
			return Completion{}, err
		}
	}
	for {
		if n.Test != nil {
			test, err := it.evalExpression(n.Test, env, strict)
			if err != nil {
				return Completion{}, err
			}
			if !ToBoolean(test) {
				return normal(), nil
			}
		}
		// Each iteration gets a fresh copy of let-bound loop variables so
		// closures created inside the body capture per-iteration values.
		iterEnv := copyLexicalEnv(env, outer)
		comp, err := it.execStatement(n.Body, iterEnv, strict)
		if err != nil {
			return Completion{}, err
		}
		if stop, ret, rerr := handleLoopCompletion(comp, label); rerr != nil || stop {
			return ret, rerr
		}
		env = copyLexicalEnv(iterEnv, outer)
		if n.Update != nil {
			if _, err := it.evalExpression(n.Update, env, strict); err != nil {
				return Completion{}, err
			}
		}
	}
}

// copyLexicalEnv clones only-this-level let/const bindings into a fresh
// environment chained to outer, implementing the per-iteration binding copy
// `for (let i ...)` requires (§3 invariants: each loop iteration of a
// `let`-declared binding is a fresh binding).
func copyLexicalEnv(env, outer *Environment) *Environment {
	if env == outer {
		return env
	}
	return env.cloneInto(NewEnclosed(outer))
}

func (it *Interpreter) execForIn(n *ast.ForInStatement, outer *Environment, strict bool, label string) (Completion, error) {
	rightVal, err := it.evalExpression(n.Right, outer, strict)
	if err != nil {
		return Completion{}, err
	}
	obj, isObj := rightVal.(*Object)
	if !isObj {
		return normal(), nil
	}
	seen := make(map[string]bool)
	for cur := obj; cur != nil; cur = cur.Proto {
		for _, k := range cur.OwnKeys() {
			if k.Sym != nil {
				continue
			}
			mk := k.mapKey()
			if seen[mk] {
				continue
			}
			seen[mk] = true
			pd, ok := cur.GetOwn(k)
			if !ok || !pd.Enumerable {
				continue
			}
			iterEnv := NewEnclosed(outer)
			if err := it.bindForTarget(n.Left, String(k.Str), iterEnv, strict); err != nil {
				return Completion{}, err
			}
			comp, err := it.execStatement(n.Body, iterEnv, strict)
			if err != nil {
				return Completion{}, err
			}
			if stop, ret, rerr := handleLoopCompletion(comp, label); rerr != nil || stop {
				return ret, rerr
			}
		}
	}
	return normal(), nil
}

func (it *Interpreter) execForOf(n *ast.ForOfStatement, outer *Environment, strict bool, label string) (Completion, error) {
	rightVal, err := it.evalExpression(n.Right, outer, strict)
	if err != nil {
		return Completion{}, err
	}
	iter, err := it.getIterator(rightVal, n.IsAwait)
	if err != nil {
		return Completion{}, err
	}
	for {
		val, done, err := it.iteratorNext(iter, nil)
		if err != nil {
			return Completion{}, err
		}
		if n.IsAwait {
			val, err = it.evalAwait(val, outer)
			if err != nil {
				it.iteratorClose(iter)
				return Completion{}, err
			}
		}
		if done {
			return normal(), nil
		}
		iterEnv := NewEnclosed(outer)
		if err := it.bindForTarget(n.Left, val, iterEnv, strict); err != nil {
			it.iteratorClose(iter)
			return Completion{}, err
		}
		comp, err := it.execStatement(n.Body, iterEnv, strict)
		if err != nil {
			it.iteratorClose(iter)
			return Completion{}, err
		}
		if comp.Kind == FlowBreak && (comp.Label == "" || comp.Label == label) {
			it.iteratorClose(iter)
			return normal(), nil
		}
		if comp.Kind == FlowReturn || comp.Kind == FlowThrow {
			it.iteratorClose(iter)
			return comp, nil
		}
		if comp.Kind == FlowBreak || comp.Kind == FlowContinue {
			if comp.Label != "" && comp.Label != label {
				it.iteratorClose(iter)
				return comp, nil
			}
		}
	}
}

func (it *Interpreter) bindForTarget(left ast.Node, v Value, env *Environment, strict bool) error {
	switch l := left.(type) {
	case *ast.VarDeclStatement:
		d := l.Declarations[0]
		switch l.Kind {
		case ast.KindVar:
			return it.bindPattern(d.Target, v, env, strict, bindAssignVar)
		default:
			hoistPatternNames(d.Target, func(name string) { env.DeclareLexical(name, l.Kind == ast.KindConst) })
			return it.bindPattern(d.Target, v, env, strict, bindInitLexical)
		}
	case ast.Expression:
		return it.assignToTarget(l, v, env, strict)
	}
	return errors.SyntaxError(nil, "invalid for-in/of left-hand side")
}

// handleLoopCompletion applies break/continue label matching for the three
// classic loop forms, returning (stop, completionToPropagate, err).
func handleLoopCompletion(comp Completion, label string) (bool, Completion, error) {
	switch comp.Kind {
	case FlowBreak:
		if comp.Label == "" || comp.Label == label {
			return true, normal(), nil
		}
		return true, comp, nil
	case FlowContinue:
		if comp.Label == "" || comp.Label == label {
			return false, Completion{}, nil
		}
		return true, comp, nil
	case FlowReturn, FlowThrow:
		return true, comp, nil
	}
	return false, Completion{}, nil
}

func (it *Interpreter) execSwitch(n *ast.SwitchStatement, outer *Environment, strict bool, label string) (Completion, error) {
	disc, err := it.evalExpression(n.Discriminant, outer, strict)
	if err != nil {
		return Completion{}, err
	}
	env := NewEnclosed(outer)
	for _, c := range n.Cases {
		for _, st := range c.Consequent {
			hoistNestedVars(st, env)
		}
	}
	matchIdx := -1
	for i, c := range n.Cases {
		if c.Test == nil {
			continue
		}
		tv, err := it.evalExpression(c.Test, env, strict)
		if err != nil {
			return Completion{}, err
		}
		if StrictEquals(disc, tv) {
			matchIdx = i
			break
		}
	}
	if matchIdx == -1 {
		for i, c := range n.Cases {
			if c.Test == nil {
				matchIdx = i
				break
			}
		}
	}
	if matchIdx == -1 {
		return normal(), nil
	}
	for i := matchIdx; i < len(n.Cases); i++ {
		for _, st := range n.Cases[i].Consequent {
			comp, err := it.execStatement(st, env, strict)
			if err != nil {
				return Completion{}, err
			}
			if comp.Kind == FlowBreak && (comp.Label == "" || comp.Label == label) {
				return normal(), nil
			}
			if comp.isAbrupt() {
				return comp, nil
			}
		}
	}
	return normal(), nil
}

func (it *Interpreter) execTry(n *ast.TryStatement, env *Environment, strict bool) (Completion, error) {
	comp, resultErr := it.execBlock(n.Block.Body, NewEnclosed(env), strict)
	if resultErr != nil {
		// A RuntimeError (TypeError/ReferenceError/... raised by an internal
		// check rather than a `throw` statement) still needs to be
		// catchable, so it's boxed into a throw completion here rather than
		// propagated as a bare Go error.
		if n.Handler == nil {
			comp, resultErr = Completion{}, resultErr
		} else {
			comp, resultErr = throwFlow(it.errorValueFromGo(resultErr)), nil
		}
	}

	if resultErr == nil && comp.Kind == FlowThrow && n.Handler != nil {
		catchEnv := NewEnclosed(env)
		if n.Handler.Param != nil {
			if berr := it.bindPattern(n.Handler.Param, comp.Value, catchEnv, strict, bindInitLexical); berr != nil {
				comp, resultErr = throwFlow(it.errorValueFromGo(berr)), nil
			} else {
				comp, resultErr = it.execBlock(n.Handler.Body.Body, catchEnv, strict)
			}
		} else {
			comp, resultErr = it.execBlock(n.Handler.Body.Body, catchEnv, strict)
		}
	}

	if n.Finally != nil {
		finComp, ferr := it.execBlock(n.Finally.Body, NewEnclosed(env), strict)
		if ferr != nil {
			return Completion{}, ferr
		}
		if finComp.isAbrupt() {
			return finComp, nil
		}
	}
	return comp, resultErr
}

func (it *Interpreter) execLabeled(n *ast.LabeledStatement, env *Environment, strict bool) (Completion, error) {
	var comp Completion
	var err error
	switch body := n.Body.(type) {
	case *ast.ForStatement:
		comp, err = it.execFor(body, env, strict, n.Label)
	case *ast.ForInStatement:
		comp, err = it.execForIn(body, env, strict, n.Label)
	case *ast.ForOfStatement:
		comp, err = it.execForOf(body, env, strict, n.Label)
	case *ast.WhileStatement:
		comp, err = it.execWhile(body, env, strict, n.Label)
	case *ast.DoWhileStatement:
		comp, err = it.execDoWhile(body, env, strict, n.Label)
	case *ast.SwitchStatement:
		comp, err = it.execSwitch(body, env, strict, n.Label)
	default:
		comp, err = it.execStatement(n.Body, env, strict)
	}
	if err != nil {
		return Completion{}, err
	}
	if comp.Kind == FlowBreak && comp.Label == n.Label {
		return normal(), nil
	}
	return comp, nil
}

// execWith is explicitly rejected in strict mode by the parser (§4.2); at
// runtime it builds a block scope holding a snapshot of Object's own
// string-keyed properties, so those names shadow outer bindings inside the
// body; assignments to them update the snapshot, not Object. A deliberately
// narrow implementation since `with` is legacy and excluded from
// strict-mode code entirely.
func (it *Interpreter) execWith(n *ast.WithStatement, env *Environment, strict bool) (Completion, error) {
	objVal, err := it.evalExpression(n.Object, env, strict)
	if err != nil {
		return Completion{}, err
	}
	obj, err := it.toObjectForRef(objVal, posOf(n))
	if err != nil {
		return Completion{}, err
	}
	withEnv := NewEnclosed(env)
	for _, k := range obj.OwnKeys() {
		if k.Sym != nil {
			continue
		}
		withEnv.store[k.Str] = &binding{value: obj.Get(k, obj), kind: bindingVar}
	}
	return it.execStatement(n.Body, withEnv, strict)
}
