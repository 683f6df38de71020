package interp

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/ast"
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
)

// funcBody is the user-function payload stashed in FunctionData.Node: either
// a block body (statement function) or a bare expression (arrow concise
// body), plus the formal parameter list both share.
type funcBody struct {
	params []*ast.Param
	block  *ast.BlockStatement
	expr   ast.Expression
}

// CallFunctionObject is the package-level hook Object.Get/setOnPrototypeChainAware
// use to invoke an accessor's getter/setter, where no *Interpreter receiver is
// available. A getter/setter that throws yields undefined here rather than
// propagating, a deliberate simplification.
func CallFunctionObject(fn *Object, this Value, args []Value) Value {
	if currentInterp == nil || fn == nil {
		return Undefined{}
	}
	v, err := currentInterp.callFunction(fn, this, args)
	if err != nil {
		return Undefined{}
	}
	return v
}

func (it *Interpreter) callFunction(fn *Object, this Value, args []Value) (Value, error) {
	return it.invoke(fn, this, args, nil)
}

// makeFunction builds a user-defined function object for a declaration,
// function expression, or class/object-literal method (homeObject != nil
// for the latter, which also suppresses the automatic `.prototype`
// every plain function/constructor otherwise gets).
func (it *Interpreter) makeFunction(name string, params []*ast.Param, body *ast.BlockStatement, env *Environment, strict bool, isAsync, isGen bool, isArrow bool, thisMode ThisMode, homeObject *Object) *Object {
	mode := thisMode
	switch {
	case isArrow:
		mode = ThisModeLexical
	case strict:
		mode = ThisModeStrict
	default:
		mode = ThisModeGlobal
	}
	paramCount := 0
	for _, p := range params {
		if p.Rest || p.Default != nil {
			break
		}
		paramCount++
	}
	fn := &Object{Proto: it.FunctionProto, Class: ClassFunction, props: make(map[string]*PropertyDescriptor), Extensible: true}
	fn.Fn = &FunctionData{
		Name: name, ParamCount: paramCount, IsArrow: isArrow, IsGenerator: isGen, IsAsync: isAsync,
		ThisMode: mode, Strict: strict, Closure: env, HomeObject: homeObject,
		Node: funcBody{params: params, block: body},
	}
	fn.DefineOwn(StringKey("length"), &PropertyDescriptor{Value: Number(float64(paramCount)), Configurable: true})
	fn.DefineOwn(StringKey("name"), &PropertyDescriptor{Value: String(name), Configurable: true})
	if !isArrow && homeObject == nil {
		proto := NewObject(it.ObjectProto)
		proto.DefineOwn(StringKey("constructor"), &PropertyDescriptor{Value: fn, Writable: true, Enumerable: false, Configurable: true})
		fn.DefineOwn(StringKey("prototype"), &PropertyDescriptor{Value: proto, Writable: true, Enumerable: false, Configurable: false})
	}
	return fn
}

// makeArrowFunction builds an arrow function, which never gets `arguments`,
// its own `this`/`new.target`/`super`, or a `.prototype` own property.
func (it *Interpreter) makeArrowFunction(n *ast.ArrowFunctionExpression, env *Environment, strict bool) *Object {
	var block *ast.BlockStatement
	var exprBody ast.Expression
	if b, ok := n.Body.(*ast.BlockStatement); ok {
		block = b
	} else if e, ok := n.Body.(ast.Expression); ok {
		exprBody = e
	}
	paramCount := 0
	for _, p := range n.Params {
		if p.Rest || p.Default != nil {
			break
		}
		paramCount++
	}
	fn := &Object{Proto: it.FunctionProto, Class: ClassFunction, props: make(map[string]*PropertyDescriptor), Extensible: true}
	fn.Fn = &FunctionData{
		ParamCount: paramCount, IsArrow: true, IsAsync: n.IsAsync, ThisMode: ThisModeLexical, Strict: strict,
		Closure: env, Node: funcBody{params: n.Params, block: block, expr: exprBody},
	}
	fn.DefineOwn(StringKey("length"), &PropertyDescriptor{Value: Number(float64(paramCount)), Configurable: true})
	fn.DefineOwn(StringKey("name"), &PropertyDescriptor{Value: String(""), Configurable: true})
	return fn
}

// invoke is the single call path for both plain invocation (newTarget == nil)
// and `new` (newTarget set to the constructor being invoked).
func (it *Interpreter) invoke(fn *Object, this Value, args []Value, newTarget *Object) (Value, error) {
	if fn == nil || fn.Class != ClassFunction || fn.Fn == nil {
		return nil, errors.TypeError(nil, "value is not a function")
	}
	if fn.Fn.Native != nil {
		return fn.Fn.Native(it, this, args)
	}
	fb, ok := fn.Fn.Node.(funcBody)
	if !ok {
		return Undefined{}, nil
	}
	if fn.Fn.IsGenerator {
		return it.newGeneratorObject(fn, this, args), nil
	}
	if fn.Fn.IsAsync {
		return it.runAsyncFunction(fn, this, args)
	}
	if err := it.CallStack.Push(fn.Fn.Name, "<script>", nil); err != nil {
		return nil, errors.RangeError(nil, "Maximum call stack size exceeded")
	}
	defer it.CallStack.Pop()
	return it.runFunctionBody(fn, fb, this, args, newTarget)
}

// buildCallScope constructs the function-call environment shared by plain
// invocation, generator bodies, and async function bodies: arrow functions
// get a bare scope that lexically inherits this/new.target/super, everything
// else gets its own dynamic this (substituting globalThis in sloppy mode).
func (it *Interpreter) buildCallScope(fn *Object, this Value, newTarget *Object) *Environment {
	if fn.Fn.ThisMode == ThisModeLexical {
		return &Environment{store: make(map[string]*binding), outer: fn.Fn.Closure, isFunction: true}
	}
	effThis := this
	if fn.Fn.ThisMode == ThisModeGlobal && isNullish(this) {
		if it.GlobalObject != nil {
			effThis = it.GlobalObject
		} else {
			effThis = Undefined{}
		}
	}
	var nt Value = Undefined{}
	if newTarget != nil {
		nt = newTarget
	}
	scope := NewFunctionScope(fn.Fn.Closure, effThis, nt, fn.Fn.HomeObject)
	scope.superCtor = fn.Fn.SuperCtor
	return scope
}

func (it *Interpreter) runFunctionBody(fn *Object, fb funcBody, this Value, args []Value, newTarget *Object) (Value, error) {
	scope := it.buildCallScope(fn, this, newTarget)
	if err := it.bindParams(fb.params, args, scope, fn.Fn.Strict); err != nil {
		return nil, err
	}
	if !fn.Fn.IsArrow {
		scope.DeclareVar("arguments", it.makeArgumentsObject(args))
	}
	if fn.Fn.IsClassCtor && fn.Fn.DefaultDerivedCtor && fn.Fn.SuperCtor != nil {
		if _, err := it.invoke(fn.Fn.SuperCtor, scope.This(), args, nil); err != nil {
			return nil, err
		}
	}
	if fb.block != nil {
		comp, err := it.execBlock(fb.block.Body, scope, fn.Fn.Strict)
		if err != nil {
			return nil, err
		}
		switch comp.Kind {
		case FlowReturn:
			return comp.Value, nil
		case FlowThrow:
			return nil, it.errorToGoErr(comp.Value)
		}
		return Undefined{}, nil
	}
	if fb.expr == nil {
		return Undefined{}, nil
	}
	return it.evalExpression(fb.expr, scope, fn.Fn.Strict)
}

// errorToGoErr boxes a thrown script value as a Go error so it can unwind
// through the error-returning evaluator functions between the throw site
// and the nearest enclosing try/catch or function-call boundary.
func (it *Interpreter) errorToGoErr(v Value) error {
	return &ThrownValue{Value: v, Stack: it.CallStack.Snapshot()}
}

func (it *Interpreter) bindParams(params []*ast.Param, args []Value, scope *Environment, strict bool) error {
	for i, p := range params {
		if p.Rest {
			var rest []Value
			if i < len(args) {
				rest = append(rest, args[i:]...)
			}
			return it.bindPattern(p.Pattern, NewArray(it.ArrayProto, rest), scope, strict, bindInitLexical)
		}
		var v Value = Undefined{}
		if i < len(args) && args[i] != nil {
			v = args[i]
		}
		if isUndefinedValue(v) && p.Default != nil {
			dv, err := it.evalExpression(p.Default, scope, strict)
			if err != nil {
				return err
			}
			v = dv
		}
		if err := it.bindPattern(p.Pattern, v, scope, strict, bindInitLexical); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) makeArgumentsObject(args []Value) *Object {
	elems := make([]Value, len(args))
	copy(elems, args)
	return &Object{Proto: it.ObjectProto, Class: ClassArguments, props: make(map[string]*PropertyDescriptor), Elements: elems, Extensible: true}
}

// evalCallChain evaluates a call expression, threading optional-chaining
// short-circuit (§4.3) through both the callee resolution and the call
// itself (`a?.b()` and `a.b?.()` both short-circuit to undefined).
func (it *Interpreter) evalCallChain(n *ast.CallExpression, env *Environment, strict bool) (Value, bool, error) {
	if _, ok := n.Callee.(*ast.SuperExpression); ok {
		return it.evalSuperCall(n, env, strict)
	}

	var thisVal Value = Undefined{}
	var calleeVal Value

	if mem, ok := n.Callee.(*ast.MemberExpression); ok {
		if _, isSuper := mem.Object.(*ast.SuperExpression); isSuper {
			home := env.HomeObject()
			thisVal = env.This()
			key, err := it.memberKey(mem, env, strict)
			if err != nil {
				return nil, false, err
			}
			if home != nil && home.Proto != nil {
				calleeVal = home.Proto.Get(key, thisVal)
			} else {
				calleeVal = Undefined{}
			}
		} else {
			base, short, err := it.chainBase(mem.Object, env, strict)
			if err != nil || short {
				return Undefined{}, short, err
			}
			if mem.Optional && isNullish(base) {
				return Undefined{}, true, nil
			}
			thisVal = base
			key, err := it.memberKey(mem, env, strict)
			if err != nil {
				return nil, false, err
			}
			v, err := it.getPropertyValue(base, key)
			if err != nil {
				return nil, false, err
			}
			calleeVal = v
		}
	} else {
		v, short, err := it.chainBase(n.Callee, env, strict)
		if err != nil || short {
			return Undefined{}, short, err
		}
		calleeVal = v
	}

	if n.Optional && isNullish(calleeVal) {
		return Undefined{}, true, nil
	}

	args, err := it.evalArgs(n.Args, env, strict)
	if err != nil {
		return nil, false, err
	}
	fn, ok := calleeVal.(*Object)
	if !ok || fn.Class != ClassFunction {
		return nil, false, errors.TypeError(posOf(n), "value is not a function")
	}
	v, err := it.callFunction(fn, thisVal, args)
	return v, false, err
}

func (it *Interpreter) evalSuperCall(n *ast.CallExpression, env *Environment, strict bool) (Value, bool, error) {
	superCtor := env.SuperConstructor()
	if superCtor == nil {
		return nil, false, errors.SyntaxError(posOf(n), "'super' keyword is only valid inside a derived class constructor")
	}
	args, err := it.evalArgs(n.Args, env, strict)
	if err != nil {
		return nil, false, err
	}
	this := env.This()
	if _, err := it.invoke(superCtor, this, args, nil); err != nil {
		return nil, false, err
	}
	return this, false, nil
}

func (it *Interpreter) evalArgs(list []ast.Expression, env *Environment, strict bool) ([]Value, error) {
	var args []Value
	for _, a := range list {
		if sp, ok := a.(*ast.SpreadElement); ok {
			v, err := it.evalExpression(sp.Argument, env, strict)
			if err != nil {
				return nil, err
			}
			items, err := it.iterableToSlice(v)
			if err != nil {
				return nil, err
			}
			args = append(args, items...)
			continue
		}
		v, err := it.evalExpression(a, env, strict)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	return args, nil
}

func (it *Interpreter) evalNew(n *ast.NewExpression, env *Environment, strict bool) (Value, error) {
	calleeVal, err := it.evalExpression(n.Callee, env, strict)
	if err != nil {
		return nil, err
	}
	fn, ok := calleeVal.(*Object)
	if !ok || fn.Class != ClassFunction {
		return nil, errors.TypeError(posOf(n), "not a constructor")
	}
	args, err := it.evalArgs(n.Args, env, strict)
	if err != nil {
		return nil, err
	}
	return it.construct(fn, args, fn)
}

// NewCall is passed as `this` to a native function invoked via `new`, since
// NativeFunc has no dedicated construct signature; builtins that behave
// differently when constructed (Array, Error, Map, ...) type-assert on it.
type NewCall struct{ NewTarget *Object }

func (*NewCall) valueTag() {}

// construct implements the `new` operator: allocate an instance bound to the
// constructor's `.prototype`, run instance field initializers, then invoke
// the constructor body with `this` already bound to the instance. This
// differs from ECMA-262's actual [[Construct]] (which defers `this`
// allocation in derived classes until `super()` runs, leaving it in a TDZ
// beforehand) — a deliberate simplification.
func (it *Interpreter) construct(fn *Object, args []Value, newTarget *Object) (Value, error) {
	if fn.Fn == nil {
		return nil, errors.TypeError(nil, "not a constructor")
	}
	if fn.Fn.Native != nil {
		return fn.Fn.Native(it, &NewCall{NewTarget: newTarget}, args)
	}
	protoVal := fn.Get(StringKey("prototype"), fn)
	proto, _ := protoVal.(*Object)
	if proto == nil {
		proto = it.ObjectProto
	}
	instance := NewObject(proto)
	if fields, ok := fn.Fn.InstanceFields.([]*ast.ClassMember); ok && len(fields) > 0 {
		if err := it.initInstanceFields(fields, instance, fn.Fn.FieldEnv); err != nil {
			return nil, err
		}
	}
	v, err := it.invoke(fn, instance, args, newTarget)
	if err != nil {
		return nil, err
	}
	if o, ok := v.(*Object); ok {
		return o, nil
	}
	return instance, nil
}
