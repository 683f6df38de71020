package interp

import "github.com/kodjodevf/js-interpreter-sub002/internal/errors"

// bindingKind distinguishes var/function bindings (function-scoped, no TDZ)
// from let/const/class bindings (block-scoped, in the temporal dead zone
// until their declaration statement executes).
type bindingKind int

const (
	bindingVar bindingKind = iota
	bindingLet
	bindingConst
	bindingFunction
)

type binding struct {
	value     Value
	kind      bindingKind
	tdz       bool
	immutable bool
}

// Environment is a lexical scope, chained to its enclosing scope: a store
// plus an outer pointer, with Get/Set walking the chain. Identifiers are
// case-sensitive so a plain map suffices, extended with `let`/`const`
// temporal-dead-zone tracking.
type Environment struct {
	store map[string]*binding
	outer *Environment

	// This/NewTarget/Super are non-nil only at a function-scope boundary;
	// block scopes leave them nil and GetThis walks outward.
	thisVal     Value
	hasThis     bool
	newTarget   Value
	homeObject  *Object
	superCtor   *Object
	genData     *GeneratorData
	isFunction  bool
}

// NewEnvironment creates a root environment (the global scope).
func NewEnvironment() *Environment {
	return &Environment{store: make(map[string]*binding)}
}

// NewEnclosed creates a block-scoped child environment.
func NewEnclosed(outer *Environment) *Environment {
	return &Environment{store: make(map[string]*binding), outer: outer}
}

// NewFunctionScope creates a function-call environment with its own `this`.
func NewFunctionScope(outer *Environment, this Value, newTarget Value, home *Object) *Environment {
	return &Environment{
		store:      make(map[string]*binding),
		outer:      outer,
		thisVal:    this,
		hasThis:    true,
		newTarget:  newTarget,
		homeObject: home,
		isFunction: true,
	}
}

// DeclareVar installs a function-scoped `var` binding at the nearest
// function (or global) scope, per the var-hoisting rule; re-declaration
// with a nil initial leaves any existing value untouched, while a non-nil
// initial overwrites an existing `var` binding.
func (e *Environment) DeclareVar(name string, initial Value) {
	scope := e.functionScope()
	if b, ok := scope.store[name]; ok {
		if initial != nil && b.kind == bindingVar {
			// Re-running `var x = 1` assigns; plain `var x;` hoisting (initial==nil) doesn't.
			b.value = initial
		}
		return
	}
	v := initial
	if v == nil {
		v = Undefined{}
	}
	scope.store[name] = &binding{value: v, kind: bindingVar}
}

// DeclareFunction installs a function-scoped binding, always overwriting
// (function declarations win over a prior `var` hoist of the same name).
func (e *Environment) DeclareFunction(name string, fn Value) {
	scope := e.functionScope()
	scope.store[name] = &binding{value: fn, kind: bindingFunction}
}

// DeclareLexical installs a block-scoped let/const binding, starting in the
// temporal dead zone until InitializeLexical runs at the declaration site.
func (e *Environment) DeclareLexical(name string, isConst bool) {
	kind := bindingLet
	if isConst {
		kind = bindingConst
	}
	e.store[name] = &binding{kind: kind, tdz: true}
}

// InitializeLexical assigns a let/const binding's first value, clearing TDZ.
func (e *Environment) InitializeLexical(name string, v Value) {
	if b, ok := e.store[name]; ok {
		b.value = v
		b.tdz = false
		return
	}
	e.store[name] = &binding{value: v, kind: bindingLet}
}

func (e *Environment) functionScope() *Environment {
	scope := e
	for scope.outer != nil && !scope.isFunction {
		scope = scope.outer
	}
	return scope
}

// Get resolves an identifier, returning a ReferenceError for an unbound
// name and for a TDZ hit, matching ECMA-262's ResolveBinding/GetValue.
func (e *Environment) Get(name string) (Value, error) {
	scope := e
	for scope != nil {
		if b, ok := scope.store[name]; ok {
			if b.tdz {
				return nil, errors.ReferenceError(nil, "Cannot access '%s' before initialization", name)
			}
			return b.value, nil
		}
		scope = scope.outer
	}
	return nil, errors.ReferenceError(nil, "%s is not defined", name)
}

// Has reports whether name is bound anywhere in the chain (TDZ bindings
// still count as "bound" for `typeof`'s special-case suppression of the
// ReferenceError an unresolved identifier would otherwise raise — though
// `typeof` on a TDZ binding still throws, since the caller then evaluates
// the identifier and Get raises the TDZ ReferenceError).
func (e *Environment) Has(name string) bool {
	scope := e
	for scope != nil {
		if _, ok := scope.store[name]; ok {
			return true
		}
		scope = scope.outer
	}
	return false
}

// Set assigns to an existing binding, walking outward; const reassignment
// and assignment to an unresolved identifier in strict mode are the
// caller's responsibility to reject (the evaluator knows the strict-mode
// flag, this package doesn't).
func (e *Environment) Set(name string, v Value) error {
	scope := e
	for scope != nil {
		if b, ok := scope.store[name]; ok {
			if b.tdz {
				return errors.ReferenceError(nil, "Cannot access '%s' before initialization", name)
			}
			if b.kind == bindingConst {
				return errors.TypeError(nil, "Assignment to constant variable.")
			}
			b.value = v
			return nil
		}
		scope = scope.outer
	}
	return errors.ReferenceError(nil, "%s is not defined", name)
}

// SetGlobal creates an implicit global (sloppy-mode assignment to an
// undeclared name); the caller enforces that this is only reachable in
// non-strict code.
func (e *Environment) SetGlobal(name string, v Value) {
	scope := e
	for scope.outer != nil {
		scope = scope.outer
	}
	scope.store[name] = &binding{value: v, kind: bindingVar}
}

// ForEachGlobal visits every binding declared directly on the global
// (outermost) environment, used once at startup to backfill globalThis
// with the constructors/Math/JSON installed before it existed.
func (e *Environment) ForEachGlobal(fn func(name string, v Value)) {
	scope := e
	for scope.outer != nil {
		scope = scope.outer
	}
	for name, b := range scope.store {
		fn(name, b.value)
	}
}

// cloneInto copies this environment's own bindings (by value, so each gets
// an independent cell) into dst, used by `for (let ...)` to give each loop
// iteration its own copy of the per-iteration bindings.
func (e *Environment) cloneInto(dst *Environment) *Environment {
	for name, b := range e.store {
		cp := *b
		dst.store[name] = &cp
	}
	return dst
}

// This resolves the nearest dynamic `this` binding, skipping arrow-function
// scopes (which never set hasThis, since they lexically inherit it).
func (e *Environment) This() Value {
	scope := e
	for scope != nil {
		if scope.hasThis {
			return scope.thisVal
		}
		scope = scope.outer
	}
	return Undefined{}
}

// NewTarget resolves the nearest dynamic `new.target` binding.
func (e *Environment) NewTarget() Value {
	scope := e
	for scope != nil {
		if scope.hasThis {
			if scope.newTarget == nil {
				return Undefined{}
			}
			return scope.newTarget
		}
		scope = scope.outer
	}
	return Undefined{}
}

// HomeObject resolves the nearest method's [[HomeObject]], used by `super`.
func (e *Environment) HomeObject() *Object {
	scope := e
	for scope != nil {
		if scope.hasThis {
			return scope.homeObject
		}
		scope = scope.outer
	}
	return nil
}

// SuperConstructor resolves the nearest class constructor's parent
// constructor, used by a bare `super(...)` call.
func (e *Environment) SuperConstructor() *Object {
	scope := e
	for scope != nil {
		if scope.hasThis {
			return scope.superCtor
		}
		scope = scope.outer
	}
	return nil
}

// GenData resolves the nearest enclosing generator's suspension channels,
// used by `yield`/`yield*`; nil outside a generator function body.
func (e *Environment) GenData() *GeneratorData {
	scope := e
	for scope != nil {
		if scope.hasThis {
			return scope.genData
		}
		scope = scope.outer
	}
	return nil
}
