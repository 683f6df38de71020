package interp

import "github.com/kodjodevf/js-interpreter-sub002/internal/errors"

// This file is the surface internal/builtins (a separate package, since the
// built-in catalogue is library work rather than core evaluator design) is
// built against: thin exported wrappers around otherwise-unexported
// evaluator internals. Keeps a clean boundary between internal/interp (the
// evaluator) and internal/builtins (a Context-driven catalogue that never
// reaches into interp's unexported fields) via a set of plain exported
// methods on *Interpreter.

// Call invokes fn as a plain (non-constructor) function call.
func (it *Interpreter) Call(fn *Object, this Value, args []Value) (Value, error) {
	return it.callFunction(fn, this, args)
}

// Construct invokes fn as `new fn(...args)` with the given new.target
// (ordinarily fn itself).
func (it *Interpreter) Construct(fn *Object, args []Value, newTarget *Object) (Value, error) {
	return it.construct(fn, args, newTarget)
}

// NewNativeFunction wraps a Go function as a callable script Value.
func (it *Interpreter) NewNativeFunction(name string, length int, fn NativeFunc) *Object {
	return it.newNativeFunction(name, length, fn)
}

// NewError builds a script Error instance of the given native kind.
func (it *Interpreter) NewError(kind errors.Kind, message string) *Object {
	return it.makeErrorObject(kind, message, nil)
}

// ErrorToValue converts a Go error (RuntimeError, ThrownValue, or any other
// error) into a catchable script Value.
func (it *Interpreter) ErrorToValue(err error) Value {
	return it.errorValueFromGo(err)
}

// ValueToError boxes a script value as a Go error, the inverse of
// ErrorToValue, for native functions that need to propagate a script
// exception through a Go error return.
func (it *Interpreter) ValueToError(v Value) error {
	return it.errorToGoErr(v)
}

// ToPrimitive implements the ToPrimitive abstract operation for native
// builtins that need it directly (Date, JSON.stringify).
func (it *Interpreter) ToPrimitive(v Value, hint string) (Value, error) {
	return it.toPrimitive(v, hint)
}

// ToPrimitiveString coerces v to a string via ToPrimitive(v, "string")
// then ToString, for builtins that mirror `${v}` / String(v) semantics.
func (it *Interpreter) ToPrimitiveString(v Value) (string, error) {
	return it.toPrimitiveString(v)
}

// ToNumberCoerce coerces v to a number via ToPrimitive when v is an object.
func (it *Interpreter) ToNumberCoerce(v Value) (float64, error) {
	return it.toNumberCoerce(v)
}

// BoxPrimitive implements ToObject for the primitive kinds.
func (it *Interpreter) BoxPrimitive(v Value) *Object {
	return it.boxPrimitive(v)
}

// NewRegExpObject compiles a RegExp exotic object from a pattern/flags pair.
func (it *Interpreter) NewRegExpObject(pattern, flags string) *Object {
	return it.newRegExp(pattern, flags)
}

// NewPromiseObject allocates a pending Promise exotic object.
func (it *Interpreter) NewPromiseObject() *Object {
	return it.newPromiseObject()
}

// NewPromiseCapabilityExported builds a PromiseCapability Record.
func (it *Interpreter) NewPromiseCapabilityExported() *PromiseCapability {
	return it.newPromiseCapability()
}

// ResolvePromise resolves p with v, per the Promise Resolve Function.
func (it *Interpreter) ResolvePromise(p *Object, v Value) {
	it.resolvePromise(p, v)
}

// RejectPromise rejects p with v.
func (it *Interpreter) RejectPromise(p *Object, v Value) {
	it.rejectPromise(p, v)
}

// EnqueueMicrotask schedules fn to run once the current synchronous job
// finishes, before any macrotask — used by builtins that need microtask
// timing without going through a Promise (queueMicrotask).
func (it *Interpreter) EnqueueMicrotask(fn func()) {
	it.enqueueMicrotask(fn)
}

// IterableToSlice drains an iterable value fully (used by Array.from,
// Promise.all, spread-like builtins such as Map/Set constructors).
func (it *Interpreter) IterableToSlice(v Value) ([]Value, error) {
	return it.iterableToSlice(v)
}

// MakeIteratorObject wraps a next function as a script-visible iterator
// object whose only own property is `next`; @@iterator comes from proto
// (the Array iterator prototype builtins.Install installs, in every
// caller), the shape Array/Map/Set/String's `.values()`-family methods
// all return.
func (it *Interpreter) MakeIteratorObject(proto *Object, next func() (Value, bool)) *Object {
	obj := NewObject(proto)
	obj.SetOwn(StringKey("next"), it.newNativeFunction("next", 0, func(it *Interpreter, this Value, args []Value) (Value, error) {
		v, done := next()
		res := NewObject(it.ObjectProto)
		res.SetOwn(StringKey("value"), v)
		res.SetOwn(StringKey("done"), Boolean(done))
		return res, nil
	}))
	return obj
}

// GeneratorKindNext/Throw/Return re-export the three generatorResume kinds
// for internal/builtins' Generator.prototype.{next,throw,return}.
const (
	GeneratorKindNext   = resumeNext
	GeneratorKindThrow  = resumeThrow
	GeneratorKindReturn = resumeReturn
)

// GeneratorResume drives a suspended generator object one step.
func (it *Interpreter) GeneratorResume(genObj *Object, kind int, sendValue Value) (Value, bool, error) {
	return it.generatorResume(genObj, generatorResumeKind(kind), sendValue)
}

// RunAsyncFunctionExported invokes an async function object, returning its
// driving Promise (used nowhere outside interp today, exported for
// symmetry/future host use).
func (it *Interpreter) RunAsyncFunctionExported(fn *Object, this Value, args []Value) (Value, error) {
	return it.runAsyncFunction(fn, this, args)
}
