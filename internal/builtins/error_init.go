package builtins

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// errorKinds lists every native error constructor the global object gets,
// matching §6's enumerated globals (`Error`/`TypeError`/`RangeError`/
// `SyntaxError`/`ReferenceError`) plus `EvalError`/`URIError`, which
// internal/errors.Kind already defines and which a complete Error
// hierarchy (§EXT-3) should expose even though nothing in the evaluator
// throws them natively.
var errorKinds = []errors.Kind{
	errors.KindError,
	errors.KindTypeError,
	errors.KindRangeError,
	errors.KindSyntaxError,
	errors.KindReferenceError,
	errors.KindEvalError,
	errors.KindURIError,
}

// installErrorProtos builds one prototype per error Kind, chaining every
// subclass prototype off Error.prototype the way V8's error hierarchy
// does, and registers each as both `it.ErrorProtos[kind]` (consulted by
// errorValueFromGo/makeErrorObject when the evaluator throws natively) and
// a globalThis constructor.
func installErrorProtos(it *interp.Interpreter) {
	baseProto := interp.NewObject(it.ObjectProto)
	it.ErrorProto = baseProto
	it.ErrorProtos[errors.KindError] = baseProto
	installErrorProtoMethods(it, baseProto, string(errors.KindError))
	defineGlobal(it, "Error", makeErrorConstructor(it, errors.KindError, baseProto))

	for _, kind := range errorKinds {
		if kind == errors.KindError {
			continue
		}
		proto := interp.NewObject(baseProto)
		proto.SetOwn(interp.StringKey("name"), interp.String(string(kind)))
		it.ErrorProtos[kind] = proto
		defineGlobal(it, string(kind), makeErrorConstructor(it, kind, proto))
	}
}

func installErrorProtoMethods(it *interp.Interpreter, proto *interp.Object, name string) {
	proto.SetOwn(interp.StringKey("name"), interp.String(name))
	proto.SetOwn(interp.StringKey("message"), interp.String(""))
	proto.SetOwn(interp.StringKey("toString"), nativeFn(it, "toString", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, ok := this.(*interp.Object)
		if !ok {
			return interp.String("Error"), nil
		}
		n := interp.ToStringValue(obj.Get(interp.StringKey("name"), obj))
		msg := interp.ToStringValue(obj.Get(interp.StringKey("message"), obj))
		if msg == "" {
			return interp.String(n), nil
		}
		if n == "" {
			return interp.String(msg), nil
		}
		return interp.String(n + ": " + msg), nil
	}))
}

// makeErrorConstructor builds the callable/constructible Error subclass
// function: `Error(msg)` and `new Error(msg)` behave identically, both
// producing a fresh instance (ECMA-262 19.5.1.1).
func makeErrorConstructor(it *interp.Interpreter, kind errors.Kind, proto *interp.Object) *interp.Object {
	ctor := nativeFn(it, string(kind), 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		msg := ""
		if !isNullish(arg(args, 0)) {
			var err error
			msg, err = it.ToPrimitiveString(arg(args, 0))
			if err != nil {
				return nil, err
			}
		}
		target := proto
		if self, ok := this.(*interp.Object); ok && self.Proto != nil && self.Class != interp.ClassFunction {
			target = self.Proto
		}
		obj := it.NewError(kind, msg)
		obj.Proto = target
		if cause, ok := arg(args, 1).(*interp.Object); ok {
			if causeV, has := cause.GetOwn(interp.StringKey("cause")); has {
				obj.SetOwn(interp.StringKey("cause"), causeV.Value)
			}
		}
		return obj, nil
	})
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)
	return ctor
}
