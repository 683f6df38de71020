package builtins

import (
	"strconv"

	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// installFunctionProto wires Function.prototype.{call,apply,bind,toString}.
// The spec's §4.3 `this`-binding contract names call/apply/bind as
// semantics the evaluator must honor, so every callable script gets these
// from one shared prototype rather than each FunctionData re-implementing
// them.
func installFunctionProto(it *interp.Interpreter) {
	proto := interp.NewObject(it.ObjectProto)
	it.FunctionProto = proto

	proto.SetOwn(interp.StringKey("call"), nativeFn(it, "call", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		fn, err := callableThis(this)
		if err != nil {
			return nil, err
		}
		thisArg := arg(args, 0)
		var rest []interp.Value
		if len(args) > 1 {
			rest = args[1:]
		}
		return it.Call(fn, thisArg, rest)
	}))
	proto.SetOwn(interp.StringKey("apply"), nativeFn(it, "apply", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		fn, err := callableThis(this)
		if err != nil {
			return nil, err
		}
		thisArg := arg(args, 0)
		argList := arg(args, 1)
		var callArgs []interp.Value
		if !isNullish(argList) {
			callArgs, err = arrayLikeToSlice(it, argList)
			if err != nil {
				return nil, err
			}
		}
		return it.Call(fn, thisArg, callArgs)
	}))
	proto.SetOwn(interp.StringKey("bind"), nativeFn(it, "bind", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		fn, err := callableThis(this)
		if err != nil {
			return nil, err
		}
		boundThis := arg(args, 0)
		var boundArgs []interp.Value
		if len(args) > 1 {
			boundArgs = append(boundArgs, args[1:]...)
		}
		name := "bound " + fn.Fn.Name
		bound := nativeFn(it, name, fn.Fn.ParamCount, func(it *interp.Interpreter, _ interp.Value, callArgs []interp.Value) (interp.Value, error) {
			return it.Call(fn, boundThis, append(append([]interp.Value{}, boundArgs...), callArgs...))
		})
		return bound, nil
	}))
	proto.SetOwn(interp.StringKey("toString"), nativeFn(it, "toString", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		fn, err := callableThis(this)
		if err != nil {
			return nil, err
		}
		if fn.Fn.Native != nil {
			return interp.String("function " + fn.Fn.Name + "() { [native code] }"), nil
		}
		return interp.String("function " + fn.Fn.Name + "() { [script code] }"), nil
	}))

	ctor := nativeFn(it, "Function", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return nil, errors.TypeError(nil, "Function constructor (new Function(...)) is not supported")
	})
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)
	defineGlobal(it, "Function", ctor)
}

func callableThis(this interp.Value) (*interp.Object, error) {
	fn, ok := this.(*interp.Object)
	if !ok || fn.Class != interp.ClassFunction {
		return nil, errors.TypeError(nil, "Function.prototype method called on a non-function")
	}
	return fn, nil
}

// arrayLikeToSlice reads an array-like's integer-indexed "length" range,
// used by Function.prototype.apply's second (argument-list) parameter,
// which accepts both real arrays and plain array-like objects.
func arrayLikeToSlice(it *interp.Interpreter, v interp.Value) ([]interp.Value, error) {
	obj, ok := v.(*interp.Object)
	if !ok {
		return nil, errors.TypeError(nil, "CreateListFromArrayLike called on non-object")
	}
	if obj.Class == interp.ClassArray || obj.Class == interp.ClassArguments {
		out := make([]interp.Value, len(obj.Elements))
		for i, e := range obj.Elements {
			if e == nil {
				out[i] = interp.Undefined{}
			} else {
				out[i] = e
			}
		}
		return out, nil
	}
	n := int(interp.ToNumber(obj.Get(interp.StringKey("length"), obj)))
	out := make([]interp.Value, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, obj.Get(interp.StringKey(strconv.Itoa(i)), obj))
	}
	return out, nil
}
