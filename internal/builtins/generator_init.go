package builtins

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// installGeneratorProtos wires Generator.prototype/AsyncGenerator.prototype
// (next/throw/return atop interp.GeneratorResume) and the shared array
// iterator prototype every `.values()`/`.keys()`/`.entries()` builtin
// (Array, String, Map, Set) hands its iterator objects through interp.
// MakeIteratorObject.
func installGeneratorProtos(it *interp.Interpreter) {
	iterProto := interp.NewObject(it.ObjectProto)
	iterProto.SetOwn(interp.SymbolKey(interp.SymbolIterator), nativeFn(it, "[Symbol.iterator]", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return this, nil
	}))
	it.ArrayIteratorProto = iterProto

	genProto := interp.NewObject(it.ObjectProto)
	it.GeneratorProto = genProto
	installGeneratorMethod(it, genProto, "next", interp.GeneratorKindNext)
	installGeneratorMethod(it, genProto, "throw", interp.GeneratorKindThrow)
	installGeneratorMethod(it, genProto, "return", interp.GeneratorKindReturn)
	genProto.SetOwn(interp.SymbolKey(interp.SymbolIterator), nativeFn(it, "[Symbol.iterator]", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return this, nil
	}))

	asyncGenProto := interp.NewObject(it.ObjectProto)
	it.AsyncGeneratorProto = asyncGenProto
	installAsyncGeneratorMethod(it, asyncGenProto, "next", interp.GeneratorKindNext)
	installAsyncGeneratorMethod(it, asyncGenProto, "throw", interp.GeneratorKindThrow)
	installAsyncGeneratorMethod(it, asyncGenProto, "return", interp.GeneratorKindReturn)
	asyncGenProto.SetOwn(interp.SymbolKey(interp.SymbolAsyncIterator), nativeFn(it, "[Symbol.asyncIterator]", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return this, nil
	}))
}

func iteratorResultObject(it *interp.Interpreter, v interp.Value, done bool) *interp.Object {
	res := interp.NewObject(it.ObjectProto)
	res.SetOwn(interp.StringKey("value"), v)
	res.SetOwn(interp.StringKey("done"), interp.Boolean(done))
	return res
}

func installGeneratorMethod(it *interp.Interpreter, proto *interp.Object, name string, kind int) {
	proto.SetOwn(interp.StringKey(name), nativeFn(it, name, 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		gen, ok := this.(*interp.Object)
		if !ok || gen.Gen == nil {
			return nil, errors.TypeError(nil, "Generator method called on incompatible receiver")
		}
		v, done, err := it.GeneratorResume(gen, kind, arg(args, 0))
		if err != nil {
			return nil, err
		}
		return iteratorResultObject(it, v, done), nil
	}))
}

// installAsyncGeneratorMethod wraps the same GeneratorResume machinery in a
// Promise, since async generator methods are spec'd to always return one
// rather than an IteratorResult directly.
func installAsyncGeneratorMethod(it *interp.Interpreter, proto *interp.Object, name string, kind int) {
	proto.SetOwn(interp.StringKey(name), nativeFn(it, name, 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		gen, ok := this.(*interp.Object)
		if !ok || gen.Gen == nil {
			return nil, errors.TypeError(nil, "AsyncGenerator method called on incompatible receiver")
		}
		cap := it.NewPromiseCapabilityExported()
		v, done, err := it.GeneratorResume(gen, kind, arg(args, 0))
		if err != nil {
			cap.Reject(it.ErrorToValue(err))
		} else {
			cap.Resolve(iteratorResultObject(it, v, done))
		}
		return cap.Promise, nil
	}))
}
