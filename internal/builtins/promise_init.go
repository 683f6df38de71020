package builtins

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// installPromise wires the Promise constructor, Promise.prototype.then/
// catch/finally, and the Promise.all/allSettled/race/any combinators atop
// interp's already-exported PerformPromiseThen/resolve/reject machinery —
// this file only has to drive that machinery from script-facing arguments.
func installPromise(it *interp.Interpreter) {
	proto := interp.NewObject(it.ObjectProto)
	it.PromiseProto = proto

	proto.SetOwn(interp.StringKey("then"), nativeFn(it, "then", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		p, ok := this.(*interp.Object)
		if !ok || p.Class != interp.ClassPromise {
			return nil, errors.TypeError(nil, "Promise.prototype.then called on incompatible receiver")
		}
		onFulfilled := callableOrNil(arg(args, 0))
		onRejected := callableOrNil(arg(args, 1))
		cap := it.PerformPromiseThen(p, onFulfilled, onRejected)
		return cap.Promise, nil
	}))
	proto.SetOwn(interp.StringKey("catch"), nativeFn(it, "catch", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		thenFn, ok := proto.Get(interp.StringKey("then"), proto).(*interp.Object)
		if !ok {
			return nil, errors.TypeError(nil, "Promise.prototype.then is missing")
		}
		return it.Call(thenFn, this, []interp.Value{interp.Undefined{}, arg(args, 0)})
	}))
	proto.SetOwn(interp.StringKey("finally"), nativeFn(it, "finally", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		onFinally, _ := arg(args, 0).(*interp.Object)
		wrap := func(passthrough bool) *interp.Object {
			return it.NewNativeFunction("", 1, func(it *interp.Interpreter, _ interp.Value, cbArgs []interp.Value) (interp.Value, error) {
				if onFinally == nil || onFinally.Class != interp.ClassFunction {
					if passthrough {
						return arg(cbArgs, 0), nil
					}
					return nil, it.ValueToError(arg(cbArgs, 0))
				}
				if _, err := it.Call(onFinally, interp.Undefined{}, nil); err != nil {
					return nil, err
				}
				if passthrough {
					return arg(cbArgs, 0), nil
				}
				return nil, it.ValueToError(arg(cbArgs, 0))
			})
		}
		thenFn, ok := proto.Get(interp.StringKey("then"), proto).(*interp.Object)
		if !ok {
			return nil, errors.TypeError(nil, "Promise.prototype.then is missing")
		}
		return it.Call(thenFn, this, []interp.Value{wrap(true), wrap(false)})
	}))

	ctor := nativeFn(it, "Promise", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if _, isNew := this.(*interp.NewCall); !isNew {
			return nil, errors.TypeError(nil, "Promise constructor cannot be invoked without 'new'")
		}
		executor, ok := arg(args, 0).(*interp.Object)
		if !ok || executor.Class != interp.ClassFunction {
			return nil, errors.TypeError(nil, "Promise resolver is not a function")
		}
		cap := it.NewPromiseCapabilityExported()
		resolveFn := it.NewNativeFunction("", 1, func(it *interp.Interpreter, _ interp.Value, a []interp.Value) (interp.Value, error) {
			cap.Resolve(arg(a, 0))
			return interp.Undefined{}, nil
		})
		rejectFn := it.NewNativeFunction("", 1, func(it *interp.Interpreter, _ interp.Value, a []interp.Value) (interp.Value, error) {
			cap.Reject(arg(a, 0))
			return interp.Undefined{}, nil
		})
		if _, err := it.Call(executor, interp.Undefined{}, []interp.Value{resolveFn, rejectFn}); err != nil {
			cap.Reject(it.ErrorToValue(err))
		}
		return cap.Promise, nil
	})
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)

	ctor.SetOwn(interp.StringKey("resolve"), nativeFn(it, "resolve", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if p, ok := arg(args, 0).(*interp.Object); ok && p.Class == interp.ClassPromise {
			return p, nil
		}
		cap := it.NewPromiseCapabilityExported()
		cap.Resolve(arg(args, 0))
		return cap.Promise, nil
	}))
	ctor.SetOwn(interp.StringKey("reject"), nativeFn(it, "reject", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		cap := it.NewPromiseCapabilityExported()
		cap.Reject(arg(args, 0))
		return cap.Promise, nil
	}))
	ctor.SetOwn(interp.StringKey("all"), nativeFn(it, "all", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return promiseCombinator(it, arg(args, 0), combinatorAll)
	}))
	ctor.SetOwn(interp.StringKey("allSettled"), nativeFn(it, "allSettled", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return promiseCombinator(it, arg(args, 0), combinatorAllSettled)
	}))
	ctor.SetOwn(interp.StringKey("race"), nativeFn(it, "race", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return promiseCombinator(it, arg(args, 0), combinatorRace)
	}))
	ctor.SetOwn(interp.StringKey("any"), nativeFn(it, "any", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return promiseCombinator(it, arg(args, 0), combinatorAny)
	}))
	defineGlobal(it, "Promise", ctor)
}

func callableOrNil(v interp.Value) *interp.Object {
	if fn, ok := v.(*interp.Object); ok && fn.Class == interp.ClassFunction {
		return fn
	}
	return nil
}

type combinatorKind int

const (
	combinatorAll combinatorKind = iota
	combinatorAllSettled
	combinatorRace
	combinatorAny
)

// promiseCombinator implements Promise.all/allSettled/race/any by draining
// the iterable up front, then wiring one `then` per item into shared
// per-combinator bookkeeping. race settles with the first item to settle;
// any fulfills with the first item to fulfill and rejects only once every
// item has rejected; all fulfills once every item has fulfilled but
// rejects on the first rejection; allSettled waits for every item. all and
// allSettled preserve input order in the result array.
func promiseCombinator(it *interp.Interpreter, iterable interp.Value, kind combinatorKind) (interp.Value, error) {
	items, err := it.IterableToSlice(iterable)
	if err != nil {
		return nil, err
	}
	cap := it.NewPromiseCapabilityExported()
	n := len(items)
	if n == 0 {
		switch kind {
		case combinatorRace:
			return cap.Promise, nil
		case combinatorAny:
			cap.Reject(it.NewError(errors.KindError, "All promises were rejected"))
			return cap.Promise, nil
		default:
			cap.Resolve(interp.NewArray(it.ArrayProto, nil))
			return cap.Promise, nil
		}
	}
	results := make([]interp.Value, n)
	errorsList := make([]interp.Value, n)
	remaining := n

	toPromise := func(v interp.Value) *interp.Object {
		if p, ok := v.(*interp.Object); ok && p.Class == interp.ClassPromise {
			return p
		}
		c := it.NewPromiseCapabilityExported()
		c.Resolve(v)
		return c.Promise
	}

	for i, item := range items {
		i := i
		p := toPromise(item)
		onFulfilled := it.NewNativeFunction("", 1, func(it *interp.Interpreter, _ interp.Value, a []interp.Value) (interp.Value, error) {
			switch kind {
			case combinatorRace:
				cap.Resolve(arg(a, 0))
			case combinatorAny:
				cap.Resolve(arg(a, 0))
			case combinatorAllSettled:
				entry := interp.NewObject(it.ObjectProto)
				entry.SetOwn(interp.StringKey("status"), interp.String("fulfilled"))
				entry.SetOwn(interp.StringKey("value"), arg(a, 0))
				results[i] = entry
				remaining--
				if remaining == 0 {
					cap.Resolve(interp.NewArray(it.ArrayProto, results))
				}
			default:
				results[i] = arg(a, 0)
				remaining--
				if remaining == 0 {
					cap.Resolve(interp.NewArray(it.ArrayProto, results))
				}
			}
			return interp.Undefined{}, nil
		})
		onRejected := it.NewNativeFunction("", 1, func(it *interp.Interpreter, _ interp.Value, a []interp.Value) (interp.Value, error) {
			switch kind {
			case combinatorRace:
				cap.Reject(arg(a, 0))
			case combinatorAny:
				errorsList[i] = arg(a, 0)
				remaining--
				if remaining == 0 {
					aggregate := it.NewError(errors.KindError, "All promises were rejected")
					aggregate.SetOwn(interp.StringKey("errors"), interp.NewArray(it.ArrayProto, errorsList))
					cap.Reject(aggregate)
				}
			case combinatorAllSettled:
				entry := interp.NewObject(it.ObjectProto)
				entry.SetOwn(interp.StringKey("status"), interp.String("rejected"))
				entry.SetOwn(interp.StringKey("reason"), arg(a, 0))
				results[i] = entry
				remaining--
				if remaining == 0 {
					cap.Resolve(interp.NewArray(it.ArrayProto, results))
				}
			default:
				cap.Reject(arg(a, 0))
			}
			return interp.Undefined{}, nil
		})
		it.PerformPromiseThen(p, onFulfilled, onRejected)
	}
	return cap.Promise, nil
}
