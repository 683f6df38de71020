package interp

import "github.com/kodjodevf/js-interpreter-sub002/internal/errors"

// newNativeFunction builds a callable *Object wrapping a Go implementation,
// the shape every builtin (and the Promise resolve/reject pair below) uses
// to hand a native Go closure back to script code.
func (it *Interpreter) newNativeFunction(name string, length int, fn NativeFunc) *Object {
	o := &Object{Proto: it.FunctionProto, Class: ClassFunction, props: make(map[string]*PropertyDescriptor), Extensible: true}
	o.Fn = &FunctionData{Name: name, ParamCount: length, Native: fn}
	o.DefineOwn(StringKey("length"), &PropertyDescriptor{Value: Number(float64(length)), Configurable: true})
	o.DefineOwn(StringKey("name"), &PropertyDescriptor{Value: String(name), Configurable: true})
	return o
}

// newPromiseObject allocates a pending Promise exotic object.
func (it *Interpreter) newPromiseObject() *Object {
	return &Object{
		Proto: it.PromiseProto, Class: ClassPromise, props: make(map[string]*PropertyDescriptor), Extensible: true,
		Promise: &PromiseData{State: PromisePending},
	}
}

// newPromiseCapability builds a PromiseCapability Record (25.6.1.5): a fresh
// pending promise plus one-shot resolve/reject functions.
func (it *Interpreter) newPromiseCapability() *PromiseCapability {
	p := it.newPromiseObject()
	cap := &PromiseCapability{Promise: p}
	cap.Resolve = func(v Value) { it.resolvePromise(p, v) }
	cap.Reject = func(v Value) { it.rejectPromise(p, v) }
	return cap
}

// resolvePromise implements the Promise Resolve Function (27.2.1.3.2):
// resolving with a thenable chains through its `then` method (scheduled as
// a microtask job, never called synchronously) rather than fulfilling
// immediately.
func (it *Interpreter) resolvePromise(p *Object, v Value) {
	pd := p.Promise
	if pd.State != PromisePending {
		return
	}
	obj, ok := v.(*Object)
	if !ok {
		it.fulfillPromise(p, v)
		return
	}
	if obj == p {
		it.rejectPromise(p, it.makeErrorObject(errors.KindTypeError, "Chaining cycle detected for promise", nil))
		return
	}
	thenV := obj.Get(StringKey("then"), obj)
	thenFn, ok := thenV.(*Object)
	if !ok || thenFn.Class != ClassFunction {
		it.fulfillPromise(p, v)
		return
	}
	it.enqueueMicrotask(func() {
		settled := false
		resolveFn := it.newNativeFunction("", 1, func(_ *Interpreter, _ Value, args []Value) (Value, error) {
			if settled {
				return Undefined{}, nil
			}
			settled = true
			var a Value = Undefined{}
			if len(args) > 0 {
				a = args[0]
			}
			it.resolvePromise(p, a)
			return Undefined{}, nil
		})
		rejectFn := it.newNativeFunction("", 1, func(_ *Interpreter, _ Value, args []Value) (Value, error) {
			if settled {
				return Undefined{}, nil
			}
			settled = true
			var a Value = Undefined{}
			if len(args) > 0 {
				a = args[0]
			}
			it.rejectPromise(p, a)
			return Undefined{}, nil
		})
		_, err := it.callFunction(thenFn, obj, []Value{resolveFn, rejectFn})
		if err != nil && !settled {
			settled = true
			it.rejectPromise(p, it.errorValueFromGo(err))
		}
	})
}

func (it *Interpreter) fulfillPromise(p *Object, v Value) {
	pd := p.Promise
	pd.State = PromiseFulfilled
	pd.Result = v
	reactions := pd.FulfillReactions
	pd.FulfillReactions = nil
	pd.RejectReactions = nil
	for _, r := range reactions {
		r := r
		it.enqueueMicrotask(func() { it.runReactionJob(r, v, true) })
	}
}

func (it *Interpreter) rejectPromise(p *Object, v Value) {
	pd := p.Promise
	pd.State = PromiseRejected
	pd.Result = v
	reactions := pd.RejectReactions
	pd.FulfillReactions = nil
	pd.RejectReactions = nil
	for _, r := range reactions {
		r := r
		it.enqueueMicrotask(func() { it.runReactionJob(r, v, false) })
	}
}

func (it *Interpreter) runReactionJob(r PromiseReaction, value Value, fulfilled bool) {
	if r.Handler == nil {
		if fulfilled {
			r.Capability.Resolve(value)
		} else {
			r.Capability.Reject(value)
		}
		return
	}
	result, err := it.callFunction(r.Handler, Undefined{}, []Value{value})
	if err != nil {
		r.Capability.Reject(it.errorValueFromGo(err))
		return
	}
	r.Capability.Resolve(result)
}

// PerformPromiseThen implements 27.2.5.4, the shared machinery behind
// Promise.prototype.then/catch/finally and `await`.
func (it *Interpreter) PerformPromiseThen(p *Object, onFulfilled, onRejected *Object) *PromiseCapability {
	cap := it.newPromiseCapability()
	pd := p.Promise
	fulfillReaction := PromiseReaction{Handler: onFulfilled, Capability: cap}
	rejectReaction := PromiseReaction{Handler: onRejected, Capability: cap}
	switch pd.State {
	case PromisePending:
		pd.FulfillReactions = append(pd.FulfillReactions, fulfillReaction)
		pd.RejectReactions = append(pd.RejectReactions, rejectReaction)
	case PromiseFulfilled:
		v := pd.Result
		it.enqueueMicrotask(func() { it.runReactionJob(fulfillReaction, v, true) })
	case PromiseRejected:
		v := pd.Result
		it.enqueueMicrotask(func() { it.runReactionJob(rejectReaction, v, false) })
	}
	pd.Handled = true
	return cap
}
