package interp

// runAsyncFunction drives an async function body to its first suspension
// point (an `await`, or completion) synchronously — matching the spec's
// rule that an async function runs synchronously up to its first await —
// then returns the (possibly still-pending) result Promise immediately.
// Reuses the generator suspension channels (GeneratorData) as the
// coroutine handoff mechanism; only resumeNext/resumeThrow are ever sent,
// since `await` has no .return() analogue.
func (it *Interpreter) runAsyncFunction(fn *Object, this Value, args []Value) (Value, error) {
	gd := &GeneratorData{resumeCh: make(chan generatorResume), yieldCh: make(chan generatorYield)}
	go it.runAsyncBody(fn, gd, this, args)
	cap := it.newPromiseCapability()
	it.stepAsync(gd, cap, resumeNext, Undefined{})
	return cap.Promise, nil
}

func (it *Interpreter) runAsyncBody(fn *Object, gd *GeneratorData, this Value, args []Value) {
	<-gd.resumeCh // initial kick, started by runAsyncFunction

	fb, _ := fn.Fn.Node.(funcBody)
	scope := it.buildCallScope(fn, this, nil)
	scope.genData = gd

	var comp Completion
	var err error
	if berr := it.bindParams(fb.params, args, scope, fn.Fn.Strict); berr != nil {
		err = berr
	} else if !fn.Fn.IsArrow {
		scope.DeclareVar("arguments", it.makeArgumentsObject(args))
	}
	if err == nil {
		if fb.block != nil {
			comp, err = it.execBlock(fb.block.Body, scope, fn.Fn.Strict)
		} else if fb.expr != nil {
			var v Value
			v, err = it.evalExpression(fb.expr, scope, fn.Fn.Strict)
			if err == nil {
				comp = returnFlow(v)
			}
		}
	}

	gd.done = true
	if sig, ok := err.(*genReturnSignal); ok {
		gd.yieldCh <- generatorYield{value: sig.value, done: true}
		return
	}
	if err != nil {
		gd.yieldCh <- generatorYield{err: err, done: true}
		return
	}
	switch comp.Kind {
	case FlowReturn:
		gd.yieldCh <- generatorYield{value: comp.Value, done: true}
	case FlowThrow:
		gd.yieldCh <- generatorYield{err: it.errorToGoErr(comp.Value), done: true}
	default:
		gd.yieldCh <- generatorYield{value: Undefined{}, done: true}
	}
}

// stepAsync resumes the async body's goroutine one step and, when it
// suspends on an await rather than finishing, arranges for the awaited
// value's settlement to resume it again later via the microtask queue.
func (it *Interpreter) stepAsync(gd *GeneratorData, cap *PromiseCapability, kind generatorResumeKind, sendValue Value) {
	gd.resumeCh <- generatorResume{kind: kind, value: sendValue}
	y := <-gd.yieldCh
	if y.done {
		if y.err != nil {
			cap.Reject(it.errorValueFromGo(y.err))
		} else {
			cap.Resolve(y.value)
		}
		return
	}
	it.awaitOn(y.value,
		func(v Value) { it.stepAsync(gd, cap, resumeNext, v) },
		func(e Value) { it.stepAsync(gd, cap, resumeThrow, e) },
	)
}

// awaitOn implements the Await abstract operation (27.7.5.3): a real
// Promise's settlement drives the continuation directly through
// PerformPromiseThen; a thenable is coerced via PromiseResolve first;
// anything else still suspends for exactly one microtask tick, matching
// `await` always yielding control at least once even for a plain value.
func (it *Interpreter) awaitOn(v Value, onFulfill, onReject func(Value)) {
	if obj, ok := v.(*Object); ok && obj.Class == ClassPromise {
		onF := it.newNativeFunction("", 1, func(_ *Interpreter, _ Value, args []Value) (Value, error) {
			var a Value = Undefined{}
			if len(args) > 0 {
				a = args[0]
			}
			onFulfill(a)
			return Undefined{}, nil
		})
		onR := it.newNativeFunction("", 1, func(_ *Interpreter, _ Value, args []Value) (Value, error) {
			var a Value = Undefined{}
			if len(args) > 0 {
				a = args[0]
			}
			onReject(a)
			return Undefined{}, nil
		})
		it.PerformPromiseThen(obj, onF, onR)
		return
	}
	cap := it.newPromiseCapability()
	cap.Resolve(v)
	it.PerformPromiseThen(cap.Promise,
		it.newNativeFunction("", 1, func(_ *Interpreter, _ Value, args []Value) (Value, error) {
			var a Value = Undefined{}
			if len(args) > 0 {
				a = args[0]
			}
			onFulfill(a)
			return Undefined{}, nil
		}),
		it.newNativeFunction("", 1, func(_ *Interpreter, _ Value, args []Value) (Value, error) {
			var a Value = Undefined{}
			if len(args) > 0 {
				a = args[0]
			}
			onReject(a)
			return Undefined{}, nil
		}),
	)
}

// evalAwait suspends the enclosing async function body at an `await`
// expression, the same handoff evalYield performs for a plain generator.
func (it *Interpreter) evalAwait(v Value, env *Environment) (Value, error) {
	gd := env.GenData()
	if gd == nil {
		// Top-level await: block synchronously, draining the microtask
		// queue until the awaited value settles (no concurrent generator
		// goroutine to hand off to at module scope).
		return it.awaitTopLevel(v)
	}
	gd.yieldCh <- generatorYield{value: v, done: false}
	r := <-gd.resumeCh
	if r.kind == resumeThrow {
		return nil, it.errorToGoErr(r.value)
	}
	return r.value, nil
}

// awaitTopLevel handles `await` at module top level (outside any async
// function), where there is no suspended generator goroutine to resume:
// the microtask queue is drained synchronously until the awaited value
// settles.
func (it *Interpreter) awaitTopLevel(v Value) (Value, error) {
	obj, ok := v.(*Object)
	if !ok || obj.Class != ClassPromise {
		cap := it.newPromiseCapability()
		cap.Resolve(v)
		obj = cap.Promise
	}
	for obj.Promise.State == PromisePending && len(it.microtasks) > 0 {
		it.runOneMicrotask()
	}
	switch obj.Promise.State {
	case PromiseFulfilled:
		return obj.Promise.Result, nil
	case PromiseRejected:
		return nil, it.errorToGoErr(obj.Promise.Result)
	default:
		return Undefined{}, nil
	}
}
