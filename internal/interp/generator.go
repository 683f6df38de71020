package interp

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/ast"
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
)

// genReturnSignal is a sentinel error a `yield` expression returns when the
// driving caller resumed with .return(v): it propagates up through the
// ordinary error-returning statement chain (running any `finally` blocks
// along the way, per execTry) exactly like a thrown exception would, but
// runGeneratorBody recognizes it and converts it back into a normal
// completion instead of a catchable throw.
type genReturnSignal struct{ value Value }

func (*genReturnSignal) Error() string { return "generator early return" }

// newGeneratorObject allocates a (possibly async) generator object and
// starts its body on a dedicated goroutine, suspended immediately waiting
// for the first .next()/.throw()/.return() call — generator bodies never
// run eagerly. Grounded on §C8/§9's instruction that suspend/resume is
// implemented with a goroutine handing off over unbuffered channels, the
// shape other_examples/yaegi's own coroutine-style Interp.Eval loop uses for
// cooperative suspension.
func (it *Interpreter) newGeneratorObject(fn *Object, this Value, args []Value) *Object {
	gd := &GeneratorData{
		resumeCh: make(chan generatorResume),
		yieldCh:  make(chan generatorYield),
	}
	class := ClassGenerator
	proto := it.GeneratorProto
	if fn.Fn.IsAsync {
		class = ClassAsyncGenerator
		proto = it.AsyncGeneratorProto
	}
	genObj := &Object{Proto: proto, Class: class, props: make(map[string]*PropertyDescriptor), Extensible: true, Gen: gd}
	go it.runGeneratorBody(fn, gd, this, args)
	return genObj
}

func (it *Interpreter) runGeneratorBody(fn *Object, gd *GeneratorData, this Value, args []Value) {
	first := <-gd.resumeCh
	switch first.kind {
	case resumeReturn:
		gd.done = true
		gd.yieldCh <- generatorYield{value: first.value, done: true}
		return
	case resumeThrow:
		gd.done = true
		gd.yieldCh <- generatorYield{err: it.errorToGoErr(first.value), done: true}
		return
	}

	fb, _ := fn.Fn.Node.(funcBody)
	scope := it.buildCallScope(fn, this, nil)
	scope.genData = gd

	var comp Completion
	var err error
	if bperr := it.bindParams(fb.params, args, scope, fn.Fn.Strict); bperr != nil {
		err = bperr
	} else {
		scope.DeclareVar("arguments", it.makeArgumentsObject(args))
		if fb.block != nil {
			comp, err = it.execBlock(fb.block.Body, scope, fn.Fn.Strict)
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

// generatorResume drives a suspended generator one step, matching the three
// resumption kinds the spec's GeneratorResume/GeneratorResumeAbrupt define.
func (it *Interpreter) generatorResume(genObj *Object, kind generatorResumeKind, sendValue Value) (Value, bool, error) {
	gd := genObj.Gen
	if gd.done {
		switch kind {
		case resumeThrow:
			return nil, false, it.errorToGoErr(sendValue)
		case resumeReturn:
			return sendValue, true, nil
		default:
			return Undefined{}, true, nil
		}
	}
	gd.resumeCh <- generatorResume{value: sendValue, kind: kind}
	y := <-gd.yieldCh
	if y.err != nil {
		return nil, false, y.err
	}
	return y.value, y.done, nil
}

// evalYield suspends the enclosing generator body, handing the yielded
// value to the driving caller and blocking until it resumes.
func (it *Interpreter) evalYield(n *ast.YieldExpression, env *Environment, strict bool) (Value, error) {
	gd := env.GenData()
	if gd == nil {
		return nil, errors.SyntaxError(posOf(n), "yield is only valid inside a generator function")
	}
	var argVal Value = Undefined{}
	if n.Argument != nil {
		v, err := it.evalExpression(n.Argument, env, strict)
		if err != nil {
			return nil, err
		}
		argVal = v
	}
	if n.Delegate {
		return it.evalYieldDelegate(argVal, gd, env, strict)
	}
	gd.yieldCh <- generatorYield{value: argVal, done: false}
	r := <-gd.resumeCh
	switch r.kind {
	case resumeThrow:
		return nil, it.errorToGoErr(r.value)
	case resumeReturn:
		return nil, &genReturnSignal{value: r.value}
	default:
		return r.value, nil
	}
}

// evalYieldDelegate implements `yield*`: drain the delegated iterable,
// re-yielding each value and passing .next() values through. A .return()
// closes the inner iterator before returning; a .throw() is raised at the
// yield* site and is not passed to the inner iterator.
func (it *Interpreter) evalYieldDelegate(iterableVal Value, gd *GeneratorData, env *Environment, strict bool) (Value, error) {
	inner, err := it.getIterator(iterableVal, false)
	if err != nil {
		return nil, err
	}
	var sendValue Value = Undefined{}
	for {
		val, done, err := inner.next(sendValue)
		if err != nil {
			return nil, err
		}
		if done {
			return val, nil
		}
		gd.yieldCh <- generatorYield{value: val, done: false}
		r := <-gd.resumeCh
		switch r.kind {
		case resumeThrow:
			return nil, it.errorToGoErr(r.value)
		case resumeReturn:
			it.iteratorClose(inner)
			return nil, &genReturnSignal{value: r.value}
		default:
			sendValue = r.value
		}
	}
}
