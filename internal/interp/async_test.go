package interp_test

import (
	"testing"

	"github.com/kodjodevf/js-interpreter-sub002/internal/builtins"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// runAsync evaluates src and drains the event loop to quiescence, the way
// pkg/jsi.Engine.EvalAsync does, so Promise reactions and scheduled
// microtasks actually run before the result is inspected; like EvalAsync,
// a completion value that is a settled Promise is followed to its result.
func runAsync(t *testing.T, src string) interp.Value {
	t.Helper()
	it := interp.New()
	builtins.Install(it)
	v, err := it.RunProgram(src)
	if err != nil {
		t.Fatalf("RunProgram(%q): %v", src, err)
	}
	it.RunEventLoop()
	if p, ok := v.(*interp.Object); ok && p.Promise != nil {
		switch p.Promise.State {
		case interp.PromiseFulfilled:
			return p.Promise.Result
		case interp.PromiseRejected:
			t.Fatalf("RunProgram(%q): promise rejected with %s", src, interp.InspectValue(p.Promise.Result))
		}
	}
	return v
}

func TestEval_GeneratorYieldsSequence(t *testing.T) {
	src := `
	function* range(n) {
		for (let i = 0; i < n; i++) yield i;
	}
	let out = [];
	for (const v of range(3)) out.push(v);
	out.join(',');
	`
	wantString(t, run(t, src), "0,1,2")
}

func TestEval_GeneratorDelegation(t *testing.T) {
	src := `
	function* inner() { yield 1; yield 2; }
	function* outer() { yield 0; yield* inner(); yield 3; }
	Array.from(outer()).join(',');
	`
	wantString(t, run(t, src), "0,1,2,3")
}

func TestEval_GeneratorReturnValue(t *testing.T) {
	src := `
	function* g() { yield 1; return 'done'; }
	let it = g();
	it.next();
	it.next().value;
	`
	wantString(t, run(t, src), "done")
}

func TestEvalAsync_AwaitResolvedValue(t *testing.T) {
	src := `
	let result;
	async function f() {
		let v = await Promise.resolve(42);
		result = v;
		return v;
	}
	f();
	`
	v := runAsync(t, src)
	wantNumber(t, v, 42)
}

func TestEvalAsync_MicrotasksRunBeforeMacrotasks(t *testing.T) {
	src := `
	let log = [];
	setTimeout(function() { log.push('timeout'); }, 0);
	Promise.resolve().then(function() { log.push('promise'); });
	log.push('sync');
	log;
	`
	it := interp.New()
	builtins.Install(it)
	logVal, err := it.RunProgram(src)
	if err != nil {
		t.Fatalf("RunProgram: %v", err)
	}
	it.RunEventLoop()
	obj, ok := logVal.(*interp.Object)
	if !ok {
		t.Fatalf("log = %T, want *interp.Object (array)", logVal)
	}
	if len(obj.Elements) != 3 {
		t.Fatalf("expected 3 log entries, got %d: %v", len(obj.Elements), obj.Elements)
	}
	wantString(t, obj.Elements[0], "sync")
	wantString(t, obj.Elements[1], "promise")
	wantString(t, obj.Elements[2], "timeout")
}

func TestEvalAsync_RejectedPromiseCausesAwaitToThrow(t *testing.T) {
	src := `
	let caught = null;
	async function f() {
		try {
			await Promise.reject(new Error('nope'));
		} catch (e) {
			caught = e.message;
		}
	}
	f();
	`
	it := interp.New()
	builtins.Install(it)
	if _, err := it.RunProgram(src); err != nil {
		t.Fatalf("RunProgram: %v", err)
	}
	it.RunEventLoop()
	// `caught` is only assigned once the awaited rejection's catch handler
	// runs as a microtask, so read it back on the same interpreter instance
	// after the event loop has drained.
	v, err := it.RunProgram("caught;")
	if err != nil {
		t.Fatalf("RunProgram(\"caught;\"): %v", err)
	}
	wantString(t, v, "nope")
}
