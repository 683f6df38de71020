package interp_test

import (
	"strings"
	"testing"

	"github.com/kodjodevf/js-interpreter-sub002/internal/builtins"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

func run(t *testing.T, src string) interp.Value {
	t.Helper()
	it := interp.New()
	builtins.Install(it)
	v, err := it.RunProgram(src)
	if err != nil {
		t.Fatalf("RunProgram(%q): %v", src, err)
	}
	return v
}

func runErr(t *testing.T, src string) error {
	t.Helper()
	it := interp.New()
	builtins.Install(it)
	_, err := it.RunProgram(src)
	return err
}

func wantNumber(t *testing.T, v interp.Value, want float64) {
	t.Helper()
	n, ok := v.(interp.Number)
	if !ok {
		t.Fatalf("result = %#v (%T), want interp.Number", v, v)
	}
	if float64(n) != want {
		t.Errorf("result = %v, want %v", n, want)
	}
}

func wantString(t *testing.T, v interp.Value, want string) {
	t.Helper()
	s, ok := v.(interp.String)
	if !ok {
		t.Fatalf("result = %#v (%T), want interp.String", v, v)
	}
	if string(s) != want {
		t.Errorf("result = %q, want %q", s, want)
	}
}

func TestEval_VarIsHoistedToUndefined(t *testing.T) {
	// `var` declarations are hoisted to the top of their function/script
	// scope and initialized to undefined, so referencing one before its
	// assignment is legal and yields "undefined", not a ReferenceError.
	wantString(t, run(t, "var before = typeof hoisted; var hoisted = 1; before"), "undefined")
}

func TestEval_LetTemporalDeadZone(t *testing.T) {
	// Referencing a `let` binding before its declaration executes must
	// throw a ReferenceError (TDZ), unlike `var`.
	if err := runErr(t, "y; let y = 1;"); err == nil {
		t.Error("expected referencing `y` before its `let` declaration to throw")
	}
}

func TestEval_ClosuresCaptureByReference(t *testing.T) {
	src := `
	function makeCounter() {
		let n = 0;
		return function() { return ++n; };
	}
	let c = makeCounter();
	c(); c(); c();
	`
	wantNumber(t, run(t, src), 3)
}

func TestEval_ForLoopPerIterationBinding(t *testing.T) {
	// each `let` iteration of a for-loop gets its own binding, so closures
	// created in the loop body each capture a distinct `i`.
	src := `
	let fns = [];
	for (let i = 0; i < 3; i++) {
		fns.push(function() { return i; });
	}
	fns[0]() + fns[1]() + fns[2]();
	`
	wantNumber(t, run(t, src), 3)
}

func TestEval_ClassInheritanceAndSuper(t *testing.T) {
	src := `
	class Animal {
		constructor(name) { this.name = name; }
		speak() { return this.name + ' makes a sound'; }
	}
	class Dog extends Animal {
		speak() { return super.speak() + ', woof'; }
	}
	new Dog('Rex').speak();
	`
	wantString(t, run(t, src), "Rex makes a sound, woof")
}

func TestEval_DestructuringWithDefaultsInParams(t *testing.T) {
	src := `
	function f({a, b = 10} = {}) { return a + b; }
	f({a: 1});
	`
	wantNumber(t, run(t, src), 11)
}

func TestEval_OptionalChainingShortCircuitsOnNullish(t *testing.T) {
	wantString(t, run(t, "typeof (null?.foo.bar)"), "undefined")
}

func TestEval_NullishCoalescingDoesNotTreatFalsyAsNullish(t *testing.T) {
	wantNumber(t, run(t, "0 ?? 5"), 0)
}

func TestEval_TryCatchFinallyOrdering(t *testing.T) {
	src := `
	let log = [];
	function f() {
		try {
			throw new Error('boom');
		} catch (e) {
			log.push('catch:' + e.message);
			return 1;
		} finally {
			log.push('finally');
		}
	}
	f();
	log.join(',');
	`
	wantString(t, run(t, src), "catch:boom,finally")
}

func TestEval_SwitchFallthrough(t *testing.T) {
	src := `
	function classify(n) {
		let out = [];
		switch (n) {
			case 1:
				out.push('one');
			case 2:
				out.push('two');
				break;
			default:
				out.push('other');
		}
		return out.join(',');
	}
	classify(1);
	`
	wantString(t, run(t, src), "one,two")
}

func TestEval_TemplateLiteralInterpolation(t *testing.T) {
	wantString(t, run(t, "let x = 3; `value is ${x * 2}`"), "value is 6")
}

func TestEval_ThrowingTypeErrorForCallingNonFunction(t *testing.T) {
	err := runErr(t, "let x = 5; x();")
	if err == nil {
		t.Fatal("expected calling a number to throw")
	}
	if !strings.Contains(err.Error(), "TypeError") {
		t.Errorf("expected a TypeError, got: %v", err)
	}
}

func TestEval_ConstReassignmentThrows(t *testing.T) {
	if err := runErr(t, "const x = 1; x = 2;"); err == nil {
		t.Error("expected reassigning a const binding to throw")
	}
}
