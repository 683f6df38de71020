package jsi_test

import (
	"context"
	"testing"
	"time"

	"github.com/kodjodevf/js-interpreter-sub002/pkg/jsi"
)

// TestEval_ArrayAt mirrors spec scenario 1: Array.prototype.at with a
// negative index, an out-of-range index, and a non-numeric argument that
// coerces to 0.
func TestEval_ArrayAt(t *testing.T) {
	e, err := jsi.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	cases := []struct {
		src  string
		want float64
	}{
		{`[10,20,30,40,50].at(-1)`, 50},
		{`[1,2,3].at("invalid")`, 1},
	}
	for _, c := range cases {
		res, err := e.Eval(c.src)
		if err != nil {
			t.Fatalf("Eval(%q): %v", c.src, err)
		}
		got, ok := res.Value.(float64)
		if !ok || got != c.want {
			t.Errorf("Eval(%q) = %#v, want %v", c.src, res.Value, c.want)
		}
	}

	res, err := e.Eval(`[10,20,30].at(10)`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if res.Value != nil {
		t.Errorf("at(10) out of range = %#v, want nil (undefined)", res.Value)
	}
}

// TestEval_ArrayJoin mirrors spec scenario 2.
func TestEval_ArrayJoin(t *testing.T) {
	e, _ := jsi.New()

	res, err := e.Eval(`Array(3).join("0")`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if res.Value != "00" {
		t.Errorf("Array(3).join(\"0\") = %#v, want \"00\"", res.Value)
	}

	res, err = e.Eval(`[1,undefined,3,null].join("-")`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if res.Value != "1--3-" {
		t.Errorf("join = %#v, want \"1--3-\"", res.Value)
	}
}

// TestEval_ArraySort mirrors spec scenario 3.
func TestEval_ArraySort(t *testing.T) {
	e, _ := jsi.New()

	res, err := e.Eval(`[3,1,10,2].sort((a,b)=>a-b).join(",")`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if res.Value != "1,2,3,10" {
		t.Errorf("sorted with comparator = %#v, want \"1,2,3,10\"", res.Value)
	}

	res, err = e.Eval(`[3,1,10,2].sort().join(",")`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if res.Value != "1,10,2,3" {
		t.Errorf("sorted lexicographically = %#v, want \"1,10,2,3\"", res.Value)
	}
}

// TestEval_ASIOnBreak mirrors spec scenario 4: ASI inserted before a
// restricted-production `break` consuming the next line as a fresh
// statement rather than a label.
func TestEval_ASIOnBreak(t *testing.T) {
	e, _ := jsi.New()
	src := "var x=0; for(var i=0;i<10;i++){ if(i===5) break\n x++ } x"
	res, err := e.Eval(src)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if res.Value != float64(5) {
		t.Errorf("got %#v, want 5", res.Value)
	}
}

// TestEval_LogicalAssignment mirrors spec scenario 5.
func TestEval_LogicalAssignment(t *testing.T) {
	e, _ := jsi.New()
	res, err := e.Eval(`let a=null; a??=10; let b=0; b||=20; let c=true; c&&=false; [a,b,c].join(",")`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if res.Value != "10,20,false" {
		t.Errorf("got %#v, want \"10,20,false\"", res.Value)
	}
}

// TestEval_GeneratorDelegate mirrors spec scenario 6: yield* relaying an
// inner generator's values and adopting its return value.
func TestEval_GeneratorDelegate(t *testing.T) {
	e, _ := jsi.New()
	src := `function* inner(){yield 1; yield 2; return 3;}
	function* outer(){const r=yield* inner(); yield r;}
	[...outer()].join(",")`
	res, err := e.Eval(src)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if res.Value != "1,2,3" {
		t.Errorf("got %#v, want \"1,2,3\"", res.Value)
	}
}

// TestEvalAsync_AsyncFunctionReturn mirrors spec scenario 7: an async
// function's returned Promise resolves to its return value once microtasks
// drain.
func TestEvalAsync_AsyncFunctionReturn(t *testing.T) {
	e, _ := jsi.New()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	res, err := e.EvalAsync(ctx, `async function f(){ return 42; } f()`)
	if err != nil {
		t.Fatalf("EvalAsync: %v", err)
	}
	if res.Value != float64(42) {
		t.Errorf("got %#v, want 42", res.Value)
	}
}

// TestEvalAsync_MicrotasksBeforeMacrotasks mirrors the microtasks-before-
// macrotasks testable property: a setTimeout(fn, 0) callback runs only
// after the Promise microtask chain has fully drained.
func TestEvalAsync_MicrotasksBeforeMacrotasks(t *testing.T) {
	e, _ := jsi.New()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	src := `
	let order = [];
	Promise.resolve().then(() => order.push("microtask"));
	setTimeout(() => order.push("macrotask"), 0);
	order.push("sync");
	order
	`
	_, err := e.EvalAsync(ctx, src)
	if err != nil {
		t.Fatalf("EvalAsync: %v", err)
	}
	res, err := e.Eval(`order.join(",")`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if res.Value != "sync,microtask,macrotask" {
		t.Errorf("ordering = %#v, want \"sync,microtask,macrotask\"", res.Value)
	}
}

// TestSetGlobal_ReflectsOnGlobalThis pins the §9 open-question decision:
// a host-installed global is the same object exposed as globalThis.<name>.
func TestSetGlobal_ReflectsOnGlobalThis(t *testing.T) {
	e, _ := jsi.New()
	if err := e.SetGlobal("myGlobalVar", "hello"); err != nil {
		t.Fatalf("SetGlobal: %v", err)
	}
	res, err := e.Eval(`globalThis.myGlobalVar`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if res.Value != "hello" {
		t.Errorf("globalThis.myGlobalVar = %#v, want \"hello\"", res.Value)
	}
}

// TestSetGlobal_NativeFunction wires a Go func in as a native callable.
func TestSetGlobal_NativeFunction(t *testing.T) {
	e, _ := jsi.New()
	err := e.SetGlobal("addNumbers", func(a, b int64) int64 { return a + b })
	if err != nil {
		t.Fatalf("SetGlobal: %v", err)
	}
	res, err := e.Eval(`addNumbers(40, 2)`)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if res.Value != float64(42) {
		t.Errorf("got %#v, want 42", res.Value)
	}
}

// TestEval_ConstReassignmentFails pins the const-immutability testable
// property.
func TestEval_ConstReassignmentFails(t *testing.T) {
	e, _ := jsi.New()
	_, err := e.Eval(`const x = 1; x = 2;`)
	if err == nil {
		t.Fatal("expected reassigning a const binding to fail")
	}
}

// TestEval_ParseError confirms a syntax error surfaces as a typed EvalError.
func TestEval_ParseError(t *testing.T) {
	e, _ := jsi.New()
	_, err := e.Eval(`let x = ;`)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	var evalErr *jsi.EvalError
	if ok := asEvalError(err, &evalErr); !ok {
		t.Fatalf("expected *jsi.EvalError, got %T", err)
	}
}

func asEvalError(err error, target **jsi.EvalError) bool {
	e, ok := err.(*jsi.EvalError)
	if ok {
		*target = e
	}
	return ok
}
