// Package builtins populates an *interp.Interpreter with the global
// surface: the well-known prototypes, the constructors that sit on
// globalThis, and the free functions (console, setTimeout/clearTimeout) a
// host script expects to find.
//
// Laid out one concern per file (json_init.go, date_init.go, ...), with
// every installer a function taking the *interp.Interpreter and called in
// a fixed order from Install, over ECMA-262's fixed global object graph.
package builtins

import (
	"math"
	"os"
	"time"

	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// nativeFn is a thin naming convenience over it.NewNativeFunction, saving a
// one-line wrapper at the top of each builtin file rather than repeating the
// receiver call everywhere.
func nativeFn(it *interp.Interpreter, name string, length int, fn interp.NativeFunc) *interp.Object {
	return it.NewNativeFunction(name, length, fn)
}

func nan() float64 { return math.NaN() }

func inf(sign int) float64 { return math.Inf(sign) }

// durationMs converts a setTimeout/setInterval delay (milliseconds, possibly
// fractional or negative per the HTML spec's "clamp to 0") to a time.Duration.
func durationMs(ms float64) time.Duration {
	if math.IsNaN(ms) || ms < 0 {
		ms = 0
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// repeatInterval returns the ScheduleMacrotask interval argument: delay
// again for setInterval's repeating timers, zero (one-shot) for setTimeout.
func repeatInterval(repeating bool, delay time.Duration) time.Duration {
	if repeating {
		return delay
	}
	return 0
}



// Install populates it with every well-known prototype and global binding.
// Safe to call exactly once per *interp.Interpreter (pkg/jsi.New does this
// for every Engine it creates).
func Install(it *interp.Interpreter) {
	installObjectProto(it)
	installFunctionProto(it)
	installErrorProtos(it)
	installArrayProto(it)
	installStringProto(it)
	installNumberProto(it)
	installBooleanProto(it)
	installSymbolProto(it)
	installMath(it)
	installJSON(it)
	installDateProto(it)
	installRegExpProto(it)
	installPromise(it)
	installCollections(it)
	installGeneratorProtos(it)
	installTypedArrays(it)
	installProxyReflect(it)
	installConsoleAndTimers(it)
	installGlobalThis(it)
}

// defineGlobal installs a binding directly on the global environment and,
// mirroring it on GlobalObject, keeps globalThis and the lexical global
// scope pointed at the same value — see §9's documented requirement that
// host-installed globals and globalThis share identity rather than being
// shadow copies of one another.
func defineGlobal(it *interp.Interpreter, name string, v interp.Value) {
	it.Global.DeclareVar(name, v)
	if it.GlobalObject != nil {
		it.GlobalObject.SetOwn(interp.StringKey(name), v)
	}
}

// installGlobalThis creates the globalThis object, backfills it with every
// binding already declared on the global environment (Math, JSON, the
// constructors, ...), and makes future defineGlobal calls keep both in
// sync.
func installGlobalThis(it *interp.Interpreter) {
	if it.GlobalObject == nil {
		it.GlobalObject = interp.NewObject(it.ObjectProto)
	}
	it.Global.ForEachGlobal(func(name string, v interp.Value) {
		it.GlobalObject.SetOwn(interp.StringKey(name), v)
	})
	it.Global.DeclareVar("globalThis", it.GlobalObject)
	it.GlobalObject.SetOwn(interp.StringKey("globalThis"), it.GlobalObject)
	it.Global.DeclareVar("undefined", interp.Undefined{})
	it.Global.DeclareVar("NaN", interp.Number(nan()))
	it.Global.DeclareVar("Infinity", interp.Number(inf(1)))
}

func installConsoleAndTimers(it *interp.Interpreter) {
	console := interp.NewObject(it.ObjectProto)
	logFn := func(prefix string) interp.NativeFunc {
		return func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
			writeConsoleLine(it, prefix, args)
			return interp.Undefined{}, nil
		}
	}
	console.SetOwn(interp.StringKey("log"), nativeFn(it, "log", 0, logFn("")))
	console.SetOwn(interp.StringKey("info"), nativeFn(it, "info", 0, logFn("")))
	console.SetOwn(interp.StringKey("warn"), nativeFn(it, "warn", 0, logFn("WARN: ")))
	console.SetOwn(interp.StringKey("error"), nativeFn(it, "error", 0, logFn("ERROR: ")))
	console.SetOwn(interp.StringKey("debug"), nativeFn(it, "debug", 0, logFn("")))
	defineGlobal(it, "console", console)

	defineGlobal(it, "setTimeout", nativeFn(it, "setTimeout", 1, builtinSetTimeout(false)))
	defineGlobal(it, "setInterval", nativeFn(it, "setInterval", 1, builtinSetTimeout(true)))
	defineGlobal(it, "clearTimeout", nativeFn(it, "clearTimeout", 1, builtinClearTimer))
	defineGlobal(it, "clearInterval", nativeFn(it, "clearInterval", 1, builtinClearTimer))
}

// writeConsoleLine renders args the way V8's console.log does for the
// subset this interpreter supports: the arguments rendered by
// interp.InspectValue (strings unquoted, objects and arrays as structural
// previews) and joined with spaces, written to the interpreter's configured Output writer (wired
// to pkg/jsi.Engine.SetOutput) — a plain io.Writer, not a structured
// logging framework.
func writeConsoleLine(it *interp.Interpreter, prefix string, args []interp.Value) {
	if it.Output == nil {
		it.Output = os.Stdout
	}
	out := prefix
	for i, a := range args {
		if i > 0 {
			out += " "
		}
		out += interp.InspectValue(a)
	}
	out += "\n"
	_, _ = it.Output.Write([]byte(out))
}

func builtinSetTimeout(repeating bool) interp.NativeFunc {
	return func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if len(args) == 0 {
			return nil, errors.TypeError(nil, "setTimeout requires a callback function")
		}
		cb, ok := args[0].(*interp.Object)
		if !ok || cb.Class != interp.ClassFunction {
			return nil, errors.TypeError(nil, "setTimeout callback is not a function")
		}
		delayMs := 0.0
		if len(args) > 1 {
			delayMs = interp.ToNumber(args[1])
		}
		extra := []interp.Value{}
		if len(args) > 2 {
			extra = append(extra, args[2:]...)
		}
		delay := durationMs(delayMs)
		id := it.ScheduleMacrotask(delay, repeatInterval(repeating, delay), func() {
			if _, err := it.Call(cb, interp.Undefined{}, extra); err != nil {
				writeConsoleLine(it, "Uncaught (in timer) ", []interp.Value{it.ErrorToValue(err)})
			}
		})
		return interp.Number(float64(id)), nil
	}
}

func builtinClearTimer(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
	if len(args) == 0 {
		return interp.Undefined{}, nil
	}
	it.CancelMacrotask(int64(interp.ToNumber(args[0])))
	return interp.Undefined{}, nil
}
