// Package jsi is the host-facing embeddable surface: construct an
// interpreter instance, evaluate a source string synchronously or
// asynchronously, set a global binding, install a module loader/resolver,
// and run pending async tasks. It keeps a thin functional-options
// constructor (New(opts...) (*Engine, error), Engine.Eval(src) (Result,
// error), SetOutput, RegisterFunction) over the ECMAScript semantics
// internal/interp and internal/builtins implement.
package jsi

import (
	"context"
	"fmt"
	"io"

	"github.com/kodjodevf/js-interpreter-sub002/internal/builtins"
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
	"github.com/kodjodevf/js-interpreter-sub002/internal/parser"
)

// Engine wraps one independent interpreter instance. Every Engine owns its
// own *interp.Interpreter; the few package-level variables internal/interp
// keeps (listed on interp.Interpreter) are shared by all Engines.
type Engine struct {
	it *interp.Interpreter
}

// Option configures an Engine at construction time via the usual
// functional-options pattern (WithOutput, WithGlobal, ...).
type Option func(*Engine)

// WithOutput redirects console.log/warn/error and uncaught timer-callback
// diagnostics to w instead of os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(e *Engine) { e.it.Output = w }
}

// WithGlobal pre-installs a global binding before any script runs, for
// callers that want to configure globals without a separate SetGlobal call.
func WithGlobal(name string, value any) Option {
	return func(e *Engine) { _ = e.SetGlobal(name, value) }
}

// New constructs an Engine with every well-known prototype and global
// installed (internal/builtins.Install), ready to evaluate script source.
func New(opts ...Option) (*Engine, error) {
	it := interp.New()
	builtins.Install(it)
	e := &Engine{it: it}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Result is the outcome of one Eval/EvalAsync call: the completion value
// (per §9's documented deviation, a top-level function/class declaration's
// own value rather than undefined) alongside a pre-rendered string the way
// a REPL or CLI would display it.
type Result struct {
	Value  any
	Output string
}

func newResult(it *interp.Interpreter, v interp.Value) Result {
	return Result{Value: ValueToGo(v), Output: interp.InspectValue(v)}
}

// Eval parses and evaluates src synchronously against this Engine's global
// scope, without draining the microtask/macrotask queues (scripts that only
// use synchronous constructs need nothing more; for Promise/setTimeout-using
// code use EvalAsync or call RunPendingTasks afterward).
func (e *Engine) Eval(src string) (Result, error) {
	v, err := e.it.RunProgram(src)
	if err != nil {
		return Result{}, wrapError(err)
	}
	return newResult(e.it, v), nil
}

// EvalAsync evaluates src, then drains the microtask and macrotask queues to
// completion (§4.4/§4.5's ordering guarantees), following the completion
// value through one Promise resolution if it is itself a Promise — the
// "future resolves to the completion value with microtasks drained" host
// contract from §6. ctx is checked only before the run starts; per §5,
// "Host-triggered cancellation of evaluate-async is out of scope" — the
// interpreter is single-threaded and cooperative, so there is no safe point
// to interrupt a run already in progress without corrupting its state.
func (e *Engine) EvalAsync(ctx context.Context, src string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	v, err := e.it.RunProgram(src)
	if err != nil {
		return Result{}, wrapError(err)
	}
	e.it.RunEventLoop()
	if p, ok := v.(*interp.Object); ok && p.Promise != nil {
		switch p.Promise.State {
		case interp.PromiseFulfilled:
			return newResult(e.it, p.Promise.Result), nil
		case interp.PromiseRejected:
			return Result{}, wrapError(e.it.ValueToError(p.Promise.Result))
		}
	}
	return newResult(e.it, v), nil
}

// RunPendingTasks drains the microtask queue then runs every macrotask
// (setTimeout/setInterval/dynamic-import callbacks) that becomes due, per
// §6's "drain the microtask and macrotask queues until empty."
func (e *Engine) RunPendingTasks() {
	e.it.RunEventLoop()
}

// SetGlobal installs a host-provided value as a global binding, visible
// both as a bare identifier and as globalThis.<name>. A Go func value is
// wrapped as a native callable via reflection (ReflectFunc).
func (e *Engine) SetGlobal(name string, value any) error {
	v, err := GoToValue(e.it, value)
	if err != nil {
		return fmt.Errorf("jsi: SetGlobal %q: %w", name, err)
	}
	e.it.Global.DeclareVar(name, v)
	if e.it.GlobalObject != nil {
		e.it.GlobalObject.SetOwn(interp.StringKey(name), v)
	}
	return nil
}

// ModuleLoader fetches module source text for a resolved module id.
type ModuleLoader = interp.ModuleLoader

// ModuleResolver rewrites an import specifier relative to its importer.
type ModuleResolver = interp.ModuleResolver

// SetModuleLoader installs the host's module-source-fetching hook, used by
// dynamic `import(spec)` (§4.5).
func (e *Engine) SetModuleLoader(fn ModuleLoader) { e.it.ModuleLoader = fn }

// SetModuleResolver installs the host's specifier-rewriting hook.
func (e *Engine) SetModuleResolver(fn ModuleResolver) { e.it.ModuleResolver = fn }

// SetOutput redirects console output after construction.
func (e *Engine) SetOutput(w io.Writer) { e.it.Output = w }

// Interpreter exposes the underlying *interp.Interpreter for advanced host
// code (custom builtins packages, test harnesses) that needs it directly.
func (e *Engine) Interpreter() *interp.Interpreter { return e.it }

// wrapError normalizes a Go error from the interpreter into an *EvalError
// the host can type-switch on, per §7's "host-visible policy: the
// synchronous evaluate entrypoint raises the thrown value to the host as a
// typed exception." The source position, when the underlying error carries
// one, travels along on EvalError.Pos so a caller with the original source
// text (the CLI's run/lex/parse commands) can render a caret diagnostic via
// errors.CompilerError instead of a bare message.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	switch e := err.(type) {
	case *errors.RuntimeError:
		return &EvalError{Kind: string(e.Kind), Message: e.Message, Pos: e.Pos, cause: e}
	case *parser.ParseError:
		pos := e.Pos
		return &EvalError{Kind: "SyntaxError", Message: e.Message, Pos: &pos, cause: e}
	case *interp.ThrownValue:
		ee := &EvalError{Kind: "Error", Message: interp.ToStringValue(e.Value), cause: e}
		if top := e.Stack.Top(); top != nil {
			ee.Pos = top.Position
		}
		return ee
	default:
		return &EvalError{Kind: "SyntaxError", Message: err.Error(), cause: err}
	}
}

// EvalError is the typed exception §7 requires the host-visible synchronous
// entrypoint to raise on parse or evaluation failure.
type EvalError struct {
	Kind    string
	Message string
	Pos     *lexer.Position
	cause   error
}

func (e *EvalError) Error() string { return e.Kind + ": " + e.Message }
func (e *EvalError) Unwrap() error { return e.cause }
