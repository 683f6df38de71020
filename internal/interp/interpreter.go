package interp

import (
	"io"
	"os"

	"github.com/kodjodevf/js-interpreter-sub002/internal/ast"
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
	"github.com/kodjodevf/js-interpreter-sub002/internal/parser"
)

// Interpreter owns the mutable state of one evaluation instance: the
// global scope, the well-known prototypes, the microtask/macrotask queues,
// and the host module hooks, all threaded through every visit method from
// one struct, letting multiple independent instances coexist. The
// package-level exceptions, shared by every instance, are currentInterp
// (below), the Symbol id counter and the well-known Symbols in value.go,
// and internal/builtins' Symbol.for registry.
type Interpreter struct {
	Global *Environment

	GlobalObject *Object

	// Well-known prototypes, populated by internal/builtins.Install.
	ObjectProto   *Object
	FunctionProto *Object
	ArrayProto    *Object
	StringProto   *Object
	NumberProto   *Object
	BooleanProto  *Object
	SymbolProto   *Object
	BigIntProto   *Object
	ErrorProto    *Object
	ErrorProtos   map[errors.Kind]*Object
	DateProto     *Object
	RegExpProto   *Object
	PromiseProto  *Object
	MapProto      *Object
	SetProto      *Object
	WeakMapProto  *Object
	WeakSetProto  *Object
	WeakRefProto  *Object
	GeneratorProto      *Object
	AsyncGeneratorProto *Object
	ArrayIteratorProto  *Object
	TypedArrayProto     *Object
	ArrayBufferProto    *Object

	Output io.Writer

	CallStack *errors.CallStack

	microtasks []func()
	macrotasks *macrotaskQueue

	ModuleLoader   ModuleLoader
	ModuleResolver ModuleResolver
	modules        map[string]*Object // moduleId -> exports namespace, memoized

	// currentModuleID is the module id of the module body currently
	// executing (empty for the top-level script), so a relative import
	// specifier resolves against its importer.
	currentModuleID string

	depth int
}

// ModuleLoader fetches module source text for a resolved module id.
type ModuleLoader func(moduleID string) (string, error)

// ModuleResolver rewrites an import specifier relative to the importing
// module's id into a module id the loader understands.
type ModuleResolver func(spec, importer string) (string, error)

const maxCallDepth = 2000

// currentInterp tracks the interpreter instance currently driving
// evaluation, so package-level helpers that don't carry an *Interpreter
// receiver (Object.Get's accessor dispatch, see CallFunctionObject) can
// still reach it. Script execution is single-threaded per *Interpreter
// (generators hand off through channels rather than running concurrently
// with their caller), so one active pointer at a time is sufficient.
var currentInterp *Interpreter

// activate marks it as the active interpreter for the duration of a
// top-level run, returning a restore func for nested/reentrant evaluation
// (e.g. a host embedding multiple engines, or a generator goroutine
// calling back into the same interpreter).
func (it *Interpreter) activate() func() {
	prev := currentInterp
	currentInterp = it
	return func() { currentInterp = prev }
}

// New creates a bare interpreter with no globals installed; callers use
// internal/builtins.Install(it) (or pkg/jsi.New, which does it for them) to
// populate the prototypes and globalThis surface before evaluating code.
func New() *Interpreter {
	it := &Interpreter{
		Global:     NewEnvironment(),
		Output:     os.Stdout,
		CallStack:  errors.NewCallStack(maxCallDepth),
		macrotasks: newMacrotaskQueue(),
		modules:    make(map[string]*Object),
		ErrorProtos: make(map[errors.Kind]*Object),
	}
	return it
}

// RunProgram parses and evaluates a top-level script, draining no queues
// itself (callers decide sync vs. async draining via pkg/jsi.Engine).
func (it *Interpreter) RunProgram(src string) (Value, error) {
	prog, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return it.EvalProgram(prog)
}

// EvalProgram hoists the script's declarations into the global environment
// and evaluates its statement list, tracking the completion value of every
// statement (including declarations) per §9's documented deviation: a
// top-level function/class declaration evaluates to its own value rather
// than undefined.
func (it *Interpreter) EvalProgram(prog *ast.Program) (Value, error) {
	defer it.activate()()
	env := it.Global
	strict := prog.UseStrict
	if err := it.hoistBlockBody(prog.Body, env, strict); err != nil {
		return nil, err
	}
	var last Value = Undefined{}
	for _, stmt := range prog.Body {
		comp, err := it.execStatement(stmt, env, strict)
		if err != nil {
			return nil, err
		}
		switch comp.Kind {
		case FlowThrow:
			return nil, it.completionToError(comp)
		case FlowNormal:
			if comp.Value != nil {
				last = comp.Value
			}
		default:
			// return/break/continue at top level: ECMA-262 forbids it
			// syntactically; the parser should have already rejected it,
			// so treat defensively as a no-op completion.
		}
	}
	return last, nil
}

func (it *Interpreter) completionToError(comp Completion) error {
	return &ThrownValue{Value: comp.Value, Stack: it.CallStack.Snapshot()}
}

// ThrownValue wraps an arbitrary script value thrown via `throw expr;` (or a
// native RuntimeError converted to an Error object) so it can travel through
// Go's error interface back to the host.
type ThrownValue struct {
	Value Value
	Stack errors.StackTrace
}

func (t *ThrownValue) Error() string {
	return ToStringValue(t.Value)
}

// posOf extracts a *lexer.Position for error reporting from any AST node.
func posOf(n ast.Node) *lexer.Position {
	if n == nil {
		return nil
	}
	start, _ := n.Span()
	return &start
}
