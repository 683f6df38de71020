package errors

import (
	"fmt"

	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
)

// Kind enumerates the built-in ECMAScript error constructors the evaluator
// can throw natively (distinct from a thrown arbitrary script value).
type Kind string

const (
	KindError          Kind = "Error"
	KindSyntaxError    Kind = "SyntaxError"
	KindTypeError      Kind = "TypeError"
	KindReferenceError Kind = "ReferenceError"
	KindRangeError     Kind = "RangeError"
	KindEvalError      Kind = "EvalError"
	KindURIError       Kind = "URIError"
)

// RuntimeError is a native error raised by the evaluator itself (as opposed
// to a `throw`n script value), carrying the offending position and the call
// stack at the point of the throw, over the
// Error/TypeError/ReferenceError/RangeError family ECMA-262 specifies.
type RuntimeError struct {
	Kind    Kind
	Message string
	Pos     *lexer.Position
	Stack   StackTrace
}

// NewRuntimeError builds a native error of the given kind at pos.
func NewRuntimeError(kind Kind, pos *lexer.Position, format string, args ...any) *RuntimeError {
	return &RuntimeError{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos}
}

// Error implements the error interface, rendering like a thrown JS error's
// default `toString()` plus a position, matching how the CLI's `run`
// subcommand reports uncaught exceptions.
func (e *RuntimeError) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("%s: %s (at %d:%d)", e.Kind, e.Message, e.Pos.Line, e.Pos.Column)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// WithStack attaches a call-stack snapshot, returning the same error for
// chaining at the throw site.
func (e *RuntimeError) WithStack(stack StackTrace) *RuntimeError {
	e.Stack = stack
	return e
}

func SyntaxError(pos *lexer.Position, format string, args ...any) *RuntimeError {
	return NewRuntimeError(KindSyntaxError, pos, format, args...)
}

func TypeError(pos *lexer.Position, format string, args ...any) *RuntimeError {
	return NewRuntimeError(KindTypeError, pos, format, args...)
}

func ReferenceError(pos *lexer.Position, format string, args ...any) *RuntimeError {
	return NewRuntimeError(KindReferenceError, pos, format, args...)
}

func RangeError(pos *lexer.Position, format string, args ...any) *RuntimeError {
	return NewRuntimeError(KindRangeError, pos, format, args...)
}
