// Package errors implements the error-reporting surfaces the rest of the
// interpreter raises through: positioned runtime errors carrying the
// ECMAScript error kind (SyntaxError/TypeError/ReferenceError/RangeError/...)
// plus a call stack, and source-context formatting for the CLI.
package errors

import (
	"fmt"
	"strings"

	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
)

// StackFrame represents a single frame in a call stack.
// It captures the function being executed and its location in the source code.
type StackFrame struct {
	Position     *lexer.Position
	FunctionName string
	FileName     string
}

// String returns a formatted string representation of the stack frame.
// If position is not available, returns just the function name.
func (sf StackFrame) String() string {
	if sf.Position == nil {
		return sf.FunctionName
	}
	return fmt.Sprintf("%s [line: %d, column: %d]",
		sf.FunctionName, sf.Position.Line, sf.Position.Column)
}

// StackTrace represents a complete call stack as a sequence of frames.
// Frames are ordered from oldest (bottom of stack) to newest (top of stack).
type StackTrace []StackFrame

// String prints the stack most-recent-call-first, one frame per line.
func (st StackTrace) String() string {
	if len(st) == 0 {
		return ""
	}
	var sb strings.Builder
	for i := len(st) - 1; i >= 0; i-- {
		sb.WriteString(st[i].String())
		if i > 0 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Reverse returns a new StackTrace with frames in reverse order.
func (st StackTrace) Reverse() StackTrace {
	reversed := make(StackTrace, len(st))
	for i, frame := range st {
		reversed[len(st)-1-i] = frame
	}
	return reversed
}

// Top returns the most recent (top) frame in the stack, or nil if empty.
func (st StackTrace) Top() *StackFrame {
	if len(st) == 0 {
		return nil
	}
	return &st[len(st)-1]
}

// Bottom returns the oldest (bottom) frame in the stack, or nil if empty.
func (st StackTrace) Bottom() *StackFrame {
	if len(st) == 0 {
		return nil
	}
	return &st[0]
}

// Depth returns the number of frames in the stack.
func (st StackTrace) Depth() int {
	return len(st)
}

// NewStackFrame creates a new stack frame with the given function name and position.
func NewStackFrame(functionName string, fileName string, position *lexer.Position) StackFrame {
	return StackFrame{
		FunctionName: functionName,
		FileName:     fileName,
		Position:     position,
	}
}

// NewStackTrace creates a new empty stack trace.
func NewStackTrace() StackTrace {
	return make(StackTrace, 0)
}

// DefaultMaxCallDepth is the bound NewCallStack uses when given maxDepth <= 0
// (interp.New passes its own bound of 2000). At the bound the interpreter
// raises RangeError("Maximum call stack size exceeded") rather than
// overflowing the host Go stack.
const DefaultMaxCallDepth = 2048

// CallStack tracks function-call nesting during evaluation, for stack-trace
// reporting and recursion-depth enforcement.
type CallStack struct {
	frames   StackTrace
	maxDepth int
}

// NewCallStack creates a call stack bounded at maxDepth (DefaultMaxCallDepth
// if maxDepth <= 0).
func NewCallStack(maxDepth int) *CallStack {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxCallDepth
	}
	return &CallStack{frames: NewStackTrace(), maxDepth: maxDepth}
}

// Push adds a frame, returning an error instead of exceeding maxDepth.
func (cs *CallStack) Push(functionName, fileName string, pos *lexer.Position) error {
	if len(cs.frames) >= cs.maxDepth {
		return fmt.Errorf("Maximum call stack size exceeded in %q", functionName)
	}
	cs.frames = append(cs.frames, NewStackFrame(functionName, fileName, pos))
	return nil
}

// Pop removes the most recent frame; a no-op on an empty stack.
func (cs *CallStack) Pop() {
	if len(cs.frames) > 0 {
		cs.frames = cs.frames[:len(cs.frames)-1]
	}
}

// Depth reports how many frames are currently pushed.
func (cs *CallStack) Depth() int { return len(cs.frames) }

// WillOverflow reports whether one more Push would fail.
func (cs *CallStack) WillOverflow() bool { return len(cs.frames) >= cs.maxDepth }

// Snapshot returns a copy of the current frames, oldest first.
func (cs *CallStack) Snapshot() StackTrace {
	frames := make(StackTrace, len(cs.frames))
	copy(frames, cs.frames)
	return frames
}
