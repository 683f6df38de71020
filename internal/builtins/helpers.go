package builtins

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// arg returns args[i], or undefined when the caller omitted it — every
// builtin in this package treats missing trailing arguments as undefined
// rather than indexing out of range, matching ECMA-262's "Let x be
// undefined" phrasing for unsupplied parameters.
func arg(args []interp.Value, i int) interp.Value {
	if i < 0 || i >= len(args) {
		return interp.Undefined{}
	}
	return args[i]
}

func isNullish(v interp.Value) bool {
	switch v.(type) {
	case interp.Undefined, interp.Null:
		return true
	}
	return v == nil
}

// thisObject boxes this if it arrived as a primitive (a method called via
// Function.prototype.call with a primitive receiver), matching how plain
// object methods see a boxed `this` in sloppy mode.
func thisObject(it *interp.Interpreter, this interp.Value) *interp.Object {
	if obj, ok := this.(*interp.Object); ok {
		return obj
	}
	return it.BoxPrimitive(this)
}

// toObjectArg implements ToObject for arguments to Object static methods,
// rejecting null/undefined the way Object.keys(null) throws.
func toObjectArg(it *interp.Interpreter, v interp.Value) (*interp.Object, error) {
	if isNullish(v) {
		return nil, errors.TypeError(nil, "Cannot convert undefined or null to object")
	}
	if obj, ok := v.(*interp.Object); ok {
		return obj, nil
	}
	return it.BoxPrimitive(v), nil
}

// propertyKeyArg implements ToPropertyKey (7.1.19): symbols pass through
// identity, everything else coerces to a string key.
func propertyKeyArg(it *interp.Interpreter, v interp.Value) interp.PropertyKey {
	if sym, ok := v.(*interp.Symbol); ok {
		return interp.SymbolKey(sym)
	}
	return interp.StringKey(interp.ToStringValue(v))
}

// throwTypeErrorf is a one-line convenience for the many builtins that
// reject a wrong `this`/argument shape with a formatted TypeError.
func throwTypeErrorf(format string, args ...any) (interp.Value, error) {
	return nil, errors.TypeError(nil, format, args...)
}
