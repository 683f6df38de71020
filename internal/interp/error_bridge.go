package interp

import (
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/kodjodevf/js-interpreter-sub002/internal/ast"
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
)

// errorValueFromGo converts a Go error raised internally (a *RuntimeError
// from an abstract-operation check, or a *ThrownValue already carrying a
// script value) into a catchable script Value, bridging the native
// error-return plumbing into try/catch per §4.3's Reference/exception model.
func (it *Interpreter) errorValueFromGo(err error) Value {
	switch e := err.(type) {
	case *ThrownValue:
		return e.Value
	case *errors.RuntimeError:
		return it.makeErrorObject(e.Kind, e.Message, e.Pos)
	default:
		return it.makeErrorObject(errors.KindError, err.Error(), nil)
	}
}

// makeErrorObject builds a script Error instance of the given native kind,
// using the matching well-known prototype when builtins have installed one.
func (it *Interpreter) makeErrorObject(kind errors.Kind, message string, pos *lexer.Position) *Object {
	proto := it.ErrorProtos[kind]
	if proto == nil {
		proto = it.ErrorProto
	}
	if proto == nil {
		proto = it.ObjectProto
	}
	obj := &Object{Proto: proto, Class: ClassError, props: make(map[string]*PropertyDescriptor), Extensible: true, ErrKind: string(kind), ErrMessage: message}
	obj.DefineOwn(StringKey("message"), &PropertyDescriptor{Value: String(message), Writable: true, Configurable: true})
	stack := string(kind) + ": " + message
	if pos != nil {
		stack += " (" + pos.String() + ")"
	}
	obj.ErrStack = stack
	obj.DefineOwn(StringKey("stack"), &PropertyDescriptor{Value: String(stack), Writable: true, Configurable: true})
	return obj
}

// toPrimitive implements the ToPrimitive abstract operation (7.1.1): objects
// defer to a Symbol.toPrimitive exotic method if present, otherwise try
// valueOf/toString (or the reverse order for a "string" hint).
func (it *Interpreter) toPrimitive(v Value, hint string) (Value, error) {
	obj, ok := v.(*Object)
	if !ok {
		return v, nil
	}
	if exoticV := obj.Get(SymbolKey(SymbolToPrimitive), obj); exoticV != nil {
		if exotic, ok := exoticV.(*Object); ok && exotic.Class == ClassFunction {
			h := hint
			if h == "" {
				h = "default"
			}
			res, err := it.callFunction(exotic, obj, []Value{String(h)})
			if err != nil {
				return nil, err
			}
			if _, isObj := res.(*Object); isObj {
				return nil, errors.TypeError(nil, "Cannot convert object to primitive value")
			}
			return res, nil
		}
	}
	methodNames := [2]string{"valueOf", "toString"}
	if hint == "string" {
		methodNames = [2]string{"toString", "valueOf"}
	}
	for _, name := range methodNames {
		mv := obj.Get(StringKey(name), obj)
		m, ok := mv.(*Object)
		if !ok || m.Class != ClassFunction {
			continue
		}
		res, err := it.callFunction(m, obj, nil)
		if err != nil {
			return nil, err
		}
		if _, isObj := res.(*Object); !isObj {
			return res, nil
		}
	}
	return nil, errors.TypeError(nil, "Cannot convert object to primitive value")
}

func (it *Interpreter) toPrimitiveString(v Value) (string, error) {
	p, err := it.toPrimitive(v, "string")
	if err != nil {
		return "", err
	}
	return ToStringValue(p), nil
}

func (it *Interpreter) toNumberCoerce(v Value) (float64, error) {
	if _, ok := v.(*Object); ok {
		p, err := it.toPrimitive(v, "number")
		if err != nil {
			return 0, err
		}
		return ToNumber(p), nil
	}
	return ToNumber(v), nil
}

// boxPrimitive implements ToObject (7.1.18) for the primitive kinds that can
// be boxed, used whenever a member expression's base is a primitive (method
// lookup walks the corresponding prototype, e.g. `"x".toUpperCase()`).
func (it *Interpreter) boxPrimitive(v Value) *Object {
	switch x := v.(type) {
	case Boolean:
		return &Object{Proto: it.BooleanProto, Class: ClassBoolean, props: make(map[string]*PropertyDescriptor), Extensible: true, Primitive: x}
	case Number:
		return &Object{Proto: it.NumberProto, Class: ClassNumber, props: make(map[string]*PropertyDescriptor), Extensible: true, Primitive: x}
	case String:
		return &Object{Proto: it.StringProto, Class: ClassString, props: make(map[string]*PropertyDescriptor), Extensible: true, Primitive: x}
	case *Symbol:
		return &Object{Proto: it.SymbolProto, Class: ClassSymbolObj, props: make(map[string]*PropertyDescriptor), Extensible: true, Primitive: x}
	case BigInt:
		return &Object{Proto: it.BigIntProto, Class: ClassBigIntObj, props: make(map[string]*PropertyDescriptor), Extensible: true, Primitive: x}
	default:
		return NewObject(it.ObjectProto)
	}
}

// newRegExp compiles a regex literal/constructor argument via regexp2, whose
// .NET-flavored engine is close enough to ECMA-262 regex syntax (backed by
// backtracking rather than RE2's linear automaton, matching lookaheads and
// backreferences scripts may rely on) that translating patterns is
// unnecessary for the subset this interpreter targets.
func (it *Interpreter) newRegExp(pattern, flags string) *Object {
	opts := regexp2.None
	if strings.Contains(flags, "i") {
		opts |= regexp2.IgnoreCase
	}
	if strings.Contains(flags, "m") {
		opts |= regexp2.Multiline
	}
	if strings.Contains(flags, "s") {
		opts |= regexp2.Singleline
	}
	compiled, err := regexp2.Compile(pattern, opts)
	obj := &Object{
		Proto: it.RegExpProto, Class: ClassRegExp, props: make(map[string]*PropertyDescriptor), Extensible: true,
		RegexSource: pattern, RegexFlags: flags,
	}
	if err == nil {
		obj.RegexCompiled = compiled
	}
	obj.DefineOwn(StringKey("lastIndex"), &PropertyDescriptor{Value: Number(0), Writable: true})
	obj.DefineOwn(StringKey("source"), &PropertyDescriptor{Value: String(pattern)})
	obj.DefineOwn(StringKey("flags"), &PropertyDescriptor{Value: String(flags)})
	obj.DefineOwn(StringKey("global"), &PropertyDescriptor{Value: Boolean(strings.Contains(flags, "g"))})
	return obj
}

// assignToTarget resolves target to a Reference and writes v through it,
// the shared tail end of plain identifier assignment, compound assignment,
// and destructuring's "already-declared" (non-lexical) targets.
func (it *Interpreter) assignToTarget(target ast.Expression, v Value, env *Environment, strict bool) error {
	ref, ok, err := it.refTarget(target, env, strict)
	if err != nil {
		return err
	}
	if !ok {
		return errors.SyntaxError(posOf(target), "Invalid assignment target")
	}
	return it.setRef(ref, v, startPosValue(target))
}
