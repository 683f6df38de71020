package builtins

import "github.com/kodjodevf/js-interpreter-sub002/internal/interp"

// installBooleanProto wires the small Boolean wrapper prototype + constructor;
// §6 names Boolean only as a required global, not as a catalogue, so this
// stays minimal (toString/valueOf, the two methods every wrapper needs).
func installBooleanProto(it *interp.Interpreter) {
	proto := interp.NewObject(it.ObjectProto)
	it.BooleanProto = proto

	proto.SetOwn(interp.StringKey("toString"), nativeFn(it, "toString", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if booleanThis(this) {
			return interp.String("true"), nil
		}
		return interp.String("false"), nil
	}))
	proto.SetOwn(interp.StringKey("valueOf"), nativeFn(it, "valueOf", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.Boolean(booleanThis(this)), nil
	}))

	ctor := nativeFn(it, "Boolean", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		b := interp.ToBoolean(arg(args, 0))
		if _, isNew := this.(*interp.NewCall); isNew {
			return &interp.Object{Proto: proto, Class: interp.ClassBoolean, Primitive: interp.Boolean(b), Extensible: true}, nil
		}
		return interp.Boolean(b), nil
	})
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)
	defineGlobal(it, "Boolean", ctor)
}

func booleanThis(this interp.Value) bool {
	switch x := this.(type) {
	case interp.Boolean:
		return bool(x)
	case *interp.Object:
		if b, ok := x.Primitive.(interp.Boolean); ok {
			return bool(b)
		}
	}
	return interp.ToBoolean(this)
}
