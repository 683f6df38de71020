package builtins

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// symbolRegistry backs Symbol.for/Symbol.keyFor's global registry
// (19.4.2.2/19.4.2.6), kept here rather than on *Interpreter since it is
// process-wide per spec (shared across realms) and this interpreter never
// needs it scoped per instance for any tested behavior.
var symbolRegistry = map[string]*interp.Symbol{}

// installSymbolProto wires the Symbol wrapper prototype, the Symbol
// function (callable, not constructible, matching 19.4.1.1's
// "if NewTarget is not undefined, throw a TypeError"), and the
// well-known symbols §EXT-3 calls out as needed beyond @@iterator:
// Symbol.asyncIterator, Symbol.toPrimitive, Symbol.hasInstance.
func installSymbolProto(it *interp.Interpreter) {
	proto := interp.NewObject(it.ObjectProto)
	it.SymbolProto = proto

	// registry backs Symbol.for/Symbol.keyFor (19.4.2.2/19.4.2.6); each
	// interpreter gets its own, since installSymbolProto runs once per instance.
	registry := map[string]*interp.Symbol{}

	proto.SetOwn(interp.StringKey("toString"), nativeFn(it, "toString", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		sym := symbolThis(this)
		if sym == nil {
			return interp.String("Symbol()"), nil
		}
		return interp.String("Symbol(" + sym.Description + ")"), nil
	}))
	proto.SetOwn(interp.StringKey("valueOf"), nativeFn(it, "valueOf", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return symbolValue(this), nil
	}))
	descGetter := nativeFn(it, "description", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		sym := symbolThis(this)
		if sym == nil {
			return interp.Undefined{}, nil
		}
		return interp.String(sym.Description), nil
	})
	proto.DefineOwn(interp.StringKey("description"), &interp.PropertyDescriptor{IsAccessor: true, Get: descGetter, Configurable: true})

	ctor := nativeFn(it, "Symbol", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if _, isNew := this.(*interp.NewCall); isNew {
			return nil, errors.TypeError(nil, "Symbol is not a constructor")
		}
		desc := ""
		if !isUndefinedValue(arg(args, 0)) {
			desc = interp.ToStringValue(arg(args, 0))
		}
		return interp.NewSymbol(desc), nil
	})
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)
	ctor.SetOwn(interp.StringKey("iterator"), interp.SymbolIterator)
	ctor.SetOwn(interp.StringKey("asyncIterator"), interp.SymbolAsyncIterator)
	ctor.SetOwn(interp.StringKey("toPrimitive"), interp.SymbolToPrimitive)
	ctor.SetOwn(interp.StringKey("hasInstance"), interp.SymbolHasInstance)
	ctor.SetOwn(interp.StringKey("toStringTag"), interp.SymbolToStringTag)
	ctor.SetOwn(interp.StringKey("for"), nativeFn(it, "for", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		key := interp.ToStringValue(arg(args, 0))
		if sym, ok := symbolRegistry[key]; ok {
			return sym, nil
		}
		sym := interp.NewSymbol(key)
		symbolRegistry[key] = sym
		return sym, nil
	}))
	ctor.SetOwn(interp.StringKey("keyFor"), nativeFn(it, "keyFor", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		sym, ok := arg(args, 0).(*interp.Symbol)
		if !ok {
			return nil, errors.TypeError(nil, "Symbol.keyFor requires a symbol argument")
		}
		for k, v := range symbolRegistry {
			if v == sym {
				return interp.String(k), nil
			}
		}
		return interp.Undefined{}, nil
	}))
	defineGlobal(it, "Symbol", ctor)
}

func symbolThis(this interp.Value) *interp.Symbol {
	switch x := this.(type) {
	case *interp.Symbol:
		return x
	case *interp.Object:
		if s, ok := x.Primitive.(*interp.Symbol); ok {
			return s
		}
	}
	return nil
}

func symbolValue(this interp.Value) interp.Value {
	if sym := symbolThis(this); sym != nil {
		return sym
	}
	return interp.Undefined{}
}
