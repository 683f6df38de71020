package builtins

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// installCollections wires Map/Set atop interp.OrderedMap (SameValueZero
// keyed, insertion-order iteration), plus the weak collections and
// FinalizationRegistry as identity-keyed variants — this interpreter never
// garbage-collects script objects out from under a live reference, so "weak"
// here means "not iterable", not "actually unreferenced-collectible".
func installCollections(it *interp.Interpreter) {
	installMap(it)
	installSet(it)
	installWeakMap(it)
	installWeakSet(it)
	installWeakRef(it)
	installFinalizationRegistry(it)
}

func mapThis(this interp.Value, method string) (*interp.Object, error) {
	obj, ok := this.(*interp.Object)
	if !ok || obj.MapData == nil {
		return nil, errors.TypeError(nil, "Method "+method+" called on incompatible receiver")
	}
	return obj, nil
}

func installMap(it *interp.Interpreter) {
	proto := interp.NewObject(it.ObjectProto)
	it.MapProto = proto

	proto.SetOwn(interp.StringKey("get"), nativeFn(it, "get", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "Map.prototype.get")
		if err != nil {
			return nil, err
		}
		v, ok := obj.MapData.Get(arg(args, 0))
		if !ok {
			return interp.Undefined{}, nil
		}
		return v, nil
	}))
	proto.SetOwn(interp.StringKey("set"), nativeFn(it, "set", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "Map.prototype.set")
		if err != nil {
			return nil, err
		}
		obj.MapData.Set(arg(args, 0), arg(args, 1))
		return obj, nil
	}))
	proto.SetOwn(interp.StringKey("has"), nativeFn(it, "has", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "Map.prototype.has")
		if err != nil {
			return nil, err
		}
		return interp.Boolean(obj.MapData.Has(arg(args, 0))), nil
	}))
	proto.SetOwn(interp.StringKey("delete"), nativeFn(it, "delete", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "Map.prototype.delete")
		if err != nil {
			return nil, err
		}
		return interp.Boolean(obj.MapData.Delete(arg(args, 0))), nil
	}))
	proto.SetOwn(interp.StringKey("clear"), nativeFn(it, "clear", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "Map.prototype.clear")
		if err != nil {
			return nil, err
		}
		obj.MapData.Clear()
		return interp.Undefined{}, nil
	}))
	proto.DefineOwn(interp.StringKey("size"), &interp.PropertyDescriptor{
		IsAccessor: true,
		Get: nativeFn(it, "size", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
			obj, err := mapThis(this, "Map.prototype.size")
			if err != nil {
				return nil, err
			}
			return interp.Number(float64(obj.MapData.Size())), nil
		}),
		Configurable: true,
	})
	proto.SetOwn(interp.StringKey("forEach"), nativeFn(it, "forEach", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "Map.prototype.forEach")
		if err != nil {
			return nil, err
		}
		cb, ok := arg(args, 0).(*interp.Object)
		if !ok || cb.Class != interp.ClassFunction {
			return nil, errors.TypeError(nil, "callback is not a function")
		}
		for _, k := range obj.MapData.Keys() {
			v, _ := obj.MapData.Get(k)
			if _, err := it.Call(cb, arg(args, 1), []interp.Value{v, k, obj}); err != nil {
				return nil, err
			}
		}
		return interp.Undefined{}, nil
	}))
	proto.SetOwn(interp.StringKey("keys"), nativeFn(it, "keys", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "Map.prototype.keys")
		if err != nil {
			return nil, err
		}
		keys := obj.MapData.Keys()
		i := 0
		return it.MakeIteratorObject(it.ArrayIteratorProto, func() (interp.Value, bool) {
			if i >= len(keys) {
				return interp.Undefined{}, true
			}
			k := keys[i]
			i++
			return k, false
		}), nil
	}))
	proto.SetOwn(interp.StringKey("values"), nativeFn(it, "values", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "Map.prototype.values")
		if err != nil {
			return nil, err
		}
		keys := obj.MapData.Keys()
		i := 0
		return it.MakeIteratorObject(it.ArrayIteratorProto, func() (interp.Value, bool) {
			if i >= len(keys) {
				return interp.Undefined{}, true
			}
			v, _ := obj.MapData.Get(keys[i])
			i++
			return v, false
		}), nil
	}))
	entriesFn := nativeFn(it, "entries", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "Map.prototype.entries")
		if err != nil {
			return nil, err
		}
		keys := obj.MapData.Keys()
		i := 0
		return it.MakeIteratorObject(it.ArrayIteratorProto, func() (interp.Value, bool) {
			if i >= len(keys) {
				return interp.Undefined{}, true
			}
			k := keys[i]
			v, _ := obj.MapData.Get(k)
			i++
			return interp.NewArray(it.ArrayProto, []interp.Value{k, v}), false
		}), nil
	})
	proto.SetOwn(interp.StringKey("entries"), entriesFn)
	proto.SetOwn(interp.SymbolKey(interp.SymbolIterator), entriesFn)

	ctor := nativeFn(it, "Map", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if _, isNew := this.(*interp.NewCall); !isNew {
			return nil, errors.TypeError(nil, "Constructor Map requires 'new'")
		}
		obj := &interp.Object{Proto: proto, Class: interp.ClassMap, Extensible: true, MapData: interp.NewOrderedMap()}
		if !isNullish(arg(args, 0)) {
			items, err := it.IterableToSlice(arg(args, 0))
			if err != nil {
				return nil, err
			}
			for _, item := range items {
				pair, ok := item.(*interp.Object)
				if !ok {
					return nil, errors.TypeError(nil, "Iterator value is not an entry object")
				}
				obj.MapData.Set(pair.Get(interp.StringKey("0"), pair), pair.Get(interp.StringKey("1"), pair))
			}
		}
		return obj, nil
	})
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)
	defineGlobal(it, "Map", ctor)
}

func installSet(it *interp.Interpreter) {
	proto := interp.NewObject(it.ObjectProto)
	it.SetProto = proto

	proto.SetOwn(interp.StringKey("add"), nativeFn(it, "add", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "Set.prototype.add")
		if err != nil {
			return nil, err
		}
		obj.MapData.Set(arg(args, 0), arg(args, 0))
		return obj, nil
	}))
	proto.SetOwn(interp.StringKey("has"), nativeFn(it, "has", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "Set.prototype.has")
		if err != nil {
			return nil, err
		}
		return interp.Boolean(obj.MapData.Has(arg(args, 0))), nil
	}))
	proto.SetOwn(interp.StringKey("delete"), nativeFn(it, "delete", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "Set.prototype.delete")
		if err != nil {
			return nil, err
		}
		return interp.Boolean(obj.MapData.Delete(arg(args, 0))), nil
	}))
	proto.SetOwn(interp.StringKey("clear"), nativeFn(it, "clear", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "Set.prototype.clear")
		if err != nil {
			return nil, err
		}
		obj.MapData.Clear()
		return interp.Undefined{}, nil
	}))
	proto.DefineOwn(interp.StringKey("size"), &interp.PropertyDescriptor{
		IsAccessor: true,
		Get: nativeFn(it, "size", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
			obj, err := mapThis(this, "Set.prototype.size")
			if err != nil {
				return nil, err
			}
			return interp.Number(float64(obj.MapData.Size())), nil
		}),
		Configurable: true,
	})
	proto.SetOwn(interp.StringKey("forEach"), nativeFn(it, "forEach", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "Set.prototype.forEach")
		if err != nil {
			return nil, err
		}
		cb, ok := arg(args, 0).(*interp.Object)
		if !ok || cb.Class != interp.ClassFunction {
			return nil, errors.TypeError(nil, "callback is not a function")
		}
		for _, k := range obj.MapData.Keys() {
			if _, err := it.Call(cb, arg(args, 1), []interp.Value{k, k, obj}); err != nil {
				return nil, err
			}
		}
		return interp.Undefined{}, nil
	}))
	valuesFn := nativeFn(it, "values", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "Set.prototype.values")
		if err != nil {
			return nil, err
		}
		keys := obj.MapData.Keys()
		i := 0
		return it.MakeIteratorObject(it.ArrayIteratorProto, func() (interp.Value, bool) {
			if i >= len(keys) {
				return interp.Undefined{}, true
			}
			v := keys[i]
			i++
			return v, false
		}), nil
	})
	proto.SetOwn(interp.StringKey("values"), valuesFn)
	proto.SetOwn(interp.StringKey("keys"), valuesFn)
	proto.SetOwn(interp.SymbolKey(interp.SymbolIterator), valuesFn)
	proto.SetOwn(interp.StringKey("entries"), nativeFn(it, "entries", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "Set.prototype.entries")
		if err != nil {
			return nil, err
		}
		keys := obj.MapData.Keys()
		i := 0
		return it.MakeIteratorObject(it.ArrayIteratorProto, func() (interp.Value, bool) {
			if i >= len(keys) {
				return interp.Undefined{}, true
			}
			v := keys[i]
			i++
			return interp.NewArray(it.ArrayProto, []interp.Value{v, v}), false
		}), nil
	}))

	ctor := nativeFn(it, "Set", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if _, isNew := this.(*interp.NewCall); !isNew {
			return nil, errors.TypeError(nil, "Constructor Set requires 'new'")
		}
		obj := &interp.Object{Proto: proto, Class: interp.ClassSet, Extensible: true, MapData: interp.NewOrderedMap()}
		if !isNullish(arg(args, 0)) {
			items, err := it.IterableToSlice(arg(args, 0))
			if err != nil {
				return nil, err
			}
			for _, item := range items {
				obj.MapData.Set(item, item)
			}
		}
		return obj, nil
	})
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)
	defineGlobal(it, "Set", ctor)
}

// installWeakMap builds a WeakMap with the same get/set/has/delete surface
// as Map (no forEach, no size, no iteration — WeakMap never exposes its
// entry set). Keys aren't restricted to objects the way the real spec
// requires, since this interpreter has no way to actually weakly collect
// them anyway and rejecting primitive keys buys nothing observable.
func installWeakMap(it *interp.Interpreter) {
	proto := interp.NewObject(it.ObjectProto)
	it.WeakMapProto = proto

	proto.SetOwn(interp.StringKey("get"), nativeFn(it, "get", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "WeakMap.prototype.get")
		if err != nil {
			return nil, err
		}
		v, ok := obj.MapData.Get(arg(args, 0))
		if !ok {
			return interp.Undefined{}, nil
		}
		return v, nil
	}))
	proto.SetOwn(interp.StringKey("set"), nativeFn(it, "set", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "WeakMap.prototype.set")
		if err != nil {
			return nil, err
		}
		obj.MapData.Set(arg(args, 0), arg(args, 1))
		return obj, nil
	}))
	proto.SetOwn(interp.StringKey("has"), nativeFn(it, "has", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "WeakMap.prototype.has")
		if err != nil {
			return nil, err
		}
		return interp.Boolean(obj.MapData.Has(arg(args, 0))), nil
	}))
	proto.SetOwn(interp.StringKey("delete"), nativeFn(it, "delete", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "WeakMap.prototype.delete")
		if err != nil {
			return nil, err
		}
		return interp.Boolean(obj.MapData.Delete(arg(args, 0))), nil
	}))

	ctor := nativeFn(it, "WeakMap", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if _, isNew := this.(*interp.NewCall); !isNew {
			return nil, errors.TypeError(nil, "Constructor WeakMap requires 'new'")
		}
		obj := &interp.Object{Proto: proto, Class: interp.ClassWeakMap, Extensible: true, MapData: interp.NewOrderedMap()}
		if !isNullish(arg(args, 0)) {
			items, err := it.IterableToSlice(arg(args, 0))
			if err != nil {
				return nil, err
			}
			for _, item := range items {
				pair, ok := item.(*interp.Object)
				if !ok {
					return nil, errors.TypeError(nil, "Iterator value is not an entry object")
				}
				obj.MapData.Set(pair.Get(interp.StringKey("0"), pair), pair.Get(interp.StringKey("1"), pair))
			}
		}
		return obj, nil
	})
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)
	defineGlobal(it, "WeakMap", ctor)
}

func installWeakSet(it *interp.Interpreter) {
	proto := interp.NewObject(it.ObjectProto)
	it.WeakSetProto = proto

	proto.SetOwn(interp.StringKey("add"), nativeFn(it, "add", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "WeakSet.prototype.add")
		if err != nil {
			return nil, err
		}
		obj.MapData.Set(arg(args, 0), arg(args, 0))
		return obj, nil
	}))
	proto.SetOwn(interp.StringKey("has"), nativeFn(it, "has", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "WeakSet.prototype.has")
		if err != nil {
			return nil, err
		}
		return interp.Boolean(obj.MapData.Has(arg(args, 0))), nil
	}))
	proto.SetOwn(interp.StringKey("delete"), nativeFn(it, "delete", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := mapThis(this, "WeakSet.prototype.delete")
		if err != nil {
			return nil, err
		}
		return interp.Boolean(obj.MapData.Delete(arg(args, 0))), nil
	}))

	ctor := nativeFn(it, "WeakSet", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if _, isNew := this.(*interp.NewCall); !isNew {
			return nil, errors.TypeError(nil, "Constructor WeakSet requires 'new'")
		}
		obj := &interp.Object{Proto: proto, Class: interp.ClassWeakSet, Extensible: true, MapData: interp.NewOrderedMap()}
		if !isNullish(arg(args, 0)) {
			items, err := it.IterableToSlice(arg(args, 0))
			if err != nil {
				return nil, err
			}
			for _, item := range items {
				obj.MapData.Set(item, item)
			}
		}
		return obj, nil
	})
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)
	defineGlobal(it, "WeakSet", ctor)
}

// installWeakRef gives WeakRef.prototype.deref a permanent referent: since
// nothing here ever collects a script object, deref always succeeds, which
// is a conservative (spec-legal) approximation of "the referent may have
// been collected".
func installWeakRef(it *interp.Interpreter) {
	proto := interp.NewObject(it.ObjectProto)
	it.WeakRefProto = proto

	proto.SetOwn(interp.StringKey("deref"), nativeFn(it, "deref", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, ok := this.(*interp.Object)
		if !ok || obj.Class != interp.ClassWeakRef {
			return nil, errors.TypeError(nil, "WeakRef.prototype.deref called on incompatible receiver")
		}
		return obj.Primitive, nil
	}))

	ctor := nativeFn(it, "WeakRef", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if _, isNew := this.(*interp.NewCall); !isNew {
			return nil, errors.TypeError(nil, "Constructor WeakRef requires 'new'")
		}
		target, ok := arg(args, 0).(*interp.Object)
		if !ok {
			return nil, errors.TypeError(nil, "WeakRef target must be an object")
		}
		return &interp.Object{Proto: proto, Class: interp.ClassWeakRef, Extensible: true, Primitive: target}, nil
	})
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)
	defineGlobal(it, "WeakRef", ctor)
}

// installFinalizationRegistry wires a FinalizationRegistry whose callback
// never fires: without real GC integration there is no collection event to
// observe. register only checks that its receiver is an object and records
// nothing; unregister always returns false.
func installFinalizationRegistry(it *interp.Interpreter) {
	proto := interp.NewObject(it.ObjectProto)

	proto.SetOwn(interp.StringKey("register"), nativeFn(it, "register", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if _, ok := this.(*interp.Object); !ok {
			return nil, errors.TypeError(nil, "FinalizationRegistry.prototype.register called on incompatible receiver")
		}
		return interp.Undefined{}, nil
	}))
	proto.SetOwn(interp.StringKey("unregister"), nativeFn(it, "unregister", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.Boolean(false), nil
	}))

	ctor := nativeFn(it, "FinalizationRegistry", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if _, isNew := this.(*interp.NewCall); !isNew {
			return nil, errors.TypeError(nil, "Constructor FinalizationRegistry requires 'new'")
		}
		cb, ok := arg(args, 0).(*interp.Object)
		if !ok || cb.Class != interp.ClassFunction {
			return nil, errors.TypeError(nil, "cleanup callback is not a function")
		}
		return interp.NewObject(proto), nil
	})
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)
	defineGlobal(it, "FinalizationRegistry", ctor)
}
