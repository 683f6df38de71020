package builtins

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// installObjectProto wires Object.prototype and the Object constructor's
// static catalogue, built around ECMA-262's descriptor/prototype
// abstract operations (OrdinaryToPrimitive, [[DefineOwnProperty]], ...).
func installObjectProto(it *interp.Interpreter) {
	proto := interp.NewObject(nil)
	it.ObjectProto = proto

	proto.SetOwn(interp.StringKey("hasOwnProperty"), nativeFn(it, "hasOwnProperty", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj := thisObject(it, this)
		key := propertyKeyArg(it, arg(args, 0))
		_, ok := obj.GetOwn(key)
		return interp.Boolean(ok), nil
	}))
	proto.SetOwn(interp.StringKey("isPrototypeOf"), nativeFn(it, "isPrototypeOf", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		other, ok := arg(args, 0).(*interp.Object)
		if !ok {
			return interp.Boolean(false), nil
		}
		self, ok := this.(*interp.Object)
		if !ok {
			return interp.Boolean(false), nil
		}
		for cur := other.Proto; cur != nil; cur = cur.Proto {
			if cur == self {
				return interp.Boolean(true), nil
			}
		}
		return interp.Boolean(false), nil
	}))
	proto.SetOwn(interp.StringKey("propertyIsEnumerable"), nativeFn(it, "propertyIsEnumerable", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj := thisObject(it, this)
		pd, ok := obj.GetOwn(propertyKeyArg(it, arg(args, 0)))
		return interp.Boolean(ok && pd.Enumerable), nil
	}))
	proto.SetOwn(interp.StringKey("toString"), nativeFn(it, "toString", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.String("[object Object]"), nil
	}))
	proto.SetOwn(interp.StringKey("valueOf"), nativeFn(it, "valueOf", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return this, nil
	}))

	ctor := nativeFn(it, "Object", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		v := arg(args, 0)
		if isNullish(v) {
			return interp.NewObject(proto), nil
		}
		if obj, ok := v.(*interp.Object); ok {
			return obj, nil
		}
		return it.BoxPrimitive(v), nil
	})
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)

	ctor.SetOwn(interp.StringKey("keys"), nativeFn(it, "keys", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := toObjectArg(it, arg(args, 0))
		if err != nil {
			return nil, err
		}
		var out []interp.Value
		for _, k := range obj.OwnKeys() {
			if k.Sym != nil {
				continue
			}
			pd, ok := obj.GetOwn(k)
			if !ok || !pd.Enumerable {
				continue
			}
			out = append(out, interp.String(k.Str))
		}
		return interp.NewArray(it.ArrayProto, out), nil
	}))
	ctor.SetOwn(interp.StringKey("values"), nativeFn(it, "values", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := toObjectArg(it, arg(args, 0))
		if err != nil {
			return nil, err
		}
		var out []interp.Value
		for _, k := range obj.OwnKeys() {
			if k.Sym != nil {
				continue
			}
			pd, ok := obj.GetOwn(k)
			if !ok || !pd.Enumerable {
				continue
			}
			out = append(out, obj.Get(k, obj))
		}
		return interp.NewArray(it.ArrayProto, out), nil
	}))
	ctor.SetOwn(interp.StringKey("entries"), nativeFn(it, "entries", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := toObjectArg(it, arg(args, 0))
		if err != nil {
			return nil, err
		}
		var out []interp.Value
		for _, k := range obj.OwnKeys() {
			if k.Sym != nil {
				continue
			}
			pd, ok := obj.GetOwn(k)
			if !ok || !pd.Enumerable {
				continue
			}
			out = append(out, interp.NewArray(it.ArrayProto, []interp.Value{interp.String(k.Str), obj.Get(k, obj)}))
		}
		return interp.NewArray(it.ArrayProto, out), nil
	}))
	ctor.SetOwn(interp.StringKey("fromEntries"), nativeFn(it, "fromEntries", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		entries, err := it.IterableToSlice(arg(args, 0))
		if err != nil {
			return nil, err
		}
		obj := interp.NewObject(proto)
		for _, e := range entries {
			pair, ok := e.(*interp.Object)
			if !ok {
				return nil, errors.TypeError(nil, "Object.fromEntries iterable must yield entry objects")
			}
			k := pair.Get(interp.StringKey("0"), pair)
			v := pair.Get(interp.StringKey("1"), pair)
			ks, serr := it.ToPrimitiveString(k)
			if serr != nil {
				return nil, serr
			}
			obj.SetOwn(interp.StringKey(ks), v)
		}
		return obj, nil
	}))
	ctor.SetOwn(interp.StringKey("assign"), nativeFn(it, "assign", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		target, err := toObjectArg(it, arg(args, 0))
		if err != nil {
			return nil, err
		}
		for _, src := range args[min(1, len(args)):] {
			if isNullish(src) {
				continue
			}
			srcObj, serr := toObjectArg(it, src)
			if serr != nil {
				return nil, serr
			}
			for _, k := range srcObj.OwnKeys() {
				pd, ok := srcObj.GetOwn(k)
				if !ok || !pd.Enumerable {
					continue
				}
				target.SetOwn(k, srcObj.Get(k, srcObj))
			}
		}
		return target, nil
	}))
	ctor.SetOwn(interp.StringKey("create"), nativeFn(it, "create", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		var parent *interp.Object
		switch p := arg(args, 0).(type) {
		case *interp.Object:
			parent = p
		case interp.Null:
			parent = nil
		default:
			return nil, errors.TypeError(nil, "Object prototype may only be an Object or null")
		}
		obj := interp.NewObject(parent)
		if propsArg, ok := arg(args, 1).(*interp.Object); ok {
			applyPropertyDescriptors(it, obj, propsArg)
		}
		return obj, nil
	}))
	ctor.SetOwn(interp.StringKey("getPrototypeOf"), nativeFn(it, "getPrototypeOf", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := toObjectArg(it, arg(args, 0))
		if err != nil {
			return nil, err
		}
		if obj.Proto == nil {
			return interp.Null{}, nil
		}
		return obj.Proto, nil
	}))
	ctor.SetOwn(interp.StringKey("setPrototypeOf"), nativeFn(it, "setPrototypeOf", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, ok := arg(args, 0).(*interp.Object)
		if !ok {
			return arg(args, 0), nil
		}
		switch p := arg(args, 1).(type) {
		case *interp.Object:
			obj.Proto = p
		case interp.Null:
			obj.Proto = nil
		default:
			return nil, errors.TypeError(nil, "Object prototype may only be an Object or null")
		}
		return obj, nil
	}))
	ctor.SetOwn(interp.StringKey("getOwnPropertyNames"), nativeFn(it, "getOwnPropertyNames", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := toObjectArg(it, arg(args, 0))
		if err != nil {
			return nil, err
		}
		var out []interp.Value
		for _, k := range obj.OwnKeys() {
			if k.Sym == nil {
				out = append(out, interp.String(k.Str))
			}
		}
		return interp.NewArray(it.ArrayProto, out), nil
	}))
	ctor.SetOwn(interp.StringKey("getOwnPropertyDescriptor"), nativeFn(it, "getOwnPropertyDescriptor", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := toObjectArg(it, arg(args, 0))
		if err != nil {
			return nil, err
		}
		pd, ok := obj.GetOwn(propertyKeyArg(it, arg(args, 1)))
		if !ok {
			return interp.Undefined{}, nil
		}
		return describeProperty(it, pd), nil
	}))
	ctor.SetOwn(interp.StringKey("defineProperty"), nativeFn(it, "defineProperty", 3, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, ok := arg(args, 0).(*interp.Object)
		if !ok {
			return nil, errors.TypeError(nil, "Object.defineProperty called on non-object")
		}
		descObj, ok := arg(args, 2).(*interp.Object)
		if !ok {
			return nil, errors.TypeError(nil, "Property description must be an object")
		}
		obj.DefineOwn(propertyKeyArg(it, arg(args, 1)), descriptorFromObject(descObj))
		return obj, nil
	}))
	ctor.SetOwn(interp.StringKey("defineProperties"), nativeFn(it, "defineProperties", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, ok := arg(args, 0).(*interp.Object)
		if !ok {
			return nil, errors.TypeError(nil, "Object.defineProperties called on non-object")
		}
		propsArg, ok := arg(args, 1).(*interp.Object)
		if !ok {
			return nil, errors.TypeError(nil, "Properties argument must be an object")
		}
		applyPropertyDescriptors(it, obj, propsArg)
		return obj, nil
	}))
	ctor.SetOwn(interp.StringKey("freeze"), nativeFn(it, "freeze", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if obj, ok := arg(args, 0).(*interp.Object); ok {
			obj.Extensible = false
			for _, k := range obj.OwnKeys() {
				if pd, ok := obj.GetOwn(k); ok {
					pd.Writable = false
					pd.Configurable = false
				}
			}
		}
		return arg(args, 0), nil
	}))
	ctor.SetOwn(interp.StringKey("isFrozen"), nativeFn(it, "isFrozen", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, ok := arg(args, 0).(*interp.Object)
		if !ok {
			return interp.Boolean(true), nil
		}
		if obj.Extensible {
			return interp.Boolean(false), nil
		}
		for _, k := range obj.OwnKeys() {
			if pd, ok := obj.GetOwn(k); ok && (pd.Writable || pd.Configurable) {
				return interp.Boolean(false), nil
			}
		}
		return interp.Boolean(true), nil
	}))
	ctor.SetOwn(interp.StringKey("seal"), nativeFn(it, "seal", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if obj, ok := arg(args, 0).(*interp.Object); ok {
			obj.Extensible = false
			for _, k := range obj.OwnKeys() {
				if pd, ok := obj.GetOwn(k); ok {
					pd.Configurable = false
				}
			}
		}
		return arg(args, 0), nil
	}))
	ctor.SetOwn(interp.StringKey("isSealed"), nativeFn(it, "isSealed", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, ok := arg(args, 0).(*interp.Object)
		if !ok {
			return interp.Boolean(true), nil
		}
		if obj.Extensible {
			return interp.Boolean(false), nil
		}
		for _, k := range obj.OwnKeys() {
			if pd, ok := obj.GetOwn(k); ok && pd.Configurable {
				return interp.Boolean(false), nil
			}
		}
		return interp.Boolean(true), nil
	}))
	ctor.SetOwn(interp.StringKey("preventExtensions"), nativeFn(it, "preventExtensions", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if obj, ok := arg(args, 0).(*interp.Object); ok {
			obj.Extensible = false
		}
		return arg(args, 0), nil
	}))
	ctor.SetOwn(interp.StringKey("isExtensible"), nativeFn(it, "isExtensible", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, ok := arg(args, 0).(*interp.Object)
		return interp.Boolean(ok && obj.Extensible), nil
	}))
	ctor.SetOwn(interp.StringKey("is"), nativeFn(it, "is", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.Boolean(sameValue(arg(args, 0), arg(args, 1))), nil
	}))

	defineGlobal(it, "Object", ctor)
}

// applyPropertyDescriptors defines each own enumerable property of descs as
// a property of obj via Object.defineProperty's algorithm, shared by
// Object.create's second argument and Object.defineProperties.
func applyPropertyDescriptors(it *interp.Interpreter, obj, descs *interp.Object) {
	for _, k := range descs.OwnKeys() {
		pd, ok := descs.GetOwn(k)
		if !ok || !pd.Enumerable {
			continue
		}
		descObj, ok := descs.Get(k, descs).(*interp.Object)
		if !ok {
			continue
		}
		obj.DefineOwn(k, descriptorFromObject(descObj))
	}
}

func descriptorFromObject(descObj *interp.Object) *interp.PropertyDescriptor {
	pd := &interp.PropertyDescriptor{}
	if v, ok := descObj.GetOwn(interp.StringKey("get")); ok {
		pd.IsAccessor = true
		pd.Get, _ = v.Value.(*interp.Object)
	}
	if v, ok := descObj.GetOwn(interp.StringKey("set")); ok {
		pd.IsAccessor = true
		pd.Set, _ = v.Value.(*interp.Object)
	}
	if !pd.IsAccessor {
		if v, ok := descObj.GetOwn(interp.StringKey("value")); ok {
			pd.Value = v.Value
		} else {
			pd.Value = interp.Undefined{}
		}
	}
	if v, ok := descObj.GetOwn(interp.StringKey("writable")); ok {
		pd.Writable = interp.ToBoolean(v.Value)
	}
	if v, ok := descObj.GetOwn(interp.StringKey("enumerable")); ok {
		pd.Enumerable = interp.ToBoolean(v.Value)
	}
	if v, ok := descObj.GetOwn(interp.StringKey("configurable")); ok {
		pd.Configurable = interp.ToBoolean(v.Value)
	}
	return pd
}

func describeProperty(it *interp.Interpreter, pd *interp.PropertyDescriptor) *interp.Object {
	o := interp.NewObject(it.ObjectProto)
	if pd.IsAccessor {
		getV := interp.Value(interp.Undefined{})
		if pd.Get != nil {
			getV = pd.Get
		}
		setV := interp.Value(interp.Undefined{})
		if pd.Set != nil {
			setV = pd.Set
		}
		o.SetOwn(interp.StringKey("get"), getV)
		o.SetOwn(interp.StringKey("set"), setV)
	} else {
		o.SetOwn(interp.StringKey("value"), pd.Value)
		o.SetOwn(interp.StringKey("writable"), interp.Boolean(pd.Writable))
	}
	o.SetOwn(interp.StringKey("enumerable"), interp.Boolean(pd.Enumerable))
	o.SetOwn(interp.StringKey("configurable"), interp.Boolean(pd.Configurable))
	return o
}

func sameValue(a, b interp.Value) bool {
	an, aok := a.(interp.Number)
	bn, bok := b.(interp.Number)
	if aok && bok {
		if float64(an) == 0 && float64(bn) == 0 {
			return isNegZero(float64(an)) == isNegZero(float64(bn))
		}
		return interp.SameValueZero(a, b)
	}
	return interp.StrictEquals(a, b)
}

func isNegZero(f float64) bool {
	return f == 0 && 1/f < 0
}
