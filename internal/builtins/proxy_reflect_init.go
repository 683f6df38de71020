package builtins

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// installProxyReflect wires the Proxy constructor and the Reflect namespace
// object, mirroring this package's own "plain object with free functions
// hung off it" idiom already used for Math and JSON (installMath,
// installJSON).
func installProxyReflect(it *interp.Interpreter) {
	installProxy(it)
	installReflect(it)
}

func installProxy(it *interp.Interpreter) {
	ctor := nativeFn(it, "Proxy", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if _, isNew := this.(*interp.NewCall); !isNew {
			return nil, errors.TypeError(nil, "Constructor Proxy requires 'new'")
		}
		target, ok := arg(args, 0).(*interp.Object)
		if !ok {
			return nil, errors.TypeError(nil, "Cannot create proxy with a non-object as target")
		}
		handler, ok := arg(args, 1).(*interp.Object)
		if !ok {
			return nil, errors.TypeError(nil, "Cannot create proxy with a non-object as handler")
		}
		return it.NewProxyObject(target, handler), nil
	})
	defineGlobal(it, "Proxy", ctor)
}

func installReflect(it *interp.Interpreter) {
	reflect := interp.NewObject(it.ObjectProto)

	def := func(name string, length int, fn interp.NativeFunc) {
		reflect.SetOwn(interp.StringKey(name), nativeFn(it, name, length, fn))
	}

	def("get", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := reflectTargetArg(arg(args, 0))
		if err != nil {
			return nil, err
		}
		key := propertyKeyArg(it, arg(args, 1))
		receiver := arg(args, 0)
		if len(args) > 2 {
			receiver = args[2]
		}
		return obj.Get(key, receiver), nil
	})
	def("set", 3, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := reflectTargetArg(arg(args, 0))
		if err != nil {
			return nil, err
		}
		key := propertyKeyArg(it, arg(args, 1))
		obj.SetOwn(key, arg(args, 2))
		return interp.Boolean(true), nil
	})
	def("has", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := reflectTargetArg(arg(args, 0))
		if err != nil {
			return nil, err
		}
		return interp.Boolean(obj.HasProperty(propertyKeyArg(it, arg(args, 1)))), nil
	})
	def("deleteProperty", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := reflectTargetArg(arg(args, 0))
		if err != nil {
			return nil, err
		}
		return interp.Boolean(obj.DeleteOwn(propertyKeyArg(it, arg(args, 1)))), nil
	})
	def("ownKeys", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := reflectTargetArg(arg(args, 0))
		if err != nil {
			return nil, err
		}
		keys := obj.OwnKeys()
		out := make([]interp.Value, len(keys))
		for i, k := range keys {
			if k.Sym != nil {
				out[i] = k.Sym
			} else {
				out[i] = interp.String(k.Str)
			}
		}
		return interp.NewArray(it.ArrayProto, out), nil
	})
	def("getPrototypeOf", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := reflectTargetArg(arg(args, 0))
		if err != nil {
			return nil, err
		}
		if obj.Proto == nil {
			return interp.Null{}, nil
		}
		return obj.Proto, nil
	})
	def("setPrototypeOf", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := reflectTargetArg(arg(args, 0))
		if err != nil {
			return nil, err
		}
		switch p := arg(args, 1).(type) {
		case *interp.Object:
			obj.Proto = p
		case interp.Null:
			obj.Proto = nil
		default:
			return interp.Boolean(false), nil
		}
		return interp.Boolean(true), nil
	})
	def("isExtensible", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := reflectTargetArg(arg(args, 0))
		if err != nil {
			return nil, err
		}
		return interp.Boolean(obj.Extensible), nil
	})
	def("preventExtensions", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := reflectTargetArg(arg(args, 0))
		if err != nil {
			return nil, err
		}
		obj.Extensible = false
		return interp.Boolean(true), nil
	})
	def("defineProperty", 3, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := reflectTargetArg(arg(args, 0))
		if err != nil {
			return nil, err
		}
		descObj, ok := arg(args, 2).(*interp.Object)
		if !ok {
			return nil, errors.TypeError(nil, "Property description must be an object")
		}
		key := propertyKeyArg(it, arg(args, 1))
		obj.DefineOwn(key, descriptorFromObject(descObj))
		return interp.Boolean(true), nil
	})
	def("getOwnPropertyDescriptor", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := reflectTargetArg(arg(args, 0))
		if err != nil {
			return nil, err
		}
		pd, ok := obj.GetOwn(propertyKeyArg(it, arg(args, 1)))
		if !ok {
			return interp.Undefined{}, nil
		}
		return describeProperty(it, pd), nil
	})
	def("apply", 3, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		fn, ok := arg(args, 0).(*interp.Object)
		if !ok || fn.Class != interp.ClassFunction {
			return nil, errors.TypeError(nil, "Reflect.apply target is not a function")
		}
		var callArgs []interp.Value
		if !isNullish(arg(args, 2)) {
			var err error
			callArgs, err = it.IterableToSlice(arg(args, 2))
			if err != nil {
				return nil, err
			}
		}
		return it.Call(fn, arg(args, 1), callArgs)
	})
	def("construct", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		fn, ok := arg(args, 0).(*interp.Object)
		if !ok || fn.Class != interp.ClassFunction {
			return nil, errors.TypeError(nil, "Reflect.construct target is not a constructor")
		}
		var ctorArgs []interp.Value
		if !isNullish(arg(args, 1)) {
			var err error
			ctorArgs, err = it.IterableToSlice(arg(args, 1))
			if err != nil {
				return nil, err
			}
		}
		newTarget := fn
		if nt, ok := arg(args, 2).(*interp.Object); ok {
			newTarget = nt
		}
		return it.Construct(fn, ctorArgs, newTarget)
	})

	defineGlobal(it, "Reflect", reflect)
}

func reflectTargetArg(v interp.Value) (*interp.Object, error) {
	obj, ok := v.(*interp.Object)
	if !ok {
		return nil, errors.TypeError(nil, "Reflect target must be an object")
	}
	return obj, nil
}
