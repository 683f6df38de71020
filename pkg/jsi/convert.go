package jsi

import (
	"fmt"
	"reflect"

	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// GoToValue lifts a Go value into the script value domain, so host code can
// pass ordinary Go data (and functions) to SetGlobal without hand-building
// interp.Value: a Go func is wrapped as a native callable, and plain data
// types get a direct literal mapping rather than full struct/interface
// marshaling (out of scope here — host FFI marshaling beyond that is
// library work, not core evaluator design).
func GoToValue(it *interp.Interpreter, v any) (interp.Value, error) {
	switch x := v.(type) {
	case nil:
		return interp.Null{}, nil
	case interp.Value:
		return x, nil
	case bool:
		return interp.Boolean(x), nil
	case string:
		return interp.String(x), nil
	case int:
		return interp.Number(float64(x)), nil
	case int32:
		return interp.Number(float64(x)), nil
	case int64:
		return interp.Number(float64(x)), nil
	case float32:
		return interp.Number(float64(x)), nil
	case float64:
		return interp.Number(x), nil
	case []any:
		elems := make([]interp.Value, len(x))
		for i, e := range x {
			ev, err := GoToValue(it, e)
			if err != nil {
				return nil, err
			}
			elems[i] = ev
		}
		return interp.NewArray(it.ArrayProto, elems), nil
	case map[string]any:
		obj := interp.NewObject(it.ObjectProto)
		for k, e := range x {
			ev, err := GoToValue(it, e)
			if err != nil {
				return nil, err
			}
			obj.SetOwn(interp.StringKey(k), ev)
		}
		return obj, nil
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Func {
		return ReflectFunc(it, rv), nil
	}
	return nil, fmt.Errorf("unsupported Go value of type %T", v)
}

// ReflectFunc wraps an arbitrary Go func as a native script function via
// reflection: script arguments are converted to the func's declared
// parameter types, and a trailing (T, error)-shaped return surfaces the
// error as a thrown script exception.
func ReflectFunc(it *interp.Interpreter, fn reflect.Value) *interp.Object {
	typ := fn.Type()
	name := "nativeFunc"
	return it.NewNativeFunction(name, typ.NumIn(), func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		in := make([]reflect.Value, typ.NumIn())
		for i := 0; i < typ.NumIn(); i++ {
			var arg interp.Value = interp.Undefined{}
			if i < len(args) {
				arg = args[i]
			}
			gv, err := valueToReflect(it, arg, typ.In(i))
			if err != nil {
				return nil, it.ValueToError(it.ErrorToValue(err))
			}
			in[i] = gv
		}
		out := fn.Call(in)
		return reflectResultsToValue(it, out)
	})
}

func valueToReflect(it *interp.Interpreter, v interp.Value, t reflect.Type) (reflect.Value, error) {
	switch t.Kind() {
	case reflect.String:
		return reflect.ValueOf(interp.ToStringValue(v)).Convert(t), nil
	case reflect.Bool:
		return reflect.ValueOf(interp.ToBoolean(v)).Convert(t), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := it.ToNumberCoerce(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(int64(n)).Convert(t), nil
	case reflect.Float32, reflect.Float64:
		n, err := it.ToNumberCoerce(v)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(n).Convert(t), nil
	case reflect.Interface:
		return reflect.ValueOf(ValueToGo(v)), nil
	default:
		return reflect.Value{}, fmt.Errorf("unsupported native function parameter type %s", t)
	}
}

func reflectResultsToValue(it *interp.Interpreter, out []reflect.Value) (interp.Value, error) {
	if len(out) == 0 {
		return interp.Undefined{}, nil
	}
	last := out[len(out)-1]
	if last.Type().Implements(reflect.TypeOf((*error)(nil)).Elem()) {
		if !last.IsNil() {
			err, _ := last.Interface().(error)
			return nil, it.ValueToError(it.ErrorToValue(err))
		}
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return interp.Undefined{}, nil
	}
	v, err := GoToValue(it, out[0].Interface())
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ValueToGo lowers a script value to a plain Go any, the inverse of
// GoToValue for the primitive/array/object cases, used to populate
// Result.Value the way a host program consumes an Eval outcome.
func ValueToGo(v interp.Value) any {
	switch x := v.(type) {
	case interp.Undefined:
		return nil
	case interp.Null:
		return nil
	case interp.Boolean:
		return bool(x)
	case interp.Number:
		return float64(x)
	case interp.String:
		return string(x)
	case *interp.Symbol:
		return interp.ToStringValue(x)
	case *interp.Object:
		return objectToGo(x)
	default:
		return v
	}
}

func objectToGo(o *interp.Object) any {
	if o == nil {
		return nil
	}
	if o.Class == interp.ClassArray {
		elems := o.Elements
		out := make([]any, len(elems))
		for i, e := range elems {
			out[i] = ValueToGo(e)
		}
		return out
	}
	out := make(map[string]any)
	for _, k := range o.OwnKeys() {
		if k.Sym != nil {
			continue
		}
		out[k.Str] = ValueToGo(o.Get(k, o))
	}
	return out
}
