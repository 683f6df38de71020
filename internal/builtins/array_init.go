package builtins

import (
	"sort"
	"strings"

	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// installArrayProto wires Array.prototype's catalogue (§6's enumerated
// list: at/push/pop/shift/unshift/slice/splice/concat/join/reverse/sort/
// indexOf/lastIndexOf/includes/forEach/map/filter/find/reduce/flat/
// flatMap/keys/values/entries/@@iterator) plus the §EXT-3 supplements
// Array.isArray/Array.of alongside the spec-named Array.from.
func installArrayProto(it *interp.Interpreter) {
	proto := interp.NewObject(it.ObjectProto)
	it.ArrayProto = proto

	def := func(name string, length int, fn interp.NativeFunc) {
		proto.SetOwn(interp.StringKey(name), nativeFn(it, name, length, fn))
	}

	def("push", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := arrayThis(this)
		if err != nil {
			return nil, err
		}
		obj.Elements = append(obj.Elements, args...)
		return interp.Number(float64(len(obj.Elements))), nil
	})
	def("pop", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := arrayThis(this)
		if err != nil {
			return nil, err
		}
		if len(obj.Elements) == 0 {
			return interp.Undefined{}, nil
		}
		last := obj.Elements[len(obj.Elements)-1]
		obj.Elements = obj.Elements[:len(obj.Elements)-1]
		return nonNil(last), nil
	})
	def("shift", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := arrayThis(this)
		if err != nil {
			return nil, err
		}
		if len(obj.Elements) == 0 {
			return interp.Undefined{}, nil
		}
		first := obj.Elements[0]
		obj.Elements = obj.Elements[1:]
		return nonNil(first), nil
	})
	def("unshift", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := arrayThis(this)
		if err != nil {
			return nil, err
		}
		obj.Elements = append(append([]interp.Value{}, args...), obj.Elements...)
		return interp.Number(float64(len(obj.Elements))), nil
	})
	def("at", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := arrayThis(this)
		if err != nil {
			return nil, err
		}
		n := len(obj.Elements)
		idx := int(interp.ToIntegerOrInfinity(arg(args, 0)))
		if idx < 0 {
			idx += n
		}
		if idx < 0 || idx >= n {
			return interp.Undefined{}, nil
		}
		return nonNil(obj.Elements[idx]), nil
	})
	def("slice", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := arrayThis(this)
		if err != nil {
			return nil, err
		}
		n := len(obj.Elements)
		start := relativeIndex(arg(args, 0), n, 0)
		end := relativeIndex(arg(args, 1), n, n)
		if end < start {
			end = start
		}
		out := make([]interp.Value, end-start)
		for i := start; i < end; i++ {
			out[i-start] = nonNil(obj.Elements[i])
		}
		return interp.NewArray(proto, out), nil
	})
	def("splice", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := arrayThis(this)
		if err != nil {
			return nil, err
		}
		n := len(obj.Elements)
		start := relativeIndex(arg(args, 0), n, 0)
		deleteCount := n - start
		if len(args) > 1 {
			dc := int(interp.ToIntegerOrInfinity(args[1]))
			if dc < 0 {
				dc = 0
			}
			if dc > n-start {
				dc = n - start
			}
			deleteCount = dc
		}
		removed := make([]interp.Value, deleteCount)
		copy(removed, obj.Elements[start:start+deleteCount])
		var items []interp.Value
		if len(args) > 2 {
			items = args[2:]
		}
		rest := append([]interp.Value{}, obj.Elements[start+deleteCount:]...)
		obj.Elements = append(append(obj.Elements[:start], items...), rest...)
		for i, v := range removed {
			removed[i] = nonNil(v)
		}
		return interp.NewArray(proto, removed), nil
	})
	def("concat", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := arrayThis(this)
		if err != nil {
			return nil, err
		}
		out := append([]interp.Value{}, obj.Elements...)
		for _, a := range args {
			if other, ok := a.(*interp.Object); ok && other.Class == interp.ClassArray {
				out = append(out, other.Elements...)
				continue
			}
			out = append(out, a)
		}
		return interp.NewArray(proto, out), nil
	})
	def("join", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := arrayThis(this)
		if err != nil {
			return nil, err
		}
		sep := ","
		if !isNullish(arg(args, 0)) {
			sep = interp.ToStringValue(arg(args, 0))
		}
		parts := make([]string, len(obj.Elements))
		for i, v := range obj.Elements {
			if v == nil || isNullish(v) {
				parts[i] = ""
				continue
			}
			s, serr := it.ToPrimitiveString(v)
			if serr != nil {
				return nil, serr
			}
			parts[i] = s
		}
		return interp.String(strings.Join(parts, sep)), nil
	})
	def("reverse", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := arrayThis(this)
		if err != nil {
			return nil, err
		}
		for i, j := 0, len(obj.Elements)-1; i < j; i, j = i+1, j-1 {
			obj.Elements[i], obj.Elements[j] = obj.Elements[j], obj.Elements[i]
		}
		return obj, nil
	})
	def("sort", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := arrayThis(this)
		if err != nil {
			return nil, err
		}
		cmp, _ := arg(args, 0).(*interp.Object)
		if cmp != nil && cmp.Class != interp.ClassFunction {
			cmp = nil
		}
		undef := 0
		dense := make([]interp.Value, 0, len(obj.Elements))
		for _, v := range obj.Elements {
			if v == nil || isUndefinedValue(v) {
				undef++
				continue
			}
			dense = append(dense, v)
		}
		var sortErr error
		sort.SliceStable(dense, func(i, j int) bool {
			if sortErr != nil {
				return false
			}
			if cmp != nil {
				res, cerr := it.Call(cmp, interp.Undefined{}, []interp.Value{dense[i], dense[j]})
				if cerr != nil {
					sortErr = cerr
					return false
				}
				return interp.ToNumber(res) < 0
			}
			si, serr := it.ToPrimitiveString(dense[i])
			if serr != nil {
				sortErr = serr
				return false
			}
			sj, serr2 := it.ToPrimitiveString(dense[j])
			if serr2 != nil {
				sortErr = serr2
				return false
			}
			return si < sj
		})
		if sortErr != nil {
			return nil, sortErr
		}
		for i := 0; i < undef; i++ {
			dense = append(dense, interp.Undefined{})
		}
		obj.Elements = dense
		return obj, nil
	})
	def("indexOf", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := arrayThis(this)
		if err != nil {
			return nil, err
		}
		target := arg(args, 0)
		start := 0
		if len(args) > 1 {
			start = int(interp.ToIntegerOrInfinity(args[1]))
			if start < 0 {
				start += len(obj.Elements)
			}
		}
		for i := max(start, 0); i < len(obj.Elements); i++ {
			if obj.Elements[i] != nil && interp.StrictEquals(obj.Elements[i], target) {
				return interp.Number(float64(i)), nil
			}
		}
		return interp.Number(-1), nil
	})
	def("lastIndexOf", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := arrayThis(this)
		if err != nil {
			return nil, err
		}
		target := arg(args, 0)
		for i := len(obj.Elements) - 1; i >= 0; i-- {
			if obj.Elements[i] != nil && interp.StrictEquals(obj.Elements[i], target) {
				return interp.Number(float64(i)), nil
			}
		}
		return interp.Number(-1), nil
	})
	def("includes", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := arrayThis(this)
		if err != nil {
			return nil, err
		}
		target := arg(args, 0)
		for _, v := range obj.Elements {
			if v == nil {
				v = interp.Undefined{}
			}
			if interp.SameValueZero(v, target) {
				return interp.Boolean(true), nil
			}
		}
		return interp.Boolean(false), nil
	})
	def("forEach", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, cb, thisArg, err := arrayCallbackArgs(this, args)
		if err != nil {
			return nil, err
		}
		for i, v := range obj.Elements {
			if v == nil {
				continue
			}
			if _, cerr := it.Call(cb, thisArg, []interp.Value{v, interp.Number(float64(i)), obj}); cerr != nil {
				return nil, cerr
			}
		}
		return interp.Undefined{}, nil
	})
	def("map", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, cb, thisArg, err := arrayCallbackArgs(this, args)
		if err != nil {
			return nil, err
		}
		out := make([]interp.Value, len(obj.Elements))
		for i, v := range obj.Elements {
			if v == nil {
				out[i] = interp.Undefined{}
				continue
			}
			res, cerr := it.Call(cb, thisArg, []interp.Value{v, interp.Number(float64(i)), obj})
			if cerr != nil {
				return nil, cerr
			}
			out[i] = res
		}
		return interp.NewArray(proto, out), nil
	})
	def("filter", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, cb, thisArg, err := arrayCallbackArgs(this, args)
		if err != nil {
			return nil, err
		}
		var out []interp.Value
		for i, v := range obj.Elements {
			if v == nil {
				continue
			}
			res, cerr := it.Call(cb, thisArg, []interp.Value{v, interp.Number(float64(i)), obj})
			if cerr != nil {
				return nil, cerr
			}
			if interp.ToBoolean(res) {
				out = append(out, v)
			}
		}
		return interp.NewArray(proto, out), nil
	})
	def("find", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, cb, thisArg, err := arrayCallbackArgs(this, args)
		if err != nil {
			return nil, err
		}
		for i, v := range obj.Elements {
			vv := nonNil(v)
			res, cerr := it.Call(cb, thisArg, []interp.Value{vv, interp.Number(float64(i)), obj})
			if cerr != nil {
				return nil, cerr
			}
			if interp.ToBoolean(res) {
				return vv, nil
			}
		}
		return interp.Undefined{}, nil
	})
	def("findIndex", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, cb, thisArg, err := arrayCallbackArgs(this, args)
		if err != nil {
			return nil, err
		}
		for i, v := range obj.Elements {
			res, cerr := it.Call(cb, thisArg, []interp.Value{nonNil(v), interp.Number(float64(i)), obj})
			if cerr != nil {
				return nil, cerr
			}
			if interp.ToBoolean(res) {
				return interp.Number(float64(i)), nil
			}
		}
		return interp.Number(-1), nil
	})
	def("some", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, cb, thisArg, err := arrayCallbackArgs(this, args)
		if err != nil {
			return nil, err
		}
		for i, v := range obj.Elements {
			if v == nil {
				continue
			}
			res, cerr := it.Call(cb, thisArg, []interp.Value{v, interp.Number(float64(i)), obj})
			if cerr != nil {
				return nil, cerr
			}
			if interp.ToBoolean(res) {
				return interp.Boolean(true), nil
			}
		}
		return interp.Boolean(false), nil
	})
	def("every", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, cb, thisArg, err := arrayCallbackArgs(this, args)
		if err != nil {
			return nil, err
		}
		for i, v := range obj.Elements {
			if v == nil {
				continue
			}
			res, cerr := it.Call(cb, thisArg, []interp.Value{v, interp.Number(float64(i)), obj})
			if cerr != nil {
				return nil, cerr
			}
			if !interp.ToBoolean(res) {
				return interp.Boolean(false), nil
			}
		}
		return interp.Boolean(true), nil
	})
	def("reduce", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := arrayThis(this)
		if err != nil {
			return nil, err
		}
		cb, ok := arg(args, 0).(*interp.Object)
		if !ok || cb.Class != interp.ClassFunction {
			return throwTypeErrorf("Array.prototype.reduce callback must be a function")
		}
		i := 0
		var acc interp.Value
		if len(args) > 1 {
			acc = args[1]
		} else {
			for i < len(obj.Elements) && obj.Elements[i] == nil {
				i++
			}
			if i >= len(obj.Elements) {
				return throwTypeErrorf("Reduce of empty array with no initial value")
			}
			acc = obj.Elements[i]
			i++
		}
		for ; i < len(obj.Elements); i++ {
			if obj.Elements[i] == nil {
				continue
			}
			res, cerr := it.Call(cb, interp.Undefined{}, []interp.Value{acc, obj.Elements[i], interp.Number(float64(i)), obj})
			if cerr != nil {
				return nil, cerr
			}
			acc = res
		}
		return acc, nil
	})
	def("flat", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := arrayThis(this)
		if err != nil {
			return nil, err
		}
		depth := 1
		if len(args) > 0 {
			depth = int(interp.ToIntegerOrInfinity(args[0]))
		}
		return interp.NewArray(proto, flattenArray(obj.Elements, depth)), nil
	})
	def("flatMap", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, cb, thisArg, err := arrayCallbackArgs(this, args)
		if err != nil {
			return nil, err
		}
		var mapped []interp.Value
		for i, v := range obj.Elements {
			res, cerr := it.Call(cb, thisArg, []interp.Value{nonNil(v), interp.Number(float64(i)), obj})
			if cerr != nil {
				return nil, cerr
			}
			mapped = append(mapped, res)
		}
		return interp.NewArray(proto, flattenArray(mapped, 1)), nil
	})
	def("fill", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := arrayThis(this)
		if err != nil {
			return nil, err
		}
		n := len(obj.Elements)
		v := arg(args, 0)
		start := relativeIndex(arg(args, 1), n, 0)
		end := relativeIndex(arg(args, 2), n, n)
		for i := start; i < end; i++ {
			obj.Elements[i] = v
		}
		return obj, nil
	})

	arrayIterKind := func(kind string) interp.NativeFunc {
		return func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
			obj, err := arrayThis(this)
			if err != nil {
				return nil, err
			}
			i := 0
			return it.MakeIteratorObject(it.ArrayIteratorProto, func() (interp.Value, bool) {
				if i >= len(obj.Elements) {
					return interp.Undefined{}, true
				}
				idx := i
				i++
				switch kind {
				case "keys":
					return interp.Number(float64(idx)), false
				case "values":
					return nonNil(obj.Elements[idx]), false
				default:
					return interp.NewArray(proto, []interp.Value{interp.Number(float64(idx)), nonNil(obj.Elements[idx])}), false
				}
			}), nil
		}
	}
	def("keys", 0, arrayIterKind("keys"))
	def("values", 0, arrayIterKind("values"))
	def("entries", 0, arrayIterKind("entries"))
	proto.SetOwn(interp.SymbolKey(interp.SymbolIterator), nativeFn(it, "[Symbol.iterator]", 0, arrayIterKind("values")))
	def("toString", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := arrayThis(this)
		if err != nil {
			return nil, err
		}
		joinFn, _ := proto.GetOwn(interp.StringKey("join"))
		return it.Call(joinFn.Value.(*interp.Object), obj, nil)
	})

	ctor := nativeFn(it, "Array", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if len(args) == 1 {
			if n, ok := args[0].(interp.Number); ok {
				ln := int(float64(n))
				if float64(ln) != float64(n) || ln < 0 {
					return nil, errors.RangeError(nil, "Invalid array length")
				}
				return interp.NewArray(proto, make([]interp.Value, ln)), nil
			}
		}
		return interp.NewArray(proto, append([]interp.Value{}, args...)), nil
	})
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)
	ctor.SetOwn(interp.StringKey("isArray"), nativeFn(it, "isArray", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, ok := arg(args, 0).(*interp.Object)
		return interp.Boolean(ok && obj.Class == interp.ClassArray), nil
	}))
	ctor.SetOwn(interp.StringKey("of"), nativeFn(it, "of", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.NewArray(proto, append([]interp.Value{}, args...)), nil
	}))
	ctor.SetOwn(interp.StringKey("from"), nativeFn(it, "from", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		src := arg(args, 0)
		var mapFn *interp.Object
		if m, ok := arg(args, 1).(*interp.Object); ok && m.Class == interp.ClassFunction {
			mapFn = m
		}
		var elems []interp.Value
		if obj, ok := src.(*interp.Object); ok && obj.HasProperty(interp.SymbolKey(interp.SymbolIterator)) {
			var err error
			elems, err = it.IterableToSlice(obj)
			if err != nil {
				return nil, err
			}
		} else if _, ok := src.(interp.String); ok {
			var err error
			elems, err = it.IterableToSlice(src)
			if err != nil {
				return nil, err
			}
		} else if obj, ok := src.(*interp.Object); ok {
			var lerr error
			elems, lerr = arrayLikeToSlice(it, obj)
			if lerr != nil {
				return nil, lerr
			}
		} else {
			return nil, errors.TypeError(nil, "Array.from requires an array-like or iterable")
		}
		if mapFn != nil {
			for i, v := range elems {
				res, cerr := it.Call(mapFn, interp.Undefined{}, []interp.Value{v, interp.Number(float64(i))})
				if cerr != nil {
					return nil, cerr
				}
				elems[i] = res
			}
		}
		return interp.NewArray(proto, elems), nil
	}))

	defineGlobal(it, "Array", ctor)
}

func arrayThis(this interp.Value) (*interp.Object, error) {
	obj, ok := this.(*interp.Object)
	if !ok || (obj.Class != interp.ClassArray && obj.Class != interp.ClassArguments) {
		return nil, errors.TypeError(nil, "method called on a non-array")
	}
	return obj, nil
}

func arrayCallbackArgs(this interp.Value, args []interp.Value) (*interp.Object, *interp.Object, interp.Value, error) {
	obj, err := arrayThis(this)
	if err != nil {
		return nil, nil, nil, err
	}
	cb, ok := arg(args, 0).(*interp.Object)
	if !ok || cb.Class != interp.ClassFunction {
		return nil, nil, nil, errors.TypeError(nil, "callback is not a function")
	}
	return obj, cb, arg(args, 1), nil
}

func nonNil(v interp.Value) interp.Value {
	if v == nil {
		return interp.Undefined{}
	}
	return v
}

func isUndefinedValue(v interp.Value) bool {
	_, ok := v.(interp.Undefined)
	return ok
}

// relativeIndex implements the "relative index" clamp shared by
// slice/splice/fill: negative values count from the end, out-of-range
// values clamp to [0, length].
func relativeIndex(v interp.Value, length int, defaultVal int) int {
	if isUndefinedValue(v) {
		return defaultVal
	}
	n := int(interp.ToIntegerOrInfinity(v))
	if n < 0 {
		n += length
	}
	if n < 0 {
		return 0
	}
	if n > length {
		return length
	}
	return n
}

func flattenArray(elems []interp.Value, depth int) []interp.Value {
	var out []interp.Value
	for _, v := range elems {
		if v == nil {
			continue
		}
		if obj, ok := v.(*interp.Object); ok && obj.Class == interp.ClassArray && depth > 0 {
			out = append(out, flattenArray(obj.Elements, depth-1)...)
			continue
		}
		out = append(out, v)
	}
	return out
}
