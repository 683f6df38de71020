package builtins

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// installTypedArrays wires ArrayBuffer plus the eight %TypedArray% subclasses
// (Int8Array ... Float64Array), following installArrayProto's own
// def()-closure-over-proto idiom in this package, retargeted at a
// byte-buffer-backed element store (interp.typedArrayGet/typedArraySet)
// instead of the dense Elements slice Array uses.
func installTypedArrays(it *interp.Interpreter) {
	installArrayBuffer(it)

	shared := interp.NewObject(it.ObjectProto)
	it.TypedArrayProto = shared

	def := func(name string, length int, fn interp.NativeFunc) {
		shared.SetOwn(interp.StringKey(name), nativeFn(it, name, length, fn))
	}

	def("at", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := typedArrayThis(this, "at")
		if err != nil {
			return nil, err
		}
		idx := int(interp.ToIntegerOrInfinity(arg(args, 0)))
		if idx < 0 {
			idx += obj.Length
		}
		if idx < 0 || idx >= obj.Length {
			return interp.Undefined{}, nil
		}
		return interp.TypedArrayGet(obj, idx), nil
	})
	def("fill", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := typedArrayThis(this, "fill")
		if err != nil {
			return nil, err
		}
		v := interp.ToNumber(arg(args, 0))
		start := relativeIndex(arg(args, 1), obj.Length, 0)
		end := relativeIndex(arg(args, 2), obj.Length, obj.Length)
		for i := start; i < end; i++ {
			interp.TypedArraySet(obj, i, v)
		}
		return obj, nil
	})
	def("set", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := typedArrayThis(this, "set")
		if err != nil {
			return nil, err
		}
		offset := int(interp.ToIntegerOrInfinity(arg(args, 1)))
		src, err := it.IterableToSlice(arg(args, 0))
		if err != nil {
			if srcObj, ok := arg(args, 0).(*interp.Object); ok && srcObj.Class == interp.ClassTypedArray {
				src = make([]interp.Value, srcObj.Length)
				for i := range src {
					src[i] = interp.TypedArrayGet(srcObj, i)
				}
			} else {
				return nil, err
			}
		}
		if offset+len(src) > obj.Length {
			return nil, errors.RangeError(nil, "offset is out of bounds")
		}
		for i, v := range src {
			interp.TypedArraySet(obj, offset+i, interp.ToNumber(v))
		}
		return interp.Undefined{}, nil
	})
	def("slice", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := typedArrayThis(this, "slice")
		if err != nil {
			return nil, err
		}
		start := relativeIndex(arg(args, 0), obj.Length, 0)
		end := relativeIndex(arg(args, 1), obj.Length, obj.Length)
		out := it.NewTypedArrayObject(obj.ArrayKind, nil, 0, max0(end-start))
		for i := start; i < end; i++ {
			interp.TypedArraySet(out, i-start, interp.ToNumber(interp.TypedArrayGet(obj, i)))
		}
		return out, nil
	})
	def("subarray", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := typedArrayThis(this, "subarray")
		if err != nil {
			return nil, err
		}
		start := relativeIndex(arg(args, 0), obj.Length, 0)
		end := relativeIndex(arg(args, 1), obj.Length, obj.Length)
		n := max0(end - start)
		elemSize := len(obj.Buffer) / max1(obj.Length)
		buf := &interp.Object{Buffer: obj.Buffer}
		return it.NewTypedArrayObject(obj.ArrayKind, buf, obj.ByteOffset+start*elemSize, n), nil
	})
	def("forEach", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := typedArrayThis(this, "forEach")
		if err != nil {
			return nil, err
		}
		cb, ok := arg(args, 0).(*interp.Object)
		if !ok || cb.Class != interp.ClassFunction {
			return nil, errors.TypeError(nil, "callback is not a function")
		}
		for i := 0; i < obj.Length; i++ {
			if _, err := it.Call(cb, arg(args, 1), []interp.Value{interp.TypedArrayGet(obj, i), interp.Number(float64(i)), obj}); err != nil {
				return nil, err
			}
		}
		return interp.Undefined{}, nil
	})
	def("map", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := typedArrayThis(this, "map")
		if err != nil {
			return nil, err
		}
		cb, ok := arg(args, 0).(*interp.Object)
		if !ok || cb.Class != interp.ClassFunction {
			return nil, errors.TypeError(nil, "callback is not a function")
		}
		out := it.NewTypedArrayObject(obj.ArrayKind, nil, 0, obj.Length)
		for i := 0; i < obj.Length; i++ {
			r, err := it.Call(cb, arg(args, 1), []interp.Value{interp.TypedArrayGet(obj, i), interp.Number(float64(i)), obj})
			if err != nil {
				return nil, err
			}
			interp.TypedArraySet(out, i, interp.ToNumber(r))
		}
		return out, nil
	})
	def("filter", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := typedArrayThis(this, "filter")
		if err != nil {
			return nil, err
		}
		cb, ok := arg(args, 0).(*interp.Object)
		if !ok || cb.Class != interp.ClassFunction {
			return nil, errors.TypeError(nil, "callback is not a function")
		}
		var kept []float64
		for i := 0; i < obj.Length; i++ {
			v := interp.TypedArrayGet(obj, i)
			r, err := it.Call(cb, arg(args, 1), []interp.Value{v, interp.Number(float64(i)), obj})
			if err != nil {
				return nil, err
			}
			if interp.ToBoolean(r) {
				kept = append(kept, interp.ToNumber(v))
			}
		}
		out := it.NewTypedArrayObject(obj.ArrayKind, nil, 0, len(kept))
		for i, v := range kept {
			interp.TypedArraySet(out, i, v)
		}
		return out, nil
	})
	def("reduce", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := typedArrayThis(this, "reduce")
		if err != nil {
			return nil, err
		}
		cb, ok := arg(args, 0).(*interp.Object)
		if !ok || cb.Class != interp.ClassFunction {
			return nil, errors.TypeError(nil, "callback is not a function")
		}
		i := 0
		var acc interp.Value
		if len(args) > 1 {
			acc = args[1]
		} else {
			if obj.Length == 0 {
				return nil, errors.TypeError(nil, "Reduce of empty typed array with no initial value")
			}
			acc = interp.TypedArrayGet(obj, 0)
			i = 1
		}
		for ; i < obj.Length; i++ {
			acc, err = it.Call(cb, interp.Undefined{}, []interp.Value{acc, interp.TypedArrayGet(obj, i), interp.Number(float64(i)), obj})
			if err != nil {
				return nil, err
			}
		}
		return acc, nil
	})
	def("join", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := typedArrayThis(this, "join")
		if err != nil {
			return nil, err
		}
		sep := ","
		if !isUndefinedValue(arg(args, 0)) {
			sep = interp.ToStringValue(arg(args, 0))
		}
		parts := make([]string, obj.Length)
		for i := range parts {
			parts[i] = interp.ToStringValue(interp.TypedArrayGet(obj, i))
		}
		return interp.String(joinStrings(parts, sep)), nil
	})
	def("indexOf", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := typedArrayThis(this, "indexOf")
		if err != nil {
			return nil, err
		}
		target := interp.ToNumber(arg(args, 0))
		for i := 0; i < obj.Length; i++ {
			if interp.ToNumber(interp.TypedArrayGet(obj, i)) == target {
				return interp.Number(float64(i)), nil
			}
		}
		return interp.Number(-1), nil
	})
	def("includes", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := typedArrayThis(this, "includes")
		if err != nil {
			return nil, err
		}
		target := arg(args, 0)
		for i := 0; i < obj.Length; i++ {
			if interp.SameValueZero(interp.TypedArrayGet(obj, i), target) {
				return interp.Boolean(true), nil
			}
		}
		return interp.Boolean(false), nil
	})

	valuesFn := nativeFn(it, "values", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, err := typedArrayThis(this, "values")
		if err != nil {
			return nil, err
		}
		i := 0
		return it.MakeIteratorObject(it.ArrayIteratorProto, func() (interp.Value, bool) {
			if i >= obj.Length {
				return interp.Undefined{}, true
			}
			v := interp.TypedArrayGet(obj, i)
			i++
			return v, false
		}), nil
	})
	shared.SetOwn(interp.StringKey("values"), valuesFn)
	shared.SetOwn(interp.SymbolKey(interp.SymbolIterator), valuesFn)

	shared.DefineOwn(interp.StringKey("length"), &interp.PropertyDescriptor{
		IsAccessor: true,
		Get: nativeFn(it, "length", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
			obj, err := typedArrayThis(this, "length")
			if err != nil {
				return nil, err
			}
			return interp.Number(float64(obj.Length)), nil
		}),
		Configurable: true,
	})

	for _, kind := range interp.TypedArrayKinds {
		installTypedArrayKind(it, shared, kind)
	}
}

func typedArrayThis(this interp.Value, method string) (*interp.Object, error) {
	obj, ok := this.(*interp.Object)
	if !ok || obj.Class != interp.ClassTypedArray {
		return nil, errors.TypeError(nil, "Method TypedArray.prototype."+method+" called on incompatible receiver")
	}
	return obj, nil
}

func max0(n int) int {
	if n < 0 {
		return 0
	}
	return n
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

func joinStrings(parts []string, sep string) string {
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += sep
		}
		out += p
	}
	return out
}

// installTypedArrayKind registers one %TypedArray% subclass constructor
// (e.g. Int8Array), whose own .prototype inherits from the shared
// TypedArrayProto the way every real TypedArray subclass's prototype
// inherits from %TypedArray%.prototype.
func installTypedArrayKind(it *interp.Interpreter, shared *interp.Object, kind string) {
	elemSize := interp.TypedArrayElemSize(kind)
	proto := interp.NewObject(shared)

	ctor := nativeFn(it, kind, 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if _, isNew := this.(*interp.NewCall); !isNew {
			return nil, errors.TypeError(nil, "Constructor "+kind+" requires 'new'")
		}
		a0 := arg(args, 0)
		switch v := a0.(type) {
		case *interp.Object:
			if v.Class == interp.ClassArrayBuffer {
				byteOffset := int(interp.ToIntegerOrInfinity(arg(args, 1)))
				length := (len(v.Buffer) - byteOffset) / elemSize
				if !isUndefinedValue(arg(args, 2)) {
					length = int(interp.ToIntegerOrInfinity(arg(args, 2)))
				}
				out := it.NewTypedArrayObject(kind, v, byteOffset, length)
				out.Proto = proto
				return out, nil
			}
			items, err := it.IterableToSlice(v)
			if err != nil {
				if v.Class == interp.ClassArray {
					items = v.Elements
				} else {
					return nil, err
				}
			}
			out := it.NewTypedArrayObject(kind, nil, 0, len(items))
			out.Proto = proto
			for i, item := range items {
				interp.TypedArraySet(out, i, interp.ToNumber(item))
			}
			return out, nil
		default:
			length := 0
			if !isNullish(a0) && !isUndefinedValue(a0) {
				length = int(interp.ToIntegerOrInfinity(a0))
			}
			out := it.NewTypedArrayObject(kind, nil, 0, length)
			out.Proto = proto
			return out, nil
		}
	})
	ctor.SetOwn(interp.StringKey("BYTES_PER_ELEMENT"), interp.Number(float64(elemSize)))
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)
	proto.SetOwn(interp.StringKey("BYTES_PER_ELEMENT"), interp.Number(float64(elemSize)))
	defineGlobal(it, kind, ctor)
}

// installArrayBuffer wires the ArrayBuffer constructor/prototype backing
// every TypedArray's storage.
func installArrayBuffer(it *interp.Interpreter) {
	proto := interp.NewObject(it.ObjectProto)
	it.ArrayBufferProto = proto

	proto.DefineOwn(interp.StringKey("byteLength"), &interp.PropertyDescriptor{
		IsAccessor: true,
		Get: nativeFn(it, "byteLength", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
			obj, ok := this.(*interp.Object)
			if !ok || obj.Class != interp.ClassArrayBuffer {
				return nil, errors.TypeError(nil, "ArrayBuffer.prototype.byteLength called on incompatible receiver")
			}
			return interp.Number(float64(len(obj.Buffer))), nil
		}),
		Configurable: true,
	})
	proto.SetOwn(interp.StringKey("slice"), nativeFn(it, "slice", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, ok := this.(*interp.Object)
		if !ok || obj.Class != interp.ClassArrayBuffer {
			return nil, errors.TypeError(nil, "ArrayBuffer.prototype.slice called on incompatible receiver")
		}
		start := relativeIndex(arg(args, 0), len(obj.Buffer), 0)
		end := relativeIndex(arg(args, 1), len(obj.Buffer), len(obj.Buffer))
		out := it.NewArrayBufferObject(max0(end - start))
		copy(out.Buffer, obj.Buffer[start:end])
		return out, nil
	}))

	ctor := nativeFn(it, "ArrayBuffer", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if _, isNew := this.(*interp.NewCall); !isNew {
			return nil, errors.TypeError(nil, "Constructor ArrayBuffer requires 'new'")
		}
		length := int(interp.ToIntegerOrInfinity(arg(args, 0)))
		return it.NewArrayBufferObject(length), nil
	})
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)
	defineGlobal(it, "ArrayBuffer", ctor)
}
