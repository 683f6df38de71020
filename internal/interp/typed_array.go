package interp

import (
	"encoding/binary"
	"math"
)

// TypedArrays and ArrayBuffer back §1's "TypedArrays" scope item and the
// DOMAIN STACK's supplemented-features list. Grounded on the same
// single-struct-many-fields shape the rest of Object uses (Buffer/ArrayKind/
// ByteOffset/Length fields declared alongside ClassArray's Elements in
// value.go) rather than a distinct Go type per typed-array kind — one
// backing byte slice, one element-size/decode table keyed by ArrayKind.

// typedArrayElemSize returns the byte width of one element for the given
// %TypedArray% subclass name.
func typedArrayElemSize(kind string) int {
	switch kind {
	case "Int8Array", "Uint8Array":
		return 1
	case "Int16Array", "Uint16Array":
		return 2
	case "Int32Array", "Uint32Array", "Float32Array":
		return 4
	case "Float64Array":
		return 8
	}
	return 1
}

// TypedArrayKinds lists every %TypedArray% subclass §6 names, in the order
// internal/builtins registers their constructors.
var TypedArrayKinds = []string{
	"Int8Array", "Uint8Array", "Int16Array", "Uint16Array",
	"Int32Array", "Uint32Array", "Float32Array", "Float64Array",
}

func clampToInt64(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int64(math.Trunc(f))
}

// typedArrayGet implements IntegerIndexedElementGet: decode the element at
// idx from the backing buffer per the view's kind, little-endian throughout
// (index get/set never observes byte order directly; only DataView would).
func typedArrayGet(o *Object, idx int) Value {
	size := typedArrayElemSize(o.ArrayKind)
	off := o.ByteOffset + idx*size
	buf := o.Buffer
	switch o.ArrayKind {
	case "Int8Array":
		return Number(int8(buf[off]))
	case "Uint8Array":
		return Number(buf[off])
	case "Int16Array":
		return Number(int16(binary.LittleEndian.Uint16(buf[off : off+2])))
	case "Uint16Array":
		return Number(binary.LittleEndian.Uint16(buf[off : off+2]))
	case "Int32Array":
		return Number(int32(binary.LittleEndian.Uint32(buf[off : off+4])))
	case "Uint32Array":
		return Number(binary.LittleEndian.Uint32(buf[off : off+4]))
	case "Float32Array":
		bits := binary.LittleEndian.Uint32(buf[off : off+4])
		return Number(math.Float32frombits(bits))
	case "Float64Array":
		bits := binary.LittleEndian.Uint64(buf[off : off+8])
		return Number(math.Float64frombits(bits))
	}
	return Undefined{}
}

// typedArraySet implements IntegerIndexedElementSet: encode f into the
// backing buffer at idx, truncating/wrapping per the view's integer width
// (NaN/Infinity coerce to 0, matching ToInt32-family semantics).
func typedArraySet(o *Object, idx int, f float64) {
	size := typedArrayElemSize(o.ArrayKind)
	off := o.ByteOffset + idx*size
	buf := o.Buffer
	n := clampToInt64(f)
	switch o.ArrayKind {
	case "Int8Array", "Uint8Array":
		buf[off] = byte(n)
	case "Int16Array", "Uint16Array":
		binary.LittleEndian.PutUint16(buf[off:off+2], uint16(n))
	case "Int32Array", "Uint32Array":
		binary.LittleEndian.PutUint32(buf[off:off+4], uint32(n))
	case "Float32Array":
		binary.LittleEndian.PutUint32(buf[off:off+4], math.Float32bits(float32(f)))
	case "Float64Array":
		binary.LittleEndian.PutUint64(buf[off:off+8], math.Float64bits(f))
	}
}

// TypedArrayGet/TypedArraySet/TypedArrayElemSize re-export the unexported
// buffer-decode helpers above for internal/builtins' typed-array methods.
func TypedArrayGet(o *Object, idx int) Value       { return typedArrayGet(o, idx) }
func TypedArraySet(o *Object, idx int, f float64)  { typedArraySet(o, idx, f) }
func TypedArrayElemSize(kind string) int           { return typedArrayElemSize(kind) }

// NewArrayBufferObject allocates a fresh ArrayBuffer exotic object of the
// given byte length, zero-initialized like the spec's CreateByteDataBlock.
func (it *Interpreter) NewArrayBufferObject(byteLength int) *Object {
	if byteLength < 0 {
		byteLength = 0
	}
	return &Object{
		Proto:      it.ArrayBufferProto,
		Class:      ClassArrayBuffer,
		props:      make(map[string]*PropertyDescriptor),
		Extensible: true,
		Buffer:     make([]byte, byteLength),
	}
}

// NewTypedArrayObject allocates a typed array view of the given kind over
// buffer, starting at byteOffset, exposing `length` elements. Passing a nil
// buffer allocates a fresh zero-filled ArrayBuffer sized to length elements,
// covering the `new Int8Array(length)` constructor form.
func (it *Interpreter) NewTypedArrayObject(kind string, buffer *Object, byteOffset, length int) *Object {
	if buffer == nil {
		buffer = it.NewArrayBufferObject(length * typedArrayElemSize(kind))
		byteOffset = 0
	}
	proto := it.TypedArrayProto
	return &Object{
		Proto:      proto,
		Class:      ClassTypedArray,
		props:      make(map[string]*PropertyDescriptor),
		Extensible: true,
		Buffer:     buffer.Buffer,
		ArrayKind:  kind,
		ByteOffset: byteOffset,
		Length:     length,
	}
}
