package interp

import (
	"math"
	"strconv"
	"strings"
)

// ToBoolean implements the ToBoolean abstract operation (7.1.2): only
// undefined, null, false, +0/-0/NaN, 0n and "" are falsy; every object,
// including empty arrays/objects, is truthy.
func ToBoolean(v Value) bool {
	switch x := v.(type) {
	case Undefined:
		return false
	case Null:
		return false
	case Boolean:
		return bool(x)
	case Number:
		f := float64(x)
		return f != 0 && !math.IsNaN(f)
	case String:
		return len(x) > 0
	case BigInt:
		return !(x.Sign == 0)
	default:
		return true
	}
}

// ToNumber implements the ToNumber abstract operation (7.1.4) for
// primitives; objects must already have been reduced via ToPrimitive
// (performed by the caller in eval_expressions.go, since it needs the
// interpreter to invoke valueOf/toString methods).
func ToNumber(v Value) float64 {
	switch x := v.(type) {
	case Undefined:
		return math.NaN()
	case Null:
		return 0
	case Boolean:
		if x {
			return 1
		}
		return 0
	case Number:
		return float64(x)
	case String:
		return stringToNumber(string(x))
	default:
		return math.NaN()
	}
}

func stringToNumber(s string) float64 {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0
	}
	if t == "Infinity" || t == "+Infinity" {
		return math.Inf(1)
	}
	if t == "-Infinity" {
		return math.Inf(-1)
	}
	if strings.HasPrefix(t, "0x") || strings.HasPrefix(t, "0X") {
		n, err := strconv.ParseUint(t[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	f, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// ToInt32 implements ToInt32 (7.1.6), used by the bitwise operators.
func ToInt32(v Value) int32 {
	f := ToNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int32(uint32(int64(math.Trunc(f))))
}

// ToUint32 implements ToUint32 (7.1.7).
func ToUint32(v Value) uint32 {
	f := ToNumber(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return uint32(int64(math.Trunc(f)))
}

// ToIntegerOrInfinity implements ToIntegerOrInfinity (7.1.5), used for
// array index/length coercions.
func ToIntegerOrInfinity(v Value) float64 {
	f := ToNumber(v)
	if math.IsNaN(f) {
		return 0
	}
	if math.IsInf(f, 0) {
		return f
	}
	return math.Trunc(f)
}

// NumberToString implements Number::toString for the default radix 10,
// matching ECMA-262's shortest-round-trip formatting rules closely enough
// for this interpreter's purposes (exact edge-case digit-count parity with
// V8's Grisu/Ryu implementation is out of scope).
func NumberToString(f float64) string {
	if math.IsNaN(f) {
		return "NaN"
	}
	if math.IsInf(f, 1) {
		return "Infinity"
	}
	if math.IsInf(f, -1) {
		return "-Infinity"
	}
	if f == 0 {
		if math.Signbit(f) {
			return "0"
		}
		return "0"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ToStringValue implements the ToString abstract operation (7.1.17) for
// primitives reachable without invoking user code; object stringification
// goes through ToPrimitive first in the caller.
func ToStringValue(v Value) string {
	switch x := v.(type) {
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case Boolean:
		if x {
			return "true"
		}
		return "false"
	case Number:
		return NumberToString(float64(x))
	case String:
		return string(x)
	case *Symbol:
		return "Symbol(" + x.Description + ")"
	default:
		return ""
	}
}

// TypeOf implements the `typeof` operator (13.5.3), including the historical
// "object" result for null.
func TypeOf(v Value) string {
	switch x := v.(type) {
	case Undefined:
		return "undefined"
	case Null:
		return "object"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case BigInt:
		return "bigint"
	case *Symbol:
		return "symbol"
	case *Object:
		if x.Class == ClassFunction {
			return "function"
		}
		return "object"
	default:
		return "undefined"
	}
}

// SameValueZero implements the SameValueZero algorithm (7.2.12), used by
// Map/Set/includes: identical to ===, except NaN equals NaN.
func SameValueZero(a, b Value) bool {
	switch x := a.(type) {
	case Number:
		y, ok := b.(Number)
		if !ok {
			return false
		}
		if math.IsNaN(float64(x)) && math.IsNaN(float64(y)) {
			return true
		}
		return float64(x) == float64(y)
	default:
		return StrictEquals(a, b)
	}
}

// StrictEquals implements the === operator (7.2.11).
func StrictEquals(a, b Value) bool {
	switch x := a.(type) {
	case Undefined:
		_, ok := b.(Undefined)
		return ok
	case Null:
		_, ok := b.(Null)
		return ok
	case Boolean:
		y, ok := b.(Boolean)
		return ok && x == y
	case Number:
		y, ok := b.(Number)
		return ok && float64(x) == float64(y)
	case String:
		y, ok := b.(String)
		return ok && x == y
	case *Symbol:
		y, ok := b.(*Symbol)
		return ok && x == y
	case *Object:
		y, ok := b.(*Object)
		return ok && x == y
	case BigInt:
		y, ok := b.(BigInt)
		return ok && bigIntEqual(x, y)
	}
	return false
}

func bigIntEqual(a, b BigInt) bool {
	if a.Sign != b.Sign || len(a.Words) != len(b.Words) {
		return false
	}
	for i := range a.Words {
		if a.Words[i] != b.Words[i] {
			return false
		}
	}
	return true
}
