package builtins

import (
	"math"
	"strconv"
	"strings"

	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// installNumberProto wires Number.prototype and the Number constructor's
// statics (isInteger/isFinite/isNaN/parseFloat/parseInt/EPSILON/MAX_SAFE_INTEGER),
// plus the free global parseInt/parseFloat/isNaN/isFinite functions §6 lists
// alongside Number itself.
func installNumberProto(it *interp.Interpreter) {
	proto := interp.NewObject(it.ObjectProto)
	it.NumberProto = proto

	proto.SetOwn(interp.StringKey("toString"), nativeFn(it, "toString", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		n := numberThis(this)
		radix := 10
		if len(args) > 0 && !isUndefinedValue(args[0]) {
			radix = int(interp.ToNumber(args[0]))
		}
		if radix == 10 {
			return interp.String(interp.NumberToString(n)), nil
		}
		return interp.String(strconv.FormatInt(int64(n), radix)), nil
	}))
	proto.SetOwn(interp.StringKey("valueOf"), nativeFn(it, "valueOf", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.Number(numberThis(this)), nil
	}))
	proto.SetOwn(interp.StringKey("toFixed"), nativeFn(it, "toFixed", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		n := numberThis(this)
		digits := 0
		if len(args) > 0 {
			digits = int(interp.ToNumber(args[0]))
		}
		return interp.String(strconv.FormatFloat(n, 'f', digits, 64)), nil
	}))
	proto.SetOwn(interp.StringKey("toPrecision"), nativeFn(it, "toPrecision", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		n := numberThis(this)
		if len(args) == 0 || isUndefinedValue(args[0]) {
			return interp.String(interp.NumberToString(n)), nil
		}
		prec := int(interp.ToNumber(args[0]))
		return interp.String(strconv.FormatFloat(n, 'g', prec, 64)), nil
	}))

	ctor := nativeFn(it, "Number", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		n := 0.0
		if len(args) > 0 {
			var err error
			n, err = it.ToNumberCoerce(args[0])
			if err != nil {
				return nil, err
			}
		}
		if _, isNew := this.(*interp.NewCall); isNew {
			return &interp.Object{Proto: proto, Class: interp.ClassNumber, Primitive: interp.Number(n), Extensible: true}, nil
		}
		return interp.Number(n), nil
	})
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)
	ctor.SetOwn(interp.StringKey("MAX_SAFE_INTEGER"), interp.Number(9007199254740991))
	ctor.SetOwn(interp.StringKey("MIN_SAFE_INTEGER"), interp.Number(-9007199254740991))
	ctor.SetOwn(interp.StringKey("MAX_VALUE"), interp.Number(math.MaxFloat64))
	ctor.SetOwn(interp.StringKey("MIN_VALUE"), interp.Number(5e-324))
	ctor.SetOwn(interp.StringKey("EPSILON"), interp.Number(2.220446049250313e-16))
	ctor.SetOwn(interp.StringKey("POSITIVE_INFINITY"), interp.Number(inf(1)))
	ctor.SetOwn(interp.StringKey("NEGATIVE_INFINITY"), interp.Number(inf(-1)))
	ctor.SetOwn(interp.StringKey("NaN"), interp.Number(nan()))
	ctor.SetOwn(interp.StringKey("isInteger"), nativeFn(it, "isInteger", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		n, ok := arg(args, 0).(interp.Number)
		return interp.Boolean(ok && float64(n) == math.Trunc(float64(n)) && !math.IsInf(float64(n), 0)), nil
	}))
	ctor.SetOwn(interp.StringKey("isSafeInteger"), nativeFn(it, "isSafeInteger", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		n, ok := arg(args, 0).(interp.Number)
		f := float64(n)
		return interp.Boolean(ok && f == math.Trunc(f) && math.Abs(f) <= 9007199254740991), nil
	}))
	ctor.SetOwn(interp.StringKey("isFinite"), nativeFn(it, "isFinite", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		n, ok := arg(args, 0).(interp.Number)
		return interp.Boolean(ok && !math.IsNaN(float64(n)) && !math.IsInf(float64(n), 0)), nil
	}))
	ctor.SetOwn(interp.StringKey("isNaN"), nativeFn(it, "isNaN", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		n, ok := arg(args, 0).(interp.Number)
		return interp.Boolean(ok && math.IsNaN(float64(n))), nil
	}))
	ctor.SetOwn(interp.StringKey("parseFloat"), nativeFn(it, "parseFloat", 1, globalParseFloat))
	ctor.SetOwn(interp.StringKey("parseInt"), nativeFn(it, "parseInt", 2, globalParseInt))
	defineGlobal(it, "Number", ctor)

	defineGlobal(it, "parseInt", nativeFn(it, "parseInt", 2, globalParseInt))
	defineGlobal(it, "parseFloat", nativeFn(it, "parseFloat", 1, globalParseFloat))
	defineGlobal(it, "isNaN", nativeFn(it, "isNaN", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.Boolean(math.IsNaN(interp.ToNumber(arg(args, 0)))), nil
	}))
	defineGlobal(it, "isFinite", nativeFn(it, "isFinite", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		n := interp.ToNumber(arg(args, 0))
		return interp.Boolean(!math.IsNaN(n) && !math.IsInf(n, 0)), nil
	}))
}

func numberThis(this interp.Value) float64 {
	switch x := this.(type) {
	case interp.Number:
		return float64(x)
	case *interp.Object:
		if n, ok := x.Primitive.(interp.Number); ok {
			return float64(n)
		}
	}
	return interp.ToNumber(this)
}

func globalParseInt(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
	s := strings.TrimSpace(interp.ToStringValue(arg(args, 0)))
	radix := 0
	if len(args) > 1 {
		radix = int(interp.ToNumber(args[1]))
	}
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if radix == 0 {
		if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
			radix = 16
			s = s[2:]
		} else {
			radix = 10
		}
	} else if radix == 16 && (strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X")) {
		s = s[2:]
	}
	end := 0
	for end < len(s) && digitValue(s[end]) < radix {
		end++
	}
	if end == 0 {
		return interp.Number(nan()), nil
	}
	n, err := strconv.ParseUint(s[:end], radix, 64)
	if err != nil {
		// Overflow: fall back to float accumulation for very large inputs.
		f := 0.0
		for i := 0; i < end; i++ {
			f = f*float64(radix) + float64(digitValue(s[i]))
		}
		if neg {
			f = -f
		}
		return interp.Number(f), nil
	}
	f := float64(n)
	if neg {
		f = -f
	}
	return interp.Number(f), nil
}

// digitValue returns c's value in bases up to 36 (0-9, a-z/A-Z), or 99 if
// c isn't a digit in any supported radix.
func digitValue(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10
	default:
		return 99
	}
}

func globalParseFloat(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
	s := strings.TrimSpace(interp.ToStringValue(arg(args, 0)))
	end := len(s)
	for end > 0 {
		if _, err := strconv.ParseFloat(s[:end], 64); err == nil {
			n, _ := strconv.ParseFloat(s[:end], 64)
			return interp.Number(n), nil
		}
		end--
	}
	return interp.Number(nan()), nil
}
