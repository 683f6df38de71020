package builtins

import (
	"math"
	"math/rand"

	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// installMath wires the Math namespace object §6 lists among the required
// globals: the constant set plus the unary/binary functions scripts most
// commonly reach for (abs/floor/ceil/round/trunc/sign/pow/sqrt/min/max/
// random and the trig/log family).
func installMath(it *interp.Interpreter) {
	m := interp.NewObject(it.ObjectProto)

	m.SetOwn(interp.StringKey("PI"), interp.Number(math.Pi))
	m.SetOwn(interp.StringKey("E"), interp.Number(math.E))
	m.SetOwn(interp.StringKey("LN2"), interp.Number(math.Ln2))
	m.SetOwn(interp.StringKey("LN10"), interp.Number(math.Log(10)))
	m.SetOwn(interp.StringKey("LOG2E"), interp.Number(1/math.Ln2))
	m.SetOwn(interp.StringKey("LOG10E"), interp.Number(1/math.Log(10)))
	m.SetOwn(interp.StringKey("SQRT2"), interp.Number(math.Sqrt2))
	m.SetOwn(interp.StringKey("SQRT1_2"), interp.Number(math.Sqrt(0.5)))

	unary := func(name string, f func(float64) float64) {
		m.SetOwn(interp.StringKey(name), nativeFn(it, name, 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
			return interp.Number(f(interp.ToNumber(arg(args, 0)))), nil
		}))
	}
	unary("abs", math.Abs)
	unary("floor", math.Floor)
	unary("ceil", math.Ceil)
	unary("trunc", math.Trunc)
	unary("sqrt", math.Sqrt)
	unary("cbrt", math.Cbrt)
	unary("sin", math.Sin)
	unary("cos", math.Cos)
	unary("tan", math.Tan)
	unary("asin", math.Asin)
	unary("acos", math.Acos)
	unary("atan", math.Atan)
	unary("sinh", math.Sinh)
	unary("cosh", math.Cosh)
	unary("tanh", math.Tanh)
	unary("log", math.Log)
	unary("log2", math.Log2)
	unary("log10", math.Log10)
	unary("exp", math.Exp)

	m.SetOwn(interp.StringKey("round"), nativeFn(it, "round", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		n := interp.ToNumber(arg(args, 0))
		return interp.Number(math.Floor(n + 0.5)), nil
	}))
	m.SetOwn(interp.StringKey("sign"), nativeFn(it, "sign", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		n := interp.ToNumber(arg(args, 0))
		switch {
		case math.IsNaN(n):
			return interp.Number(nan()), nil
		case n > 0:
			return interp.Number(1), nil
		case n < 0:
			return interp.Number(-1), nil
		default:
			return interp.Number(n), nil
		}
	}))
	m.SetOwn(interp.StringKey("pow"), nativeFn(it, "pow", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.Number(math.Pow(interp.ToNumber(arg(args, 0)), interp.ToNumber(arg(args, 1)))), nil
	}))
	m.SetOwn(interp.StringKey("atan2"), nativeFn(it, "atan2", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.Number(math.Atan2(interp.ToNumber(arg(args, 0)), interp.ToNumber(arg(args, 1)))), nil
	}))
	m.SetOwn(interp.StringKey("hypot"), nativeFn(it, "hypot", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		sum := 0.0
		for _, a := range args {
			n := interp.ToNumber(a)
			sum += n * n
		}
		return interp.Number(math.Sqrt(sum)), nil
	}))
	m.SetOwn(interp.StringKey("min"), nativeFn(it, "min", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if len(args) == 0 {
			return interp.Number(inf(1)), nil
		}
		best := interp.ToNumber(args[0])
		for _, a := range args[1:] {
			n := interp.ToNumber(a)
			if math.IsNaN(n) {
				return interp.Number(nan()), nil
			}
			if n < best {
				best = n
			}
		}
		if math.IsNaN(best) {
			return interp.Number(nan()), nil
		}
		return interp.Number(best), nil
	}))
	m.SetOwn(interp.StringKey("max"), nativeFn(it, "max", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if len(args) == 0 {
			return interp.Number(inf(-1)), nil
		}
		best := interp.ToNumber(args[0])
		for _, a := range args[1:] {
			n := interp.ToNumber(a)
			if math.IsNaN(n) {
				return interp.Number(nan()), nil
			}
			if n > best {
				best = n
			}
		}
		if math.IsNaN(best) {
			return interp.Number(nan()), nil
		}
		return interp.Number(best), nil
	}))
	m.SetOwn(interp.StringKey("random"), nativeFn(it, "random", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.Number(rand.Float64()), nil
	}))

	defineGlobal(it, "Math", m)
}
