package builtins

import (
	"strings"
	"unicode/utf16"

	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// installStringProto wires String.prototype's §6 catalogue (length,
// charAt, charCodeAt, indexOf, lastIndexOf, substring, slice, split,
// replace, replaceAll, toLowerCase, toUpperCase, trim, repeat, includes,
// startsWith, endsWith), with toLowerCase/toUpperCase routed through
// golang.org/x/text/cases for locale-correct casing beyond ASCII rather
// than strings.ToLower/ToUpper's simple per-codepoint mapping.
func installStringProto(it *interp.Interpreter) {
	proto := interp.NewObject(it.ObjectProto)
	it.StringProto = proto

	def := func(name string, length int, fn interp.NativeFunc) {
		proto.SetOwn(interp.StringKey(name), nativeFn(it, name, length, fn))
	}

	def("charAt", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		units := stringUnits(this)
		i := int(interp.ToIntegerOrInfinity(arg(args, 0)))
		if i < 0 || i >= len(units) {
			return interp.String(""), nil
		}
		return interp.String(utf16.Decode(units[i : i+1])), nil
	})
	def("charCodeAt", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		units := stringUnits(this)
		i := int(interp.ToIntegerOrInfinity(arg(args, 0)))
		if i < 0 || i >= len(units) {
			return interp.Number(nan()), nil
		}
		return interp.Number(float64(units[i])), nil
	})
	def("at", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		units := stringUnits(this)
		i := int(interp.ToIntegerOrInfinity(arg(args, 0)))
		if i < 0 {
			i += len(units)
		}
		if i < 0 || i >= len(units) {
			return interp.Undefined{}, nil
		}
		return interp.String(utf16.Decode(units[i : i+1])), nil
	})
	def("indexOf", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		s := stringThis(this)
		needle := interp.ToStringValue(arg(args, 0))
		from := 0
		if len(args) > 1 {
			from = int(interp.ToIntegerOrInfinity(args[1]))
		}
		return interp.Number(float64(utf16IndexOf(s, needle, from))), nil
	})
	def("lastIndexOf", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		s := stringThis(this)
		needle := interp.ToStringValue(arg(args, 0))
		units := utf16.Encode([]rune(s))
		needleUnits := utf16.Encode([]rune(needle))
		best := -1
		for i := 0; i+len(needleUnits) <= len(units); i++ {
			if utf16Eq(units[i:i+len(needleUnits)], needleUnits) {
				best = i
			}
		}
		return interp.Number(float64(best)), nil
	})
	def("substring", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		units := stringUnits(this)
		n := len(units)
		start := clampIndex(arg(args, 0), n, 0)
		end := clampIndex(arg(args, 1), n, n)
		if start > end {
			start, end = end, start
		}
		return interp.String(utf16.Decode(units[start:end])), nil
	})
	def("slice", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		units := stringUnits(this)
		n := len(units)
		start := relativeIndex(arg(args, 0), n, 0)
		end := relativeIndex(arg(args, 1), n, n)
		if end < start {
			end = start
		}
		return interp.String(utf16.Decode(units[start:end])), nil
	})
	def("split", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		s := stringThis(this)
		if isUndefinedValue(arg(args, 0)) {
			return interp.NewArray(it.ArrayProto, []interp.Value{interp.String(s)}), nil
		}
		sep := interp.ToStringValue(arg(args, 0))
		limit := -1
		if len(args) > 1 && !isUndefinedValue(args[1]) {
			limit = int(interp.ToUint32(args[1]))
		}
		var parts []string
		if sep == "" {
			for _, r := range s {
				parts = append(parts, string(r))
			}
		} else {
			parts = strings.Split(s, sep)
		}
		out := make([]interp.Value, 0, len(parts))
		for i, p := range parts {
			if limit >= 0 && i >= limit {
				break
			}
			out = append(out, interp.String(p))
		}
		return interp.NewArray(it.ArrayProto, out), nil
	})
	def("replace", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return stringReplace(it, this, args, false)
	})
	def("replaceAll", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if len(args) < 2 {
			return throwTypeErrorf("String.prototype.replaceAll requires 2 arguments")
		}
		if re, ok := args[0].(*interp.Object); ok && re.Class == interp.ClassRegExp && !strings.Contains(re.RegexFlags, "g") {
			return throwTypeErrorf("replaceAll must be called with a global RegExp")
		}
		return stringReplace(it, this, args, true)
	})
	def("toLowerCase", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.String(cases.Lower(language.Und).String(stringThis(this))), nil
	})
	def("toUpperCase", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.String(cases.Upper(language.Und).String(stringThis(this))), nil
	})
	def("trim", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.String(strings.TrimSpace(stringThis(this))), nil
	})
	def("trimStart", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.String(strings.TrimLeft(stringThis(this), " \t\n\r\v\f")), nil
	})
	def("trimEnd", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.String(strings.TrimRight(stringThis(this), " \t\n\r\v\f")), nil
	})
	def("repeat", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		n := interp.ToNumber(arg(args, 0))
		if n < 0 {
			return nil, errors.RangeError(nil, "Invalid count value")
		}
		return interp.String(strings.Repeat(stringThis(this), int(n))), nil
	})
	def("includes", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.Boolean(strings.Contains(stringThis(this), interp.ToStringValue(arg(args, 0)))), nil
	})
	def("startsWith", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		s := stringThis(this)
		prefix := interp.ToStringValue(arg(args, 0))
		if len(args) > 1 {
			pos := int(interp.ToIntegerOrInfinity(args[1]))
			units := utf16.Encode([]rune(s))
			if pos < 0 {
				pos = 0
			}
			if pos > len(units) {
				pos = len(units)
			}
			s = string(utf16.Decode(units[pos:]))
		}
		return interp.Boolean(strings.HasPrefix(s, prefix)), nil
	})
	def("endsWith", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		s := stringThis(this)
		suffix := interp.ToStringValue(arg(args, 0))
		if len(args) > 1 {
			end := int(interp.ToIntegerOrInfinity(args[1]))
			units := utf16.Encode([]rune(s))
			if end < 0 {
				end = 0
			}
			if end > len(units) {
				end = len(units)
			}
			s = string(utf16.Decode(units[:end]))
		}
		return interp.Boolean(strings.HasSuffix(s, suffix)), nil
	})
	def("concat", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		var sb strings.Builder
		sb.WriteString(stringThis(this))
		for _, a := range args {
			sb.WriteString(interp.ToStringValue(a))
		}
		return interp.String(sb.String()), nil
	})
	def("padStart", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return stringPad(this, args, true), nil
	})
	def("padEnd", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return stringPad(this, args, false), nil
	})
	def("toString", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.String(stringThis(this)), nil
	})
	def("valueOf", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.String(stringThis(this)), nil
	})
	proto.SetOwn(interp.SymbolKey(interp.SymbolIterator), nativeFn(it, "[Symbol.iterator]", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		runes := []rune(stringThis(this))
		i := 0
		return it.MakeIteratorObject(it.ArrayIteratorProto, func() (interp.Value, bool) {
			if i >= len(runes) {
				return interp.Undefined{}, true
			}
			r := runes[i]
			i++
			return interp.String(r), false
		}), nil
	}))

	ctor := nativeFn(it, "String", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		s := ""
		if len(args) > 0 {
			var err error
			s, err = it.ToPrimitiveString(args[0])
			if err != nil {
				return nil, err
			}
		}
		if _, isNew := this.(*interp.NewCall); isNew {
			return &interp.Object{Proto: proto, Class: interp.ClassString, Primitive: interp.String(s), Extensible: true}, nil
		}
		return interp.String(s), nil
	})
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)
	ctor.SetOwn(interp.StringKey("fromCharCode"), nativeFn(it, "fromCharCode", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		units := make([]uint16, len(args))
		for i, a := range args {
			units[i] = uint16(uint32(interp.ToNumber(a)))
		}
		return interp.String(utf16.Decode(units)), nil
	}))
	defineGlobal(it, "String", ctor)
}

func stringThis(this interp.Value) string {
	switch x := this.(type) {
	case interp.String:
		return string(x)
	case *interp.Object:
		if s, ok := x.Primitive.(interp.String); ok {
			return string(s)
		}
	}
	return interp.ToStringValue(this)
}

func stringUnits(this interp.Value) []uint16 {
	return utf16.Encode([]rune(stringThis(this)))
}

func clampIndex(v interp.Value, length, defaultVal int) int {
	if isUndefinedValue(v) {
		return defaultVal
	}
	n := int(interp.ToIntegerOrInfinity(v))
	if n < 0 {
		return 0
	}
	if n > length {
		return length
	}
	return n
}

func utf16IndexOf(s, needle string, from int) int {
	units := utf16.Encode([]rune(s))
	needleUnits := utf16.Encode([]rune(needle))
	if from < 0 {
		from = 0
	}
	for i := from; i+len(needleUnits) <= len(units); i++ {
		if utf16Eq(units[i:i+len(needleUnits)], needleUnits) {
			return i
		}
	}
	if len(needleUnits) == 0 && from <= len(units) {
		return from
	}
	return -1
}

func utf16Eq(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func stringPad(this interp.Value, args []interp.Value, start bool) interp.Value {
	s := stringThis(this)
	target := int(interp.ToIntegerOrInfinity(arg(args, 0)))
	units := utf16.Encode([]rune(s))
	if target <= len(units) {
		return interp.String(s)
	}
	fill := " "
	if len(args) > 1 && !isUndefinedValue(args[1]) {
		fill = interp.ToStringValue(args[1])
	}
	if fill == "" {
		return interp.String(s)
	}
	fillUnits := utf16.Encode([]rune(fill))
	need := target - len(units)
	pad := make([]uint16, 0, need)
	for len(pad) < need {
		pad = append(pad, fillUnits...)
	}
	pad = pad[:need]
	if start {
		return interp.String(utf16.Decode(append(pad, units...)))
	}
	return interp.String(utf16.Decode(append(append([]uint16{}, units...), pad...)))
}

// stringReplace implements String.prototype.replace/replaceAll: a string
// search replaces the first (or every) literal occurrence, a RegExp search
// iterates regexp2 matches honoring its `g` flag, and a function
// replacement value is invoked with (match, ...captures, offset, string)
// per 22.1.3.18's GetSubstitution contract.
func stringReplace(it *interp.Interpreter, this interp.Value, args []interp.Value, all bool) (interp.Value, error) {
	s := stringThis(this)
	searchVal := arg(args, 0)
	replVal := arg(args, 1)

	replFn, replIsFn := replVal.(*interp.Object)
	if replIsFn && replFn.Class != interp.ClassFunction {
		replIsFn = false
	}

	if re, ok := searchVal.(*interp.Object); ok && re.Class == interp.ClassRegExp {
		global := all || strings.Contains(re.RegexFlags, "g")
		return regexpReplace(it, re, s, replVal, replFn, replIsFn, global)
	}

	needle := interp.ToStringValue(searchVal)
	var sb strings.Builder
	rest := s
	offset := 0
	replaced := false
	for {
		idx := strings.Index(rest, needle)
		if idx < 0 || (replaced && !all) {
			sb.WriteString(rest)
			break
		}
		sb.WriteString(rest[:idx])
		if replIsFn {
			res, err := it.Call(replFn, interp.Undefined{}, []interp.Value{interp.String(needle), interp.Number(float64(offset + idx)), interp.String(s)})
			if err != nil {
				return nil, err
			}
			sb.WriteString(interp.ToStringValue(res))
		} else {
			sb.WriteString(expandReplacement(interp.ToStringValue(replVal), needle, nil, s, offset+idx))
		}
		replaced = true
		adv := idx + len(needle)
		if len(needle) == 0 {
			if adv < len(rest) {
				sb.WriteByte(rest[adv])
				adv++
			} else {
				break
			}
		}
		offset += adv
		rest = rest[adv:]
		if !all {
			sb.WriteString(rest)
			break
		}
		if rest == "" {
			break
		}
	}
	return interp.String(sb.String()), nil
}

// expandReplacement handles the `$&`/`$$` substitution patterns a
// non-function replacement string supports.
func expandReplacement(repl, match string, groups []string, full string, pos int) string {
	var sb strings.Builder
	for i := 0; i < len(repl); i++ {
		if repl[i] == '$' && i+1 < len(repl) {
			switch repl[i+1] {
			case '$':
				sb.WriteByte('$')
				i++
				continue
			case '&':
				sb.WriteString(match)
				i++
				continue
			}
		}
		sb.WriteByte(repl[i])
	}
	return sb.String()
}
