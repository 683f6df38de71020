package builtins

import (
	"math"
	"strings"

	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// installJSON wires the JSON namespace object: parse walks a gjson.Result
// tree into script values (gjson's tolerant tokenizer stands in for a
// hand-rolled JSON scanner), stringify builds JSON text bottom-up through
// sjson.Set/SetRaw rather than a string.Builder, letting sjson own string
// escaping and array/object assembly the way the library is meant to be
// used.
func installJSON(it *interp.Interpreter) {
	ns := interp.NewObject(it.ObjectProto)

	ns.SetOwn(interp.StringKey("parse"), nativeFn(it, "parse", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		text := interp.ToStringValue(arg(args, 0))
		if !gjson.Valid(text) {
			return nil, errors.SyntaxError(nil, "Unexpected token in JSON")
		}
		result := gjsonToValue(it, gjson.Parse(text))
		reviver, _ := arg(args, 1).(*interp.Object)
		if reviver != nil && reviver.Class == interp.ClassFunction {
			holder := interp.NewObject(it.ObjectProto)
			holder.SetOwn(interp.StringKey(""), result)
			revived, err := internalizeJSON(it, holder, "", reviver)
			if err != nil {
				return nil, err
			}
			return revived, nil
		}
		return result, nil
	}))

	ns.SetOwn(interp.StringKey("stringify"), nativeFn(it, "stringify", 3, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		space := ""
		switch s := arg(args, 2).(type) {
		case interp.Number:
			n := int(s)
			if n > 10 {
				n = 10
			}
			if n > 0 {
				space = strings.Repeat(" ", n)
			}
		case interp.String:
			space = string(s)
			if len(space) > 10 {
				space = space[:10]
			}
		}
		raw, ok, err := stringifyValue(it, arg(args, 0), space, "")
		if err != nil {
			return nil, err
		}
		if !ok {
			return interp.Undefined{}, nil
		}
		if space != "" {
			raw = prettyJSON(raw, space)
		}
		return interp.String(raw), nil
	}))

	defineGlobal(it, "JSON", ns)
}

func gjsonToValue(it *interp.Interpreter, r gjson.Result) interp.Value {
	switch r.Type {
	case gjson.Null:
		return interp.Null{}
	case gjson.False:
		return interp.Boolean(false)
	case gjson.True:
		return interp.Boolean(true)
	case gjson.Number:
		return interp.Number(r.Num)
	case gjson.String:
		return interp.String(r.Str)
	case gjson.JSON:
		if r.IsArray() {
			var elems []interp.Value
			r.ForEach(func(_, v gjson.Result) bool {
				elems = append(elems, gjsonToValue(it, v))
				return true
			})
			return interp.NewArray(it.ArrayProto, elems)
		}
		obj := interp.NewObject(it.ObjectProto)
		r.ForEach(func(k, v gjson.Result) bool {
			obj.SetOwn(interp.StringKey(k.String()), gjsonToValue(it, v))
			return true
		})
		return obj
	default:
		return interp.Undefined{}
	}
}

// internalizeJSON implements 25.5.1.1's InternalizeJSONProperty: walk the
// parsed tree bottom-up, replacing each property with the reviver's
// return value (and deleting it when the reviver returns undefined).
func internalizeJSON(it *interp.Interpreter, holder *interp.Object, key string, reviver *interp.Object) (interp.Value, error) {
	val := holder.Get(interp.StringKey(key), holder)
	if obj, ok := val.(*interp.Object); ok {
		if obj.Class == interp.ClassArray {
			for i := 0; i < len(obj.Elements); i++ {
				k := interp.NumberToString(float64(i))
				elem, err := internalizeJSON(it, obj, k, reviver)
				if err != nil {
					return nil, err
				}
				if isUndefinedValue(elem) {
					obj.Elements[i] = interp.Undefined{}
				} else {
					obj.Elements[i] = elem
				}
			}
		} else {
			for _, k := range obj.OwnKeys() {
				if k.Sym != nil {
					continue
				}
				elem, err := internalizeJSON(it, obj, k.Str, reviver)
				if err != nil {
					return nil, err
				}
				if isUndefinedValue(elem) {
					obj.DeleteOwn(k)
				} else {
					obj.SetOwn(k, elem)
				}
			}
		}
	}
	return it.Call(reviver, holder, []interp.Value{interp.String(key), val})
}

func jsonQuote(s string) string {
	doc, _ := sjson.Set("{}", "v", s)
	return gjson.Get(doc, "v").Raw
}

func escapeSjsonPath(key string) string {
	var sb strings.Builder
	for _, c := range key {
		switch c {
		case '.', '*', '?', '\\':
			sb.WriteByte('\\')
		}
		sb.WriteRune(c)
	}
	return sb.String()
}

// stringifyValue implements 25.5.2.1's SerializeJSONProperty for the values
// this interpreter supports: returns ok=false for values JSON.stringify
// must omit (undefined, functions, symbols) rather than serializing them.
func stringifyValue(it *interp.Interpreter, v interp.Value, space, curIndent string) (string, bool, error) {
	if obj, ok := v.(*interp.Object); ok {
		if toJSON, has := obj.GetOwn(interp.StringKey("toJSON")); has {
			if fn, ok := toJSON.Value.(*interp.Object); ok && fn.Class == interp.ClassFunction {
				res, err := it.Call(fn, obj, nil)
				if err != nil {
					return "", false, err
				}
				return stringifyValue(it, res, space, curIndent)
			}
		}
	}
	switch x := v.(type) {
	case interp.Undefined:
		return "", false, nil
	case interp.Null:
		return "null", true, nil
	case interp.Boolean:
		if x {
			return "true", true, nil
		}
		return "false", true, nil
	case interp.Number:
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "null", true, nil
		}
		return interp.NumberToString(f), true, nil
	case interp.String:
		return jsonQuote(string(x)), true, nil
	case *interp.Symbol:
		return "", false, nil
	case *interp.Object:
		if x.Class == interp.ClassFunction {
			return "", false, nil
		}
		if prim := x.Primitive; prim != nil {
			return stringifyValue(it, prim, space, curIndent)
		}
		if x.Class == interp.ClassArray {
			acc := "[]"
			for _, elem := range x.Elements {
				raw, ok, err := stringifyValue(it, elem, space, curIndent)
				if err != nil {
					return "", false, err
				}
				if !ok {
					raw = "null"
				}
				acc, err = sjson.SetRaw(acc, "-1", raw)
				if err != nil {
					return "", false, err
				}
			}
			return acc, true, nil
		}
		acc := "{}"
		for _, k := range x.OwnKeys() {
			if k.Sym != nil {
				continue
			}
			pd, has := x.GetOwn(k)
			if !has || !pd.Enumerable {
				continue
			}
			raw, ok, err := stringifyValue(it, x.Get(k, x), space, curIndent)
			if err != nil {
				return "", false, err
			}
			if !ok {
				continue
			}
			acc, err = sjson.SetRaw(acc, escapeSjsonPath(k.Str), raw)
			if err != nil {
				return "", false, err
			}
		}
		return acc, true, nil
	default:
		return "", false, nil
	}
}

// prettyJSON re-indents compact JSON produced by stringifyValue using the
// requested indent string, since sjson.SetRaw/Set always produce compact
// output and JSON.stringify's `space` argument needs pretty-printing.
func prettyJSON(raw, indent string) string {
	var sb strings.Builder
	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if inString {
			sb.WriteByte(c)
			if escaped {
				escaped = false
			} else if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
			sb.WriteByte(c)
		case '{', '[':
			next := byte(0)
			if i+1 < len(raw) {
				next = raw[i+1]
			}
			sb.WriteByte(c)
			if next == '}' || next == ']' {
				i++
				sb.WriteByte(next)
				continue
			}
			depth++
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(indent, depth))
		case '}', ']':
			depth--
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(indent, depth))
			sb.WriteByte(c)
		case ',':
			sb.WriteByte(c)
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat(indent, depth))
		case ':':
			sb.WriteByte(c)
			sb.WriteByte(' ')
		default:
			sb.WriteByte(c)
		}
	}
	return sb.String()
}
