package interp

import "strings"

// InspectValue renders v the way console.log/console.error stringify their
// arguments: primitives print as their ToString (strings unquoted, matching
// Node's top-level-argument behavior), objects/arrays print a short
// recursive structural preview.
func InspectValue(v Value) string {
	return inspect(v, map[*Object]bool{}, 0)
}

func inspect(v Value, seen map[*Object]bool, depth int) string {
	switch x := v.(type) {
	case String:
		return string(x)
	case *Object:
		return inspectObject(x, seen, depth)
	default:
		return ToStringValue(v)
	}
}

func inspectObject(o *Object, seen map[*Object]bool, depth int) string {
	if o == nil {
		return "null"
	}
	if seen[o] {
		return "[Circular]"
	}
	if depth > 4 {
		return "[Object]"
	}
	seen[o] = true
	defer delete(seen, o)

	switch o.Class {
	case ClassFunction:
		name := o.Fn.Name
		kind := "Function"
		if o.Fn.IsClassCtor {
			kind = "class"
		}
		return "[" + kind + ": " + name + "]"
	case ClassArray, ClassArguments:
		parts := make([]string, 0, len(o.Elements))
		for _, e := range o.Elements {
			if e == nil {
				parts = append(parts, "<1 empty item>")
				continue
			}
			parts = append(parts, inspectInner(e, seen, depth+1))
		}
		return "[ " + strings.Join(parts, ", ") + " ]"
	case ClassError:
		return o.ErrKind + ": " + o.ErrMessage
	case ClassDate:
		return NumberToString(o.DateValue)
	case ClassRegExp:
		return "/" + o.RegexSource + "/" + o.RegexFlags
	case ClassString:
		return inspect(o.Primitive, seen, depth)
	case ClassNumber, ClassBoolean, ClassSymbolObj, ClassBigIntObj:
		return "[" + ToStringValue(o.Primitive) + "]"
	case ClassMap:
		return "Map(" + itoa(o.MapData.Size()) + ")"
	case ClassSet:
		return "Set(" + itoa(o.MapData.Size()) + ")"
	case ClassPromise:
		switch o.Promise.State {
		case PromisePending:
			return "Promise { <pending> }"
		case PromiseFulfilled:
			return "Promise { " + inspectInner(o.Promise.Result, seen, depth+1) + " }"
		default:
			return "Promise { <rejected> " + inspectInner(o.Promise.Result, seen, depth+1) + " }"
		}
	default:
		keys := o.OwnKeys()
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			if k.Sym != nil {
				continue
			}
			pd, ok := o.GetOwn(k)
			if !ok || !pd.Enumerable {
				continue
			}
			val := pd.Value
			if pd.IsAccessor {
				val = String("[Getter]")
			}
			parts = append(parts, k.Str+": "+inspectInner(val, seen, depth+1))
		}
		if len(parts) == 0 {
			return "{}"
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	}
}

func inspectInner(v Value, seen map[*Object]bool, depth int) string {
	if s, ok := v.(String); ok {
		return "'" + string(s) + "'"
	}
	return inspect(v, seen, depth)
}

func itoa(n int) string {
	return NumberToString(float64(n))
}
