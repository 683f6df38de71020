package builtins

import (
	"strconv"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// installRegExpProto wires RegExp.prototype.test/exec/toString and the
// RegExp constructor, both backed by the regexp2 engine already compiled
// into RegExp objects by interp.NewRegExpObject.
func installRegExpProto(it *interp.Interpreter) {
	proto := interp.NewObject(it.ObjectProto)
	it.RegExpProto = proto

	proto.SetOwn(interp.StringKey("test"), nativeFn(it, "test", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		re, ok := this.(*interp.Object)
		if !ok || re.Class != interp.ClassRegExp {
			return nil, errors.TypeError(nil, "RegExp.prototype.test called on incompatible receiver")
		}
		s := interp.ToStringValue(arg(args, 0))
		m, err := regexMatchAt(re, s)
		if err != nil {
			return nil, err
		}
		return interp.Boolean(m != nil), nil
	}))
	proto.SetOwn(interp.StringKey("exec"), nativeFn(it, "exec", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		re, ok := this.(*interp.Object)
		if !ok || re.Class != interp.ClassRegExp {
			return nil, errors.TypeError(nil, "RegExp.prototype.exec called on incompatible receiver")
		}
		s := interp.ToStringValue(arg(args, 0))
		m, err := regexMatchAt(re, s)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return interp.Null{}, nil
		}
		return matchToArray(it, m, s), nil
	}))
	proto.SetOwn(interp.StringKey("toString"), nativeFn(it, "toString", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		re, ok := this.(*interp.Object)
		if !ok || re.Class != interp.ClassRegExp {
			return interp.String("/(?:)/"), nil
		}
		return interp.String("/" + re.RegexSource + "/" + re.RegexFlags), nil
	}))

	ctor := nativeFn(it, "RegExp", 2, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		pattern := ""
		flags := ""
		switch src := arg(args, 0).(type) {
		case *interp.Object:
			if src.Class == interp.ClassRegExp {
				pattern = src.RegexSource
				flags = src.RegexFlags
			} else {
				pattern = interp.ToStringValue(src)
			}
		default:
			if !isUndefinedValue(src) {
				pattern = interp.ToStringValue(src)
			}
		}
		if len(args) > 1 && !isUndefinedValue(args[1]) {
			flags = interp.ToStringValue(args[1])
		}
		return it.NewRegExpObject(pattern, flags), nil
	})
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)
	defineGlobal(it, "RegExp", ctor)
}

// regexMatchAt runs the compiled pattern against s starting at lastIndex
// when the `g` or `y` flags are set, advancing lastIndex on success the way
// 22.2.7.1's RegExpBuiltinExec does for repeated exec/test calls in a loop.
func regexMatchAt(re *interp.Object, s string) (*regexp2.Match, error) {
	compiled, _ := re.RegexCompiled.(*regexp2.Regexp)
	if compiled == nil {
		return nil, nil
	}
	sticky := strings.Contains(re.RegexFlags, "g") || strings.Contains(re.RegexFlags, "y")
	start := 0
	if sticky {
		start = int(interp.ToIntegerOrInfinity(re.Get(interp.StringKey("lastIndex"), re)))
		if start < 0 || start > len(s) {
			re.SetOwn(interp.StringKey("lastIndex"), interp.Number(0))
			return nil, nil
		}
	}
	m, err := compiled.FindStringMatchStartingAt(s, start)
	if err != nil {
		return nil, err
	}
	if sticky {
		if m == nil {
			re.SetOwn(interp.StringKey("lastIndex"), interp.Number(0))
		} else {
			re.SetOwn(interp.StringKey("lastIndex"), interp.Number(float64(m.Index+m.Length)))
		}
	}
	return m, nil
}

// matchToArray builds the Array RegExp.prototype.exec returns: index 0 is
// the full match, following indices are capture groups, plus `index` and
// `input` own properties.
func matchToArray(it *interp.Interpreter, m *regexp2.Match, s string) interp.Value {
	groups := m.Groups()
	out := make([]interp.Value, 0, len(groups))
	for i, g := range groups {
		if i == 0 {
			out = append(out, interp.String(m.String()))
			continue
		}
		if g.Length == 0 && len(g.Captures) == 0 {
			out = append(out, interp.Undefined{})
			continue
		}
		out = append(out, interp.String(g.String()))
	}
	arr := interp.NewArray(it.ArrayProto, out)
	arr.SetOwn(interp.StringKey("index"), interp.Number(float64(m.Index)))
	arr.SetOwn(interp.StringKey("input"), interp.String(s))
	return arr
}

// regexpReplace implements the RegExp branch of String.prototype.replace/
// replaceAll: iterate regexp2 matches (all of them when global, otherwise
// just the first) and expand each with either the callback or $-pattern
// substitution rules.
func regexpReplace(it *interp.Interpreter, re *interp.Object, s string, replVal interp.Value, replFn *interp.Object, replIsFn bool, global bool) (interp.Value, error) {
	compiled, _ := re.RegexCompiled.(*regexp2.Regexp)
	if compiled == nil {
		return interp.String(s), nil
	}
	var sb strings.Builder
	pos := 0
	m, err := compiled.FindStringMatch(s)
	if err != nil {
		return nil, err
	}
	for m != nil {
		sb.WriteString(s[pos:m.Index])
		groups := m.Groups()
		captures := make([]string, 0, len(groups)-1)
		for i := 1; i < len(groups); i++ {
			captures = append(captures, groups[i].String())
		}
		if replIsFn {
			callArgs := []interp.Value{interp.String(m.String())}
			for _, c := range captures {
				callArgs = append(callArgs, interp.String(c))
			}
			callArgs = append(callArgs, interp.Number(float64(m.Index)), interp.String(s))
			res, err := it.Call(replFn, interp.Undefined{}, callArgs)
			if err != nil {
				return nil, err
			}
			sb.WriteString(interp.ToStringValue(res))
		} else {
			sb.WriteString(expandRegexReplacement(interp.ToStringValue(replVal), m.String(), captures, s, m.Index))
		}
		pos = m.Index + m.Length
		if !global {
			break
		}
		if m.Length == 0 {
			if pos < len(s) {
				sb.WriteByte(s[pos])
				pos++
			} else {
				break
			}
		}
		m, err = compiled.FindNextMatch(m)
		if err != nil {
			return nil, err
		}
	}
	if pos <= len(s) {
		sb.WriteString(s[pos:])
	}
	return interp.String(sb.String()), nil
}

// expandRegexReplacement extends expandReplacement with $1-$9 capture-group
// substitution, which the RegExp branch needs but the plain string search
// branch never does (no groups to index into).
func expandRegexReplacement(repl, match string, groups []string, full string, pos int) string {
	var sb strings.Builder
	for i := 0; i < len(repl); i++ {
		if repl[i] == '$' && i+1 < len(repl) {
			c := repl[i+1]
			switch {
			case c == '$':
				sb.WriteByte('$')
				i++
				continue
			case c == '&':
				sb.WriteString(match)
				i++
				continue
			case c == '`':
				sb.WriteString(full[:pos])
				i++
				continue
			case c == '\'':
				sb.WriteString(full[pos+len(match):])
				i++
				continue
			case c >= '1' && c <= '9':
				n, _ := strconv.Atoi(string(c))
				if n >= 1 && n <= len(groups) {
					sb.WriteString(groups[n-1])
					i++
					continue
				}
			}
		}
		sb.WriteByte(repl[i])
	}
	return sb.String()
}
