package interp

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/ast"
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
)

// bindMode distinguishes the three ways a pattern-match result lands in the
// environment: a plain `var` assignment (binding must already be hoisted),
// a let/const initialization (clears TDZ), or a bare assignment expression
// (writes through an existing Reference, possibly a member expression).
type bindMode int

const (
	bindAssignVar bindMode = iota
	bindInitLexical
	bindAssignExpr
)

// bindPattern destructures v against target, installing bindings (or
// writing through references, for bindAssignExpr) per §4.2 Destructuring.
func (it *Interpreter) bindPattern(target ast.Expression, v Value, env *Environment, strict bool, mode bindMode) error {
	switch t := target.(type) {
	case *ast.Identifier:
		switch mode {
		case bindAssignVar:
			env.DeclareVar(t.Name, v)
			return nil
		case bindInitLexical:
			env.InitializeLexical(t.Name, v)
			return nil
		default:
			return it.assignToTarget(t, v, env, strict)
		}
	case *ast.AssignmentPattern:
		if isUndefinedValue(v) {
			var err error
			v, err = it.evalExpression(t.Default, env, strict)
			if err != nil {
				return err
			}
			if id, ok := t.Target.(*ast.Identifier); ok {
				nameAnonymousFunction(v, id.Name)
			}
		}
		return it.bindPattern(t.Target, v, env, strict, mode)
	case *ast.ArrayPattern:
		return it.bindArrayPattern(t, v, env, strict, mode)
	case *ast.ObjectPattern:
		return it.bindObjectPattern(t, v, env, strict, mode)
	case *ast.RestElement:
		return it.bindPattern(t.Target, v, env, strict, mode)
	case *ast.MemberExpression:
		if mode == bindAssignExpr {
			return it.assignToTarget(t, v, env, strict)
		}
		return errors.SyntaxError(posOf(target), "invalid destructuring target")
	default:
		return errors.SyntaxError(posOf(target), "invalid destructuring target")
	}
}

func (it *Interpreter) bindArrayPattern(t *ast.ArrayPattern, v Value, env *Environment, strict bool, mode bindMode) error {
	iter, err := it.getIterator(v, false)
	if err != nil {
		return err
	}
	defer it.iteratorClose(iter)
	for _, el := range t.Elements {
		val, done, err := it.iteratorNext(iter, nil)
		if err != nil {
			return err
		}
		if done {
			val = Undefined{}
		}
		if el == nil {
			continue
		}
		if rest, ok := el.(*ast.RestElement); ok {
			var remaining []Value
			if !done {
				remaining = append(remaining, val)
			}
			for {
				rv, rdone, err := it.iteratorNext(iter, nil)
				if err != nil {
					return err
				}
				if rdone {
					break
				}
				remaining = append(remaining, rv)
			}
			if err := it.bindPattern(rest.Target, NewArray(it.ArrayProto, remaining), env, strict, mode); err != nil {
				return err
			}
			continue
		}
		if err := it.bindPattern(el, val, env, strict, mode); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) bindObjectPattern(t *ast.ObjectPattern, v Value, env *Environment, strict bool, mode bindMode) error {
	if isUndefinedValue(v) || isNullValue(v) {
		return errors.TypeError(posOf(t), "Cannot destructure '%s' as it is %s.", ToStringValue(v), TypeOf(v))
	}
	taken := make(map[string]bool)
	for _, p := range t.Properties {
		var key PropertyKey
		if p.Computed {
			kv, err := it.evalExpression(p.Key, env, strict)
			if err != nil {
				return err
			}
			key = it.toPropertyKey(kv)
		} else {
			key = propertyKeyFromNode(p.Key)
		}
		taken[key.mapKey()] = true
		val, err := it.getPropertyValue(v, key)
		if err != nil {
			return err
		}
		if err := it.bindPattern(p.Value, val, env, strict, mode); err != nil {
			return err
		}
	}
	if t.Rest != nil {
		restObj := NewObject(it.ObjectProto)
		if o, ok := v.(*Object); ok {
			for _, k := range o.OwnKeys() {
				if taken[k.mapKey()] {
					continue
				}
				pd, ok := o.GetOwn(k)
				if !ok || !pd.Enumerable {
					continue
				}
				restObj.SetOwn(k, o.Get(k, o))
			}
		}
		if err := it.bindPattern(t.Rest, restObj, env, strict, mode); err != nil {
			return err
		}
	}
	return nil
}

// getPropertyValue reads key off v, boxing primitives as needed (string
// indexing, Number.prototype methods via boxing, etc.).
func (it *Interpreter) getPropertyValue(v Value, key PropertyKey) (Value, error) {
	if s, ok := v.(String); ok && key.Sym == nil {
		if key.Str == "length" {
			return Number(len([]rune(string(s)))), nil
		}
		if idx, ok := arrayIndex(key.Str); ok {
			runes := []rune(string(s))
			if idx < len(runes) {
				return String(runes[idx]), nil
			}
			return Undefined{}, nil
		}
	}
	obj, err := it.toObjectForRef(v, nil)
	if err != nil {
		return nil, err
	}
	return obj.Get(key, v), nil
}
