package interp

import (
	"math"

	"github.com/kodjodevf/js-interpreter-sub002/internal/ast"
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
)

// evalExpression dereferences every expression to a plain Value.
func (it *Interpreter) evalExpression(e ast.Expression, env *Environment, strict bool) (Value, error) {
	v, _, err := it.evalChain(e, env, strict)
	return v, err
}

// evalChain is the single entry point for expression evaluation that also
// tracks optional-chaining short-circuit (§4.3: "a?.b.c short-circuits the
// entire rest-of-chain to undefined"). Propagation only continues through
// directly-nested MemberExpression/CallExpression links, matching how the
// parser structurally nests an `a?.b.c` chain; any other node (parens,
// identifiers, literals) starts a fresh, non-chained evaluation.
func (it *Interpreter) evalChain(e ast.Expression, env *Environment, strict bool) (Value, bool, error) {
	switch n := e.(type) {
	case *ast.MemberExpression:
		return it.evalMember(n, env, strict)
	case *ast.CallExpression:
		return it.evalCallChain(n, env, strict)
	case *ast.ParenthesizedExpression:
		return it.evalChain(n.Inner, env, strict)
	default:
		v, err := it.evalPlainExpression(e, env, strict)
		return v, false, err
	}
}

// evalMember evaluates `a.b` / `a[b]` / `a?.b`, returning (value,
// shortCircuited, error).
func (it *Interpreter) evalMember(n *ast.MemberExpression, env *Environment, strict bool) (Value, bool, error) {
	if _, ok := n.Object.(*ast.SuperExpression); ok {
		home := env.HomeObject()
		key, err := it.memberKey(n, env, strict)
		if err != nil {
			return nil, false, err
		}
		if home == nil || home.Proto == nil {
			return Undefined{}, false, nil
		}
		return home.Proto.Get(key, env.This()), false, nil
	}
	base, short, err := it.chainBase(n.Object, env, strict)
	if err != nil || short {
		return Undefined{}, short, err
	}
	if n.Optional && isNullish(base) {
		return Undefined{}, true, nil
	}
	key, err := it.memberKey(n, env, strict)
	if err != nil {
		return nil, false, err
	}
	val, err := it.getPropertyValue(base, key)
	if err != nil {
		return nil, false, err
	}
	return val, false, nil
}

// chainBase evaluates the object/callee sub-expression of a member/call
// node, propagating short-circuit only when that sub-expression is itself
// a chain link (Member/Call/Super).
func (it *Interpreter) chainBase(e ast.Expression, env *Environment, strict bool) (Value, bool, error) {
	switch e.(type) {
	case *ast.MemberExpression, *ast.CallExpression:
		return it.evalChain(e, env, strict)
	}
	v, err := it.evalPlainExpression(e, env, strict)
	return v, false, err
}

func (it *Interpreter) memberKey(n *ast.MemberExpression, env *Environment, strict bool) (PropertyKey, error) {
	if !n.Computed {
		return StringKey(n.Property.(*ast.Identifier).Name), nil
	}
	kv, err := it.evalExpression(n.Property, env, strict)
	if err != nil {
		return PropertyKey{}, err
	}
	return it.toPropertyKey(kv), nil
}

func (it *Interpreter) toPropertyKey(v Value) PropertyKey {
	if s, ok := v.(*Symbol); ok {
		return SymbolKey(s)
	}
	s, _ := it.toPrimitiveString(v)
	return StringKey(s)
}

// isNullish reports whether v is null or undefined.
func isNullish(v Value) bool {
	switch v.(type) {
	case Undefined, Null:
		return true
	}
	return false
}

func isUndefinedValue(v Value) bool {
	_, ok := v.(Undefined)
	return ok
}

func isNullValue(v Value) bool {
	_, ok := v.(Null)
	return ok
}

// refTarget resolves e to an assignable/typeof/delete-able Reference. Only
// Identifier and non-optional MemberExpression chains are valid references;
// anything else (including an optional-chain member) is reported via ok=false.
func (it *Interpreter) refTarget(e ast.Expression, env *Environment, strict bool) (ref Reference, ok bool, err error) {
	switch n := e.(type) {
	case *ast.Identifier:
		return identRef(env, n.Name, strict), true, nil
	case *ast.ParenthesizedExpression:
		return it.refTarget(n.Inner, env, strict)
	case *ast.MemberExpression:
		if _, isSuper := n.Object.(*ast.SuperExpression); isSuper {
			home := env.HomeObject()
			key, kerr := it.memberKey(n, env, strict)
			if kerr != nil {
				return Reference{}, false, kerr
			}
			var base Value = Null{}
			if home != nil && home.Proto != nil {
				base = home.Proto
			}
			return memberRef(base, key, strict), true, nil
		}
		base, err := it.evalExpression(n.Object, env, strict)
		if err != nil {
			return Reference{}, false, err
		}
		key, err := it.memberKey(n, env, strict)
		if err != nil {
			return Reference{}, false, err
		}
		return memberRef(base, key, strict), true, nil
	}
	return Reference{}, false, nil
}

func (it *Interpreter) evalPlainExpression(e ast.Expression, env *Environment, strict bool) (Value, error) {
	switch n := e.(type) {
	case *ast.Identifier:
		v, err := env.Get(n.Name)
		if err != nil {
			if re, ok := err.(*errors.RuntimeError); ok && re.Pos == nil {
				p, _ := n.Span()
				re.Pos = &p
			}
			return nil, err
		}
		return v, nil
	case *ast.NullLiteral:
		return Null{}, nil
	case *ast.UndefinedLiteral:
		return Undefined{}, nil
	case *ast.BooleanLiteral:
		return Boolean(n.Value), nil
	case *ast.NumberLiteral:
		return Number(n.Value), nil
	case *ast.StringLiteral:
		return String(n.Value), nil
	case *ast.RegexLiteral:
		return it.newRegExp(n.Pattern, n.Flags), nil
	case *ast.ThisExpression:
		return env.This(), nil
	case *ast.MetaProperty:
		if n.Kind == ast.MetaNewTarget {
			return env.NewTarget(), nil
		}
		return NewObject(it.ObjectProto), nil
	case *ast.SuperExpression:
		return Undefined{}, nil
	case *ast.ArrayLiteral:
		return it.evalArrayLiteral(n, env, strict)
	case *ast.ObjectLiteral:
		return it.evalObjectLiteral(n, env, strict)
	case *ast.TemplateLiteral:
		return it.evalTemplateLiteral(n, env, strict)
	case *ast.TaggedTemplateExpression:
		return it.evalTaggedTemplate(n, env, strict)
	case *ast.FunctionExpression:
		return it.makeFunction(n.Name, n.Params, n.Body, env, strict, n.IsAsync, n.IsGen, false, ThisModeGlobal, nil), nil
	case *ast.ArrowFunctionExpression:
		return it.makeArrowFunction(n, env, strict), nil
	case *ast.ClassExpression:
		return it.evalClass(n.Name, n.SuperClass, n.Body, env, strict)
	case *ast.ClassDeclaration:
		return it.evalClass(n.Name, n.SuperClass, n.Body, env, strict)
	case *ast.FunctionDecl:
		return it.makeFunction(n.Name, n.Params, n.Body, env, strict, n.IsAsync, n.IsGen, false, ThisModeGlobal, nil), nil
	case *ast.UnaryExpression:
		return it.evalUnary(n, env, strict)
	case *ast.UpdateExpression:
		return it.evalUpdate(n, env, strict)
	case *ast.BinaryExpression:
		return it.evalBinary(n, env, strict)
	case *ast.LogicalExpression:
		return it.evalLogical(n, env, strict)
	case *ast.ConditionalExpression:
		test, err := it.evalExpression(n.Test, env, strict)
		if err != nil {
			return nil, err
		}
		if ToBoolean(test) {
			return it.evalExpression(n.Consequent, env, strict)
		}
		return it.evalExpression(n.Alternate, env, strict)
	case *ast.AssignmentExpression:
		return it.evalAssignment(n, env, strict)
	case *ast.SequenceExpression:
		var v Value = Undefined{}
		for _, ex := range n.Expressions {
			var err error
			v, err = it.evalExpression(ex, env, strict)
			if err != nil {
				return nil, err
			}
		}
		return v, nil
	case *ast.SpreadElement:
		return it.evalExpression(n.Argument, env, strict)
	case *ast.CallExpression:
		v, _, err := it.evalCallChain(n, env, strict)
		return v, err
	case *ast.NewExpression:
		return it.evalNew(n, env, strict)
	case *ast.YieldExpression:
		return it.evalYield(n, env, strict)
	case *ast.AwaitExpression:
		v, err := it.evalExpression(n.Argument, env, strict)
		if err != nil {
			return nil, err
		}
		return it.evalAwait(v, env)
	case *ast.ImportExpression:
		return it.evalDynamicImport(n, env, strict)
	case *ast.ParenthesizedExpression:
		return it.evalExpression(n.Inner, env, strict)
	case *ast.MemberExpression:
		v, _, err := it.evalMember(n, env, strict)
		return v, err
	default:
		return nil, errors.SyntaxError(posOf(e), "unsupported expression node %T", e)
	}
}

func (it *Interpreter) evalArrayLiteral(n *ast.ArrayLiteral, env *Environment, strict bool) (Value, error) {
	var elems []Value
	for _, el := range n.Elements {
		if el == nil {
			elems = append(elems, nil)
			continue
		}
		if sp, ok := el.(*ast.SpreadElement); ok {
			sv, err := it.evalExpression(sp.Argument, env, strict)
			if err != nil {
				return nil, err
			}
			items, err := it.iterableToSlice(sv)
			if err != nil {
				return nil, err
			}
			elems = append(elems, items...)
			continue
		}
		v, err := it.evalExpression(el, env, strict)
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
	return NewArray(it.ArrayProto, elems), nil
}

func (it *Interpreter) evalObjectLiteral(n *ast.ObjectLiteral, env *Environment, strict bool) (Value, error) {
	obj := NewObject(it.ObjectProto)
	for _, p := range n.Properties {
		if p.Kind == ast.PropSpread {
			sv, err := it.evalExpression(p.Value, env, strict)
			if err != nil {
				return nil, err
			}
			if src, ok := sv.(*Object); ok {
				for _, k := range src.OwnKeys() {
					pd, ok := src.GetOwn(k)
					if !ok || !pd.Enumerable {
						continue
					}
					obj.SetOwn(k, src.Get(k, src))
				}
			}
			continue
		}
		var key PropertyKey
		if p.Computed {
			kv, err := it.evalExpression(p.Key, env, strict)
			if err != nil {
				return nil, err
			}
			key = it.toPropertyKey(kv)
		} else {
			key = propertyKeyFromNode(p.Key)
		}
		switch p.Kind {
		case ast.PropGet, ast.PropSet:
			fnExpr := p.Value.(*ast.FunctionExpression)
			fn := it.makeFunction("", fnExpr.Params, fnExpr.Body, env, strict, false, false, false, ThisModeGlobal, obj)
			existing, _ := obj.GetOwn(key)
			pd := &PropertyDescriptor{IsAccessor: true, Enumerable: true, Configurable: true}
			if existing != nil && existing.IsAccessor {
				pd.Get, pd.Set = existing.Get, existing.Set
			}
			if p.Kind == ast.PropGet {
				pd.Get = fn
			} else {
				pd.Set = fn
			}
			obj.DefineOwn(key, pd)
		case ast.PropMethod:
			fnExpr := p.Value.(*ast.FunctionExpression)
			fn := it.makeFunction("", fnExpr.Params, fnExpr.Body, env, strict, fnExpr.IsAsync, fnExpr.IsGen, false, ThisModeGlobal, obj)
			fn.Fn.Name = key.String()
			fn.SetOwn(StringKey("name"), String(key.String()))
			obj.DefineOwn(key, &PropertyDescriptor{Value: fn, Writable: true, Enumerable: true, Configurable: true})
		default:
			v, err := it.evalExpression(p.Value, env, strict)
			if err != nil {
				return nil, err
			}
			nameAnonymousFunction(v, key.String())
			obj.DefineOwn(key, &PropertyDescriptor{Value: v, Writable: true, Enumerable: true, Configurable: true})
		}
	}
	return obj, nil
}

func (it *Interpreter) evalTemplateLiteral(n *ast.TemplateLiteral, env *Environment, strict bool) (Value, error) {
	out := n.Quasis[0]
	for i, ex := range n.Expressions {
		v, err := it.evalExpression(ex, env, strict)
		if err != nil {
			return nil, err
		}
		s, err := it.toPrimitiveString(v)
		if err != nil {
			return nil, err
		}
		out += s + n.Quasis[i+1]
	}
	return String(out), nil
}

func (it *Interpreter) evalTaggedTemplate(n *ast.TaggedTemplateExpression, env *Environment, strict bool) (Value, error) {
	strs := make([]Value, len(n.Template.Quasis))
	for i, q := range n.Template.Quasis {
		strs[i] = String(q)
	}
	stringsArr := NewArray(it.ArrayProto, strs)
	stringsArr.SetOwn(StringKey("raw"), NewArray(it.ArrayProto, strs))
	args := []Value{stringsArr}
	for _, ex := range n.Template.Expressions {
		v, err := it.evalExpression(ex, env, strict)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	var thisVal Value = Undefined{}
	var calleeV Value
	var err error
	if mem, ok := n.Tag.(*ast.MemberExpression); ok {
		thisVal, err = it.evalExpression(mem.Object, env, strict)
		if err != nil {
			return nil, err
		}
		key, kerr := it.memberKey(mem, env, strict)
		if kerr != nil {
			return nil, kerr
		}
		calleeV, err = it.getPropertyValue(thisVal, key)
		if err != nil {
			return nil, err
		}
	} else {
		calleeV, err = it.evalExpression(n.Tag, env, strict)
		if err != nil {
			return nil, err
		}
	}
	fn, ok := calleeV.(*Object)
	if !ok || fn.Class != ClassFunction {
		return nil, errors.TypeError(posOf(n), "tag is not a function")
	}
	return it.callFunction(fn, thisVal, args)
}

func (it *Interpreter) evalUnary(n *ast.UnaryExpression, env *Environment, strict bool) (Value, error) {
	pos := startPosValue(n)
	if n.Op == ast.UnaryTypeof {
		if id, ok := n.Argument.(*ast.Identifier); ok && !env.Has(id.Name) {
			return String("undefined"), nil
		}
		v, short, err := it.evalChain(n.Argument, env, strict)
		if err != nil {
			return nil, err
		}
		if short {
			return String("undefined"), nil
		}
		return String(TypeOf(v)), nil
	}
	if n.Op == ast.UnaryDelete {
		ref, ok, err := it.refTarget(n.Argument, env, strict)
		if err != nil {
			return nil, err
		}
		if !ok || !ref.isMember() {
			return Boolean(true), nil
		}
		if isNullish(ref.Base) {
			return Boolean(true), nil
		}
		obj, err := it.toObjectForRef(ref.Base, pos)
		if err != nil {
			return nil, err
		}
		return Boolean(obj.DeleteOwn(ref.Key)), nil
	}

	v, err := it.evalExpression(n.Argument, env, strict)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case ast.UnaryPlus:
		num, err := it.toNumberCoerce(v)
		if err != nil {
			return nil, err
		}
		return Number(num), nil
	case ast.UnaryMinus:
		num, err := it.toNumberCoerce(v)
		if err != nil {
			return nil, err
		}
		return Number(-num), nil
	case ast.UnaryNot:
		return Boolean(!ToBoolean(v)), nil
	case ast.UnaryBitNot:
		return Number(float64(^ToInt32(v))), nil
	case ast.UnaryVoid:
		return Undefined{}, nil
	}
	return Undefined{}, nil
}

func (it *Interpreter) evalUpdate(n *ast.UpdateExpression, env *Environment, strict bool) (Value, error) {
	ref, ok, err := it.refTarget(n.Argument, env, strict)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.SyntaxError(posOf(n), "Invalid left-hand side expression in update expression")
	}
	pos := startPosValue(n)
	old, err := it.getRef(ref, pos)
	if err != nil {
		return nil, err
	}
	oldNum, err := it.toNumberCoerce(old)
	if err != nil {
		return nil, err
	}
	var newNum float64
	if n.Op == "++" {
		newNum = oldNum + 1
	} else {
		newNum = oldNum - 1
	}
	if err := it.setRef(ref, Number(newNum), pos); err != nil {
		return nil, err
	}
	if n.Prefix {
		return Number(newNum), nil
	}
	return Number(oldNum), nil
}

func startPosValue(n ast.Node) *lexer.Position {
	p, _ := n.Span()
	return &p
}

func (it *Interpreter) evalLogical(n *ast.LogicalExpression, env *Environment, strict bool) (Value, error) {
	left, err := it.evalExpression(n.Left, env, strict)
	if err != nil {
		return nil, err
	}
	switch n.Op {
	case "&&":
		if !ToBoolean(left) {
			return left, nil
		}
	case "||":
		if ToBoolean(left) {
			return left, nil
		}
	case "??":
		if !isNullish(left) {
			return left, nil
		}
	}
	return it.evalExpression(n.Right, env, strict)
}

func (it *Interpreter) evalAssignment(n *ast.AssignmentExpression, env *Environment, strict bool) (Value, error) {
	if n.Op == "=" {
		v, err := it.evalExpression(n.Value, env, strict)
		if err != nil {
			return nil, err
		}
		if id, ok := n.Target.(*ast.Identifier); ok {
			nameAnonymousFunction(v, id.Name)
		}
		if err := it.bindPattern(n.Target, v, env, strict, bindAssignExpr); err != nil {
			return nil, err
		}
		return v, nil
	}
	ref, ok, err := it.refTarget(n.Target, env, strict)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.SyntaxError(posOf(n), "Invalid left-hand side in assignment")
	}
	pos := startPosValue(n)
	switch n.Op {
	case "&&=", "||=", "??=":
		cur, err := it.getRef(ref, pos)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case "&&=":
			if !ToBoolean(cur) {
				return cur, nil
			}
		case "||=":
			if ToBoolean(cur) {
				return cur, nil
			}
		case "??=":
			if !isNullish(cur) {
				return cur, nil
			}
		}
		v, err := it.evalExpression(n.Value, env, strict)
		if err != nil {
			return nil, err
		}
		if err := it.setRef(ref, v, pos); err != nil {
			return nil, err
		}
		return v, nil
	default:
		cur, err := it.getRef(ref, pos)
		if err != nil {
			return nil, err
		}
		rhs, err := it.evalExpression(n.Value, env, strict)
		if err != nil {
			return nil, err
		}
		result, err := it.applyCompoundOp(n.Op, cur, rhs)
		if err != nil {
			return nil, err
		}
		if err := it.setRef(ref, result, pos); err != nil {
			return nil, err
		}
		return result, nil
	}
}

func (it *Interpreter) applyCompoundOp(op string, a, b Value) (Value, error) {
	return it.applyBinaryOp(op[:len(op)-1], a, b)
}

func (it *Interpreter) evalBinary(n *ast.BinaryExpression, env *Environment, strict bool) (Value, error) {
	left, err := it.evalExpression(n.Left, env, strict)
	if err != nil {
		return nil, err
	}
	right, err := it.evalExpression(n.Right, env, strict)
	if err != nil {
		return nil, err
	}
	return it.applyBinaryOp(n.Op, left, right)
}

func (it *Interpreter) applyBinaryOp(op string, left, right Value) (Value, error) {
	switch op {
	case "+":
		return it.addOp(left, right)
	case "-", "*", "/", "%", "**":
		l, err := it.toNumberCoerce(left)
		if err != nil {
			return nil, err
		}
		r, err := it.toNumberCoerce(right)
		if err != nil {
			return nil, err
		}
		switch op {
		case "-":
			return Number(l - r), nil
		case "*":
			return Number(l * r), nil
		case "/":
			return Number(l / r), nil
		case "%":
			return Number(math.Mod(l, r)), nil
		default:
			return Number(math.Pow(l, r)), nil
		}
	case "<", ">", "<=", ">=":
		return it.relationalOp(op, left, right)
	case "==":
		eq, err := it.looseEquals(left, right)
		return Boolean(eq), err
	case "!=":
		eq, err := it.looseEquals(left, right)
		return Boolean(!eq), err
	case "===":
		return Boolean(StrictEquals(left, right)), nil
	case "!==":
		return Boolean(!StrictEquals(left, right)), nil
	case "&":
		return Number(float64(ToInt32(left) & ToInt32(right))), nil
	case "|":
		return Number(float64(ToInt32(left) | ToInt32(right))), nil
	case "^":
		return Number(float64(ToInt32(left) ^ ToInt32(right))), nil
	case "<<":
		return Number(float64(ToInt32(left) << (ToUint32(right) & 31))), nil
	case ">>":
		return Number(float64(ToInt32(left) >> (ToUint32(right) & 31))), nil
	case ">>>":
		return Number(float64(ToUint32(left) >> (ToUint32(right) & 31))), nil
	case "instanceof":
		return it.instanceOf(left, right)
	case "in":
		obj, ok := right.(*Object)
		if !ok {
			return nil, errors.TypeError(nil, "Cannot use 'in' operator to search for '%s' in %s", ToStringValue(left), ToStringValue(right))
		}
		return Boolean(obj.HasProperty(it.toPropertyKey(left))), nil
	}
	return Undefined{}, nil
}

func (it *Interpreter) addOp(left, right Value) (Value, error) {
	lp, err := it.toPrimitive(left, "")
	if err != nil {
		return nil, err
	}
	rp, err := it.toPrimitive(right, "")
	if err != nil {
		return nil, err
	}
	_, lIsStr := lp.(String)
	_, rIsStr := rp.(String)
	if lIsStr || rIsStr {
		ls, err := it.toPrimitiveString(lp)
		if err != nil {
			return nil, err
		}
		rs, err := it.toPrimitiveString(rp)
		if err != nil {
			return nil, err
		}
		return String(ls + rs), nil
	}
	ln, err := it.toNumberCoerce(lp)
	if err != nil {
		return nil, err
	}
	rn, err := it.toNumberCoerce(rp)
	if err != nil {
		return nil, err
	}
	return Number(ln + rn), nil
}

func (it *Interpreter) relationalOp(op string, left, right Value) (Value, error) {
	lp, err := it.toPrimitive(left, "number")
	if err != nil {
		return nil, err
	}
	rp, err := it.toPrimitive(right, "number")
	if err != nil {
		return nil, err
	}
	ls, lIsStr := lp.(String)
	rs, rIsStr := rp.(String)
	if lIsStr && rIsStr {
		switch op {
		case "<":
			return Boolean(ls < rs), nil
		case ">":
			return Boolean(ls > rs), nil
		case "<=":
			return Boolean(ls <= rs), nil
		default:
			return Boolean(ls >= rs), nil
		}
	}
	ln, err := it.toNumberCoerce(lp)
	if err != nil {
		return nil, err
	}
	rn, err := it.toNumberCoerce(rp)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(ln) || math.IsNaN(rn) {
		return Boolean(false), nil
	}
	switch op {
	case "<":
		return Boolean(ln < rn), nil
	case ">":
		return Boolean(ln > rn), nil
	case "<=":
		return Boolean(ln <= rn), nil
	default:
		return Boolean(ln >= rn), nil
	}
}

func (it *Interpreter) looseEquals(a, b Value) (bool, error) {
	if StrictEquals(a, b) {
		return true, nil
	}
	aNull, bNull := isNullish(a), isNullish(b)
	if aNull || bNull {
		return aNull && bNull, nil
	}
	switch x := a.(type) {
	case Number:
		switch b.(type) {
		case String, Boolean:
			bn, err := it.toNumberCoerce(b)
			return float64(x) == bn, err
		case *Object:
			bp, err := it.toPrimitive(b, "")
			if err != nil {
				return false, err
			}
			return it.looseEquals(a, bp)
		}
	case String:
		switch b.(type) {
		case Number, Boolean:
			an, err := it.toNumberCoerce(a)
			if err != nil {
				return false, err
			}
			bn, err := it.toNumberCoerce(b)
			return an == bn, err
		case *Object:
			bp, err := it.toPrimitive(b, "")
			if err != nil {
				return false, err
			}
			return it.looseEquals(a, bp)
		}
	case Boolean:
		an, err := it.toNumberCoerce(a)
		if err != nil {
			return false, err
		}
		return it.looseEquals(Number(an), b)
	case *Object:
		switch b.(type) {
		case Number, String, BigInt:
			ap, err := it.toPrimitive(a, "")
			if err != nil {
				return false, err
			}
			return it.looseEquals(ap, b)
		}
	}
	return false, nil
}

func (it *Interpreter) instanceOf(left, right Value) (Value, error) {
	ctor, ok := right.(*Object)
	if !ok {
		return nil, errors.TypeError(nil, "Right-hand side of 'instanceof' is not callable")
	}
	if hasInstanceVal := ctor.Get(SymbolKey(SymbolHasInstance), ctor); hasInstanceVal != nil {
		if fn, ok := hasInstanceVal.(*Object); ok && fn.Class == ClassFunction {
			result, err := it.Call(fn, ctor, []Value{left})
			if err != nil {
				return nil, err
			}
			return Boolean(ToBoolean(result)), nil
		}
	}
	if ctor.Class != ClassFunction {
		return nil, errors.TypeError(nil, "Right-hand side of 'instanceof' is not callable")
	}
	obj, ok := left.(*Object)
	if !ok {
		return Boolean(false), nil
	}
	protoVal := ctor.Get(StringKey("prototype"), ctor)
	proto, ok := protoVal.(*Object)
	if !ok {
		return Boolean(false), nil
	}
	cur := obj.Proto
	for cur != nil {
		if cur == proto {
			return Boolean(true), nil
		}
		cur = cur.Proto
	}
	return Boolean(false), nil
}

// ObjectIs implements Object.is (7.2.10).
func ObjectIs(a, b Value) bool {
	an, aIsNum := a.(Number)
	bn, bIsNum := b.(Number)
	if aIsNum && bIsNum {
		if math.IsNaN(float64(an)) && math.IsNaN(float64(bn)) {
			return true
		}
		if an == 0 && bn == 0 {
			return math.Signbit(float64(an)) == math.Signbit(float64(bn))
		}
		return an == bn
	}
	return StrictEquals(a, b)
}

func propertyKeyFromNode(key ast.Expression) PropertyKey {
	switch k := key.(type) {
	case *ast.Identifier:
		return StringKey(k.Name)
	case *ast.StringLiteral:
		return StringKey(k.Value)
	case *ast.NumberLiteral:
		return StringKey(NumberToString(k.Value))
	}
	return StringKey("")
}
