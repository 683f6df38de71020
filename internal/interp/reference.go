package interp

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/lexer"
)

// Reference is a (base, key, strict) triple: member expressions and
// identifiers evaluate to one lazily so that compound assignment, `delete`,
// and `typeof` can act on the binding itself instead of its
// already-dereferenced value. A small Value-or-Reference return from
// expression evaluation is enough to support this.
type Reference struct {
	// Unresolved identifier reference.
	Env  *Environment
	Name string

	// Member reference: Base[Key] (Key may itself be a *Symbol via
	// PropertyKey.Sym).
	Base   Value
	Key    PropertyKey
	HasKey bool

	Strict bool
}

func identRef(env *Environment, name string, strict bool) Reference {
	return Reference{Env: env, Name: name, Strict: strict}
}

func memberRef(base Value, key PropertyKey, strict bool) Reference {
	return Reference{Base: base, Key: key, HasKey: true, Strict: strict}
}

func (r Reference) isMember() bool { return r.HasKey }

// getRef dereferences r to its current value (ECMA-262 GetValue).
func (it *Interpreter) getRef(r Reference, pos *lexer.Position) (Value, error) {
	if r.isMember() {
		obj, err := it.toObjectForRef(r.Base, pos)
		if err != nil {
			return nil, err
		}
		return obj.Get(r.Key, r.Base), nil
	}
	v, err := r.Env.Get(r.Name)
	if err != nil {
		if re, ok := err.(*errors.RuntimeError); ok && pos != nil {
			re.Pos = pos
		}
		return nil, err
	}
	return v, nil
}

// setRef performs ECMA-262 PutValue: writes through the reference, honoring
// prototype-chain accessors and const/strict-mode restrictions.
func (it *Interpreter) setRef(r Reference, v Value, pos *lexer.Position) error {
	if r.isMember() {
		obj, err := it.toObjectForRef(r.Base, pos)
		if err != nil {
			return err
		}
		it.setOnPrototypeChainAware(obj, r.Key, v)
		return nil
	}
	if r.Strict {
		if err := r.Env.Set(r.Name, v); err != nil {
			return err
		}
		return nil
	}
	if r.Env.Has(r.Name) {
		return r.Env.Set(r.Name, v)
	}
	r.Env.SetGlobal(r.Name, v)
	return nil
}

// setOnPrototypeChainAware implements [[Set]]: an inherited accessor's
// setter runs against the receiver; otherwise a new/updated own data
// property lands on the receiver, never on an ancestor (§4.3 "Prototype
// lookup and property access").
func (it *Interpreter) setOnPrototypeChainAware(o *Object, key PropertyKey, v Value) {
	if o.Class == ClassProxy {
		if trap, ok := o.proxyTrap("set"); ok {
			CallFunctionObject(trap, o.ProxyHandler, []Value{o.ProxyTarget, propertyKeyToValue(key), v, o})
			return
		}
		it.setOnPrototypeChainAware(o.ProxyTarget, key, v)
		return
	}
	cur := o
	for cur != nil {
		if pd, ok := cur.GetOwn(key); ok {
			if pd.IsAccessor {
				if pd.Set != nil {
					CallFunctionObject(pd.Set, o, []Value{v})
				}
				return
			}
			if cur == o {
				if pd.Writable {
					o.SetOwn(key, v)
				}
				return
			}
			break
		}
		cur = cur.Proto
	}
	o.SetOwn(key, v)
}

func (it *Interpreter) toObjectForRef(base Value, pos *lexer.Position) (*Object, error) {
	if o, ok := base.(*Object); ok {
		return o, nil
	}
	if _, ok := base.(Undefined); ok {
		return nil, errors.TypeError(pos, "Cannot read properties of undefined")
	}
	if _, ok := base.(Null); ok {
		return nil, errors.TypeError(pos, "Cannot read properties of null")
	}
	return it.boxPrimitive(base), nil
}
