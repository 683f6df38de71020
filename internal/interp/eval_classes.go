package interp

import (
	"github.com/kodjodevf/js-interpreter-sub002/internal/ast"
	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
)

// evalClass builds a class's constructor function object in one pass,
// building a callable plus a side table of members and wiring the
// prototype chain for `extends`. Class bodies are always strict.
func (it *Interpreter) evalClass(name string, superClassExpr ast.Expression, body *ast.ClassBody, env *Environment, strict bool) (Value, error) {
	const classStrict = true

	var superCtor *Object
	parentProto := it.ObjectProto
	if superClassExpr != nil {
		sv, err := it.evalExpression(superClassExpr, env, classStrict)
		if err != nil {
			return nil, err
		}
		if _, isNull := sv.(Null); isNull {
			parentProto = nil
		} else {
			sc, ok := sv.(*Object)
			if !ok || sc.Class != ClassFunction {
				return nil, errors.TypeError(posOf(body), "Class extends value is not a constructor")
			}
			superCtor = sc
			if pv, ok := sc.Get(StringKey("prototype"), sc).(*Object); ok {
				parentProto = pv
			}
		}
	}
	proto := NewObject(parentProto)

	classEnv := NewEnclosed(env)
	if name != "" {
		classEnv.DeclareLexical(name, true)
	}

	var ctorMember *ast.ClassMember
	var instanceFields []*ast.ClassMember
	var staticMembers []*ast.ClassMember
	var instanceMembers []*ast.ClassMember
	for _, m := range body.Members {
		switch {
		case m.IsStaticBlock:
			staticMembers = append(staticMembers, m)
		case m.Static:
			staticMembers = append(staticMembers, m)
		case !m.Computed && m.Kind == ast.PropMethod && !m.IsField && identName(m.Key) == "constructor":
			ctorMember = m
		case m.IsField:
			instanceFields = append(instanceFields, m)
		default:
			instanceMembers = append(instanceMembers, m)
		}
	}

	var ctorObj *Object
	if ctorMember != nil {
		fe := ctorMember.Value.(*ast.FunctionExpression)
		ctorObj = it.makeFunction(name, fe.Params, fe.Body, classEnv, classStrict, false, false, false, ThisModeStrict, proto)
	} else {
		ctorObj = it.makeDefaultConstructor(name, classEnv, proto, superCtor != nil)
	}
	ctorObj.Fn.IsClassCtor = true
	ctorObj.Fn.SuperCtor = superCtor
	ctorObj.Fn.InstanceFields = instanceFields
	ctorObj.Fn.FieldEnv = classEnv
	if superCtor != nil {
		ctorObj.Proto = superCtor
	} else {
		ctorObj.Proto = it.FunctionProto
	}
	ctorObj.DefineOwn(StringKey("prototype"), &PropertyDescriptor{Value: proto, Writable: false, Enumerable: false, Configurable: false})
	proto.DefineOwn(StringKey("constructor"), &PropertyDescriptor{Value: ctorObj, Writable: true, Enumerable: false, Configurable: true})
	ctorObj.DefineOwn(StringKey("name"), &PropertyDescriptor{Value: String(name), Configurable: true})

	if name != "" {
		classEnv.InitializeLexical(name, ctorObj)
	}

	for _, m := range instanceMembers {
		if err := it.installClassMember(m, proto, classEnv, classStrict); err != nil {
			return nil, err
		}
	}

	for _, m := range staticMembers {
		if m.IsStaticBlock {
			fe := m.Value.(*ast.FunctionExpression)
			blockFn := it.makeFunction("", fe.Params, fe.Body, classEnv, classStrict, false, false, false, ThisModeStrict, ctorObj)
			if _, err := it.callFunction(blockFn, ctorObj, nil); err != nil {
				return nil, err
			}
			continue
		}
		if m.IsField {
			var v Value = Undefined{}
			if m.Value != nil {
				fieldEnv := NewFunctionScope(classEnv, ctorObj, Undefined{}, nil)
				var err error
				v, err = it.evalExpression(m.Value, fieldEnv, classStrict)
				if err != nil {
					return nil, err
				}
			}
			key, err := it.classMemberKey(m, classEnv, classStrict)
			if err != nil {
				return nil, err
			}
			ctorObj.DefineOwn(key, &PropertyDescriptor{Value: v, Writable: true, Enumerable: true, Configurable: true})
			continue
		}
		if err := it.installClassMember(m, ctorObj, classEnv, classStrict); err != nil {
			return nil, err
		}
	}

	return ctorObj, nil
}

func identName(e ast.Expression) string {
	if id, ok := e.(*ast.Identifier); ok {
		return id.Name
	}
	return ""
}

func (it *Interpreter) classMemberKey(m *ast.ClassMember, env *Environment, strict bool) (PropertyKey, error) {
	if m.Computed {
		kv, err := it.evalExpression(m.Key, env, strict)
		if err != nil {
			return PropertyKey{}, err
		}
		return it.toPropertyKey(kv), nil
	}
	return propertyKeyFromNode(m.Key), nil
}

func (it *Interpreter) installClassMember(m *ast.ClassMember, target *Object, env *Environment, strict bool) error {
	key, err := it.classMemberKey(m, env, strict)
	if err != nil {
		return err
	}
	fe := m.Value.(*ast.FunctionExpression)
	fn := it.makeFunction("", fe.Params, fe.Body, env, strict, fe.IsAsync, fe.IsGen, false, ThisModeStrict, target)
	fn.Fn.Name = key.String()
	fn.SetOwn(StringKey("name"), String(key.String()))
	switch m.Kind {
	case ast.PropGet, ast.PropSet:
		existing, _ := target.GetOwn(key)
		pd := &PropertyDescriptor{IsAccessor: true, Enumerable: false, Configurable: true}
		if existing != nil && existing.IsAccessor {
			pd.Get, pd.Set = existing.Get, existing.Set
		}
		if m.Kind == ast.PropGet {
			pd.Get = fn
		} else {
			pd.Set = fn
		}
		target.DefineOwn(key, pd)
	default:
		target.DefineOwn(key, &PropertyDescriptor{Value: fn, Writable: true, Enumerable: false, Configurable: true})
	}
	return nil
}

// initInstanceFields runs instance field initializers with `this` bound to
// the freshly allocated instance, ahead of the constructor body (a
// simplification of the derived-class ordering rule, see construct()).
func (it *Interpreter) initInstanceFields(fields []*ast.ClassMember, instance *Object, classEnv *Environment) error {
	fieldEnv := NewFunctionScope(classEnv, instance, Undefined{}, nil)
	for _, m := range fields {
		var v Value = Undefined{}
		if m.Value != nil {
			var err error
			v, err = it.evalExpression(m.Value, fieldEnv, true)
			if err != nil {
				return err
			}
		}
		key, err := it.classMemberKey(m, fieldEnv, true)
		if err != nil {
			return err
		}
		instance.DefineOwn(key, &PropertyDescriptor{Value: v, Writable: true, Enumerable: true, Configurable: true})
	}
	return nil
}

// makeDefaultConstructor synthesizes the implicit `constructor(){}` (base
// class) or `constructor(...args){ super(...args) }` (derived class) ECMA-262
// gives a class with no explicit constructor member.
func (it *Interpreter) makeDefaultConstructor(name string, env *Environment, homeObject *Object, derived bool) *Object {
	fn := &Object{Proto: it.FunctionProto, Class: ClassFunction, props: make(map[string]*PropertyDescriptor), Extensible: true}
	fn.Fn = &FunctionData{
		Name: name, ThisMode: ThisModeStrict, Strict: true, HomeObject: homeObject, Closure: env,
		Node: funcBody{block: &ast.BlockStatement{}}, DefaultDerivedCtor: derived,
	}
	fn.DefineOwn(StringKey("length"), &PropertyDescriptor{Value: Number(0), Configurable: true})
	fn.DefineOwn(StringKey("name"), &PropertyDescriptor{Value: String(name), Configurable: true})
	return fn
}
