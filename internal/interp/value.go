// Package interp implements the tree-walking evaluator: the runtime value
// model, lexical environments, and the statement/expression evaluation that
// walks the internal/ast tree produced by internal/parser.
package interp

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// Value is the sum type for every runtime value the evaluator produces: the
// full closed set ECMA-262 specifies — the five primitive kinds, BigInt,
// Symbol, and *Object for everything reference-typed.
type Value interface {
	valueTag()
}

// Undefined is the sole value of type Undefined.
type Undefined struct{}

func (Undefined) valueTag() {}

// Null is the sole value of type Null.
type Null struct{}

func (Null) valueTag() {}

// Boolean wraps a Go bool.
type Boolean bool

func (Boolean) valueTag() {}

// Number wraps a float64, matching ECMAScript's single numeric type
// (IEEE 754 double precision binary64).
type Number float64

func (Number) valueTag() {}

// String wraps a Go string. Source text is UTF-8; indices into a String
// value are UTF-16 code unit offsets per spec, reconciled in the String
// builtin rather than here.
type String string

func (String) valueTag() {}

// BigInt holds an arbitrary-precision integer as a sign and magnitude
// words.
type BigInt struct {
	Sign  int // -1, 0, 1
	Words []uint
}

func (BigInt) valueTag() {}

// Symbol is a unique, unforgeable primitive value, optionally carrying a
// description used only for display.
type Symbol struct {
	Description string
	id          uint64
}

func (*Symbol) valueTag() {}

var symbolCounter uint64

// NewSymbol allocates a fresh Symbol; two Symbols are never SameValue even
// with identical descriptions.
func NewSymbol(description string) *Symbol {
	symbolCounter++
	return &Symbol{Description: description, id: symbolCounter}
}

// WellKnownSymbols, created once, back Symbol.iterator/asyncIterator/etc.
var (
	SymbolIterator      = NewSymbol("Symbol.iterator")
	SymbolAsyncIterator = NewSymbol("Symbol.asyncIterator")
	SymbolToStringTag   = NewSymbol("Symbol.toStringTag")
	SymbolHasInstance   = NewSymbol("Symbol.hasInstance")
	SymbolToPrimitive   = NewSymbol("Symbol.toPrimitive")
)

// ObjectClass tags what internal slots an *Object carries, standing in for
// ECMA-262's distinct exotic object internal methods without a full
// internal-method vtable: one struct with many fields rather than
// per-kind subclasses.
type ObjectClass int

const (
	ClassObject ObjectClass = iota
	ClassArray
	ClassFunction
	ClassError
	ClassDate
	ClassRegExp
	ClassMap
	ClassSet
	ClassWeakMap
	ClassWeakSet
	ClassWeakRef
	ClassPromise
	ClassGenerator
	ClassAsyncGenerator
	ClassArguments
	ClassBoolean
	ClassNumber
	ClassString
	ClassSymbolObj
	ClassBigIntObj
	ClassProxy
	ClassTypedArray
	ClassArrayBuffer
)

// PropertyKey is either a string or a *Symbol, used as map keys via the
// string form (symbols get a synthetic "@@sym:<id>" key internally) while
// OwnKeys() still reports them split and correctly ordered.
type PropertyKey struct {
	Str string
	Sym *Symbol
}

func StringKey(s string) PropertyKey { return PropertyKey{Str: s} }
func SymbolKey(s *Symbol) PropertyKey { return PropertyKey{Sym: s} }

func (k PropertyKey) mapKey() string {
	if k.Sym != nil {
		return fmt.Sprintf("@@sym:%d", k.Sym.id)
	}
	return k.Str
}

func (k PropertyKey) String() string {
	if k.Sym != nil {
		return "Symbol(" + k.Sym.Description + ")"
	}
	return k.Str
}

// PropertyDescriptor is either a data property (Value, Writable) or an
// accessor property (Get/Set), matching the spec's two descriptor shapes.
type PropertyDescriptor struct {
	Value        Value
	Get          *Object
	Set          *Object
	Writable     bool
	Enumerable   bool
	Configurable bool
	IsAccessor   bool
}

// Object is the single representation for every reference type: plain
// objects, arrays, functions, errors, and every built-in exotic object —
// one struct with class-specific payload fields left zero for classes that
// don't use them, rather than a type per ECMA exotic object.
type Object struct {
	Proto *Object
	Class ObjectClass

	keys  []PropertyKey // insertion order, integer-index-like keys excluded
	props map[string]*PropertyDescriptor

	Extensible bool

	// ClassArray / ClassArguments
	Elements []Value

	// ClassFunction
	Fn *FunctionData

	// ClassError
	ErrKind    string
	ErrMessage string
	ErrStack   string

	// ClassMap / ClassSet / ClassWeakMap / ClassWeakSet
	MapData *OrderedMap

	// ClassDate
	DateValue float64 // ms since epoch, NaN if Invalid Date

	// ClassRegExp
	RegexSource string
	RegexFlags  string
	RegexCompiled any // *regexp2.Regexp, typed any to avoid an import cycle hazard

	// ClassPromise
	Promise *PromiseData

	// ClassGenerator / ClassAsyncGenerator
	Gen *GeneratorData

	// ClassBoolean / ClassNumber / ClassString / ClassSymbolObj / ClassBigIntObj
	Primitive Value

	// ClassArrayBuffer / ClassTypedArray
	Buffer     []byte
	ArrayKind  string // "Int8Array", "Float64Array", ...
	ByteOffset int
	Length     int

	// ClassProxy
	ProxyTarget  *Object
	ProxyHandler *Object
}

// propertyKeyToValue converts a PropertyKey back to the Value a trap
// function receives as its property-key argument (String or *Symbol).
func propertyKeyToValue(key PropertyKey) Value {
	if key.Sym != nil {
		return key.Sym
	}
	return String(key.Str)
}

// proxyTrap looks up handler[name], returning ok=false when absent or not
// callable so callers fall back to the target's own [[...]] operation, per
// the spec's "if trap is undefined, return target.[[...]]" fallback rule.
func (o *Object) proxyTrap(name string) (*Object, bool) {
	if o.ProxyHandler == nil {
		return nil, false
	}
	fn, ok := o.ProxyHandler.Get(StringKey(name), o.ProxyHandler).(*Object)
	if !ok || fn.Class != ClassFunction {
		return nil, false
	}
	return fn, true
}

func (*Object) valueTag() {}

// NewObject allocates a plain object with the given prototype.
func NewObject(proto *Object) *Object {
	return &Object{
		Proto:      proto,
		Class:      ClassObject,
		props:      make(map[string]*PropertyDescriptor),
		Extensible: true,
	}
}

// NewArray allocates an array exotic object; elements holds dense storage,
// `length` is derived from len(elements) unless later shortened explicitly.
func NewArray(proto *Object, elements []Value) *Object {
	return &Object{
		Proto:      proto,
		Class:      ClassArray,
		props:      make(map[string]*PropertyDescriptor),
		Elements:   elements,
		Extensible: true,
	}
}

func arrayIndex(key string) (int, bool) {
	if key == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil {
		return 0, false
	}
	if strconv.FormatUint(n, 10) != key {
		return 0, false // reject "01", "-0", leading zeros etc.
	}
	return int(n), true
}

// GetOwn looks up an own property descriptor, synthesizing one for dense
// array elements and the array "length" property on the fly.
func (o *Object) GetOwn(key PropertyKey) (*PropertyDescriptor, bool) {
	if o.Class == ClassProxy {
		// getOwnPropertyDescriptor is not trapped separately; callers that
		// need own-descriptor shape (Object.keys enumerable checks,
		// hasOwnProperty) see the target's own descriptor directly. The
		// get/set/has/deleteProperty/ownKeys traps above cover the
		// observable behavior §1 requires from Proxy.
		return o.ProxyTarget.GetOwn(key)
	}
	if o.Class == ClassArray || o.Class == ClassArguments {
		if key.Sym == nil {
			if key.Str == "length" {
				return &PropertyDescriptor{Value: Number(len(o.Elements)), Writable: true}, true
			}
			if idx, ok := arrayIndex(key.Str); ok {
				if idx < len(o.Elements) {
					v := o.Elements[idx]
					if v == nil {
						return nil, false
					}
					return &PropertyDescriptor{Value: v, Writable: true, Enumerable: true, Configurable: true}, true
				}
				return nil, false
			}
		}
	}
	if o.Class == ClassTypedArray {
		if key.Sym == nil {
			if key.Str == "length" {
				return &PropertyDescriptor{Value: Number(o.Length)}, true
			}
			if idx, ok := arrayIndex(key.Str); ok {
				if idx >= o.Length {
					return nil, false
				}
				return &PropertyDescriptor{Value: typedArrayGet(o, idx), Writable: true, Enumerable: true}, true
			}
		}
	}
	pd, ok := o.props[key.mapKey()]
	return pd, ok
}

// Get performs the full [[Get]] walk up the prototype chain, invoking
// accessor getters bound to receiver (normally o itself).
func (o *Object) Get(key PropertyKey, receiver Value) Value {
	cur := o
	for cur != nil {
		if cur.Class == ClassProxy {
			if trap, ok := cur.proxyTrap("get"); ok {
				return CallFunctionObject(trap, cur.ProxyHandler, []Value{cur.ProxyTarget, propertyKeyToValue(key), receiver})
			}
			return cur.ProxyTarget.Get(key, receiver)
		}
		if pd, ok := cur.GetOwn(key); ok {
			if pd.IsAccessor {
				if pd.Get == nil {
					return Undefined{}
				}
				return CallFunctionObject(pd.Get, receiver, nil)
			}
			return pd.Value
		}
		cur = cur.Proto
	}
	return Undefined{}
}

// SetOwn assigns an own data property, creating it with default attributes
// if absent, and maintaining array length/elements for array instances.
func (o *Object) SetOwn(key PropertyKey, v Value) {
	if o.Class == ClassArray || o.Class == ClassArguments {
		if key.Sym == nil {
			if key.Str == "length" {
				if n, ok := v.(Number); ok {
					o.setLength(int(n))
					return
				}
			}
			if idx, ok := arrayIndex(key.Str); ok {
				if idx >= len(o.Elements) {
					grown := make([]Value, idx+1)
					copy(grown, o.Elements)
					o.Elements = grown
				}
				o.Elements[idx] = v
				return
			}
		}
	}
	if o.Class == ClassTypedArray {
		if key.Sym == nil {
			if idx, ok := arrayIndex(key.Str); ok {
				if idx < o.Length {
					typedArraySet(o, idx, ToNumber(v))
				}
				return
			}
		}
	}
	if pd, ok := o.props[key.mapKey()]; ok && !pd.IsAccessor {
		pd.Value = v
		return
	}
	o.DefineOwn(key, &PropertyDescriptor{Value: v, Writable: true, Enumerable: true, Configurable: true})
}

func (o *Object) setLength(n int) {
	if n < 0 {
		n = 0
	}
	if n <= len(o.Elements) {
		o.Elements = o.Elements[:n]
		return
	}
	grown := make([]Value, n)
	copy(grown, o.Elements)
	o.Elements = grown
}

// DefineOwn installs a property descriptor directly, recording the key in
// insertion order the first time it's seen (spec-ordered OwnKeys needs this).
func (o *Object) DefineOwn(key PropertyKey, pd *PropertyDescriptor) {
	mk := key.mapKey()
	if _, exists := o.props[mk]; !exists {
		o.keys = append(o.keys, key)
	}
	o.props[mk] = pd
}

// DeleteOwn removes an own property, returning whether one existed.
func (o *Object) DeleteOwn(key PropertyKey) bool {
	if o.Class == ClassProxy {
		if trap, ok := o.proxyTrap("deleteProperty"); ok {
			return ToBoolean(CallFunctionObject(trap, o.ProxyHandler, []Value{o.ProxyTarget, propertyKeyToValue(key)}))
		}
		return o.ProxyTarget.DeleteOwn(key)
	}
	mk := key.mapKey()
	if _, ok := o.props[mk]; !ok {
		return false
	}
	delete(o.props, mk)
	for i, k := range o.keys {
		if k.mapKey() == mk {
			o.keys = append(o.keys[:i], o.keys[i+1:]...)
			break
		}
	}
	return true
}

// HasProperty walks the prototype chain looking for key.
func (o *Object) HasProperty(key PropertyKey) bool {
	cur := o
	for cur != nil {
		if cur.Class == ClassProxy {
			if trap, ok := cur.proxyTrap("has"); ok {
				return ToBoolean(CallFunctionObject(trap, cur.ProxyHandler, []Value{cur.ProxyTarget, propertyKeyToValue(key)}))
			}
			return cur.ProxyTarget.HasProperty(key)
		}
		if _, ok := cur.GetOwn(key); ok {
			return true
		}
		cur = cur.Proto
	}
	return false
}

// OwnKeys returns own property keys in spec order: ascending integer
// indices first, then string keys in insertion order, then symbol keys in
// insertion order.
func (o *Object) OwnKeys() []PropertyKey {
	if o.Class == ClassProxy {
		if trap, ok := o.proxyTrap("ownKeys"); ok {
			res := CallFunctionObject(trap, o.ProxyHandler, []Value{o.ProxyTarget})
			arr, ok := res.(*Object)
			if !ok {
				return o.ProxyTarget.OwnKeys()
			}
			out := make([]PropertyKey, 0, len(arr.Elements))
			for _, v := range arr.Elements {
				switch x := v.(type) {
				case String:
					out = append(out, StringKey(string(x)))
				case *Symbol:
					out = append(out, SymbolKey(x))
				}
			}
			return out
		}
		return o.ProxyTarget.OwnKeys()
	}

	var indices []int
	var strs []PropertyKey
	var syms []PropertyKey

	if o.Class == ClassArray || o.Class == ClassArguments {
		for i, v := range o.Elements {
			if v != nil {
				indices = append(indices, i)
			}
		}
	}
	for _, k := range o.keys {
		if k.Sym != nil {
			syms = append(syms, k)
			continue
		}
		if idx, ok := arrayIndex(k.Str); ok {
			already := false
			for _, i := range indices {
				if i == idx {
					already = true
					break
				}
			}
			if !already {
				indices = append(indices, idx)
			}
			continue
		}
		strs = append(strs, k)
	}
	sort.Ints(indices)

	out := make([]PropertyKey, 0, len(indices)+len(strs)+len(syms))
	for _, i := range indices {
		out = append(out, StringKey(strconv.Itoa(i)))
	}
	if (o.Class == ClassArray) {
		out = append(out, StringKey("length"))
	}
	out = append(out, strs...)
	out = append(out, syms...)
	return out
}

// FunctionData holds everything needed to invoke a function object:
// either a user closure over an *ast.FunctionExpression-like body, or a
// native Go implementation.
type FunctionData struct {
	Name        string
	ParamCount  int // "length" property, count before first default/rest
	IsArrow     bool
	IsGenerator bool
	IsAsync     bool
	IsClassCtor bool
	ThisMode    ThisMode
	Strict      bool

	// User-defined function: captured scope plus AST body, evaluated by
	// eval_functions.go's CallFunctionObject.
	Closure *Environment
	Node    any // *ast.FunctionExpression / *ast.ArrowFunctionExpression / *ast.ClassMember

	// Native function implemented directly in Go (most builtins).
	Native NativeFunc

	HomeObject *Object // for `super` resolution in methods

	// Class constructor bookkeeping (only set when IsClassCtor).
	SuperCtor          *Object
	DefaultDerivedCtor bool // synthesized `constructor(...args){ super(...args) }`
	InstanceFields     any  // []*ast.ClassMember, evaluated against `this` at construction
	FieldEnv           *Environment
}

// ThisMode controls how `this` binds on invocation.
type ThisMode int

const (
	ThisModeGlobal ThisMode = iota // non-strict plain call: this = globalThis
	ThisModeStrict                 // strict call: this = undefined
	ThisModeLexical                 // arrow function: this inherited from enclosing scope
)

// NativeFunc is a built-in function implemented in Go.
type NativeFunc func(it *Interpreter, this Value, args []Value) (Value, error)

// OrderedMap backs Map/Set, preserving insertion order per spec and using
// SameValueZero key equality (so NaN groups with NaN, +0/-0 are the same key).
type OrderedMap struct {
	keys   []Value
	values map[string]Value
	order  map[string]int
}

func NewOrderedMap() *OrderedMap {
	return &OrderedMap{values: make(map[string]Value), order: make(map[string]int)}
}

func mapKeyFor(v Value) string {
	switch x := v.(type) {
	case Number:
		if math.IsNaN(float64(x)) {
			return "NaN"
		}
		if x == 0 {
			return "0"
		}
		return fmt.Sprintf("n:%v", float64(x))
	case String:
		return "s:" + string(x)
	case Boolean:
		return fmt.Sprintf("b:%v", bool(x))
	case Undefined:
		return "undefined"
	case Null:
		return "null"
	case *Object:
		return fmt.Sprintf("o:%p", x)
	case *Symbol:
		return fmt.Sprintf("y:%d", x.id)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (m *OrderedMap) Get(k Value) (Value, bool) {
	v, ok := m.values[mapKeyFor(k)]
	return v, ok
}

func (m *OrderedMap) Set(k, v Value) {
	mk := mapKeyFor(k)
	if _, exists := m.values[mk]; !exists {
		m.order[mk] = len(m.keys)
		m.keys = append(m.keys, k)
	}
	m.values[mk] = v
}

func (m *OrderedMap) Delete(k Value) bool {
	mk := mapKeyFor(k)
	if _, ok := m.values[mk]; !ok {
		return false
	}
	delete(m.values, mk)
	idx := m.order[mk]
	delete(m.order, mk)
	m.keys = append(m.keys[:idx], m.keys[idx+1:]...)
	for i := idx; i < len(m.keys); i++ {
		m.order[mapKeyFor(m.keys[i])] = i
	}
	return true
}

func (m *OrderedMap) Has(k Value) bool {
	_, ok := m.values[mapKeyFor(k)]
	return ok
}

func (m *OrderedMap) Size() int { return len(m.keys) }

func (m *OrderedMap) Keys() []Value { return m.keys }

func (m *OrderedMap) Clear() {
	m.keys = nil
	m.values = make(map[string]Value)
	m.order = make(map[string]int)
}

// PromiseData backs the Promise exotic object: state plus the reaction
// jobs waiting on settlement, scheduled onto the microtask queue.
type PromiseData struct {
	State            PromiseState
	Result           Value
	FulfillReactions []PromiseReaction
	RejectReactions  []PromiseReaction
	Handled          bool
}

type PromiseState int

const (
	PromisePending PromiseState = iota
	PromiseFulfilled
	PromiseRejected
)

type PromiseReaction struct {
	Handler    *Object // nil means "identity"/"thrower" passthrough
	Capability *PromiseCapability
}

// PromiseCapability bundles a promise with its resolve/reject functions,
// mirroring the spec's PromiseCapability Record.
type PromiseCapability struct {
	Promise *Object
	Resolve func(Value)
	Reject  func(Value)
}

// GeneratorData backs generator/async-generator objects: a suspended
// goroutine communicating with the driving caller over unbuffered channels,
// an idiomatic Go shape for suspend/resume coroutines.
type GeneratorData struct {
	resumeCh chan generatorResume
	yieldCh  chan generatorYield
	started  bool
	done     bool
}

type generatorResume struct {
	value Value
	kind  generatorResumeKind
}

type generatorResumeKind int

const (
	resumeNext generatorResumeKind = iota
	resumeThrow
	resumeReturn
)

type generatorYield struct {
	value Value
	done  bool
	err   error
}
