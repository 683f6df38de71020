package interp

import "github.com/kodjodevf/js-interpreter-sub002/internal/errors"

// iteratorRecord is a closure-based stand-in for ECMA-262's Iterator Record
// (iterator object + next method): a dense-array/string fast path avoids
// going through Symbol.iterator for the common case, while the general case
// dispatches to a user- or builtin-supplied `next`/`return` method pair.
type iteratorRecord struct {
	next  func(sendValue Value) (Value, bool, error)
	close func()
}

// getIterator implements GetIterator (7.4.5): fast paths for arrays and
// strings (the overwhelming majority of for-of/spread targets), direct
// resumption for generator objects, and a protocol dispatch
// (Symbol.iterator / Symbol.asyncIterator) for everything else, including
// user-defined iterables.
func (it *Interpreter) getIterator(v Value, isAsync bool) (*iteratorRecord, error) {
	switch x := v.(type) {
	case *Object:
		if x.Class == ClassArray || x.Class == ClassArguments {
			i := 0
			return &iteratorRecord{
				next: func(Value) (Value, bool, error) {
					if i >= len(x.Elements) {
						return Undefined{}, true, nil
					}
					val := x.Elements[i]
					i++
					if val == nil {
						return Undefined{}, false, nil
					}
					return val, false, nil
				},
			}, nil
		}
		if x.Class == ClassGenerator || x.Class == ClassAsyncGenerator {
			return &iteratorRecord{
				next: func(sv Value) (Value, bool, error) {
					return it.generatorResume(x, resumeNext, sv)
				},
				close: func() {
					_, _, _ = it.generatorResume(x, resumeReturn, Undefined{})
				},
			}, nil
		}
		symKey := SymbolKey(SymbolIterator)
		if isAsync {
			symKey = SymbolKey(SymbolAsyncIterator)
		}
		iterFn, ok := x.Get(symKey, x).(*Object)
		if !ok && isAsync {
			iterFn, ok = x.Get(SymbolKey(SymbolIterator), x).(*Object)
		}
		if !ok || iterFn.Class != ClassFunction {
			return nil, errors.TypeError(nil, "value is not iterable")
		}
		iterVal, err := it.callFunction(iterFn, x, nil)
		if err != nil {
			return nil, err
		}
		iterObj, ok := iterVal.(*Object)
		if !ok {
			return nil, errors.TypeError(nil, "iterator result is not an object")
		}
		return it.wrapProtocolIterator(iterObj), nil
	case String:
		runes := []rune(string(x))
		i := 0
		return &iteratorRecord{
			next: func(Value) (Value, bool, error) {
				if i >= len(runes) {
					return Undefined{}, true, nil
				}
				r := runes[i]
				i++
				return String(r), false, nil
			},
		}, nil
	}
	return nil, errors.TypeError(nil, "%s is not iterable", TypeOf(v))
}

// wrapProtocolIterator adapts a user/builtin iterator object's next/return
// methods into the closure shape the rest of the evaluator consumes.
func (it *Interpreter) wrapProtocolIterator(iterObj *Object) *iteratorRecord {
	return &iteratorRecord{
		next: func(sv Value) (Value, bool, error) {
			nextFn, ok := iterObj.Get(StringKey("next"), iterObj).(*Object)
			if !ok || nextFn.Class != ClassFunction {
				return nil, false, errors.TypeError(nil, "iterator has no next method")
			}
			var args []Value
			if sv != nil {
				args = []Value{sv}
			}
			res, err := it.callFunction(nextFn, iterObj, args)
			if err != nil {
				return nil, false, err
			}
			resObj, ok := res.(*Object)
			if !ok {
				return nil, false, errors.TypeError(nil, "iterator result is not an object")
			}
			done := ToBoolean(resObj.Get(StringKey("done"), resObj))
			return resObj.Get(StringKey("value"), resObj), done, nil
		},
		close: func() {
			retFn, ok := iterObj.Get(StringKey("return"), iterObj).(*Object)
			if ok && retFn.Class == ClassFunction {
				_, _ = it.callFunction(retFn, iterObj, nil)
			}
		},
	}
}

func (it *Interpreter) iteratorNext(iter *iteratorRecord, sendValue Value) (Value, bool, error) {
	return iter.next(sendValue)
}

func (it *Interpreter) iteratorClose(iter *iteratorRecord) {
	if iter.close != nil {
		iter.close()
	}
}

// iterableToSlice drains an iterable fully, used by spread syntax (array
// literals, call arguments) where the whole sequence is needed at once.
func (it *Interpreter) iterableToSlice(v Value) ([]Value, error) {
	iter, err := it.getIterator(v, false)
	if err != nil {
		return nil, err
	}
	var out []Value
	for {
		val, done, err := it.iteratorNext(iter, nil)
		if err != nil {
			return nil, err
		}
		if done {
			return out, nil
		}
		out = append(out, val)
	}
}
