package builtins_test

import (
	"testing"

	"github.com/kodjodevf/js-interpreter-sub002/internal/builtins"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

func run(t *testing.T, src string) interp.Value {
	t.Helper()
	it := interp.New()
	builtins.Install(it)
	v, err := it.RunProgram(src)
	if err != nil {
		t.Fatalf("RunProgram(%q): %v", src, err)
	}
	return v
}

func wantString(t *testing.T, v interp.Value, want string) {
	t.Helper()
	s, ok := v.(interp.String)
	if !ok {
		t.Fatalf("result = %#v (%T), want interp.String", v, v)
	}
	if string(s) != want {
		t.Errorf("result = %q, want %q", s, want)
	}
}

func wantNumber(t *testing.T, v interp.Value, want float64) {
	t.Helper()
	n, ok := v.(interp.Number)
	if !ok {
		t.Fatalf("result = %#v (%T), want interp.Number", v, v)
	}
	if float64(n) != want {
		t.Errorf("result = %v, want %v", n, want)
	}
}

func wantBool(t *testing.T, v interp.Value, want bool) {
	t.Helper()
	b, ok := v.(interp.Boolean)
	if !ok {
		t.Fatalf("result = %#v (%T), want interp.Boolean", v, v)
	}
	if bool(b) != want {
		t.Errorf("result = %v, want %v", b, want)
	}
}

func TestArray_AtNegativeIndex(t *testing.T) {
	wantNumber(t, run(t, "[1,2,3].at(-1)"), 3)
}

func TestArray_JoinOnSparseArray(t *testing.T) {
	wantString(t, run(t, "Array(3).join('0')"), "00")
}

func TestArray_SortDefaultIsLexicographic(t *testing.T) {
	wantString(t, run(t, "[3,1,10,2].sort().join(',')"), "1,10,2,3")
}

func TestArray_SortWithComparator(t *testing.T) {
	wantString(t, run(t, "[3,1,10,2].sort((a,b) => a-b).join(',')"), "1,2,3,10")
}

func TestArray_ReduceWithoutInitialValue(t *testing.T) {
	wantNumber(t, run(t, "[1,2,3,4].reduce((a,b) => a+b)"), 10)
}

func TestString_CaseConversion(t *testing.T) {
	wantString(t, run(t, "'Hello World'.toLowerCase()"), "hello world")
}

func TestString_PadStart(t *testing.T) {
	wantString(t, run(t, "'5'.padStart(3, '0')"), "005")
}

func TestString_ReplaceAll(t *testing.T) {
	wantString(t, run(t, "'a-b-c'.replaceAll('-', '_')"), "a_b_c")
}

func TestMath_MinMax(t *testing.T) {
	wantNumber(t, run(t, "Math.max(1, 5, 3)"), 5)
	wantNumber(t, run(t, "Math.min(1, 5, 3)"), 1)
}

func TestJSON_RoundTrip(t *testing.T) {
	src := `JSON.stringify(JSON.parse('{"a":1,"b":[1,2,3]}'))`
	wantString(t, run(t, src), `{"a":1,"b":[1,2,3]}`)
}

func TestJSON_StringifyWithIndent(t *testing.T) {
	src := `JSON.stringify({a:1}, null, 2)`
	wantString(t, run(t, src), "{\n  \"a\": 1\n}")
}

func TestRegExp_TestAndExec(t *testing.T) {
	wantBool(t, run(t, "/ab+c/.test('abbbc')"), true)
	wantString(t, run(t, "/(\\w+)@(\\w+)/.exec('user@host')[1]"), "user")
}

func TestMap_BasicOperations(t *testing.T) {
	src := `
	let m = new Map();
	m.set('a', 1).set('b', 2);
	m.get('a') + m.size;
	`
	wantNumber(t, run(t, src), 3)
}

func TestSet_Deduplicates(t *testing.T) {
	wantNumber(t, run(t, "new Set([1,2,2,3,3,3]).size"), 3)
}

func TestDate_ParsesISOAndGetsYear(t *testing.T) {
	wantNumber(t, run(t, "new Date('2024-01-15T00:00:00.000Z').getUTCFullYear()"), 2024)
}

func TestSymbol_IteratorProtocolOnCustomObject(t *testing.T) {
	src := `
	let obj = {
		[Symbol.iterator]() {
			let i = 0;
			return { next() { return i < 3 ? {value: i++, done: false} : {value: undefined, done: true}; } };
		}
	};
	[...obj].join(',');
	`
	wantString(t, run(t, src), "0,1,2")
}
