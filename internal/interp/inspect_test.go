package interp_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/kodjodevf/js-interpreter-sub002/internal/builtins"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// TestInspectValue_Snapshot pins console.log-style value stringification
// (arrays, nested objects, functions) via go-snaps.
func TestInspectValue_Snapshot(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"array", `[1, "two", [3, 4], null, undefined]`},
		{"object", `({a: 1, b: {c: 2}, d: [1,2,3]})`},
		{"function", `(function named(x, y) { return x + y; })`},
		{"class_instance", `(new (class Point { constructor(x,y){ this.x=x; this.y=y; } })(1, 2))`},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			it := interp.New()
			builtins.Install(it)
			v, err := it.RunProgram(c.src)
			if err != nil {
				t.Fatalf("RunProgram(%q): %v", c.src, err)
			}
			snaps.MatchSnapshot(t, interp.InspectValue(v))
		})
	}
}
