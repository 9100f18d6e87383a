package forge

import (
	"reflect"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCheckReachableChain(t *testing.T) {
	r := Empty().
		Register(5).
		Register(func(n int) bool { return n%2 == 1 }).
		Register(func(odd bool) string { return "" })

	if err := Check[string](r); err != nil {
		t.Errorf("expected string to be reachable, got %v", err)
	}
	if err := Check[bool](r); err != nil {
		t.Errorf("expected bool to be reachable, got %v", err)
	}
}

func TestCheckMissingDependency(t *testing.T) {
	r := Empty().Register(func(n int) string { return "" })

	err := Check[string](r)
	if err == nil {
		t.Fatal("expected string to be unreachable without an int")
	}
	if _, ok := err.(*NoPathError); !ok {
		t.Errorf("expected NoPathError, got %T", err)
	}
}

func TestCheckCycleIsUnreachable(t *testing.T) {
	r := Empty().
		Register(func(a cycleA) cycleB { return cycleB{a.n} }).
		Register(func(b cycleB) cycleA { return cycleA{b.n} })

	// A pure cycle with no escape value never reaches a fixed point.
	if err := Check[cycleA](r); err == nil {
		t.Error("expected cycleA to be unreachable")
	}
}

func TestReachableCountsOverrides(t *testing.T) {
	type svc struct{ d dsn }
	r := Empty().Register(func(d dsn) svc { return svc{d} })
	r = Specialize[svc](r, dsn("replica"))

	// The analysis assumes overrides are active, so the override payload
	// makes svc reachable even without a plain dsn registration.
	if !Reachable(r, reflect.TypeOf((*svc)(nil)).Elem()) {
		t.Error("expected override payload to count as reachable")
	}
}

func TestReachableCountsLeafFuncValues(t *testing.T) {
	r := RegisterAs[handler](Empty(), func(n int) int { return n })
	r = r.Register(func(h handler) string { return "" })

	// The boxed handler is a value, not a constructor of int.
	if !Reachable(r, reflect.TypeOf((*handler)(nil)).Elem()) {
		t.Error("expected the leaf func value to be reachable")
	}
	if err := Check[string](r); err != nil {
		t.Errorf("expected string to be reachable through the leaf value, got %v", err)
	}
	if Reachable(r, reflect.TypeOf(0)) {
		t.Error("expected int to stay unreachable")
	}
}

func TestOutputs(t *testing.T) {
	r := Empty().
		Register(5).
		Register(func(n int) bool { return false }).
		Register(func(s string) float64 { return 0 }) // unreachable: no string

	got := typeNames(Outputs(r))
	want := []string{"bool", "int"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected outputs (-want +got):\n%s", diff)
	}
}

func typeNames(types []reflect.Type) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.String()
	}
	sort.Strings(names)
	return names
}
