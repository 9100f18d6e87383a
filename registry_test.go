package forge

import (
	"reflect"
	"testing"
)

func TestEmptyRegistry(t *testing.T) {
	r := Empty()

	if len(r.constructors) != 0 || len(r.overrides) != 0 || len(r.modifiers) != 0 {
		t.Error("expected empty registry")
	}
}

func TestRegisterPrepends(t *testing.T) {
	r := Empty().Register(5).Register(10)

	if len(r.constructors) != 2 {
		t.Fatalf("expected 2 constructors, got %d", len(r.constructors))
	}
	if r.constructors[0].Interface() != 10 {
		t.Errorf("expected most recent registration first, got %v", r.constructors[0].Interface())
	}
}

func TestRegisterDoesNotMutate(t *testing.T) {
	base := Empty().Register(5)
	derived := base.Register(10)

	if len(base.constructors) != 1 {
		t.Errorf("base registry mutated: %d constructors", len(base.constructors))
	}
	if len(derived.constructors) != 2 {
		t.Errorf("expected 2 constructors in derived, got %d", len(derived.constructors))
	}

	got, err := Make[int](base)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 5 {
		t.Errorf("expected base registry to still produce 5, got %d", got)
	}
}

func TestCombineKeepsPrecedence(t *testing.T) {
	r1 := Empty().Register(1).Register(2)
	r2 := Empty().Register(3)

	combined := r1.Combine(r2)

	if len(combined.constructors) != 3 {
		t.Fatalf("expected 3 constructors, got %d", len(combined.constructors))
	}
	got, err := Make[int](combined)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != 2 {
		t.Errorf("expected r1's most recent entry to win, got %d", got)
	}
}

func TestCombineMergesAllThreeSequences(t *testing.T) {
	type ctx struct{}
	r1 := Specialize[ctx](Empty(), 7)
	r2 := Tweak(Empty(), func(n int) int { return n + 1 })

	combined := r1.Combine(r2)

	if len(combined.overrides) != 1 {
		t.Errorf("expected 1 override, got %d", len(combined.overrides))
	}
	if len(combined.modifiers) != 1 {
		t.Errorf("expected 1 modifier, got %d", len(combined.modifiers))
	}
}

func TestSpecializeRecordsContextType(t *testing.T) {
	type service struct{}
	r := Specialize[service](Empty(), "replica")

	if len(r.overrides) != 1 {
		t.Fatalf("expected 1 override, got %d", len(r.overrides))
	}
	ov := r.overrides[0]
	if ov.ctx != reflect.TypeOf((*service)(nil)).Elem() {
		t.Errorf("expected context type service, got %s", ov.ctx)
	}
	if ov.val.Type() != reflect.TypeOf("") {
		t.Errorf("expected payload type string, got %s", ov.val.Type())
	}
}

func TestTweakPrepends(t *testing.T) {
	r := Tweak(Empty(), func(n int) int { return n + 1 })
	r = Tweak(r, func(n int) int { return n * 2 })

	got, err := Make[int](r.Register(5))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	// Most recently registered modifier wins; only one is applied.
	if got != 10 {
		t.Errorf("expected 10, got %d", got)
	}
}
