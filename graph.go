package forge

import "reflect"

// Check reports whether a value of type T is reachable from the
// registry's declared outputs, without building anything. It returns a
// *NoPathError when no combination of registered values, overrides, and
// constructors can produce T.
//
// The analysis over-approximates: overrides are assumed active and
// constructor bodies are assumed to succeed, so a passing Check can still
// be followed by a failing Make (for example on a dependency cycle). A
// failing Check is definitive.
func Check[T any](r Registry) error {
	target := reflect.TypeOf((*T)(nil)).Elem()
	if !Reachable(r, target) {
		return &NoPathError{Target: target}
	}
	return nil
}

// Reachable is the untyped form of Check.
func Reachable(r Registry, target reflect.Type) bool {
	reach := make(map[reflect.Type]bool, len(r.constructors)+len(r.overrides))

	for _, ov := range r.overrides {
		reach[ov.val.rt] = true
	}
	for _, v := range r.constructors {
		if !v.isConstructor() {
			reach[v.rt] = true
		}
	}

	// Fixed point over constructor outputs: a constructor's output
	// becomes reachable once all of its inputs are.
	for {
		changed := false
		for _, v := range r.constructors {
			if !v.isConstructor() || reach[v.out] {
				continue
			}
			satisfied := true
			for _, in := range v.ins {
				if !reach[in] {
					satisfied = false
					break
				}
			}
			if satisfied {
				reach[v.out] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	return reach[target]
}

// Outputs returns every type the registry can produce, in no particular
// order. Useful for debugging a registry assembled from many Combines.
func Outputs(r Registry) []reflect.Type {
	seen := make(map[reflect.Type]bool)
	var out []reflect.Type
	add := func(t reflect.Type) {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, v := range r.constructors {
		if !v.isConstructor() {
			add(v.rt)
			continue
		}
		if Reachable(r, v.out) {
			add(v.out)
		}
	}
	for _, ov := range r.overrides {
		add(ov.val.rt)
	}
	return out
}
