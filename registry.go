package forge

import "reflect"

// override is a context-scoped substitute: it may satisfy a request for
// its value's type only while ctx is present on the active build stack.
type override struct {
	ctx reflect.Type
	val Value
}

// modifier is a post-construction transform for values of a given type.
type modifier struct {
	target reflect.Type
	fn     Value
}

// Registry is an immutable collection of overrides, modifiers, and
// constructors. Every mutating operation returns a new Registry; a
// Registry is never modified in place and is safe to share between
// concurrent Make calls.
type Registry struct {
	overrides    []override
	modifiers    []modifier
	constructors []Value
}

// Empty returns a registry with no overrides, modifiers, or constructors.
func Empty() Registry {
	return Registry{}
}

// Register returns a new registry with v prepended to the constructor
// sequence. The most recently registered entry for any given type wins.
// v may be a plain value or a constructor function; it is boxed via
// ValueOf and the same validation panics apply.
func (r Registry) Register(v any) Registry {
	return r.RegisterValue(ValueOf(v))
}

// RegisterValue is Register for an already-boxed Value.
func (r Registry) RegisterValue(val Value) Registry {
	r.constructors = prepend(val, r.constructors)
	return r
}

// RegisterAs registers v under the declared type T instead of its
// concrete type. Use it to satisfy constructor inputs declared as
// interfaces or named function types; a func-typed T is injected as a
// leaf value, never invoked as a constructor.
func RegisterAs[T any](r Registry, v T) Registry {
	return r.RegisterValue(As[T](v))
}

// Combine concatenates two registries. Entries of r keep precedence over
// entries of other in all three sequences.
func (r Registry) Combine(other Registry) Registry {
	return Registry{
		overrides:    concat(r.overrides, other.overrides),
		modifiers:    concat(r.modifiers, other.modifiers),
		constructors: concat(r.constructors, other.constructors),
	}
}

// Specialize returns a new registry with an override that substitutes v
// for requests of v's type, but only while a value of type Ctx is being
// built somewhere on the active construction path. Outside that path the
// override is inert.
func Specialize[Ctx any](r Registry, v any) Registry {
	r.overrides = prepend(override{ctx: reflect.TypeOf((*Ctx)(nil)).Elem(), val: ValueOf(v)}, r.overrides)
	return r
}

// SpecializeAs is Specialize with the payload boxed under the declared
// type P rather than its concrete type.
func SpecializeAs[Ctx any, P any](r Registry, v P) Registry {
	r.overrides = prepend(override{ctx: reflect.TypeOf((*Ctx)(nil)).Elem(), val: As[P](v)}, r.overrides)
	return r
}

// Tweak returns a new registry with a modifier for values of type T. The
// first modifier in registration order (most recent first) whose target
// type matches a produced value is applied to it.
func Tweak[T any](r Registry, fn func(T) T) Registry {
	r.modifiers = prepend(modifier{target: reflect.TypeOf((*T)(nil)).Elem(), fn: ValueOf(fn)}, r.modifiers)
	return r
}

// prepend copies, never mutates shared backing arrays.
func prepend[T any](item T, items []T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, item)
	return append(out, items...)
}

func concat[T any](a, b []T) []T {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make([]T, 0, len(a)+len(b))
	out = append(out, a...)
	return append(out, b...)
}
