package forge

import (
	"fmt"
	"reflect"
	"strings"
)

var errType = reflect.TypeOf((*error)(nil)).Elem()

// Value boxes a Go value or function together with its runtime type
// identity. For functions the box also carries the flattened input chain
// and final output type, plus any arguments collected so far through
// partial application. A Value is immutable; Apply returns a new one.
type Value struct {
	rv reflect.Value
	rt reflect.Type

	// function signature, flattened across single-return curried levels
	ins []reflect.Type
	out reflect.Type

	// arguments collected for the current call level
	pending []reflect.Value

	// function-typed value boxed via As under a declared func type; leaf
	// values are matched by full type identity and never invoked
	leaf bool

	// set once a modifier has transformed this value
	tweaked bool
}

// ValueOf boxes v under its concrete runtime type. Interface identity is
// lost; use As to register a value under a declared interface type.
//
// ValueOf panics on untyped nil and on functions the engine cannot drive:
// variadic functions, functions with no results, and functions whose
// second result is not error.
func ValueOf(v any) Value {
	if v == nil {
		panic("forge: cannot box untyped nil")
	}
	return fromReflect(reflect.ValueOf(v))
}

// As boxes v under the declared type T rather than its concrete type.
// This is how values are registered under interface types or named
// function types. A func-typed T yields a leaf value: it satisfies
// requests for T by type identity and is never treated as a constructor
// of its output type.
func As[T any](v T) Value {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	box := reflect.New(rt).Elem()
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		panic(fmt.Sprintf("forge: cannot box nil as %s", rt))
	}
	box.Set(rv)
	if rt.Kind() == reflect.Func {
		return Value{rv: box, rt: rt, out: rt, leaf: true}
	}
	return fromReflect(box)
}

func fromReflect(rv reflect.Value) Value {
	rt := rv.Type()
	val := Value{rv: rv, rt: rt, out: rt}
	if rt.Kind() != reflect.Func {
		return val
	}
	val.ins, val.out = flattenFunc(rt)
	return val
}

// flattenFunc decomposes a function type into its ordered input types and
// final output type. Single-return functions that return another function
// are uncurried through, so func(A) func(B) C yields [A B] -> C.
func flattenFunc(rt reflect.Type) ([]reflect.Type, reflect.Type) {
	var ins []reflect.Type
	t := rt
	for {
		if t.IsVariadic() {
			panic(fmt.Sprintf("forge: variadic function %s cannot be boxed", t))
		}
		switch t.NumOut() {
		case 1:
		case 2:
			if t.Out(1) != errType {
				panic(fmt.Sprintf("forge: second result of %s must be error", t))
			}
		default:
			panic(fmt.Sprintf("forge: function %s must return a value, or a value and an error", t))
		}
		for i := 0; i < t.NumIn(); i++ {
			ins = append(ins, t.In(i))
		}
		out := t.Out(0)
		if t.NumOut() == 1 && out.Kind() == reflect.Func && out.NumIn() > 0 {
			t = out
			continue
		}
		return ins, out
	}
}

// IsFunc reports whether the boxed value is function-typed.
func (v Value) IsFunc() bool {
	return v.rt != nil && v.rt.Kind() == reflect.Func
}

// isConstructor reports whether the resolver may invoke this value to
// produce its output type. Leaf func values boxed via As are excluded.
func (v Value) isConstructor() bool {
	return v.IsFunc() && !v.leaf
}

// Type returns the runtime type identity of the boxed value. For
// functions this is the full function type, not the output type.
func (v Value) Type() reflect.Type {
	return v.rt
}

// Signature returns the remaining input types and the final output type.
// For a non-function value the input sequence is empty and the output is
// the value's own type.
func (v Value) Signature() ([]reflect.Type, reflect.Type) {
	if len(v.ins) == 0 {
		return nil, v.out
	}
	ins := make([]reflect.Type, len(v.ins))
	copy(ins, v.ins)
	return ins, v.out
}

// Interface unboxes the underlying value.
func (v Value) Interface() any {
	return v.rv.Interface()
}

// Apply applies the function value to a single argument. When arguments
// remain after this one, the result is a new function Value carrying the
// partial application; otherwise the underlying function is invoked.
//
// Apply fails with *TypeMismatchError when v accepts no argument (a
// non-function, a function without inputs, or a leaf func value) or when
// the argument's type is not identical to the next expected input type.
func (v Value) Apply(arg Value) (Value, error) {
	if !v.IsFunc() || len(v.ins) == 0 {
		return Value{}, &TypeMismatchError{Fn: v.rt, Got: arg.rt}
	}

	// Burn through saturated call levels, e.g. the zero-input head of
	// func() func(int) string.
	cur := v
	for cur.rv.Type().NumIn() == len(cur.pending) {
		next, err := cur.invoke()
		if err != nil {
			return Value{}, err
		}
		cur = next
	}

	want := cur.ins[0]
	if arg.rt != want {
		return Value{}, &TypeMismatchError{
			Fn:       v.rt,
			Want:     want,
			Got:      arg.rt,
			Position: len(cur.pending),
		}
	}

	pending := make([]reflect.Value, len(cur.pending)+1)
	copy(pending, cur.pending)
	pending[len(cur.pending)] = arg.rv

	if len(pending) < cur.rv.Type().NumIn() {
		cur.pending = pending
		cur.ins = cur.ins[1:]
		return cur, nil
	}

	cur.pending = pending
	return cur.invoke()
}

// ApplyAll applies args left to right via repeated Apply. It fails with
// ErrEmptyArgs when no arguments are given and otherwise propagates the
// first application error.
func (v Value) ApplyAll(args ...Value) (Value, error) {
	if len(args) == 0 {
		return Value{}, ErrEmptyArgs
	}
	cur := v
	for _, arg := range args {
		next, err := cur.Apply(arg)
		if err != nil {
			return Value{}, err
		}
		cur = next
	}
	return cur, nil
}

// invoke calls the current function level with the collected arguments
// and boxes the result under its declared type. A non-nil error result
// surfaces as *ConstructorError.
func (v Value) invoke() (Value, error) {
	outs := v.rv.Call(v.pending)
	if v.rv.Type().NumOut() == 2 && !outs[1].IsNil() {
		return Value{}, &ConstructorError{Output: v.out, Cause: outs[1].Interface().(error)}
	}
	return fromReflect(outs[0]), nil
}

// stringSignature renders a function signature for diagnostics.
func (v Value) stringSignature() string {
	if !v.IsFunc() {
		return typeName(v.rt)
	}
	parts := make([]string, 0, len(v.ins)+1)
	for _, in := range v.ins {
		parts = append(parts, typeName(in))
	}
	parts = append(parts, typeName(v.out))
	return strings.Join(parts, " -> ")
}
