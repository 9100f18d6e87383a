package forge

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrEmptyArgs is returned by ApplyAll when called with no arguments.
var ErrEmptyArgs = errors.New("forge: apply called with no arguments")

// CycleError reports a type that is required, directly or transitively,
// to build itself. Chain is the full construction path at the point the
// repeat was detected; Repeat is the offending type.
type CycleError struct {
	Chain  []reflect.Type
	Repeat reflect.Type
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("forge: dependency cycle: %s repeats on path %s",
		typeName(e.Repeat), formatChain(e.Chain))
}

// MissingInputsError reports a constructor whose input list could not be
// fully satisfied. Inputs and Output describe the constructor's signature,
// Built holds the values that were produced, and Missing the input types
// that could not be.
type MissingInputsError struct {
	Inputs  []reflect.Type
	Output  reflect.Type
	Built   []any
	Missing []reflect.Type
}

func (e *MissingInputsError) Error() string {
	sig := make([]string, 0, len(e.Inputs)+1)
	for _, in := range e.Inputs {
		sig = append(sig, typeName(in))
	}
	sig = append(sig, typeName(e.Output))
	return fmt.Sprintf("forge: constructor %s: missing inputs %s (built %d of %d)",
		strings.Join(sig, " -> "), formatChain(e.Missing), len(e.Built), len(e.Inputs))
}

// NoPathError reports that no value, override, or constructor exists for
// the requested top-level type.
type NoPathError struct {
	Target reflect.Type
}

func (e *NoPathError) Error() string {
	return fmt.Sprintf("forge: no value or constructor available for %s", typeName(e.Target))
}

// CastError reports that a resolved value could not be downcast to the
// statically expected result type. It indicates an inconsistency between
// the type matching logic and the cast and should not occur in practice.
type CastError struct {
	Want reflect.Type
	Got  reflect.Type
}

func (e *CastError) Error() string {
	return fmt.Sprintf("forge: resolved value has type %s, want %s", typeName(e.Got), typeName(e.Want))
}

// TypeMismatchError reports a function application with an argument of
// the wrong type, or an application of a value that accepts no argument
// (a non-function, a function without inputs, or a leaf func value).
// Want is nil in the no-argument cases.
type TypeMismatchError struct {
	Fn       reflect.Type
	Want     reflect.Type
	Got      reflect.Type
	Position int
}

func (e *TypeMismatchError) Error() string {
	if e.Want == nil {
		if e.Fn != nil && e.Fn.Kind() == reflect.Func {
			return fmt.Sprintf("forge: function %s has no unfilled inputs", typeName(e.Fn))
		}
		return fmt.Sprintf("forge: cannot apply non-function value of type %s", typeName(e.Fn))
	}
	return fmt.Sprintf("forge: argument %d of %s: have %s, want %s",
		e.Position, typeName(e.Fn), typeName(e.Got), typeName(e.Want))
}

// ConstructorError wraps a non-nil error returned by a constructor.
type ConstructorError struct {
	Output reflect.Type
	Cause  error
}

func (e *ConstructorError) Error() string {
	return fmt.Sprintf("forge: constructor for %s failed: %v", typeName(e.Output), e.Cause)
}

func (e *ConstructorError) Unwrap() error {
	return e.Cause
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func formatChain(chain []reflect.Type) string {
	if len(chain) == 0 {
		return "[]"
	}
	names := make([]string, len(chain))
	for i, t := range chain {
		names[i] = typeName(t)
	}
	return strings.Join(names, " -> ")
}
