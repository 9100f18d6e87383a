package forge

import (
	"io"
	"reflect"

	"github.com/google/uuid"
)

// MakeOption configures a single Make call.
type MakeOption func(*session)

// WithSink registers a trace sink for the call. Multiple sinks may be
// registered; they are driven in registration order.
func WithSink(sink Sink) MakeOption {
	return func(s *session) {
		s.sinks = append(s.sinks, sink)
	}
}

// WithModifyOnce makes each value pass through its modifier at most once
// per call. By default a modifier is re-applied every time its value is
// retrieved through the store, which compounds non-idempotent transforms
// on repeated requests of the same type within one call.
func WithModifyOnce() MakeOption {
	return func(s *session) {
		s.modifyOnce = true
	}
}

// session is the transient state of one Make call: the working store
// seeded from the registry's constructors, the context stack used for
// cycle detection, and the read-only override and modifier sequences.
// A session is owned by a single goroutine for its whole life.
type session struct {
	id        string
	overrides []override
	modifiers []modifier
	store     []Value
	stack     []reflect.Type

	sinks      []Sink
	modifyOnce bool

	// scoped-resource tracking, enabled by MakeScoped
	trackClose bool
	acquired   []io.Closer
}

// Make builds a value of type T from the registry. The zero value and a
// non-nil error are returned when construction fails; errors are fatal to
// the call and leave the registry untouched. Callers that want to prove
// reachability before building can run Check first; Make itself performs
// no precondition.
func Make[T any](r Registry, opts ...MakeOption) (T, error) {
	return MakeUnsafe[T](r, opts...)
}

// MakeUnsafe runs the same algorithm as Make. The name marks the entry
// point that skips any external solvability certificate, such as Check;
// in this package the two are interchangeable.
func MakeUnsafe[T any](r Registry, opts ...MakeOption) (T, error) {
	var zero T
	got, err := MakeAny(r, reflect.TypeOf((*T)(nil)).Elem(), opts...)
	if err != nil {
		return zero, err
	}
	out, ok := got.(T)
	if !ok {
		return zero, &CastError{Want: reflect.TypeOf((*T)(nil)).Elem(), Got: reflect.TypeOf(got)}
	}
	return out, nil
}

// MakeAny is the untyped engine entry point: it builds a value of the
// given target type and returns it unboxed.
func MakeAny(r Registry, target reflect.Type, opts ...MakeOption) (any, error) {
	s := acquireSession(r, opts)
	defer releaseSession(s)

	val, err := s.make(target)
	if err != nil {
		return nil, err
	}
	return val.Interface(), nil
}

func (s *session) make(target reflect.Type) (Value, error) {
	s.stack = append(s.stack, target)
	s.emit(Event{Kind: EventMakeStart, Target: target})

	val, ok, err := s.resolve(target)
	if err != nil {
		s.emit(Event{Kind: EventMakeEnd, Target: target, Err: err})
		return Value{}, err
	}
	if !ok {
		nerr := &NoPathError{Target: target}
		s.emit(Event{Kind: EventMakeEnd, Target: target, Err: nerr})
		return Value{}, nerr
	}

	s.emit(Event{Kind: EventMakeEnd, Target: target})
	return val, nil
}

// resolve satisfies one target type. The boolean is false when no value,
// override, or constructor covers the target; that outcome is reported at
// the call site. A non-nil error is fatal to the whole Make call.
func (s *session) resolve(target reflect.Type) (Value, bool, error) {
	s.emit(Event{Kind: EventResolveStart, Target: target})

	// Direct lookup: qualifying overrides first, then non-constructor
	// entries of the working store (plain values and leaf func values).
	for _, ov := range s.overrides {
		if ov.val.rt == target && s.onStack(ov.ctx) {
			s.emit(Event{Kind: EventOverrideHit, Target: target})
			return s.finish(target, ov.val, false)
		}
	}
	for _, v := range s.store {
		if !v.isConstructor() && v.rt == target {
			s.emit(Event{Kind: EventStoreHit, Target: target})
			return s.finish(target, v, false)
		}
	}

	// Constructor lookup: first function entry whose flattened output
	// type matches. Only that candidate is tried.
	ctor, ok := s.findConstructor(target)
	if !ok {
		s.emit(Event{Kind: EventResolveEnd, Target: target})
		return Value{}, false, nil
	}

	ins, _ := ctor.Signature()
	built := make([]Value, 0, len(ins))
	var missing []reflect.Type

	for _, in := range ins {
		if s.onStack(in) {
			err := &CycleError{Chain: append(s.snapshot(), in), Repeat: in}
			s.emit(Event{Kind: EventResolveEnd, Target: target, Err: err})
			return Value{}, false, err
		}

		s.stack = append(s.stack, in)
		v, found, err := s.resolve(in)
		s.stack = s.stack[:len(s.stack)-1]

		if err != nil {
			s.emit(Event{Kind: EventResolveEnd, Target: target, Err: err})
			return Value{}, false, err
		}
		if !found {
			// Keep going so the diagnostic covers every input.
			missing = append(missing, in)
			s.emit(Event{Kind: EventInputSkipped, Target: in})
			continue
		}
		built = append(built, v)
	}

	if len(built) < len(ins) {
		err := &MissingInputsError{
			Inputs:  ins,
			Output:  target,
			Built:   unbox(built),
			Missing: missing,
		}
		s.emit(Event{Kind: EventResolveEnd, Target: target, Err: err})
		return Value{}, false, err
	}

	var val Value
	var err error
	if len(ins) == 0 {
		val, err = ctor.invoke()
	} else {
		val, err = ctor.ApplyAll(built...)
	}
	if err != nil {
		s.emit(Event{Kind: EventResolveEnd, Target: target, Err: err})
		return Value{}, false, err
	}
	s.emit(Event{Kind: EventConstruct, Target: target, Constructor: ctor.stringSignature()})

	return s.finish(target, val, true)
}

// finish runs the store-and-modify step shared by direct lookups and
// fresh constructions: apply the first matching modifier, memoize the
// final value at the front of the working store, and return it. Only
// freshly constructed values are tracked for scoped release; re-retrieved
// values were tracked when first built.
func (s *session) finish(target reflect.Type, val Value, fresh bool) (Value, bool, error) {
	if mod, ok := s.findModifier(val); ok {
		next, err := mod.fn.Apply(val)
		if err != nil {
			s.emit(Event{Kind: EventResolveEnd, Target: target, Err: err})
			return Value{}, false, err
		}
		next.tweaked = true
		val = next
		s.emit(Event{Kind: EventModify, Target: target})
	}

	s.store = prepend(val, s.store)

	if s.trackClose && fresh {
		if c, ok := val.Interface().(io.Closer); ok {
			s.acquired = append(s.acquired, c)
		}
	}

	s.emit(Event{Kind: EventResolveEnd, Target: target})
	return val, true, nil
}

func (s *session) findConstructor(target reflect.Type) (Value, bool) {
	for _, v := range s.store {
		if v.isConstructor() && v.out == target {
			return v, true
		}
	}
	return Value{}, false
}

func (s *session) findModifier(val Value) (modifier, bool) {
	if s.modifyOnce && val.tweaked {
		return modifier{}, false
	}
	for _, m := range s.modifiers {
		if m.target == val.rt {
			return m, true
		}
	}
	return modifier{}, false
}

func (s *session) onStack(t reflect.Type) bool {
	for _, st := range s.stack {
		if st == t {
			return true
		}
	}
	return false
}

func (s *session) snapshot() []reflect.Type {
	out := make([]reflect.Type, len(s.stack))
	copy(out, s.stack)
	return out
}

func (s *session) emit(ev Event) {
	if len(s.sinks) == 0 {
		return
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	ev.Session = s.id
	ev.Path = s.snapshot()
	for _, sink := range s.sinks {
		sink.Emit(ev)
	}
}

func unbox(vals []Value) []any {
	if len(vals) == 0 {
		return nil
	}
	out := make([]any, len(vals))
	for i, v := range vals {
		out[i] = v.Interface()
	}
	return out
}
