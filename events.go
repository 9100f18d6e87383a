package forge

import "reflect"

// EventKind identifies a resolution trace event.
type EventKind string

const (
	// EventMakeStart marks the start of a Make call.
	EventMakeStart EventKind = "make.start"
	// EventMakeEnd marks the end of a Make call; Err is set on failure.
	EventMakeEnd EventKind = "make.end"
	// EventResolveStart marks entry into resolution of one target type.
	EventResolveStart EventKind = "resolve.start"
	// EventResolveEnd marks the end of one target's resolution. Err is
	// set for fatal failures; a target that merely has no construction
	// path ends without an error and is reported at its call site.
	EventResolveEnd EventKind = "resolve.end"
	// EventOverrideHit reports a context-scoped override satisfying the
	// target.
	EventOverrideHit EventKind = "override.hit"
	// EventStoreHit reports a direct working-store lookup satisfying the
	// target.
	EventStoreHit EventKind = "store.hit"
	// EventConstruct reports a constructor invocation.
	EventConstruct EventKind = "construct"
	// EventModify reports a modifier transforming a value.
	EventModify EventKind = "modify"
	// EventInputSkipped reports a constructor input that could not be
	// built and was skipped to complete the diagnostic.
	EventInputSkipped EventKind = "input.skipped"
)

// Event is one step of a resolution trace. Path is a snapshot of the
// context stack at emit time and is safe for sinks to retain.
type Event struct {
	Kind        EventKind
	Session     string
	Target      reflect.Type
	Path        []reflect.Type
	Constructor string
	Err         error
}

// Sink receives resolution trace events. A sink is driven synchronously
// from a single Make call at a time and needs no internal locking unless
// it is shared across concurrent calls.
type Sink interface {
	Emit(Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Event)

// Emit implements the Sink interface.
func (f SinkFunc) Emit(ev Event) {
	f(ev)
}
