// Package forge is a runtime, type-directed value construction engine:
// given a pool of typed values and constructor functions, it builds a
// requested target type by recursively resolving and invoking the
// functions whose inputs it can in turn resolve.
//
// # Overview
//
// Forge organizes code around three core concepts:
//
//  1. Registry: an immutable collection of constructors, context-scoped
//     overrides, and post-construction modifiers
//  2. Make: the recursive resolution of a target type from a registry
//  3. Sinks: trace hooks observing each step of a resolution
//
// # Basic Usage
//
// Assemble a registry and ask it for a type:
//
//	r := forge.Empty().
//	    Register(5).
//	    Register(func(n int) bool { return n%2 == 1 }).
//	    Register(func(odd bool) string {
//	        if odd {
//	            return "odd"
//	        }
//	        return "even"
//	    })
//
//	s, err := forge.Make[string](r) // "odd"
//
// Matching is by runtime type identity, never by interface satisfaction.
// To satisfy an input declared as an interface, register the value under
// that interface type explicitly:
//
//	r = forge.RegisterAs[io.Writer](r, &bytes.Buffer{})
//
// The same applies to inputs declared as named func types; a function
// boxed this way is injected as-is rather than treated as a constructor:
//
//	type Handler func(int) int
//	r = forge.RegisterAs[Handler](r, func(n int) int { return n * 2 })
//
// # Precedence
//
// Registration order is most-recent-first: registering two values of the
// same type makes the later one win, and for two constructors with the
// same output type only the most recently registered one is tried. A
// registry is never mutated; every operation returns a new registry, so
// snapshots can be combined and specialized freely:
//
//	test := forge.RegisterAs[Store](prod, &fakeStore{})
//
// # Overrides and Modifiers
//
// Specialize scopes a substitute value to the construction of another
// type: the override only satisfies requests made while its context type
// is mid-construction.
//
//	// use the replica DSN, but only while building *ReportService
//	r = forge.Specialize[*ReportService](r, replicaDSN)
//
// Tweak registers a transform applied to values of one type as they are
// produced:
//
//	r = forge.Tweak(r, func(c *Config) *Config { c.Validate(); return c })
//
// By default the transform runs every time its value passes through the
// working store within one Make call; WithModifyOnce limits it to once
// per value.
//
// # Failure
//
// A Make call either returns a fully constructed value or a single fatal
// error: *CycleError, *MissingInputsError, *NoPathError, *CastError,
// *TypeMismatchError, or *ConstructorError. There is no partial success
// and no automatic retry with another candidate. Check proves up front,
// without building anything, that a target is reachable from a registry.
//
// # Scoped Resources
//
// MakeScoped tracks freshly constructed values that implement io.Closer
// and returns a release function that closes them in reverse construction
// order.
//
// # Observability
//
// WithSink streams trace events (constructor invocations, store hits,
// override hits, modifier applications, skipped inputs) to any Sink. The
// extensions package provides sinks for log/slog, OpenTelemetry tracing,
// and ASCII tree rendering.
//
// # Thread Safety
//
// A Registry is immutable and safe to share. Each Make call owns a
// private working store seeded from the registry, so concurrent calls
// never observe each other's intermediate values. Resolution itself is
// single-threaded and synchronous.
package forge
