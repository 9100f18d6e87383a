package forge

import (
	"reflect"
	"sync"
)

// sessionPool recycles session accumulators across Make calls. The slices
// keep their capacity between uses, so repeated calls over similar
// registries stop allocating once warm.
var sessionPool = sync.Pool{
	New: func() any {
		return &session{
			store: make([]Value, 0, 16),
			stack: make([]reflect.Type, 0, 8),
		}
	},
}

func acquireSession(r Registry, opts []MakeOption) *session {
	s := sessionPool.Get().(*session)
	s.overrides = r.overrides
	s.modifiers = r.modifiers
	// Private copy of the constructor sequence; memoized values written
	// during this call never reach the caller's registry.
	s.store = append(s.store[:0], r.constructors...)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func releaseSession(s *session) {
	s.id = ""
	s.overrides = nil
	s.modifiers = nil
	s.store = s.store[:0]
	s.stack = s.stack[:0]
	s.sinks = nil
	s.modifyOnce = false
	s.trackClose = false
	s.acquired = nil
	sessionPool.Put(s)
}
