// Package cachereg coordinates process-wide cache invalidation.
//
// Every cache in the engine registers a clear function here. When a class
// bearing a previously seen (module, classname) pair is decorated again,
// from a live reload or a genuine duplicate definition, the registry clears
// every registered cache in one step, then re-seeds itself with the pair
// that triggered the clear. Coarse by design: all classes of a reloaded
// module are presumed stale together, so one trigger per reload suffices.
package cachereg

import (
	"sync"

	"tycore/internal/trace"
)

type classKey struct {
	module string
	class  string
}

// Registry records decorated (module, classname) pairs and owns the set of
// clear functions for every cache in the engine.
type Registry struct {
	mu     sync.Mutex
	clears []func()
	seen   map[classKey]struct{}
	resets uint64
	tracer trace.Tracer
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{
		seen:   make(map[classKey]struct{}),
		tracer: trace.Nop,
	}
}

// SetTracer attaches a tracer for clear events.
func (r *Registry) SetTracer(t trace.Tracer) {
	if t == nil {
		t = trace.Nop
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tracer = t
}

// RegisterCache adds a clear function invoked on every full clear.
// Clear functions must not call back into the registry.
func (r *Registry) RegisterCache(clear func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clears = append(r.clears, clear)
}

// MarkDecorated records that class in module was decorated. When the pair
// was already recorded, a full clear is triggered, the registry is reset and
// re-seeded with the pair, and true is returned.
func (r *Registry) MarkDecorated(module, class string) bool {
	key := classKey{module: module, class: class}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.seen[key]; !dup {
		r.seen[key] = struct{}{}
		return false
	}
	r.clearLocked()
	r.seen[key] = struct{}{}
	trace.Point(r.tracer, trace.ScopeEngine, "cache:clear", module+"."+class+" redefined")
	return true
}

// ClearAll unconditionally clears every registered cache and the decoration
// record itself. This is the single process-wide reset entry point.
func (r *Registry) ClearAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clearLocked()
	trace.Point(r.tracer, trace.ScopeEngine, "cache:clear", "explicit")
}

// clearLocked runs every clear function and resets the seen set. The lock
// is held across the clears so no decoration observes a half-cleared state.
func (r *Registry) clearLocked() {
	for _, clear := range r.clears {
		clear()
	}
	r.seen = make(map[classKey]struct{})
	r.resets++
}

// Resets returns how many full clears have run.
func (r *Registry) Resets() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resets
}

// Seen reports whether the pair is currently recorded.
func (r *Registry) Seen(module, class string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.seen[classKey{module: module, class: class}]
	return ok
}
