// Package scope provides the evaluation namespace for deferred annotations.
//
// A Mapping merges the local and global names visible to one decorated class
// or callable. Missing names do not fail: the engine-facing Resolve mints a
// forward-reference proxy and caches it under the key, so the annotation
// text can be evaluated before its targets exist. The exported Get keeps
// ordinary missing-key semantics for everything outside the engine;
// external tooling probing the namespace must see a plain mapping, never a
// surprise proxy.
//
// The trusted/untrusted split is explicit API surface (Resolve vs Get), not
// caller inspection: Go has no portable equivalent of walking interpreter
// frames, and an explicit internal entry point carries the same contract.
package scope

import (
	"tycore/internal/diag"
	"tycore/internal/hint"
	"tycore/internal/ident"
	"tycore/internal/ref"
)

// Mapping is the merged namespace of a single decoration pass. It is created
// fresh per pass and must not be shared across goroutines; only the proxies
// it mints outlive it.
type Mapping struct {
	scopeName string
	vars      map[string]any
	factory   *ref.Factory
}

// New creates a mapping over the given backing variables. The backing map is
// adopted, not copied: the evaluator contract requires handing out the exact
// map, so the caller must not retain another mutable alias. scopeName must
// be a valid identifier chain naming the owning module or class.
func New(scopeName string, backing map[string]any, factory *ref.Factory) (*Mapping, error) {
	if err := ident.CheckChain(scopeName, "scope name"); err != nil {
		return nil, err
	}
	if backing == nil {
		backing = make(map[string]any)
	}
	return &Mapping{
		scopeName: scopeName,
		vars:      backing,
		factory:   factory,
	}, nil
}

// ScopeName returns the qualified name of the owning scope.
func (m *Mapping) ScopeName() string {
	return m.scopeName
}

// Vars returns the backing map itself, not a copy. Expression evaluation
// requires an exact map value for its namespace argument; a mapping-like
// wrapper is not enough.
func (m *Mapping) Vars() map[string]any {
	return m.vars
}

// Get looks up key with ordinary missing-key semantics: no proxy is minted,
// nothing is cached. External code that defensively probes for names (dunder
// flags, debugger helpers) takes this path and must see a plain map miss.
func (m *Mapping) Get(key string) (any, bool) {
	v, ok := m.vars[key]
	return v, ok
}

// Resolve looks up key for the engine itself. A hit returns the stored
// value. A miss validates the key, mints the canonical proxy for
// (scopeName, key), caches it under the key, and returns it: repeated
// misses for the same key return the identical proxy, and every later
// Resolve or Get is a regular hit.
func (m *Mapping) Resolve(key string) (any, error) {
	if v, ok := m.vars[key]; ok {
		return v, nil
	}
	if err := ident.Check(key, "deferred annotation name"); err != nil {
		return nil, err
	}
	p, err := m.factory.NewProxy(m.scopeName, key)
	if err != nil {
		return nil, err
	}
	m.vars[key] = p
	return p, nil
}

// ResolveHint is Resolve narrowed to hint values, for annotation evaluation.
func (m *Mapping) ResolveHint(key string) (hint.Hint, error) {
	v, err := m.Resolve(key)
	if err != nil {
		return nil, err
	}
	if h, ok := v.(hint.Hint); ok {
		return h, nil
	}
	return nil, &ref.Error{Code: diag.RefBadName, Ref: key, Msg: "name is bound to a non-hint value"}
}
