package scope

import (
	"testing"

	"tycore/internal/hint"
	"tycore/internal/ref"
)

func newMapping(t *testing.T, scopeName string, backing map[string]any) (*Mapping, *ref.Factory) {
	t.Helper()
	u := hint.NewUniverse()
	f := ref.NewFactory(u, nil)
	m, err := New(scopeName, backing, f)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m, f
}

func TestResolveHitReturnsStoredValue(t *testing.T) {
	intT, _ := hint.LookupBuiltin("int")
	m, _ := newMapping(t, "m", map[string]any{"int": intT})
	v, err := m.Resolve("int")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if v != any(intT) {
		t.Fatalf("Resolve = %v", v)
	}
}

func TestResolveMissMintsIdempotentProxy(t *testing.T) {
	m, f := newMapping(t, "m", nil)
	v1, err := m.Resolve("Node")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	p, ok := v1.(*hint.Ref)
	if !ok {
		t.Fatalf("Resolve miss should mint a proxy, got %T", v1)
	}
	if p.ScopeName != "m" || p.Name != "Node" {
		t.Fatalf("proxy = (%q, %q)", p.ScopeName, p.Name)
	}
	v2, _ := m.Resolve("Node")
	if v1 != v2 {
		t.Fatalf("repeated miss must return the identical proxy")
	}
	// After the first miss the key is a plain hit, visible through Get too.
	if got, ok := m.Get("Node"); !ok || got != v1 {
		t.Fatalf("Get after miss = %v, %v", got, ok)
	}
	if f.Count() != 1 {
		t.Fatalf("factory minted %d proxies, want 1", f.Count())
	}
}

func TestGetKeepsMissingKeySemantics(t *testing.T) {
	m, f := newMapping(t, "m", nil)
	// Probing the way external tooling does: a dunder-style name that does
	// not exist must be a plain miss, not a minted proxy.
	if v, ok := m.Get("__signature__"); ok || v != nil {
		t.Fatalf("Get = %v, %v, want miss", v, ok)
	}
	if f.Count() != 0 {
		t.Fatalf("Get must not mint proxies, factory has %d", f.Count())
	}
}

func TestResolveRejectsInvalidKeys(t *testing.T) {
	m, _ := newMapping(t, "m", nil)
	if _, err := m.Resolve("1bad"); err == nil {
		t.Fatalf("expected identifier error")
	}
}

func TestNewValidatesScopeName(t *testing.T) {
	u := hint.NewUniverse()
	f := ref.NewFactory(u, nil)
	if _, err := New("bad..name", nil, f); err == nil {
		t.Fatalf("expected scope name validation error")
	}
}

func TestVarsIsTheBackingMap(t *testing.T) {
	backing := map[string]any{"x": 1}
	m, _ := newMapping(t, "m", backing)
	vars := m.Vars()
	vars["y"] = 2
	if _, ok := m.Get("y"); !ok {
		t.Fatalf("Vars must hand out the exact backing map, not a copy")
	}
}
