package ref

import (
	"errors"
	"testing"

	"tycore/internal/diag"
	"tycore/internal/hint"
)

func newTestFactory() (*Factory, *hint.Universe) {
	u := hint.NewUniverse()
	return NewFactory(u, nil), u
}

func TestProxySingletonPerPair(t *testing.T) {
	f, _ := newTestFactory()
	p1, err := f.NewProxy("m", "Node")
	if err != nil {
		t.Fatalf("NewProxy: %v", err)
	}
	p2, err := f.NewProxy("m", "Node")
	if err != nil {
		t.Fatalf("NewProxy: %v", err)
	}
	if p1 != p2 {
		t.Fatalf("same pair must yield the identical proxy object")
	}
	p3, _ := f.NewProxy("other", "Node")
	if p3 == p1 {
		t.Fatalf("different scopes must yield different proxies")
	}
	if f.Count() != 2 {
		t.Fatalf("Count = %d, want 2", f.Count())
	}
}

func TestDottedNameOverridesScope(t *testing.T) {
	f, _ := newTestFactory()
	p, err := f.NewProxy("ignored", "pkg.mod.Node")
	if err != nil {
		t.Fatalf("NewProxy: %v", err)
	}
	if p.ScopeName != "pkg.mod" || p.Name != "Node" {
		t.Fatalf("proxy = (%q, %q)", p.ScopeName, p.Name)
	}
}

func TestEmptyScopeDefersResolution(t *testing.T) {
	f, _ := newTestFactory()
	p, err := f.NewProxy("", "int")
	if err != nil {
		t.Fatalf("NewProxy: %v", err)
	}
	if p.ScopeName != "" {
		t.Fatalf("scope = %q, want empty", p.ScopeName)
	}
	h, err := f.Resolve(p)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if b, ok := h.(*hint.Builtin); !ok || b.Name != "int" {
		t.Fatalf("Resolve = %v", h)
	}
}

func TestNewProxyRejectsBadNames(t *testing.T) {
	f, _ := newTestFactory()
	if _, err := f.NewProxy("m", "1bad"); err == nil {
		t.Fatalf("expected error for bad bare name")
	}
	_, err := f.NewProxy("1bad", "Node")
	var re *Error
	if !errors.As(err, &re) || re.Code != diag.RefBadScope {
		t.Fatalf("expected RefBadScope, got %v", err)
	}
}

func TestResolveWalksNestedClasses(t *testing.T) {
	f, u := newTestFactory()
	m := u.Module("m")
	outer := &hint.Class{Name: "Outer", Module: m}
	inner := &hint.Class{Name: "Inner", Module: m, Outer: outer}
	m.Define("Outer", outer)
	m.Define("Inner", inner)

	p, err := f.ProxyFor("Outer.Inner", hint.Stack{outer, inner}, nil)
	if err != nil {
		t.Fatalf("ProxyFor: %v", err)
	}
	if p.ScopeName != "m" || p.Name != "Outer.Inner" {
		t.Fatalf("proxy = (%q, %q)", p.ScopeName, p.Name)
	}
	h, err := f.Resolve(p)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if h != hint.Hint(inner) {
		t.Fatalf("Resolve = %v, want Inner", h)
	}
}

func TestResolveErrorIsReplayed(t *testing.T) {
	f, u := newTestFactory()
	u.Module("m")
	p, _ := f.NewProxy("m", "Missing")
	_, e1 := f.Resolve(p)
	_, e2 := f.Resolve(p)
	if e1 == nil || e1 != e2 {
		t.Fatalf("resolution errors must be cached and identical: %v vs %v", e1, e2)
	}
}

func TestClearMintsFreshProxies(t *testing.T) {
	f, _ := newTestFactory()
	p1, _ := f.NewProxy("m", "Node")
	f.Clear()
	p2, _ := f.NewProxy("m", "Node")
	if p1 == p2 {
		t.Fatalf("proxy cache survived Clear")
	}
	if f.Count() != 1 {
		t.Fatalf("Count after clear = %d, want 1", f.Count())
	}
}

func TestCanonicalizeNestedBeatsAbsolute(t *testing.T) {
	u := hint.NewUniverse()
	m := u.Module("m")
	outer := &hint.Class{Name: "Outer", Module: m}
	inner := &hint.Class{Name: "Inner", Module: m, Outer: outer}
	stack := hint.Stack{outer, inner}

	// "Outer.Inner" would also parse as module "Outer", name "Inner";
	// the nested-class match must win and keep the text intact.
	c, err := Canonicalize("Outer.Inner", stack, nil)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if c.Module != "m" || c.Name != "Outer.Inner" {
		t.Fatalf("canonical = %+v", c)
	}
}

func TestCanonicalizeAbsoluteSplit(t *testing.T) {
	c, err := Canonicalize("pkg.mod.Node", nil, nil)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if c.Module != "pkg.mod" || c.Name != "Node" {
		t.Fatalf("canonical = %+v", c)
	}
}

func TestCanonicalizeClassBeatsCallable(t *testing.T) {
	u := hint.NewUniverse()
	cls := &hint.Class{Name: "Holder", Module: u.Module("clsmod")}
	fn := &hint.Callable{Name: "make", Module: u.Module("fnmod")}
	c, err := Canonicalize("Node", hint.Stack{cls}, fn)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if c.Module != "clsmod" {
		t.Fatalf("class module should win, got %+v", c)
	}
}

func TestCanonicalizeCallableModule(t *testing.T) {
	u := hint.NewUniverse()
	fn := &hint.Callable{Name: "make", Module: u.Module("fnmod")}
	c, err := Canonicalize("Node", nil, fn)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if c.Module != "fnmod" || c.Name != "Node" {
		t.Fatalf("canonical = %+v", c)
	}
}

func TestCanonicalizeBuiltinsFallback(t *testing.T) {
	c, err := Canonicalize("int", nil, nil)
	if err != nil {
		t.Fatalf("Canonicalize: %v", err)
	}
	if c.Module != hint.BuiltinsModuleName {
		t.Fatalf("canonical = %+v", c)
	}
}

func TestCanonicalizeFailureNamesOwners(t *testing.T) {
	synth := hint.NewModule("")
	fn := &hint.Callable{Name: "generated", Module: synth}
	_, err := Canonicalize("Node", nil, fn)
	if err == nil {
		t.Fatalf("expected failure")
	}
	var re *Error
	if !errors.As(err, &re) || re.Code != diag.RefUnresolvable {
		t.Fatalf("error = %v", err)
	}
}
