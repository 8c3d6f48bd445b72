package engine

import (
	"context"
	"testing"

	"tycore/internal/diag"
	"tycore/internal/hint"
	"tycore/internal/universe"
)

const demoManifest = `
[universe]
name = "demo"

[[module]]
name = "m"

[[module.class]]
name = "Base"
params = ["T"]

  [module.class.fields]
  value = "T"

[[module.class]]
name = "Child"
bases = ["Base[int]"]

  [module.class.fields]
  next = "'Child'"
  other = "'Missing'"
`

func buildDemo(t *testing.T) *hint.Universe {
	t.Helper()
	doc, err := universe.Parse([]byte(demoManifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	u, err := universe.Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return u
}

func TestDecorateModuleEvaluatesDeferred(t *testing.T) {
	u := buildDemo(t)
	e := New(u)

	rep, err := e.DecorateModule(context.Background(), "m")
	if err != nil {
		t.Fatalf("DecorateModule: %v", err)
	}
	if rep.Classes != 2 || rep.Evaluated != 2 {
		t.Fatalf("report = %+v, want 2 classes and 2 evaluated annotations", rep)
	}

	mod, _ := u.LookupModule("m")
	h, _ := mod.Attr("Child")
	child := h.(*hint.Class)

	// Field annotations come back in sorted name order: next, other.
	if child.Fields[0].Name != "next" || child.Fields[0].IsDeferred() {
		t.Fatalf("next still deferred: %+v", child.Fields[0])
	}
	if child.Fields[0].Hint != child {
		t.Fatalf("next = %v, want the Child class itself", child.Fields[0].Hint)
	}
	proxy, ok := child.Fields[1].Hint.(*hint.Ref)
	if !ok {
		t.Fatalf("other = %T, want a forward-reference proxy", child.Fields[1].Hint)
	}
	if proxy.ScopeName != "m" || proxy.Name != "Missing" {
		t.Fatalf("proxy = %v", proxy)
	}
}

func TestResolveProxiesReportsMissingTargets(t *testing.T) {
	u := buildDemo(t)
	e := New(u)
	if _, err := e.DecorateModule(context.Background(), "m"); err != nil {
		t.Fatalf("DecorateModule: %v", err)
	}

	bag := diag.NewBag(16)
	resolved := e.ResolveProxies(bag)
	if resolved != 0 {
		t.Fatalf("resolved = %d, want 0 (only Missing was proxied)", resolved)
	}
	if bag.Len() != 1 {
		t.Fatalf("diagnostics = %d, want 1", bag.Len())
	}
	if bag.Items()[0].Code != diag.RefUnresolvable {
		t.Fatalf("code = %s, want %s", bag.Items()[0].Code, diag.RefUnresolvable)
	}
}

func TestDecorateModuleUnknown(t *testing.T) {
	e := New(buildDemo(t))
	if _, err := e.DecorateModule(context.Background(), "nope"); err == nil {
		t.Fatalf("DecorateModule accepted an unregistered module")
	}
}

func TestDecorateAll(t *testing.T) {
	u := buildDemo(t)
	e := New(u)

	sum, err := e.DecorateAll(context.Background(), 2)
	if err != nil {
		t.Fatalf("DecorateAll: %v", err)
	}
	if len(sum.Reports) != 1 || sum.Reports[0].Module != "m" {
		t.Fatalf("reports = %+v", sum.Reports)
	}
}

func TestRedecorationFlushesCaches(t *testing.T) {
	u := buildDemo(t)
	e := New(u)
	ctx := context.Background()

	if _, err := e.DecorateModule(ctx, "m"); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if e.Factory().Count() == 0 {
		t.Fatalf("first pass minted no proxies")
	}
	// A second pass over the same classes is a redefinition signal.
	if _, err := e.DecorateModule(ctx, "m"); err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if e.Registry().Resets() == 0 {
		t.Fatalf("redecoration did not reset the registry")
	}
}

func TestClearCaches(t *testing.T) {
	u := buildDemo(t)
	e := New(u)
	if _, err := e.DecorateModule(context.Background(), "m"); err != nil {
		t.Fatalf("DecorateModule: %v", err)
	}
	e.ClearCaches()
	if e.Factory().Count() != 0 {
		t.Fatalf("factory still holds %d proxies after ClearCaches", e.Factory().Count())
	}
}

func TestArgsThroughEngine(t *testing.T) {
	u := buildDemo(t)
	e := New(u)
	mod, _ := u.LookupModule("m")
	h, _ := mod.Attr("Child")

	args, err := e.Args(h)
	if err != nil {
		t.Fatalf("Args: %v", err)
	}
	intB, _ := hint.LookupBuiltin("int")
	if len(args) != 1 || args[0] != intB {
		t.Fatalf("args = %v, want [int]", args)
	}
}
