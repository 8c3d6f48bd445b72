package universe

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"tycore/internal/diag"
	"tycore/internal/hint"
)

const demoManifest = `
[universe]
name = "demo"

[[module]]
name = "shapes"

[[module.class]]
name = "Pair"
params = ["S", "T"]

  [module.class.fields]
  first = "S"
  second = "T"

[[module.class]]
name = "Child"
params = ["T"]
bases = ["Pair[int, T]"]

[[module.class]]
name = "Outer"

[[module.class]]
name = "Inner"
outer = "Outer"

  [module.class.fields]
  link = "'Outer.Inner'"

[[module.func]]
name = "make_pair"
result = "Pair[int, str]"

  [module.func.params]
  left = "int"
  right = "'Child'"
`

func buildDemo(t *testing.T) *hint.Universe {
	t.Helper()
	doc, err := Parse([]byte(demoManifest))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	u, err := Build(doc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return u
}

func TestBuildModulesAndClasses(t *testing.T) {
	u := buildDemo(t)

	mod, ok := u.LookupModule("shapes")
	if !ok {
		t.Fatalf("module shapes not registered")
	}
	h, ok := mod.Attr("Pair")
	if !ok {
		t.Fatalf("shapes.Pair not defined")
	}
	pair, ok := h.(*hint.Class)
	if !ok {
		t.Fatalf("shapes.Pair is %T, want *hint.Class", h)
	}
	if len(pair.TypeParams) != 2 || pair.TypeParams[0].Name != "S" || pair.TypeParams[1].Index != 1 {
		t.Fatalf("unexpected type parameters: %v", pair.TypeParams)
	}
	if len(pair.Fields) != 2 || pair.Fields[0].Name != "first" || pair.Fields[0].Hint != pair.TypeParams[0] {
		t.Fatalf("unexpected fields: %v", pair.Fields)
	}
}

func TestImplicitGenericBase(t *testing.T) {
	u := buildDemo(t)
	mod, _ := u.LookupModule("shapes")

	h, _ := mod.Attr("Pair")
	pair := h.(*hint.Class)
	if len(pair.Bases) != 1 {
		t.Fatalf("Pair bases = %v, want the implicit parameter carrier only", pair.Bases)
	}
	sub, ok := pair.Bases[0].(*hint.Subscripted)
	if !ok || sub.Origin != hint.Generic {
		t.Fatalf("Pair base = %v, want Generic[S, T]", pair.Bases[0])
	}

	h, _ = mod.Attr("Child")
	child := h.(*hint.Class)
	if len(child.Bases) != 1 {
		t.Fatalf("Child bases = %v, want Pair[int, T] only", child.Bases)
	}
	sub = child.Bases[0].(*hint.Subscripted)
	if sub.Origin != pair {
		t.Fatalf("Child base origin = %v, want shapes.Pair", sub.Origin)
	}
	intB, _ := hint.LookupBuiltin("int")
	if sub.Args[0] != intB || sub.Args[1] != child.TypeParams[0] {
		t.Fatalf("Child base args = %v", sub.Args)
	}
}

func TestNestedClassAndDeferredField(t *testing.T) {
	u := buildDemo(t)
	mod, _ := u.LookupModule("shapes")

	h, _ := mod.Attr("Inner")
	inner := h.(*hint.Class)
	outerH, _ := mod.Attr("Outer")
	if inner.Outer != outerH.(*hint.Class) {
		t.Fatalf("Inner.Outer = %v", inner.Outer)
	}
	if inner.Qualified() != "shapes.Outer.Inner" {
		t.Fatalf("Qualified = %q", inner.Qualified())
	}
	if len(inner.Fields) != 1 || !inner.Fields[0].IsDeferred() || inner.Fields[0].Deferred != "Outer.Inner" {
		t.Fatalf("unexpected deferred field: %v", inner.Fields)
	}
}

func TestCallableAnnotations(t *testing.T) {
	u := buildDemo(t)
	mod, _ := u.LookupModule("shapes")

	h, ok := mod.Attr("make_pair")
	if !ok {
		t.Fatalf("shapes.make_pair not defined")
	}
	fn := h.(*hint.Callable)
	if len(fn.Params) != 2 {
		t.Fatalf("params = %v", fn.Params)
	}
	// Sorted by name: left before right.
	if fn.Params[0].Name != "left" || fn.Params[1].Name != "right" {
		t.Fatalf("param order = %q, %q", fn.Params[0].Name, fn.Params[1].Name)
	}
	if !fn.Params[1].IsDeferred() || fn.Params[1].Deferred != "Child" {
		t.Fatalf("right annotation = %v", fn.Params[1])
	}
	if fn.Result.Hint == nil {
		t.Fatalf("result annotation missing")
	}
}

func TestBuildErrors(t *testing.T) {
	cases := []struct {
		name     string
		manifest string
		code     diag.Code
	}{
		{
			name:     "duplicate module",
			manifest: "[universe]\nname = \"x\"\n[[module]]\nname = \"m\"\n[[module]]\nname = \"m\"\n",
			code:     diag.UniverseRedefined,
		},
		{
			name:     "builtins redeclared",
			manifest: "[universe]\nname = \"x\"\n[[module]]\nname = \"builtins\"\n",
			code:     diag.UniverseRedefined,
		},
		{
			name:     "unknown base name",
			manifest: "[universe]\nname = \"x\"\n[[module]]\nname = \"m\"\n[[module.class]]\nname = \"C\"\nbases = [\"Nope\"]\n",
			code:     diag.UniverseUnknownName,
		},
		{
			name:     "deferred base rejected",
			manifest: "[universe]\nname = \"x\"\n[[module]]\nname = \"m\"\n[[module.class]]\nname = \"C\"\nbases = [\"'C'\"]\n",
			code:     diag.UniverseBadFile,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := Parse([]byte(tc.manifest))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			_, err = Build(doc)
			if err == nil {
				t.Fatalf("Build succeeded, want %s", tc.code)
			}
			var ue *Error
			if !errors.As(err, &ue) || ue.Code != tc.code {
				t.Fatalf("err = %v, want code %s", err, tc.code)
			}
		})
	}
}

func TestParseRejectsMissingHeader(t *testing.T) {
	if _, err := Parse([]byte("[[module]]\nname = \"m\"\n")); err == nil {
		t.Fatalf("Parse accepted a manifest without [universe]")
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	manifest := filepath.Join(root, ManifestName)
	if err := os.WriteFile(manifest, []byte("[universe]\nname = \"x\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, ok, err := Find(nested)
	if err != nil || !ok {
		t.Fatalf("Find: ok=%v err=%v", ok, err)
	}
	if got != manifest {
		t.Fatalf("Find = %q, want %q", got, manifest)
	}
}
