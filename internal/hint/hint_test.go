package hint

import "testing"

func TestInternerDeduplicates(t *testing.T) {
	in := NewInterner()
	a := in.Intern("m.Node")
	b := in.Intern("m.Node")
	if a != b {
		t.Fatalf("same string interned twice: %v vs %v", a, b)
	}
	if s, ok := in.Lookup(a); !ok || s != "m.Node" {
		t.Fatalf("Lookup = %q, %v", s, ok)
	}
	if in.Intern("other") == a {
		t.Fatalf("distinct strings share an ID")
	}
}

func TestUniverseModuleCreateOrGet(t *testing.T) {
	u := NewUniverse()
	m1 := u.Module("app.models")
	m2 := u.Module("app.models")
	if m1 != m2 {
		t.Fatalf("Module should return the same instance")
	}
	if _, ok := u.LookupModule(BuiltinsModuleName); !ok {
		t.Fatalf("builtins module missing from fresh universe")
	}
}

func TestBuiltinSigns(t *testing.T) {
	intT, ok := LookupBuiltin("int")
	if !ok {
		t.Fatalf("int builtin missing")
	}
	if SignOf(intT) != SignBuiltin {
		t.Fatalf("SignOf(int) = %v", SignOf(intT))
	}
	listT, _ := LookupBuiltin("list")
	if SignOf(listT) != SignContainer {
		t.Fatalf("SignOf(list) = %v", SignOf(listT))
	}
}

func TestQualifiedNames(t *testing.T) {
	u := NewUniverse()
	m := u.Module("m")
	outer := &Class{Name: "Outer", Module: m}
	inner := &Class{Name: "Inner", Module: m, Outer: outer}
	if got := inner.Qualified(); got != "m.Outer.Inner" {
		t.Fatalf("Qualified = %q", got)
	}
}

func TestStackPushIsImmutable(t *testing.T) {
	u := NewUniverse()
	m := u.Module("m")
	a := &Class{Name: "A", Module: m}
	b := &Class{Name: "B", Module: m}
	s1 := Stack{}.Push(a)
	s2 := s1.Push(b)
	if len(s1) != 1 || len(s2) != 2 {
		t.Fatalf("stack lengths: %d, %d", len(s1), len(s2))
	}
	if s2.Innermost() != b || s1.Innermost() != a {
		t.Fatalf("innermost wrong after push")
	}
}

func TestOriginReducesSubscripted(t *testing.T) {
	u := NewUniverse()
	m := u.Module("m")
	base := &Class{Name: "Base", Module: m}
	intT, _ := LookupBuiltin("int")
	sub := Sub(base, intT)
	if Origin(sub) != Hint(base) {
		t.Fatalf("Origin should strip subscription")
	}
	if SignOf(sub) != SignSub {
		t.Fatalf("SignOf(sub) = %v", SignOf(sub))
	}
	if sub.String() != "m.Base[int]" {
		t.Fatalf("String = %q", sub.String())
	}
}
