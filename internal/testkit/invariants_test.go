package testkit

import (
	"testing"

	"tycore/internal/hint"
)

func TestCheckUniverseInvariantsAcceptsWellFormed(t *testing.T) {
	u := hint.NewUniverse()
	mod := u.Module("m")
	cls := &hint.Class{Name: "Box", Module: mod}
	tp := &hint.TypeParam{Name: "T", OwnerName: "m.Box", Index: 0}
	cls.TypeParams = []*hint.TypeParam{tp}
	cls.Bases = []hint.Hint{hint.Sub(hint.Generic, tp)}
	mod.Define("Box", cls)

	if err := CheckUniverseInvariants(u); err != nil {
		t.Fatalf("CheckUniverseInvariants: %v", err)
	}
}

func TestCheckUniverseInvariantsRejectsBadIndex(t *testing.T) {
	u := hint.NewUniverse()
	mod := u.Module("m")
	cls := &hint.Class{Name: "Box", Module: mod}
	cls.TypeParams = []*hint.TypeParam{{Name: "T", OwnerName: "m.Box", Index: 3}}
	mod.Define("Box", cls)

	if err := CheckUniverseInvariants(u); err == nil {
		t.Fatalf("accepted a parameter with a wrong index")
	}
}

func TestCheckUniverseInvariantsRejectsForeignParam(t *testing.T) {
	u := hint.NewUniverse()
	mod := u.Module("m")

	other := &hint.Class{Name: "Other", Module: mod}
	alien := &hint.TypeParam{Name: "U", OwnerName: "m.Other", Index: 0}
	other.TypeParams = []*hint.TypeParam{alien}
	mod.Define("Other", other)

	cls := &hint.Class{Name: "Box", Module: mod}
	cls.Bases = []hint.Hint{hint.Sub(other, alien)}
	mod.Define("Box", cls)

	if err := CheckUniverseInvariants(u); err == nil {
		t.Fatalf("accepted a base subscripted with a foreign parameter")
	}
}

func TestCheckUniverseInvariantsRejectsCrossModuleOuter(t *testing.T) {
	u := hint.NewUniverse()
	a := u.Module("a")
	b := u.Module("b")
	outer := &hint.Class{Name: "Outer", Module: a}
	a.Define("Outer", outer)
	inner := &hint.Class{Name: "Inner", Module: b, Outer: outer}
	b.Define("Inner", inner)

	if err := CheckUniverseInvariants(u); err == nil {
		t.Fatalf("accepted a nested class whose enclosing class lives elsewhere")
	}
}
