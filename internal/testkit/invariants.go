// Package testkit holds invariant checkers shared by tests across packages.
package testkit

import (
	"fmt"

	"tycore/internal/hint"
	"tycore/internal/ref"
)

// maxNesting bounds Outer chain walks so a cyclic chain fails instead of
// spinning.
const maxNesting = 64

// CheckUniverseInvariants runs structural invariants over a built universe:
// 1) every class attribute points back at its declaring module
// 2) Outer chains stay in one module and terminate
// 3) type parameter indices match declaration order and name their owner
// 4) type parameters appearing in base subscripts belong to the class
func CheckUniverseInvariants(u *hint.Universe) error {
	if u == nil {
		return fmt.Errorf("nil universe")
	}
	for _, modName := range u.ModuleNames() {
		mod, ok := u.LookupModule(modName)
		if !ok {
			return fmt.Errorf("module %s listed but not registered", modName)
		}
		for _, attr := range mod.AttrNames() {
			h, _ := mod.Attr(attr)
			cls, ok := h.(*hint.Class)
			if !ok {
				continue
			}
			if cls.Module != mod {
				return fmt.Errorf("%s.%s: class records module %v", modName, attr, cls.Module)
			}
			if err := checkOuterChain(cls); err != nil {
				return err
			}
			if err := checkTypeParams(cls); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkOuterChain(cls *hint.Class) error {
	depth := 0
	for cur := cls.Outer; cur != nil; cur = cur.Outer {
		if cur.Module != cls.Module {
			return fmt.Errorf("%s: enclosing class %s lives in another module", cls.Qualified(), cur.Name)
		}
		depth++
		if depth > maxNesting {
			return fmt.Errorf("%s: Outer chain does not terminate", cls.Name)
		}
	}
	return nil
}

func checkTypeParams(cls *hint.Class) error {
	own := make(map[*hint.TypeParam]struct{}, len(cls.TypeParams))
	for i, tp := range cls.TypeParams {
		if tp.Index != i {
			return fmt.Errorf("%s: parameter %s has index %d at position %d", cls.Qualified(), tp.Name, tp.Index, i)
		}
		if tp.OwnerName != cls.Qualified() {
			return fmt.Errorf("%s: parameter %s names owner %s", cls.Qualified(), tp.Name, tp.OwnerName)
		}
		if _, dup := own[tp]; dup {
			return fmt.Errorf("%s: parameter %s listed twice", cls.Qualified(), tp.Name)
		}
		own[tp] = struct{}{}
	}
	for _, base := range cls.Bases {
		sub, ok := base.(*hint.Subscripted)
		if !ok {
			continue
		}
		for _, arg := range sub.Args {
			tp, ok := arg.(*hint.TypeParam)
			if !ok {
				continue
			}
			if _, mine := own[tp]; !mine {
				return fmt.Errorf("%s: base %s uses foreign parameter %s of %s", cls.Qualified(), sub, tp.Name, tp.OwnerName)
			}
		}
	}
	return nil
}

// CheckProxyInvariants verifies the one-proxy-per-key guarantee over every
// live proxy in a factory.
func CheckProxyInvariants(f *ref.Factory) error {
	if f == nil {
		return fmt.Errorf("nil factory")
	}
	type key struct{ scope, name string }
	seen := make(map[key]*hint.Ref)
	for _, p := range f.All() {
		k := key{p.ScopeName, p.Name}
		if prev, dup := seen[k]; dup && prev != p {
			return fmt.Errorf("two live proxies for %s.%s", p.ScopeName, p.Name)
		}
		seen[k] = p
	}
	return nil
}
