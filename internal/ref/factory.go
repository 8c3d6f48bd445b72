package ref

import (
	"strings"
	"sync"

	"tycore/internal/diag"
	"tycore/internal/hint"
	"tycore/internal/ident"
	"tycore/internal/memo"
	"tycore/internal/trace"
)

// proxyKey is the composite cache key for proxy singletons.
type proxyKey struct {
	scope hint.NameID
	name  hint.NameID
}

// Factory mints forward-reference proxies, one canonical instance per
// (scope, name) pair for the lifetime of the process, until invalidated.
type Factory struct {
	names  *hint.Interner
	namesM sync.Mutex
	tracer trace.Tracer

	proxies   *memo.Table[proxyKey, *hint.Ref]
	referents *memo.Table[*hint.Ref, hint.Hint]

	mu  sync.Mutex
	all []*hint.Ref // every proxy ever created, for bulk invalidation

	universe *hint.Universe
}

// NewFactory creates a factory minting proxies for the given universe.
func NewFactory(u *hint.Universe, tracer trace.Tracer) *Factory {
	if tracer == nil {
		tracer = trace.Nop
	}
	f := &Factory{
		names:    u.Names(),
		tracer:   tracer,
		universe: u,
	}
	f.proxies = memo.NewTable(f.mint)
	f.referents = memo.NewTable(f.resolve)
	return f
}

// NewProxy returns the canonical proxy for (scopeName, name).
//
// name may be dotted; its module prefix, when present, takes precedence over
// scopeName. The final unqualified segment must be a valid identifier, and
// scopeName, when non-empty, must be a valid identifier chain. The resulting
// proxy may carry an empty scope, deferring module resolution to consumers
// (bare builtin names resolve late).
func (f *Factory) NewProxy(scopeName, name string) (*hint.Ref, error) {
	prefix, bare := ident.SplitLast(name)
	if err := ident.Check(bare, "forward reference"); err != nil {
		return nil, badName(name, err.Error())
	}
	if prefix != "" {
		if err := ident.CheckChain(prefix, "forward reference module"); err != nil {
			return nil, badName(name, err.Error())
		}
		scopeName = prefix
		name = bare
	} else if scopeName != "" {
		if err := ident.CheckChain(scopeName, "owning scope"); err != nil {
			return nil, badScope(name, err.Error())
		}
	}
	return f.proxyKeyed(scopeName, name)
}

// ProxyFor canonicalizes reference against the given owners and mints the
// proxy. Unlike NewProxy, the canonicalized name is kept intact: a dotted
// nested-class reference such as "Outer.Inner" must not be re-split into a
// bogus module prefix.
func (f *Factory) ProxyFor(reference string, stack hint.Stack, fn *hint.Callable) (*hint.Ref, error) {
	c, err := Canonicalize(reference, stack, fn)
	if err != nil {
		return nil, err
	}
	return f.proxyKeyed(c.Module, c.Name)
}

// proxyKeyed interns the pair and returns the canonical proxy for it.
func (f *Factory) proxyKeyed(scopeName, name string) (*hint.Ref, error) {
	f.namesM.Lock()
	key := proxyKey{scope: f.names.Intern(scopeName), name: f.names.Intern(name)}
	f.namesM.Unlock()
	return f.proxies.Get(key)
}

// mint builds a fresh proxy for a key that has never been seen. It runs at
// most once per key (memoized) and registers the proxy for bulk clears.
func (f *Factory) mint(key proxyKey) (*hint.Ref, error) {
	p := &hint.Ref{
		ScopeName: f.names.MustLookup(key.scope),
		Name:      f.names.MustLookup(key.name),
	}
	f.mu.Lock()
	f.all = append(f.all, p)
	f.mu.Unlock()
	trace.Point(f.tracer, trace.ScopeRef, "proxy:"+p.Name, "minted for scope "+p.ScopeName)
	return p, nil
}

// Resolve returns the hint the proxy stands for, looking the name up in the
// proxy's owning module. Results (including failures) are cached per proxy.
func (f *Factory) Resolve(p *hint.Ref) (hint.Hint, error) {
	return f.referents.Get(p)
}

func (f *Factory) resolve(p *hint.Ref) (hint.Hint, error) {
	scope := p.ScopeName
	if scope == "" {
		// Deferred module resolution: only builtins can still match.
		if b, ok := hint.LookupBuiltin(p.Name); ok {
			return b, nil
		}
		return nil, unresolvable(p.Name, "reference has no owning module and is not a builtin")
	}
	mod, ok := f.universe.LookupModule(scope)
	if !ok {
		return nil, &Error{Code: diag.RefImportFailed, Ref: p.Name,
			Msg: "owning module " + scope + " is not importable"}
	}
	// Walk dotted attribute chains segment by segment.
	cur, rest := p.Name, ""
	var target hint.Hint
	for {
		seg := cur
		if idx := strings.IndexByte(cur, '.'); idx >= 0 {
			seg, rest = cur[:idx], cur[idx+1:]
		} else {
			rest = ""
		}
		var found hint.Hint
		if target == nil {
			h, ok := mod.Attr(seg)
			if !ok {
				return nil, unresolvable(p.Name, "module "+scope+" has no attribute "+seg)
			}
			found = h
		} else {
			cls, ok := target.(*hint.Class)
			if !ok {
				return nil, unresolvable(p.Name, seg+" is looked up on a non-class hint")
			}
			inner, ok := classAttr(cls, seg)
			if !ok {
				return nil, unresolvable(p.Name, cls.Qualified()+" has no nested class "+seg)
			}
			found = inner
		}
		target = found
		if rest == "" {
			return target, nil
		}
		cur = rest
	}
}

// classAttr finds a nested class of cls by name. Nesting is recorded on the
// inner class via Outer, so this scans the module for matching classes.
func classAttr(cls *hint.Class, name string) (hint.Hint, bool) {
	if cls.Module == nil {
		return nil, false
	}
	for _, attr := range cls.Module.AttrNames() {
		h, _ := cls.Module.Attr(attr)
		inner, ok := h.(*hint.Class)
		if ok && inner.Name == name && inner.Outer == cls {
			return inner, true
		}
	}
	return nil, false
}

// Count returns how many live proxies the factory has minted.
func (f *Factory) Count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.all)
}

// All returns a snapshot of every live proxy.
func (f *Factory) All() []*hint.Ref {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*hint.Ref, len(f.all))
	copy(out, f.all)
	return out
}

// Clear empties the proxy singleton cache, the referent cache, and the
// all-proxies registry. Registered with the invalidation registry by the
// engine; after a clear, previously seen pairs mint new proxy objects.
func (f *Factory) Clear() {
	f.proxies.Clear()
	f.referents.Clear()
	f.mu.Lock()
	f.all = nil
	f.mu.Unlock()
}
