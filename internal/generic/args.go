package generic

import (
	"slices"

	"tycore/internal/hint"
	"tycore/internal/memo"
	"tycore/internal/trace"
)

// Propagator computes full argument tuples for generic hierarchies.
// Results are memoized per (hint, target) pair: calling twice with the same
// pair returns the identical slice, which callers must treat as read-only.
type Propagator struct {
	table  *memo.Table[argsKey, []hint.Hint]
	tracer trace.Tracer
}

type argsKey struct {
	h      hint.Hint
	target *hint.Class
}

// NewPropagator creates a propagator.
func NewPropagator(tracer trace.Tracer) *Propagator {
	if tracer == nil {
		tracer = trace.Nop
	}
	p := &Propagator{tracer: tracer}
	p.table = memo.NewTable(func(k argsKey) ([]hint.Hint, error) {
		return p.run(k.h, k.target)
	})
	return p
}

// Args returns the complete ordered argument tuple for the whole hierarchy
// of h, a user-defined generic class, possibly subscripted.
func (p *Propagator) Args(h hint.Hint) ([]hint.Hint, error) {
	return p.table.Get(argsKey{h: h})
}

// ArgsFor restricts the computation to the arguments applying at the target
// ancestor. The returned tuple is consistent with the unrestricted
// computation's substitutions: both run the same traversal.
func (p *Propagator) ArgsFor(h hint.Hint, target *hint.Class) ([]hint.Hint, error) {
	return p.table.Get(argsKey{h: h, target: target})
}

// Clear drops every memoized tuple. Registered with the invalidation
// registry by the engine.
func (p *Propagator) Clear() {
	p.table.Clear()
}

// node is one pseudo-superclass in the depth-first traversal. A node's full
// list is final only after the walk has ascended back out of it.
type node struct {
	h        hint.Hint
	parent   *node
	expanded bool
	args     []hint.Hint // direct subscripted arguments, consumed left to right
	next     int         // consumption cursor into args
	accum    []hint.Hint // children's bubbled full lists, in visit order
}

func newNode(h hint.Hint, parent *node) *node {
	n := &node{h: h, parent: parent}
	if sub, ok := h.(*hint.Subscripted); ok {
		n.args = sub.Args
	}
	return n
}

// originClass returns the unsubscripted origin of n.h when it is a
// user-defined class.
func (n *node) originClass() (*hint.Class, bool) {
	cls, ok := hint.Origin(n.h).(*hint.Class)
	return cls, ok
}

func (p *Propagator) run(h hint.Hint, target *hint.Class) ([]hint.Hint, error) {
	if _, ok := hint.Origin(h).(*hint.Class); !ok {
		return nil, notGeneric(h)
	}

	sp := trace.Begin(p.tracer, trace.ScopeRef, "propagate:"+h.String(), 0)
	defer sp.End("")

	// Substitution memory: one concrete value per type parameter for the
	// whole traversal, so the same parameter appearing under two sibling
	// ancestors receives a consistent substitution.
	subs := make(map[*hint.TypeParam]hint.Hint)

	var (
		rootFull []hint.Hint
		match    []hint.Hint
		matched  bool
	)

	root := newNode(h, nil)
	stack := []*node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]

		// Descend: a user-defined class expands into its pseudo-superclasses,
		// pushed in reverse so the leftmost-declared base is visited first.
		if !n.expanded {
			if cls, ok := n.originClass(); ok && len(cls.Bases) > 0 {
				n.expanded = true
				for i := len(cls.Bases) - 1; i >= 0; i-- {
					stack = append(stack, newNode(cls.Bases[i], n))
				}
				continue
			}
			n.expanded = true
		}

		// Ascend: all children are done, the node's full list is final.
		stack = stack[:len(stack)-1]
		full := n.accum
		if len(full) == 0 {
			// Leaf, or a class with no generic contribution from bases:
			// the full list is its direct subscripted arguments.
			full = slices.Clone(n.args)
		}
		bubble(full, n.parent, subs)

		if n.parent != nil {
			n.parent.accum = append(n.parent.accum, full...)
		} else {
			rootFull = full
		}

		if target == nil {
			continue
		}
		cls, ok := n.originClass()
		if !ok || cls != target {
			continue
		}
		if !hasOpenParams(full) {
			// Fully resolved target: return without walking the rest of
			// the hierarchy. Worst-case inputs only resolve the target
			// after the whole walk, so this is the fast path, not the
			// only path.
			if len(full) == 0 {
				return nil, bareTarget(h, target)
			}
			return full, nil
		}
		if matched {
			return nil, ambiguousTarget(h, target)
		}
		match = full
		matched = true
	}

	if target == nil {
		if len(rootFull) == 0 {
			return nil, noArgs(h)
		}
		return rootFull, nil
	}
	if !matched {
		return nil, targetNotFound(h, target)
	}
	// Late substitutions: parameters that were still open when the target
	// was visited may have been bound further along the walk.
	for i, a := range match {
		if tp, ok := a.(*hint.TypeParam); ok {
			if v, ok := subs[tp]; ok {
				match[i] = v
			}
		}
	}
	if len(match) == 0 {
		return nil, bareTarget(h, target)
	}
	return match, nil
}

// bubble fills type-parameter positions of full, in order: a previously
// recorded substitution wins; otherwise the parent's next unconsumed direct
// argument is popped and, when concrete, recorded for reuse; otherwise the
// position stays open for a higher ancestor to fill, or never.
func bubble(full []hint.Hint, parent *node, subs map[*hint.TypeParam]hint.Hint) {
	for i, a := range full {
		tp, ok := a.(*hint.TypeParam)
		if !ok {
			continue
		}
		if v, ok := subs[tp]; ok {
			full[i] = v
			continue
		}
		if parent != nil && parent.next < len(parent.args) {
			v := parent.args[parent.next]
			parent.next++
			full[i] = v
			if _, open := v.(*hint.TypeParam); !open {
				subs[tp] = v
			}
		}
	}
}

func hasOpenParams(full []hint.Hint) bool {
	for _, a := range full {
		if _, ok := a.(*hint.TypeParam); ok {
			return true
		}
	}
	return false
}
