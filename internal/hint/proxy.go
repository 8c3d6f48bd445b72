package hint

// Ref is a forward-reference proxy: a hint standing in for a type that is
// referenced by name but not yet resolvable.
//
// ScopeName is the qualified name of the module the reference resolves
// against; it is empty when module resolution is deferred (bare builtin
// names). Name may be dotted for attribute chains such as "Outer.Inner".
//
// Instances are singletons per (ScopeName, Name) pair: the ref package's
// factory is the only constructor, and it caches by that composite key, so
// proxy equality is pointer equality.
type Ref struct {
	ScopeName string
	Name      string
}

func (r *Ref) String() string {
	if r.ScopeName == "" {
		return "<ref " + r.Name + ">"
	}
	return "<ref " + r.ScopeName + "." + r.Name + ">"
}

func (r *Ref) hintNode() {}
