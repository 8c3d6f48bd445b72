package ref

import (
	"strings"

	"tycore/internal/hint"
	"tycore/internal/ident"
)

// Canonical is the result of canonicalizing a reference: the fully qualified
// module it resolves against plus the (possibly still dotted) name to look
// up inside that module. Both fields are non-empty on success.
type Canonical struct {
	Module string
	Name   string
}

// Canonicalize determines the owning module of a possibly-relative
// reference, given the contextual owners: the class-nesting stack of the
// current decoration pass and/or the decorated callable.
//
// Strategies are tried in a fixed order until one yields a module:
//
//  1. Nested-class match: the reference's dotted segments match a suffix
//     chain of class names walking down the stack; resolves to the matched
//     class's module with the reference text preserved. Runs before the
//     absolute split because it is the only strategy that can tell "dot
//     separates nested class names" from "dot separates module segments".
//  2. Absolute split at the rightmost dot.
//  3. The module declaring the innermost class on the stack.
//  4. The module declaring the callable.
//  5. The builtins module, when the bare name is a known builtin.
//
// Types outrank callables (3 before 4): dynamically generated callables
// report bogus owner modules far more often than classes do.
func Canonicalize(reference string, stack hint.Stack, fn *hint.Callable) (Canonical, error) {
	if err := ident.CheckChain(reference, "forward reference"); err != nil {
		return Canonical{}, badName(reference, err.Error())
	}

	// 1. Nested-class suffix match against the stack.
	if c, ok := matchNested(reference, stack); ok {
		return c, nil
	}

	// 2. Absolute reference: a dotted name whose prefix is the module path.
	if prefix, bare := ident.SplitLast(reference); prefix != "" {
		return Canonical{Module: prefix, Name: bare}, nil
	}

	// 3. Innermost class on the stack.
	if cls := stack.Innermost(); cls != nil && cls.Module != nil && cls.Module.Name != "" {
		return Canonical{Module: cls.Module.Name, Name: reference}, nil
	}

	// 4. The callable's declaring module.
	if fn != nil && fn.Module != nil && fn.Module.Name != "" {
		return Canonical{Module: fn.Module.Name, Name: reference}, nil
	}

	// 5. Builtins.
	if _, ok := hint.LookupBuiltin(reference); ok {
		return Canonical{Module: hint.BuiltinsModuleName, Name: reference}, nil
	}

	return Canonical{}, unresolvable(reference, failureDetail(stack, fn))
}

// matchNested checks whether the reference's dotted segments equal a suffix
// chain of class names on the stack: reference "Outer.Inner" matches a stack
// ending in classes named Outer, Inner. The reference text is preserved
// unchanged so later lookup walks the nesting, not a module path.
func matchNested(reference string, stack hint.Stack) (Canonical, bool) {
	if len(stack) == 0 {
		return Canonical{}, false
	}
	segs := strings.Split(reference, ".")
	if len(segs) > len(stack) {
		return Canonical{}, false
	}
	start := len(stack) - len(segs)
	for i, seg := range segs {
		if stack[start+i].Name != seg {
			return Canonical{}, false
		}
	}
	matched := stack[start]
	if matched.Module == nil || matched.Module.Name == "" {
		return Canonical{}, false
	}
	return Canonical{Module: matched.Module.Name, Name: reference}, true
}

// failureDetail names the owners involved and whether their modules were
// importable, to help diagnose unimportable dynamically-synthesized owners.
func failureDetail(stack hint.Stack, fn *hint.Callable) string {
	var sb strings.Builder
	sb.WriteString("no strategy determined an owning module")
	if cls := stack.Innermost(); cls != nil {
		sb.WriteString("; class ")
		sb.WriteString(cls.Qualified())
		sb.WriteString(describeModule(cls.Module))
	}
	if fn != nil {
		sb.WriteString("; callable ")
		sb.WriteString(fn.String())
		sb.WriteString(describeModule(fn.Module))
	}
	if stack.Innermost() == nil && fn == nil {
		sb.WriteString("; no class or callable context was supplied")
	}
	return sb.String()
}

func describeModule(m *hint.Module) string {
	switch {
	case m == nil:
		return " (no declaring module)"
	case m.Name == "":
		return " (declaring module has no name)"
	case !m.Importable:
		return " (declaring module " + m.Name + " is not importable)"
	default:
		return " (declaring module " + m.Name + ")"
	}
}
