package hint

import "strings"

// TypeParam is a generic type parameter. Identity is pointer identity: the
// same *TypeParam appearing in several pseudo-superclass lists is one
// placeholder, and substitution tables key by the pointer.
type TypeParam struct {
	Name string
	// OwnerName is the qualified name of the declaring class, for messages.
	OwnerName string
	// Index is the position in the owner's declaration order.
	Index int
}

func (p *TypeParam) String() string { return p.Name }
func (p *TypeParam) hintNode()      {}

// Annotation is one name: hint binding on a class field or callable
// parameter. Deferred holds the not-yet-evaluated reference text when the
// hint was written as a string; exactly one of Hint and Deferred is set.
type Annotation struct {
	Name     string
	Hint     Hint
	Deferred string
}

// IsDeferred reports whether the annotation still needs evaluation.
func (a Annotation) IsDeferred() bool {
	return a.Hint == nil && a.Deferred != ""
}

// Class is a user-defined, possibly generic class.
//
// Bases holds the pseudo-superclasses exactly as written at definition time:
// plain classes, builtins, or Subscripted forms whose arguments may be
// concrete hints or the class's own type parameters.
type Class struct {
	Name       string
	Module     *Module
	Outer      *Class // enclosing class for lexically nested classes, nil at top level
	TypeParams []*TypeParam
	Bases      []Hint
	Fields     []Annotation
}

func (c *Class) String() string { return c.Qualified() }
func (c *Class) hintNode()      {}

// Qualified returns the fully qualified name, walking the nesting chain:
// "mod.Outer.Inner".
func (c *Class) Qualified() string {
	var parts []string
	for cur := c; cur != nil; cur = cur.Outer {
		parts = append(parts, cur.Name)
	}
	for i, j := 0, len(parts)-1; i < j; i, j = i+1, j-1 {
		parts[i], parts[j] = parts[j], parts[i]
	}
	if c.Module != nil {
		return c.Module.Name + "." + strings.Join(parts, ".")
	}
	return strings.Join(parts, ".")
}

// IsGeneric reports whether the class declares type parameters.
func (c *Class) IsGeneric() bool {
	return len(c.TypeParams) > 0
}

// Callable is a function or method with annotated parameters.
type Callable struct {
	Name   string
	Module *Module
	Params []Annotation
	Result Annotation
}

func (f *Callable) String() string {
	if f.Module != nil {
		return f.Module.Name + "." + f.Name
	}
	return f.Name
}
func (f *Callable) hintNode() {}

// Stack is the ordered chain of enclosing classes of a decoration pass,
// outermost first, innermost last. Frames are appended by value so each
// recursion level owns an independent tuple.
type Stack []*Class

// Push returns a new stack with c appended; the receiver is never mutated.
func (s Stack) Push(c *Class) Stack {
	out := make(Stack, len(s), len(s)+1)
	copy(out, s)
	return append(out, c)
}

// Innermost returns the most recently entered class, or nil for an empty stack.
func (s Stack) Innermost() *Class {
	if len(s) == 0 {
		return nil
	}
	return s[len(s)-1]
}
