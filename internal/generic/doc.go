// Package generic computes the concrete type arguments that apply at every
// level of a generic class's pseudo-superclass hierarchy.
//
// Arguments supplied at a subclass "bubble up" into the type-parameter
// placeholders left open by ancestors: for
//
//	class Base(Generic[S, T])
//	class Child(Base[int, T])
//
// propagating Child[float] yields (int, float): Base's concrete int
// combines with float bubbled into the still-open T.
//
// The traversal is an iterative depth-first walk over an explicit stack
// with parent back-pointers, not genuine recursion: when a caller restricts
// the computation to one target ancestor, the walk returns the moment that
// ancestor's argument list is fully resolved, which recursion cannot do
// cheaply.
package generic
