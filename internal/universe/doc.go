// Package universe loads declarative type-universe manifests (tycore.toml)
// into the hint model: modules, classes with type parameters and
// pseudo-superclasses, callables, and field annotations.
//
// Hint expressions inside a manifest use a small surface syntax:
//
//	int                 builtin
//	Pair                class in the current module
//	shapes.Pair         class in another module
//	Outer.Inner         nested class
//	Pair[int, T]        subscripted form
//	'Node'              deferred forward reference (annotations only)
package universe
