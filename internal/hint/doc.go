// Package hint models the type-hint universe the tycore engine operates on:
// modules, classes, callables, type parameters, builtin types, and
// subscripted generics.
//
// Hints are plain Go values compared by pointer identity. Two classes with
// the same name in different modules are different hints; a type parameter
// appearing in several ancestor lists is the same hint everywhere it
// appears. All substitution and caching machinery in the engine relies on
// that identity semantics.
package hint
