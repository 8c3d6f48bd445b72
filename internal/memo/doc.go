// Package memo provides call memoization for pure functions and factories.
//
// Two surfaces are exposed:
//
//   - Wrap: a reflect-based wrapper for arbitrary non-variadic functions,
//     keyed by their positional (and optionally named) argument tuples.
//   - Func1/Func2: typed wrappers for the common one- and two-key cases,
//     with zero reflection on the call path.
//
// Both cache errors alongside values: a call that failed once re-returns the
// identical error value on every later call with the same key, without
// re-executing the wrapped function. When a key cannot be hashed (a
// non-comparable argument), the call silently falls through to direct
// uncached execution; this is the only swallowed failure in the package.
package memo
