package memo

import "sync"

type result[V any] struct {
	val V
	err error
}

// Table memoizes a one-argument function. The key is the argument itself.
// Errors are cached and replayed as the identical error value. Clear empties
// the table; in-flight computations finish against the new generation.
//
// The lock is held only for map access, never across fn: population may
// re-enter the table with a different key. If two goroutines race on the
// same key, the first inserted result wins and the loser's computation is
// discarded, keeping one canonical value per key.
type Table[K comparable, V any] struct {
	mu      sync.Mutex
	entries map[K]result[V]
	fn      func(K) (V, error)
}

// NewTable wraps fn in a memoization table.
func NewTable[K comparable, V any](fn func(K) (V, error)) *Table[K, V] {
	return &Table[K, V]{
		entries: make(map[K]result[V]),
		fn:      fn,
	}
}

// Get returns the cached result for k, computing and caching it on first use.
func (t *Table[K, V]) Get(k K) (V, error) {
	t.mu.Lock()
	if r, ok := t.entries[k]; ok {
		t.mu.Unlock()
		return r.val, r.err
	}
	t.mu.Unlock()

	val, err := t.fn(k)

	t.mu.Lock()
	defer t.mu.Unlock()
	if r, ok := t.entries[k]; ok {
		return r.val, r.err
	}
	t.entries[k] = result[V]{val: val, err: err}
	return val, err
}

// Peek reports whether k is already cached, without computing it.
func (t *Table[K, V]) Peek(k K) (V, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	r, ok := t.entries[k]
	return r.val, ok
}

// Len returns the number of cached entries.
func (t *Table[K, V]) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Clear drops every cached entry.
func (t *Table[K, V]) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries = make(map[K]result[V])
}

// Func1 memoizes a one-argument function when no external Clear is needed.
func Func1[K comparable, V any](fn func(K) (V, error)) func(K) (V, error) {
	t := NewTable(fn)
	return t.Get
}

// Func2 memoizes a two-argument function keyed by the argument pair.
func Func2[A, B comparable, V any](fn func(A, B) (V, error)) func(A, B) (V, error) {
	t := NewTable(func(k pairKey[A, B]) (V, error) {
		return fn(k.a, k.b)
	})
	return func(a A, b B) (V, error) {
		return t.Get(pairKey[A, B]{a: a, b: b})
	}
}

type pairKey[A, B comparable] struct {
	a A
	b B
}
