package memo

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"tycore/internal/diag"
	"tycore/internal/trace"
)

// ConfigError reports a function that cannot be memoized at all. It is
// raised once, at wrap time, never per call.
type ConfigError struct {
	Code diag.Code
	Msg  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

var errType = reflect.TypeOf((*error)(nil)).Elem()

// kwSep separates positional from named segments inside composite keys.
// The type is unexported, so no caller-supplied argument can collide with it.
type kwSep struct{}

// namedArg is one (name, value) element of a composite key.
type namedArg struct {
	name  string
	value any
}

// Wrapper memoizes an arbitrary non-variadic function by its argument tuple.
type Wrapper struct {
	fn       reflect.Value
	fnType   reflect.Type
	hasErr   bool
	tracer   trace.Tracer
	name     string
	mu       sync.Mutex
	entries  map[any]result[any]
	hits     uint64
	misses   uint64
	uncached uint64
	keyword  uint64
}

// Option configures a Wrapper.
type Option func(*Wrapper)

// WithTracer attaches a tracer used for the named-argument advisory.
func WithTracer(t trace.Tracer) Option {
	return func(w *Wrapper) { w.tracer = t }
}

// WithName sets the name reported in advisories; defaults to the
// reflected function name being unavailable, so callers should set it.
func WithName(name string) Option {
	return func(w *Wrapper) { w.name = name }
}

// Wrap memoizes fn, which must be a non-variadic function returning either a
// single value or a (value, error) pair. Variadic functions are rejected at
// wrap time with a ConfigError: their argument tuples have no stable arity
// to key by.
func Wrap(fn any, opts ...Option) (*Wrapper, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func {
		return nil, &ConfigError{Code: diag.MemoInfo, Msg: fmt.Sprintf("memoize target must be a function, got %T", fn)}
	}
	t := v.Type()
	if t.IsVariadic() {
		return nil, &ConfigError{Code: diag.MemoVariadic, Msg: "cannot memoize a variadic function"}
	}
	switch t.NumOut() {
	case 1:
		if t.Out(0) == errType {
			return nil, &ConfigError{Code: diag.MemoInfo, Msg: "memoize target must return a value, not only an error"}
		}
	case 2:
		if t.Out(1) != errType {
			return nil, &ConfigError{Code: diag.MemoInfo, Msg: "second return of a memoize target must be error"}
		}
	default:
		return nil, &ConfigError{Code: diag.MemoInfo, Msg: fmt.Sprintf("memoize target must return 1 or 2 values, got %d", t.NumOut())}
	}
	w := &Wrapper{
		fn:      v,
		fnType:  t,
		hasErr:  t.NumOut() == 2,
		tracer:  trace.Nop,
		entries: make(map[any]result[any]),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Call invokes the wrapped function with positional arguments, returning a
// cached result when the same tuple was seen before. A single argument is
// used directly as the key; longer tuples are folded into a composite key.
func (w *Wrapper) Call(args ...any) (any, error) {
	key, hashable := positionalKey(args)
	return w.call(key, hashable, args)
}

// CallNamed invokes the wrapped function with positional arguments followed
// by named arguments appended in sorted name order. Named calls work, but
// key construction is slower, so an advisory is emitted once per call.
func (w *Wrapper) CallNamed(named map[string]any, args ...any) (any, error) {
	w.mu.Lock()
	w.keyword++
	w.mu.Unlock()
	trace.Point(w.tracer, trace.ScopeRef, "memo:"+w.name,
		diag.MemoKeywordCall.String()+": named-argument call is memoized less efficiently")

	names := make([]string, 0, len(named))
	for n := range named {
		names = append(names, n)
	}
	sort.Strings(names)

	full := make([]any, 0, len(args)+len(named))
	full = append(full, args...)
	key := any(kwSep{})
	hashable := true
	for i := len(args) - 1; i >= 0; i-- {
		if !isHashable(args[i]) {
			hashable = false
			break
		}
		key = pair{args[i], key}
	}
	for _, n := range names {
		v := named[n]
		full = append(full, v)
		if !isHashable(v) {
			hashable = false
			continue
		}
		key = pair{key, namedArg{name: n, value: v}}
	}
	return w.call(key, hashable, full)
}

func (w *Wrapper) call(key any, hashable bool, args []any) (any, error) {
	if !hashable {
		// Unhashable arguments: silent fallback to direct execution.
		w.mu.Lock()
		w.uncached++
		w.mu.Unlock()
		return w.invoke(args)
	}

	w.mu.Lock()
	if r, ok := w.entries[key]; ok {
		w.hits++
		w.mu.Unlock()
		return r.val, r.err
	}
	w.misses++
	w.mu.Unlock()

	val, err := w.invoke(args)

	w.mu.Lock()
	defer w.mu.Unlock()
	if r, ok := w.entries[key]; ok {
		return r.val, r.err
	}
	w.entries[key] = result[any]{val: val, err: err}
	return val, err
}

func (w *Wrapper) invoke(args []any) (any, error) {
	if len(args) != w.fnType.NumIn() {
		return nil, fmt.Errorf("memo: %s takes %d arguments, got %d", w.name, w.fnType.NumIn(), len(args))
	}
	in := make([]reflect.Value, len(args))
	for i, a := range args {
		if a == nil {
			in[i] = reflect.Zero(w.fnType.In(i))
			continue
		}
		in[i] = reflect.ValueOf(a)
	}
	out := w.fn.Call(in)
	if w.hasErr {
		if errv := out[1]; !errv.IsNil() {
			return out[0].Interface(), errv.Interface().(error)
		}
		return out[0].Interface(), nil
	}
	return out[0].Interface(), nil
}

// Clear drops every cached entry.
func (w *Wrapper) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.entries = make(map[any]result[any])
}

// Stats reports cache activity counters.
type Stats struct {
	Hits         uint64
	Misses       uint64
	Uncached     uint64
	KeywordCalls uint64
}

// Stats returns a snapshot of the wrapper's counters.
func (w *Wrapper) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return Stats{Hits: w.hits, Misses: w.misses, Uncached: w.uncached, KeywordCalls: w.keyword}
}

// pair folds argument tuples into nested comparable keys.
type pair struct {
	head any
	tail any
}

// positionalKey builds a map key from positional arguments. A single
// argument is unwrapped to avoid needless container overhead. The second
// return is false when any argument is not hashable.
func positionalKey(args []any) (any, bool) {
	switch len(args) {
	case 0:
		return kwSep{}, true
	case 1:
		return args[0], isHashable(args[0])
	}
	key := any(kwSep{})
	for i := len(args) - 1; i >= 0; i-- {
		if !isHashable(args[i]) {
			return nil, false
		}
		key = pair{head: args[i], tail: key}
	}
	return key, true
}

// isHashable reports whether v can be used as a map key.
func isHashable(v any) bool {
	if v == nil {
		return true
	}
	return reflect.TypeOf(v).Comparable()
}
