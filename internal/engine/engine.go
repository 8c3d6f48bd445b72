// Package engine drives decoration passes over a universe: it walks modules,
// evaluates deferred annotations against per-module scope mappings, mints and
// resolves forward-reference proxies, and propagates generic type arguments.
package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"tycore/internal/cachereg"
	"tycore/internal/diag"
	"tycore/internal/generic"
	"tycore/internal/hint"
	"tycore/internal/ref"
	"tycore/internal/scope"
	"tycore/internal/trace"
)

// maxDiagnostics bounds every bag an engine pass fills.
const maxDiagnostics = 256

// Engine owns the caches of one type-checking session. All methods are safe
// for concurrent use.
type Engine struct {
	universe *hint.Universe
	factory  *ref.Factory
	prop     *generic.Propagator
	reg      *cachereg.Registry
	tracer   trace.Tracer
	eval     Evaluator
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithTracer routes pass and cache events to t.
func WithTracer(t trace.Tracer) Option {
	return func(e *Engine) { e.tracer = t }
}

// WithEvaluator replaces the default deferred-annotation evaluator.
func WithEvaluator(ev Evaluator) Option {
	return func(e *Engine) { e.eval = ev }
}

// New creates an engine over u and hooks every internal cache into the
// invalidation registry, so a redefined class flushes them all at once.
func New(u *hint.Universe, opts ...Option) *Engine {
	e := &Engine{
		universe: u,
		tracer:   trace.Nop,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.factory = ref.NewFactory(u, e.tracer)
	e.prop = generic.NewPropagator(e.tracer)
	e.reg = cachereg.New()
	e.reg.SetTracer(e.tracer)
	e.reg.RegisterCache(e.factory.Clear)
	e.reg.RegisterCache(e.prop.Clear)
	if e.eval == nil {
		e.eval = e.evalDeferred
	}
	return e
}

// Factory exposes the proxy factory, for callers that mint references
// outside a decoration pass.
func (e *Engine) Factory() *ref.Factory { return e.factory }

// Registry exposes the cache-invalidation registry.
func (e *Engine) Registry() *cachereg.Registry { return e.reg }

// Report is the outcome of decorating one module.
type Report struct {
	Module    string
	Classes   int
	Callables int
	Evaluated int
	Bag       *diag.Bag
}

// Summary aggregates the reports of a whole-universe pass.
type Summary struct {
	Reports []*Report
	Bag     *diag.Bag
}

// DecorateModule runs one decoration pass over the named module: every
// deferred annotation on its classes and callables is evaluated, minting
// forward-reference proxies for names that are not yet bound.
func (e *Engine) DecorateModule(ctx context.Context, name string) (*Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mod, ok := e.universe.LookupModule(name)
	if !ok {
		return nil, fmt.Errorf("module %q is not registered", name)
	}

	span := trace.Begin(e.tracer, trace.ScopePass, "decorate "+name, 0)
	rep := &Report{Module: name, Bag: diag.NewBag(maxDiagnostics)}

	backing := make(map[string]any)
	for _, attr := range mod.AttrNames() {
		h, _ := mod.Attr(attr)
		backing[attr] = h
	}
	mapping, err := scope.New(name, backing, e.factory)
	if err != nil {
		span.End("error")
		return nil, err
	}

	for _, attr := range mod.AttrNames() {
		h, _ := mod.Attr(attr)
		switch v := h.(type) {
		case *hint.Class:
			if v.Outer != nil {
				continue // reached through its enclosing class
			}
			e.decorateClass(mod, v, nil, mapping, rep)
		case *hint.Callable:
			e.decorateCallable(v, mapping, rep)
		}
	}

	span.End(fmt.Sprintf("classes=%d callables=%d evaluated=%d", rep.Classes, rep.Callables, rep.Evaluated))
	return rep, nil
}

// DecorateAll decorates every non-builtin module, up to jobs modules in
// parallel. jobs <= 0 means one worker per module.
func (e *Engine) DecorateAll(ctx context.Context, jobs int) (*Summary, error) {
	names := make([]string, 0, len(e.universe.ModuleNames()))
	for _, n := range e.universe.ModuleNames() {
		if n != hint.BuiltinsModuleName {
			names = append(names, n)
		}
	}

	span := trace.Begin(e.tracer, trace.ScopeEngine, "decorate-all", 0)
	reports := make([]*Report, len(names))

	g, gctx := errgroup.WithContext(ctx)
	if jobs <= 0 {
		jobs = len(names)
	}
	if jobs > 0 {
		g.SetLimit(min(jobs, max(len(names), 1)))
	}
	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			rep, err := e.DecorateModule(gctx, name)
			if err != nil {
				return err
			}
			reports[i] = rep
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.End("error")
		return nil, err
	}

	sum := &Summary{Reports: reports, Bag: diag.NewBag(maxDiagnostics)}
	for _, rep := range reports {
		sum.Bag.Merge(rep.Bag)
	}
	sum.Bag.Sort()
	span.End(fmt.Sprintf("modules=%d diagnostics=%d", len(reports), sum.Bag.Len()))
	return sum, nil
}

func (e *Engine) decorateClass(mod *hint.Module, cls *hint.Class, stack hint.Stack, mapping *scope.Mapping, rep *Report) {
	e.reg.MarkDecorated(mod.Name, cls.Qualified())
	rep.Classes++
	inner := stack.Push(cls)

	for i := range cls.Fields {
		ann := &cls.Fields[i]
		if !ann.IsDeferred() {
			continue
		}
		h, err := e.eval(ann.Deferred, mapping, inner, nil)
		if err != nil {
			rep.Bag.Add(diagFromErr(cls.Qualified()+"."+ann.Name, err))
			continue
		}
		ann.Hint = h
		rep.Evaluated++
	}

	for _, attr := range mod.AttrNames() {
		h, _ := mod.Attr(attr)
		nested, ok := h.(*hint.Class)
		if ok && nested.Outer == cls {
			e.decorateClass(mod, nested, inner, mapping, rep)
		}
	}
}

func (e *Engine) decorateCallable(fn *hint.Callable, mapping *scope.Mapping, rep *Report) {
	rep.Callables++
	anns := make([]*hint.Annotation, 0, len(fn.Params)+1)
	for i := range fn.Params {
		anns = append(anns, &fn.Params[i])
	}
	anns = append(anns, &fn.Result)

	for _, ann := range anns {
		if !ann.IsDeferred() {
			continue
		}
		h, err := e.eval(ann.Deferred, mapping, nil, fn)
		if err != nil {
			rep.Bag.Add(diagFromErr(fn.String()+"."+ann.Name, err))
			continue
		}
		ann.Hint = h
		rep.Evaluated++
	}
}

// ResolveProxies resolves every live proxy, recording failures as
// diagnostics. It returns how many proxies resolved.
func (e *Engine) ResolveProxies(bag *diag.Bag) int {
	resolved := 0
	for _, p := range e.factory.All() {
		if _, err := e.factory.Resolve(p); err != nil {
			bag.Add(diagFromErr(p.String(), err))
			continue
		}
		resolved++
	}
	return resolved
}

// Args propagates type arguments for h.
func (e *Engine) Args(h hint.Hint) ([]hint.Hint, error) {
	return e.prop.Args(h)
}

// ArgsFor propagates type arguments as seen from the ancestor target.
func (e *Engine) ArgsFor(h hint.Hint, target *hint.Class) ([]hint.Hint, error) {
	return e.prop.ArgsFor(h, target)
}

// ClearCaches flushes every registered cache and the decoration ledger.
func (e *Engine) ClearCaches() {
	e.reg.ClearAll()
}

// diagFromErr converts a typed failure into a diagnostic, preserving its
// stable code when one is carried.
func diagFromErr(subject string, err error) diag.Diagnostic {
	switch te := err.(type) {
	case *ref.Error:
		return diag.NewError(te.Code, subject, te.Msg)
	case *generic.Error:
		return diag.NewError(te.Code, subject, te.Msg)
	default:
		return diag.NewError(diag.RefUnresolvable, subject, err.Error())
	}
}
