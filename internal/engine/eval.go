package engine

import (
	"tycore/internal/diag"
	"tycore/internal/hint"
	"tycore/internal/ident"
	"tycore/internal/ref"
	"tycore/internal/scope"
)

// Evaluator turns deferred annotation text into a hint. The mapping is the
// lexical scope the text was written in; stack and fn describe the enclosing
// class chain and callable, when known. Implementations must be safe for
// concurrent use.
type Evaluator func(expr string, mapping *scope.Mapping, stack hint.Stack, fn *hint.Callable) (hint.Hint, error)

// evalDeferred is the default evaluator. A name already bound in the scope
// wins; anything else becomes a forward-reference proxy whose owner is
// picked by canonicalization against the enclosing class chain. The proxy is
// cached back into the scope so repeated evaluations of the same text return
// the same hint.
func (e *Engine) evalDeferred(expr string, mapping *scope.Mapping, stack hint.Stack, fn *hint.Callable) (hint.Hint, error) {
	if v, ok := mapping.Get(expr); ok {
		h, isHint := v.(hint.Hint)
		if !isHint {
			return nil, &ref.Error{Code: diag.RefBadName, Ref: expr,
				Msg: "scope binding is not a hint"}
		}
		return h, nil
	}
	if err := ident.CheckChain(expr, "deferred annotation"); err != nil {
		return nil, &ref.Error{Code: diag.RefBadName, Ref: expr, Msg: err.Error()}
	}
	p, err := e.factory.ProxyFor(expr, stack, fn)
	if err != nil {
		return nil, err
	}
	mapping.Vars()[expr] = p
	return p, nil
}
