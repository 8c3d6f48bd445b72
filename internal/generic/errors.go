package generic

import (
	"fmt"

	"tycore/internal/diag"
	"tycore/internal/hint"
)

// Error is a propagation failure. All kinds are caller contract violations:
// none is transient, none is retried.
type Error struct {
	Code diag.Code
	Hint hint.Hint
	Msg  string
}

func (e *Error) Error() string {
	if e.Hint != nil {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Hint.String(), e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func notGeneric(h hint.Hint) *Error {
	return &Error{Code: diag.GenericNotGeneric, Hint: h,
		Msg: "hint is not a user-defined generic class"}
}

func targetNotFound(h hint.Hint, target *hint.Class) *Error {
	return &Error{Code: diag.GenericTargetNotFound, Hint: h,
		Msg: target.Qualified() + " is not an ancestor of this generic"}
}

func ambiguousTarget(h hint.Hint, target *hint.Class) *Error {
	return &Error{Code: diag.GenericAmbiguousAncestor, Hint: h,
		Msg: target.Qualified() + " is inherited through two different paths; argument lists cannot be merged"}
}

func bareTarget(h hint.Hint, target *hint.Class) *Error {
	return &Error{Code: diag.GenericBareTarget, Hint: h,
		Msg: target.Qualified() + " carries no type arguments anywhere in the hierarchy"}
}

func noArgs(h hint.Hint) *Error {
	return &Error{Code: diag.GenericNoArgs, Hint: h,
		Msg: "hierarchy yields no type arguments; the generic is malformed"}
}
