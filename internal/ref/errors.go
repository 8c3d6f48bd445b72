package ref

import (
	"fmt"

	"tycore/internal/diag"
)

// Error is a forward-reference failure: a malformed name, a missing owner
// module, or an unresolvable target.
type Error struct {
	Code diag.Code
	Ref  string
	Msg  string
}

func (e *Error) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("%s: forward reference %q: %s", e.Code, e.Ref, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func badName(ref, msg string) *Error {
	return &Error{Code: diag.RefBadName, Ref: ref, Msg: msg}
}

func badScope(ref, msg string) *Error {
	return &Error{Code: diag.RefBadScope, Ref: ref, Msg: msg}
}

func unresolvable(ref, msg string) *Error {
	return &Error{Code: diag.RefUnresolvable, Ref: ref, Msg: msg}
}
