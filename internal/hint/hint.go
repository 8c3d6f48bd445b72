package hint

// Hint is implemented by every node in the hint universe.
type Hint interface {
	// String returns the display form of the hint.
	String() string
	hintNode()
}

// Sign classifies which category of hint construct a value belongs to.
// The engine's consumers treat this as an opaque tag.
type Sign uint8

const (
	SignNone       Sign = iota
	SignBuiltin         // a builtin scalar type (int, str, ...)
	SignContainer       // a builtin container origin (list, dict, ...)
	SignClass           // a user-defined class, possibly generic
	SignTypeParam       // an unresolved type parameter
	SignSub             // a subscripted hint (Origin[Args...])
	SignRef             // a forward-reference proxy
)

// String returns the string representation of Sign.
func (s Sign) String() string {
	switch s {
	case SignBuiltin:
		return "builtin"
	case SignContainer:
		return "container"
	case SignClass:
		return "class"
	case SignTypeParam:
		return "typeparam"
	case SignSub:
		return "subscripted"
	case SignRef:
		return "ref"
	default:
		return "none"
	}
}

// SignOf returns the sign of h.
func SignOf(h Hint) Sign {
	switch v := h.(type) {
	case *Builtin:
		if v.Container {
			return SignContainer
		}
		return SignBuiltin
	case *Class:
		return SignClass
	case *TypeParam:
		return SignTypeParam
	case *Subscripted:
		return SignSub
	case *Ref:
		return SignRef
	default:
		return SignNone
	}
}

// Origin reduces a subscripted hint to its unsubscripted origin.
// Non-subscripted hints are returned unchanged.
func Origin(h Hint) Hint {
	if sub, ok := h.(*Subscripted); ok {
		return sub.Origin
	}
	return h
}
