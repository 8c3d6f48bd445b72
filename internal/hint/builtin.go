package hint

// BuiltinsModuleName is the module all builtin type names resolve against.
const BuiltinsModuleName = "builtins"

// Builtin is a builtin scalar type or container origin.
type Builtin struct {
	Name      string
	Container bool // true for subscriptable container origins (list, dict, ...)
}

func (b *Builtin) String() string { return b.Name }
func (b *Builtin) hintNode()      {}

var builtinsModule = func() *Module {
	m := NewModule(BuiltinsModuleName)
	scalars := []string{"int", "float", "str", "bool", "bytes", "complex", "object", "type"}
	for _, n := range scalars {
		m.attrs[n] = &Builtin{Name: n}
	}
	containers := []string{"list", "dict", "set", "frozenset", "tuple"}
	for _, n := range containers {
		m.attrs[n] = &Builtin{Name: n, Container: true}
	}
	return m
}()

// Generic is the carrier origin for a class's own type parameters: the
// pseudo-superclass spelled Generic[...] at definition time. It is not an
// attribute of the builtins module; only subscripted forms of it appear,
// in pseudo-superclass lists.
var Generic = &Builtin{Name: "Generic", Container: true}

// LookupBuiltin returns the builtin type registered under name.
func LookupBuiltin(name string) (*Builtin, bool) {
	h, ok := builtinsModule.Attr(name)
	if !ok {
		return nil, false
	}
	b, ok := h.(*Builtin)
	return b, ok
}

// BuiltinsModule returns the shared builtins module.
func BuiltinsModule() *Module {
	return builtinsModule
}
