package hint

import (
	"sort"
	"sync"
)

// Module is a named lexical scope owning classes, callables, and other
// attributes. Importable is false for synthetic pseudo-modules, such as the
// reported owner of a dynamically generated callable.
type Module struct {
	Name       string
	Importable bool

	mu    sync.RWMutex
	attrs map[string]Hint
}

// NewModule creates an importable module.
func NewModule(name string) *Module {
	return &Module{Name: name, Importable: true, attrs: make(map[string]Hint)}
}

// Define binds an attribute name inside the module.
func (m *Module) Define(name string, h Hint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attrs[name] = h
}

// Attr returns the attribute bound under name.
func (m *Module) Attr(name string) (Hint, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.attrs[name]
	return h, ok
}

// AttrNames returns the sorted attribute names, for deterministic output.
func (m *Module) AttrNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.attrs))
	for n := range m.attrs {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Universe is the set of modules visible to one engine instance, plus the
// shared name interner.
type Universe struct {
	mu      sync.RWMutex
	names   *Interner
	modules map[string]*Module
}

// NewUniverse creates an empty universe with the builtins module registered.
func NewUniverse() *Universe {
	u := &Universe{
		names:   NewInterner(),
		modules: make(map[string]*Module),
	}
	u.modules[BuiltinsModuleName] = builtinsModule
	u.names.Intern(BuiltinsModuleName)
	return u
}

// Names exposes the universe's interner.
func (u *Universe) Names() *Interner {
	return u.names
}

// Module returns the module registered under name, creating it when absent.
func (u *Universe) Module(name string) *Module {
	u.mu.Lock()
	defer u.mu.Unlock()
	if m, ok := u.modules[name]; ok {
		return m
	}
	m := NewModule(name)
	u.modules[name] = m
	u.names.Intern(name)
	return m
}

// LookupModule returns the module registered under name.
func (u *Universe) LookupModule(name string) (*Module, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	m, ok := u.modules[name]
	return m, ok
}

// ModuleNames returns the sorted names of all registered modules.
func (u *Universe) ModuleNames() []string {
	u.mu.RLock()
	defer u.mu.RUnlock()
	names := make([]string, 0, len(u.modules))
	for n := range u.modules {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
