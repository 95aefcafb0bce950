package scope

import (
	"pseudoc/internal/converter/diag"
	"pseudoc/internal/converter/symbols"
)

type Kind string

const (
	KindGlobal   Kind = "global"
	KindFunction Kind = "function"
	KindClass    Kind = "class"
	KindFor      Kind = "for"
	KindWhile    Kind = "while"
)

// --- Scope ---
type Scope struct {
	Name      string
	Kind      Kind
	Outer     *Scope
	Variables map[string]symbols.VariableInfo
	Functions map[string]symbols.FunctionInfo
}

func NewScope(outer *Scope, name string, kind Kind) *Scope {
	return &Scope{
		Name:      name,
		Kind:      kind,
		Outer:     outer,
		Variables: make(map[string]symbols.VariableInfo),
		Functions: make(map[string]symbols.FunctionInfo),
	}
}

// Manager owns the scope chain for one conversion. It is created fresh per
// top-level call; nothing here is shared between conversions. Nesting limits
// are the builder's concern: if bodies nest without opening a scope, so the
// chain depth alone cannot see them.
type Manager struct {
	global     *Scope
	current    *Scope
	depth      int
	diags      *diag.List
	registered int // distinct variable registrations across all scopes
}

func NewManager(diags *diag.List) *Manager {
	g := NewScope(nil, "global", KindGlobal)
	return &Manager{global: g, current: g, diags: diags}
}

func (m *Manager) Current() *Scope { return m.current }
func (m *Manager) Global() *Scope  { return m.global }
func (m *Manager) Depth() int      { return m.depth }

// Enter pushes a child of the current scope.
func (m *Manager) Enter(name string, kind Kind) *Scope {
	m.depth++
	m.current = NewScope(m.current, name, kind)
	return m.current
}

// Exit pops the current scope, guarded against popping the global root.
func (m *Manager) Exit() {
	if m.current.Outer == nil {
		m.diags.Errorf(diag.KindValidation, 0, "attempted to exit the global scope")
		return
	}
	m.current = m.current.Outer
	m.depth--
}

// RegisterVariable inserts into the current scope only. Re-registration
// updates in place (assignment is also re-assignment in the source language).
func (m *Manager) RegisterVariable(name string, info symbols.VariableInfo) {
	if _, exists := m.current.Variables[name]; !exists {
		m.registered++
	}
	info.ScopeName = m.current.Name
	m.current.Variables[name] = info
}

// VariableCount reports how many distinct variables were registered over the
// whole walk, popped scopes included.
func (m *Manager) VariableCount() int { return m.registered }

func (m *Manager) RegisterFunction(name string, info symbols.FunctionInfo) {
	m.current.Functions[name] = info
}

// FindVariable walks current -> root and returns the first match. The copy
// keeps callers from mutating the map entry through the pointer.
func (m *Manager) FindVariable(name string) (*symbols.VariableInfo, bool) {
	for s := m.current; s != nil; s = s.Outer {
		if info, ok := s.Variables[name]; ok {
			infoCopy := info
			return &infoCopy, true
		}
	}
	return nil, false
}

func (m *Manager) FindFunction(name string) (*symbols.FunctionInfo, bool) {
	for s := m.current; s != nil; s = s.Outer {
		if info, ok := s.Functions[name]; ok {
			infoCopy := info
			return &infoCopy, true
		}
	}
	return nil, false
}

// InFunction reports whether any enclosing scope is a function body.
func (m *Manager) InFunction() bool {
	for s := m.current; s != nil; s = s.Outer {
		if s.Kind == KindFunction {
			return true
		}
	}
	return false
}
