package scope

import "pseudoc/internal/converter/symbols"

// Registry is the class lookup table, keyed by class name and independent of
// the scope chain. It is populated by a pre-pass over the top-level statement
// list before the main walk, so "is this name a class" and "is this class a
// base elsewhere" resolve regardless of definition order. Rebuilt fresh for
// every parse.
type Registry struct {
	classes map[string]symbols.ClassInfo
	order   []string
}

func NewRegistry() *Registry {
	return &Registry{classes: make(map[string]symbols.ClassInfo)}
}

func (r *Registry) Define(info symbols.ClassInfo) {
	if _, exists := r.classes[info.Name]; !exists {
		r.order = append(r.order, info.Name)
	}
	r.classes[info.Name] = info
}

func (r *Registry) Lookup(name string) (*symbols.ClassInfo, bool) {
	info, ok := r.classes[name]
	if !ok {
		return nil, false
	}
	infoCopy := info
	return &infoCopy, true
}

func (r *Registry) IsClass(name string) bool {
	_, ok := r.classes[name]
	return ok
}

// IsBase reports whether any registered class inherits from name.
func (r *Registry) IsBase(name string) bool {
	for _, info := range r.classes {
		if info.Base == name {
			return true
		}
	}
	return false
}

// Names returns class names in definition order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

func (r *Registry) Len() int { return len(r.classes) }
