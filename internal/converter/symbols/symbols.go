package symbols

import "pseudoc/internal/converter/types"

// VariableInfo records what is known about a variable at its defining site.
type VariableInfo struct {
	Type        types.DataType
	ScopeName   string
	Initialized bool
	Line        int

	// --- Array specific info ---
	ElemType types.DataType
	Size     int

	// --- Object specific info ---
	ClassName string
}

type Param struct {
	Name string
	Type types.DataType
}

type FunctionInfo struct {
	Params     []Param
	ReturnType types.DataType
	HasReturn  bool // false means procedure
	Line       int
}

type Field struct {
	Name string
	Type types.DataType
}

// ClassInfo lives in the class registry, independent of the scope chain.
// Fields are recorded in constructor assignment order.
type ClassInfo struct {
	Name    string
	Base    string
	Fields  []Field
	Methods []string
	Line    int

	// PlainCtor is true when the constructor consists solely of
	// field-from-parameter assignments, one input to the record-vs-class
	// classification.
	PlainCtor bool
}

// Field returns the named field, or nil.
func (c *ClassInfo) Field(name string) *Field {
	for i := range c.Fields {
		if c.Fields[i].Name == name {
			return &c.Fields[i]
		}
	}
	return nil
}
