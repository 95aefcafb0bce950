package scope

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pseudoc/internal/converter/diag"
	"pseudoc/internal/converter/symbols"
	"pseudoc/internal/converter/types"
)

func TestShadowingAndOuterLookup(t *testing.T) {
	diags := diag.NewList(0)
	m := NewManager(diags)

	m.RegisterVariable("x", symbols.VariableInfo{Type: types.Integer})
	m.RegisterVariable("y", symbols.VariableInfo{Type: types.String})

	m.Enter("f", KindFunction)
	m.RegisterVariable("x", symbols.VariableInfo{Type: types.Real})

	inner, ok := m.FindVariable("x")
	require.True(t, ok)
	assert.Equal(t, types.Real, inner.Type, "inner registration shadows the outer one")

	outer, ok := m.FindVariable("y")
	require.True(t, ok)
	assert.Equal(t, types.String, outer.Type, "lookup walks out to the global scope")

	m.Exit()
	global, ok := m.FindVariable("x")
	require.True(t, ok)
	assert.Equal(t, types.Integer, global.Type, "exiting restores the outer binding")
}

func TestReRegistrationUpdatesInPlace(t *testing.T) {
	m := NewManager(diag.NewList(0))

	m.RegisterVariable("x", symbols.VariableInfo{Type: types.Integer})
	m.RegisterVariable("x", symbols.VariableInfo{Type: types.String})

	info, ok := m.FindVariable("x")
	require.True(t, ok)
	assert.Equal(t, types.String, info.Type)
	assert.Equal(t, 1, m.VariableCount(), "re-assignment is not a new variable")
}

func TestFindReturnsCopy(t *testing.T) {
	m := NewManager(diag.NewList(0))
	m.RegisterVariable("x", symbols.VariableInfo{Type: types.Integer})

	info, _ := m.FindVariable("x")
	info.Type = types.Boolean

	fresh, _ := m.FindVariable("x")
	assert.Equal(t, types.Integer, fresh.Type, "mutating the returned record must not touch the scope")
}

func TestDepthStaysBalanced(t *testing.T) {
	m := NewManager(diag.NewList(0))

	m.Enter("a", KindFunction)
	m.Enter("b", KindFor)
	m.Enter("c", KindWhile)
	assert.Equal(t, 3, m.Depth())

	m.Exit()
	m.Exit()
	m.Exit()
	assert.Equal(t, 0, m.Depth())
}

func TestExitGlobalGuard(t *testing.T) {
	diags := diag.NewList(0)
	m := NewManager(diags)

	m.Exit()
	assert.True(t, diags.HasErrors())
	assert.Same(t, m.Global(), m.Current(), "global scope survives a stray exit")
}

func TestInFunction(t *testing.T) {
	m := NewManager(diag.NewList(0))
	assert.False(t, m.InFunction())

	m.Enter("f", KindFunction)
	m.Enter("loop", KindFor)
	assert.True(t, m.InFunction(), "nested block inside a function body")

	m.Exit()
	m.Exit()
	assert.False(t, m.InFunction())
}

func TestRegistryLookups(t *testing.T) {
	r := NewRegistry()
	r.Define(symbols.ClassInfo{Name: "Shape"})
	r.Define(symbols.ClassInfo{Name: "Circle", Base: "Shape"})

	assert.True(t, r.IsClass("Circle"))
	assert.False(t, r.IsClass("Square"))
	assert.True(t, r.IsBase("Shape"))
	assert.False(t, r.IsBase("Circle"))
	assert.Equal(t, []string{"Shape", "Circle"}, r.Names())

	info, ok := r.Lookup("Circle")
	require.True(t, ok)
	info.Base = "Mutated"
	fresh, _ := r.Lookup("Circle")
	assert.Equal(t, "Shape", fresh.Base, "lookup returns a copy")
}
