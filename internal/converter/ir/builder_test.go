package ir

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pseudoc/internal/converter/diag"
	"pseudoc/internal/converter/parser"
	"pseudoc/internal/converter/types"
)

func buildSource(t *testing.T, source string) (*Node, *diag.List) {
	t.Helper()
	diags := diag.NewList(0)
	p := parser.NewParser(source, 4, diags)
	mod := p.ParseModule()
	b := NewBuilder(Config{IncludeComments: true}, diags)
	return b.Build(mod), diags
}

// flatten expands compound wrappers so tests see the sibling sequence the
// renderer will see.
func flatten(n *Node) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == KindCompound {
			out = append(out, flatten(c)...)
		} else {
			out = append(out, c)
		}
	}
	return out
}

func texts(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Text
	}
	return out
}

func TestSimpleAssignment(t *testing.T) {
	root, diags := buildSource(t, "x = 5\n")
	require.False(t, diags.HasErrors())

	nodes := flatten(root)
	require.Len(t, nodes, 1)
	assert.Equal(t, KindAssign, nodes[0].Kind)
	assert.Equal(t, "x <- 5", nodes[0].Text)
	require.NotNil(t, nodes[0].Meta)
	assert.Equal(t, types.Integer, nodes[0].Meta.DataType)
}

func TestArrayLiteralLowering(t *testing.T) {
	root, diags := buildSource(t, "numbers = [1, 2, 3]\n")
	require.False(t, diags.HasErrors())

	nodes := flatten(root)
	require.Len(t, nodes, 4)
	assert.Equal(t, KindArrayLiteral, nodes[0].Kind)
	assert.Equal(t, "DECLARE numbers : ARRAY[1:3] OF INTEGER", nodes[0].Text)
	assert.Equal(t, []string{
		"numbers[1] <- 1",
		"numbers[2] <- 2",
		"numbers[3] <- 3",
	}, texts(nodes[1:]))
}

func TestIndexRebasing(t *testing.T) {
	root, diags := buildSource(t, "values = [10, 20]\nvalues[0] = 99\nk = 1\nvalues[k] = 5\n")
	require.False(t, diags.HasErrors())

	nodes := flatten(root)
	last := nodes[len(nodes)-1]
	assert.Equal(t, "values[k + 1] <- 5", last.Text, "symbolic index gets + 1")
	assert.Equal(t, "values[1] <- 99", nodes[3].Text, "literal index folds")
}

func TestRangeLoopBounds(t *testing.T) {
	root, diags := buildSource(t, "for i in range(5):\n    x = i\n")
	require.False(t, diags.HasErrors())

	nodes := flatten(root)
	require.Len(t, nodes, 1)
	loop := nodes[0]
	assert.Equal(t, KindFor, loop.Kind)
	assert.Equal(t, "FOR i <- 0 TO 4", loop.Text)
	require.NotNil(t, loop.Meta)
	assert.Equal(t, "i", loop.Meta.Name)
}

func TestRangeLoopWithStep(t *testing.T) {
	root, diags := buildSource(t, "for i in range(2, 10, 2):\n    x = i\n")
	require.False(t, diags.HasErrors())

	loop := flatten(root)[0]
	assert.Equal(t, "FOR i <- 2 TO 8 STEP 2", loop.Text,
		"end bound is the last value the loop actually reaches")
}

func TestSequenceLoopRewrite(t *testing.T) {
	source := "marks = [72, 55]\ntotal = 0\nfor mark in marks:\n    total = total + mark\n"
	root, diags := buildSource(t, source)
	require.False(t, diags.HasErrors())

	nodes := flatten(root)
	loop := nodes[len(nodes)-1]
	require.Equal(t, KindFor, loop.Kind)
	assert.Equal(t, "FOR i <- 1 TO 2", loop.Text, "bound comes from the recorded array size")

	body := flatten(loop)
	require.Len(t, body, 1)
	assert.Equal(t, "total <- total + marks[i]", body[0].Text,
		"loop variable references become indexed element references")
}

func TestElifChainFlattens(t *testing.T) {
	source := `if x > 10:
    y = 1
elif x > 5:
    y = 2
else:
    y = 3
`
	root, _ := buildSource(t, source)

	kinds := []Kind{}
	for _, n := range flatten(root) {
		kinds = append(kinds, n.Kind)
	}
	assert.Equal(t, []Kind{KindIf, KindElseIf, KindElse, KindEndIf}, kinds,
		"the nested chain re-flattens into one sibling sequence")
}

func TestWhileTrueBecomesRepeat(t *testing.T) {
	source := "while True:\n    x = 1\n    break\n"
	root, diags := buildSource(t, source)
	require.False(t, diags.HasErrors())

	nodes := flatten(root)
	require.Len(t, nodes, 2)
	assert.Equal(t, KindRepeat, nodes[0].Kind)
	assert.Equal(t, KindUntil, nodes[1].Kind)
	assert.Equal(t, "FALSE", nodes[1].Text)

	body := flatten(nodes[0])
	assert.Equal(t, "EXIT LOOP", body[1].Text)
}

func TestFunctionVersusProcedure(t *testing.T) {
	source := `def double(n):
    return n * 2

def show(msg):
    print(msg)
`
	root, diags := buildSource(t, source)
	require.False(t, diags.HasErrors())

	nodes := flatten(root)
	require.Len(t, nodes, 2)
	assert.Equal(t, KindFunction, nodes[0].Kind)
	assert.Equal(t, "FUNCTION double(n : INTEGER) RETURNS INTEGER", nodes[0].Text)
	assert.Equal(t, KindProcedure, nodes[1].Kind)
	assert.Equal(t, "PROCEDURE show(msg : INTEGER)", nodes[1].Text)
}

func TestInputLowering(t *testing.T) {
	root, diags := buildSource(t, `age = int(input("Enter age: "))`+"\n")
	require.False(t, diags.HasErrors())

	nodes := flatten(root)
	require.Len(t, nodes, 2)
	assert.Equal(t, `OUTPUT "Enter age: "`, nodes[0].Text)
	assert.Equal(t, "INPUT age", nodes[1].Text)
	require.NotNil(t, nodes[1].Meta)
	assert.Equal(t, types.Integer, nodes[1].Meta.DataType)
}

func TestPlainClassBecomesRecord(t *testing.T) {
	source := `class Point:
    def __init__(self, x, y):
        self.x = x
        self.y = y

p = Point(1, 2)
`
	root, diags := buildSource(t, source)
	require.False(t, diags.HasErrors())

	nodes := flatten(root)
	typeNode := nodes[0]
	require.Equal(t, KindType, typeNode.Kind)
	assert.Equal(t, "TYPE Point", typeNode.Text)
	assert.Equal(t, []string{
		"DECLARE x : INTEGER",
		"DECLARE y : INTEGER",
	}, texts(typeNode.Children))

	assert.Equal(t, []string{
		"DECLARE p : Point",
		"p.x <- 1",
		"p.y <- 2",
	}, texts(nodes[1:]), "instantiation becomes a declaration plus field assigns")
}

func TestClassWithMethodsStaysClass(t *testing.T) {
	source := `class Counter:
    def __init__(self, start):
        self.value = start

    def bump(self):
        self.value = self.value + 1
`
	root, diags := buildSource(t, source)
	require.False(t, diags.HasErrors())

	cls := flatten(root)[0]
	require.Equal(t, KindClass, cls.Kind)
	assert.Equal(t, "CLASS Counter", cls.Text)

	var kinds []Kind
	for _, c := range cls.Children {
		kinds = append(kinds, c.Kind)
	}
	assert.Contains(t, kinds, KindProcedure, "constructor and method render as procedures")
	assert.Equal(t, "PRIVATE value : INTEGER", cls.Children[0].Text)
}

func TestFStringDecomposition(t *testing.T) {
	source := "total = 3\nprint(f\"Total: {total}\")\n"
	root, diags := buildSource(t, source)
	require.False(t, diags.HasErrors())

	nodes := flatten(root)
	assert.Equal(t, `OUTPUT "Total: " & STR(total)`, nodes[1].Text)
}

func TestContinueWarnsButKeepsGoing(t *testing.T) {
	source := "for i in range(3):\n    continue\n"
	root, diags := buildSource(t, source)

	assert.False(t, diags.HasErrors())
	assert.NotEmpty(t, diags.Warnings())

	loop := flatten(root)[0]
	body := flatten(loop)
	require.Len(t, body, 1)
	assert.Equal(t, KindComment, body[0].Kind)
}

func TestReturnTypeFromLocalVariable(t *testing.T) {
	source := `def double(n):
    result = n * 2
    return result

def average(total, count):
    avg = total / count
    return avg
`
	root, diags := buildSource(t, source)
	require.False(t, diags.HasErrors())

	nodes := flatten(root)
	require.Len(t, nodes, 2)
	assert.Equal(t, "FUNCTION double(n : INTEGER) RETURNS INTEGER", nodes[0].Text,
		"a returned local infers from its assignment, not the name fallback")
	assert.Equal(t, "FUNCTION average(total : INTEGER, count : INTEGER) RETURNS REAL", nodes[1].Text)
}

func TestDocstringBecomesComment(t *testing.T) {
	source := "def area(w, h):\n    \"\"\"Calculate the area of a rectangle\"\"\"\n    return w * h\n"
	root, diags := buildSource(t, source)
	require.False(t, diags.HasErrors())

	fn := flatten(root)[0]
	require.NotEmpty(t, fn.Children)
	assert.Equal(t, KindComment, fn.Children[0].Kind)
	assert.Equal(t, "Calculate the area of a rectangle", fn.Children[0].Text)
}

func TestDeepConditionalNestingDiagnostic(t *testing.T) {
	var sb strings.Builder
	for i := 0; i < 12; i++ {
		sb.WriteString(strings.Repeat("    ", i))
		sb.WriteString("if x > 0:\n")
	}
	sb.WriteString(strings.Repeat("    ", 12))
	sb.WriteString("y = 1\n")

	diags := diag.NewList(0)
	p := parser.NewParser(sb.String(), 4, diags)
	b := NewBuilder(Config{MaxNestingDepth: 8}, diags)
	b.Build(p.ParseModule())

	errs := diags.Errors()
	require.Len(t, errs, 1, "the limit is reported once, not per extra level")
	assert.Contains(t, errs[0].Message, "nesting depth")
}

func TestReturnOutsideFunction(t *testing.T) {
	root, diags := buildSource(t, "return 5\n")

	require.True(t, diags.HasErrors())
	assert.Contains(t, diags.Errors()[0].Message, "return outside a function")
	assert.Equal(t, KindComment, flatten(root)[0].Kind)
}

func TestUnknownAnnotationWarningCarriesLine(t *testing.T) {
	_, diags := buildSource(t, "x = 1\n\ndef f(n: banana):\n    return n\n")

	warnings := diags.Warnings()
	require.NotEmpty(t, warnings)
	assert.Contains(t, warnings[0].Message, "unknown annotation")
	assert.Equal(t, 3, warnings[0].Line)
}
