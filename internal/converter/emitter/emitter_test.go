package emitter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pseudoc/internal/converter/diag"
	"pseudoc/internal/converter/ir"
)

func emit(t *testing.T, root *ir.Node, opts Options) (string, *diag.List) {
	t.Helper()
	diags := diag.NewList(0)
	return New(opts, diags).Emit(root), diags
}

func conditional() *ir.Node {
	root := ir.New(ir.KindBlock, "")
	head := ir.New(ir.KindIf, "x > 5")
	head.Add(ir.New(ir.KindStatement, `OUTPUT "big"`))
	alt := ir.New(ir.KindElse, "")
	alt.Add(ir.New(ir.KindStatement, `OUTPUT "small"`))
	root.Add(head, alt, ir.New(ir.KindEndIf, ""))
	return root
}

func TestConditionalLayout(t *testing.T) {
	out, diags := emit(t, conditional(), DefaultOptions())
	require.False(t, diags.HasErrors())

	assert.Equal(t, `IF x > 5 THEN
    OUTPUT "big"
ELSE
    OUTPUT "small"
ENDIF
`, out)
}

func TestDerivedClosers(t *testing.T) {
	root := ir.New(ir.KindBlock, "")

	loop := ir.New(ir.KindFor, "FOR i <- 1 TO 3")
	loop.Meta = &ir.Meta{Name: "i"}
	loop.Add(ir.New(ir.KindAssign, "x <- i"))

	fn := ir.New(ir.KindFunction, "FUNCTION f() RETURNS INTEGER")
	fn.Add(ir.New(ir.KindReturn, "RETURN 1"))

	root.Add(loop, fn)
	out, _ := emit(t, root, DefaultOptions())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "NEXT i", lines[2])
	assert.Equal(t, "ENDFUNCTION", lines[5])
}

func TestLineNumbers(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeLineNumbers = true

	out, _ := emit(t, conditional(), opts)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "1  "), "first line numbered: %q", lines[0])
	assert.True(t, strings.HasPrefix(lines[4], "5  "), "last line numbered: %q", lines[4])
}

func TestLowercaseKeywordsPreservesIdentifiersAndStrings(t *testing.T) {
	opts := DefaultOptions()
	opts.UppercaseKeywords = false

	root := ir.New(ir.KindBlock, "")
	root.Add(ir.New(ir.KindStatement, `OUTPUT "SAY IF LOUD", Total MOD 2`))
	out, _ := emit(t, root, opts)

	assert.Equal(t, `output "SAY IF LOUD", Total mod 2`+"\n", out)
}

func TestSpacingOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.SpaceAroundOperators = false
	opts.SpaceAfterComma = false

	root := ir.New(ir.KindBlock, "")
	root.Add(ir.New(ir.KindAssign, `x <- a + b`))
	root.Add(ir.New(ir.KindStatement, `OUTPUT "a, b", x`))
	out, _ := emit(t, root, opts)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Equal(t, "x<-a+b", lines[0])
	assert.Equal(t, `OUTPUT "a, b",x`, lines[1], "the string literal keeps its comma spacing")
}

func TestDocumentationFormat(t *testing.T) {
	opts := DefaultOptions()
	opts.Format = FormatDocumentation

	root := ir.New(ir.KindBlock, "")
	root.Add(ir.New(ir.KindAssign, "x <- 5"))
	out, _ := emit(t, root, opts)

	assert.True(t, strings.HasPrefix(out, "# Pseudocode\n\n```pseudocode\n"))
	assert.True(t, strings.HasSuffix(out, "```\n"))
	assert.Contains(t, out, "x <- 5\n")
}

func TestCommentsSuppressedAndCoalesced(t *testing.T) {
	root := ir.New(ir.KindBlock, "")
	root.Add(
		ir.New(ir.KindComment, "setup"),
		ir.New(ir.KindComment, "setup"),
		ir.New(ir.KindAssign, "x <- 1"),
	)

	out, _ := emit(t, root, DefaultOptions())
	assert.Equal(t, 1, strings.Count(out, "// setup"), "duplicate run collapses")

	opts := DefaultOptions()
	opts.IncludeComments = false
	out, _ = emit(t, root, opts)
	assert.NotContains(t, out, "setup")
}

func TestMaxLineLengthWarning(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxLineLength = 10

	root := ir.New(ir.KindBlock, "")
	root.Add(ir.New(ir.KindAssign, "total <- first + second"))
	_, diags := emit(t, root, opts)

	assert.False(t, diags.HasErrors())
	assert.NotEmpty(t, diags.Warnings())
}

func TestEmitIsIdempotent(t *testing.T) {
	first, _ := emit(t, conditional(), DefaultOptions())
	second, _ := emit(t, conditional(), DefaultOptions())
	assert.Equal(t, first, second)
}
