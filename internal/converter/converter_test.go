package converter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func convertPlain(t *testing.T, source string) ConvertResult {
	t.Helper()
	return Convert(source, DefaultOptions())
}

func outputLines(code string) []string {
	return strings.Split(strings.TrimRight(code, "\n"), "\n")
}

func TestConvertSingleAssignment(t *testing.T) {
	result := convertPlain(t, "x = 5\n")
	require.True(t, result.OK(), "errors: %v", result.Errors)

	lines := outputLines(result.Code)
	require.Len(t, lines, 1)
	assert.Equal(t, "x <- 5", lines[0])
}

func TestConvertConditional(t *testing.T) {
	source := `if score >= 50:
    print("Pass")
else:
    print("Fail")
`
	result := convertPlain(t, source)
	require.True(t, result.OK(), "errors: %v", result.Errors)

	assert.Equal(t, `IF score >= 50 THEN
    OUTPUT "Pass"
ELSE
    OUTPUT "Fail"
ENDIF
`, result.Code)
}

func TestConvertRangeLoop(t *testing.T) {
	source := "for i in range(5):\n    print(i)\n"
	result := convertPlain(t, source)
	require.True(t, result.OK(), "errors: %v", result.Errors)

	assert.Equal(t, "FOR i <- 0 TO 4\n    OUTPUT i\nNEXT i\n", result.Code)
}

func TestConvertArrayLiteral(t *testing.T) {
	result := convertPlain(t, "numbers = [1, 2, 3]\n")
	require.True(t, result.OK(), "errors: %v", result.Errors)

	assert.Equal(t, `DECLARE numbers : ARRAY[1:3] OF INTEGER
numbers[1] <- 1
numbers[2] <- 2
numbers[3] <- 3
`, result.Code)
}

func TestConvertFunction(t *testing.T) {
	source := "def double(n):\n    return n * 2\n"
	result := convertPlain(t, source)
	require.True(t, result.OK(), "errors: %v", result.Errors)

	assert.Equal(t, `FUNCTION double(n : INTEGER) RETURNS INTEGER
    RETURN n * 2
ENDFUNCTION
`, result.Code)
}

func TestConvertUnknownLineIsSafe(t *testing.T) {
	source := "x = 5\nimport os\ny = x + 1\n"
	result := convertPlain(t, source)

	assert.False(t, result.OK(), "the unknown line is reported")
	assert.Contains(t, result.Code, "x <- 5")
	assert.Contains(t, result.Code, "y <- x + 1", "conversion continues past the bad line")
	assert.Contains(t, result.Code, "// unsupported: import os")
}

func TestConvertIsIdempotent(t *testing.T) {
	source := "total = 0\nfor i in range(3):\n    total += i\nprint(total)\n"

	first := Convert(source, DefaultOptions())
	second := Convert(source, DefaultOptions())
	assert.Equal(t, first.Code, second.Code)

	rendered := Render(first.IR, DefaultRenderOptions())
	assert.Equal(t, first.Code, rendered.Code, "re-rendering the same tree changes nothing")
}

func TestParseNeverPanics(t *testing.T) {
	// torture inputs: truncated blocks, stray indentation, unterminated
	// strings, lone operators
	sources := []string{
		"",
		"   ",
		"if x:",
		"def f(:\n    pass\n",
		"x = \"unterminated\n",
		"((((\n",
		")= =(\n",
		"for in in in:\n    pass\n",
	}
	for _, src := range sources {
		result := Parse(src, DefaultParseOptions())
		require.NotNil(t, result.IR, "source %q", src)
	}
}

func TestParseStats(t *testing.T) {
	source := `def area(w, h):
    return w * h

x = area(3, 4)
`
	result := Parse(source, DefaultParseOptions())
	require.True(t, result.OK(), "errors: %v", result.Errors)

	assert.Equal(t, 4, result.Stats.SourceLines)
	assert.Equal(t, 1, result.Stats.Functions)
	assert.Equal(t, 0, result.Stats.Classes)
	assert.GreaterOrEqual(t, result.Stats.Variables, 3, "w, h and x are all registered")
	assert.Greater(t, result.Stats.Nodes, 1)
}

func TestMaxErrorsCap(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 30; i++ {
		b.WriteString("import os\n")
	}

	opts := DefaultParseOptions()
	opts.MaxErrors = 5
	result := Parse(b.String(), opts)

	assert.LessOrEqual(t, len(result.Errors), 6, "capped at maxErrors plus the truncation notice")
}

func TestStrictTypesFlag(t *testing.T) {
	source := "y = mystery + 1\n"

	relaxed := Parse(source, DefaultParseOptions())
	assert.True(t, relaxed.OK(), "relaxed mode guesses instead of failing")

	opts := DefaultParseOptions()
	opts.StrictTypes = true
	strict := Parse(source, opts)
	assert.False(t, strict.OK(), "strict mode reports the unresolved name")
}

func TestConvertDocstringFunction(t *testing.T) {
	source := `def calculate_area(width, height):
    """Calculate the area of a rectangle"""
    area = width * height
    return area
`
	result := convertPlain(t, source)
	require.True(t, result.OK(), "errors: %v", result.Errors)

	assert.Equal(t, `FUNCTION calculate_area(width : INTEGER, height : INTEGER) RETURNS INTEGER
    // Calculate the area of a rectangle
    area <- width * height
    RETURN area
ENDFUNCTION
`, result.Code)
}
