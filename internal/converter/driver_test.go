package converter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertAndWrite(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "sample.py")
	require.NoError(t, os.WriteFile(src, []byte("x = 5\nprint(x)\n"), 0o644))

	outDir := filepath.Join(dir, "out")
	outFile, result, err := ConvertAndWrite(src, outDir, DefaultOptions())
	require.NoError(t, err)
	assert.True(t, result.OK())
	assert.Equal(t, filepath.Join(outDir, "sample.pseudo"), outFile)

	written, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Equal(t, "x <- 5\nOUTPUT x\n", string(written))
}

func TestConvertFileRejectsWrongExtension(t *testing.T) {
	_, err := ConvertFile("program.txt", DefaultOptions())
	assert.Error(t, err)
}

func TestConvertAndWriteReportsErrors(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.py")
	require.NoError(t, os.WriteFile(src, []byte("import os\n"), 0o644))

	_, result, err := ConvertAndWrite(src, filepath.Join(dir, "out"), DefaultOptions())
	assert.Error(t, err)
	assert.False(t, result.OK())
}
