package converter

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputExt is the extension given to generated pseudocode files.
const OutputExt = ".pseudo"

// ConvertFile reads and converts one source file.
func ConvertFile(srcPath string, opts Options) (ConvertResult, error) {
	if err := validateExtension(srcPath); err != nil {
		return ConvertResult{}, err
	}

	content, err := os.ReadFile(srcPath)
	if err != nil {
		return ConvertResult{}, fmt.Errorf("reading %s: %w", srcPath, err)
	}

	return Convert(string(content), opts), nil
}

// ConvertAndWrite converts srcPath and writes the pseudocode next to it in
// outDir, returning the output path. Conversion errors are reported through
// the returned error; warnings stay in the result for the caller to surface.
func ConvertAndWrite(srcPath, outDir string, opts Options) (string, ConvertResult, error) {
	result, err := ConvertFile(srcPath, opts)
	if err != nil {
		return "", result, err
	}
	if !result.OK() {
		return "", result, fmt.Errorf("%s: %d conversion errors", srcPath, len(result.Errors))
	}

	outFile, err := writeOutput(result.Code, srcPath, outDir)
	if err != nil {
		return "", result, err
	}
	return outFile, result, nil
}

func validateExtension(path string) error {
	if filepath.Ext(path) != ".py" {
		return fmt.Errorf("source must have .py extension")
	}
	return nil
}

func writeOutput(code, srcPath, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	base := strings.TrimSuffix(filepath.Base(srcPath), ".py")
	outFile := filepath.Join(outDir, base+OutputExt)
	return outFile, os.WriteFile(outFile, []byte(code), 0o644)
}
