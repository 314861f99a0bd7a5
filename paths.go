package protex

import (
	"os"
	"path/filepath"
	"strings"
)

// ResolveOutputPath determines where the document of a run is written.
//
// An empty output or "-" means standard output and resolves to "". A directory
// receives a file named after the first input, or "protex" when reading standard
// input, with the extension of the output format.
func ResolveOutputPath(output string, firstInput string, ext string) string {
	if output == "" || output == StdinName {
		return ""
	}

	info, err := os.Stat(output)
	if err != nil || !info.IsDir() {
		return output
	}

	stem := "protex"
	if firstInput != "" && firstInput != StdinName {
		base := filepath.Base(firstInput)
		stem = strings.TrimSuffix(base, filepath.Ext(base))
	}
	return filepath.Join(output, stem+ext)
}

func MustAbs(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		panic(err)
	}
	return abs
}
