package export

import (
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

const modulePath = "github.com/KI7MT/ki7mt-gridaurora/"

// imports returns the import paths of the non-test Go files in dir.
func imports(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}

	var out []string
	fset := token.NewFileSet()
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			t.Fatal(err)
		}
		for _, imp := range f.Imports {
			p, err := strconv.Unquote(imp.Path.Value)
			if err != nil {
				t.Fatal(err)
			}
			out = append(out, p)
		}
	}
	return out
}

// The index tools are built with CGO_ENABLED=0, so nothing they reach may
// pull in the curve loaders or the HDF5 bindings.
func TestIndexToolsAvoidCurveLoaders(t *testing.T) {
	root := filepath.Join("..", "..")
	forbidden := map[string]bool{
		modulePath + "internal/optics": true,
		"gonum.org/v1/hdf5":            true,
		"C":                            true,
	}

	for _, start := range []string{
		"internal/export",
		"cmd/apf107",
		"cmd/solar-download",
		"cmd/solar-ingest",
		"cmd/solar-backfill",
	} {
		seen := map[string]bool{start: true}
		queue := []string{start}
		for len(queue) > 0 {
			dir := queue[0]
			queue = queue[1:]
			for _, imp := range imports(t, filepath.Join(root, dir)) {
				if forbidden[imp] {
					t.Errorf("%s reaches %s via %s", start, imp, dir)
				}
				rel, ok := strings.CutPrefix(imp, modulePath)
				if ok && !seen[rel] {
					seen[rel] = true
					queue = append(queue, rel)
				}
			}
		}
	}
}
