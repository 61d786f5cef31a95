package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/tools/imports"
)

// output is a rendered file waiting to be written.
type output struct {
	path string
	data []byte
}

var formatOptions = &imports.Options{
	Comments:   true,
	TabIndent:  true,
	TabWidth:   8,
	FormatOnly: true,
}

// renderGo renders the file returned by gen to name, relative to the
// output directory. A nil file is skipped.
func (g *JenniferGenerator) renderGo(name string, gen func() *jen.File) (err error) {
	defer func() {
		// Jennifer panics on malformed code trees.
		if r := recover(); r != nil {
			err = NewGenerationError(g.printer.Name(), name, fmt.Sprint(r), nil)
		}
	}()
	f := gen()
	if f == nil {
		return nil
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return NewGenerationError(g.printer.Name(), name, "render", err)
	}
	full := filepath.Join(g.outDir, filepath.FromSlash(name))
	formatted, err := imports.Process(full, buf.Bytes(), formatOptions)
	if err != nil {
		return NewGenerationError(g.printer.Name(), name, "format", err)
	}
	g.mu.Lock()
	g.files = append(g.files, output{path: full, data: formatted})
	g.mu.Unlock()
	return nil
}

// writeAll writes every output in path order and returns the number of
// bytes written.
func writeAll(files []output) (int64, error) {
	slices.SortFunc(files, func(a, b output) int { return strings.Compare(a.path, b.path) })
	var n int64
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return n, fmt.Errorf("create directory for %s: %w", f.path, err)
		}
		if err := os.WriteFile(f.path, f.data, 0o644); err != nil {
			return n, fmt.Errorf("write %s: %w", f.path, err)
		}
		n += int64(len(f.data))
	}
	return n, nil
}
