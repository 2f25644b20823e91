package expectgen

import (
	"fmt"
	"go/format"
	"strings"
)

// GoFmt is a FileMapper that reformats Go output with gofmt rules. The
// extractor jenny already renders through go/format, so this mostly matters
// for pipelines that bolt on hand-assembled files, but running it
// unconditionally keeps the write and verify paths byte-stable.
func GoFmt(f File) (File, error) {
	if !strings.HasSuffix(f.RelativePath, ".go") {
		return f, nil
	}
	out, err := format.Source(f.Data)
	if err != nil {
		return f, fmt.Errorf("gofmt: %w", err)
	}
	f.Data = out
	return f, nil
}
