// Package expectgen generates per-variant extractor functions for Go
// tagged-union types.
//
// The input is a [union.Type] describing a sealed interface and its variant
// structs. For every variant, the generator emits an Expect<Variant>
// function that checks a union value is that variant holding exactly the
// caller-supplied field values, and hands the values back: through an
// [expect.Option] normally, or directly (panicking on mismatch) for
// panic-marked variants. All of a union's extractors land in a single
// generated file.
//
// Generation is batch-oriented in the way go generate expects: a [Pipeline]
// runs jennies over union descriptions and collects their output in an [FS],
// which can then write the results to disk, or verify in CI that what is on
// disk is already up to date.
package expectgen

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// File is a single generated file.
type File struct {
	// The relative path to which the generated file should be written.
	RelativePath string

	// Contents of the generated file.
	Data []byte

	// From names the jennies responsible for producing this File, in
	// order of involvement.
	From []string
}

// NewFile creates a File with the provided path, contents and provenance.
func NewFile(path string, data []byte, from ...string) *File {
	return &File{
		RelativePath: path,
		Data:         data,
		From:         from,
	}
}

// Exists reports whether the File represents actual output. The zero File
// means a jenny had nothing to do for its input.
func (f File) Exists() bool {
	return f.RelativePath != ""
}

// Owner renders the File's jenny provenance as a single string.
func (f File) Owner() string {
	return strings.Join(f.From, ":")
}

// Validate checks that the File has a relative path and some provenance.
func (f File) Validate() error {
	var result *multierror.Error
	if f.RelativePath == "" {
		result = multierror.Append(result, fmt.Errorf("file has empty path"))
	} else if filepath.IsAbs(f.RelativePath) {
		result = multierror.Append(result, fmt.Errorf("%s: generated file paths must be relative", f.RelativePath))
	}
	if len(f.From) == 0 {
		result = multierror.Append(result, fmt.Errorf("%s: file does not name the jenny that produced it", f.RelativePath))
	}
	return result.ErrorOrNil()
}

// Files is a set of generated files, ordered as produced.
type Files []File

// Validate checks every File in the set, and that no two Files share a path.
func (fl Files) Validate() error {
	var result *multierror.Error
	seen := make(map[string]string, len(fl))
	for _, f := range fl {
		result = multierror.Append(result, f.Validate())
		if owner, has := seen[f.RelativePath]; has {
			result = multierror.Append(result, fmt.Errorf("%s: produced by both %q and %q", f.RelativePath, owner, f.Owner()))
		}
		seen[f.RelativePath] = f.Owner()
	}
	return result.ErrorOrNil()
}

// A FileMapper takes a File and transforms it into a new File. Pipelines run
// them as postprocessors over every generated File.
type FileMapper func(File) (File, error)
