package expectgen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func testFile(path, contents string) File {
	return File{RelativePath: path, Data: []byte(contents), From: []string{"test"}}
}

func TestFSAddConflicts(t *testing.T) {
	is := is.New(t)

	fs := NewFS()
	is.NoErr(fs.Add(testFile("a/one.go", "one")))

	err := fs.Add(File{RelativePath: "a/one.go", Data: []byte("two"), From: []string{"other"}})
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "already created"))

	// The conflicting add must not clobber the original entry.
	is.Equal(string(fs.AsFiles()[0].Data), "one")
}

func TestFSAddRejectsInvalid(t *testing.T) {
	is := is.New(t)

	fs := NewFS()
	is.True(fs.Add(File{RelativePath: "/abs/path.go", Data: nil, From: []string{"test"}}) != nil)
	is.True(fs.Add(File{Data: []byte("x"), From: []string{"test"}}) != nil)
	is.True(fs.Add(File{RelativePath: "no-owner.go", Data: []byte("x")}) != nil)
	is.Equal(fs.Len(), 0)
}

func TestFSMerge(t *testing.T) {
	is := is.New(t)

	a := NewFS()
	is.NoErr(a.Add(testFile("one.go", "one")))
	b := NewFS()
	is.NoErr(b.Add(testFile("two.go", "two")))

	is.NoErr(a.Merge(b))
	is.Equal(a.Len(), 2)

	// Merging a path conflict fails.
	c := NewFS()
	is.NoErr(c.Add(testFile("one.go", "other")))
	is.True(a.Merge(c) != nil)
}

func TestFSAsFilesSorted(t *testing.T) {
	is := is.New(t)

	fs := NewFS()
	is.NoErr(fs.Add(testFile("b.go", "b"), testFile("a.go", "a"), testFile("c/d.go", "d")))

	var paths []string
	for _, f := range fs.AsFiles() {
		paths = append(paths, f.RelativePath)
	}
	is.Equal(paths, []string{"a.go", "b.go", "c/d.go"})
}

func TestFSWriteAndVerify(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	dir := t.TempDir()

	fs := NewFS()
	is.NoErr(fs.Add(testFile("gen/out.go", "package gen\n")))
	is.NoErr(fs.Write(ctx, dir))

	onDisk, err := os.ReadFile(filepath.Join(dir, "gen/out.go"))
	is.NoErr(err)
	is.Equal(string(onDisk), "package gen\n")

	// Freshly written contents verify clean.
	is.NoErr(fs.Verify(ctx, dir))
}

func TestFSVerifyReportsDrift(t *testing.T) {
	is := is.New(t)
	ctx := context.Background()
	dir := t.TempDir()

	fs := NewFS()
	is.NoErr(fs.Add(testFile("out.go", "package gen\n"), testFile("missing.go", "package gen\n")))
	is.NoErr(os.WriteFile(filepath.Join(dir, "out.go"), []byte("package stale\n"), 0644))

	err := fs.Verify(ctx, dir)
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "would have changed"))
	is.True(strings.Contains(err.Error(), "should exist, but does not"))
}

func TestFilesValidate(t *testing.T) {
	is := is.New(t)

	fl := Files{testFile("a.go", "a"), testFile("a.go", "b")}
	err := fl.Validate()
	is.True(err != nil)
	is.True(strings.Contains(err.Error(), "produced by both"))

	is.NoErr(Files{testFile("a.go", "a"), testFile("b.go", "b")}.Validate())
}
