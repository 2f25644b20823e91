package loader

import (
	"go/ast"
	"go/parser"
	"go/token"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/expectgen/expectgen/union"
)

func parseFiles(t *testing.T, srcs ...string) (*token.FileSet, []*ast.File) {
	t.Helper()
	fset := token.NewFileSet()
	var files []*ast.File
	for i, src := range srcs {
		f, err := parser.ParseFile(fset, "src.go", src, parser.ParseComments)
		require.NoError(t, err, "source %d", i)
		files = append(files, f)
	}
	return fset, files
}

const fooSrc = `package foo

//expectgen:union
type Foo interface {
	isFoo()
}

//expectgen:panic
type Bar struct {
	A int
	B int
}

func (Bar) isFoo() {}

type Baz struct {
	V0 int
	V1 int
}

func (Baz) isFoo() {}

type Qux struct{}

func (Qux) isFoo() {}
`

func TestFromFilesBuildsSchema(t *testing.T) {
	fset, files := parseFiles(t, fooSrc)
	unions, err := FromFiles(fset, files, "foo")
	require.NoError(t, err)
	require.Len(t, unions, 1)

	u := unions[0]
	assert.Equal(t, "Foo", u.Name)
	assert.Equal(t, "foo", u.Package)
	require.Len(t, u.Variants, 3)

	bar := u.Variants[0]
	assert.Equal(t, "Bar", bar.Name)
	assert.Equal(t, union.Named, bar.Kind)
	assert.True(t, bar.Panics)
	require.Len(t, bar.Fields, 2)
	assert.Equal(t, union.Field{Name: "a", GoName: "A", Type: "int"}, bar.Fields[0])
	assert.Equal(t, union.Field{Name: "b", GoName: "B", Type: "int"}, bar.Fields[1])

	baz := u.Variants[1]
	assert.Equal(t, union.Positional, baz.Kind)
	assert.False(t, baz.Panics)
	assert.Equal(t, union.Field{Name: "value0", GoName: "V0", Type: "int"}, baz.Fields[0])
	assert.Equal(t, union.Field{Name: "value1", GoName: "V1", Type: "int"}, baz.Fields[1])

	qux := u.Variants[2]
	assert.Equal(t, union.Unit, qux.Kind)
	assert.Empty(t, qux.Fields)
}

func TestFromFilesIgnoresUnmarkedInterfaces(t *testing.T) {
	fset, files := parseFiles(t, `package p

type Plain interface {
	isPlain()
}

type A struct{}

func (A) isPlain() {}
`)
	unions, err := FromFiles(fset, files, "p")
	require.NoError(t, err)
	assert.Empty(t, unions)
}

func TestFromFilesRequiresMarkerMethod(t *testing.T) {
	fset, files := parseFiles(t, `package p

//expectgen:union
type Open interface {
	Exported()
}
`)
	_, err := FromFiles(fset, files, "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexported marker method")
}

func TestFromFilesRequiresVariants(t *testing.T) {
	fset, files := parseFiles(t, `package p

//expectgen:union
type Lonely interface {
	isLonely()
}
`)
	_, err := FromFiles(fset, files, "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a tagged union")
}

func TestFromFilesRejectsEmbeddedFields(t *testing.T) {
	fset, files := parseFiles(t, `package p

//expectgen:union
type U interface {
	isU()
}

type V struct {
	int
}

func (V) isU() {}
`)
	_, err := FromFiles(fset, files, "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "must be named")
}

func TestFromFilesOneBadUnionDoesNotMaskOthers(t *testing.T) {
	fset, files := parseFiles(t, `package p

//expectgen:union
type Bad interface {
	isBad()
}

//expectgen:union
type Good interface {
	isGood()
}

type G struct{}

func (G) isGood() {}
`)
	unions, err := FromFiles(fset, files, "p")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Bad")
	require.Len(t, unions, 1)
	assert.Equal(t, "Good", unions[0].Name)
}

func TestFromFilesVariantsAcrossFiles(t *testing.T) {
	fset, files := parseFiles(t, `package p

//expectgen:union
type U interface {
	isU()
}

type First struct{}

func (First) isU() {}
`, `package p

type Second struct{}

func (*Second) isU() {}
`)
	unions, err := FromFiles(fset, files, "p")
	require.NoError(t, err)
	require.Len(t, unions, 1)
	require.Len(t, unions[0].Variants, 2)
	// Declaration order is preserved across files, and pointer receivers
	// count as declaring the marker.
	assert.Equal(t, "First", unions[0].Variants[0].Name)
	assert.Equal(t, "Second", unions[0].Variants[1].Name)
}

func TestFromFilesGroupedDeclsAndFieldNaming(t *testing.T) {
	fset, files := parseFiles(t, `package p

type (
	//expectgen:union
	Resp interface {
		isResp()
	}
)

type Redirect struct {
	URL      string
	URLPath  string
	Max, Min int
}

func (Redirect) isResp() {}

type Done struct{}

func (Done) isResp() {}
`)
	unions, err := FromFiles(fset, files, "p")
	require.NoError(t, err)
	require.Len(t, unions, 1)

	r := unions[0].Variants[0]
	require.Len(t, r.Fields, 4)
	// Initialisms fold whole, even leading ones; shared type declarations
	// expand per name.
	assert.Equal(t, union.Field{Name: "url", GoName: "URL", Type: "string"}, r.Fields[0])
	assert.Equal(t, union.Field{Name: "urlPath", GoName: "URLPath", Type: "string"}, r.Fields[1])
	assert.Equal(t, union.Field{Name: "max", GoName: "Max", Type: "int"}, r.Fields[2])
	assert.Equal(t, union.Field{Name: "min", GoName: "Min", Type: "int"}, r.Fields[3])
}
