// Package loader extracts tagged-union descriptions from Go source.
//
// A union is declared by putting the //expectgen:union directive on a
// package-level interface type that carries one unexported marker method.
// Its variants are the package's struct types declaring that marker method,
// taken in declaration order. A variant struct carrying the
// //expectgen:panic directive gets the fatal extractor form.
//
//	//expectgen:union
//	type Shape interface{ isShape() }
//
//	//expectgen:panic
//	type Circle struct{ Radius float64 }
//
//	func (Circle) isShape() {}
//
// Variant structs whose fields are named exactly V0..Vn-1 are treated as
// positional; extractor parameters for them are synthesized as value0,
// value1, and so on. Empty structs are unit variants.
package loader

import (
	"bytes"
	"context"
	"fmt"
	"go/ast"
	"go/printer"
	"go/token"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"

	"github.com/expectgen/expectgen/union"
)

const (
	unionDirective = "expectgen:union"
	panicDirective = "expectgen:panic"
)

// Package is what Load found in one Go package: the unions declared there
// and the directory generated files belong in.
type Package struct {
	Name   string
	Dir    string
	Unions []*union.Type
}

// Loader finds union declarations in Go packages.
type Loader struct {
	log *zap.SugaredLogger
}

// Option configures a Loader.
type Option func(*Loader)

// WithLogger routes the Loader's debug output through log.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(l *Loader) {
		l.log = log
	}
}

// New creates a Loader. Without options it is silent.
func New(opts ...Option) *Loader {
	l := &Loader{log: zap.NewNop().Sugar()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load loads the Go packages named by patterns and extracts every declared
// union. Packages without union directives are skipped silently; packages
// with malformed declarations contribute errors without masking the others.
func (l *Loader) Load(ctx context.Context, patterns ...string) ([]*Package, error) {
	cfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedCompiledGoFiles,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}

	var out []*Package
	var result *multierror.Error
	for _, pkg := range pkgs {
		for _, perr := range pkg.Errors {
			result = multierror.Append(result, fmt.Errorf("%s: %s", pkg.PkgPath, perr.Msg))
		}
		if len(pkg.Syntax) == 0 {
			continue
		}

		unions, err := FromFiles(pkg.Fset, pkg.Syntax, pkg.Name)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("%s: %w", pkg.PkgPath, err))
			continue
		}
		if len(unions) == 0 {
			continue
		}

		dir := filepath.Dir(pkg.Fset.Position(pkg.Syntax[0].Pos()).Filename)
		l.log.Debugw("found unions", "package", pkg.PkgPath, "dir", dir, "count", len(unions))
		out = append(out, &Package{Name: pkg.Name, Dir: dir, Unions: unions})
	}

	return out, result.ErrorOrNil()
}

// FromFiles scans already-parsed files belonging to one package and builds a
// schema for every union directive found, in declaration order. It is purely
// syntactic: no type checking is performed, so "implements the marker
// method" means "declares a method of that name with a struct receiver".
func FromFiles(fset *token.FileSet, files []*ast.File, pkgName string) ([]*union.Type, error) {
	sc := scan(fset, files)

	var unions []*union.Type
	var result *multierror.Error
	for _, decl := range sc.unions {
		u, err := sc.build(decl, pkgName)
		if err != nil {
			// One malformed union must not take the others down with it.
			result = multierror.Append(result, err)
			continue
		}
		unions = append(unions, u)
	}

	return unions, result.ErrorOrNil()
}

type unionDecl struct {
	name   string
	iface  *ast.InterfaceType
	pos    token.Pos
	marker string
}

type structDecl struct {
	name   string
	st     *ast.StructType
	pos    token.Pos
	panics bool
}

type scanner struct {
	fset    *token.FileSet
	unions  []*unionDecl
	structs map[string]*structDecl
	// methods maps method name to the receiver struct names declaring it.
	methods map[string][]string
}

func scan(fset *token.FileSet, files []*ast.File) *scanner {
	sc := &scanner{
		fset:    fset,
		structs: make(map[string]*structDecl),
		methods: make(map[string][]string),
	}

	for _, f := range files {
		for _, decl := range f.Decls {
			switch d := decl.(type) {
			case *ast.GenDecl:
				if d.Tok != token.TYPE {
					continue
				}
				for _, spec := range d.Specs {
					ts, ok := spec.(*ast.TypeSpec)
					if !ok {
						continue
					}
					doc := ts.Doc
					if doc == nil {
						doc = d.Doc
					}
					sc.addType(ts, doc)
				}
			case *ast.FuncDecl:
				if d.Recv == nil || len(d.Recv.List) != 1 {
					continue
				}
				if recv := receiverTypeName(d.Recv.List[0].Type); recv != "" {
					sc.methods[d.Name.Name] = append(sc.methods[d.Name.Name], recv)
				}
			}
		}
	}

	sort.Slice(sc.unions, func(i, j int) bool { return sc.unions[i].pos < sc.unions[j].pos })
	return sc
}

func (sc *scanner) addType(ts *ast.TypeSpec, doc *ast.CommentGroup) {
	switch t := ts.Type.(type) {
	case *ast.InterfaceType:
		if !hasDirective(doc, unionDirective) {
			return
		}
		sc.unions = append(sc.unions, &unionDecl{
			name:   ts.Name.Name,
			iface:  t,
			pos:    ts.Pos(),
			marker: markerMethod(t),
		})
	case *ast.StructType:
		sc.structs[ts.Name.Name] = &structDecl{
			name:   ts.Name.Name,
			st:     t,
			pos:    ts.Pos(),
			panics: hasDirective(doc, panicDirective),
		}
	}
}

func (sc *scanner) build(decl *unionDecl, pkgName string) (*union.Type, error) {
	if decl.marker == "" {
		return nil, fmt.Errorf("union %s must declare one unexported marker method", decl.name)
	}

	var variants []*structDecl
	for _, recv := range sc.methods[decl.marker] {
		if st, ok := sc.structs[recv]; ok {
			variants = append(variants, st)
		}
	}
	if len(variants) == 0 {
		return nil, fmt.Errorf("%s is not a tagged union: no struct declares %s()", decl.name, decl.marker)
	}
	sort.Slice(variants, func(i, j int) bool { return variants[i].pos < variants[j].pos })

	u := &union.Type{Name: decl.name, Package: pkgName}
	for _, st := range variants {
		v, err := sc.buildVariant(st)
		if err != nil {
			return nil, fmt.Errorf("union %s: %w", decl.name, err)
		}
		u.Variants = append(u.Variants, v)
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

func (sc *scanner) buildVariant(st *structDecl) (union.Variant, error) {
	v := union.Variant{Name: st.name, Panics: st.panics}

	var goNames []string
	var types []string
	for _, field := range st.st.Fields.List {
		typ, err := sc.typeText(field.Type)
		if err != nil {
			return v, fmt.Errorf("variant %s: %w", st.name, err)
		}
		if len(field.Names) == 0 {
			return v, fmt.Errorf("variant %s embeds %s; variant fields must be named", st.name, typ)
		}
		for _, name := range field.Names {
			goNames = append(goNames, name.Name)
			types = append(types, typ)
		}
	}

	switch {
	case len(goNames) == 0:
		v.Kind = union.Unit
	case positional(goNames):
		v.Kind = union.Positional
		for i := range goNames {
			v.Fields = append(v.Fields, union.Field{
				Name:   fmt.Sprintf("value%d", i),
				GoName: goNames[i],
				Type:   types[i],
			})
		}
	default:
		v.Kind = union.Named
		for i := range goNames {
			v.Fields = append(v.Fields, union.Field{
				Name:   paramName(goNames[i]),
				GoName: goNames[i],
				Type:   types[i],
			})
		}
	}

	return v, nil
}

func (sc *scanner) typeText(expr ast.Expr) (string, error) {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, sc.fset, expr); err != nil {
		return "", fmt.Errorf("rendering field type: %w", err)
	}
	return buf.String(), nil
}

// positional reports whether the struct fields follow the V0..Vn-1
// positional naming convention.
func positional(names []string) bool {
	for i, name := range names {
		if name != fmt.Sprintf("V%d", i) {
			return false
		}
	}
	return len(names) > 0
}

// paramName derives the caller-facing parameter name from a struct field
// name: a leading initialism folds whole (URLPath becomes urlPath),
// everything else just drops its initial cap.
func paramName(goName string) string {
	if goName == strings.ToUpper(goName) {
		return strings.ToLower(goName)
	}
	run := 0
	for run < len(goName) && goName[run] >= 'A' && goName[run] <= 'Z' {
		run++
	}
	if run > 1 {
		// The run's last upper-case letter starts the next word.
		run--
	}
	return strings.ToLower(goName[:run]) + goName[run:]
}

// markerMethod returns the interface's single unexported method name, or ""
// when there is none.
func markerMethod(iface *ast.InterfaceType) string {
	for _, m := range iface.Methods.List {
		if len(m.Names) == 0 {
			continue // embedded interface
		}
		name := m.Names[0].Name
		if !ast.IsExported(name) {
			return name
		}
	}
	return ""
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	}
	return ""
}

func hasDirective(doc *ast.CommentGroup, directive string) bool {
	if doc == nil {
		return false
	}
	for _, c := range doc.List {
		if strings.TrimPrefix(c.Text, "//") == directive {
			return true
		}
	}
	return false
}
