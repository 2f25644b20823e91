package expectgen

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/format"
	"go/parser"
	"go/token"
	"strconv"
	"strings"

	"github.com/expectgen/expectgen/union"
)

// expectPath is the import path of the runtime package generated code leans
// on for Option, Unit and the tuple types.
const expectPath = "github.com/expectgen/expectgen/expect"

const generatedHeader = "// Code generated by expectgen. DO NOT EDIT.\n\n"

// maxTupleFields is the widest variant a non-fatal extractor can hand back;
// it tracks the largest TupleN declared in the expect package.
const maxTupleFields = 6

// Reserved identifiers inside generated function bodies. Caller-facing
// parameters are kept out of this namespace by sanitizeParam, so field
// bindings can never be shadowed by a parameter of the same declared name.
const (
	unionBinding = "v"
	attrBinding  = "attr"
	okBinding    = "ok"
)

// reservedParams is the full set of identifiers a generated body binds or
// qualifies through. Besides the local bindings, the package qualifiers of
// the imports generated code may carry must stay addressable.
var reservedParams = map[string]bool{
	unionBinding: true,
	attrBinding:  true,
	okBinding:    true,
	"fmt":        true,
	"expect":     true,
}

// Extractors is the jenny at the heart of expectgen. For one union
// description it produces one file holding, per variant and in declaration
// order, an Expect<Variant> function:
//
//   - non-fatal: func ExpectBaz(v Union, value0 T0, ...) expect.Option[...]
//     returning a present Option of the field values when v is a Baz holding
//     exactly those values, and an empty Option on any mismatch. Wrong
//     variant and right-variant-wrong-values are indistinguishable.
//   - panic-marked: func ExpectBar(v Union, a T, ...) (T, ...) returning the
//     field values directly, and panicking on mismatch with a message that
//     names the expected variant and values and renders the actual value.
//
// Generation is deterministic: the same description always yields a
// byte-identical file.
type Extractors struct{}

func (Extractors) JennyName() string {
	return "Extractors"
}

// Generate produces the extractor bundle for one union. The description is
// validated first; a description that is not a tagged union fails the whole
// pass with no partial output.
func (x Extractors) Generate(u *union.Type) (*File, error) {
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if u.Package == "" {
		return nil, fmt.Errorf("union %s does not name its package", u.Name)
	}

	var funcs []ast.Decl
	var needFmt, needExpect bool
	for _, v := range u.Variants {
		fn, err := buildExtractor(v)
		if err != nil {
			return nil, fmt.Errorf("variant %s: %w", v.Name, err)
		}
		fn.Type.Params.List = append(
			[]*ast.Field{{Names: []*ast.Ident{ast.NewIdent(unionBinding)}, Type: ast.NewIdent(u.Name)}},
			fn.Type.Params.List...,
		)
		funcs = append(funcs, fn)
		if v.Panics {
			needFmt = true
		} else {
			needExpect = true
		}
	}

	file := &ast.File{
		Name:  ast.NewIdent(u.Package),
		Decls: append(importDecls(needFmt, needExpect), funcs...),
	}

	var buf bytes.Buffer
	buf.WriteString(generatedHeader)
	if err := format.Node(&buf, token.NewFileSet(), file); err != nil {
		return nil, fmt.Errorf("rendering extractors for %s: %w", u.Name, err)
	}

	return NewFile(strings.ToLower(u.Name)+"_expect.go", buf.Bytes(), x.JennyName()), nil
}

func importDecls(needFmt, needExpect bool) []ast.Decl {
	var specs []ast.Spec
	if needFmt {
		specs = append(specs, importSpec("fmt"))
	}
	if needExpect {
		specs = append(specs, importSpec(expectPath))
	}
	if len(specs) == 0 {
		return nil
	}
	return []ast.Decl{&ast.GenDecl{Tok: token.IMPORT, Lparen: 1, Specs: specs}}
}

func importSpec(path string) ast.Spec {
	return &ast.ImportSpec{
		Path: &ast.BasicLit{Kind: token.STRING, Value: strconv.Quote(path)},
	}
}

// buildExtractor derives the extractor for a single variant. The union value
// parameter is prepended by the caller.
func buildExtractor(v union.Variant) (*ast.FuncDecl, error) {
	if !v.Panics && len(v.Fields) > maxTupleFields {
		return nil, fmt.Errorf("%d fields is wider than the largest supported tuple (%d)", len(v.Fields), maxTupleFields)
	}

	params := &ast.FieldList{}
	names := make([]string, len(v.Fields))
	for i, f := range v.Fields {
		names[i] = sanitizeParam(f.Name, v.Name)
		typ, err := typeExpr(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		params.List = append(params.List, &ast.Field{
			Names: []*ast.Ident{ast.NewIdent(names[i])},
			Type:  typ,
		})
	}

	results, err := resultTypes(v)
	if err != nil {
		return nil, err
	}

	var body []ast.Stmt
	if v.Kind == union.Unit {
		body = unitBody(v)
	} else {
		body, err = fieldBody(v, names)
		if err != nil {
			return nil, err
		}
	}

	return &ast.FuncDecl{
		Name: ast.NewIdent("Expect" + v.Name),
		Type: &ast.FuncType{
			Params:  params,
			Results: results,
		},
		Body: &ast.BlockStmt{List: body},
	}, nil
}

// sanitizeParam keeps caller-facing parameter names clear of the reserved
// bindings, the import qualifiers, Go keywords, and the variant's own type
// name, all of which the generated body must still resolve.
func sanitizeParam(name, variant string) string {
	if reservedParams[name] || name == variant || token.IsKeyword(name) {
		return name + "_"
	}
	return name
}

// typeExpr parses a textual Go type into a fresh AST node. Nodes are never
// shared between uses; the printer owns each one.
func typeExpr(src string) (ast.Expr, error) {
	expr, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("cannot parse type %q: %w", src, err)
	}
	return expr, nil
}

// resultTypes derives the generated function's result list: the bare field
// types for panic-marked variants, a single Option otherwise.
func resultTypes(v union.Variant) (*ast.FieldList, error) {
	if v.Panics {
		if len(v.Fields) == 0 {
			return nil, nil
		}
		fl := &ast.FieldList{}
		for _, f := range v.Fields {
			typ, err := typeExpr(f.Type)
			if err != nil {
				return nil, err
			}
			fl.List = append(fl.List, &ast.Field{Type: typ})
		}
		return fl, nil
	}

	inner, err := optionInner(v)
	if err != nil {
		return nil, err
	}
	return &ast.FieldList{List: []*ast.Field{{
		Type: &ast.IndexExpr{X: expectSel("Option"), Index: inner},
	}}}, nil
}

// optionInner is the T in the expect.Option[T] a non-fatal extractor
// returns: Unit for field-less variants, the field type itself for single
// fields, a TupleN for the rest.
func optionInner(v union.Variant) (ast.Expr, error) {
	switch len(v.Fields) {
	case 0:
		return expectSel("Unit"), nil
	case 1:
		return typeExpr(v.Fields[0].Type)
	}

	indices := make([]ast.Expr, len(v.Fields))
	for i, f := range v.Fields {
		typ, err := typeExpr(f.Type)
		if err != nil {
			return nil, err
		}
		indices[i] = typ
	}
	return &ast.IndexListExpr{
		X:       expectSel(fmt.Sprintf("Tuple%d", len(v.Fields))),
		Indices: indices,
	}, nil
}

// unitBody generates the body for a field-less variant: the equality check
// is vacuous, so matching reduces to the variant check alone.
//
//	if _, ok := v.(Qux); !ok { <mismatch> }
//	return <match>
func unitBody(v union.Variant) []ast.Stmt {
	check := &ast.IfStmt{
		Init: assertStmt("_", v.Name),
		Cond: notIdent(okBinding),
		Body: &ast.BlockStmt{List: []ast.Stmt{mismatchStmt(v, nil)}},
	}
	return append([]ast.Stmt{check}, matchStmts(v)...)
}

// fieldBody generates the combined variant-check-and-value-assertion body:
//
//	attr, ok := v.(Bar)
//	if !ok || !(attr.A == a && attr.B == b) { <mismatch> }
//	return <match>
//
// Wrong variant and right-variant-wrong-values deliberately collapse into
// the one mismatch branch.
func fieldBody(v union.Variant, names []string) ([]ast.Stmt, error) {
	var eq ast.Expr
	for i, f := range v.Fields {
		cmp := &ast.BinaryExpr{
			X:  attrField(f.GoName),
			Op: token.EQL,
			Y:  ast.NewIdent(names[i]),
		}
		if eq == nil {
			eq = cmp
		} else {
			eq = &ast.BinaryExpr{X: eq, Op: token.LAND, Y: cmp}
		}
	}

	cond := &ast.BinaryExpr{
		X:  notIdent(okBinding),
		Op: token.LOR,
		Y:  &ast.UnaryExpr{Op: token.NOT, X: &ast.ParenExpr{X: eq}},
	}

	return append([]ast.Stmt{
		assertStmt(attrBinding, v.Name),
		&ast.IfStmt{Cond: cond, Body: &ast.BlockStmt{List: []ast.Stmt{mismatchStmt(v, names)}}},
	}, matchStmts(v)...), nil
}

// mismatchStmt is the statement executed when the value does not match:
// panic with expected-vs-actual for panic-marked variants, an empty Option
// otherwise. names is only consulted for the panic form, to reconstruct the
// expected composite from the parameters.
func mismatchStmt(v union.Variant, names []string) ast.Stmt {
	if !v.Panics {
		inner, err := optionInner(v)
		if err != nil {
			// optionInner already succeeded for the result type.
			panic(err)
		}
		return &ast.ReturnStmt{Results: []ast.Expr{&ast.CallExpr{
			Fun: &ast.IndexExpr{X: expectSel("None"), Index: inner},
		}}}
	}

	expected := &ast.CompositeLit{Type: ast.NewIdent(v.Name)}
	for i, f := range v.Fields {
		expected.Elts = append(expected.Elts, &ast.KeyValueExpr{
			Key:   ast.NewIdent(f.GoName),
			Value: ast.NewIdent(names[i]),
		})
	}

	msg := &ast.CallExpr{
		Fun: &ast.SelectorExpr{X: ast.NewIdent("fmt"), Sel: ast.NewIdent("Sprintf")},
		Args: []ast.Expr{
			&ast.BasicLit{Kind: token.STRING, Value: strconv.Quote("expected %#v but got %#v")},
			expected,
			ast.NewIdent(unionBinding),
		},
	}
	return &ast.ExprStmt{X: &ast.CallExpr{
		Fun:  ast.NewIdent("panic"),
		Args: []ast.Expr{msg},
	}}
}

// matchStmts is what a successful match returns: the stored values read back
// off the asserted binding, bare for panic-marked variants, wrapped in a
// present Option otherwise.
func matchStmts(v union.Variant) []ast.Stmt {
	if v.Panics {
		if len(v.Fields) == 0 {
			return nil
		}
		ret := &ast.ReturnStmt{}
		for _, f := range v.Fields {
			ret.Results = append(ret.Results, attrField(f.GoName))
		}
		return []ast.Stmt{ret}
	}

	var payload ast.Expr
	switch len(v.Fields) {
	case 0:
		payload = &ast.CompositeLit{Type: expectSel("Unit")}
	case 1:
		payload = attrField(v.Fields[0].GoName)
	default:
		inner, err := optionInner(v)
		if err != nil {
			panic(err)
		}
		lit := &ast.CompositeLit{Type: inner}
		for i, f := range v.Fields {
			lit.Elts = append(lit.Elts, &ast.KeyValueExpr{
				Key:   ast.NewIdent(fmt.Sprintf("V%d", i+1)),
				Value: attrField(f.GoName),
			})
		}
		payload = lit
	}

	return []ast.Stmt{&ast.ReturnStmt{Results: []ast.Expr{&ast.CallExpr{
		Fun:  expectSel("Some"),
		Args: []ast.Expr{payload},
	}}}}
}

func assertStmt(binding, variant string) ast.Stmt {
	return &ast.AssignStmt{
		Lhs: []ast.Expr{ast.NewIdent(binding), ast.NewIdent(okBinding)},
		Tok: token.DEFINE,
		Rhs: []ast.Expr{&ast.TypeAssertExpr{
			X:    ast.NewIdent(unionBinding),
			Type: ast.NewIdent(variant),
		}},
	}
}

func attrField(goName string) ast.Expr {
	return &ast.SelectorExpr{X: ast.NewIdent(attrBinding), Sel: ast.NewIdent(goName)}
}

func expectSel(name string) ast.Expr {
	return &ast.SelectorExpr{X: ast.NewIdent("expect"), Sel: ast.NewIdent(name)}
}

func notIdent(name string) ast.Expr {
	return &ast.UnaryExpr{Op: token.NOT, X: ast.NewIdent(name)}
}
