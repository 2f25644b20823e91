// Package union describes tagged-union types to the extractor generator.
//
// A union.Type is a compile-time description of a Go tagged union: a sealed
// interface together with a fixed, ordered set of variant structs. It carries
// everything the generator needs (variant names, field names and types, and
// which variants are panic-marked) and nothing about where the description
// came from. The loader builds these from source; callers may equally
// construct them by hand through this registration API.
//
// Field types must be Go-comparable. The generator emits == between stored
// values and caller-supplied expectations, so a non-comparable field type is
// surfaced by the compiler of the generated code, never guessed around.
package union

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Kind says how a variant declares its fields. It affects binding and
// parameter naming only, never matching semantics.
type Kind int

const (
	// Named variants carry fields with declared names.
	Named Kind = iota
	// Positional variants carry fields addressed by position; parameter
	// names are synthesized as value0, value1, and so on.
	Positional
	// Unit variants carry no fields.
	Unit
)

func (k Kind) String() string {
	switch k {
	case Named:
		return "named"
	case Positional:
		return "positional"
	case Unit:
		return "unit"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Field is one stored value of a variant.
type Field struct {
	// Name is the caller-facing parameter name: the lower-cased declared
	// name for Named variants, a synthesized value<i> for Positional ones.
	Name string

	// GoName is the struct field used to read the stored value, e.g. "A"
	// or "V0".
	GoName string

	// Type is the Go type expression, textually, e.g. "int" or
	// "[2]string". It must denote a comparable type.
	Type string
}

// Variant is one shape a union value can take.
type Variant struct {
	Name   string
	Kind   Kind
	Fields []Field

	// Panics selects the fatal extractor form: mismatch halts the program
	// instead of producing an empty Option.
	Panics bool
}

// Type is a complete tagged-union description, with variants in declaration
// order.
type Type struct {
	// Name is the union's Go type name, e.g. "Shape".
	Name string

	// Package is the Go package the union is declared in. The generated
	// file joins this package.
	Package string

	Variants []Variant
}

// Validate checks the description's invariants. A Type with no variants does
// not describe a tagged union at all (it is a plain record) and fails
// wholesale; so do duplicate variant names and malformed variants. All
// violations are reported together.
func (t *Type) Validate() error {
	var result *multierror.Error

	if t.Name == "" {
		result = multierror.Append(result, fmt.Errorf("union type has no name"))
	}
	if len(t.Variants) == 0 {
		result = multierror.Append(result, fmt.Errorf("%s is not a tagged union: it has no variants", t.Name))
		return result.ErrorOrNil()
	}

	seen := make(map[string]bool, len(t.Variants))
	for _, v := range t.Variants {
		if v.Name == "" {
			result = multierror.Append(result, fmt.Errorf("%s has a variant with no name", t.Name))
			continue
		}
		if seen[v.Name] {
			result = multierror.Append(result, fmt.Errorf("%s declares variant %s more than once", t.Name, v.Name))
		}
		seen[v.Name] = true
		result = multierror.Append(result, v.validate(t.Name))
	}

	return result.ErrorOrNil()
}

func (v *Variant) validate(union string) error {
	var result *multierror.Error

	if v.Kind == Unit && len(v.Fields) > 0 {
		result = multierror.Append(result, fmt.Errorf("%s.%s is a unit variant but declares %d field(s)", union, v.Name, len(v.Fields)))
	}
	if v.Kind != Unit && len(v.Fields) == 0 {
		result = multierror.Append(result, fmt.Errorf("%s.%s is a %s variant but declares no fields", union, v.Name, v.Kind))
	}

	names := make(map[string]bool, len(v.Fields))
	for i, f := range v.Fields {
		if f.Name == "" || f.GoName == "" {
			result = multierror.Append(result, fmt.Errorf("%s.%s field %d has no name", union, v.Name, i))
			continue
		}
		if f.Type == "" {
			result = multierror.Append(result, fmt.Errorf("%s.%s field %s has no type", union, v.Name, f.Name))
		}
		if names[f.Name] {
			result = multierror.Append(result, fmt.Errorf("%s.%s declares field %s more than once", union, v.Name, f.Name))
		}
		names[f.Name] = true
	}

	return result.ErrorOrNil()
}
