package union

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validType() *Type {
	return &Type{
		Name:    "Shape",
		Package: "shapes",
		Variants: []Variant{
			{
				Name: "Circle",
				Kind: Named,
				Fields: []Field{
					{Name: "radius", GoName: "Radius", Type: "float64"},
				},
				Panics: true,
			},
			{
				Name: "Rect",
				Kind: Positional,
				Fields: []Field{
					{Name: "value0", GoName: "V0", Type: "float64"},
					{Name: "value1", GoName: "V1", Type: "float64"},
				},
			},
			{Name: "Dot", Kind: Unit},
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	require.NoError(t, validType().Validate())
}

func TestValidateSingleVariant(t *testing.T) {
	// One variant is still a union; only zero variants is a plain record.
	u := validType()
	u.Variants = u.Variants[:1]
	assert.NoError(t, u.Validate())
}

func TestValidateRejectsNoVariants(t *testing.T) {
	u := &Type{Name: "Record", Package: "p"}
	err := u.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a tagged union")
}

func TestValidateRejectsDuplicateVariants(t *testing.T) {
	u := validType()
	u.Variants = append(u.Variants, Variant{Name: "Dot", Kind: Unit})
	err := u.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than once")
}

func TestValidateRejectsUnitWithFields(t *testing.T) {
	u := validType()
	u.Variants[2].Fields = []Field{{Name: "x", GoName: "X", Type: "int"}}
	err := u.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unit variant")
}

func TestValidateRejectsFieldProblems(t *testing.T) {
	u := validType()
	u.Variants[0].Fields = append(u.Variants[0].Fields,
		Field{Name: "radius", GoName: "Radius2", Type: "float64"},
		Field{Name: "bare", GoName: "Bare"},
	)
	err := u.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declares field radius more than once")
	assert.Contains(t, err.Error(), "has no type")
}

func TestValidateReportsEverything(t *testing.T) {
	u := &Type{
		Name: "Bad",
		Variants: []Variant{
			{Name: "A", Kind: Named},
			{Name: "A", Kind: Unit},
		},
	}
	err := u.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than once")
	assert.Contains(t, err.Error(), "declares no fields")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "named", Named.String())
	assert.Equal(t, "positional", Positional.String())
	assert.Equal(t, "unit", Unit.String())
}
