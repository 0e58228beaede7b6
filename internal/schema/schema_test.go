package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func graphDecl() ([]Ob, []Hom, []AttrType, []Attr) {
	obs := []Ob{
		{Name: "V", Title: "Vertex"},
		{Name: "E", Title: "Edge"},
	}
	homs := []Hom{
		{Name: "src", Dom: "E", Codom: "V"},
		{Name: "tgt", Dom: "E", Codom: "V"},
	}
	attrtypes := []AttrType{
		{Name: "Name", Kind: KindString},
		{Name: "Weight", Kind: KindFloat},
	}
	attrs := []Attr{
		{Name: "label", Dom: "V", Codom: "Name"},
		{Name: "weight", Dom: "E", Codom: "Weight"},
	}
	return obs, homs, attrtypes, attrs
}

func TestNewValid(t *testing.T) {
	obs, homs, attrtypes, attrs := graphDecl()
	s, err := New("Graph", obs, homs, attrtypes, attrs)
	require.NoError(t, err)
	assert.Equal(t, "Graph", s.Name)
}

func TestNewRequiresName(t *testing.T) {
	obs, homs, attrtypes, attrs := graphDecl()
	_, err := New("", obs, homs, attrtypes, attrs)
	assert.ErrorContains(t, err, "schema name is required")
}

func TestNewRequiresObjects(t *testing.T) {
	_, err := New("Empty", nil, nil, nil, nil)
	assert.ErrorContains(t, err, "at least one object is required")
}

func TestNewCollectsAllErrors(t *testing.T) {
	// Duplicate object, dangling hom codomain, invalid kind, dangling attr
	// codomain: all four must be reported at once.
	_, err := New("Broken",
		[]Ob{{Name: "X"}, {Name: "X"}},
		[]Hom{{Name: "f", Dom: "X", Codom: "Y"}},
		[]AttrType{{Name: "T", Kind: ValueKind("complex")}},
		[]Attr{{Name: "a", Dom: "X", Codom: "U"}},
	)
	require.Error(t, err)
	assert.ErrorContains(t, err, `duplicate object name: "X"`)
	assert.ErrorContains(t, err, `unknown object "Y"`)
	assert.ErrorContains(t, err, `invalid kind "complex"`)
	assert.ErrorContains(t, err, `unknown attribute type "U"`)
}

func TestNewSharedPropertyNamespace(t *testing.T) {
	// A hom and an attr may not share a name: both become columns.
	_, err := New("Clash",
		[]Ob{{Name: "X"}},
		[]Hom{{Name: "p", Dom: "X", Codom: "X"}},
		[]AttrType{{Name: "T", Kind: KindString}},
		[]Attr{{Name: "p", Dom: "X", Codom: "T"}},
	)
	assert.ErrorContains(t, err, `duplicate property name: "p"`)
}

func TestMustNewPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustNew("", nil, nil, nil, nil)
	})
}

func TestLookups(t *testing.T) {
	obs, homs, attrtypes, attrs := graphDecl()
	s := MustNew("Graph", obs, homs, attrtypes, attrs)

	require.NotNil(t, s.ObByName("V"))
	assert.Equal(t, "Vertex", s.ObByName("V").Title)
	assert.Nil(t, s.ObByName("W"))

	require.NotNil(t, s.HomByName("src"))
	assert.Equal(t, "E", s.HomByName("src").Dom)
	assert.Nil(t, s.HomByName("label"))

	require.NotNil(t, s.AttrByName("label"))
	assert.Nil(t, s.AttrByName("src"))

	require.NotNil(t, s.AttrTypeByName("Weight"))
	assert.Equal(t, KindFloat, s.AttrTypeByName("Weight").Kind)
}

func TestPropByName(t *testing.T) {
	obs, homs, attrtypes, attrs := graphDecl()
	s := MustNew("Graph", obs, homs, attrtypes, attrs)

	p := s.PropByName("src")
	require.NotNil(t, p)
	assert.Equal(t, "E", p.PropDom())
	_, isHom := p.(*Hom)
	assert.True(t, isHom)

	p = s.PropByName("label")
	require.NotNil(t, p)
	_, isAttr := p.(*Attr)
	assert.True(t, isAttr)

	assert.Nil(t, s.PropByName("nope"))
}

func TestElementByName(t *testing.T) {
	obs, homs, attrtypes, attrs := graphDecl()
	s := MustNew("Graph", obs, homs, attrtypes, attrs)

	_, isOb := s.ElementByName("V").(*Ob)
	assert.True(t, isOb)
	_, isHom := s.ElementByName("tgt").(*Hom)
	assert.True(t, isHom)
	_, isAT := s.ElementByName("Name").(*AttrType)
	assert.True(t, isAT)
	_, isAttr := s.ElementByName("weight").(*Attr)
	assert.True(t, isAttr)
	assert.Nil(t, s.ElementByName("nope"))
}

func TestPropsOutOrder(t *testing.T) {
	obs, homs, attrtypes, attrs := graphDecl()
	s := MustNew("Graph", obs, homs, attrtypes, attrs)

	props := s.PropsOut("E")
	require.Len(t, props, 3)
	// Morphisms first, then attributes, in declaration order.
	assert.Equal(t, "src", props[0].PropName())
	assert.Equal(t, "tgt", props[1].PropName())
	assert.Equal(t, "weight", props[2].PropName())

	assert.Len(t, s.HomsOut("E"), 2)
	assert.Empty(t, s.HomsOut("V"))
	assert.Len(t, s.AttrsOut("V"), 1)
}

func TestAttrKind(t *testing.T) {
	obs, homs, attrtypes, attrs := graphDecl()
	s := MustNew("Graph", obs, homs, attrtypes, attrs)
	assert.Equal(t, KindString, s.AttrKind(s.AttrByName("label")))
	assert.Equal(t, KindFloat, s.AttrKind(s.AttrByName("weight")))
}
