package jsonschema

import (
	"encoding/json"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlgebraicJulia/go-acsets/internal/decapode"
	"github.com/AlgebraicJulia/go-acsets/internal/schema"
)

// schLabelledGraph is a minimal two-table schema for generator tests.
var schLabelledGraph = schema.MustNew("LabelledGraph",
	[]schema.Ob{
		{Name: "V", Title: "Vertex"},
		{Name: "E", Title: "Edge"},
	},
	[]schema.Hom{
		{Name: "src", Dom: "E", Codom: "V"},
		{Name: "tgt", Dom: "E", Codom: "V"},
	},
	[]schema.AttrType{
		{Name: "Name", Kind: schema.KindString},
	},
	[]schema.Attr{
		{Name: "label", Dom: "V", Codom: "Name"},
	},
)

func TestGenerateLabelledGraphGolden(t *testing.T) {
	out, err := Generate(schLabelledGraph, "https://example.org/schemas/labelled_graph.json")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "labelled_graph", out)
}

func TestGenerateSummationDecapodeGolden(t *testing.T) {
	out, err := Generate(decapode.SchSummationDecapode, "https://algebraicjulia.org/schemas/SummationDecapode.json")
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "summation_decapode", out)
}

func TestGenerateDeterministic(t *testing.T) {
	a, err := Generate(decapode.SchSummationDecapode, "")
	require.NoError(t, err)
	b, err := Generate(decapode.SchSummationDecapode, "")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestGenerateStructure(t *testing.T) {
	out, err := Generate(decapode.SchSummationDecapode, "")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &doc))

	assert.Equal(t, Draft, doc["$schema"])
	assert.NotContains(t, doc, "$id")
	assert.Equal(t, "SummationDecapode", doc["title"])
	assert.Equal(t, false, doc["additionalProperties"])

	// Every table is required, including the non-ASCII summation table.
	required, ok := doc["required"].([]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{"Var", "TVar", "Op1", "Op2", "Σ", "Summand"}, required)

	defs, ok := doc["$defs"].(map[string]interface{})
	require.True(t, ok)
	require.Contains(t, defs, "Σ")

	// Morphism cells are one-indexed integers.
	sigma := defs["Σ"].(map[string]interface{})
	sum := sigma["properties"].(map[string]interface{})["sum"].(map[string]interface{})
	assert.Equal(t, "integer", sum["type"])
	assert.Equal(t, float64(1), sum["minimum"])
	assert.Equal(t, false, sigma["additionalProperties"])
}

func TestGenerateID(t *testing.T) {
	out, err := Generate(schLabelledGraph, "https://example.org/g.json")
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(out, &doc))
	assert.Equal(t, "https://example.org/g.json", doc["$id"])
}

func TestJSONTypeMapping(t *testing.T) {
	cases := []struct {
		kind schema.ValueKind
		want string
	}{
		{schema.KindString, "string"},
		{schema.KindInt, "integer"},
		{schema.KindFloat, "number"},
		{schema.KindBool, "boolean"},
		{schema.KindObject, "object"},
	}
	for _, tc := range cases {
		got, err := jsonType(tc.kind)
		require.NoError(t, err)
		assert.Equal(t, tc.want, got)
	}

	_, err := jsonType(schema.ValueKind("complex"))
	assert.Error(t, err)
}
