package compiler

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlgebraicJulia/go-acsets/internal/schema"
)

// compileString compiles a CUE source string and returns the value at path.
func compileString(t *testing.T, src, path string) cue.Value {
	t.Helper()
	ctx := cuecontext.New()
	v := ctx.CompileString(src)
	require.NoError(t, v.Err())
	return v.LookupPath(cue.ParsePath(path))
}

const labelledGraphCUE = `
schema: LabelledGraph: {
	ob: V: {title: "Vertex"}
	ob: E: {}
	hom: src: {dom: "E", codom: "V"}
	hom: tgt: {dom: "E", codom: "V", description: "Edge target vertex"}
	attrtype: Name: {ty: "string"}
	attr: label: {dom: "V", codom: "Name", title: "Vertex label"}
}
`

func TestCompileSchema(t *testing.T) {
	v := compileString(t, labelledGraphCUE, "schema.LabelledGraph")
	sch, err := CompileSchema(v)
	require.NoError(t, err)

	assert.Equal(t, "LabelledGraph", sch.Name)
	require.Len(t, sch.Obs, 2)
	// CUE field iteration preserves declaration order.
	assert.Equal(t, "V", sch.Obs[0].Name)
	assert.Equal(t, "Vertex", sch.Obs[0].Title)
	assert.Equal(t, "E", sch.Obs[1].Name)

	require.Len(t, sch.Homs, 2)
	assert.Equal(t, schema.Hom{Name: "src", Dom: "E", Codom: "V"}, sch.Homs[0])
	assert.Equal(t, "Edge target vertex", sch.Homs[1].Description)

	require.Len(t, sch.AttrTypes, 1)
	assert.Equal(t, schema.KindString, sch.AttrTypes[0].Kind)

	require.Len(t, sch.Attrs, 1)
	assert.Equal(t, "Vertex label", sch.Attrs[0].Title)
}

func TestCompileSchemaRequiresObjects(t *testing.T) {
	v := compileString(t, `schema: Empty: {hom: {}}`, "schema.Empty")
	_, err := CompileSchema(v)
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "ob", compileErr.Field)
	assert.Contains(t, compileErr.Message, "at least one object")
}

func TestCompileSchemaMissingDom(t *testing.T) {
	src := `
schema: Bad: {
	ob: V: {}
	hom: f: {codom: "V"}
}
`
	v := compileString(t, src, "schema.Bad")
	_, err := CompileSchema(v)
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "hom.f.dom", compileErr.Field)
	assert.True(t, compileErr.Pos.IsValid())
}

func TestCompileSchemaInvalidKind(t *testing.T) {
	src := `
schema: Bad: {
	ob: V: {}
	attrtype: T: {ty: "complex"}
}
`
	v := compileString(t, src, "schema.Bad")
	_, err := CompileSchema(v)
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "attrtype.T.ty", compileErr.Field)
	assert.Contains(t, compileErr.Message, `invalid kind "complex"`)
}

func TestCompileSchemaDanglingReference(t *testing.T) {
	src := `
schema: Bad: {
	ob: V: {}
	hom: f: {dom: "V", codom: "W"}
}
`
	v := compileString(t, src, "schema.Bad")
	_, err := CompileSchema(v)
	require.Error(t, err)
	assert.ErrorContains(t, err, `unknown object "W"`)
}

func TestCompileSchemaNonStringDom(t *testing.T) {
	src := `
schema: Bad: {
	ob: V: {}
	hom: f: {dom: 3, codom: "V"}
}
`
	v := compileString(t, src, "schema.Bad")
	_, err := CompileSchema(v)
	assert.Error(t, err)
}

func TestCompileErrorFormatting(t *testing.T) {
	e := &CompileError{Field: "hom.f.dom", Message: "dom is required"}
	assert.Equal(t, "hom.f.dom: dom is required", e.Error())
}
