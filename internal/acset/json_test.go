package acset

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportDeterministic(t *testing.T) {
	a := path(t)
	first, err := a.Export()
	require.NoError(t, err)
	second, err := a.Export()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestExportShape(t *testing.T) {
	a := path(t)
	data, err := a.Export()
	require.NoError(t, err)

	// Tables in declaration order, fields in morphism-then-attribute order,
	// references one-indexed.
	want := `{"V":[{"label":"a"},{"label":"b"},{"label":"c"}],` +
		`"E":[{"src":1,"tgt":2},{"src":2,"tgt":3}]}`
	assert.Equal(t, want, string(data))
}

func TestExportEmptyTables(t *testing.T) {
	a := New("empty", schGraph)
	data, err := a.Export()
	require.NoError(t, err)
	assert.Equal(t, `{"V":[],"E":[]}`, string(data))
}

func TestExportOmitsUnsetCells(t *testing.T) {
	a := New("g", schGraph)
	_, err := a.AddParts("V", 2)
	require.NoError(t, err)
	require.NoError(t, a.SetSubpart(1, "label", Str("b")))

	data, err := a.Export()
	require.NoError(t, err)
	assert.Equal(t, `{"V":[{},{"label":"b"}],"E":[]}`, string(data))
}

func TestImportRoundTripFixedPoint(t *testing.T) {
	a := path(t)
	first, err := a.Export()
	require.NoError(t, err)

	b, err := Import("path", schGraph, first)
	require.NoError(t, err)
	second, err := b.Export()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	c, err := Import("path", schGraph, second)
	require.NoError(t, err)
	third, err := c.Export()
	require.NoError(t, err)
	assert.Equal(t, second, third)
}

func TestImportOneIndexedReferences(t *testing.T) {
	doc := `{"V":[{},{}],"E":[{"src":1,"tgt":2}]}`
	a, err := Import("g", schGraph, []byte(doc))
	require.NoError(t, err)

	src, ok := a.Ref(0, "src")
	require.True(t, ok)
	assert.Equal(t, 0, src) // wire 1 -> memory 0
	tgt, ok := a.Ref(0, "tgt")
	require.True(t, ok)
	assert.Equal(t, 1, tgt)
}

func TestImportRejectsUnknownTable(t *testing.T) {
	doc := `{"V":[],"E":[],"W":[]}`
	_, err := Import("g", schGraph, []byte(doc))
	assert.ErrorContains(t, err, `unknown table "W"`)
}

func TestImportRequiresAllTables(t *testing.T) {
	doc := `{"V":[]}`
	_, err := Import("g", schGraph, []byte(doc))
	assert.ErrorContains(t, err, `missing required table "E"`)
}

func TestImportRejectsUndeclaredField(t *testing.T) {
	doc := `{"V":[{"label":"a","color":"red"}],"E":[]}`
	_, err := Import("g", schGraph, []byte(doc))
	assert.ErrorContains(t, err, `undeclared field "color"`)
}

func TestImportRejectsWrongFieldDomain(t *testing.T) {
	// weight is declared on E, not V.
	doc := `{"V":[{"weight":1.5}],"E":[]}`
	_, err := Import("g", schGraph, []byte(doc))
	assert.ErrorContains(t, err, `undeclared field "weight"`)
}

func TestImportNullMeansUnset(t *testing.T) {
	doc := `{"V":[{"label":null}],"E":[]}`
	a, err := Import("g", schGraph, []byte(doc))
	require.NoError(t, err)
	assert.False(t, a.HasSubpart(0, "label"))
}

func TestImportRejectsNonIntegerReference(t *testing.T) {
	doc := `{"V":[{}],"E":[{"src":"1","tgt":1}]}`
	_, err := Import("g", schGraph, []byte(doc))
	assert.ErrorContains(t, err, "morphism cell must be an integer")
}

func TestImportNotJSON(t *testing.T) {
	_, err := Import("g", schGraph, []byte("nope"))
	assert.Error(t, err)
}

func TestWriteReadFile(t *testing.T) {
	a := path(t)
	p := filepath.Join(t.TempDir(), "path.json")
	require.NoError(t, a.WriteFile(p))

	b, err := ReadFile("path", schGraph, p)
	require.NoError(t, err)

	wantHash, err := a.Hash()
	require.NoError(t, err)
	gotHash, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, wantHash, gotHash)
}

func TestExportIndentEndsWithNewline(t *testing.T) {
	a := New("empty", schGraph)
	data, err := a.ExportIndent()
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.Equal(t, byte('\n'), data[len(data)-1])
}
