package cli

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinSchema(t *testing.T) {
	sch, ok := BuiltinSchema("LabelledReactionNet")
	require.True(t, ok)
	assert.Equal(t, "LabelledReactionNet", sch.Name)

	_, ok = BuiltinSchema("NoSuchSchema")
	assert.False(t, ok)
}

func TestBuiltinSchemaNames(t *testing.T) {
	names := BuiltinSchemaNames()
	assert.Len(t, names, 11)
	assert.True(t, sort.StringsAreSorted(names))

	for _, want := range []string{"PetriNet", "MiraNet", "SummationDecapode", "StockFlow"} {
		assert.Contains(t, names, want)
	}
}
