package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/AlgebraicJulia/go-acsets/internal/testutil"
)

// writeTestFile writes content to a file under dir and returns its path.
func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// writeSIRDocument exports the SIR reaction net fixture to a JSON file.
func writeSIRDocument(t *testing.T, dir string) string {
	t.Helper()
	data, err := testutil.SIRPetri().Export()
	require.NoError(t, err)
	return writeTestFile(t, dir, "sir.json", string(data))
}

// writeStockFlowDocument exports the SIR stock-flow fixture to a JSON file.
func writeStockFlowDocument(t *testing.T, dir string) string {
	t.Helper()
	data, err := testutil.SIRStockFlow().Export()
	require.NoError(t, err)
	return writeTestFile(t, dir, "sir_stockflow.json", string(data))
}

const labelledGraphCUE = `package schemas

schema: LabelledGraph: {
	ob: V: {title: "Vertex"}
	ob: E: {}
	hom: src: {dom: "E", codom: "V"}
	hom: tgt: {dom: "E", codom: "V"}
	attrtype: Name: {ty: "string"}
	attr: label: {dom: "V", codom: "Name"}
}
`

// writeLabelledGraphCUE writes a valid schema declaration to a temp dir.
func writeLabelledGraphCUE(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestFile(t, dir, "graph.cue", labelledGraphCUE)
	return dir
}
