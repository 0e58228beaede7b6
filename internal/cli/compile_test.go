package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlgebraicJulia/go-acsets/internal/schema"
)

func TestCompileValidSchema(t *testing.T) {
	dir := writeLabelledGraphCUE(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "✓ Compiled 1 schema(s)")
	assert.Contains(t, output, "LabelledGraph: 2 object(s), 2 morphism(s), 1 attribute(s)")
}

func TestCompileValidSchemaJSON(t *testing.T) {
	dir := writeLabelledGraphCUE(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
}

func TestCompileWritesCatlabFiles(t *testing.T) {
	dir := writeLabelledGraphCUE(t)
	outDir := t.TempDir()

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir, "--output", outDir})

	require.NoError(t, cmd.Execute())

	path := filepath.Join(outDir, "LabelledGraph.json")
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("Catlab file was not written: %v", err)
	}

	sch, err := schema.ReadCatlabFile("LabelledGraph", path)
	require.NoError(t, err)
	assert.Equal(t, "LabelledGraph", sch.Name)
	assert.Len(t, sch.Homs, 2)
}

func TestCompileInvalidSchema(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "bad.cue", `package schemas

schema: Broken: {hom: {}}
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	output := buf.String()
	assert.Contains(t, output, "✗ Compilation failed")
	assert.Contains(t, output, "E101")
}

func TestCompileInvalidSchemaJSON(t *testing.T) {
	dir := t.TempDir()
	writeTestFile(t, dir, "bad.cue", `package schemas

schema: Broken: {hom: {}}
`)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{dir})

	err := cmd.Execute()
	require.Error(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeSchemaInvalid, resp.Error.Code)
}

func TestCompileMissingDirectory(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/schema/dir"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "E005")
	assert.Contains(t, buf.String(), "not found")
}

func TestCompileEmptyDirectory(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCompileCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{t.TempDir()})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "E003")
	assert.Contains(t, buf.String(), "no CUE files found")
}
