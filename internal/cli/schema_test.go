package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlgebraicJulia/go-acsets/internal/jsonschema"
	"github.com/AlgebraicJulia/go-acsets/internal/petri"
)

func TestSchemaList(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewSchemaCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--list"})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "Predefined schemas:")
	for _, name := range BuiltinSchemaNames() {
		assert.Contains(t, output, name)
	}
}

func TestSchemaListJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewSchemaCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--list"})

	require.NoError(t, cmd.Execute())

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	names, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, names, 11)
}

func TestSchemaBuiltin(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewSchemaCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"PetriNet"})

	require.NoError(t, cmd.Execute())

	// Output is the raw JSON Schema document.
	want, err := jsonschema.Generate(petri.SchPetriNet, "")
	require.NoError(t, err)
	assert.Equal(t, string(want), buf.String())
	assert.Contains(t, buf.String(), jsonschema.Draft)
	assert.True(t, strings.HasSuffix(buf.String(), "\n"))
}

func TestSchemaIDFlag(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewSchemaCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"PetriNet", "--id", "https://example.org/petri.json"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), `"$id": "https://example.org/petri.json"`)
}

func TestSchemaCatlabFlag(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewSchemaCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"PetriNet", "--catlab"})

	require.NoError(t, cmd.Execute())

	want, err := petri.SchPetriNet.MarshalCatlab()
	require.NoError(t, err)
	assert.Equal(t, string(want), buf.String())
}

func TestSchemaFromCatlabFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "PetriNet.json")
	require.NoError(t, petri.SchPetriNet.WriteCatlabFile(path))

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewSchemaCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{path})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), `"title": "PetriNet"`)
}

func TestSchemaOutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "petri_schema.json")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewSchemaCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"PetriNet", "-o", out})

	require.NoError(t, cmd.Execute())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	want, err := jsonschema.Generate(petri.SchPetriNet, "")
	require.NoError(t, err)
	assert.Equal(t, want, data)
	assert.Contains(t, buf.String(), "Wrote schema for PetriNet")
}

func TestSchemaUnknownName(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewSchemaCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"NoSuchSchema"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "E104")
	assert.Contains(t, buf.String(), `unknown schema "NoSuchSchema"`)
}

func TestSchemaNoArguments(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewSchemaCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "E001")
}
