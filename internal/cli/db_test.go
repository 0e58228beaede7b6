package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlgebraicJulia/go-acsets/internal/acset"
	"github.com/AlgebraicJulia/go-acsets/internal/petri"
	"github.com/AlgebraicJulia/go-acsets/internal/store"
	"github.com/AlgebraicJulia/go-acsets/internal/testutil"
)

// runDB executes the db command against the database at dbPath.
func runDB(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewDBCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(append(args, "--db", dbPath))
	err := cmd.Execute()
	return buf.String(), err
}

func TestDBSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "acsets.db")
	docPath := writeSIRDocument(t, dir)

	want, err := testutil.SIRPetri().Hash()
	require.NoError(t, err)

	output, err := runDB(t, dbPath, "save", "LabelledReactionNet", docPath)
	require.NoError(t, err)
	assert.Contains(t, output, "✓ Saved sir")
	assert.Contains(t, output, "hash: "+want)

	output, err = runDB(t, dbPath, "load", want)
	require.NoError(t, err)

	loaded, err := acset.Import("sir", petri.SchLabelledReactionNet, []byte(output))
	require.NoError(t, err)
	got, err := loaded.Hash()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDBSaveRejectsInvalidDocument(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "acsets.db")
	docPath := writeTestFile(t, dir, "dangling.json",
		`{"S":[{}],"T":[],"I":[{"it":3,"is":1}],"O":[]}`)

	output, err := runDB(t, dbPath, "save", "PetriNet", docPath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, "✗ Validation failed")
}

func TestDBSaveUnknownSchema(t *testing.T) {
	dir := t.TempDir()
	docPath := writeTestFile(t, dir, "doc.json", `{}`)

	output, err := runDB(t, filepath.Join(dir, "acsets.db"), "save", "NoSuchSchema", docPath)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "E104")
}

func TestDBLoadNotFound(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "acsets.db")

	output, err := runDB(t, dbPath, "load", "deadbeef")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, output, "no instance with hash deadbeef")
}

func TestDBList(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "acsets.db")

	output, err := runDB(t, dbPath, "list")
	require.NoError(t, err)
	assert.Contains(t, output, "No instances stored")

	docPath := writeSIRDocument(t, dir)
	_, err = runDB(t, dbPath, "save", "LabelledReactionNet", docPath)
	require.NoError(t, err)

	hash, err := testutil.SIRPetri().Hash()
	require.NoError(t, err)

	output, err = runDB(t, dbPath, "list")
	require.NoError(t, err)
	assert.Contains(t, output, hash)
	assert.Contains(t, output, "LabelledReactionNet")
	assert.Contains(t, output, "sir")
}

func TestDBVerifyClean(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "acsets.db")
	docPath := writeSIRDocument(t, dir)

	_, err := runDB(t, dbPath, "save", "LabelledReactionNet", docPath)
	require.NoError(t, err)

	output, err := runDB(t, dbPath, "verify")
	require.NoError(t, err)
	assert.Contains(t, output, "✓ All stored instances verify")
}

func TestDBVerifyDetectsTampering(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "acsets.db")
	docPath := writeSIRDocument(t, dir)

	_, err := runDB(t, dbPath, "save", "LabelledReactionNet", docPath)
	require.NoError(t, err)

	st, err := store.Open(dbPath)
	require.NoError(t, err)
	_, err = st.DB().ExecContext(context.Background(), `UPDATE instances SET doc = '{}'`)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	output, err := runDB(t, dbPath, "verify")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, output, "✗ Verification failed")
}
