package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ggerrors "github.com/gitgud/gitgud/internal/errors"
	"github.com/gitgud/gitgud/internal/graph"
)

func TestLoadMissingReturnsConfigNotFound(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)

	_, err = st.Load(t.TempDir())
	require.Error(t, err)
	var notFound *ggerrors.ConfigNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)

	repoDir := t.TempDir()
	state := graph.NewRepoState(repoDir, "main")
	state.RootID = "c1"
	state.HeadID = "c1"
	state.Commits["c1"] = &graph.Commit{ID: "c1", Hash: "abc123", Description: "initial commit"}

	require.NoError(t, st.Save(repoDir, state))

	loaded, err := st.Load(repoDir)
	require.NoError(t, err)
	assert.Equal(t, state.RootID, loaded.RootID)
	assert.Equal(t, state.HeadID, loaded.HeadID)
	assert.Equal(t, 1, loaded.SchemaVersion)
	assert.Equal(t, "abc123", loaded.Commits["c1"].Hash)
}

func TestSaveOverwritesAtomically(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)

	repoDir := t.TempDir()
	state := graph.NewRepoState(repoDir, "main")
	state.RootID, state.HeadID = "c1", "c1"
	state.Commits["c1"] = &graph.Commit{ID: "c1", Hash: "abc"}
	require.NoError(t, st.Save(repoDir, state))

	state.HeadID = "c1"
	state.Commits["c2"] = &graph.Commit{ID: "c2", Hash: "def", ParentID: "c1"}
	state.Commits["c1"].Children = []string{"c2"}
	state.HeadID = "c2"
	require.NoError(t, st.Save(repoDir, state))

	loaded, err := st.Load(repoDir)
	require.NoError(t, err)
	assert.Equal(t, "c2", loaded.HeadID)
	assert.Len(t, loaded.Commits, 2)
}

func TestStateFilenameIsStableAndKeyedByAbsolutePath(t *testing.T) {
	dir := t.TempDir()
	name1, err := stateFilename(dir)
	require.NoError(t, err)
	name2, err := stateFilename(filepath.Join(dir, ".", "."))
	require.NoError(t, err)
	assert.Equal(t, name1, name2)
	assert.Contains(t, name1, filepath.Base(dir)+"_")
}

func TestDeleteTolerantOfMissingFile(t *testing.T) {
	st, err := New(t.TempDir())
	require.NoError(t, err)
	assert.NoError(t, st.Delete(t.TempDir()))
}
