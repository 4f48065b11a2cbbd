package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitgud/gitgud/internal/engine"
)

func TestDropRemovesLeafCommit(t *testing.T) {
	r := newTestRepo(t)
	e := r.init(t)

	r.writeFile("a.txt", "a\n")
	base, err := e.Commit(ctx(), "add a", engine.CommitOptions{All: true})
	require.NoError(t, err)

	_, err = e.Update(ctx(), base.ID)
	require.NoError(t, err)

	r.writeFile("b.txt", "b\n")
	leaf, err := e.Commit(ctx(), "add b", engine.CommitOptions{All: true})
	require.NoError(t, err)

	err = e.Drop(ctx(), leaf.ID)
	require.NoError(t, err)

	_, err = e.State().GetCommit(leaf.ID)
	assert.Error(t, err)
	assert.Equal(t, base.ID, e.State().HeadID, "dropping head should fall back to its parent")

	refreshedBase, err := e.State().GetCommit(base.ID)
	require.NoError(t, err)
	assert.NotContains(t, refreshedBase.Children, leaf.ID)

	branches := r.git("branch", "--list")
	assert.NotContains(t, branches, leaf.ID, "leaf's branch should be deleted")
	assert.NotContains(t, branches, leaf.HistoryBranch, "leaf's history branch should be deleted")

	current := r.git("branch", "--show-current")
	assert.Equal(t, base.ID+"\n", current, "checkout should have moved off leaf's branch before it was deleted")
}

func TestDropRejectsCommitWithChildren(t *testing.T) {
	r := newTestRepo(t)
	e := r.init(t)

	r.writeFile("a.txt", "a\n")
	base, err := e.Commit(ctx(), "add a", engine.CommitOptions{All: true})
	require.NoError(t, err)

	r.writeFile("b.txt", "b\n")
	_, err = e.Commit(ctx(), "add b", engine.CommitOptions{All: true})
	require.NoError(t, err)

	err = e.Drop(ctx(), base.ID)
	assert.Error(t, err)
}
