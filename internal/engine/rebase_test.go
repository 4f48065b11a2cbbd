package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitgud/gitgud/internal/engine"
)

func TestRebaseMovesLocalCommitOntoNewParent(t *testing.T) {
	r := newTestRepo(t)
	e := r.init(t)
	root := e.State().HeadID

	r.writeFile("a.txt", "a\n")
	branchA, err := e.Commit(ctx(), "add a", engine.CommitOptions{All: true})
	require.NoError(t, err)

	_, err = e.Update(ctx(), root)
	require.NoError(t, err)

	r.writeFile("b.txt", "b\n")
	branchB, err := e.Commit(ctx(), "add b", engine.CommitOptions{All: true})
	require.NoError(t, err)

	moved, err := e.Rebase(ctx(), branchA.ID, branchB.ID)
	require.NoError(t, err)
	assert.Equal(t, branchB.ID, moved.ParentID)

	refreshedB, err := e.State().GetCommit(branchB.ID)
	require.NoError(t, err)
	assert.Contains(t, refreshedB.Children, branchA.ID)
}

// TestRebaseUnderSibling reproduces the fifth worked scenario: moving a
// two-commit stack's tip under an unrelated sibling leaves the
// original chain's other member untouched and doesn't leak the old
// sibling's content into the new parent.
func TestRebaseUnderSibling(t *testing.T) {
	r := newTestRepo(t)
	e := r.init(t)
	root := e.State().HeadID

	r.writeFile("c1.txt", "commit1\n")
	c1, err := e.Commit(ctx(), "commit1", engine.CommitOptions{All: true})
	require.NoError(t, err)

	r.writeFile("c2.txt", "commit2\n")
	c2, err := e.Commit(ctx(), "commit2", engine.CommitOptions{All: true})
	require.NoError(t, err)

	_, err = e.Update(ctx(), root)
	require.NoError(t, err)

	r.writeFile("c3.txt", "commit3\n")
	c3, err := e.Commit(ctx(), "commit3", engine.CommitOptions{All: true})
	require.NoError(t, err)

	moved, err := e.Rebase(ctx(), c2.ID, c3.ID)
	require.NoError(t, err)
	assert.Equal(t, c3.ID, moved.ParentID)

	refreshedC1, err := e.State().GetCommit(c1.ID)
	require.NoError(t, err)
	assert.NotContains(t, refreshedC1.Children, c2.ID)

	refreshedC3, err := e.State().GetCommit(c3.ID)
	require.NoError(t, err)
	assert.Contains(t, refreshedC3.Children, c2.ID)
}

// TestRebaseEndsOnSourceWhenSourceHasDescendants guards against
// Rebase leaving head on the last descendant its queued evolves
// touched, rather than on source itself, per §6's rebase(source, dest)
// ending in an implicit update(source_id).
func TestRebaseEndsOnSourceWhenSourceHasDescendants(t *testing.T) {
	r := newTestRepo(t)
	e := r.init(t)
	root := e.State().HeadID

	r.writeFile("c1.txt", "commit1\n")
	c1, err := e.Commit(ctx(), "commit1", engine.CommitOptions{All: true})
	require.NoError(t, err)

	r.writeFile("c2.txt", "commit2\n")
	c2, err := e.Commit(ctx(), "commit2", engine.CommitOptions{All: true})
	require.NoError(t, err)

	_, err = e.Update(ctx(), root)
	require.NoError(t, err)

	r.writeFile("c3.txt", "commit3\n")
	c3, err := e.Commit(ctx(), "commit3", engine.CommitOptions{All: true})
	require.NoError(t, err)

	_, err = e.Rebase(ctx(), c1.ID, c3.ID)
	require.NoError(t, err)

	assert.Equal(t, c1.ID, e.State().HeadID, "head should end on the rebased source, not its evolved descendant")

	current := r.git("branch", "--show-current")
	assert.Equal(t, c1.ID+"\n", current)

	_ = c2
}
