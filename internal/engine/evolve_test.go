package engine_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitgud/gitgud/internal/engine"
	"github.com/gitgud/gitgud/internal/git"
)

// TestLinearAmendWithConflict reproduces the first worked scenario: an
// amend to an ancestor conflicts with a descendant that touched the
// same lines, and resolving + rebase-continuing restores a clean,
// re-evolved stack.
func TestLinearAmendWithConflict(t *testing.T) {
	r := newTestRepo(t)
	e := r.init(t)

	r.writeFile("f.txt", "testing1\n")
	c1, err := e.Commit(ctx(), "My first commit", engine.CommitOptions{All: true})
	require.NoError(t, err)

	r.writeFile("f.txt", "testing1\ntesting2\n")
	c2, err := e.Commit(ctx(), "My second commit", engine.CommitOptions{All: true})
	require.NoError(t, err)

	_, err = e.Update(ctx(), c1.ID)
	require.NoError(t, err)

	r.writeFile("f.txt", "testing1\ntesting3\n")
	_, err = e.Amend(ctx())
	require.NoError(t, err)

	refreshedC2, err := e.State().GetCommit(c2.ID)
	require.NoError(t, err)
	assert.True(t, refreshedC2.NeedsEvolve)

	_, err = e.Evolve(ctx(), c2.ID)
	require.Error(t, err)

	var failure *git.Failure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, git.FailureConflict, failure.Kind)
	assert.Contains(t, failure.Files, "f.txt")
	require.NotNil(t, e.State().MergeConflictState)

	r.writeFile("f.txt", "testing1\ntesting2\ntesting3\n")

	resumed, err := e.RebaseContinue(ctx())
	require.NoError(t, err)
	assert.Equal(t, c2.ID, resumed.ID)
	assert.Equal(t, c2.ID, e.State().HeadID)

	finalC2, err := e.State().GetCommit(c2.ID)
	require.NoError(t, err)
	assert.False(t, finalC2.NeedsEvolve)
	assert.NotEqual(t, c2.Hash, finalC2.Hash)

	contents, err := os.ReadFile(filepath.Join(r.dir, "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "testing1\ntesting2\ntesting3\n", string(contents))
}

// TestEvolveAllPropagatesAcrossMultipleChildren reproduces the sixth
// worked scenario: amending a commit with more than one descendant
// chain evolves every branch of the subtree, not just the first one
// found.
func TestEvolveAllPropagatesAcrossMultipleChildren(t *testing.T) {
	r := newTestRepo(t)
	e := r.init(t)

	r.writeFile("base.txt", "base\n")
	c1, err := e.Commit(ctx(), "base commit", engine.CommitOptions{All: true})
	require.NoError(t, err)

	r.writeFile("c2.txt", "c2\n")
	c2, err := e.Commit(ctx(), "c2", engine.CommitOptions{All: true})
	require.NoError(t, err)

	_, err = e.Update(ctx(), c1.ID)
	require.NoError(t, err)

	r.writeFile("c3.txt", "c3\n")
	c3, err := e.Commit(ctx(), "c3", engine.CommitOptions{All: true})
	require.NoError(t, err)

	r.writeFile("c4.txt", "c4\n")
	c4, err := e.Commit(ctx(), "c4", engine.CommitOptions{All: true})
	require.NoError(t, err)

	_, err = e.Update(ctx(), c1.ID)
	require.NoError(t, err)
	r.writeFile("base.txt", "base-amended\n")
	_, err = e.Amend(ctx())
	require.NoError(t, err)

	_, err = e.EvolveAll(ctx())
	require.NoError(t, err)

	for _, id := range []string{c2.ID, c3.ID, c4.ID} {
		refreshed, err := e.State().GetCommit(id)
		require.NoError(t, err)
		assert.Falsef(t, refreshed.NeedsEvolve, "%s should have evolved", id)
	}

	for _, branch := range []string{c2.ID, c3.ID, c4.ID} {
		contents := r.git("show", branch+":base.txt")
		assert.Equal(t, "base-amended\n", contents)
	}
}

func TestEvolveAllWithNoConflicts(t *testing.T) {
	r := newTestRepo(t)
	e := r.init(t)

	r.writeFile("a.txt", "a\n")
	base, err := e.Commit(ctx(), "add a", engine.CommitOptions{All: true})
	require.NoError(t, err)

	r.writeFile("b.txt", "b\n")
	child, err := e.Commit(ctx(), "add b", engine.CommitOptions{All: true})
	require.NoError(t, err)

	_, err = e.Update(ctx(), base.ID)
	require.NoError(t, err)
	r.writeFile("a.txt", "a-amended\n")
	_, err = e.Amend(ctx())
	require.NoError(t, err)

	_, err = e.EvolveAll(ctx())
	require.NoError(t, err)

	refreshedChild, err := e.State().GetCommit(child.ID)
	require.NoError(t, err)
	assert.False(t, refreshedChild.NeedsEvolve)
	assert.Equal(t, child.ID, e.State().HeadID)
}
