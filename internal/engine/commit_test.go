package engine_test

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitgud/gitgud/internal/engine"
)

func TestCommitCreatesRootWhenGraphEmpty(t *testing.T) {
	r := newTestRepo(t)
	e := r.init(t)

	assert.NotEmpty(t, e.State().RootID)
	assert.Equal(t, e.State().RootID, e.State().HeadID)
	root, err := e.State().Root()
	require.NoError(t, err)
	assert.Empty(t, root.ParentID)
}

func TestCommitStacksOnHead(t *testing.T) {
	r := newTestRepo(t)
	e := r.init(t)
	root := e.State().HeadID

	r.writeFile("a.txt", "a\n")
	c, err := e.Commit(ctx(), "add a", engine.CommitOptions{All: true})
	require.NoError(t, err)

	assert.Equal(t, root, c.ParentID)
	assert.Equal(t, c.ID, e.State().HeadID)

	parent, err := e.State().GetCommit(root)
	require.NoError(t, err)
	assert.Contains(t, parent.Children, c.ID)
}

func TestAmendMarksDescendantsNeedsEvolve(t *testing.T) {
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

	r.writeFile("a.txt", "a-changed\n")
	amended, err := e.Amend(ctx())
	require.NoError(t, err)
	assert.Equal(t, base.ID, amended.ID)

	refreshedChild, err := e.State().GetCommit(child.ID)
	require.NoError(t, err)
	assert.True(t, refreshedChild.NeedsEvolve)
}

// TestCommitAfterAmendStaysOnAmendedBranch guards against Amend leaving
// the real checkout on the commit's history branch: copyBranchState
// (driven here via takeSnapshot) renames its temp branch onto
// history_<id>, and a rename follows the currently checked out branch,
// so without an explicit restore the next Commit() would branch off
// history_<id>'s tip instead of <id>'s, silently detaching the new
// commit's real git ancestry from its recorded parent.
func TestCommitAfterAmendStaysOnAmendedBranch(t *testing.T) {
	r := newTestRepo(t)
	e := r.init(t)

	r.writeFile("a.txt", "a\n")
	first, err := e.Commit(ctx(), "first", engine.CommitOptions{All: true})
	require.NoError(t, err)

	r.writeFile("a.txt", "a-changed\n")
	amended, err := e.Amend(ctx())
	require.NoError(t, err)
	assert.Equal(t, first.ID, amended.ID)

	current := r.git("branch", "--show-current")
	assert.Equal(t, first.ID+"\n", current, "checkout should stay on the commit's own branch after amend, not its history branch")

	r.writeFile("b.txt", "b\n")
	second, err := e.Commit(ctx(), "second", engine.CommitOptions{All: true})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ParentID)

	out := exec.Command("git", "merge-base", "--is-ancestor", first.ID, second.ID)
	out.Dir = r.dir
	assert.NoError(t, out.Run(), "second's real git ancestry should include first after an amend with no intervening update")
}
