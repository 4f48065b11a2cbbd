package engine_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pushUpstreamBranch simulates a teammate's branch: clones bare, forks
// a new branch off main with one commit, and pushes that branch (not
// main) back.
func pushUpstreamBranch(t *testing.T, bare, branch, filename, contents string) {
	t.Helper()
	clone := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = clone
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}
	require.NoError(t, exec.Command("git", "clone", bare, clone).Run())
	run("config", "user.name", "Upstream User")
	run("config", "user.email", "upstream@example.com")
	run("checkout", "-b", branch)
	require.NoError(t, os.WriteFile(filepath.Join(clone, filename), []byte(contents), 0o644))
	run("add", "-A")
	run("commit", "-m", "work on "+branch)
	run("push", "origin", branch)
}

func TestPatchImportsRemoteBranchAsLocalCommit(t *testing.T) {
	r := newTestRepo(t)
	bare := r.addOrigin(t)
	e := r.init(t)

	pushUpstreamBranch(t, bare, "feature-x", "feature.txt", "imported work\n")

	c, err := e.Patch(ctx(), "feature-x")
	require.NoError(t, err)
	assert.Equal(t, "feature-x", c.UpstreamBranch)
	assert.False(t, c.Remote)

	parent, err := e.State().GetCommit(c.ParentID)
	require.NoError(t, err)
	assert.True(t, parent.Remote)

	assert.Equal(t, c.ID, e.State().HeadID)
}
