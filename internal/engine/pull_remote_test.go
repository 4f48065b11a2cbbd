package engine_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// addOrigin makes r's "origin" remote a bare repo seeded with r's
// current main, so tests can simulate upstream drift by committing
// into a second clone of that bare repo and pushing.
func (r *testRepo) addOrigin(t *testing.T) string {
	t.Helper()
	bare := filepath.Join(t.TempDir(), "origin.git")
	cmd := exec.Command("git", "init", "--bare", "-b", "main", bare)
	require.NoError(t, cmd.Run())
	r.git("remote", "add", "origin", bare)
	r.git("push", "-u", "origin", "main")
	return bare
}

// pushUpstreamCommit simulates a teammate's push: clones bare, adds a
// commit on main, and pushes it back.
func pushUpstreamCommit(t *testing.T, bare, filename, contents string) {
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
	require.NoError(t, os.WriteFile(filepath.Join(clone, filename), []byte(contents), 0o644))
	run("add", "-A")
	run("commit", "-m", "upstream change")
	run("push", "origin", "main")
}

func TestPullRemoteInsertsNewUpstreamCommit(t *testing.T) {
	r := newTestRepo(t)
	bare := r.addOrigin(t)
	e := r.init(t)

	beforeCount := len(e.State().Commits)

	pushUpstreamCommit(t, bare, "upstream.txt", "from upstream\n")

	node, err := e.PullRemote(ctx())
	require.NoError(t, err)
	assert.True(t, node.Remote)

	assert.Equal(t, beforeCount+1, len(e.State().Commits))
	require.NoError(t, e.CheckState())
}

func TestPullRemoteSeedsRemoteNodeOnFirstCall(t *testing.T) {
	r := newTestRepo(t)
	r.addOrigin(t)
	e := r.init(t)

	beforeCount := len(e.State().Commits)

	node, err := e.PullRemote(ctx())
	require.NoError(t, err)
	assert.True(t, node.Remote)
	assert.Equal(t, beforeCount+1, len(e.State().Commits), "first pull synthesizes a remote node for the current tip even with no upstream drift")

	// a second call with nothing new upstream must not insert another node
	_, err = e.PullRemote(ctx())
	require.NoError(t, err)
	assert.Equal(t, beforeCount+1, len(e.State().Commits))
}
