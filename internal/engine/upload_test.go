package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gitgud/gitgud/internal/engine"
)

func TestUploadOpensDraftPullRequestOnFirstPush(t *testing.T) {
	r := newTestRepo(t)
	r.addOrigin(t)
	e := r.init(t)

	r.writeFile("feature.txt", "feature work\n")
	c, err := e.Commit(ctx(), "add feature", engine.CommitOptions{All: true})
	require.NoError(t, err)

	uploaded, err := e.Upload(ctx(), c.ID)
	require.NoError(t, err)
	assert.True(t, uploaded.Uploaded)
	assert.NotEmpty(t, uploaded.UpstreamBranch)
	require.NotNil(t, uploaded.PullRequest)
	assert.Equal(t, "DRAFT", string(uploaded.PullRequest.State))

	// a second upload with nothing new is a no-op, not a second PR
	again, err := e.Upload(ctx(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, uploaded.PullRequest.ID, again.PullRequest.ID)
}

func TestUploadAllUploadsEveryPendingCommitInOrder(t *testing.T) {
	r := newTestRepo(t)
	r.addOrigin(t)
	e := r.init(t)

	r.writeFile("a.txt", "a\n")
	first, err := e.Commit(ctx(), "add a", engine.CommitOptions{All: true})
	require.NoError(t, err)

	r.writeFile("b.txt", "b\n")
	second, err := e.Commit(ctx(), "add b", engine.CommitOptions{All: true})
	require.NoError(t, err)

	uploaded, err := e.UploadAll(ctx())
	require.NoError(t, err)
	require.Len(t, uploaded, 2)
	assert.Equal(t, first.ID, uploaded[0].ID)
	assert.Equal(t, second.ID, uploaded[1].ID)

	refreshedFirst, err := e.State().GetCommit(first.ID)
	require.NoError(t, err)
	assert.True(t, refreshedFirst.Uploaded)
	refreshedSecond, err := e.State().GetCommit(second.ID)
	require.NoError(t, err)
	assert.True(t, refreshedSecond.Uploaded)
}
