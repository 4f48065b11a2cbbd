package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ggerrors "github.com/gitgud/gitgud/internal/errors"
)

func chain(n int) *RepoState {
	s := NewRepoState("/tmp/repo", "main")
	prev := ""
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		c := &Commit{ID: id, Hash: id + "hash", Description: "commit " + id, ParentID: prev}
		s.Commits[id] = c
		if prev != "" {
			parent := s.Commits[prev]
			parent.Children = append(parent.Children, id)
		} else {
			s.RootID = id
		}
		prev = id
	}
	s.HeadID = prev
	return s
}

func TestCheckStateValidChain(t *testing.T) {
	s := chain(4)
	assert.NoError(t, s.CheckState())
}

func TestCheckStateMultipleRoots(t *testing.T) {
	s := chain(2)
	s.Commits["c"] = &Commit{ID: "c", Hash: "chash"}
	err := s.CheckState()
	require.Error(t, err)
	assert.ErrorIs(t, err, ggerrors.ErrBadGitGudState)
}

func TestCheckStateDanglingParent(t *testing.T) {
	s := chain(2)
	s.Commits["b"].ParentID = "ghost"
	assert.Error(t, s.CheckState())
}

func TestCheckStateCycle(t *testing.T) {
	s := chain(3)
	s.Commits["a"].Children = append(s.Commits["a"].Children, "c")
	s.Commits["c"].Children = append(s.Commits["c"].Children, "a")
	assert.Error(t, s.CheckState())
}

func TestTraverse(t *testing.T) {
	s := chain(4)
	var visited []string
	err := s.Traverse(s.RootID, false, func(c *Commit) error {
		visited = append(visited, c.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c", "d"}, visited)
}

func TestTraverseSkipSelf(t *testing.T) {
	s := chain(3)
	var visited []string
	err := s.Traverse(s.RootID, true, func(c *Commit) error {
		visited = append(visited, c.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, visited)
}

func TestGetOldestNonRemote(t *testing.T) {
	s := chain(4)
	s.Commits["a"].Remote = true
	s.Commits["b"].Remote = true
	oldest, err := s.GetOldestNonRemote("d")
	require.NoError(t, err)
	assert.Equal(t, "c", oldest.ID)
}

func TestGetOldestNonRemoteAllRemote(t *testing.T) {
	s := chain(2)
	s.Commits["a"].Remote = true
	s.Commits["b"].Remote = true
	oldest, err := s.GetOldestNonRemote("b")
	require.NoError(t, err)
	assert.Nil(t, oldest)
}
