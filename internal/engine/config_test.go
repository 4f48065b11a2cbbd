package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetConfigAppliesKnownKeys(t *testing.T) {
	r := newTestRepo(t)
	e := r.init(t)

	err := e.SetConfig("remote_branch_prefix", "gg/")
	require.NoError(t, err)
	assert.Equal(t, "gg/", e.GetConfig().RemoteBranchPrefix)

	err = e.SetConfig("verbose", "true")
	require.NoError(t, err)
	assert.True(t, e.GetConfig().Verbose)
}

func TestSetConfigRejectsUnknownKey(t *testing.T) {
	r := newTestRepo(t)
	e := r.init(t)

	err := e.SetConfig("not_a_real_key", "x")
	assert.Error(t, err)
}

func TestCheckStateAndGetBadStatesAgreeOnCleanGraph(t *testing.T) {
	r := newTestRepo(t)
	e := r.init(t)

	require.NoError(t, e.CheckState())
	assert.NoError(t, e.GetBadStates())
}
