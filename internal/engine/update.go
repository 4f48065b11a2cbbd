package engine

import (
	"context"

	"github.com/gitgud/gitgud/internal/graph"
)

// Update moves the graph head to id and checks out its working branch,
// per the update(id) operation of §6's external interface. Requires a
// clean working tree (§7's DirtyWorkingTree applies to sync and
// update alike) since switching branches with pending changes would
// silently carry them onto the new commit's branch.
func (e *Engine) Update(ctx context.Context, id string) (*graph.Commit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireNoConflict("update"); err != nil {
		return nil, err
	}
	if err := e.requireCleanTree(ctx, "update"); err != nil {
		return nil, err
	}
	c, err := e.state.GetCommit(id)
	if err != nil {
		return nil, err
	}

	if err := e.drv.Checkout(ctx, id, false); err != nil {
		return nil, err
	}
	e.state.HeadID = id

	if err := e.persist(); err != nil {
		return nil, err
	}
	return c, nil
}
