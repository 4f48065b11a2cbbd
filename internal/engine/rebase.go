package engine

import (
	"context"

	ggerrors "github.com/gitgud/gitgud/internal/errors"
	"github.com/gitgud/gitgud/internal/graph"
)

// Rebase changes source's parent to dest, per §4.6.4.
//
// A remote source may only be rebased onto another remote dest that
// comes_before it in history; this is a pure graph-pointer move, no
// Git work. A local source is physically rebased: every descendant is
// marked needs_evolve, the source branch itself is moved with `rebase
// --onto dest.hash source.parent_hash source.id`, and on success the
// queued descendant evolves are drained.
func (e *Engine) Rebase(ctx context.Context, sourceID, destID string) (*graph.Commit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireNoConflict("rebase"); err != nil {
		return nil, err
	}
	source, err := e.state.GetCommit(sourceID)
	if err != nil {
		return nil, err
	}
	dest, err := e.state.GetCommit(destID)
	if err != nil {
		return nil, err
	}

	if source.Remote {
		return e.rebaseRemotePointer(ctx, source, dest)
	}

	if err := e.state.Traverse(source.ID, true, func(c *graph.Commit) error {
		c.NeedsEvolve = true
		return nil
	}); err != nil {
		return nil, err
	}
	if err := e.enqueueEvolveDescendants(source.ID); err != nil {
		return nil, err
	}

	if err := e.evolveTargeted(ctx, destID, sourceID); err != nil {
		if saveErr := e.persist(); saveErr != nil {
			return nil, saveErr
		}
		return nil, err
	}

	// §6's rebase(source, dest) ends with update(source_id): draining the
	// queued descendant evolves leaves HeadID (and the real checkout) on
	// whichever descendant continueEvolve last ran for, not source.
	if err := e.drv.Checkout(ctx, sourceID, false); err != nil {
		if saveErr := e.persist(); saveErr != nil {
			return nil, saveErr
		}
		return nil, err
	}
	e.state.HeadID = sourceID

	if err := e.persist(); err != nil {
		return nil, err
	}
	return e.state.GetCommit(sourceID)
}

func (e *Engine) rebaseRemotePointer(ctx context.Context, source, dest *graph.Commit) (*graph.Commit, error) {
	if !dest.Remote {
		return nil, ggerrors.NewInvalidOperationForRemoteError(source.ID, "rebase")
	}

	prevBranch, _ := e.drv.CurrentBranch(ctx)
	before, err := graph.ComesBefore(ctx, e.drv, e.state.MasterBranch, dest, source)
	if prevBranch != "" {
		_ = e.drv.Checkout(ctx, prevBranch, false)
	}
	if err != nil {
		return nil, err
	}
	if !before {
		return nil, ggerrors.NewBadGitGudStateError("rebase: dest does not come before source among remote commits")
	}

	if oldParent, ok := e.state.Commits[source.ParentID]; ok {
		oldParent.Children = removeString(oldParent.Children, source.ID)
	}
	source.ParentID = dest.ID
	if !containsString(dest.Children, source.ID) {
		dest.Children = append(dest.Children, source.ID)
	}

	if err := e.persist(); err != nil {
		return nil, err
	}
	return source, nil
}
