package engine

import (
	"context"
	"fmt"

	ggerrors "github.com/gitgud/gitgud/internal/errors"
	"github.com/gitgud/gitgud/internal/graph"
)

// Squash folds source into its parent dest, per §4.6.5. Only a direct
// child→parent squash is supported: source's tree (which already
// contains dest's changes) replaces dest's commit outright, source's
// children are re-parented onto dest, and source is dropped.
func (e *Engine) Squash(ctx context.Context, sourceID, destID string) (*graph.Commit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireNoConflict("squash"); err != nil {
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
	if source.ParentID != destID {
		return nil, ggerrors.NewBadGitGudStateError("squash only supports a direct child onto its parent")
	}
	if err := e.requireNotRemote(source, "squash"); err != nil {
		return nil, err
	}
	if err := e.requireNotRemote(dest, "squash"); err != nil {
		return nil, err
	}
	if err := e.requireNotMerged(dest); err != nil {
		return nil, err
	}

	resetOnto := dest.Hash
	if dest.ParentID != "" {
		if grandparent, err := e.state.GetCommit(dest.ParentID); err == nil {
			resetOnto = grandparent.Hash
		}
	}

	combinedMsg := fmt.Sprintf("%s\n\n%s", dest.Description, source.Description)
	if err := e.drv.Checkout(ctx, dest.ID, false); err != nil {
		return nil, err
	}
	newHash, err := e.copyBranchState(ctx, source.ID, resetOnto, dest.ID, combinedMsg)
	if err != nil {
		return nil, err
	}

	dest.Hash = newHash
	dest.Description = combinedMsg
	dest.Uploaded = false

	children := append([]string{}, source.Children...)
	for _, childID := range children {
		child, err := e.state.GetCommit(childID)
		if err != nil {
			return nil, err
		}
		child.ParentID = dest.ID
		child.NeedsEvolve = true
		dest.Children = append(dest.Children, childID)
	}
	source.Children = nil

	if err := e.takeSnapshot(ctx, dest); err != nil {
		return nil, err
	}

	if e.state.HeadID == source.ID {
		e.state.HeadID = dest.ID
	}
	if err := e.dropCommit(ctx, source.ID); err != nil {
		return nil, err
	}

	if err := e.state.Traverse(dest.ID, true, func(c *graph.Commit) error {
		c.NeedsEvolve = true
		return nil
	}); err != nil {
		return nil, err
	}

	if err := e.persist(); err != nil {
		return nil, err
	}
	return dest, nil
}
