package engine

import (
	"context"

	"github.com/gitgud/gitgud/internal/git"
	"github.com/gitgud/gitgud/internal/graph"
)

// Amend rewrites the head commit's working-tree contents in place,
// per §4.6.2: stage everything, `commit --amend --no-edit
// --allow-empty`, record old_hash, mark every descendant
// needs_evolve, clear head's uploaded flag, and take a snapshot.
func (e *Engine) Amend(ctx context.Context) (*graph.Commit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireNoConflict("amend"); err != nil {
		return nil, err
	}
	head, err := e.state.Head()
	if err != nil {
		return nil, err
	}
	if err := e.requireNotRemote(head, "amend"); err != nil {
		return nil, err
	}
	if err := e.requireNotMerged(head); err != nil {
		return nil, err
	}

	if err := e.amendInPlace(ctx, head); err != nil {
		return nil, err
	}

	if err := e.persist(); err != nil {
		return nil, err
	}
	return head, nil
}

// amendInPlace stages whatever is in the working tree, amends it onto
// c's commit (c must already be checked out), records the old hash,
// marks every descendant needs_evolve, clears uploaded, and snapshots.
// Shared between Amend and RestoreSnapshot, neither of which locks or
// persists here — the caller does both.
func (e *Engine) amendInPlace(ctx context.Context, c *graph.Commit) error {
	if err := e.drv.AddAll(ctx); err != nil {
		return err
	}
	if err := e.drv.Commit(ctx, "", git.CommitOptions{Amend: true, NoEdit: true, AllowEmpty: true}); err != nil {
		return err
	}

	newHash, err := e.drv.RevParse(ctx, "HEAD")
	if err != nil {
		return err
	}

	c.OldHash = c.Hash
	c.Hash = newHash
	c.Uploaded = false

	if err := e.state.Traverse(c.ID, true, func(d *graph.Commit) error {
		d.NeedsEvolve = true
		return nil
	}); err != nil {
		return err
	}

	return e.takeSnapshot(ctx, c)
}
