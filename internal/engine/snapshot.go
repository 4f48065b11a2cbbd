package engine

import (
	"context"
	"fmt"

	ggerrors "github.com/gitgud/gitgud/internal/errors"
	"github.com/gitgud/gitgud/internal/git"
	"github.com/gitgud/gitgud/internal/graph"
)

// copyBranchState overwrites dest's tree with source's tree while
// keeping dest's ref identity, per §4.6.10's `_copy_branch_state`:
// branch a temp ref at source, soft-reset it onto resetOnto (staging
// the tree diff with resetOnto as parent), commit if there's anything
// staged, then force-rename the temp branch over dest. resetOnto is
// usually dest itself (the new commit simply extends dest's history),
// but squash passes dest's own parent so the resulting commit replaces
// dest outright instead of sitting as its child. Returns the resulting
// hash of dest.
func (e *Engine) copyBranchState(ctx context.Context, source, resetOnto, dest, msg string) (string, error) {
	tmp := "gg-copy-" + dest
	if err := e.drv.CreateBranch(ctx, tmp, source); err != nil {
		return "", err
	}
	if err := e.drv.Checkout(ctx, tmp, false); err != nil {
		return "", err
	}
	if err := e.drv.ResetSoft(ctx, resetOnto); err != nil {
		return "", err
	}

	dirty, err := e.drv.HasUncommittedChanges(ctx)
	if err != nil {
		return "", err
	}
	if dirty {
		if err := e.drv.AddAll(ctx); err != nil {
			return "", err
		}
		if err := e.drv.Commit(ctx, msg, git.CommitOptions{}); err != nil {
			return "", err
		}
	}

	if err := e.drv.RenameBranch(ctx, tmp, dest); err != nil {
		return "", err
	}
	return e.drv.RevParse(ctx, dest)
}

// takeSnapshot copies c's current commit-branch tree onto its history
// branch and records the resulting hash as a new Snapshot. If the
// history branch's tree already matches c's (no diff), no commit is
// made and no snapshot is recorded.
func (e *Engine) takeSnapshot(ctx context.Context, c *graph.Commit) error {
	before, err := e.drv.RevParse(ctx, c.HistoryBranch)
	if err != nil {
		return err
	}
	after, err := e.copyBranchState(ctx, c.ID, c.HistoryBranch, c.HistoryBranch, fmt.Sprintf("snapshot: %s", graph.Oneliner(c.Description)))
	if err != nil {
		return err
	}
	// copyBranchState's rename leaves the checkout on c.HistoryBranch,
	// not c's own branch — restore it so callers (amendInPlace,
	// continueEvolve) keep operating on the commit's real working branch.
	if err := e.drv.Checkout(ctx, c.ID, false); err != nil {
		return err
	}
	if after == before {
		return nil
	}
	c.Snapshots = append(c.Snapshots, graph.Snapshot{Hash: after, Description: c.Description})
	return nil
}

// Snapshot explicitly records the head's current tree as a new
// snapshot, with an optional custom message; msg defaults to the
// head's own description.
func (e *Engine) Snapshot(ctx context.Context, msg string) (*graph.Commit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireNoConflict("snapshot"); err != nil {
		return nil, err
	}
	head, err := e.state.Head()
	if err != nil {
		return nil, err
	}
	if msg == "" {
		msg = head.Description
	}

	before, err := e.drv.RevParse(ctx, head.HistoryBranch)
	if err != nil {
		return nil, err
	}
	after, err := e.copyBranchState(ctx, head.ID, head.HistoryBranch, head.HistoryBranch, msg)
	if err != nil {
		return nil, err
	}
	// As in takeSnapshot, the rename leaves us checked out on the history
	// branch rather than head's own — restore it before returning.
	if err := e.drv.Checkout(ctx, head.ID, false); err != nil {
		return nil, err
	}
	if after != before {
		head.Snapshots = append(head.Snapshots, graph.Snapshot{Hash: after, Description: msg})
	}

	if err := e.persist(); err != nil {
		return nil, err
	}
	return head, nil
}

// RestoreSnapshot copies the tree recorded at hash (one of head's
// Snapshots) back onto head and amends it in — which itself takes a
// fresh snapshot, so restoring is always additive: nothing is ever
// dropped from the history branch.
func (e *Engine) RestoreSnapshot(ctx context.Context, hash string) (*graph.Commit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireNoConflict("restore_snapshot"); err != nil {
		return nil, err
	}
	head, err := e.state.Head()
	if err != nil {
		return nil, err
	}
	if err := e.requireNotRemote(head, "restore_snapshot"); err != nil {
		return nil, err
	}

	found := false
	for _, snap := range head.Snapshots {
		if snap.Hash == hash {
			found = true
			break
		}
	}
	if !found {
		return nil, ggerrors.NewBadGitGudStateError(fmt.Sprintf("hash %s is not a recorded snapshot of %s", hash, head.ID))
	}

	if err := e.drv.Checkout(ctx, head.ID, false); err != nil {
		return nil, err
	}
	if _, err := e.copyBranchState(ctx, hash, head.ID, head.ID, fmt.Sprintf("restore snapshot %s", hash)); err != nil {
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
