package engine

import (
	"context"
	"fmt"

	"github.com/gitgud/gitgud/internal/git"
	"github.com/gitgud/gitgud/internal/graph"
)

// continueEvolve is called after every successful or conflict-resolved
// rebase step, per §4.6.11. It fixes up the graph's parent/child
// pointers to match the new topology, refreshes the child's hash,
// folds the parent's history branch into the child's, snapshots, and
// drains whatever operations are still queued.
func (e *Engine) continueEvolve(ctx context.Context, childID, parentID, msg string) error {
	child, err := e.state.GetCommit(childID)
	if err != nil {
		return err
	}
	parent, err := e.state.GetCommit(parentID)
	if err != nil {
		return err
	}

	if child.ParentID != "" && child.ParentID != parentID {
		if oldParent, ok := e.state.Commits[child.ParentID]; ok {
			oldParent.Children = removeString(oldParent.Children, childID)
		}
	}
	if child.ParentID != parentID {
		child.ParentID = parentID
		if !containsString(parent.Children, childID) {
			parent.Children = append(parent.Children, childID)
		}
	}

	if err := e.drv.Checkout(ctx, child.ID, false); err != nil {
		return err
	}
	newHash, err := e.drv.RevParse(ctx, "HEAD")
	if err != nil {
		return err
	}
	child.Hash = newHash
	child.ParentHash = parent.Hash
	child.NeedsEvolve = false
	child.Uploaded = false

	if err := e.foldHistoryBranch(ctx, child, parent, msg); err != nil {
		return err
	}

	if err := e.drv.Checkout(ctx, child.ID, false); err != nil {
		return err
	}
	if err := e.takeSnapshot(ctx, child); err != nil {
		return err
	}
	e.state.HeadID = child.ID

	if err := e.persist(); err != nil {
		return err
	}

	return e.q.Drain(func(op graph.PendingOperation) error {
		return e.dispatchPendingOperation(ctx, op)
	})
}

// foldHistoryBranch merges parent's history branch into child's,
// giving the history chain a merge commit that records both lines of
// snapshots. On conflict, child's own tree wins: force-take it, then
// re-copy child's actual tree via copyBranchState so the history
// branch's contents always match what's really on child's commit
// branch.
func (e *Engine) foldHistoryBranch(ctx context.Context, child, parent *graph.Commit, msg string) error {
	if err := e.drv.Checkout(ctx, child.HistoryBranch, false); err != nil {
		return err
	}

	err := e.drv.Merge(ctx, parent.HistoryBranch)
	if err == nil {
		dirty, diffErr := e.drv.HasUncommittedChanges(ctx)
		if diffErr != nil {
			return diffErr
		}
		if dirty {
			return e.drv.Commit(ctx, msg, git.CommitOptions{})
		}
		return nil
	}

	if _, ok := err.(*git.Failure); !ok {
		return err
	}

	if err := e.drv.RebaseAbort(ctx); err != nil {
		_ = err // merge (not rebase) may have nothing to abort; best effort
	}
	if err := e.drv.CheckoutPathsFromRef(ctx, child.ID); err != nil {
		return err
	}
	if err := e.drv.AddAll(ctx); err != nil {
		return err
	}
	if err := e.drv.Commit(ctx, msg, git.CommitOptions{AllowEmpty: true}); err != nil {
		return err
	}
	_, copyErr := e.copyBranchState(ctx, child.ID, child.HistoryBranch, child.HistoryBranch, msg)
	return copyErr
}

func (e *Engine) dispatchPendingOperation(ctx context.Context, op graph.PendingOperation) error {
	switch op.Kind {
	case graph.PendingOperationEvolve:
		return e.evolveTargeted(ctx, op.BaseID, op.TargetID)
	default:
		return fmt.Errorf("unknown pending operation kind %q", op.Kind)
	}
}

// RebaseContinue resumes after the user has resolved a recorded merge
// conflict: it stages exactly the files recorded in
// MergeConflictState.Files (never `add -A`, per original_source), runs
// `git rebase --continue` with GIT_EDITOR disabled, clears the
// conflict state, fixes up the graph via continueEvolve, and drains
// the queue.
func (e *Engine) RebaseContinue(ctx context.Context) (*graph.Commit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	mc := e.state.MergeConflictState
	if mc == nil {
		return nil, fmt.Errorf("rebase_continue called with no merge conflict in progress")
	}

	if err := e.drv.Add(ctx, mc.Files); err != nil {
		return nil, err
	}
	if err := e.drv.RebaseContinue(ctx, true); err != nil {
		if failure, ok := err.(*git.Failure); ok {
			mc.Files = failure.Files
			if saveErr := e.persist(); saveErr != nil {
				return nil, saveErr
			}
			return nil, err
		}
		return nil, err
	}

	current, err := e.state.GetCommit(mc.CurrentID)
	if err != nil {
		return nil, err
	}
	incoming, err := e.state.GetCommit(mc.IncomingID)
	if err != nil {
		return nil, err
	}
	e.state.MergeConflictState = nil

	if err := e.continueEvolve(ctx, incoming.ID, current.ID, incoming.Description); err != nil {
		return nil, err
	}
	return incoming, nil
}
