package engine

import (
	"context"

	"github.com/gitgud/gitgud/internal/git"
	"github.com/gitgud/gitgud/internal/graph"
)

// Evolve rebases a single child onto the current head (the "targeted"
// mode of §4.6.3). On a recognized conflict it records
// MergeConflictState and returns the conflict error; the caller
// resolves and calls RebaseContinue.
func (e *Engine) Evolve(ctx context.Context, childID string) (*graph.Commit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireNoConflict("evolve"); err != nil {
		return nil, err
	}
	head, err := e.state.Head()
	if err != nil {
		return nil, err
	}

	if err := e.evolveTargeted(ctx, head.ID, childID); err != nil {
		if saveErr := e.persist(); saveErr != nil {
			return nil, saveErr
		}
		return nil, err
	}

	if err := e.persist(); err != nil {
		return nil, err
	}
	return e.state.GetCommit(childID)
}

// EvolveAll is the recursive mode of §4.6.3: it walks every descendant
// of head, enqueues an Evolve{base, target} operation for each
// non-remote child along the way, and drains the queue. A conflict
// mid-drain leaves the remaining queue intact for a later
// RebaseContinue.
func (e *Engine) EvolveAll(ctx context.Context) (*graph.Commit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireNoConflict("evolve"); err != nil {
		return nil, err
	}
	head, err := e.state.Head()
	if err != nil {
		return nil, err
	}

	err = e.enqueueEvolveDescendants(head.ID)
	if err != nil {
		return nil, err
	}

	if drainErr := e.q.Drain(func(op graph.PendingOperation) error {
		return e.dispatchPendingOperation(ctx, op)
	}); drainErr != nil {
		if saveErr := e.persist(); saveErr != nil {
			return nil, saveErr
		}
		return nil, drainErr
	}

	if err := e.persist(); err != nil {
		return nil, err
	}
	return head, nil
}

// enqueueEvolveDescendants walks every descendant of nodeID (exclusive)
// and enqueues an Evolve{base=parent, target=child} operation for every
// non-remote child that still needs evolving. Shared by EvolveAll and
// Rebase, both of which need the same traversal-ordered fan-out before
// draining.
func (e *Engine) enqueueEvolveDescendants(nodeID string) error {
	return e.state.Traverse(nodeID, false, func(node *graph.Commit) error {
		for _, childID := range node.Children {
			child, err := e.state.GetCommit(childID)
			if err != nil {
				return err
			}
			if child.Remote || !child.NeedsEvolve {
				continue
			}
			e.q.Push(graph.PendingOperation{
				Kind:     graph.PendingOperationEvolve,
				BaseID:   node.ID,
				TargetID: childID,
			})
		}
		return nil
	})
}

// evolveTargeted rebases target onto base: it checks out base, runs
// `rebase --onto base.hash target.parent_hash target.id`, and either
// calls continueEvolve on success or records a conflict. This is the
// primitive both Evolve and the queued recursive steps dispatch
// through.
func (e *Engine) evolveTargeted(ctx context.Context, baseID, targetID string) error {
	base, err := e.state.GetCommit(baseID)
	if err != nil {
		return err
	}
	target, err := e.state.GetCommit(targetID)
	if err != nil {
		return err
	}

	// A remote base has no id-named branch of its own; check out its
	// hash instead.
	if base.Remote {
		if err := e.drv.CheckoutDetached(ctx, base.Hash); err != nil {
			return err
		}
	} else if err := e.drv.Checkout(ctx, base.ID, false); err != nil {
		return err
	}

	rebaseErr := e.drv.RebaseOnto(ctx, base.Hash, target.ParentHash, target.ID)
	if rebaseErr != nil {
		if failure, ok := rebaseErr.(*git.Failure); ok {
			e.state.MergeConflictState = &graph.MergeConflictState{
				CurrentID:  baseID,
				IncomingID: targetID,
				Files:      failure.Files,
			}
			return rebaseErr
		}
		return rebaseErr
	}

	return e.continueEvolve(ctx, targetID, baseID, target.Description)
}
