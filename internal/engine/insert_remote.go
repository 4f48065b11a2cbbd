package engine

import (
	"context"

	"github.com/gitgud/gitgud/internal/graph"
)

// insertRemoteCommit implements §4.6.8: it walks the chain of remote
// children from root, following whichever remote child still
// comes_before the new node, and links the new node under the last
// parent that holds. If a remote child was found to come after the new
// node instead, that child's whole subtree is re-parented under the
// new node. ComesBefore checks out master, so the branch checked out on
// entry (if any) is checked out again on return.
func (e *Engine) insertRemoteCommit(ctx context.Context, node *graph.Commit) error {
	if prevBranch, _ := e.drv.CurrentBranch(ctx); prevBranch != "" {
		defer func() { _ = e.drv.Checkout(ctx, prevBranch, false) }()
	}

	current, err := e.state.Root()
	if err != nil {
		return err
	}

	var displaced *graph.Commit
	for {
		var nextRemoteChild *graph.Commit
		for _, childID := range current.Children {
			child, err := e.state.GetCommit(childID)
			if err != nil {
				return err
			}
			if !child.Remote {
				continue
			}
			before, err := graph.ComesBefore(ctx, e.drv, e.state.MasterBranch, child, node)
			if err != nil {
				return err
			}
			if before {
				nextRemoteChild = child
			} else {
				displaced = child
			}
			break
		}
		if nextRemoteChild == nil {
			break
		}
		current = nextRemoteChild
	}

	node.ParentID = current.ID
	current.Children = append([]string{node.ID}, current.Children...)

	if displaced != nil && displaced.ID != node.ID {
		current.Children = removeString(current.Children, displaced.ID)
		displaced.ParentID = node.ID
		node.Children = append(node.Children, displaced.ID)

		if err := e.state.Traverse(displaced.ID, false, func(c *graph.Commit) error {
			if !c.Remote {
				c.NeedsEvolve = true
			}
			return nil
		}); err != nil {
			return err
		}
	}

	return nil
}
