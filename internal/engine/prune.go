package engine

import "context"

// pruneCommits implements §4.6.12: a remote node with children, none
// of which are non-remote, carries no information the graph still
// needs — it is removed, its children re-linked to its parent (or
// promoted to root if it was root), and its local branch deleted.
// Pruning can cascade, so the scan repeats until a full pass finds
// nothing left to prune.
func (e *Engine) pruneCommits(ctx context.Context) error {
	for {
		prunedAny := false
		for id, c := range e.state.Commits {
			if !c.Remote || len(c.Children) == 0 {
				continue
			}
			redundant := true
			for _, childID := range c.Children {
				child, err := e.state.GetCommit(childID)
				if err != nil {
					return err
				}
				if !child.Remote {
					redundant = false
					break
				}
			}
			if !redundant {
				continue
			}

			parentID := c.ParentID
			for _, childID := range c.Children {
				child, err := e.state.GetCommit(childID)
				if err != nil {
					return err
				}
				child.ParentID = parentID
				if parentID != "" {
					if parent, err := e.state.GetCommit(parentID); err == nil {
						parent.Children = append(parent.Children, childID)
					}
				}
			}
			if parentID != "" {
				if parent, err := e.state.GetCommit(parentID); err == nil {
					parent.Children = removeString(parent.Children, id)
				}
			}
			if e.state.RootID == id && len(c.Children) > 0 {
				e.state.RootID = c.Children[0]
			}
			if e.state.HeadID == id && len(c.Children) > 0 {
				e.state.HeadID = c.Children[0]
			}

			if exists, _ := e.drv.BranchExists(ctx, id); exists {
				_ = e.drv.DeleteBranch(ctx, id)
			}
			delete(e.state.Commits, id)
			prunedAny = true
			break
		}
		if !prunedAny {
			return nil
		}
	}
}
