package engine

import (
	"context"

	"github.com/gitgud/gitgud/internal/graph"
)

// Patch imports an existing remote branch as a new, locally-editable
// commit, per §4.6.14: fetch, locate the branch's fork point off
// master, synthesize (or reuse) the corresponding remote node, insert
// it into the graph, and copy the branch's tree into a brand-new local
// commit tagged with that upstream branch.
func (e *Engine) Patch(ctx context.Context, remoteBranch string) (*graph.Commit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireNoConflict("patch"); err != nil {
		return nil, err
	}

	if err := e.drv.Fetch(ctx, "origin"); err != nil {
		return nil, err
	}

	forkPoint, err := e.drv.MergeBase(ctx, e.state.MasterBranch, "origin/"+remoteBranch)
	if err != nil {
		return nil, err
	}

	remoteID := remoteBranchID(forkPoint)
	remote, exists := e.state.Commits[remoteID]
	if !exists {
		msg, err := e.drv.CommitMessage(ctx, forkPoint)
		if err != nil {
			return nil, err
		}
		date, err := e.drv.CommitDate(ctx, forkPoint)
		if err != nil {
			return nil, err
		}
		hb := historyBranch(remoteID)
		if err := e.drv.CreateBranch(ctx, hb, forkPoint); err != nil {
			return nil, err
		}
		remote = &graph.Commit{
			ID:            remoteID,
			Hash:          forkPoint,
			Description:   msg,
			Children:      []string{},
			HistoryBranch: hb,
			Date:          date,
			Remote:        true,
			Uploaded:      true,
			Snapshots:     []graph.Snapshot{{Hash: forkPoint, Description: msg}},
		}
		e.state.Commits[remoteID] = remote
		if err := e.insertRemoteCommit(ctx, remote); err != nil {
			return nil, err
		}
	}

	remoteRef := "origin/" + remoteBranch
	msg, err := e.drv.CommitMessage(ctx, remoteRef)
	if err != nil {
		return nil, err
	}
	date, err := e.drv.CommitDate(ctx, remoteRef)
	if err != nil {
		return nil, err
	}

	id := graph.BranchName(msg, e.state.Config.RandomizeBranches)
	newHash, err := e.copyBranchState(ctx, remoteRef, remote.Hash, id, msg)
	if err != nil {
		return nil, err
	}
	hb := historyBranch(id)
	if err := e.drv.CreateBranch(ctx, hb, id); err != nil {
		return nil, err
	}

	node := &graph.Commit{
		ID:             id,
		Hash:           newHash,
		Description:    msg,
		ParentID:       remote.ID,
		ParentHash:     remote.Hash,
		Children:       []string{},
		HistoryBranch:  hb,
		UpstreamBranch: remoteBranch,
		Date:           date,
		Snapshots:      []graph.Snapshot{{Hash: newHash, Description: msg}},
	}
	e.state.Commits[id] = node
	remote.Children = append(remote.Children, id)
	e.state.HeadID = id

	if err := e.persist(); err != nil {
		return nil, err
	}
	return node, nil
}
