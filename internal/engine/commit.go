package engine

import (
	"context"

	"github.com/gitgud/gitgud/internal/git"
	"github.com/gitgud/gitgud/internal/graph"
)

// CommitOptions tunes Commit, mirroring §4.6.1's all=true staging
// flag and the optional seed history branch evolve uses when it wants
// a new node to continue an existing snapshot chain.
type CommitOptions struct {
	All               bool
	SeedHistoryBranch string
}

// Commit creates a new node on top of the current head: it derives a
// branch name from msg, branches and checks out, stages when opts.All,
// commits, and creates a parallel history branch.
func (e *Engine) Commit(ctx context.Context, msg string, opts CommitOptions) (*graph.Commit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireNoConflict("commit"); err != nil {
		return nil, err
	}

	id := graph.BranchName(msg, e.state.Config.RandomizeBranches)
	var parentID string
	if e.state.HeadID != "" {
		parentID = e.state.HeadID
		if err := e.drv.CreateBranch(ctx, id, ""); err != nil {
			return nil, err
		}
		if err := e.drv.Checkout(ctx, id, false); err != nil {
			return nil, err
		}
	} else {
		if err := e.drv.SwitchForce(ctx, id, "HEAD"); err != nil {
			return nil, err
		}
	}

	if opts.All {
		if err := e.drv.AddAll(ctx); err != nil {
			return nil, err
		}
	}
	if err := e.drv.Commit(ctx, msg, git.CommitOptions{}); err != nil {
		return nil, err
	}

	hash, err := e.drv.RevParse(ctx, "HEAD")
	if err != nil {
		return nil, err
	}
	date, err := e.drv.CommitDate(ctx, "HEAD")
	if err != nil {
		return nil, err
	}

	hb := historyBranch(id)
	seed := opts.SeedHistoryBranch
	if seed == "" {
		seed = "HEAD"
	}
	if err := e.drv.CreateBranch(ctx, hb, seed); err != nil {
		return nil, err
	}

	c := &graph.Commit{
		ID:            id,
		Hash:          hash,
		Description:   msg,
		ParentID:      parentID,
		Children:      []string{},
		HistoryBranch: hb,
		Date:          date,
		Snapshots:     []graph.Snapshot{{Hash: hash, Description: msg}},
	}
	e.state.Commits[id] = c
	if parentID != "" {
		parent, err := e.state.GetCommit(parentID)
		if err != nil {
			return nil, err
		}
		parent.Children = append(parent.Children, id)
		c.ParentHash = parent.Hash
	} else {
		e.state.RootID = id
	}
	e.state.HeadID = id

	if err := e.persist(); err != nil {
		return nil, err
	}
	return c, nil
}
