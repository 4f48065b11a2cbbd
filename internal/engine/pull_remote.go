package engine

import (
	"context"

	"github.com/gitgud/gitgud/internal/graph"
)

func remoteBranchID(hash string) string {
	if len(hash) > 8 {
		hash = hash[:8]
	}
	return "master@" + hash
}

// findNewestRemote returns the remote commit with no other remote
// commit after it, determined by pairwise comes_before. Returns nil if
// the graph has no remote commits yet.
func (e *Engine) findNewestRemote(ctx context.Context) (*graph.Commit, error) {
	var remotes []*graph.Commit
	for _, c := range e.state.Commits {
		if c.Remote {
			remotes = append(remotes, c)
		}
	}
	if len(remotes) == 0 {
		return nil, nil
	}

	newest := remotes[0]
	prevBranch, _ := e.drv.CurrentBranch(ctx)
	for _, c := range remotes[1:] {
		before, err := graph.ComesBefore(ctx, e.drv, e.state.MasterBranch, newest, c)
		if err != nil {
			if prevBranch != "" {
				_ = e.drv.Checkout(ctx, prevBranch, false)
			}
			return nil, err
		}
		if before {
			newest = c
		}
	}
	if prevBranch != "" {
		_ = e.drv.Checkout(ctx, prevBranch, false)
	}
	return newest, nil
}

// pullRemote implements §4.6.7: fetch master from origin, synthesize a
// remote node for the new tip, and insert it into the graph if it is
// genuinely new.
func (e *Engine) pullRemote(ctx context.Context) (*graph.Commit, error) {
	newest, err := e.findNewestRemote(ctx)
	if err != nil {
		return nil, err
	}

	if err := e.drv.Checkout(ctx, e.state.MasterBranch, false); err != nil {
		return nil, err
	}
	if err := e.drv.PullRebase(ctx, "origin", e.state.MasterBranch); err != nil {
		return nil, err
	}
	if err := e.drv.SubmoduleUpdateInitRecursive(ctx); err != nil {
		return nil, err
	}

	hash, err := e.drv.RevParse(ctx, e.state.MasterBranch)
	if err != nil {
		return nil, err
	}

	if newest != nil && newest.Hash == hash {
		return newest, nil
	}

	id := remoteBranchID(hash)
	if existing, ok := e.state.Commits[id]; ok {
		return existing, nil
	}

	msg, err := e.drv.CommitMessage(ctx, hash)
	if err != nil {
		return nil, err
	}
	date, err := e.drv.CommitDate(ctx, hash)
	if err != nil {
		return nil, err
	}
	hb := historyBranch(id)
	if err := e.drv.CreateBranch(ctx, hb, hash); err != nil {
		return nil, err
	}

	node := &graph.Commit{
		ID:            id,
		Hash:          hash,
		Description:   msg,
		Children:      []string{},
		HistoryBranch: hb,
		Date:          date,
		Remote:        true,
		Uploaded:      true,
		Snapshots:     []graph.Snapshot{{Hash: hash, Description: msg}},
	}
	e.state.Commits[id] = node

	if err := e.insertRemoteCommit(ctx, node); err != nil {
		return nil, err
	}

	if newest != nil {
		if err := e.pruneCommits(ctx); err != nil {
			return nil, err
		}
	}

	return node, nil
}

// PullRemote is the public entrypoint for a standalone remote refresh,
// used directly when head is already remote (§4.6.6's sync fast path).
func (e *Engine) PullRemote(ctx context.Context) (*graph.Commit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireNoConflict("pull_remote"); err != nil {
		return nil, err
	}
	node, err := e.pullRemote(ctx)
	if err != nil {
		return nil, err
	}
	if err := e.persist(); err != nil {
		return nil, err
	}
	return node, nil
}
