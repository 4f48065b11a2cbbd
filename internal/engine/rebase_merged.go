package engine

import (
	"context"
	"fmt"

	ggerrors "github.com/gitgud/gitgud/internal/errors"
	"github.com/gitgud/gitgud/internal/graph"
)

// rebaseMergedCommit implements §4.6.9: once local's pull request has
// merged, its merge commit becomes a new remote node, every child of
// local is rebased onto it, and local itself is dropped. If the
// resulting remote tree disagrees with what local actually held, the
// merge evidently picked up changes made after local's PR was opened —
// a case this port, like the design it follows, declines to resolve
// automatically.
func (e *Engine) rebaseMergedCommit(ctx context.Context, local *graph.Commit) (*graph.Commit, error) {
	sha := local.PullRequest.MergeCommitSHA
	if sha == "" {
		return nil, ggerrors.NewBadGitGudStateError(fmt.Sprintf("commit %s has no recorded merge_commit_sha", local.ID))
	}

	if err := e.drv.Fetch(ctx, "origin"); err != nil {
		return nil, err
	}
	if err := e.drv.CheckoutDetached(ctx, sha); err != nil {
		return nil, err
	}

	remoteID := remoteBranchID(sha)
	remote, exists := e.state.Commits[remoteID]
	if !exists {
		msg, err := e.drv.CommitMessage(ctx, sha)
		if err != nil {
			return nil, err
		}
		date, err := e.drv.CommitDate(ctx, sha)
		if err != nil {
			return nil, err
		}
		hb := historyBranch(remoteID)
		if err := e.drv.CreateBranch(ctx, hb, sha); err != nil {
			return nil, err
		}
		remote = &graph.Commit{
			ID:            remoteID,
			Hash:          sha,
			Description:   msg,
			Children:      []string{},
			HistoryBranch: hb,
			Date:          date,
			Remote:        true,
			Uploaded:      true,
			Snapshots:     []graph.Snapshot{{Hash: sha, Description: msg}},
		}
		e.state.Commits[remoteID] = remote
		if err := e.insertRemoteCommit(ctx, remote); err != nil {
			return nil, err
		}
	}

	for _, childID := range append([]string{}, local.Children...) {
		if err := e.evolveTargeted(ctx, remote.ID, childID); err != nil {
			return nil, err
		}
	}

	empty, err := e.drv.IsDiffEmpty(ctx, local.Hash, remote.Hash)
	if err != nil {
		return nil, err
	}
	if !empty {
		return nil, fmt.Errorf("%w: commit %s's merge commit diverges from its last known tree", ggerrors.ErrNotImplemented, local.ID)
	}

	if e.state.HeadID == local.ID {
		e.state.HeadID = remote.ID
	}
	if err := e.dropCommit(ctx, local.ID); err != nil {
		return nil, err
	}

	return remote, nil
}
