package engine

import (
	"context"

	"github.com/gitgud/gitgud/internal/graph"
)

// Sync implements §4.6.6. With all=false it syncs the single stack
// rooted at head's oldest non-remote ancestor. With all=true it
// collects every distinct such ancestor across the whole graph and
// syncs each in turn; a conflict mid-loop stops immediately, leaving
// the remaining stacks and the queue untouched for a later retry.
func (e *Engine) Sync(ctx context.Context, all bool) (*graph.Commit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireNoConflict("sync"); err != nil {
		return nil, err
	}
	if err := e.requireCleanTree(ctx, "sync"); err != nil {
		return nil, err
	}

	if !all {
		node, err := e.syncOne(ctx, e.state.HeadID)
		if err != nil {
			if saveErr := e.persist(); saveErr != nil {
				return nil, saveErr
			}
			return nil, err
		}
		if err := e.persist(); err != nil {
			return nil, err
		}
		return node, nil
	}

	seen := make(map[string]bool)
	var roots []string
	for id, c := range e.state.Commits {
		if c.Remote {
			continue
		}
		oldest, err := e.state.GetOldestNonRemote(id)
		if err != nil {
			return nil, err
		}
		if oldest != nil && !seen[oldest.ID] {
			seen[oldest.ID] = true
			roots = append(roots, oldest.ID)
		}
	}

	var last *graph.Commit
	for _, rid := range roots {
		if _, ok := e.state.Commits[rid]; !ok {
			continue // consumed by an earlier iteration (e.g. rebase-merged dropped it)
		}
		node, err := e.syncOne(ctx, rid)
		if err != nil {
			if saveErr := e.persist(); saveErr != nil {
				return nil, saveErr
			}
			return nil, err
		}
		last = node
	}

	if err := e.persist(); err != nil {
		return nil, err
	}
	return last, nil
}

// syncOne syncs the single stack whose oldest non-remote member is
// commitID (or, if commitID is itself remote, just refreshes it).
func (e *Engine) syncOne(ctx context.Context, commitID string) (*graph.Commit, error) {
	c, err := e.state.GetCommit(commitID)
	if err != nil {
		return nil, err
	}
	if c.Remote {
		return e.pullRemote(ctx)
	}

	root, err := e.state.GetOldestNonRemote(commitID)
	if err != nil {
		return nil, err
	}

	newRemote, err := e.pullRemote(ctx)
	if err != nil {
		return nil, err
	}

	if root.PullRequest != nil && e.prov != nil {
		pr, err := e.prov.GetPullRequest(ctx, root.PullRequest.ID)
		if err != nil {
			return nil, err
		}
		root.PullRequest.State = graph.PullRequestState(pr.State)
		root.PullRequest.Merged = pr.Merged
		root.PullRequest.MergeCommitSHA = pr.MergeCommitSHA
	}

	if root.PullRequest != nil && root.PullRequest.State == graph.PullRequestMerged {
		newNode, err := e.rebaseMergedCommit(ctx, root)
		if err != nil {
			return nil, err
		}
		for _, childID := range append([]string{}, newNode.Children...) {
			if _, err := e.syncOne(ctx, childID); err != nil {
				return nil, err
			}
		}
		return newNode, nil
	}

	if err := e.evolveTargeted(ctx, newRemote.ID, root.ID); err != nil {
		return nil, err
	}
	if err := e.pruneCommits(ctx); err != nil {
		return nil, err
	}
	return root, nil
}
