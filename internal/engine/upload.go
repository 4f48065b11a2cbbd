package engine

import (
	"context"
	"fmt"

	ggerrors "github.com/gitgud/gitgud/internal/errors"
	"github.com/gitgud/gitgud/internal/graph"
)

// Upload pushes a single commit's history branch to the remote and, on
// its first push, opens a draft pull request, per §4.6.13.
func (e *Engine) Upload(ctx context.Context, id string) (*graph.Commit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireNoConflict("upload"); err != nil {
		return nil, err
	}
	c, err := e.state.GetCommit(id)
	if err != nil {
		return nil, err
	}
	if err := e.uploadOne(ctx, c); err != nil {
		return nil, err
	}
	if err := e.persist(); err != nil {
		return nil, err
	}
	return c, nil
}

// UploadAll traverses the graph from root and uploads every non-remote
// node not already uploaded, in traversal order, so a parent is always
// uploaded before the child whose PR needs it as a base.
func (e *Engine) UploadAll(ctx context.Context) ([]*graph.Commit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.requireNoConflict("upload"); err != nil {
		return nil, err
	}

	var uploaded []*graph.Commit
	err := e.state.Traverse(e.state.RootID, false, func(c *graph.Commit) error {
		if c.Remote || c.Uploaded {
			return nil
		}
		if err := e.uploadOne(ctx, c); err != nil {
			return err
		}
		uploaded = append(uploaded, c)
		return nil
	})
	if err != nil {
		if saveErr := e.persist(); saveErr != nil {
			return nil, saveErr
		}
		return nil, err
	}

	if err := e.persist(); err != nil {
		return nil, err
	}
	return uploaded, nil
}

func (e *Engine) uploadOne(ctx context.Context, c *graph.Commit) error {
	if err := e.requireNotRemote(c, "upload"); err != nil {
		return err
	}
	if c.Uploaded {
		return nil
	}

	firstPush := c.UpstreamBranch == ""
	branch := c.UpstreamBranch
	if firstPush {
		branch = e.state.Config.RemoteBranchPrefix + c.ID
	}

	if err := e.drv.Checkout(ctx, c.HistoryBranch, false); err != nil {
		return err
	}
	refspec := fmt.Sprintf("%s:%s", c.HistoryBranch, branch)
	if err := e.drv.Push(ctx, "origin", refspec, firstPush); err != nil {
		return err
	}

	if firstPush {
		c.UpstreamBranch = branch

		if e.prov != nil {
			baseBranch := e.state.MasterBranch
			if c.ParentID != "" {
				parent, err := e.state.GetCommit(c.ParentID)
				if err != nil {
					return err
				}
				if !parent.Remote && !parent.Uploaded {
					return ggerrors.NewBadGitGudStateError(fmt.Sprintf("cannot upload %s before its parent %s", c.ID, parent.ID))
				}
				if parent.UpstreamBranch != "" {
					baseBranch = parent.UpstreamBranch
				} else if parent.Remote {
					baseBranch = e.state.MasterBranch
				}
			}

			pr, err := e.prov.CreatePullRequest(ctx, graph.Oneliner(c.Description), branch, baseBranch)
			if err != nil {
				return err
			}
			c.PullRequest = &graph.PullRequest{
				ID:               pr.ID,
				Title:            pr.Title,
				RemoteBranch:     pr.RemoteBranch,
				RemoteBaseBranch: pr.RemoteBaseBranch,
				State:            graph.PullRequestState(pr.State),
				Merged:           pr.Merged,
				MergeCommitSHA:   pr.MergeCommitSHA,
			}
		}
	}

	c.Uploaded = true
	return nil
}
