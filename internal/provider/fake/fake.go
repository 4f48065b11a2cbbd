// Package fake provides a deterministic, in-memory provider.Provider for
// engine tests, mirroring the teacher's own practice of testing the
// engine against a scripted double rather than a live API.
package fake

import (
	"context"
	"fmt"
	"sync"

	ggerrors "github.com/gitgud/gitgud/internal/errors"
	"github.com/gitgud/gitgud/internal/provider"
)

// Provider is a deterministic in-memory Provider. PRs are created as
// drafts, as the real host does, and numbered sequentially starting at
// 0.
type Provider struct {
	mu   sync.Mutex
	next int
	prs  map[string]*provider.PullRequest
}

// New returns an empty fake provider.
func New() *Provider {
	return &Provider{prs: make(map[string]*provider.PullRequest)}
}

var _ provider.Provider = (*Provider)(nil)

func (p *Provider) CreatePullRequest(_ context.Context, title, headBranch, baseBranch string) (*provider.PullRequest, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id := fmt.Sprintf("%d", p.next)
	p.next++
	pr := &provider.PullRequest{
		ID:               id,
		Title:            title,
		RemoteBranch:     headBranch,
		RemoteBaseBranch: baseBranch,
		State:            provider.StateDraft,
	}
	p.prs[id] = pr
	cp := *pr
	return &cp, nil
}

func (p *Provider) ClosePullRequest(_ context.Context, id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	pr, ok := p.prs[id]
	if !ok {
		return ggerrors.NewConfigurationError(fmt.Sprintf("unknown pull request %s", id))
	}
	pr.State = provider.StateClosed
	return nil
}

func (p *Provider) GetPullRequest(_ context.Context, id string) (*provider.PullRequest, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	pr, ok := p.prs[id]
	if !ok {
		return nil, ggerrors.NewConfigurationError(fmt.Sprintf("unknown pull request %s", id))
	}
	cp := *pr
	return &cp, nil
}

// MarkMerged lets tests simulate an out-of-band merge on the host, as
// scenario 3 of §8 requires: "Externally mark PR 0 MERGED with its
// merge_commit_sha".
func (p *Provider) MarkMerged(id, mergeCommitSHA string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if pr, ok := p.prs[id]; ok {
		pr.State = provider.StateMerged
		pr.Merged = true
		pr.MergeCommitSHA = mergeCommitSHA
	}
}
