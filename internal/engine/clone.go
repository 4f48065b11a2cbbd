package engine

import (
	"context"

	"github.com/gitgud/gitgud/internal/git"
)

// Clone clones url into opts.RepoRoot and then initializes a fresh
// RepoState against it, per the clone(url, local_path) CLI operation.
func Clone(ctx context.Context, opts Options, url string) (*Engine, error) {
	if err := git.Clone(ctx, url, opts.RepoRoot); err != nil {
		return nil, err
	}
	return Init(opts)
}
