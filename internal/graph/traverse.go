package graph

import (
	"context"
	"strings"

	ggerrors "github.com/gitgud/gitgud/internal/errors"
	"github.com/gitgud/gitgud/internal/git"
)

// GetCommit looks up a commit by id, returning CommitNotFoundError if it
// is absent.
func (s *RepoState) GetCommit(id string) (*Commit, error) {
	c, ok := s.Commits[id]
	if !ok {
		return nil, ggerrors.NewCommitNotFoundError(id)
	}
	return c, nil
}

// Root returns the root commit of the graph.
func (s *RepoState) Root() (*Commit, error) { return s.GetCommit(s.RootID) }

// Head returns the current head commit.
func (s *RepoState) Head() (*Commit, error) { return s.GetCommit(s.HeadID) }

// GetRoots returns every commit with no parent_id, which in a
// well-formed repo is exactly {Root}, but the graph model does not
// assume that while invariants are being checked.
func (s *RepoState) GetRoots() []*Commit {
	var roots []*Commit
	for _, c := range s.Commits {
		if c.ParentID == "" {
			roots = append(roots, c)
		}
	}
	return roots
}

// Traverse visits id and every descendant of id, pre-order, calling fn
// for each. If skipSelf is true, id itself is not passed to fn (used by
// Amend to mark every *other* descendant needs_evolve).
func (s *RepoState) Traverse(id string, skipSelf bool, fn func(*Commit) error) error {
	c, err := s.GetCommit(id)
	if err != nil {
		return err
	}
	if !skipSelf {
		if err := fn(c); err != nil {
			return err
		}
	}
	for _, childID := range c.Children {
		if err := s.Traverse(childID, false, fn); err != nil {
			return err
		}
	}
	return nil
}

// GetOldestNonRemote walks up from id toward the root and returns the
// oldest ancestor (inclusive of id) that is not marked remote. Returns
// nil if every ancestor up to and including the root is remote.
func (s *RepoState) GetOldestNonRemote(id string) (*Commit, error) {
	c, err := s.GetCommit(id)
	if err != nil {
		return nil, err
	}
	if c.Remote {
		return nil, nil
	}
	oldest := c
	for c.ParentID != "" {
		parent, err := s.GetCommit(c.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.Remote {
			break
		}
		oldest = parent
		c = parent
	}
	return oldest, nil
}

// ComesBefore reports whether commit a's hash is a strict ancestor of
// commit b's hash, checking out master on the given driver to perform
// the comparison against a consistent working tree. It does not restore
// the prior ref itself — per the design decision in §9, every caller
// that needs ComesBefore is responsible for saving and restoring
// whatever ref was checked out before calling it, typically via defer.
func ComesBefore(ctx context.Context, drv git.Driver, master string, a, b *Commit) (bool, error) {
	if a.Hash == "" || b.Hash == "" {
		return false, ggerrors.NewBadGitGudStateError("comes_before requires resolved hashes")
	}
	if err := drv.CheckoutDetached(ctx, master); err != nil {
		return false, err
	}
	base, err := drv.MergeBase(ctx, a.Hash, b.Hash)
	if err != nil {
		return false, err
	}
	if strings.TrimSpace(base) != a.Hash {
		return false, nil
	}
	count, err := drv.RevListCount(ctx, a.Hash+".."+b.Hash)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
