package graph

import (
	"fmt"

	ggerrors "github.com/gitgud/gitgud/internal/errors"
)

// CheckState validates every structural invariant named in §3/§4.4:
// exactly one root, every non-root commit's parent_id resolves, every
// child's parent_id points back, head_id resolves, no cycles, and a
// merge_conflict_state (if present) names two existing commits.
func (s *RepoState) CheckState() error {
	roots := s.GetRoots()
	if len(roots) != 1 {
		return ggerrors.NewBadGitGudStateError(fmt.Sprintf("expected exactly one root commit, found %d", len(roots)))
	}
	if roots[0].ID != s.RootID {
		return ggerrors.NewBadGitGudStateError(fmt.Sprintf("root_id %s does not match the only parentless commit %s", s.RootID, roots[0].ID))
	}

	if _, err := s.GetCommit(s.HeadID); err != nil {
		return ggerrors.NewBadGitGudStateError(fmt.Sprintf("head_id %s does not resolve: %v", s.HeadID, err))
	}

	for id, c := range s.Commits {
		if c.ID != id {
			return ggerrors.NewBadGitGudStateError(fmt.Sprintf("commit stored under key %s has id %s", id, c.ID))
		}
		if c.ParentID != "" {
			parent, ok := s.Commits[c.ParentID]
			if !ok {
				return ggerrors.NewBadGitGudStateError(fmt.Sprintf("commit %s has dangling parent_id %s", id, c.ParentID))
			}
			if !containsString(parent.Children, id) {
				return ggerrors.NewBadGitGudStateError(fmt.Sprintf("commit %s parent %s does not list it as a child", id, c.ParentID))
			}
		}
		for _, childID := range c.Children {
			child, ok := s.Commits[childID]
			if !ok {
				return ggerrors.NewBadGitGudStateError(fmt.Sprintf("commit %s has dangling child %s", id, childID))
			}
			if child.ParentID != id {
				return ggerrors.NewBadGitGudStateError(fmt.Sprintf("commit %s is listed as %s's child but points to parent %s", childID, id, child.ParentID))
			}
		}
	}

	if err := s.checkAcyclic(); err != nil {
		return err
	}

	if s.MergeConflictState != nil {
		if _, err := s.GetCommit(s.MergeConflictState.CurrentID); err != nil {
			return ggerrors.NewBadGitGudStateError(fmt.Sprintf("merge_conflict_state.current_id %s does not resolve", s.MergeConflictState.CurrentID))
		}
		if _, err := s.GetCommit(s.MergeConflictState.IncomingID); err != nil {
			return ggerrors.NewBadGitGudStateError(fmt.Sprintf("merge_conflict_state.incoming_id %s does not resolve", s.MergeConflictState.IncomingID))
		}
	}

	for _, op := range s.PendingOperations {
		if _, err := s.GetCommit(op.BaseID); err != nil {
			return ggerrors.NewBadGitGudStateError(fmt.Sprintf("pending operation base_id %s does not resolve", op.BaseID))
		}
		if _, err := s.GetCommit(op.TargetID); err != nil {
			return ggerrors.NewBadGitGudStateError(fmt.Sprintf("pending operation target_id %s does not resolve", op.TargetID))
		}
	}

	return nil
}

func (s *RepoState) checkAcyclic() error {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(s.Commits))
	var visit func(id string) error
	visit = func(id string) error {
		switch color[id] {
		case gray:
			return ggerrors.NewBadGitGudStateError(fmt.Sprintf("cycle detected at commit %s", id))
		case black:
			return nil
		}
		color[id] = gray
		c, ok := s.Commits[id]
		if !ok {
			return nil
		}
		for _, childID := range c.Children {
			if err := visit(childID); err != nil {
				return err
			}
		}
		color[id] = black
		return nil
	}
	for id := range s.Commits {
		if err := visit(id); err != nil {
			return err
		}
	}
	return nil
}

func containsString(items []string, target string) bool {
	for _, item := range items {
		if item == target {
			return true
		}
	}
	return false
}
