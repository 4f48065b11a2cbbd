// Package ggprint renders a RepoState's commit graph as a colorized
// tree, the Go port of the original gg.py's get_tree/print_status.
package ggprint

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gitgud/gitgud/internal/graph"
)

var (
	styleCurrent  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))  // green
	styleOther    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))  // magenta
	styleConflict = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))  // red
	styleRemote   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))  // yellow
	styleDim      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Tree renders the full commit tree rooted at s.Root(), matching the
// line format of the original's get_tree: "<hash><needs_evolve><conflict><remote>: <oneliner>".
func Tree(s *graph.RepoState) (string, error) {
	root, err := s.Root()
	if err != nil {
		return "", err
	}
	var b strings.Builder
	renderNode(s, root, &b, "", true)
	return b.String(), nil
}

func renderNode(s *graph.RepoState, c *graph.Commit, b *strings.Builder, prefix string, isLast bool) {
	connector := "├── "
	childPrefix := prefix + "│   "
	if isLast {
		connector = "└── "
		childPrefix = prefix + "    "
	}
	if prefix == "" {
		connector = ""
		childPrefix = ""
	}

	b.WriteString(prefix)
	b.WriteString(connector)
	b.WriteString(line(s, c))
	b.WriteString("\n")

	for i, childID := range c.Children {
		child, err := s.GetCommit(childID)
		if err != nil {
			continue
		}
		renderNode(s, child, b, childPrefix, i == len(c.Children)-1)
	}
}

func line(s *graph.RepoState, c *graph.Commit) string {
	color := styleOther
	if s.HeadID == c.ID {
		color = styleCurrent
	}

	hashLabel := c.Hash
	if len(hashLabel) > 8 {
		hashLabel = hashLabel[:8]
	}

	needsEvolve := ""
	if c.NeedsEvolve && s.MergeConflictState == nil {
		needsEvolve = "*"
	}

	conflict := ""
	if mc := s.MergeConflictState; mc != nil {
		switch c.ID {
		case mc.CurrentID:
			conflict = " " + styleConflict.Render("(current)")
		case mc.IncomingID:
			conflict = " " + styleConflict.Render("(incoming)")
		}
	}

	remote := ""
	if c.Remote {
		remote = " " + styleRemote.Render("(Remote Head)")
	}

	return fmt.Sprintf("%s%s%s%s: %s", color.Render(hashLabel), needsEvolve, conflict, remote, graph.Oneliner(c.Description))
}

// ConflictStatus renders the instructions shown when an operation is
// suspended on a merge conflict, matching the original's print_status
// conflict-section wording.
func ConflictStatus(s *graph.RepoState) string {
	if s.MergeConflictState == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(styleConflict.Render("Rebase in progress") + ": stopped due to merge conflict.\n\n")
	b.WriteString("Files with merge conflict:\n")
	for _, f := range s.MergeConflictState.Files {
		b.WriteString("  - " + styleConflict.Render(f) + "\n")
	}
	b.WriteString("\nResolve conflicts and run:\n")
	b.WriteString(" gg rebase-continue\n\n")
	b.WriteString("To abort run:\n")
	b.WriteString(" git rebase --abort\n")
	return b.String()
}

// Summary renders a one-line-per-commit listing, a shorter alternative
// to the full tree.
func Summary(commits []*graph.Commit, headID string) string {
	var b strings.Builder
	for _, c := range commits {
		marker := "  "
		if c.ID == headID {
			marker = styleCurrent.Render("> ")
		}
		b.WriteString(marker)
		b.WriteString(styleDim.Render(c.ID))
		b.WriteString(" ")
		b.WriteString(graph.Oneliner(c.Description))
		b.WriteString("\n")
	}
	return b.String()
}
