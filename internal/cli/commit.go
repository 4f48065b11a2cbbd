package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitgud/gitgud/internal/engine"
)

// newCommitCmd creates the commit command.
func newCommitCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:          "commit <message>",
		Short:        "Create a new commit stacked on top of the current head",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			c, err := e.Commit(cmd.Context(), args[0], engine.CommitOptions{All: all})
			if err != nil {
				return err
			}
			fmt.Printf("Created commit %s (%s)\n", c.ID, c.Hash[:8])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", true, "Stage all changes before committing")
	return cmd
}

// newAmendCmd creates the amend command.
func newAmendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "amend",
		Short:        "Amend the current head commit with the working tree's changes",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			c, err := e.Amend(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Amended %s (%s)\n", c.ID, c.Hash[:8])
			return nil
		},
	}
	return cmd
}
