package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newRebaseCmd creates the rebase command ("update" onto a new base),
// implementing §4.6.4.
func newRebaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "rebase <source-id> <dest-id>",
		Short:        "Move a commit (and its descendants) onto a new base",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			c, err := e.Rebase(cmd.Context(), args[0], args[1])
			if err != nil {
				return printConflictHint(e, err)
			}
			fmt.Printf("Rebased onto %s\n", c.ID)
			return nil
		},
	}
	return cmd
}

// newUpdateCmd creates the update command, moving head to an existing
// commit and checking out its working branch.
func newUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "update <commit-id>",
		Short:        "Move head to an existing commit and check it out",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			c, err := e.Update(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Now at %s\n", c.ID)
			return nil
		},
	}
	return cmd
}

// newRebaseContinueCmd creates the rebase-continue command, resuming a
// suspended evolve/rebase after the user has resolved a conflict.
func newRebaseContinueCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "rebase-continue",
		Short:        "Resume an evolve/rebase suspended on a merge conflict",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			c, err := e.RebaseContinue(cmd.Context())
			if err != nil {
				return printConflictHint(e, err)
			}
			fmt.Printf("Continued past %s\n", c.ID)
			return nil
		},
	}
	return cmd
}
