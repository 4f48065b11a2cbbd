package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newSyncCmd creates the sync command, pulling the trunk and rebasing
// local stacks onto the new remote tip (§4.6.6).
func newSyncCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:          "sync",
		Short:        "Pull the trunk and rebase local work on top of it",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			c, err := e.Sync(cmd.Context(), all)
			if err != nil {
				return printConflictHint(e, err)
			}
			if c != nil {
				fmt.Printf("Synced up to %s\n", c.ID)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Sync every stack in the graph, not just the current one")
	return cmd
}

// newPullRemoteCmd creates the pull-remote command (§4.6.7), a narrower
// operation than sync: only pulls and records the new trunk tip.
func newPullRemoteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "pull-remote",
		Short:        "Pull the trunk branch and record its new tip in the graph",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			c, err := e.PullRemote(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Trunk now at %s\n", c.ID)
			return nil
		},
	}
	return cmd
}
