package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitgud/gitgud/internal/ggprint"
)

// newStatusCmd creates the status command, rendering the commit tree
// the way the original gg.py's print_status did.
func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "status",
		Short:        "Show the current commit graph as a tree",
		Aliases:      []string{"log"},
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}

			if e.State().Config.CheckCommitsOnStatus {
				if err := e.CheckState(); err != nil {
					fmt.Println(ggprint.ConflictStatus(e.State()))
					return err
				}
			}

			if mc := e.State().MergeConflictState; mc != nil {
				fmt.Print(ggprint.ConflictStatus(e.State()))
				fmt.Println()
			}

			tree, err := ggprint.Tree(e.State())
			if err != nil {
				return err
			}
			fmt.Print(tree)
			return nil
		},
	}
	return cmd
}

// newCheckStateCmd creates the check-state command.
func newCheckStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "check-state",
		Short:        "Validate the commit graph's internal invariants",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			if err := e.CheckState(); err != nil {
				return err
			}
			fmt.Println("ok")
			return nil
		},
	}
	return cmd
}
