package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newSquashCmd creates the squash command, folding a commit into its
// direct parent (§4.6.5).
func newSquashCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "squash <source-id>",
		Short:        "Squash a commit into its parent",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			source, err := e.State().GetCommit(args[0])
			if err != nil {
				return err
			}
			c, err := e.Squash(cmd.Context(), source.ID, source.ParentID)
			if err != nil {
				return printConflictHint(e, err)
			}
			fmt.Printf("Squashed into %s\n", c.ID)
			return nil
		},
	}
	return cmd
}
