package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newDropCmd creates the drop command, deleting a childless commit.
func newDropCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "drop <commit-id>",
		Short:        "Remove a commit that has no children",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			if err := e.Drop(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("Dropped %s\n", args[0])
			return nil
		},
	}
	return cmd
}
