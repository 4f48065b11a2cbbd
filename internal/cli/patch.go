package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newPatchCmd creates the patch command, importing an existing remote
// branch as a new editable local commit (§4.6.14).
func newPatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "patch <remote-branch>",
		Short:        "Import a remote branch as a new local commit",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			c, err := e.Patch(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Patched in %s (%s)\n", c.ID, c.Hash[:8])
			return nil
		},
	}
	return cmd
}
