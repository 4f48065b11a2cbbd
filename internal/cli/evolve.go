package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newEvolveCmd creates the evolve command, propagating an amended
// commit's changes down to its descendants (§4.6.3).
func newEvolveCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:          "evolve [commit-id]",
		Short:        "Propagate a commit's changes onto its descendants",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}

			if all {
				c, err := e.EvolveAll(cmd.Context())
				if err != nil {
					return printConflictHint(e, err)
				}
				fmt.Printf("Evolved up to %s\n", c.ID)
				return nil
			}

			id := e.State().HeadID
			if len(args) == 1 {
				id = args[0]
			}
			c, err := e.Evolve(cmd.Context(), id)
			if err != nil {
				return printConflictHint(e, err)
			}
			fmt.Printf("Evolved %s\n", c.ID)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Evolve every descendant needing it, not just one step")
	return cmd
}
