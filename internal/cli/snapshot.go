package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newSnapshotCmd creates the snapshot command, recording the current
// head's tree for later restore.
func newSnapshotCmd() *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:          "snapshot",
		Short:        "Record a restorable snapshot of the current head",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			c, err := e.Snapshot(cmd.Context(), message)
			if err != nil {
				return err
			}
			fmt.Printf("Snapshot taken of %s\n", c.ID)
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Description for the snapshot")
	return cmd
}

// newRestoreSnapshotCmd creates the restore-snapshot command, resetting
// the head commit back to a previously recorded tree.
func newRestoreSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "restore-snapshot <hash>",
		Short:        "Restore the current head to a previously recorded snapshot",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			c, err := e.RestoreSnapshot(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Restored %s to %s\n", c.ID, args[0][:8])
			return nil
		},
	}
	return cmd
}
