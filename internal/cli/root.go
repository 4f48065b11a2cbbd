// Package cli provides gitgud's command-line interface definitions
// using Cobra, one subcommand per file, mirroring the teacher's own
// internal/cli layout.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command.
func NewRootCmd(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "gg",
		Short:   "gg manages a stack of interdependent, individually reviewable commits",
		Version: version,
	}

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newCloneCmd())
	rootCmd.AddCommand(newCommitCmd())
	rootCmd.AddCommand(newAmendCmd())
	rootCmd.AddCommand(newEvolveCmd())
	rootCmd.AddCommand(newUpdateCmd())
	rootCmd.AddCommand(newRebaseCmd())
	rootCmd.AddCommand(newRebaseContinueCmd())
	rootCmd.AddCommand(newSquashCmd())
	rootCmd.AddCommand(newSyncCmd())
	rootCmd.AddCommand(newPullRemoteCmd())
	rootCmd.AddCommand(newUploadCmd())
	rootCmd.AddCommand(newDropCmd())
	rootCmd.AddCommand(newPatchCmd())
	rootCmd.AddCommand(newSnapshotCmd())
	rootCmd.AddCommand(newRestoreSnapshotCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newCheckStateCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}
