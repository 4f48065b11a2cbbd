package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newConfigCmd creates the config command with get/set subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get or set repo-level gitgud configuration",
	}
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "get",
		Short:        "Print the repo's current configuration",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			cfg := e.GetConfig()
			fmt.Printf("remote_branch_prefix = %s\n", cfg.RemoteBranchPrefix)
			fmt.Printf("randomize_branches = %t\n", cfg.RandomizeBranches)
			fmt.Printf("verbose = %t\n", cfg.Verbose)
			fmt.Printf("check_commits_on_status = %t\n", cfg.CheckCommitsOnStatus)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "set <key> <value>",
		Short:        "Set a single configuration value",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			if err := e.SetConfig(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("%s = %s\n", args[0], args[1])
			return nil
		},
	}
}
