package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gitgud/gitgud/internal/engine"
	"github.com/gitgud/gitgud/internal/graph"
)

// newCloneCmd creates the clone command.
func newCloneCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "clone <url> [dest]",
		Short:        "Clone a repository and initialize gitgud against it",
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			dest := filepath.Base(url)
			dest = trimGitSuffix(dest)
			if len(args) == 2 {
				dest = args[1]
			}

			cfgRoot, err := configsRoot()
			if err != nil {
				return err
			}
			opts := engine.Options{RepoRoot: dest, ConfigsRoot: cfgRoot}

			e, err := engine.Clone(cmd.Context(), opts, url)
			if err != nil {
				return fmt.Errorf("failed to clone: %w", err)
			}

			if owner, repo, ok := ownerRepoFromRemote(url); ok {
				e.State().RepoMetadata = graph.NewRepoMetadata(owner, repo)
				if err := e.Persist(); err != nil {
					return err
				}
			}
			wireProvider(cmd.Context(), e)

			fmt.Printf("Cloned into %s and initialized gitgud.\n", dest)
			return nil
		},
	}
	return cmd
}

func trimGitSuffix(name string) string {
	const suffix = ".git"
	if len(name) > len(suffix) && name[len(name)-len(suffix):] == suffix {
		return name[:len(name)-len(suffix)]
	}
	return name
}
