package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gitgud/gitgud/internal/engine"
	"github.com/gitgud/gitgud/internal/git"
	"github.com/gitgud/gitgud/internal/graph"
)

// newInitCmd creates the init command.
func newInitCmd() *cobra.Command {
	var trunk string

	cmd := &cobra.Command{
		Use:          "init",
		Short:        "Initialize gitgud in the current repository, rooted at HEAD",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := engineOptions()
			if err != nil {
				return err
			}
			opts.MasterBranch = trunk

			e, err := engine.Init(opts)
			if err != nil {
				return fmt.Errorf("failed to initialize: %w", err)
			}

			if owner, repo, ok := originOwnerRepo(cmd.Context(), opts.RepoRoot); ok {
				e.State().RepoMetadata = graph.NewRepoMetadata(owner, repo)
				if err := e.Persist(); err != nil {
					return err
				}
			}
			wireProvider(cmd.Context(), e)

			fmt.Println("gitgud initialized.")
			return nil
		},
	}

	cmd.Flags().StringVar(&trunk, "trunk", "", "Name of the trunk/master branch (defaults to main)")
	return cmd
}

// originOwnerRepo reads the "origin" remote of an already-existing
// repository (the gg clone path sets RepoMetadata from the clone URL
// directly instead, since init never sees that argument) and parses
// owner/repo out of it, so `gg init` run inside a repo cloned by plain
// git can still wire a Provider.
func originOwnerRepo(ctx context.Context, repoRoot string) (owner, repo string, ok bool) {
	url, err := git.NewDriver(repoRoot).RemoteURL(ctx, "origin")
	if err != nil || url == "" {
		return "", "", false
	}
	return ownerRepoFromRemote(url)
}
