package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	ggerrors "github.com/gitgud/gitgud/internal/errors"
	"github.com/gitgud/gitgud/internal/engine"
	"github.com/gitgud/gitgud/internal/ggprint"
	"github.com/gitgud/gitgud/internal/gglog"
	"github.com/gitgud/gitgud/internal/provider/github"
	"github.com/gitgud/gitgud/internal/store"
)

// repoRoot returns the current working directory, which the Engine
// treats as the repo root. GitGud's CLI is run from inside the
// worktree, unlike the teacher's own git.GetRepoRoot walk-up, since
// every engine operation already assumes it owns the whole directory.
func repoRoot() (string, error) {
	return os.Getwd()
}

func configsRoot() (string, error) {
	return store.DefaultConfigsRoot()
}

func engineOptions() (engine.Options, error) {
	root, err := repoRoot()
	if err != nil {
		return engine.Options{}, err
	}
	cfgRoot, err := configsRoot()
	if err != nil {
		return engine.Options{}, err
	}
	return engine.Options{RepoRoot: root, ConfigsRoot: cfgRoot}, nil
}

// loadEngine opens the Engine for the current directory, wiring a real
// GitHub provider when credentials and repo metadata are available. It
// fails with a friendly message if `gg init` hasn't been run yet.
func loadEngine(ctx context.Context) (*engine.Engine, error) {
	opts, err := engineOptions()
	if err != nil {
		return nil, err
	}
	_ = gglog.Configure(opts.ConfigsRoot, slog.LevelInfo)
	return loadEngineFromOpts(ctx, opts)
}

func loadEngineFromOpts(ctx context.Context, opts engine.Options) (*engine.Engine, error) {
	e, err := engine.New(opts)
	if err != nil {
		var notFound *ggerrors.ConfigNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("gitgud has not been initialized here; run 'gg init' first")
		}
		return nil, err
	}
	wireProvider(ctx, e)
	return e, nil
}

// wireProvider attaches a real GitHub client to e when the repo's
// origin remote looks like a GitHub URL and credentials are available.
// Failure to do so is non-fatal and silent: without a provider, upload
// pushes branches without opening pull requests and sync skips
// refreshing pull request state, instead of blocking every other
// command on missing credentials.
func wireProvider(ctx context.Context, e *engine.Engine) {
	owner, repo, ok := ownerRepoFromMetadata(e)
	if !ok {
		return
	}
	cfgRoot, err := configsRoot()
	if err != nil {
		return
	}
	client, err := github.NewClient(ctx, owner, repo, cfgRoot)
	if err != nil {
		return
	}
	e.SetProvider(client)
}

func ownerRepoFromMetadata(e *engine.Engine) (owner, repo string, ok bool) {
	meta := e.State().RepoMetadata
	if meta == nil || meta.Owner == "" || meta.Repo == "" {
		return "", "", false
	}
	return meta.Owner, meta.Repo, true
}

var githubURLPattern = regexp.MustCompile(`github\.com[:/]([^/]+)/([^/.]+)(?:\.git)?$`)

// ownerRepoFromRemote parses owner/repo out of a git remote URL in
// either scp-like (git@github.com:owner/repo.git) or https form.
func ownerRepoFromRemote(remote string) (owner, repo string, ok bool) {
	if m := githubURLPattern.FindStringSubmatch(strings.TrimSpace(remote)); m != nil {
		return m[1], m[2], true
	}
	if u, err := url.Parse(remote); err == nil {
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 {
			return parts[0], strings.TrimSuffix(parts[1], ".git"), true
		}
	}
	return "", "", false
}

// printConflictHint surfaces the tree's conflict-resolution
// instructions alongside the triggering error, so a caller doesn't have
// to run a separate status command to see what to do next.
func printConflictHint(e *engine.Engine, err error) error {
	if e.State().MergeConflictState != nil {
		fmt.Print(ggprint.ConflictStatus(e.State()))
	}
	return err
}
