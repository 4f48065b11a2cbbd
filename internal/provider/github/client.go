// Package github implements provider.Provider against a GitHub-compatible
// REST API using google/go-github, the teacher's own GitHub stack.
package github

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	googlegithub "github.com/google/go-github/v62/github"
	"golang.org/x/oauth2"
	"gopkg.in/yaml.v3"

	ggerrors "github.com/gitgud/gitgud/internal/errors"
	"github.com/gitgud/gitgud/internal/provider"
)

// TokenEnvVar is the environment variable carrying the GitHub token, per
// §6: "GITHUB_GG_TOKEN is required before an engine can be constructed
// for a GitHub-backed clone".
const TokenEnvVar = "GITHUB_GG_TOKEN"

// Credentials is the shape of the optional ~/.config/gg/credentials.yaml
// fallback when the environment variable isn't set.
type Credentials struct {
	Token string `yaml:"token"`
}

// LoadCredentials reads token from path, tolerating a missing file.
func LoadCredentials(path string) (*Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Credentials{}, nil
		}
		return nil, err
	}
	var creds Credentials
	if err := yaml.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &creds, nil
}

// Client is the real Provider implementation, backed by the GitHub REST
// API.
type Client struct {
	gh    *googlegithub.Client
	owner string
	repo  string
}

// NewClient resolves a token from GITHUB_GG_TOKEN, falling back to
// configsRoot/credentials.yaml, and fails fast (a ConfigurationError) if
// neither is present — per §4.2, missing provider credentials are a
// fatal precondition failure at engine construction time.
func NewClient(ctx context.Context, owner, repo, configsRoot string) (*Client, error) {
	token := os.Getenv(TokenEnvVar)
	if token == "" && configsRoot != "" {
		creds, err := LoadCredentials(filepath.Join(configsRoot, "credentials.yaml"))
		if err != nil {
			return nil, err
		}
		token = creds.Token
	}
	if token == "" {
		return nil, ggerrors.NewConfigurationError(
			fmt.Sprintf("missing GitHub credentials: set %s or %s/credentials.yaml", TokenEnvVar, configsRoot))
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := oauth2.NewClient(ctx, ts)

	return &Client{gh: googlegithub.NewClient(httpClient), owner: owner, repo: repo}, nil
}

var _ provider.Provider = (*Client)(nil)

func (c *Client) CreatePullRequest(ctx context.Context, title, headBranch, baseBranch string) (*provider.PullRequest, error) {
	draft := true
	pr, _, err := c.gh.PullRequests.Create(ctx, c.owner, c.repo, &googlegithub.NewPullRequest{
		Title: googlegithub.String(title),
		Head:  googlegithub.String(headBranch),
		Base:  googlegithub.String(baseBranch),
		Draft: &draft,
	})
	if err != nil {
		return nil, fmt.Errorf("creating pull request: %w", err)
	}
	return normalize(pr, headBranch, baseBranch), nil
}

func (c *Client) ClosePullRequest(ctx context.Context, id string) error {
	number, err := parseNumber(id)
	if err != nil {
		return err
	}
	_, _, err = c.gh.PullRequests.Edit(ctx, c.owner, c.repo, number, &googlegithub.PullRequest{
		State: googlegithub.String("closed"),
	})
	if err != nil {
		return fmt.Errorf("closing pull request %s: %w", id, err)
	}
	return nil
}

func (c *Client) GetPullRequest(ctx context.Context, id string) (*provider.PullRequest, error) {
	number, err := parseNumber(id)
	if err != nil {
		return nil, err
	}
	pr, _, err := c.gh.PullRequests.Get(ctx, c.owner, c.repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching pull request %s: %w", id, err)
	}
	return normalize(pr, pr.GetHead().GetRef(), pr.GetBase().GetRef()), nil
}

func normalize(pr *googlegithub.PullRequest, head, base string) *provider.PullRequest {
	state := provider.StateOpen
	switch {
	case pr.GetMerged():
		state = provider.StateMerged
	case pr.GetState() == "closed":
		state = provider.StateClosed
	case pr.GetDraft():
		state = provider.StateDraft
	}

	return &provider.PullRequest{
		ID:               fmt.Sprintf("%d", pr.GetNumber()),
		Title:            pr.GetTitle(),
		RemoteBranch:     head,
		RemoteBaseBranch: base,
		State:            state,
		Merged:           pr.GetMerged(),
		MergeCommitSHA:   pr.GetMergeCommitSHA(),
	}
}

func parseNumber(id string) (int, error) {
	var n int
	if _, err := fmt.Sscanf(id, "%d", &n); err != nil {
		return 0, ggerrors.NewConfigurationError(fmt.Sprintf("invalid pull request id %q", id))
	}
	return n, nil
}
