// Package graph holds the Commit Graph Model (component C4): pure data
// types for commits, snapshots, pull requests, merge-conflict state,
// pending operations, and configuration, plus the invariants and
// traversal algorithms that operate over them.
package graph

import "time"

// PullRequestState is the normalized pull request lifecycle state of §3.
type PullRequestState string

const (
	PullRequestDraft  PullRequestState = "DRAFT"
	PullRequestOpen   PullRequestState = "OPEN"
	PullRequestClosed PullRequestState = "CLOSED"
	PullRequestMerged PullRequestState = "MERGED"
)

// PullRequest is the embedded pull-request record carried by a Commit.
type PullRequest struct {
	ID                string           `json:"id"`
	Title             string           `json:"title"`
	RemoteBranch      string           `json:"remote_branch"`
	RemoteBaseBranch  string           `json:"remote_base_branch"`
	State             PullRequestState `json:"state"`
	Merged            bool             `json:"merged"`
	MergeCommitSHA    string           `json:"merge_commit_sha,omitempty"`
}

// Snapshot is a pointer into a commit's history_branch recording one
// prior state of the node.
type Snapshot struct {
	Hash        string `json:"hash"`
	Description string `json:"description"`
}

// Commit is a single node in the commit graph. Fields and meanings are
// exactly §3's "Commit node".
type Commit struct {
	ID              string       `json:"id"`
	Hash            string       `json:"hash"`
	OldHash         string       `json:"old_hash,omitempty"`
	Description     string       `json:"description"`
	ParentID        string       `json:"parent_id,omitempty"`
	ParentHash      string       `json:"parent_hash,omitempty"`
	Children        []string     `json:"children"`
	HistoryBranch   string       `json:"history_branch,omitempty"`
	UpstreamBranch  string       `json:"upstream_branch,omitempty"`
	Uploaded        bool         `json:"uploaded"`
	NeedsEvolve     bool         `json:"needs_evolve"`
	Remote          bool         `json:"remote"`
	PullRequest     *PullRequest `json:"pull_request,omitempty"`
	Snapshots       []Snapshot   `json:"snapshots"`
	Date            time.Time    `json:"date"`
}

// MergeConflictState records an in-progress, unresolved rebase/merge
// conflict, per §3.
type MergeConflictState struct {
	CurrentID  string   `json:"current_id"`
	IncomingID string   `json:"incoming_id"`
	Files      []string `json:"files"`
}

// PendingOperationKind tags the variant of a PendingOperation. Today
// only Evolve exists, per §3 and §4.5.
type PendingOperationKind string

// PendingOperationEvolve is the only PendingOperation variant today.
const PendingOperationEvolve PendingOperationKind = "EVOLVE"

// PendingOperation is a deferred unit of work in the Operation Queue.
type PendingOperation struct {
	Kind     PendingOperationKind `json:"kind"`
	BaseID   string               `json:"base_id"`
	TargetID string               `json:"target_id"`
}

// Config is the per-repository RepoState.config of §3.
type Config struct {
	RemoteBranchPrefix    string `json:"remote_branch_prefix"`
	RandomizeBranches     bool   `json:"randomize_branches"`
	Verbose               bool   `json:"verbose"`
	CheckCommitsOnStatus  bool   `json:"check_commits_on_status"`
}

// DefaultConfig returns the Config a freshly initialized repo starts
// with.
func DefaultConfig() Config {
	return Config{RemoteBranchPrefix: "gg/"}
}

// RepoMetadata is opaque, provider-specific bookkeeping attached to a
// RepoState (e.g. the GitHub owner/repo slug and a stable instance id
// used to correlate provider-side bookkeeping across machines).
type RepoMetadata struct {
	InstanceID string `json:"instance_id"`
	Owner      string `json:"owner,omitempty"`
	Repo       string `json:"repo,omitempty"`
}

// RepoState is the full persisted state of one working directory, per
// §3 and §6.
type RepoState struct {
	SchemaVersion      int                  `json:"schema_version"`
	RepoDir            string               `json:"repo_dir"`
	HeadID             string               `json:"head_id"`
	RootID             string               `json:"root_id"`
	Commits            map[string]*Commit   `json:"commits"`
	MergeConflictState *MergeConflictState  `json:"merge_conflict_state,omitempty"`
	PendingOperations  []PendingOperation   `json:"pending_operations"`
	MasterBranch       string               `json:"master_branch"`
	RepoMetadata       *RepoMetadata        `json:"repo_metadata,omitempty"`
	Config             Config               `json:"config"`
}

// NewRepoState builds an empty RepoState rooted at nothing yet; callers
// populate RootID/HeadID once the initial commit is created.
func NewRepoState(repoDir, masterBranch string) *RepoState {
	return &RepoState{
		SchemaVersion:     1,
		RepoDir:           repoDir,
		Commits:           make(map[string]*Commit),
		PendingOperations: []PendingOperation{},
		MasterBranch:      masterBranch,
		Config:            DefaultConfig(),
	}
}
