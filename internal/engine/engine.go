// Package engine implements the Engine (component C6): the state
// machine that is the only part of GitGud allowed to mutate both Git
// and the commit graph. Every public method validates its
// preconditions, performs the operation, persists the resulting state,
// and returns the affected commit (or an error).
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	ggerrors "github.com/gitgud/gitgud/internal/errors"
	"github.com/gitgud/gitgud/internal/gglog"
	"github.com/gitgud/gitgud/internal/git"
	"github.com/gitgud/gitgud/internal/graph"
	"github.com/gitgud/gitgud/internal/provider"
	"github.com/gitgud/gitgud/internal/queue"
	"github.com/gitgud/gitgud/internal/store"
)

// Options configures a new Engine. RepoRoot and ConfigsRoot are
// required; Driver defaults to the real git driver when left nil,
// following the teacher's own constructor-injection pattern in
// engine.go/NewEngine. Provider has no default: when left nil the
// Engine runs without one until SetProvider is called.
type Options struct {
	RepoRoot     string
	ConfigsRoot  string
	MasterBranch string
	Driver       git.Driver
	Provider     provider.Provider
}

// Engine coordinates the Git Driver, the Hosted-Repo Provider, the
// State Store, and the in-memory RepoState to implement every
// operation in the operation contract. A single Engine instance
// assumes exclusive ownership of its working directory for the
// duration of each call: nothing guards against another process or
// another Engine using the same directory. mu only serializes calls
// made on this one instance.
type Engine struct {
	mu       sync.Mutex
	drv      git.Driver
	prov     provider.Provider
	st       *store.Store
	state    *graph.RepoState
	q        *queue.Queue
	repoRoot string
	log      *slog.Logger
}

func historyBranch(id string) string { return "history_" + id }

// New loads persisted state for opts.RepoRoot and wires an Engine
// around it. It returns *ggerrors.ConfigNotFoundError if no state has
// been saved for this directory yet — callers should call Init in
// that case.
func New(opts Options) (*Engine, error) {
	st, err := store.New(opts.ConfigsRoot)
	if err != nil {
		return nil, err
	}
	state, err := st.Load(opts.RepoRoot)
	if err != nil {
		return nil, err
	}
	return newEngine(opts, st, state), nil
}

// Init creates a brand-new RepoState rooted at the working directory's
// current HEAD commit and persists it, returning the Engine.
func Init(opts Options) (*Engine, error) {
	st, err := store.New(opts.ConfigsRoot)
	if err != nil {
		return nil, err
	}
	drv := opts.Driver
	if drv == nil {
		drv = git.NewDriver(opts.RepoRoot)
	}
	master := opts.MasterBranch
	if master == "" {
		master = "main"
	}

	ctx := context.Background()
	hash, err := drv.RevParse(ctx, "HEAD")
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	msg, err := drv.CommitMessage(ctx, "HEAD")
	if err != nil {
		return nil, fmt.Errorf("reading HEAD message: %w", err)
	}
	date, err := drv.CommitDate(ctx, "HEAD")
	if err != nil {
		return nil, fmt.Errorf("reading HEAD date: %w", err)
	}

	id := graph.BranchName(msg, false)
	hb := historyBranch(id)
	if err := drv.CreateBranch(ctx, id, hash); err != nil {
		return nil, err
	}
	if err := drv.CreateBranch(ctx, hb, hash); err != nil {
		return nil, err
	}

	state := graph.NewRepoState(opts.RepoRoot, master)
	state.RootID = id
	state.HeadID = id
	state.Commits[id] = &graph.Commit{
		ID:            id,
		Hash:          hash,
		Description:   msg,
		Children:      []string{},
		HistoryBranch: hb,
		Date:          date,
		Snapshots:     []graph.Snapshot{{Hash: hash, Description: msg}},
	}

	e := newEngine(opts, st, state)
	if err := e.persist(); err != nil {
		return nil, err
	}
	return e, nil
}

func newEngine(opts Options, st *store.Store, state *graph.RepoState) *Engine {
	drv := opts.Driver
	if drv == nil {
		drv = git.NewDriver(opts.RepoRoot)
	}
	return &Engine{
		drv:      drv,
		prov:     opts.Provider,
		st:       st,
		state:    state,
		q:        queue.New(state.PendingOperations),
		repoRoot: opts.RepoRoot,
		log:      gglog.With("engine"),
	}
}

// State returns the current in-memory RepoState. Callers must not
// mutate it directly.
func (e *Engine) State() *graph.RepoState { return e.state }

// SetProvider wires a Hosted-Repo Provider into an already-constructed
// Engine, for callers (the CLI) that only learn the provider's
// credentials after loading the repo's persisted RepoMetadata.
func (e *Engine) SetProvider(p provider.Provider) { e.prov = p }

// Persist flushes the in-memory RepoState to the store, for callers
// (the CLI) that mutate state fields with no dedicated operation, such
// as recording RepoMetadata right after Clone.
func (e *Engine) Persist() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.persist()
}

func (e *Engine) persist() error {
	e.state.PendingOperations = e.q.Items()
	if err := e.st.Save(e.repoRoot, e.state); err != nil {
		return err
	}
	e.log.Debug("persisted state", "head_id", e.state.HeadID)
	return nil
}

func (e *Engine) requireNoConflict(operation string) error {
	if e.state.MergeConflictState != nil {
		return ggerrors.NewConflictInProgressError(operation)
	}
	return nil
}

func (e *Engine) requireCleanTree(ctx context.Context, operation string) error {
	dirty, err := e.drv.HasUncommittedChanges(ctx)
	if err != nil {
		return err
	}
	if dirty {
		return ggerrors.NewDirtyWorkingTreeError(operation)
	}
	return nil
}

func (e *Engine) requireNotRemote(c *graph.Commit, operation string) error {
	if c.Remote {
		return ggerrors.NewInvalidOperationForRemoteError(c.ID, operation)
	}
	return nil
}

func (e *Engine) requireNotMerged(c *graph.Commit) error {
	if c.PullRequest != nil && c.PullRequest.State == graph.PullRequestMerged {
		return ggerrors.NewCommitAlreadyMergedError(c.ID)
	}
	return nil
}

// CheckState validates the in-memory graph's invariants.
func (e *Engine) CheckState() error {
	return e.state.CheckState()
}

// GetBadStates returns a non-nil error describing the first invariant
// violation found, or nil if none.
func (e *Engine) GetBadStates() error {
	return e.state.CheckState()
}

// GetConfig returns the repo's current configuration.
func (e *Engine) GetConfig() graph.Config { return e.state.Config }

// SetConfig applies a single key/value configuration change. Supported
// keys mirror graph.Config's fields.
func (e *Engine) SetConfig(key, value string) error {
	switch key {
	case "remote_branch_prefix":
		e.state.Config.RemoteBranchPrefix = value
	case "randomize_branches":
		e.state.Config.RandomizeBranches = value == "true"
	case "verbose":
		e.state.Config.Verbose = value == "true"
	case "check_commits_on_status":
		e.state.Config.CheckCommitsOnStatus = value == "true"
	default:
		return ggerrors.NewConfigurationError(fmt.Sprintf("unknown config key %q", key))
	}
	return e.persist()
}

// GetSummary returns a one-line-per-commit summary of the graph,
// rooted at Root, in traversal order.
func (e *Engine) GetSummary() ([]*graph.Commit, error) {
	var out []*graph.Commit
	err := e.state.Traverse(e.state.RootID, false, func(c *graph.Commit) error {
		out = append(out, c)
		return nil
	})
	return out, err
}

func (e *Engine) dropCommit(ctx context.Context, id string) error {
	c, err := e.state.GetCommit(id)
	if err != nil {
		return err
	}
	if len(c.Children) != 0 {
		return ggerrors.NewBadGitGudStateError(fmt.Sprintf("cannot drop commit %s: it still has children", id))
	}
	if c.ParentID == "" {
		return ggerrors.NewBadGitGudStateError("cannot drop the only commit in the graph")
	}
	parent, err := e.state.GetCommit(c.ParentID)
	if err != nil {
		return err
	}

	// Deleting id's branch(es) while they're checked out fails, and
	// dropCommit is routinely called with id as the current checkout
	// (e.g. Drop on the just-committed head). Detach onto the parent's
	// hash first, which is always a valid ref regardless of whether
	// parent is a remote node with no id-named branch of its own.
	if err := e.drv.CheckoutDetached(ctx, parent.Hash); err != nil {
		return err
	}

	parent.Children = removeString(parent.Children, id)
	delete(e.state.Commits, id)

	if exists, err := e.drv.BranchExists(ctx, id); err != nil {
		return err
	} else if exists {
		if err := e.drv.DeleteBranch(ctx, id); err != nil {
			return err
		}
	}
	if exists, err := e.drv.BranchExists(ctx, c.HistoryBranch); err != nil {
		return err
	} else if exists {
		if err := e.drv.DeleteBranch(ctx, c.HistoryBranch); err != nil {
			return err
		}
	}

	if e.state.HeadID == id {
		e.state.HeadID = c.ParentID
	}
	if !parent.Remote {
		if err := e.drv.Checkout(ctx, parent.ID, false); err != nil {
			return err
		}
	}
	return nil
}

// Drop removes a commit that currently has no children, per the
// drop(id) CLI operation.
func (e *Engine) Drop(ctx context.Context, id string) error {
	if err := e.requireNoConflict("drop"); err != nil {
		return err
	}
	c, err := e.state.GetCommit(id)
	if err != nil {
		return err
	}
	if err := e.requireNotRemote(c, "drop"); err != nil {
		return err
	}
	if err := e.dropCommit(ctx, id); err != nil {
		return err
	}
	return e.persist()
}

func removeString(items []string, target string) []string {
	out := items[:0]
	for _, item := range items {
		if item != target {
			out = append(out, item)
		}
	}
	return out
}
