package git

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	ggerrors "github.com/gitgud/gitgud/internal/errors"
)

func osStat(path string) (os.FileInfo, error) { return os.Stat(path) }

// Driver is the narrow façade over the git executable described in
// §4.1. All methods operate against the working directory the Driver
// was constructed with.
type Driver interface {
	Checkout(ctx context.Context, ref string, recurseSubmodules bool) error
	CheckoutDetached(ctx context.Context, ref string) error
	SwitchForce(ctx context.Context, branch, fromRef string) error
	SubmoduleUpdateInitRecursive(ctx context.Context) error
	ResetHard(ctx context.Context, ref string) error
	ResetSoft(ctx context.Context, ref string) error
	AddAll(ctx context.Context) error
	Add(ctx context.Context, paths []string) error
	Commit(ctx context.Context, message string, opts CommitOptions) error
	Merge(ctx context.Context, otherRef string) error
	RebaseOnto(ctx context.Context, newBase, oldBase, branch string) error
	RebaseContinue(ctx context.Context, editorDisabled bool) error
	RebaseAbort(ctx context.Context) error
	CheckoutPathsFromRef(ctx context.Context, ref string) error
	Push(ctx context.Context, remote, refspec string, setUpstream bool) error
	PullRebase(ctx context.Context, remote, branch string) error
	Fetch(ctx context.Context, remote string) error
	Diff(ctx context.Context, a, b string) (string, error)
	IsDiffEmpty(ctx context.Context, a, b string) (bool, error)
	RevListCount(ctx context.Context, rangeExpr string) (int, error)
	MergeBase(ctx context.Context, a, b string) (string, error)
	DeleteBranch(ctx context.Context, name string) error
	RenameBranch(ctx context.Context, oldName, newName string) error
	CreateBranch(ctx context.Context, name, startPoint string) error
	BranchExists(ctx context.Context, name string) (bool, error)
	CurrentBranch(ctx context.Context) (string, error)
	RevParse(ctx context.Context, ref string) (string, error)
	RemoteURL(ctx context.Context, remote string) (string, error)
	CommitMessage(ctx context.Context, ref string) (string, error)
	CommitDate(ctx context.Context, ref string) (time.Time, error)
	HasUncommittedChanges(ctx context.Context) (bool, error)
	IsRebaseInProgress(ctx context.Context) bool
	WorkingDir() string
}

// CommitOptions tunes the behavior of Commit, mirroring §4.1's
// commit(msg, amend?, allow_empty?).
type CommitOptions struct {
	Amend      bool
	AllowEmpty bool
	NoEdit     bool
}

type driver struct {
	runner *commandRunner
	dir    string
}

// NewDriver returns a Driver that shells out to the real git binary
// rooted at dir.
func NewDriver(dir string) Driver {
	return &driver{runner: newGitRunner(dir), dir: dir}
}

func (d *driver) WorkingDir() string { return d.dir }

func (d *driver) run(ctx context.Context, args ...string) (string, error) {
	return d.runner.runRetrying(ctx, nil, args...)
}

func (d *driver) runWithEnv(ctx context.Context, env []string, args ...string) (string, error) {
	return d.runner.runRetrying(ctx, env, args...)
}

func (d *driver) Checkout(ctx context.Context, ref string, recurseSubmodules bool) error {
	args := []string{"checkout", ref}
	if recurseSubmodules {
		args = append(args, "--recurse-submodules")
	}
	_, err := d.run(ctx, args...)
	return err
}

func (d *driver) CheckoutDetached(ctx context.Context, ref string) error {
	_, err := d.run(ctx, "checkout", "--detach", ref)
	return err
}

func (d *driver) SwitchForce(ctx context.Context, branch, fromRef string) error {
	_, err := d.run(ctx, "switch", "-C", branch, fromRef)
	return err
}

func (d *driver) SubmoduleUpdateInitRecursive(ctx context.Context) error {
	_, err := d.run(ctx, "submodule", "update", "--init", "--recursive")
	return err
}

func (d *driver) ResetHard(ctx context.Context, ref string) error {
	_, err := d.run(ctx, "reset", "--hard", ref)
	return err
}

func (d *driver) ResetSoft(ctx context.Context, ref string) error {
	_, err := d.run(ctx, "reset", "--soft", ref)
	return err
}

func (d *driver) AddAll(ctx context.Context) error {
	_, err := d.run(ctx, "add", "-A")
	return err
}

func (d *driver) Add(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	args := append([]string{"add"}, paths...)
	_, err := d.run(ctx, args...)
	return err
}

func (d *driver) Commit(ctx context.Context, message string, opts CommitOptions) error {
	args := []string{"commit"}
	if opts.Amend {
		args = append(args, "--amend")
		if opts.NoEdit {
			args = append(args, "--no-edit")
		}
	}
	if opts.AllowEmpty {
		args = append(args, "--allow-empty")
	}
	if message != "" && !(opts.Amend && opts.NoEdit) {
		args = append(args, "-m", message)
	}
	_, err := d.run(ctx, args...)
	return err
}

// Merge runs `git merge --no-ff --no-commit otherRef`. On a conflict it
// returns a *Failure with the conflicted file list.
func (d *driver) Merge(ctx context.Context, otherRef string) error {
	out, err := d.run(ctx, "merge", "--no-ff", "--no-commit", otherRef)
	if err == nil {
		return nil
	}
	return d.conflictOrErr(err, out)
}

// RebaseOnto runs `git rebase --onto newBase oldBase branch`, which
// checks out branch before replaying its commits. On conflict it
// returns a *Failure.
func (d *driver) RebaseOnto(ctx context.Context, newBase, oldBase, branch string) error {
	out, err := d.run(ctx, "rebase", "--onto", newBase, oldBase, branch)
	if err == nil {
		return nil
	}
	return d.conflictOrErr(err, out)
}

func (d *driver) RebaseContinue(ctx context.Context, editorDisabled bool) error {
	var env []string
	if editorDisabled {
		env = []string{"GIT_EDITOR=true"}
	}
	out, err := d.runWithEnv(ctx, env, "rebase", "--continue")
	if err == nil {
		return nil
	}
	return d.conflictOrErr(err, out)
}

func (d *driver) RebaseAbort(ctx context.Context) error {
	_, err := d.run(ctx, "rebase", "--abort")
	return err
}

// CheckoutPathsFromRef runs `git checkout ref -- .`, forcing the entire
// working tree and index to match ref's tree while staying on the
// currently checked-out branch. Used to force-take one side's tree
// after an unresolved history-branch merge conflict.
func (d *driver) CheckoutPathsFromRef(ctx context.Context, ref string) error {
	_, err := d.run(ctx, "checkout", ref, "--", ".")
	return err
}

func (d *driver) conflictOrErr(err error, out string) error {
	var gitErr *ggerrors.GitCommandError
	if ge, ok := err.(*ggerrors.GitCommandError); ok {
		gitErr = ge
	}
	stdout, stderr := out, ""
	if gitErr != nil {
		stdout, stderr = gitErr.Stdout, gitErr.Stderr
	}
	failure := classifyFailure(err, stdout, stderr)
	if failure.Kind == FailureUnknown {
		return fmt.Errorf("%w: %v", ggerrors.ErrInternal, err)
	}
	return failure
}

func (d *driver) Push(ctx context.Context, remote, refspec string, setUpstream bool) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, remote, refspec)
	_, err := d.run(ctx, args...)
	return err
}

func (d *driver) PullRebase(ctx context.Context, remote, branch string) error {
	_, err := d.run(ctx, "pull", "--rebase", remote, branch)
	return err
}

func (d *driver) Fetch(ctx context.Context, remote string) error {
	_, err := d.run(ctx, "fetch", remote)
	return err
}

func (d *driver) Diff(ctx context.Context, a, b string) (string, error) {
	return d.run(ctx, "diff", a, b)
}

func (d *driver) IsDiffEmpty(ctx context.Context, a, b string) (bool, error) {
	out, err := d.Diff(ctx, a, b)
	if err != nil {
		return false, err
	}
	return out == "", nil
}

func (d *driver) RevListCount(ctx context.Context, rangeExpr string) (int, error) {
	out, err := d.run(ctx, "rev-list", "--count", rangeExpr)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(out))
}

func (d *driver) MergeBase(ctx context.Context, a, b string) (string, error) {
	return d.run(ctx, "merge-base", a, b)
}

func (d *driver) DeleteBranch(ctx context.Context, name string) error {
	_, err := d.run(ctx, "branch", "-D", name)
	return err
}

// RenameBranch force-renames oldName to newName, overwriting newName if
// it already exists (git branch -M). copyBranchState in the engine
// relies on the overwrite behavior.
func (d *driver) RenameBranch(ctx context.Context, oldName, newName string) error {
	_, err := d.run(ctx, "branch", "-M", oldName, newName)
	return err
}

func (d *driver) CreateBranch(ctx context.Context, name, startPoint string) error {
	args := []string{"branch", name}
	if startPoint != "" {
		args = append(args, startPoint)
	}
	_, err := d.run(ctx, args...)
	return err
}

func (d *driver) BranchExists(ctx context.Context, name string) (bool, error) {
	_, err := d.run(ctx, "show-ref", "--verify", "--quiet", "refs/heads/"+name)
	if err == nil {
		return true, nil
	}
	if _, ok := err.(*ggerrors.GitCommandError); ok {
		return false, nil
	}
	return false, err
}

func (d *driver) CurrentBranch(ctx context.Context) (string, error) {
	out, err := d.run(ctx, "rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		return "", err
	}
	if out == "HEAD" {
		return "", ggerrors.NewConfigurationError("HEAD is detached")
	}
	return out, nil
}

func (d *driver) RevParse(ctx context.Context, ref string) (string, error) {
	return d.run(ctx, "rev-parse", ref)
}

func (d *driver) RemoteURL(ctx context.Context, remote string) (string, error) {
	return d.run(ctx, "remote", "get-url", remote)
}

func (d *driver) CommitMessage(ctx context.Context, ref string) (string, error) {
	return d.run(ctx, "log", "-1", "--pretty=%B", ref)
}

func (d *driver) CommitDate(ctx context.Context, ref string) (time.Time, error) {
	out, err := d.run(ctx, "log", "-1", "--pretty=%cI", ref)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339, out)
}

func (d *driver) HasUncommittedChanges(ctx context.Context) (bool, error) {
	out, err := d.run(ctx, "status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

func (d *driver) IsRebaseInProgress(ctx context.Context) bool {
	gitDir, err := d.run(ctx, "rev-parse", "--git-dir")
	if err != nil {
		return false
	}
	for _, sub := range []string{"rebase-merge", "rebase-apply"} {
		if _, statErr := osStat(gitDir + "/" + sub); statErr == nil {
			return true
		}
	}
	return false
}
