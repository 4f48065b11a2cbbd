// Package git provides a strongly typed wrapper around the git
// executable: the Commit Graph Engine's Git Driver (component C1).
package git

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
	"time"

	ggerrors "github.com/gitgud/gitgud/internal/errors"
	"github.com/gitgud/gitgud/internal/gglog"
)

// DefaultCommandTimeout bounds a single git invocation.
const DefaultCommandTimeout = 5 * time.Minute

// MaxRetries is the number of retries, after the first attempt, made
// for a command whose failure matches a transient-error pattern, per
// §4.1's retry policy.
const MaxRetries = 10

// RetryBackoff is the delay between retry attempts.
const RetryBackoff = 1 * time.Second

// transientPatterns are substrings of stderr that mark a failure as
// transient and worth retrying.
var transientPatterns = []string{
	"index.lock",
	"Connection reset",
	"Temporary failure",
}

// commandRunner shells out to a single git (or gh) binary in a fixed
// working directory.
type commandRunner struct {
	workingDir string
	binary     string
}

func newGitRunner(workingDir string) *commandRunner {
	return &commandRunner{workingDir: workingDir, binary: "git"}
}

// run executes the command once, with no retry, and returns trimmed
// stdout on success or a *errors.GitCommandError on failure.
func (r *commandRunner) run(ctx context.Context, env []string, args ...string) (string, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, DefaultCommandTimeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.binary, args...)
	if r.workingDir != "" {
		cmd.Dir = r.workingDir
	}
	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	log := gglog.With("git")
	log.Debug("ran command", "binary", r.binary, "args", args, "duration", time.Since(start), "err", err)

	if err != nil {
		return "", ggerrors.NewGitCommandError(r.binary, args, stdout.String(), stderr.String(), err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// runRetrying runs the command, retrying up to MaxRetries times with
// RetryBackoff between attempts when the failure's stderr matches a
// transient pattern.
func (r *commandRunner) runRetrying(ctx context.Context, env []string, args ...string) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		out, err := r.run(ctx, env, args...)
		if err == nil {
			return out, nil
		}
		lastErr = err

		var gitErr *ggerrors.GitCommandError
		if !isTransient(err, &gitErr) {
			return "", err
		}

		gglog.With("git").Warn("retrying transient git failure", "attempt", attempt, "args", args)
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(RetryBackoff):
		}
	}
	return "", lastErr
}

// Clone runs `git clone url dest`, with no working directory of its
// own since dest doesn't exist yet. Used by the engine's Clone
// operation before a Driver can be constructed against it.
func Clone(ctx context.Context, url, dest string) error {
	r := &commandRunner{binary: "git"}
	_, err := r.runRetrying(ctx, nil, "clone", url, dest)
	return err
}

func isTransient(err error, out **ggerrors.GitCommandError) bool {
	gitErr, ok := err.(*ggerrors.GitCommandError)
	if !ok {
		return false
	}
	*out = gitErr
	haystack := gitErr.Stderr + gitErr.Stdout
	for _, pattern := range transientPatterns {
		if strings.Contains(haystack, pattern) {
			return true
		}
	}
	return false
}
