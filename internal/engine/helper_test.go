package engine_test

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gitgud/gitgud/internal/engine"
	"github.com/gitgud/gitgud/internal/provider/fake"
)

// testRepo scaffolds a throwaway git repository with one commit on
// main, mirroring the teacher's own testhelpers.NewGitRepo setup.
type testRepo struct {
	t        *testing.T
	dir      string
	configs  string
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	configs := t.TempDir()

	r := &testRepo{t: t, dir: dir, configs: configs}
	r.git("init", "-b", "main")
	r.git("config", "user.name", "Test User")
	r.git("config", "user.email", "test@example.com")
	r.writeFile("README.md", "hello\n")
	r.git("add", "-A")
	r.git("commit", "-m", "initial commit")
	return r
}

func (r *testRepo) git(args ...string) string {
	r.t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = r.dir
	out, err := cmd.CombinedOutput()
	require.NoError(r.t, err, "git %v: %s", args, out)
	return string(out)
}

func (r *testRepo) writeFile(name, contents string) {
	r.t.Helper()
	require.NoError(r.t, os.WriteFile(filepath.Join(r.dir, name), []byte(contents), 0o644))
}

// init constructs a fresh Engine over r, wired to a fake provider.
func (r *testRepo) init(t *testing.T) *engine.Engine {
	t.Helper()
	e, err := engine.Init(engine.Options{
		RepoRoot:    r.dir,
		ConfigsRoot: r.configs,
		Provider:    fake.New(),
	})
	require.NoError(t, err)
	return e
}

func ctx() context.Context { return context.Background() }
