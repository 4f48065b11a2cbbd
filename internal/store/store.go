// Package store implements the State Store (component C3): atomic
// JSON persistence of a graph.RepoState, one file per working
// directory, keyed by the directory's absolute path.
package store

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	ggerrors "github.com/gitgud/gitgud/internal/errors"
	"github.com/gitgud/gitgud/internal/gglog"
	"github.com/gitgud/gitgud/internal/graph"
)

// DefaultConfigsRoot returns ~/.config/gg, the directory original_source
// calls CONFIGS_ROOT.
func DefaultConfigsRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "gg"), nil
}

// Store persists and loads RepoState for one configured root directory.
// A Store is safe for use by a single process; concurrent processes
// racing on the same repo are not a supported configuration (matching
// the teacher's own single-writer assumption for its state files).
type Store struct {
	configsRoot string
}

// New returns a Store rooted at configsRoot, creating the directory if
// it does not already exist.
func New(configsRoot string) (*Store, error) {
	if err := os.MkdirAll(configsRoot, 0o755); err != nil {
		return nil, fmt.Errorf("creating configs root %s: %w", configsRoot, err)
	}
	return &Store{configsRoot: configsRoot}, nil
}

// stateFilename mirrors original_source's load_state_for_directory:
// "{dirname}_{sha1_hex(directory)}", where directory is the absolute,
// cleaned path.
func stateFilename(repoDir string) (string, error) {
	abs, err := filepath.Abs(repoDir)
	if err != nil {
		return "", err
	}
	abs = filepath.Clean(abs)
	sum := sha1.Sum([]byte(abs))
	return fmt.Sprintf("%s_%s", filepath.Base(abs), hex.EncodeToString(sum[:])), nil
}

func (st *Store) pathFor(repoDir string) (string, error) {
	name, err := stateFilename(repoDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(st.configsRoot, name), nil
}

// Load reads the persisted RepoState for repoDir. It returns
// *ggerrors.ConfigNotFoundError if no state has been saved yet.
func (st *Store) Load(repoDir string) (*graph.RepoState, error) {
	path, err := st.pathFor(repoDir)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ggerrors.NewConfigNotFoundError(path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var state graph.RepoState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, ggerrors.NewBadGitGudStateError(fmt.Sprintf("corrupt state file %s: %v", path, err))
	}
	if state.SchemaVersion == 0 {
		state.SchemaVersion = 1
	}
	return &state, nil
}

// Save persists state for repoDir atomically: it writes to a temp file
// in the same directory and renames it over the destination, so a
// process interrupted mid-write never leaves a truncated state file
// behind.
func (st *Store) Save(repoDir string, state *graph.RepoState) error {
	path, err := st.pathFor(repoDir)
	if err != nil {
		return err
	}
	if state.SchemaVersion == 0 {
		state.SchemaVersion = 1
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".gitgud-state-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming temp state file into place: %w", err)
	}

	gglog.With("store").Debug("saved repo state", "path", path, "head_id", state.HeadID)
	return nil
}

// Delete removes the persisted state for repoDir, if any. Used by
// cleanup paths in tests; tolerates an already-missing file.
func (st *Store) Delete(repoDir string) error {
	path, err := st.pathFor(repoDir)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
