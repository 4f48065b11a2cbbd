package graph

import "github.com/google/uuid"

// NewRepoMetadata builds repo metadata with a freshly generated instance
// id, used to correlate this clone's bookkeeping with the hosted
// provider across machines.
func NewRepoMetadata(owner, repo string) *RepoMetadata {
	return &RepoMetadata{
		InstanceID: uuid.New().String(),
		Owner:      owner,
		Repo:       repo,
	}
}
