// Package gittest provides test utilities for the git package.
package gittest

import (
	"fmt"
	"testing"
	"time"

	"github.com/go-git/go-billy/v6"
	"github.com/go-git/go-billy/v6/memfs"
	gogit "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/cache"
	"github.com/go-git/go-git/v6/plumbing/object"
	"github.com/go-git/go-git/v6/storage/filesystem"
	"github.com/stretchr/testify/require"

	"github.com/schmitthub/relpub/internal/git"
)

// InMemoryRepo is a repository backed by memfs, with helpers to add commits and tags.
type InMemoryRepo struct {
	*git.Repo
	repo     *gogit.Repository
	worktree billy.Filesystem
	t        *testing.T
	n        int
}

// NewInMemoryRepo creates an empty repository (no commits, so no HEAD).
func NewInMemoryRepo(t *testing.T) *InMemoryRepo {
	t.Helper()

	dotGitFS := memfs.New()
	worktreeFS := memfs.New()
	storer := filesystem.NewStorage(dotGitFS, cache.NewObjectLRUDefault())

	repo, err := gogit.Init(storer, gogit.WithWorkTree(worktreeFS))
	require.NoError(t, err, "failed to init in-memory repo")

	return &InMemoryRepo{
		Repo:     git.NewRepo(repo),
		repo:     repo,
		worktree: worktreeFS,
		t:        t,
	}
}

func signature() *object.Signature {
	return &object.Signature{
		Name:  "Test User",
		Email: "test@example.com",
		When:  time.Now(),
	}
}

// Commit writes a new file and commits it, returning the new HEAD.
func (m *InMemoryRepo) Commit(message string) plumbing.Hash {
	m.t.Helper()
	m.n++

	wt, err := m.repo.Worktree()
	require.NoError(m.t, err, "failed to get worktree")

	name := fmt.Sprintf("change-%d.txt", m.n)
	f, err := m.worktree.Create(name)
	require.NoError(m.t, err, "failed to create file")
	_, err = f.Write([]byte(message + "\n"))
	require.NoError(m.t, err, "failed to write file")
	require.NoError(m.t, f.Close(), "failed to close file")

	_, err = wt.Add(name)
	require.NoError(m.t, err, "failed to stage file")

	hash, err := wt.Commit(message, &gogit.CommitOptions{Author: signature()})
	require.NoError(m.t, err, "failed to commit")
	return hash
}

// LightweightTag points name directly at commit.
func (m *InMemoryRepo) LightweightTag(name string, commit plumbing.Hash) {
	m.t.Helper()
	_, err := m.repo.CreateTag(name, commit, nil)
	require.NoError(m.t, err, "failed to create tag %s", name)
}

// AnnotatedTag creates a tag object for commit.
func (m *InMemoryRepo) AnnotatedTag(name string, commit plumbing.Hash) {
	m.t.Helper()
	_, err := m.repo.CreateTag(name, commit, &gogit.CreateTagOptions{
		Tagger:  signature(),
		Message: "release " + name,
	})
	require.NoError(m.t, err, "failed to create annotated tag %s", name)
}

// Repository returns the underlying go-git Repository for test assertions.
func (m *InMemoryRepo) Repository() *gogit.Repository {
	return m.repo
}
