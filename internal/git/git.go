// Package git resolves release tags from the repository the images were built from.
//
// It imports ONLY stdlib and go-git packages.
package git

import (
	"errors"
	"fmt"
	"sort"

	gogit "github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"github.com/go-git/go-git/v6/plumbing/object"
)

var (
	// ErrNotRepository is returned when the path is not inside a git repository.
	ErrNotRepository = errors.New("not a git repository")

	// ErrNoTagAtHead is returned when no tag points at the HEAD commit.
	ErrNoTagAtHead = errors.New("no tag points at HEAD")
)

// Repo is a read-only view of a git repository.
type Repo struct {
	repo *gogit.Repository
}

// Open opens the git repository containing path, walking up to find .git.
//
// Returns ErrNotRepository (wrapped) if path is not inside a git repository.
func Open(path string) (*Repo, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%w: %s", ErrNotRepository, path)
		}
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}
	return NewRepo(repo), nil
}

// NewRepo wraps an already opened repository. Used by tests with in-memory storage.
func NewRepo(repo *gogit.Repository) *Repo {
	return &Repo{repo: repo}
}

// TagAtHead opens the repository containing path and returns the tag at HEAD.
func TagAtHead(path string) (string, error) {
	r, err := Open(path)
	if err != nil {
		return "", err
	}
	return r.TagAtHead()
}

// TagAtHead returns the short name of a tag, lightweight or annotated, whose
// commit is HEAD. When several qualify the lexically greatest wins.
func (r *Repo) TagAtHead() (string, error) {
	tags, err := r.TagsAtHead()
	if err != nil {
		return "", err
	}
	if len(tags) == 0 {
		return "", ErrNoTagAtHead
	}
	return tags[len(tags)-1], nil
}

// TagsAtHead returns every tag whose commit is HEAD, sorted.
func (r *Repo) TagsAtHead() ([]string, error) {
	head, err := r.repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, fmt.Errorf("%w: repository has no commits", ErrNoTagAtHead)
		}
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	defer iter.Close()

	var names []string
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		target, err := r.commitOf(ref.Hash())
		if err != nil {
			return err
		}
		if target == head.Hash() {
			names = append(names, ref.Name().Short())
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	sort.Strings(names)
	return names, nil
}

// commitOf peels an annotated tag object to its commit. Lightweight tags
// already hold the commit hash. Tags of non-commit objects yield ZeroHash.
func (r *Repo) commitOf(h plumbing.Hash) (plumbing.Hash, error) {
	tag, err := r.repo.TagObject(h)
	switch {
	case errors.Is(err, plumbing.ErrObjectNotFound):
		return h, nil
	case err != nil:
		return plumbing.ZeroHash, err
	}

	commit, err := tag.Commit()
	if errors.Is(err, object.ErrUnsupportedObject) {
		return plumbing.ZeroHash, nil
	}
	if err != nil {
		return plumbing.ZeroHash, err
	}
	return commit.Hash, nil
}
