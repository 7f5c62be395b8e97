// Package gitver resolves the release identifier from repository tag
// metadata using go-git, without shelling out to the git binary.
package gitver

import (
	"context"
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Common version resolution errors
var (
	ErrNotARepo = errors.New("not a git repository")
	ErrNoTags   = errors.New("no tag reachable from HEAD")
)

// Resolver is the interface for release identifier resolution.
// Following Go best practices: accept interfaces, return structs.
type Resolver interface {
	// Latest returns the most recent tag reachable from the current
	// revision. Returns ErrNoTags when the repository has no reachable tag.
	Latest(ctx context.Context) (string, error)
}

// Client implements Resolver against an on-disk repository.
type Client struct {
	repoPath string
}

// NewClient creates a resolver for the repository at or above repoPath.
func NewClient(repoPath string) *Client {
	return &Client{repoPath: repoPath}
}

// Latest walks the commit history from HEAD and returns the name of the
// first tagged commit encountered — the tag a release is being cut from.
// Both lightweight and annotated tags are considered.
func (c *Client) Latest(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("context cancelled: %w", err)
	}

	repo, err := gogit.PlainOpenWithOptions(c.repoPath, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gogit.ErrRepositoryNotExists) {
			return "", fmt.Errorf("%w: %s", ErrNotARepo, c.repoPath)
		}
		return "", fmt.Errorf("open repository: %w", err)
	}

	tagged, err := tagsByCommit(repo)
	if err != nil {
		return "", fmt.Errorf("read tags: %w", err)
	}
	if len(tagged) == 0 {
		return "", ErrNoTags
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", fmt.Errorf("%w: repository has no commits", ErrNoTags)
		}
		return "", fmt.Errorf("resolve HEAD: %w", err)
	}

	headCommit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return "", fmt.Errorf("resolve HEAD commit: %w", err)
	}

	var found string
	iter := object.NewCommitPreorderIter(headCommit, nil, nil)
	err = iter.ForEach(func(commit *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if name, ok := tagged[commit.Hash]; ok {
			found = name
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("walk history: %w", err)
	}

	if found == "" {
		return "", ErrNoTags
	}
	return found, nil
}

// tagsByCommit maps each tagged commit to a tag name. Annotated tags are
// resolved to their target commit. When several tags point at the same
// commit the lexicographically greatest name wins, which keeps the result
// deterministic and prefers the higher version under common schemes.
func tagsByCommit(repo *gogit.Repository) (map[plumbing.Hash]string, error) {
	iter, err := repo.Tags()
	if err != nil {
		return nil, err
	}

	tagged := make(map[plumbing.Hash]string)
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		hash := ref.Hash()

		if tagObj, err := repo.TagObject(hash); err == nil {
			hash = tagObj.Target
		} else if !errors.Is(err, plumbing.ErrObjectNotFound) {
			return err
		}

		if existing, ok := tagged[hash]; !ok || name > existing {
			tagged[hash] = name
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return tagged, nil
}
