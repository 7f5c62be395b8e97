package gitver

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

type testRepo struct {
	t    *testing.T
	dir  string
	repo *gogit.Repository
	seq  int
}

func newTestRepo(t *testing.T) *testRepo {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	return &testRepo{t: t, dir: dir, repo: repo}
}

func (r *testRepo) commit(msg string) plumbing.Hash {
	r.t.Helper()
	r.seq++

	name := filepath.Join(r.dir, "file.txt")
	if err := os.WriteFile(name, []byte(msg), 0644); err != nil {
		r.t.Fatalf("write file: %v", err)
	}

	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("worktree: %v", err)
	}
	if _, err := wt.Add("file.txt"); err != nil {
		r.t.Fatalf("add: %v", err)
	}

	hash, err := wt.Commit(msg, &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "tester",
			Email: "tester@example.com",
			When:  time.Date(2024, 1, r.seq, 0, 0, 0, 0, time.UTC),
		},
	})
	if err != nil {
		r.t.Fatalf("commit: %v", err)
	}
	return hash
}

func (r *testRepo) tag(name string, hash plumbing.Hash) {
	r.t.Helper()
	if _, err := r.repo.CreateTag(name, hash, nil); err != nil {
		r.t.Fatalf("tag %s: %v", name, err)
	}
}

func (r *testRepo) annotatedTag(name string, hash plumbing.Hash) {
	r.t.Helper()
	_, err := r.repo.CreateTag(name, hash, &gogit.CreateTagOptions{
		Tagger: &object.Signature{
			Name:  "tester",
			Email: "tester@example.com",
			When:  time.Now(),
		},
		Message: "release " + name,
	})
	if err != nil {
		r.t.Fatalf("annotated tag %s: %v", name, err)
	}
}

func TestLatestTagOnHead(t *testing.T) {
	r := newTestRepo(t)
	hash := r.commit("first")
	r.tag("1.0.0", hash)

	got, err := NewClient(r.dir).Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got != "1.0.0" {
		t.Errorf("Latest = %q, want 1.0.0", got)
	}
}

func TestLatestTagOnAncestor(t *testing.T) {
	r := newTestRepo(t)
	tagged := r.commit("first")
	r.tag("0.2.0", tagged)
	r.commit("second, untagged")

	got, err := NewClient(r.dir).Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got != "0.2.0" {
		t.Errorf("Latest = %q, want 0.2.0", got)
	}
}

func TestLatestNearestTagWins(t *testing.T) {
	r := newTestRepo(t)
	first := r.commit("first")
	r.tag("1.0.0", first)
	second := r.commit("second")
	r.tag("1.1.0", second)

	got, err := NewClient(r.dir).Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got != "1.1.0" {
		t.Errorf("Latest = %q, want 1.1.0", got)
	}
}

func TestLatestAnnotatedTag(t *testing.T) {
	r := newTestRepo(t)
	hash := r.commit("first")
	r.annotatedTag("2.0.0", hash)

	got, err := NewClient(r.dir).Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest failed: %v", err)
	}
	if got != "2.0.0" {
		t.Errorf("Latest = %q, want 2.0.0", got)
	}
}

func TestLatestNoTags(t *testing.T) {
	r := newTestRepo(t)
	r.commit("first")

	_, err := NewClient(r.dir).Latest(context.Background())
	if !errors.Is(err, ErrNoTags) {
		t.Errorf("Latest error = %v, want ErrNoTags", err)
	}
}

func TestLatestNotARepo(t *testing.T) {
	_, err := NewClient(t.TempDir()).Latest(context.Background())
	if !errors.Is(err, ErrNotARepo) {
		t.Errorf("Latest error = %v, want ErrNotARepo", err)
	}
}

func TestLatestCancelledContext(t *testing.T) {
	r := newTestRepo(t)
	hash := r.commit("first")
	r.tag("1.0.0", hash)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewClient(r.dir).Latest(ctx); err == nil {
		t.Error("expected error for cancelled context")
	}
}
