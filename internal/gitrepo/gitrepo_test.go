package gitrepo

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// initRepo creates a local repository with two commits and returns its
// path plus both commit hashes.
func initRepo(t *testing.T) (dir, first, second string) {
	t.Helper()

	dir = t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repo: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("get worktree: %v", err)
	}

	commit := func(name, content, message string) string {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if _, err := worktree.Add(name); err != nil {
			t.Fatalf("add %s: %v", name, err)
		}
		hash, err := worktree.Commit(message, &gogit.CommitOptions{
			Author: &object.Signature{
				Name:  "Release Manager",
				Email: "rm@example.org",
				When:  time.Now(),
			},
		})
		if err != nil {
			t.Fatalf("commit: %v", err)
		}
		return hash.String()
	}

	first = commit("README.md", "first\n", "initial import")
	second = commit("README.md", "second\n", "update readme")
	return dir, first, second
}

func TestCloneAtRevision(t *testing.T) {
	src, first, _ := initRepo(t)
	dest := filepath.Join(t.TempDir(), "clone")

	if err := CloneAtRevision(context.Background(), src, dest, first); err != nil {
		t.Fatalf("CloneAtRevision() error = %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dest, "README.md"))
	if err != nil {
		t.Fatalf("read checked-out file: %v", err)
	}
	if string(got) != "first\n" {
		t.Errorf("README.md = %q, want the first commit's content", got)
	}
}

func TestCloneAtRevision_AbbreviatedHash(t *testing.T) {
	src, first, _ := initRepo(t)
	dest := filepath.Join(t.TempDir(), "clone")

	if err := CloneAtRevision(context.Background(), src, dest, first[:10]); err != nil {
		t.Fatalf("CloneAtRevision() error = %v", err)
	}
}

func TestCloneAtRevision_UnknownRevision(t *testing.T) {
	src, _, _ := initRepo(t)
	dest := filepath.Join(t.TempDir(), "clone")

	err := CloneAtRevision(context.Background(), src, dest, "0000000000000000000000000000000000000000")
	if err == nil {
		t.Error("CloneAtRevision() expected error for unknown revision")
	}
}

func TestCloneAtRevision_BadURL(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "clone")

	err := CloneAtRevision(context.Background(), filepath.Join(t.TempDir(), "nope"), dest, "HEAD")
	if err == nil {
		t.Error("CloneAtRevision() expected error for missing repository")
	}
}
