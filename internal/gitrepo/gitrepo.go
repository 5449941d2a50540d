// Package gitrepo clones the project's remote repository and checks out
// the revision the release candidate is said to be built from.
package gitrepo

import (
	"context"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// DefaultRemoteBase is the URL prefix repository names are appended to.
const DefaultRemoteBase = "https://github.com/apache/"

// CloneAtRevision clones the repository at url into dir and checks out
// revision. The revision may be a full commit hash or anything
// resolvable by the repository (abbreviated hash, tag, branch).
func CloneAtRevision(ctx context.Context, url, dir, revision string) error {
	repo, err := gogit.PlainCloneContext(ctx, dir, false, &gogit.CloneOptions{
		URL: url,
	})
	if err != nil {
		return fmt.Errorf("clone %s: %w", url, err)
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return fmt.Errorf("get worktree: %w", err)
	}
	if err := worktree.Checkout(&gogit.CheckoutOptions{Hash: *hash}); err != nil {
		return fmt.Errorf("checkout %s: %w", revision, err)
	}
	return nil
}
