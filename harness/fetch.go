package harness

import (
	"context"
	"fmt"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// FetchSuite makes s.Dir a checkout of s.URL at s.Ref, cloning it first if
// needed. It returns the commit hash that was checked out.
func FetchSuite(ctx context.Context, s Suite) (string, error) {
	if s.URL == "" {
		return "", fmt.Errorf("suite has no url")
	}
	if s.Dir == "" {
		return "", fmt.Errorf("suite has no dir")
	}

	repo, err := openOrClone(ctx, s)
	if err != nil {
		return "", err
	}

	hash, err := resolveRef(ctx, repo, s.Ref)
	if err != nil {
		return "", err
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:  hash,
		Force: true,
	}); err != nil {
		return "", fmt.Errorf("git checkout %s: %w", hash, err)
	}

	return hash.String(), nil
}

func openOrClone(ctx context.Context, s Suite) (*git.Repository, error) {
	if _, err := os.Stat(s.Dir); os.IsNotExist(err) {
		repo, err := git.PlainCloneContext(ctx, s.Dir, false, &git.CloneOptions{
			URL: s.URL,
		})
		if err != nil {
			_ = os.RemoveAll(s.Dir)
			return nil, fmt.Errorf("git clone %s: %w", s.URL, err)
		}
		return repo, nil
	}

	repo, err := git.PlainOpen(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", s.Dir, err)
	}
	err = repo.FetchContext(ctx, &git.FetchOptions{RemoteName: git.DefaultRemoteName, Tags: git.AllTags})
	if err != nil && err != git.NoErrAlreadyUpToDate {
		return nil, fmt.Errorf("git fetch %s: %w", s.URL, err)
	}
	return repo, nil
}

// resolveRef accepts anything ResolveRevision does, plus branch names that
// only exist on the remote. An empty ref follows the remote's HEAD, since the
// local HEAD is detached after the first checkout.
func resolveRef(ctx context.Context, repo *git.Repository, ref string) (plumbing.Hash, error) {
	if ref == "" {
		return remoteHead(ctx, repo)
	}

	var firstErr error
	for _, rev := range []string{ref, git.DefaultRemoteName + "/" + ref} {
		hash, err := repo.ResolveRevision(plumbing.Revision(rev))
		if err == nil {
			return *hash, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return plumbing.ZeroHash, fmt.Errorf("resolve revision %s: %w", ref, firstErr)
}

func remoteHead(ctx context.Context, repo *git.Repository) (plumbing.Hash, error) {
	remote, err := repo.Remote(git.DefaultRemoteName)
	if err != nil {
		return plumbing.ZeroHash, err
	}
	refs, err := remote.ListContext(ctx, &git.ListOptions{})
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("git ls-remote: %w", err)
	}

	byName := map[plumbing.ReferenceName]*plumbing.Reference{}
	for _, r := range refs {
		byName[r.Name()] = r
	}

	head, ok := byName[plumbing.HEAD]
	if !ok {
		return plumbing.ZeroHash, fmt.Errorf("remote %s has no HEAD", git.DefaultRemoteName)
	}
	if head.Type() == plumbing.SymbolicReference {
		target, ok := byName[head.Target()]
		if !ok {
			return plumbing.ZeroHash, fmt.Errorf("remote HEAD points at missing %s", head.Target())
		}
		head = target
	}
	return head.Hash(), nil
}
