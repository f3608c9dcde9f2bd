package harness

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

func commitFile(t *testing.T, repo *git.Repository, dir, name, content string) string {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := wt.Add(name); err != nil {
		t.Fatal(err)
	}
	hash, err := wt.Commit("add "+name, &git.CommitOptions{
		Author: &object.Signature{Name: "splat", Email: "splat@example.com", When: time.Unix(0, 0)},
	})
	if err != nil {
		t.Fatal(err)
	}
	return hash.String()
}

func TestFetchSuite(t *testing.T) {
	// Local clones go through the file transport, which runs git-upload-pack.
	if _, err := exec.LookPath("git-upload-pack"); err != nil {
		t.Skip("git-upload-pack not installed")
	}

	remote := t.TempDir()
	repo, err := git.PlainInit(remote, false)
	if err != nil {
		t.Fatal(err)
	}
	first := commitFile(t, repo, remote, "a_goodexecution.splat", "program begin print 1 ; end ;")
	second := commitFile(t, repo, remote, "a_goodexecution.out", "1")

	dir := filepath.Join(t.TempDir(), "suite")
	got, err := FetchSuite(context.Background(), Suite{URL: remote, Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if got != second {
		t.Fatalf("checked out %s, want %s", got, second)
	}
	if _, err := os.Stat(filepath.Join(dir, "a_goodexecution.out")); err != nil {
		t.Fatal(err)
	}

	got, err = FetchSuite(context.Background(), Suite{URL: remote, Dir: dir, Ref: first})
	if err != nil {
		t.Fatal(err)
	}
	if got != first {
		t.Fatalf("checked out %s, want %s", got, first)
	}
	if _, err := os.Stat(filepath.Join(dir, "a_goodexecution.out")); !os.IsNotExist(err) {
		t.Fatalf("file from a later commit is present: %v", err)
	}
}

func TestFetchSuiteFollowsRemoteHead(t *testing.T) {
	if _, err := exec.LookPath("git-upload-pack"); err != nil {
		t.Skip("git-upload-pack not installed")
	}

	remote := t.TempDir()
	repo, err := git.PlainInit(remote, false)
	if err != nil {
		t.Fatal(err)
	}
	first := commitFile(t, repo, remote, "a_goodexecution.splat", "program begin print 1 ; end ;")

	dir := filepath.Join(t.TempDir(), "suite")
	suite := Suite{URL: remote, Dir: dir}
	got, err := FetchSuite(context.Background(), suite)
	if err != nil {
		t.Fatal(err)
	}
	if got != first {
		t.Fatalf("checked out %s, want %s", got, first)
	}

	second := commitFile(t, repo, remote, "a_goodexecution.out", "1")

	got, err = FetchSuite(context.Background(), suite)
	if err != nil {
		t.Fatal(err)
	}
	if got != second {
		t.Fatalf("checked out %s after update, want %s", got, second)
	}
	if _, err := os.Stat(filepath.Join(dir, "a_goodexecution.out")); err != nil {
		t.Fatal(err)
	}
}

func TestFetchSuiteErrors(t *testing.T) {
	if _, err := FetchSuite(context.Background(), Suite{Dir: "x"}); err == nil {
		t.Fatal("missing url accepted")
	}
	if _, err := FetchSuite(context.Background(), Suite{URL: "x"}); err == nil {
		t.Fatal("missing dir accepted")
	}
}
