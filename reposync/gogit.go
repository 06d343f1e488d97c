package reposync

import (
	"context"
	"errors"

	"github.com/go-git/go-git/v5"
)

// GoGit implements Repo in process with go-git.
type GoGit struct{}

func (GoGit) Clone(ctx context.Context, url, dir string) error {
	_, err := git.PlainCloneContext(ctx, dir, false, &git.CloneOptions{URL: url})
	return err
}

func (GoGit) Pull(ctx context.Context, dir, remote string) error {
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return err
	}

	err = wt.PullContext(ctx, &git.PullOptions{RemoteName: remote})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		return nil
	}
	return err
}
