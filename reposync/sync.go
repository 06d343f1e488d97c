package reposync

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"trend-story-api/config"
)

const passTimeout = 5 * time.Minute

// Repo clones and updates a working copy.
type Repo interface {
	Clone(ctx context.Context, url, dir string) error
	// Pull fast-forwards dir from remote. An up to date checkout is not an
	// error.
	Pull(ctx context.Context, dir, remote string) error
}

// Syncer keeps a local checkout of the dataset repository current.
type Syncer struct {
	repoURL string
	dir     string
	remote  string
	repo    Repo
	log     *logrus.Entry
}

func New(cfg config.SyncConfig, log *logrus.Entry) *Syncer {
	return NewWithRepo(cfg, GoGit{}, log)
}

func NewWithRepo(cfg config.SyncConfig, repo Repo, log *logrus.Entry) *Syncer {
	remote := cfg.Remote
	if remote == "" {
		remote = "origin"
	}
	return &Syncer{
		repoURL: cfg.RepoURL,
		dir:     cfg.Dir,
		remote:  remote,
		repo:    repo,
		log:     log,
	}
}

// SyncOnce clones the repository when the checkout is missing and pulls it
// otherwise.
func (s *Syncer) SyncOnce(ctx context.Context) error {
	_, err := os.Stat(s.dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if err := s.repo.Clone(ctx, s.repoURL, s.dir); err != nil {
			return fmt.Errorf("clone %s: %w", s.repoURL, err)
		}
		s.log.WithField("dir", s.dir).Debug("Dataset cloned")
	case err != nil:
		return fmt.Errorf("stat %s: %w", s.dir, err)
	default:
		if err := s.repo.Pull(ctx, s.dir, s.remote); err != nil {
			return fmt.Errorf("pull %s: %w", s.dir, err)
		}
		s.log.WithField("dir", s.dir).Debug("Dataset pulled")
	}
	return nil
}

// Run syncs immediately and then on every tick until ctx is done. A failed
// pass is logged and retried on the next tick.
func (s *Syncer) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.log.WithFields(logrus.Fields{
		"interval": interval.String(),
		"repo":     s.repoURL,
		"dir":      s.dir,
	}).Info("Dataset sync running")

	s.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Dataset sync stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Syncer) runOnce(ctx context.Context) {
	subCtx, cancel := context.WithTimeout(ctx, passTimeout)
	defer cancel()

	start := time.Now()
	if err := s.SyncOnce(subCtx); err != nil {
		s.log.WithError(err).Warn("Dataset sync failed, will retry on next interval")
		return
	}
	s.log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("Dataset sync completed")
}
