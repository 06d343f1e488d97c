package services

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"sync/atomic"
	"time"

	"trend-story-api/models"
)

// memRepo is an in-memory Repository. With jitter set, lookups sleep a random
// few milliseconds so they complete out of order.
type memRepo struct {
	news     []models.News
	keywords map[int64]models.Keyword
	images   map[int64]models.Image

	jitter    bool
	lookupErr error
	closed    atomic.Int32
}

func newMemRepo() *memRepo {
	return &memRepo{
		keywords: make(map[int64]models.Keyword),
		images:   make(map[int64]models.Image),
	}
}

func (r *memRepo) LatestDate(ctx context.Context) (*string, error) {
	var latest *string
	for _, n := range r.news {
		if n.Date == nil {
			continue
		}
		if latest == nil || *n.Date > *latest {
			d := *n.Date
			latest = &d
		}
	}
	return latest, nil
}

func (r *memRepo) Dates(ctx context.Context) ([]string, error) {
	rows := slices.Clone(r.news)
	slices.SortFunc(rows, func(a, b models.News) int { return int(a.ID - b.ID) })
	var out []string
	for _, n := range rows {
		if n.Date != nil {
			out = append(out, *n.Date)
		}
	}
	return out, nil
}

func (r *memRepo) NewsForDay(ctx context.Context, day string) ([]models.News, error) {
	var out []models.News
	for _, n := range r.news {
		if n.Date != nil && truncateDay(*n.Date) == day {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b models.News) int { return int(a.ID - b.ID) })
	return out, nil
}

func (r *memRepo) KeywordByID(ctx context.Context, id int64) (*models.Keyword, error) {
	r.sleep()
	if r.lookupErr != nil {
		return nil, r.lookupErr
	}
	kw, ok := r.keywords[id]
	if !ok {
		return nil, nil
	}
	return &kw, nil
}

func (r *memRepo) ImageByID(ctx context.Context, id int64) (*models.Image, error) {
	r.sleep()
	img, ok := r.images[id]
	if !ok {
		return nil, nil
	}
	return &img, nil
}

func (r *memRepo) Close() error {
	r.closed.Add(1)
	return nil
}

func (r *memRepo) sleep() {
	if r.jitter {
		time.Sleep(time.Duration(rand.Intn(3)) * time.Millisecond)
	}
}

type memStore struct {
	repo    *memRepo
	openErr error
	opened  int
}

func (s *memStore) Open(ctx context.Context) (Repository, error) {
	s.opened++
	if s.openErr != nil {
		return nil, s.openErr
	}
	return s.repo, nil
}

var errBoom = errors.New("disk I/O error")

func str(s string) *string { return &s }

func i64(v int64) *int64 { return &v }
