package services

import (
	"context"

	"trend-story-api/models"
)

// Repository is a read-only view of one opened dataset.
type Repository interface {
	// LatestDate returns the greatest date value in string order, or nil when
	// the table has no dated rows.
	LatestDate(ctx context.Context) (*string, error)
	// Dates returns every non-null date ordered by ascending row id.
	Dates(ctx context.Context) ([]string, error)
	// NewsForDay returns the rows whose date starts with day, ordered by id.
	NewsForDay(ctx context.Context, day string) ([]models.News, error)
	// KeywordByID and ImageByID return nil, nil when no row matches.
	KeywordByID(ctx context.Context, id int64) (*models.Keyword, error)
	ImageByID(ctx context.Context, id int64) (*models.Image, error)
	Close() error
}

// Store opens a Repository for the duration of a single request.
type Store interface {
	Open(ctx context.Context) (Repository, error)
}
