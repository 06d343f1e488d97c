package services

import (
	"context"
	"fmt"

	"trend-story-api/apperr"
	"trend-story-api/config"
	"trend-story-api/models"
)

var ErrInvalidDateFormat = apperr.NewValidation("Invalid date format, expected yyyymmdd")

// NewsService answers the three read shapes of the API. Every call opens the
// store, reads what it needs and closes it again.
type NewsService struct {
	store     Store
	assembler *Assembler
	domain    string
}

func NewNewsService(store Store, cfg config.APIConfig) *NewsService {
	return &NewsService{
		store:     store,
		assembler: NewAssembler(cfg),
		domain:    cfg.Domain,
	}
}

// Latest returns the records of the most recent day. An empty table is not an
// error: the response then has no date and no records.
func (s *NewsService) Latest(ctx context.Context) (*models.DayResponse, error) {
	repo, err := s.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	day, ok, err := LatestDay(ctx, repo)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &models.DayResponse{Records: []models.EnrichedRecord{}}, nil
	}

	records, err := s.recordsForDay(ctx, repo, day)
	if err != nil {
		return nil, err
	}
	return &models.DayResponse{Date: &day, Records: records}, nil
}

// ByDate returns the records of a day given as yyyymmdd. A day without rows
// is reported as apperr.ErrNotFound.
func (s *NewsService) ByDate(ctx context.Context, raw string) (*models.DayResponse, error) {
	day, err := ParseCompactDate(raw)
	if err != nil {
		return nil, err
	}

	repo, err := s.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	records, err := s.recordsForDay(ctx, repo, day)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("no data for %s: %w", day, apperr.ErrNotFound)
	}
	return &models.DayResponse{Date: &day, Records: records}, nil
}

// AllDates lists every day in the table with its browse URL.
func (s *NewsService) AllDates(ctx context.Context) ([]models.DateEntry, error) {
	repo, err := s.store.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer repo.Close()

	days, err := DistinctDays(ctx, repo)
	if err != nil {
		return nil, err
	}

	entries := make([]models.DateEntry, 0, len(days))
	for _, day := range days {
		entries = append(entries, models.DateEntry{
			Date:        day,
			DateWithURL: fmt.Sprintf("%s/date/%s", s.domain, day),
		})
	}
	return entries, nil
}

func (s *NewsService) recordsForDay(ctx context.Context, repo Repository, day string) ([]models.EnrichedRecord, error) {
	rows, err := repo.NewsForDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("fetch news for %s: %w", day, err)
	}
	return s.assembler.Assemble(ctx, repo, rows)
}

// ParseCompactDate validates a yyyymmdd string and returns it as yyyy-mm-dd.
// Only the shape is checked, not the calendar.
func ParseCompactDate(raw string) (string, error) {
	if len(raw) != 8 {
		return "", ErrInvalidDateFormat
	}
	for i := 0; i < len(raw); i++ {
		if raw[i] < '0' || raw[i] > '9' {
			return "", apperr.NewValidationWrap(ErrInvalidDateFormat.Message,
				fmt.Errorf("%q at offset %d is not a digit", raw[i], i))
		}
	}
	return raw[:4] + "-" + raw[4:6] + "-" + raw[6:], nil
}
