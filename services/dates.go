package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"
)

const dayLength = len("2006-01-02")

// truncateDay keeps the first ten characters of a date, like substr(date, 1, 10).
func truncateDay(date string) string {
	if utf8.RuneCountInString(date) <= dayLength {
		return date
	}
	n := 0
	for i := range date {
		if n == dayLength {
			return date[:i]
		}
		n++
	}
	return date
}

// LatestDay returns the day of the greatest date in the table. The maximum is
// taken over the full string before truncation.
func LatestDay(ctx context.Context, repo Repository) (string, bool, error) {
	latest, err := repo.LatestDate(ctx)
	if err != nil {
		return "", false, fmt.Errorf("resolve latest day: %w", err)
	}
	if latest == nil {
		return "", false, nil
	}
	day := truncateDay(*latest)
	if day == "" {
		return "", false, nil
	}
	return day, true, nil
}

// DistinctDays lists the days present in the table in compact yyyymmdd form,
// in the order each day first appears by row id. Dates shorter than a full
// day are skipped.
func DistinctDays(ctx context.Context, repo Repository) ([]string, error) {
	dates, err := repo.Dates(ctx)
	if err != nil {
		return nil, fmt.Errorf("list dates: %w", err)
	}

	days := make([]string, 0)
	seen := make(map[string]struct{})
	for _, date := range dates {
		if utf8.RuneCountInString(date) < dayLength {
			continue
		}
		day := strings.ReplaceAll(truncateDay(date), "-", "")
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	return days, nil
}
