package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"trend-story-api/config"
	"trend-story-api/models"
)

const (
	tokenSeparator = "|"
	kindSeparator  = "-"
)

// Assembler turns news rows into enriched records by resolving their keyword
// and image references.
type Assembler struct {
	domain  string
	tags    bool
	workers int
}

func NewAssembler(cfg config.APIConfig) *Assembler {
	workers := cfg.LookupWorkers
	if workers <= 0 {
		workers = 1
	}
	return &Assembler{
		domain:  cfg.Domain,
		tags:    cfg.Tags,
		workers: workers,
	}
}

// Assemble enriches rows concurrently. The result is ordered by ascending id
// whatever order the lookups finish in.
func (a *Assembler) Assemble(ctx context.Context, repo Repository, rows []models.News) ([]models.EnrichedRecord, error) {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(x, y models.News) int {
		return cmp.Compare(x.ID, y.ID)
	})

	records := make([]models.EnrichedRecord, len(sorted))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)

	for i, row := range sorted {
		g.Go(func() error {
			rec, err := a.enrich(gctx, repo, row)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}

func (a *Assembler) enrich(ctx context.Context, repo Repository, row models.News) (models.EnrichedRecord, error) {
	rec := models.EnrichedRecord{News: row, Tags: []string{}}

	if row.SerpapiID != nil {
		kw, err := repo.KeywordByID(ctx, *row.SerpapiID)
		if err != nil {
			return rec, fmt.Errorf("lookup keyword %d for news %d: %w", *row.SerpapiID, row.ID, err)
		}
		if kw != nil {
			rec.Keywords = kw.Query
			if a.tags && kw.Categories != nil {
				rec.Tags = ParseTags(*kw.Categories)
			}
		}
	}

	if row.ImageID != nil {
		img, err := repo.ImageByID(ctx, *row.ImageID)
		if err != nil {
			return rec, fmt.Errorf("lookup image %d for news %d: %w", *row.ImageID, row.ID, err)
		}
		if img != nil {
			info := &models.ImageInfo{}
			if img.FileName != nil {
				name := *img.FileName
				url := MediaURL(a.domain, name)
				info.FileName = &name
				info.URL = &url
			}
			rec.Image = info
		}
	}

	return rec, nil
}

// MediaURL builds the public URL of an image. File names follow
// prefix_<group>_..., and the group names the subdirectory.
func MediaURL(domain, fileName string) string {
	tokens := strings.Split(fileName, "_")
	if len(tokens) > 1 {
		return fmt.Sprintf("%s/images/%s/%s", domain, tokens[1], fileName)
	}
	return fmt.Sprintf("%s/images/%s", domain, fileName)
}

// ParseTags extracts category values from "kind-value|kind-value". Tokens
// without both parts are dropped and repeated values keep their first
// position. The result is never nil.
func ParseTags(categories string) []string {
	tags := make([]string, 0)
	if strings.TrimSpace(categories) == "" {
		return tags
	}

	seen := make(map[string]struct{})
	for _, token := range strings.Split(categories, tokenSeparator) {
		kind, value, ok := strings.Cut(token, kindSeparator)
		if !ok {
			continue
		}
		kind = strings.TrimSpace(kind)
		value = strings.TrimSpace(value)
		if kind == "" || value == "" {
			continue
		}
		if _, dup := seen[value]; dup {
			continue
		}
		seen[value] = struct{}{}
		tags = append(tags, value)
	}
	return tags
}
