package database

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"trend-story-api/apperr"
	"trend-story-api/models"
	"trend-story-api/services"
)

// Store opens the dataset file read-only, once per request. The file is
// replaced out of band by the sync loop, so no handle is kept between
// requests.
type Store struct {
	path string
	log  *logrus.Entry
}

func NewStore(path string, log *logrus.Entry) *Store {
	return &Store{path: path, log: log}
}

// Path is the dataset file the store reads.
func (s *Store) Path() string {
	return s.path
}

// Open implements services.Store. A missing file or a failed open is
// reported as apperr.ErrStoreUnavailable.
func (s *Store) Open(ctx context.Context) (services.Repository, error) {
	if _, err := os.Stat(s.path); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", apperr.ErrStoreUnavailable, s.path, err)
	}

	// Each open builds its own pool and schema cache. That costs a parse per
	// request but pins the request to one file snapshot; prepared statements
	// would die with the pool anyway.
	db, err := gorm.Open(sqlite.Open(readOnlyDSN(s.path)), &gorm.Config{
		PrepareStmt: false,
		Logger: gormlogger.New(s.log, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", apperr.ErrStoreUnavailable, s.path, err)
	}

	return &Repository{db: db}, nil
}

// Healthy reports whether the dataset file is present.
func (s *Store) Healthy(ctx context.Context) bool {
	info, err := os.Stat(s.path)
	return err == nil && !info.IsDir()
}

func readOnlyDSN(path string) string {
	return fmt.Sprintf("file:%s?mode=ro&_busy_timeout=5000", path)
}

// Repository reads main_news_data and the tables it references.
type Repository struct {
	db *gorm.DB
}

var _ services.Repository = (*Repository)(nil)

func (r *Repository) LatestDate(ctx context.Context) (*string, error) {
	var rows []models.News
	err := r.db.WithContext(ctx).
		Select("id", "date").
		Where("date IS NOT NULL").
		Order("date DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].Date, nil
}

func (r *Repository) Dates(ctx context.Context) ([]string, error) {
	var dates []string
	err := r.db.WithContext(ctx).
		Model(&models.News{}).
		Where("date IS NOT NULL").
		Order("id ASC").
		Pluck("date", &dates).Error
	return dates, err
}

func (r *Repository) NewsForDay(ctx context.Context, day string) ([]models.News, error) {
	var rows []models.News
	err := r.db.WithContext(ctx).
		Where("substr(date, 1, 10) = ?", day).
		Order("id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *Repository) KeywordByID(ctx context.Context, id int64) (*models.Keyword, error) {
	// Older datasets have no categories column; it is then left nil.
	var kw models.Keyword
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&kw).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &kw, nil
}

func (r *Repository) ImageByID(ctx context.Context, id int64) (*models.Image, error) {
	var img models.Image
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&img).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &img, nil
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
