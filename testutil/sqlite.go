package testutil

import (
	"path/filepath"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"trend-story-api/models"
)

// Schema mirrors the tables the ingestion pipeline writes.
const Schema = `
CREATE TABLE main_news_data (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    news        TEXT,
    date        TEXT,
    serpapi_id  INTEGER,
    image_id    INTEGER
);
CREATE TABLE serpapi_data (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    query       TEXT,
    categories  TEXT
);
CREATE TABLE image_data (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    file_name   TEXT
);
`

// LegacySchema is the older layout without serpapi_data.categories.
const LegacySchema = `
CREATE TABLE main_news_data (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    news        TEXT,
    date        TEXT,
    serpapi_id  INTEGER,
    image_id    INTEGER
);
CREATE TABLE serpapi_data (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    query       TEXT
);
CREATE TABLE image_data (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    file_name   TEXT
);
`

// Dataset is a writable SQLite file in a temp dir, closed on test cleanup.
type Dataset struct {
	Path string
	DB   *gorm.DB
	tb   testing.TB
}

func NewDataset(tb testing.TB) *Dataset {
	return NewDatasetWithSchema(tb, Schema)
}

func NewDatasetWithSchema(tb testing.TB, schema string) *Dataset {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), "trends_data.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		tb.Fatalf("failed to open sqlite dataset: %v", err)
	}
	if err := db.Exec(schema).Error; err != nil {
		tb.Fatalf("failed to create schema: %v", err)
	}

	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return &Dataset{Path: path, DB: db, tb: tb}
}

func (d *Dataset) AddNews(rows ...models.News) {
	d.tb.Helper()
	for _, row := range rows {
		if err := d.DB.Create(&row).Error; err != nil {
			d.tb.Fatalf("failed to insert news %d: %v", row.ID, err)
		}
	}
}

func (d *Dataset) AddKeyword(id int64, query, categories *string) {
	d.tb.Helper()
	err := d.DB.Exec("INSERT INTO serpapi_data (id, query, categories) VALUES (?, ?, ?)", id, query, categories).Error
	if err != nil {
		d.tb.Fatalf("failed to insert keyword %d: %v", id, err)
	}
}

func (d *Dataset) AddLegacyKeyword(id int64, query *string) {
	d.tb.Helper()
	if err := d.DB.Exec("INSERT INTO serpapi_data (id, query) VALUES (?, ?)", id, query).Error; err != nil {
		d.tb.Fatalf("failed to insert keyword %d: %v", id, err)
	}
}

func (d *Dataset) AddImage(id int64, fileName *string) {
	d.tb.Helper()
	if err := d.DB.Create(&models.Image{ID: id, FileName: fileName}).Error; err != nil {
		d.tb.Fatalf("failed to insert image %d: %v", id, err)
	}
}

func Str(s string) *string { return &s }

func Int64(v int64) *int64 { return &v }
