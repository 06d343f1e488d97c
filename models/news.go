package models

// News is a row of main_news_data, written by the ingestion pipeline.
type News struct {
	ID        int64   `json:"id" gorm:"column:id;primaryKey"`
	News      *string `json:"news,omitempty" gorm:"column:news"`
	Date      *string `json:"date,omitempty" gorm:"column:date"`
	SerpapiID *int64  `json:"serpapi_id,omitempty" gorm:"column:serpapi_id"`
	ImageID   *int64  `json:"image_id,omitempty" gorm:"column:image_id"`
}

func (News) TableName() string {
	return "main_news_data"
}

// Keyword is the search result row a news item was generated from.
// Categories is a "|" separated list of "kind-value" tokens.
type Keyword struct {
	ID         int64   `gorm:"column:id;primaryKey"`
	Query      *string `gorm:"column:query"`
	Categories *string `gorm:"column:categories"`
}

func (Keyword) TableName() string {
	return "serpapi_data"
}

type Image struct {
	ID       int64   `gorm:"column:id;primaryKey"`
	FileName *string `gorm:"column:file_name"`
}

func (Image) TableName() string {
	return "image_data"
}
