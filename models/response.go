package models

// Optional fields are omitted when absent. Records and Tags are always
// serialized, as [] when empty.

type ImageInfo struct {
	FileName *string `json:"file_name,omitempty"`
	URL      *string `json:"url,omitempty"`
}

type EnrichedRecord struct {
	News
	Keywords *string    `json:"keywords,omitempty"`
	Image    *ImageInfo `json:"image,omitempty"`
	Tags     []string   `json:"tags"`
}

// DayResponse is the body of /latest and /date/{day}.
type DayResponse struct {
	Date    *string          `json:"date,omitempty"`
	Records []EnrichedRecord `json:"records"`
}

type DateEntry struct {
	Date        string `json:"date"`
	DateWithURL string `json:"dateWithUrl"`
}
