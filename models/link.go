// Package models defines the shared data structures for link enrichment.
package models

import "time"

// Status is the lifecycle marker on a link record indicating pipeline
// progress and outcome.
type Status string

const (
	StatusScraping    Status = "scraping"
	StatusSummarizing Status = "summarizing"
	StatusProcessed   Status = "processed"
	StatusFailed      Status = "failed"
)

// LinkRecord is a saved link plus its derived metadata. Rows are owned by
// the persistence layer and mutated only through partial field updates
// keyed by LinkID; this service never deletes them.
type LinkRecord struct {
	LinkID      string    `json:"link_id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Author      string    `json:"author"`
	SiteName    string    `json:"site_name"`
	Lang        string    `json:"lang"`
	FaviconURL  string    `json:"favicon_url"`
	ImageURL    string    `json:"image_url"`
	AISummary   string    `json:"ai_summary"`
	Status      Status    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// LinkContent is the one-to-one content row for a link. It is always
// written as a unit via an idempotent upsert keyed by LinkID.
type LinkContent struct {
	LinkID             string `json:"link_id"`
	MainContentText    string `json:"main_content_text"`
	MainContentHTML    string `json:"main_content_html"`
	StructuredDataJSON string `json:"structured_data_json"`
	RawHTML            string `json:"raw_html"`
}
