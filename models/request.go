package models

// ProcessRequest is the inbound trigger for one enrichment job. Exactly
// one of URL or PageContent must be set alongside LinkID: URL drives the
// full fetch-and-scrape path, PageContent the summarize-only path used
// when scraping happened upstream.
type ProcessRequest struct {
	LinkID      string `json:"link_id"`
	URL         string `json:"url,omitempty"`
	PageContent string `json:"page_content,omitempty"`
}
