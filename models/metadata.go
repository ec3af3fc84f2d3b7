package models

// StructuredData holds the machine-readable metadata blocks embedded in
// page markup. JSONLD entries are the decoded bodies of individual
// <script type="application/ld+json"> blocks; a malformed block is
// skipped during extraction rather than aborting the rest.
type StructuredData struct {
	JSONLD      []any             `json:"jsonLd"`
	OpenGraph   map[string]string `json:"openGraph"`
	TwitterCard map[string]string `json:"twitterCard"`
}

// ExtractedMetadata is the full, in-memory result of parsing one page.
// It is never persisted as a blob; its fields are distributed across the
// link and link_content rows. Missing fields are empty strings, except
// Keywords which is an empty (non-nil) slice when absent.
type ExtractedMetadata struct {
	URL             string         `json:"url"`
	Title           string         `json:"title"`
	Description     string         `json:"description"`
	Author          string         `json:"author"`
	PublicationDate string         `json:"publicationDate"`
	SiteName        string         `json:"siteName"`
	Language        string         `json:"language"`
	ImageURL        string         `json:"image_url"`
	FaviconURL      string         `json:"favicon_url"`
	Keywords        []string       `json:"keywords"`
	MainContentText string         `json:"-"`
	MainContentHTML string         `json:"-"`
	StructuredData  StructuredData `json:"-"`
	RawHTML         string         `json:"-"`
}
