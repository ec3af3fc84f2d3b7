// Package extractor derives a structured metadata record from raw page
// HTML. Extraction is a pure in-memory operation: malformed or partial
// markup never fails the whole record, it only leaves fields empty.
package extractor

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/araddon/dateparse"
	readability "github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"

	"github.com/linklens/ai-engine/models"
)

// minDetectableChars is the minimum amount of main-content text before
// statistical language detection is worth attempting.
const minDetectableChars = 40

// faviconRels are probed in priority order.
var faviconRels = []string{"icon", "shortcut icon", "apple-touch-icon"}

type Extractor struct {
	detector lingua.LanguageDetector
}

// New builds an Extractor with a language detector covering the major
// web languages. The detector is expensive to construct, so one
// Extractor should be built at startup and shared.
func New() *Extractor {
	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English, lingua.Spanish, lingua.French, lingua.German,
			lingua.Portuguese, lingua.Italian, lingua.Dutch, lingua.Russian,
			lingua.Chinese, lingua.Japanese, lingua.Korean,
		).
		Build()
	return &Extractor{detector: detector}
}

// Extract parses html fetched from rawURL into an ExtractedMetadata.
// Empty input yields a record with only URL and RawHTML set; that is not
// an error.
func (e *Extractor) Extract(rawURL, html string) *models.ExtractedMetadata {
	meta := &models.ExtractedMetadata{
		URL:      rawURL,
		RawHTML:  html,
		Keywords: []string{},
		StructuredData: models.StructuredData{
			JSONLD:      []any{},
			OpenGraph:   map[string]string{},
			TwitterCard: map[string]string{},
		},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return meta
	}

	e.extractMainContent(rawURL, html, meta)
	extractStructuredData(doc, meta)

	if meta.Title == "" {
		meta.Title = normalizeText(doc.Find("title").First().Text())
	}
	meta.Description = metaContent(doc, "description")
	meta.Author = metaContent(doc, "author")
	meta.PublicationDate = normalizeDate(metaContent(doc, "article:published_time"))
	meta.SiteName = meta.StructuredData.OpenGraph["og:site_name"]

	if keywords := metaContent(doc, "keywords"); keywords != "" {
		for _, kw := range strings.Split(keywords, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				meta.Keywords = append(meta.Keywords, kw)
			}
		}
	}

	if img := meta.StructuredData.OpenGraph["og:image"]; img != "" {
		meta.ImageURL = img
	} else {
		meta.ImageURL = meta.StructuredData.TwitterCard["twitter:image"]
	}

	meta.FaviconURL = resolveFavicon(doc, rawURL)
	meta.Language = e.resolveLanguage(doc, meta.MainContentText)

	return meta
}

// extractMainContent runs readability over the raw HTML and records the
// simplified article fragment plus its plain-text rendering. A page
// readability cannot make sense of simply has no main content.
func (e *Extractor) extractMainContent(rawURL, html string, meta *models.ExtractedMetadata) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return
	}

	parser := readability.NewParser()
	article, err := parser.Parse(strings.NewReader(html), parsedURL)
	if err != nil {
		return
	}

	meta.Title = normalizeText(article.Title)
	meta.MainContentHTML = article.Content
	meta.MainContentText = htmlToText(article.Content)
}

// extractStructuredData collects JSON-LD blocks and the full OpenGraph
// and Twitter-card property sets. Each JSON-LD script is decoded on its
// own so one malformed block cannot take down the rest.
func extractStructuredData(doc *goquery.Document, meta *models.ExtractedMetadata) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		body := strings.TrimSpace(s.Text())
		if body == "" {
			return
		}
		var block any
		if err := json.Unmarshal([]byte(body), &block); err != nil {
			return
		}
		meta.StructuredData.JSONLD = append(meta.StructuredData.JSONLD, block)
	})

	doc.Find("meta").Each(func(_ int, s *goquery.Selection) {
		content, ok := s.Attr("content")
		if !ok {
			return
		}
		if prop, ok := s.Attr("property"); ok {
			switch {
			case strings.HasPrefix(prop, "og:"):
				meta.StructuredData.OpenGraph[prop] = content
			case strings.HasPrefix(prop, "twitter:"):
				meta.StructuredData.TwitterCard[prop] = content
			}
		}
		if name, ok := s.Attr("name"); ok && strings.HasPrefix(name, "twitter:") {
			meta.StructuredData.TwitterCard[name] = content
		}
	})
}

// metaContent resolves a scalar meta field by probing the bare property
// name, then its og: and twitter: prefixed forms. First non-empty hit
// wins.
func metaContent(doc *goquery.Document, name string) string {
	for _, probe := range []string{name, "og:" + name, "twitter:" + name} {
		sel := doc.Find(fmt.Sprintf("meta[property=%q], meta[name=%q]", probe, probe)).First()
		if content, ok := sel.Attr("content"); ok {
			if content = strings.TrimSpace(content); content != "" {
				return content
			}
		}
	}
	return ""
}

// resolveFavicon searches link tags in priority order, resolving a
// relative href against the page URL. Pages without any icon link fall
// back to the conventional /favicon.ico location.
func resolveFavicon(doc *goquery.Document, rawURL string) string {
	base, baseErr := url.Parse(rawURL)

	for _, rel := range faviconRels {
		sel := doc.Find(fmt.Sprintf("link[rel=%q]", rel)).First()
		href, ok := sel.Attr("href")
		if !ok || strings.TrimSpace(href) == "" {
			continue
		}
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			continue
		}
		if baseErr == nil {
			return base.ResolveReference(ref).String()
		}
		return ref.String()
	}

	if baseErr == nil && base.Scheme != "" && base.Host != "" {
		return fmt.Sprintf("%s://%s/favicon.ico", base.Scheme, base.Host)
	}
	return ""
}

// resolveLanguage prefers the root element's lang attribute and falls
// back to statistical detection over the main content when the markup
// does not declare one.
func (e *Extractor) resolveLanguage(doc *goquery.Document, contentText string) string {
	if lang := strings.TrimSpace(doc.Find("html").AttrOr("lang", "")); lang != "" {
		return lang
	}
	if e.detector == nil || len(contentText) < minDetectableChars {
		return ""
	}
	if language, ok := e.detector.DetectLanguageOf(contentText); ok {
		return strings.ToLower(language.IsoCode639_1().String())
	}
	return ""
}

// normalizeDate parses a loosely formatted publication date and returns
// it as RFC 3339. Unparseable values are kept verbatim rather than
// dropped.
func normalizeDate(raw string) string {
	if raw == "" {
		return ""
	}
	t, err := dateparse.ParseAny(raw)
	if err != nil {
		return raw
	}
	return t.Format(time.RFC3339)
}

// htmlToText strips markup from an HTML fragment and renders it as
// plain text.
func htmlToText(fragment string) string {
	if fragment == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	return normalizeText(doc.Text())
}

// normalizeText collapses all runs of whitespace into single spaces.
func normalizeText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
