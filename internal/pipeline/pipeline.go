// Package pipeline sequences fetch, extract, persist and summarize for a
// single link, tracking the link's status through each stage. A job
// always terminates by recording a terminal status; no error escapes the
// pipeline boundary.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"github.com/linklens/ai-engine/models"
	"github.com/linklens/ai-engine/pkg/store"
)

// minSummarizableChars is the main-content length below which the
// summarize stage is skipped entirely. A page whose readable text is
// shorter than this still counts as successfully processed.
const minSummarizableChars = 100

// Fetcher retrieves raw page HTML. In the split deployment no fetcher is
// configured and only ProcessContent jobs are accepted.
type Fetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

// Extractor derives structured metadata from raw HTML.
type Extractor interface {
	Extract(rawURL, html string) *models.ExtractedMetadata
}

// Summarizer produces a summary for page text, absorbing backend errors.
type Summarizer interface {
	Summarize(ctx context.Context, text string) models.SummaryResult
}

// Embedder is the extension point for future chunk-and-embed work. The
// default implementation does nothing.
type Embedder interface {
	Embed(ctx context.Context, linkID, text string) error
}

type noopEmbedder struct{}

func (noopEmbedder) Embed(ctx context.Context, linkID, text string) error { return nil }

// NoopEmbedder returns the do-nothing embedding stage.
func NoopEmbedder() Embedder { return noopEmbedder{} }

type Pipeline struct {
	fetcher    Fetcher
	extractor  Extractor
	summarizer Summarizer
	embedder   Embedder
	store      store.Store
	log        logrus.FieldLogger
}

// New wires a pipeline. fetcher may be nil for the summarize-only
// deployment; embedder may be nil to use the no-op stage.
func New(fetcher Fetcher, extractor Extractor, summarizer Summarizer, embedder Embedder, st store.Store, log logrus.FieldLogger) *Pipeline {
	if embedder == nil {
		embedder = NoopEmbedder()
	}
	return &Pipeline{
		fetcher:    fetcher,
		extractor:  extractor,
		summarizer: summarizer,
		embedder:   embedder,
		store:      st,
		log:        log.WithField("component", "pipeline"),
	}
}

// ProcessURL runs the full scrape-and-summarize job for one link. It
// never returns an error: the outcome is recorded on the link's status
// field and in the logs.
func (p *Pipeline) ProcessURL(ctx context.Context, linkID, url string) {
	log := p.log.WithFields(logrus.Fields{"link_id": linkID, "url": url})
	log.Info("starting scrape job")

	if p.fetcher == nil {
		log.Error("no fetcher configured for this deployment")
		p.setStatus(ctx, linkID, models.StatusFailed)
		return
	}

	if err := p.store.EnsureLink(ctx, linkID, url); err != nil {
		log.WithError(err).Warn("failed to ensure link row")
	}
	p.setStatus(ctx, linkID, models.StatusScraping)

	html, err := p.fetcher.FetchHTML(ctx, url)
	if err != nil {
		// Fetch failure is terminal: nothing further runs.
		log.WithError(err).Error("fetch failed")
		p.setStatus(ctx, linkID, models.StatusFailed)
		return
	}

	meta := p.extractor.Extract(url, html)
	p.persistMetadata(ctx, linkID, meta)
	log.Info("scraped metadata persisted")

	p.summarizeAndFinish(ctx, linkID, meta.MainContentText)
}

// ProcessContent runs the summarize-only job for content scraped
// upstream.
func (p *Pipeline) ProcessContent(ctx context.Context, linkID, content string) {
	p.log.WithField("link_id", linkID).Info("starting content job")
	p.summarizeAndFinish(ctx, linkID, content)
}

// summarizeAndFinish is the shared back half of both job shapes: decide
// whether the content is worth summarizing, persist the summary, and
// record the terminal status.
func (p *Pipeline) summarizeAndFinish(ctx context.Context, linkID, content string) {
	log := p.log.WithField("link_id", linkID)
	content = strings.TrimSpace(content)

	if utf8.RuneCountInString(content) < minSummarizableChars {
		// Content too short to summarize; metadata alone is success.
		log.WithField("chars", utf8.RuneCountInString(content)).
			Info("content too short, skipping summarization")
		p.setStatus(ctx, linkID, models.StatusProcessed)
		return
	}

	p.setStatus(ctx, linkID, models.StatusSummarizing)

	result := p.summarizer.Summarize(ctx, content)
	if result.Generated {
		// An empty summary is omitted from the payload so a previously
		// stored good value is never blanked.
		if err := p.store.UpdateLink(ctx, linkID, map[string]any{"ai_summary": result.Summary}); err != nil {
			log.WithError(err).Error("failed to persist summary")
			p.setStatus(ctx, linkID, models.StatusFailed)
			return
		}
		log.Info("summary persisted")
	} else {
		log.WithField("attempted", result.Attempted).Info("no usable summary generated")
	}

	if err := p.embedder.Embed(ctx, linkID, content); err != nil {
		log.WithError(err).Warn("embedding stage failed")
	}

	p.setStatus(ctx, linkID, models.StatusProcessed)
}

// persistMetadata distributes the extracted record across the link row
// and the content row. Both writes are best effort: a persistence
// failure here is logged and the pipeline continues.
func (p *Pipeline) persistMetadata(ctx context.Context, linkID string, meta *models.ExtractedMetadata) {
	log := p.log.WithField("link_id", linkID)

	fields := map[string]any{
		"title":       meta.Title,
		"description": meta.Description,
		"author":      meta.Author,
		"site_name":   meta.SiteName,
		"lang":        meta.Language,
		"favicon_url": meta.FaviconURL,
		"image_url":   meta.ImageURL,
	}
	if err := p.store.UpdateLink(ctx, linkID, fields); err != nil {
		log.WithError(err).Warn("failed to persist link metadata")
	}

	content, err := buildContent(linkID, meta)
	if err != nil {
		log.WithError(err).Warn("failed to serialize structured data")
		return
	}
	if err := p.store.UpsertContent(ctx, linkID, content); err != nil {
		log.WithError(err).Warn("failed to persist link content")
	}
}

func buildContent(linkID string, meta *models.ExtractedMetadata) (models.LinkContent, error) {
	structured, err := json.Marshal(meta.StructuredData)
	if err != nil {
		return models.LinkContent{}, fmt.Errorf("failed to marshal structured data: %w", err)
	}
	return models.LinkContent{
		LinkID:             linkID,
		MainContentText:    meta.MainContentText,
		MainContentHTML:    meta.MainContentHTML,
		StructuredDataJSON: string(structured),
		RawHTML:            meta.RawHTML,
	}, nil
}

// setStatus is best effort like every other persistence call; a failed
// status write is logged, never raised.
func (p *Pipeline) setStatus(ctx context.Context, linkID string, status models.Status) {
	if err := p.store.SetStatus(ctx, linkID, status); err != nil {
		p.log.WithError(err).WithFields(logrus.Fields{
			"link_id": linkID,
			"status":  status,
		}).Warn("failed to update link status")
	}
}
