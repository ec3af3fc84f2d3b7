// Package store persists enrichment results to the shared link tables.
// Two backends implement the same contract: a local SQLite database and
// a remote function endpoint. Both scope every write by link_id equality
// and both are safe to call twice with the same payload.
package store

import (
	"context"

	"github.com/linklens/ai-engine/models"
)

// Store is the persistence adapter used by the pipeline. Callers treat
// every method as fire-and-log-on-error: a persistence failure must not
// crash the calling stage.
type Store interface {
	// EnsureLink guarantees a link row exists for linkID. Backends that
	// do not own row creation implement this as a no-op.
	EnsureLink(ctx context.Context, linkID, url string) error

	// UpdateLink applies a partial field update to the link row. It
	// never replaces the full record; absent keys are left untouched.
	UpdateLink(ctx context.Context, linkID string, fields map[string]any) error

	// UpsertContent writes the one-to-one content row as a unit.
	// Creation and update share this operation.
	UpsertContent(ctx context.Context, linkID string, content models.LinkContent) error

	// SetStatus records a pipeline status transition.
	SetStatus(ctx context.Context, linkID string, status models.Status) error
}
