package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/linklens/ai-engine/models"
)

const remoteTimeout = 15 * time.Second

// Remote persists through the datastore's function endpoints instead of
// a local database. Every call POSTs {link_id, payload} with a
// service-role bearer credential; the remote side owns row creation and
// the actual table writes.
type Remote struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

func NewRemote(baseURL, serviceKey string) *Remote {
	return &Remote{
		baseURL:    strings.TrimRight(baseURL, "/"),
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: remoteTimeout},
	}
}

// EnsureLink is a no-op: with the remote backend the link row is created
// upstream before this service is ever invoked.
func (r *Remote) EnsureLink(ctx context.Context, linkID, url string) error {
	return nil
}

func (r *Remote) UpdateLink(ctx context.Context, linkID string, fields map[string]any) error {
	return r.invoke(ctx, "update-link", linkID, fields)
}

func (r *Remote) UpsertContent(ctx context.Context, linkID string, content models.LinkContent) error {
	return r.invoke(ctx, "upsert-content", linkID, map[string]any{
		"main_content_text":    content.MainContentText,
		"main_content_html":    content.MainContentHTML,
		"structured_data_json": content.StructuredDataJSON,
		"raw_html":             content.RawHTML,
	})
}

func (r *Remote) SetStatus(ctx context.Context, linkID string, status models.Status) error {
	return r.UpdateLink(ctx, linkID, map[string]any{"status": string(status)})
}

// invoke POSTs one function call. Non-2xx responses are errors; the
// caller decides whether they are fatal for its stage.
func (r *Remote) invoke(ctx context.Context, function, linkID string, payload map[string]any) error {
	body, err := json.Marshal(map[string]any{
		"link_id": linkID,
		"payload": payload,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", function, err)
	}

	endpoint := fmt.Sprintf("%s/functions/v1/%s", r.baseURL, function)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build %s request: %w", function, err)
	}
	req.Header.Set("Authorization", "Bearer "+r.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to invoke %s: %w", function, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned status %d: %s", function, resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
