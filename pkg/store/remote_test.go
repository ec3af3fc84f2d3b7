package store

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/linklens/ai-engine/models"
)

type capturedCall struct {
	path   string
	auth   string
	body   map[string]any
	status int
}

func newCaptureServer(t *testing.T, status int) (*httptest.Server, *capturedCall) {
	t.Helper()

	call := &capturedCall{status: status}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		call.path = r.URL.Path
		call.auth = r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		json.Unmarshal(raw, &call.body)
		w.WriteHeader(call.status)
	}))
	t.Cleanup(srv.Close)
	return srv, call
}

func TestRemoteUpdateLink(t *testing.T) {
	srv, call := newCaptureServer(t, http.StatusOK)
	r := NewRemote(srv.URL, "service-key")

	err := r.UpdateLink(context.Background(), "link-1", map[string]any{"title": "T"})
	if err != nil {
		t.Fatalf("UpdateLink() failed: %v", err)
	}

	if call.path != "/functions/v1/update-link" {
		t.Errorf("path = %q, want %q", call.path, "/functions/v1/update-link")
	}
	if call.auth != "Bearer service-key" {
		t.Errorf("auth = %q, want bearer service key", call.auth)
	}
	if call.body["link_id"] != "link-1" {
		t.Errorf("link_id = %v, want link-1", call.body["link_id"])
	}
	payload, ok := call.body["payload"].(map[string]any)
	if !ok || payload["title"] != "T" {
		t.Errorf("payload = %v, want title T", call.body["payload"])
	}
}

func TestRemoteSetStatus(t *testing.T) {
	srv, call := newCaptureServer(t, http.StatusOK)
	r := NewRemote(srv.URL, "service-key")

	if err := r.SetStatus(context.Background(), "link-1", models.StatusProcessed); err != nil {
		t.Fatalf("SetStatus() failed: %v", err)
	}

	payload := call.body["payload"].(map[string]any)
	if payload["status"] != "processed" {
		t.Errorf("status = %v, want processed", payload["status"])
	}
}

func TestRemoteUpsertContent(t *testing.T) {
	srv, call := newCaptureServer(t, http.StatusOK)
	r := NewRemote(srv.URL, "service-key")

	err := r.UpsertContent(context.Background(), "link-1", models.LinkContent{
		LinkID:          "link-1",
		MainContentText: "text",
	})
	if err != nil {
		t.Fatalf("UpsertContent() failed: %v", err)
	}

	if call.path != "/functions/v1/upsert-content" {
		t.Errorf("path = %q, want %q", call.path, "/functions/v1/upsert-content")
	}
	payload := call.body["payload"].(map[string]any)
	if payload["main_content_text"] != "text" {
		t.Errorf("main_content_text = %v, want text", payload["main_content_text"])
	}
}

func TestRemoteNon2xxIsError(t *testing.T) {
	srv, _ := newCaptureServer(t, http.StatusBadGateway)
	r := NewRemote(srv.URL, "service-key")

	if err := r.UpdateLink(context.Background(), "link-1", map[string]any{"title": "T"}); err == nil {
		t.Fatal("UpdateLink() should fail on non-2xx response")
	}
}

func TestRemoteEnsureLinkNoop(t *testing.T) {
	// No server at all: EnsureLink must not make a network call.
	r := NewRemote("http://127.0.0.1:0", "service-key")
	if err := r.EnsureLink(context.Background(), "link-1", "https://example.com"); err != nil {
		t.Fatalf("EnsureLink() should be a no-op, got: %v", err)
	}
}
