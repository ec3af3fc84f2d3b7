package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "internal-test-key"

type dispatched struct {
	kind    string
	linkID  string
	payload string
}

// fakeJobs signals on a channel so tests can wait for the detached job.
type fakeJobs struct {
	ch chan dispatched
}

func newFakeJobs() *fakeJobs {
	return &fakeJobs{ch: make(chan dispatched, 1)}
}

func (f *fakeJobs) ProcessURL(_ context.Context, linkID, url string) {
	f.ch <- dispatched{kind: "url", linkID: linkID, payload: url}
}

func (f *fakeJobs) ProcessContent(_ context.Context, linkID, content string) {
	f.ch <- dispatched{kind: "content", linkID: linkID, payload: content}
}

func (f *fakeJobs) wait(t *testing.T) dispatched {
	t.Helper()
	select {
	case d := <-f.ch:
		return d
	case <-time.After(2 * time.Second):
		t.Fatal("job was never dispatched")
		return dispatched{}
	}
}

func newTestServer() (*Server, *fakeJobs) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	jobs := newFakeJobs()
	return New(jobs, testAPIKey, log), jobs
}

func doRequest(t *testing.T, srv *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

func TestLiveness(t *testing.T) {
	srv, _ := newTestServer()

	rec := doRequest(t, srv, http.MethodGet, "/", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "running", body["status"])
}

func TestProcess_MissingAuth(t *testing.T) {
	srv, _ := newTestServer()

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/process", "", `{"link_id":"l1","url":"https://x.test"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProcess_WrongToken(t *testing.T) {
	srv, _ := newTestServer()

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/process", "Bearer wrong", `{"link_id":"l1","url":"https://x.test"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProcess_MalformedAuthScheme(t *testing.T) {
	srv, _ := newTestServer()

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/process", "Basic abc", `{"link_id":"l1","url":"https://x.test"}`)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestProcess_URLJob(t *testing.T) {
	srv, jobs := newTestServer()

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/process", "Bearer "+testAPIKey, `{"link_id":"l1","url":"https://x.test/a"}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["job_id"])

	d := jobs.wait(t)
	assert.Equal(t, "url", d.kind)
	assert.Equal(t, "l1", d.linkID)
	assert.Equal(t, "https://x.test/a", d.payload)
}

func TestProcess_ContentJob(t *testing.T) {
	srv, jobs := newTestServer()

	rec := doRequest(t, srv, http.MethodPost, "/api/v1/process", "Bearer "+testAPIKey, `{"link_id":"l1","page_content":"some already scraped text"}`)

	require.Equal(t, http.StatusAccepted, rec.Code)
	d := jobs.wait(t)
	assert.Equal(t, "content", d.kind)
	assert.Equal(t, "some already scraped text", d.payload)
}

func TestProcess_URLTakesPrecedence(t *testing.T) {
	srv, jobs := newTestServer()

	doRequest(t, srv, http.MethodPost, "/api/v1/process", "Bearer "+testAPIKey, `{"link_id":"l1","url":"https://x.test/a","page_content":"text"}`)

	d := jobs.wait(t)
	assert.Equal(t, "url", d.kind)
}

func TestProcess_BadRequests(t *testing.T) {
	srv, _ := newTestServer()

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"missing link_id", `{"url":"https://x.test"}`},
		{"missing url and content", `{"link_id":"l1"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, srv, http.MethodPost, "/api/v1/process", "Bearer "+testAPIKey, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}
