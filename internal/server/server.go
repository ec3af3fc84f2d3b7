// Package server exposes the enrichment pipeline over HTTP. The process
// endpoint acknowledges immediately and runs the job detached from the
// request cycle; pipeline outcome is only ever observable through the
// link's status field.
package server

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/linklens/ai-engine/models"
)

// Version reported by the liveness probe.
const Version = "0.1.0"

// Jobs is the slice of the pipeline the server needs.
type Jobs interface {
	ProcessURL(ctx context.Context, linkID, url string)
	ProcessContent(ctx context.Context, linkID, content string)
}

type Server struct {
	jobs   Jobs
	apiKey string
	log    logrus.FieldLogger
}

// New builds a Server. apiKey guards the /api/v1 routes; it must not be
// empty.
func New(jobs Jobs, apiKey string, log logrus.FieldLogger) *Server {
	return &Server{
		jobs:   jobs,
		apiKey: apiKey,
		log:    log.WithField("component", "server"),
	}
}

// Router builds the HTTP routing table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleRoot).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(s.requireBearer)
	api.HandleFunc("/process", s.handleProcess).Methods(http.MethodPost)
	return r
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "LinkLens AI Engine",
		"status":  "running",
		"version": Version,
	})
}

func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req models.ProcessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.LinkID == "" {
		writeError(w, http.StatusBadRequest, "link_id is required")
		return
	}
	if req.URL == "" && req.PageContent == "" {
		writeError(w, http.StatusBadRequest, "one of url or page_content is required")
		return
	}

	jobID := uuid.NewString()
	s.log.WithFields(logrus.Fields{"link_id": req.LinkID, "job_id": jobID}).
		Info("accepted processing job")

	// The job runs detached from the request cycle with its own context;
	// the client disconnecting must not cancel it.
	go func(req models.ProcessRequest) {
		ctx := context.Background()
		if req.URL != "" {
			s.jobs.ProcessURL(ctx, req.LinkID, req.URL)
			return
		}
		s.jobs.ProcessContent(ctx, req.LinkID, req.PageContent)
	}(req)

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "processing task accepted",
		"job_id":  jobID,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
