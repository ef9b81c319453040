// Package api implements the HTTP API served by `planarkit serve`.
//
// Endpoints:
//
//	GET  /v1/health        - liveness and build info
//	POST /v1/check         - run the planarity pipeline on a clustered document
//	GET  /v1/reports/{id}  - fetch an archived check report by run ID
//	GET  /v1/reports?doc_hash=... - list archived reports for a document
//
// The server wraps a pipeline.Runner, so caching behaves identically to the
// CLI. Report archival is optional: without a store, /v1/reports returns 404.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/planarkit/pkg/buildinfo"
	"github.com/matzehuels/planarkit/pkg/errors"
	"github.com/matzehuels/planarkit/pkg/observability"
	"github.com/matzehuels/planarkit/pkg/pipeline"
	"github.com/matzehuels/planarkit/pkg/store"
)

// Server handles HTTP requests for the planarity API.
type Server struct {
	runner *pipeline.Runner
	store  store.Store // nil disables report archival
	logger *log.Logger
}

// New creates a server. store may be nil to disable report archival.
func New(runner *pipeline.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, store: st, logger: logger}
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Post("/check", s.handleCheck)
		r.Get("/reports", s.handleListReports)
		r.Get("/reports/{id}", s.handleGetReport)
	})

	return r
}

// observe emits HTTP observability hooks and request logs.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(req.Context(), req.Method, req.Host, req.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
		next.ServeHTTP(ww, req)

		duration := time.Since(start)
		observability.HTTP().OnResponse(req.Context(), req.Method, req.Host, req.URL.Path, ww.Status(), duration)
		s.logger.Debug("handled request",
			"method", req.Method,
			"path", req.URL.Path,
			"status", ww.Status(),
			"duration", duration)
	})
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// CheckResponse is the response body of POST /v1/check.
type CheckResponse struct {
	RunID     string             `json:"run_id"`
	Report    pipeline.Report    `json:"report"`
	Stats     pipeline.Stats     `json:"stats"`
	CacheInfo pipeline.CacheInfo `json:"cache_info"`
	Artifacts map[string]string  `json:"artifacts,omitempty"` // format -> content (text formats only)
}

func (s *Server) handleCheck(w http.ResponseWriter, req *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(req.Body).Decode(&opts); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidDocument, err, "invalid request body"))
		return
	}
	opts.Logger = s.logger

	result, err := s.runner.Execute(req.Context(), opts)
	if err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "check failed"))
		return
	}

	if s.store != nil {
		rec := store.NewRecord(result.RunID.String(), result.Report)
		if err := s.store.Save(req.Context(), rec); err != nil {
			s.logger.Error("failed to archive report", "run_id", result.RunID, "err", err)
		}
	}

	resp := CheckResponse{
		RunID:     result.RunID.String(),
		Report:    result.Report,
		Stats:     result.Stats,
		CacheInfo: result.CacheInfo,
	}
	for format, data := range result.Artifacts {
		if format == pipeline.FormatJSON || format == pipeline.FormatDOT {
			if resp.Artifacts == nil {
				resp.Artifacts = make(map[string]string)
			}
			resp.Artifacts[format] = string(data)
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetReport(w http.ResponseWriter, req *http.Request) {
	if s.store == nil {
		writeError(w, errors.New(errors.ErrCodeReportNotFound, "report archival is disabled"))
		return
	}

	id := chi.URLParam(req, "id")
	if err := errors.ValidateIdentifier(id); err != nil {
		writeError(w, err)
		return
	}

	rec, err := s.store.Get(req.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleListReports(w http.ResponseWriter, req *http.Request) {
	if s.store == nil {
		writeError(w, errors.New(errors.ErrCodeReportNotFound, "report archival is disabled"))
		return
	}

	docHash := req.URL.Query().Get("doc_hash")
	if docHash == "" {
		writeError(w, errors.New(errors.ErrCodeInvalidInput, "doc_hash query parameter is required"))
		return
	}

	recs, err := s.store.ListByDocHash(req.Context(), docHash, 0)
	if err != nil {
		writeError(w, err)
		return
	}
	if recs == nil {
		recs = []store.Record{}
	}
	writeJSON(w, http.StatusOK, recs)
}

// =============================================================================
// Response Helpers
// =============================================================================

// errorResponse is the JSON body for error responses.
type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps error codes to HTTP status codes.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidDocument,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidCluster,
		errors.ErrCodeInvalidPath:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound,
		errors.ErrCodeReportNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeTimeout:
		status = http.StatusGatewayTimeout
	}
	writeJSON(w, status, errorResponse{
		Error: errors.UserMessage(err),
		Code:  errors.GetCode(err),
	})
}
