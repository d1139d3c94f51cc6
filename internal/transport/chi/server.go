// Package chi exposes the HTTP surface of the service: upload, query,
// collection management, health and metrics.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/crashlens/crashlens/internal/domain"
	collectionuc "github.com/crashlens/crashlens/internal/usecase/collection"
	healthuc "github.com/crashlens/crashlens/internal/usecase/health"
	ingestuc "github.com/crashlens/crashlens/internal/usecase/ingest"
	queryuc "github.com/crashlens/crashlens/internal/usecase/query"
)

const (
	serviceName = "crashlens"

	// maxUploadBytes caps multipart memory buffering for uploads.
	maxUploadBytes = 32 << 20

	// sourcePreviewLimit truncates source contents in query responses.
	sourcePreviewLimit = 500
)

// Error response codes.
const (
	codeBadRequest     = "bad_request"
	codeNotFound       = "not_found"
	codeNoRelevantDocs = "no_relevant_documents"
	codeUploadFailed   = "upload_failed"
	codeInternalError  = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the usecases to the HTTP routes.
type Server struct {
	ingest            *ingestuc.Service
	query             *queryuc.Service
	collections       *collectionuc.Service
	health            *healthuc.Service
	logger            *zap.Logger
	defaultCollection string
	errorHandlers     []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ingest *ingestuc.Service,
	query *queryuc.Service,
	collections *collectionuc.Service,
	health *healthuc.Service,
	defaultCollection string,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ingest:            ingest,
		query:             query,
		collections:       collections,
		health:            health,
		logger:            logger,
		defaultCollection: defaultCollection,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, codeBadRequest),
		sentinelHandler(domain.ErrNoRelevantDocuments, http.StatusNotFound, codeNoRelevantDocs),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
	}
	return s
}

// Routes registers all endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.Root)
	r.Get("/health", s.HealthCheck)
	r.Post("/upload", s.Upload)
	r.Post("/query", s.Query)
	r.Get("/collections", s.ListCollections)
	r.Get("/collections/{name}", s.GetCollection)
	r.Delete("/collections/{name}", s.DeleteCollection)
	r.Get("/metrics", s.Metrics)
}

// rootResponse is the static service description served at GET /.
type rootResponse struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

// Root handles GET /.
func (s *Server) Root(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Service: serviceName,
		Version: "1.0",
		Endpoints: map[string]string{
			"POST /upload":               "upload a crash log file for indexing",
			"POST /query":                "ask a question about an indexed crash log",
			"GET /collections":           "list indexed collections",
			"GET /collections/{name}":    "collection details",
			"DELETE /collections/{name}": "delete a collection",
			"GET /health":                "service health",
			"GET /metrics":               "prometheus metrics",
		},
	})
}

// HealthCheck handles GET /health. Always 200; degradation is visible in
// the status field and the per-component checks.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":    string(report.Status),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"service":   serviceName,
		"checks":    checks,
	})
}

// uploadResponse is the POST /upload success payload.
type uploadResponse struct {
	Filename       string `json:"filename"`
	CollectionName string `json:"collection_name"`
	Status         string `json:"status"`
	Message        string `json:"message"`
}

// Upload handles POST /upload: multipart file plus optional
// collection_name form field.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "file field is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "read upload: "+err.Error())
		return
	}

	collectionName := r.FormValue("collection_name")
	if collectionName == "" {
		collectionName = s.defaultCollection
	}

	chunks, err := s.ingest.Ingest(r.Context(), header.Filename, string(content), collectionName)
	if err != nil {
		s.handleDomainError(w, err, codeUploadFailed)
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{
		Filename:       header.Filename,
		CollectionName: collectionName,
		Status:         "success",
		Message:        fmt.Sprintf("Successfully processed and indexed %d document chunks", chunks),
	})
}

// queryRequest is the POST /query payload.
type queryRequest struct {
	Query          string `json:"query"`
	CollectionName string `json:"collection_name"`
	Limit          int    `json:"limit"`
}

// sourceItem is one retrieved chunk in the query response, content
// truncated to a preview.
type sourceItem struct {
	Content string  `json:"content"`
	Score   float64 `json:"score"`
	Source  string  `json:"source"`
}

// queryResponse is the POST /query success payload.
type queryResponse struct {
	Query          string       `json:"query"`
	Answer         string       `json:"answer"`
	Sources        []sourceItem `json:"sources"`
	CollectionName string       `json:"collection_name"`
}

// Query handles POST /query.
func (s *Server) Query(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	collectionName := req.CollectionName
	if collectionName == "" {
		collectionName = s.defaultCollection
	}

	result, err := s.query.Query(r.Context(), req.Query, collectionName, req.Limit)
	if err != nil {
		s.handleDomainError(w, err, codeInternalError)
		return
	}

	sources := make([]sourceItem, len(result.Sources))
	for i, m := range result.Sources {
		sources[i] = sourceItem{
			Content: truncate(m.Content, sourcePreviewLimit),
			Score:   m.Score,
			Source:  m.Source,
		}
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Query:          result.Query,
		Answer:         result.Answer,
		Sources:        sources,
		CollectionName: result.Collection,
	})
}

// collectionItem is a single entry in the collection listing.
type collectionItem struct {
	Name string `json:"name"`
}

// ListCollections handles GET /collections. Fail-soft: storage errors
// yield an empty list so dashboards keep rendering.
func (s *Server) ListCollections(w http.ResponseWriter, r *http.Request) {
	items := []collectionItem{}

	infos, err := s.collections.List(r.Context())
	if err != nil {
		s.logger.Warn("list collections failed", zap.Error(err))
	} else {
		for _, info := range infos {
			items = append(items, collectionItem{Name: info.Name})
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{"collections": items})
}

// collectionResponse is the GET /collections/{name} payload.
type collectionResponse struct {
	Name         string `json:"name"`
	VectorsCount int    `json:"vectors_count"`
	Status       string `json:"status"`
}

// GetCollection handles GET /collections/{name}.
func (s *Server) GetCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	details, err := s.collections.Get(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, err, codeInternalError)
		return
	}

	writeJSON(w, http.StatusOK, collectionResponse{
		Name:         details.Info.Name,
		VectorsCount: details.VectorsCount,
		Status:       details.Info.Status,
	})
}

// DeleteCollection handles DELETE /collections/{name}.
func (s *Server) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := s.collections.Delete(r.Context(), name); err != nil {
		s.handleDomainError(w, err, codeInternalError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": fmt.Sprintf("Collection '%s' deleted successfully", name),
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"code":    code,
		"message": message,
	})
}

// safeDomainMessage returns a sentinel error message for the client
// without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidInput,
		domain.ErrNotFound,
		domain.ErrNoRelevantDocuments,
		domain.ErrEmbeddingProvider,
		domain.ErrGeneration,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error, fallbackCode string) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, fallbackCode, msg)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
