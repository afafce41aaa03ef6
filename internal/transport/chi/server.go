// Package chi implements the HTTP API: query answering, intent detection,
// document ingestion, and the admin collection reset.
package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sibyl/internal/db"
	"github.com/kailas-cloud/sibyl/internal/domain"
	logpkg "github.com/kailas-cloud/sibyl/internal/logger"
	queryuc "github.com/kailas-cloud/sibyl/internal/usecase/query"
	retrievaluc "github.com/kailas-cloud/sibyl/internal/usecase/retrieval"
)

// Error codes returned in error responses.
const (
	codeBadRequest         = "bad_request"
	codeValidationFailed   = "validation_failed"
	codeCollectionNotFound = "collection_not_found"
	codeBackendUnavailable = "backend_unavailable"
	codeProviderError      = "provider_error"
	codeRateLimited        = "rate_limited"
	codeInternalError      = "internal_error"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the pipeline services into HTTP handlers.
type Server struct {
	queries       *queryuc.Service
	index         *retrievaluc.Service
	store         db.Pinger
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates the HTTP API server.
func NewServer(queries *queryuc.Service, index *retrievaluc.Service, store db.Pinger, logger *zap.Logger) *Server {
	s := &Server{
		queries: queries,
		index:   index,
		store:   store,
		logger:  logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyInput, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrCollectionNotFound, http.StatusNotFound, codeCollectionNotFound),
		sentinelHandler(db.ErrCollectionNotFound, http.StatusNotFound, codeCollectionNotFound),
		sentinelHandler(domain.ErrResourceExhausted, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrBackendUnavailable, http.StatusServiceUnavailable, codeBackendUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeProviderError),
		sentinelHandler(domain.ErrGenerationProviderError, http.StatusBadGateway, codeProviderError),
	}
	return s
}

// Mount registers the v1 API routes on the router. Auth and observability
// middleware are applied by the caller.
func (s *Server) Mount(r chi.Router) {
	r.Post("/v1/query", s.HandleQuery)
	r.Post("/v1/query/contextual", s.HandleContextualQuery)
	r.Post("/v1/intent", s.HandleIntent)
	r.Get("/v1/intent/domains", s.ListDomains)
	r.Put("/v1/documents/{id}", s.UpsertDocument)
	r.Post("/v1/documents", s.CreateDocument)
	r.Delete("/v1/admin/collection", s.ClearCollection)
}

type queryRequest struct {
	Query   string `json:"query"`
	UserAge int    `json:"user_age"`
}

type intentBody struct {
	Label      string `json:"label"`
	Confidence string `json:"confidence"`
}

type queryResponse struct {
	Status      string      `json:"status"`
	Query       string      `json:"query"`
	Intent      *intentBody `json:"intent,omitempty"`
	Response    string      `json:"response"`
	ContextUsed bool        `json:"context_used"`
}

// HandleQuery handles POST /v1/query.
func (s *Server) HandleQuery(w http.ResponseWriter, r *http.Request) {
	s.handleQuery(w, r, s.queries.Answer)
}

// HandleContextualQuery handles POST /v1/query/contextual.
func (s *Server) HandleContextualQuery(w http.ResponseWriter, r *http.Request) {
	s.handleQuery(w, r, s.queries.AnswerWithContext)
}

func (s *Server) handleQuery(
	w http.ResponseWriter,
	r *http.Request,
	answer func(ctx context.Context, query string, userAge int) domain.Result,
) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.UserAge < 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "user_age must not be negative")
		return
	}

	result := answer(r.Context(), req.Query, req.UserAge)

	status := http.StatusOK
	if result.Status == domain.StatusInvalid {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, resultToResponse(result))
}

// HandleIntent handles POST /v1/intent. Classification only, no policy gate
// and no generation.
func (s *Server) HandleIntent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}

	intent := s.queries.Classify(req.Query)
	writeJSON(w, http.StatusOK, intentBody{
		Label:      intent.Label,
		Confidence: string(intent.Confidence),
	})
}

// ListDomains handles GET /v1/intent/domains.
func (s *Server) ListDomains(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{
		"domains": s.queries.Domains(),
	})
}

type documentRequest struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type documentResponse struct {
	ID string `json:"id"`
}

// UpsertDocument handles PUT /v1/documents/{id}. Re-using an id overwrites
// the stored document.
func (s *Server) UpsertDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "document id is required")
		return
	}
	s.upsertDocument(w, r, id, http.StatusOK)
}

// CreateDocument handles POST /v1/documents, assigning a fresh id.
func (s *Server) CreateDocument(w http.ResponseWriter, r *http.Request) {
	s.upsertDocument(w, r, uuid.NewString(), http.StatusCreated)
}

func (s *Server) upsertDocument(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req documentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "text is required")
		return
	}

	if err := s.index.Upsert(r.Context(), id, req.Text, req.Metadata); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, status, documentResponse{ID: id})
}

// ClearCollection handles DELETE /v1/admin/collection. Destructive: drops the
// whole index. Requires confirm=true as a guard against accidental calls.
func (s *Server) ClearCollection(w http.ResponseWriter, r *http.Request) {
	var confirm bool
	if err := runtime.BindQueryParameter("form", true, false, "confirm", r.URL.Query(), &confirm); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "invalid confirm parameter")
		return
	}
	if !confirm {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "pass confirm=true to clear the collection")
		return
	}

	if err := s.index.Clear(r.Context()); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HealthCheck handles GET /healthz. Reports the vector store reachability.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"store": "ok"}
	status := http.StatusOK
	if err := s.store.Ping(r.Context()); err != nil {
		s.logger.Warn("health check: store unreachable", zap.Error(err))
		checks["store"] = "unavailable"
		status = http.StatusServiceUnavailable
	}

	state := "healthy"
	if status != http.StatusOK {
		state = "unhealthy"
	}
	writeJSON(w, status, map[string]any{
		"status": state,
		"checks": checks,
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

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyInput,
		domain.ErrCollectionNotFound,
		db.ErrCollectionNotFound,
		domain.ErrBackendUnavailable,
		domain.ErrEmbeddingProviderError,
		domain.ErrGenerationProviderError,
		domain.ErrResourceExhausted,
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

// handleDomainError logs through the request-scoped logger installed by the
// wide-event middleware so entries carry the request id.
func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logpkg.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}

func resultToResponse(res domain.Result) queryResponse {
	resp := queryResponse{
		Status:      string(res.Status),
		Query:       res.Query,
		Response:    res.Response,
		ContextUsed: res.ContextUsed,
	}
	if res.Intent.Label != "" {
		resp.Intent = &intentBody{
			Label:      res.Intent.Label,
			Confidence: string(res.Intent.Confidence),
		}
	}
	return resp
}
