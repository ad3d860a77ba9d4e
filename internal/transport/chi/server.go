// Package chi exposes the article search API over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/clearfact/artidex/internal/domain"
	healthuc "github.com/clearfact/artidex/internal/usecase/health"
	listuc "github.com/clearfact/artidex/internal/usecase/listarticles"
)

// errorCode labels an API error response.
type errorCode string

// API error codes.
const (
	codeBadRequest        errorCode = "BAD_REQUEST"
	codeUnauthorized      errorCode = "UNAUTHORIZED"
	codeValidationFailed  errorCode = "VALIDATION_FAILED"
	codeReferenceNotFound errorCode = "REFERENCE_NOT_FOUND"
	codeUpstreamFailed    errorCode = "UPSTREAM_FETCH_FAILED"
	codeInternalError     errorCode = "INTERNAL_ERROR"
)

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    errorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Paging holds the transport-level paging limits.
type Paging struct {
	DefaultSize int
	MaxSize     int
}

// Server handles the article search HTTP API.
type Server struct {
	articles      *listuc.Service
	health        *healthuc.Service
	paging        Paging
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(articles *listuc.Service, health *healthuc.Service, paging Paging, logger *zap.Logger) *Server {
	if paging.DefaultSize <= 0 {
		paging.DefaultSize = 20
	}
	if paging.MaxSize <= 0 {
		paging.MaxSize = 100
	}
	s := &Server{
		articles: articles,
		health:   health,
		paging:   paging,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		referenceNotFoundHandler,
		sentinelHandler(domain.ErrInvalidFilter, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidSort, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrMediaFetch, http.StatusBadGateway, codeUpstreamFailed),
	}
	return s
}

// Register mounts the API routes on the given router.
func (s *Server) Register(r chi.Router) {
	r.Post("/api/v1/articles/search", s.ListArticles)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// ListArticles handles POST /api/v1/articles/search.
func (s *Server) ListArticles(w http.ResponseWriter, r *http.Request) {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	var req listArticlesRequest
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	paging, err := pagingFromRequest(req, s.paging.DefaultSize, s.paging.MaxSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, err.Error())
		return
	}

	caller := callerFromRequest(r)

	result, err := s.articles.List(r.Context(), caller, filterFromDTO(req.Filter), sortsFromDTO(req.Sort), paging)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]hitDTO, len(result.Hits))
	for i, h := range result.Hits {
		items[i] = hitToDTO(h)
	}

	writeJSON(w, http.StatusOK, listArticlesResponse{
		Items: items,
		Total: result.Total,
		From:  paging.From,
		Size:  paging.Size,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// callerFromRequest reads the caller identity the gateway forwarded.
// Session handling lives upstream; these headers arrive pre-authenticated.
func callerFromRequest(r *http.Request) domain.Caller {
	return domain.Caller{
		UserID: r.Header.Get("X-User-Id"),
		AppID:  r.Header.Get("X-App-Id"),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without
// exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrReferenceNotFound,
		domain.ErrInvalidFilter,
		domain.ErrInvalidSort,
		domain.ErrMediaFetch,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// referenceNotFoundHandler handles ErrReferenceNotFound with the offending
// article id in the response.
func referenceNotFoundHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrReferenceNotFound) {
		return false
	}
	var rnf *domain.ReferenceNotFoundError
	if errors.As(err, &rnf) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"code":      codeReferenceNotFound,
			"message":   msg,
			"articleId": rnf.ArticleID,
		})
		return true
	}
	writeError(w, http.StatusBadRequest, codeReferenceNotFound, msg)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
