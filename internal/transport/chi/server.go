package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/itemsearch/internal/domain"
	"github.com/kailas-cloud/itemsearch/internal/domain/item"
	"github.com/kailas-cloud/itemsearch/internal/domain/search/result"
	"github.com/kailas-cloud/itemsearch/internal/domain/viewer"
	"github.com/kailas-cloud/itemsearch/internal/logger"
	"github.com/kailas-cloud/itemsearch/internal/metrics"
	healthuc "github.com/kailas-cloud/itemsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/itemsearch/internal/usecase/search"
)

// ErrorCode is a machine-readable error identifier in error responses.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeValidationFailed ErrorCode = "validation_failed"
	CodeUnauthorized     ErrorCode = "unauthorized"
	CodeInternalError    ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// PageResponse is one page of results. Cursor is null at the end of results.
type PageResponse struct {
	Items  []item.Item `json:"items"`
	Cursor *string     `json:"cursor"`
}

// HealthResponse reports component health.
type HealthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server serves the search HTTP API.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, CodeValidationFailed),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/search", s.Search)
	r.Get("/related", s.Related)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	params, err := bindSearchParams(r)
	if err != nil {
		s.invalid(w, r, searchuc.OpSearch, err)
		return
	}
	req, err := params.toRequest(viewer.FromContext(r.Context()))
	if err != nil {
		s.invalid(w, r, searchuc.OpSearch, err)
		return
	}

	page := s.search.Search(r.Context(), &req)
	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// Related handles GET /related.
func (s *Server) Related(w http.ResponseWriter, r *http.Request) {
	params, err := bindRelatedParams(r)
	if err != nil {
		s.invalid(w, r, searchuc.OpRelated, err)
		return
	}
	req, err := params.toRequest(viewer.FromContext(r.Context()))
	if err != nil {
		s.invalid(w, r, searchuc.OpRelated, err)
		return
	}

	page := s.search.Related(r.Context(), &req)
	writeJSON(w, http.StatusOK, pageToResponse(page))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: report.Status,
		Checks: report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func (s *Server) invalid(w http.ResponseWriter, r *http.Request, op string, err error) {
	metrics.SearchRequestsTotal.WithLabelValues(op, metrics.OutcomeInvalid).Inc()
	logger.FromContextOr(r.Context(), s.logger).Debug("invalid request",
		zap.String("operation", op), zap.Error(err))
	s.handleDomainError(w, err)
}

func pageToResponse(p result.Page) PageResponse {
	resp := PageResponse{Items: p.Items}
	if resp.Items == nil {
		resp.Items = []item.Item{}
	}
	if p.HasMore() {
		c := p.Cursor
		resp.Cursor = &c
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Validation errors only carry caller input, so they are returned in full.
func safeDomainMessage(err error) string {
	if errors.Is(err, domain.ErrInvalidRequest) {
		return err.Error()
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
