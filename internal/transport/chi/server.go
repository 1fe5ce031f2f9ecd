package chi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/querybar/internal/domain"
	"github.com/kailas-cloud/querybar/internal/logger"
	gen "github.com/kailas-cloud/querybar/internal/transport/generated"
	healthuc "github.com/kailas-cloud/querybar/internal/usecase/health"
	queryuc "github.com/kailas-cloud/querybar/internal/usecase/query"
	"github.com/kailas-cloud/querybar/internal/version"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements gen.ServerInterface on top of the query and health services.
type Server struct {
	query         *queryuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ gen.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(query *queryuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		query:  query,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		invalidRequestHandler,
		sentinelHandler(domain.ErrInvalidSession, http.StatusBadRequest, gen.ErrorResponseCodeInvalidSession),
		sentinelHandler(domain.ErrHistoryEmpty, http.StatusNotFound, gen.ErrorResponseCodeHistoryEmpty),
		sentinelHandler(domain.ErrHistoryDisabled, http.StatusServiceUnavailable, gen.ErrorResponseCodeHistoryDisabled),
	}
	return s
}

// ListFilters handles GET /v1/filters.
func (s *Server) ListFilters(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, filtersToDTO(s.query.Filters()))
}

// ParseQuery handles GET /v1/query/parse.
func (s *Server) ParseQuery(w http.ResponseWriter, r *http.Request, params gen.ParseQueryParams) {
	text := ""
	if params.Q != nil {
		text = *params.Q
	}
	writeJSON(w, http.StatusOK, resultToDTO(s.query.Parse(r.Context(), text)))
}

// SerializeQuery handles POST /v1/query/serialize.
func (s *Server) SerializeQuery(w http.ResponseWriter, r *http.Request) {
	var req gen.SerializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	clauses, err := clausesFromDTO(req.Clauses)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, gen.SerializeResponse{Query: s.query.Serialize(r.Context(), clauses)})
}

// UpdateQuery handles POST /v1/query/update.
func (s *Server) UpdateQuery(w http.ResponseWriter, r *http.Request) {
	var req gen.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	in, err := updateFromDTO(req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.query.Update(r.Context(), in)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resultToDTO(res))
}

// GetSession handles GET /v1/sessions/{session_id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request, sessionID gen.SessionID) {
	res, err := s.query.Current(r.Context(), sessionID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resultToDTO(res))
}

// DeleteSession handles DELETE /v1/sessions/{session_id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request, sessionID gen.SessionID) {
	if err := s.query.Clear(r.Context(), sessionID); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UndoSession handles POST /v1/sessions/{session_id}/undo.
func (s *Server) UndoSession(w http.ResponseWriter, r *http.Request, sessionID gen.SessionID) {
	res, err := s.query.Undo(r.Context(), sessionID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resultToDTO(res))
}

// GetSessionHistory handles GET /v1/sessions/{session_id}/history.
func (s *Server) GetSessionHistory(
	w http.ResponseWriter,
	r *http.Request,
	sessionID gen.SessionID,
	params gen.GetSessionHistoryParams,
) {
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
		if limit < 1 {
			writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, "limit must be positive")
			return
		}
	}

	entries, err := s.query.History(r.Context(), sessionID, limit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, historyToDTO(entries))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, gen.HealthResponse{
		Status:  string(report.Status),
		Checks:  checks,
		Filters: s.health.Filters(),
		Version: version.Version,
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

func writeError(w http.ResponseWriter, status int, code gen.ErrorResponseCode, message string) {
	writeJSON(w, status, gen.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidSession,
		domain.ErrHistoryEmpty,
		domain.ErrHistoryDisabled,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code gen.ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// invalidRequestHandler reports validation errors with their full message:
// it names the offending clause or phrase and carries no internals.
func invalidRequestHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidRequest) {
		return false
	}
	writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, err.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, gen.ErrorResponseCodeInternalError, "internal error")
}

// ParamErrorHandler answers requests whose parameters failed to bind.
func ParamErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, err.Error())
}
