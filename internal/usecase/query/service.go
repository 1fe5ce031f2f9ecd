package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/querybar/internal/domain"
	domhist "github.com/kailas-cloud/querybar/internal/domain/history"
	"github.com/kailas-cloud/querybar/internal/domain/session"
	"github.com/kailas-cloud/querybar/internal/logger"
	"github.com/kailas-cloud/querybar/internal/metrics"
	pq "github.com/kailas-cloud/querybar/pkg/query"
)

// Result is a query in both of its forms.
type Result struct {
	Query   string
	Clauses []pq.Clause
}

// UpdateInput describes one structured change. At most one of Query and
// Clauses may be set; with neither, the change applies to the session's saved
// query (or to an empty query when there is no session).
type UpdateInput struct {
	SessionID string
	Query     *string
	Clauses   []pq.Clause
	Update    pq.Update
}

// Service exposes the query engine with optional per-session undo history.
type Service struct {
	parser         *pq.Parser
	history        HistoryRepository
	logger         *zap.Logger
	defaultHistory int
	maxHistory     int
	now            func() time.Time
}

// New creates a query service. history can be nil, which disables sessions.
func New(parser *pq.Parser, history HistoryRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		parser:         parser,
		history:        history,
		logger:         logger,
		defaultHistory: 20,
		maxHistory:     100,
		now:            time.Now,
	}
}

// WithHistoryLimits configures the default and maximum history page size.
func (s *Service) WithHistoryLimits(defaultLimit, maxLimit int) *Service {
	if maxLimit > 0 {
		s.maxHistory = maxLimit
	}
	if defaultLimit > 0 {
		s.defaultHistory = defaultLimit
	}
	s.defaultHistory = min(s.defaultHistory, s.maxHistory)
	return s
}

// HistoryEnabled reports whether session operations are available.
func (s *Service) HistoryEnabled() bool { return s.history != nil }

// Filters returns the recognized filters in registration order.
func (s *Service) Filters() []pq.Filter {
	return s.parser.SearchFilters()
}

// Parse turns text into clauses and their canonical text.
func (s *Service) Parse(ctx context.Context, text string) Result {
	res := s.result(s.parser.ParseSearchQuery(text))
	s.observe("parse", res)
	s.log(ctx).Debug("Query parsed",
		zap.Int("input_len", len(text)),
		zap.Int("clauses", len(res.Clauses)),
	)
	return res
}

// Serialize renders clauses as canonical text.
func (s *Service) Serialize(_ context.Context, clauses []pq.Clause) string {
	text := s.parser.ToQueryString(clauses)
	metrics.QueryOperationsTotal.WithLabelValues("serialize", "ok").Inc()
	return text
}

// Update applies a structured change. With a session, the replaced query is
// pushed onto its undo history when the canonical text changes. History write
// failures are logged and do not fail the update.
func (s *Service) Update(ctx context.Context, in UpdateInput) (Result, error) {
	if in.Query != nil && in.Clauses != nil {
		metrics.QueryOperationsTotal.WithLabelValues("update", "invalid").Inc()
		return Result{}, fmt.Errorf("query and clauses are mutually exclusive: %w", domain.ErrInvalidRequest)
	}

	var id session.ID
	if in.SessionID != "" {
		var err error
		if id, err = s.sessionID(in.SessionID); err != nil {
			metrics.QueryOperationsTotal.WithLabelValues("update", "invalid").Inc()
			return Result{}, err
		}
	}

	current, err := s.currentClauses(ctx, id, in)
	if err != nil {
		metrics.QueryOperationsTotal.WithLabelValues("update", "error").Inc()
		return Result{}, err
	}

	prev := s.parser.ToQueryString(current)
	res := s.canonical(s.parser.ApplyUpdate(current, in.Update))
	s.observe("update", res)

	if !id.IsZero() && res.Query != prev {
		s.record(ctx, id, prev, res.Query)
	}

	s.log(ctx).Debug("Query updated",
		zap.String("session_id", id.String()),
		zap.Int("added", len(in.Update.ToAdd)),
		zap.Int("removed", len(in.Update.ToRemove)),
		zap.Int("clauses", len(res.Clauses)),
	)
	return res, nil
}

// Undo restores the session's previous query.
func (s *Service) Undo(ctx context.Context, sessionID string) (Result, error) {
	id, err := s.sessionID(sessionID)
	if err != nil {
		return Result{}, err
	}

	e, err := s.history.Pop(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrHistoryEmpty) {
			metrics.HistoryOperationsTotal.WithLabelValues("pop", "empty").Inc()
			return Result{}, fmt.Errorf("undo session %s: %w", id, err)
		}
		metrics.HistoryOperationsTotal.WithLabelValues("pop", "error").Inc()
		return Result{}, fmt.Errorf("pop history: %w", err)
	}
	metrics.HistoryOperationsTotal.WithLabelValues("pop", "ok").Inc()

	res := s.result(s.parser.ParseSearchQuery(e.Query()))
	if err := s.history.SaveCurrent(ctx, id, res.Query); err != nil {
		metrics.HistoryOperationsTotal.WithLabelValues("save", "error").Inc()
		s.log(ctx).Warn("Failed to save current query after undo",
			zap.String("session_id", id.String()),
			zap.Error(err),
		)
	}
	s.observe("undo", res)

	s.log(ctx).Debug("Query undone",
		zap.String("session_id", id.String()),
		zap.Time("saved_at", e.SavedAt()),
	)
	return res, nil
}

// History returns up to limit previous queries of a session, newest first.
// A non-positive limit selects the default; larger limits are capped.
func (s *Service) History(ctx context.Context, sessionID string, limit int) ([]domhist.Entry, error) {
	id, err := s.sessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = s.defaultHistory
	}
	limit = min(limit, s.maxHistory)

	entries, err := s.history.List(ctx, id, limit)
	if err != nil {
		metrics.HistoryOperationsTotal.WithLabelValues("list", "error").Inc()
		return nil, fmt.Errorf("list history: %w", err)
	}
	metrics.HistoryOperationsTotal.WithLabelValues("list", "ok").Inc()
	return entries, nil
}

// Current returns the session's saved query; empty when nothing was saved.
func (s *Service) Current(ctx context.Context, sessionID string) (Result, error) {
	id, err := s.sessionID(sessionID)
	if err != nil {
		return Result{}, err
	}
	text, _, err := s.history.Current(ctx, id)
	if err != nil {
		metrics.HistoryOperationsTotal.WithLabelValues("current", "error").Inc()
		return Result{}, fmt.Errorf("get current query: %w", err)
	}
	return s.result(s.parser.ParseSearchQuery(text)), nil
}

// Clear drops the session's history and saved query.
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	id, err := s.sessionID(sessionID)
	if err != nil {
		return err
	}
	if err := s.history.Clear(ctx, id); err != nil {
		metrics.HistoryOperationsTotal.WithLabelValues("clear", "error").Inc()
		return fmt.Errorf("clear history: %w", err)
	}
	metrics.HistoryOperationsTotal.WithLabelValues("clear", "ok").Inc()
	s.log(ctx).Debug("Session cleared", zap.String("session_id", id.String()))
	return nil
}

// sessionID validates raw and checks that history is available.
func (s *Service) sessionID(raw string) (session.ID, error) {
	if s.history == nil {
		return session.ID{}, domain.ErrHistoryDisabled
	}
	id, err := session.NewID(raw)
	if err != nil {
		return session.ID{}, fmt.Errorf("%w: %w", domain.ErrInvalidSession, err)
	}
	return id, nil
}

func (s *Service) currentClauses(ctx context.Context, id session.ID, in UpdateInput) ([]pq.Clause, error) {
	switch {
	case in.Query != nil:
		return s.parser.ParseSearchQuery(*in.Query), nil
	case in.Clauses != nil:
		return in.Clauses, nil
	case id.IsZero():
		return []pq.Clause{}, nil
	}

	text, _, err := s.history.Current(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get current query: %w", err)
	}
	return s.parser.ParseSearchQuery(text), nil
}

// record pushes prev onto the history and saves next as current.
func (s *Service) record(ctx context.Context, id session.ID, prev, next string) {
	if err := s.history.Push(ctx, id, domhist.NewEntry(prev, s.now())); err != nil {
		metrics.HistoryOperationsTotal.WithLabelValues("push", "error").Inc()
		s.log(ctx).Warn("Failed to push query history",
			zap.String("session_id", id.String()),
			zap.Error(err),
		)
		return
	}
	metrics.HistoryOperationsTotal.WithLabelValues("push", "ok").Inc()

	if err := s.history.SaveCurrent(ctx, id, next); err != nil {
		metrics.HistoryOperationsTotal.WithLabelValues("save", "error").Inc()
		s.log(ctx).Warn("Failed to save current query",
			zap.String("session_id", id.String()),
			zap.Error(err),
		)
	}
}

// log returns the request-scoped logger, if any.
func (s *Service) log(ctx context.Context) *zap.Logger {
	return logger.FromContextOr(ctx, s.logger)
}

func (s *Service) result(clauses []pq.Clause) Result {
	return Result{Query: s.parser.ToQueryString(clauses), Clauses: clauses}
}

// canonical renders clauses and reparses the text, so the returned clauses
// are exactly what the returned (and saved) query means. Filters with
// unregistered keys come back as free text.
func (s *Service) canonical(clauses []pq.Clause) Result {
	text := s.parser.ToQueryString(clauses)
	return Result{Query: text, Clauses: s.parser.ParseSearchQuery(text)}
}

func (s *Service) observe(op string, res Result) {
	metrics.QueryOperationsTotal.WithLabelValues(op, "ok").Inc()
	metrics.QueryClauses.WithLabelValues(op).Observe(float64(len(res.Clauses)))
}
