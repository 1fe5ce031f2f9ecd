package chi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/kailas-cloud/querybar/internal/domain"
	domhist "github.com/kailas-cloud/querybar/internal/domain/history"
	"github.com/kailas-cloud/querybar/internal/domain/session"
	gen "github.com/kailas-cloud/querybar/internal/transport/generated"
	healthuc "github.com/kailas-cloud/querybar/internal/usecase/health"
	queryuc "github.com/kailas-cloud/querybar/internal/usecase/query"
	"github.com/kailas-cloud/querybar/pkg/query"
)

// memHistory is an in-memory queryuc.HistoryRepository.
type memHistory struct {
	entries map[string][]domhist.Entry
	current map[string]string
	err     error
}

func newMemHistory() *memHistory {
	return &memHistory{entries: map[string][]domhist.Entry{}, current: map[string]string{}}
}

func (m *memHistory) Push(_ context.Context, id session.ID, e domhist.Entry) error {
	m.entries[id.String()] = append([]domhist.Entry{e}, m.entries[id.String()]...)
	return nil
}

func (m *memHistory) Pop(_ context.Context, id session.ID) (domhist.Entry, error) {
	if m.err != nil {
		return domhist.Entry{}, m.err
	}
	list := m.entries[id.String()]
	if len(list) == 0 {
		return domhist.Entry{}, domain.ErrHistoryEmpty
	}
	m.entries[id.String()] = list[1:]
	return list[0], nil
}

func (m *memHistory) List(_ context.Context, id session.ID, limit int) ([]domhist.Entry, error) {
	list := m.entries[id.String()]
	return list[:min(limit, len(list))], nil
}

func (m *memHistory) SaveCurrent(_ context.Context, id session.ID, q string) error {
	m.current[id.String()] = q
	return nil
}

func (m *memHistory) Current(_ context.Context, id session.ID) (string, bool, error) {
	q, ok := m.current[id.String()]
	return q, ok, nil
}

func (m *memHistory) Clear(_ context.Context, id session.ID) error {
	delete(m.entries, id.String())
	delete(m.current, id.String())
	return nil
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(context.Context) error { return m.err }

// newTestRouter wires a Server the way main does. history may be nil.
func newTestRouter(t *testing.T, history queryuc.HistoryRepository) http.Handler {
	t.Helper()
	reg, err := query.NewRegistry(
		query.Filter{Key: "status", Aliases: []string{"state"}},
		query.Filter{Key: "tag", Repeatable: true},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	querySvc := queryuc.New(query.NewParser(reg), history, nil)
	var pinger healthuc.DBPinger
	if history != nil {
		pinger = &mockPinger{}
	}
	server := NewServer(querySvc, healthuc.New(pinger, reg.Len()), nil)

	return gen.HandlerWithOptions(server, gen.ChiServerOptions{
		BaseRouter:       chi.NewRouter(),
		ErrorHandlerFunc: ParamErrorHandler,
	})
}

func doRequest(t *testing.T, h http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rr.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rr.Body.String())
	}
	return v
}

func strPtr(s string) *string { return &s }
