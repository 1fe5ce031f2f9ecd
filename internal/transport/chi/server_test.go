package chi

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	gen "github.com/kailas-cloud/querybar/internal/transport/generated"
)

func TestListFilters(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := doRequest(t, h, "GET", "/v1/filters", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	resp := decode[gen.FilterListResponse](t, rr)
	if len(resp.Items) != 2 {
		t.Fatalf("expected 2 filters, got %d", len(resp.Items))
	}
	if resp.Items[0].Key != "status" || len(resp.Items[0].Aliases) != 1 || resp.Items[0].Aliases[0] != "state" {
		t.Errorf("unexpected first filter: %+v", resp.Items[0])
	}
	if !resp.Items[1].Repeatable {
		t.Errorf("expected tag to be repeatable")
	}
}

func TestParseQuery(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := doRequest(t, h, "GET", "/v1/query/parse?q="+url.QueryEscape(`!STATE:open "big world" tag:a,b`), nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	resp := decode[gen.QueryResponse](t, rr)
	if resp.Query != `-status:open "big world" tag:a,b` {
		t.Errorf("query = %q", resp.Query)
	}
	if len(resp.Clauses) != 3 {
		t.Fatalf("expected 3 clauses, got %+v", resp.Clauses)
	}
	first := resp.Clauses[0]
	if first.Type != gen.ClauseTypeFilter || first.Key != "status" || !first.Negated {
		t.Errorf("unexpected first clause: %+v", first)
	}
	if resp.Clauses[1].Type != gen.ClauseTypeText || resp.Clauses[1].Text != "big world" {
		t.Errorf("unexpected text clause: %+v", resp.Clauses[1])
	}
}

func TestParseQuery_MissingQ(t *testing.T) {
	rr := doRequest(t, newTestRouter(t, nil), "GET", "/v1/query/parse", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := decode[gen.QueryResponse](t, rr)
	if resp.Query != "" || len(resp.Clauses) != 0 {
		t.Errorf("expected empty query, got %+v", resp)
	}
}

func TestSerializeQuery(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := doRequest(t, h, "POST", "/v1/query/serialize", gen.SerializeRequest{Clauses: []gen.Clause{
		{Type: gen.ClauseTypeFilter, Key: "State", Values: []string{"in progress"}},
		{Type: gen.ClauseTypeText, Text: "status:open"},
	}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decode[gen.SerializeResponse](t, rr)
	if resp.Query != `status:"in progress" "status:open"` {
		t.Errorf("query = %q", resp.Query)
	}
}

func TestSerializeQuery_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		body     any
		wantCode gen.ErrorResponseCode
	}{
		{"bad json", "{", gen.ErrorResponseCodeBadRequest},
		{"unknown type", gen.SerializeRequest{Clauses: []gen.Clause{{Type: "range"}}}, gen.ErrorResponseCodeValidationFailed},
		{"blank key", gen.SerializeRequest{Clauses: []gen.Clause{{Type: gen.ClauseTypeFilter, Key: " "}}}, gen.ErrorResponseCodeValidationFailed},
	}

	h := newTestRouter(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, h, "POST", "/v1/query/serialize", tt.body)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rr.Code)
			}
			if resp := decode[gen.ErrorResponse](t, rr); resp.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestUpdateQuery(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := doRequest(t, h, "POST", "/v1/query/update", gen.UpdateRequest{
		Query: strPtr("status:open hello tag:a"),
		ToAdd: []gen.Clause{
			{Type: gen.ClauseTypeFilter, Key: "status", Values: []string{"closed"}},
			{Type: gen.ClauseTypeFilter, Key: "tag", Values: []string{"b"}},
		},
		ToRemove: []gen.Phrase{{Text: strPtr("hello")}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decode[gen.QueryResponse](t, rr)
	if resp.Query != "status:closed tag:a tag:b" {
		t.Errorf("query = %q", resp.Query)
	}
}

func TestUpdateQuery_UnregisteredKeyIsText(t *testing.T) {
	h := newTestRouter(t, nil)

	rr := doRequest(t, h, "POST", "/v1/query/update", gen.UpdateRequest{
		Clauses: &[]gen.Clause{},
		ToAdd:   []gen.Clause{{Type: gen.ClauseTypeFilter, Key: "foo", Values: []string{"x"}}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	resp := decode[gen.QueryResponse](t, rr)
	if resp.Query != "foo:x" {
		t.Errorf("query = %q", resp.Query)
	}
	if len(resp.Clauses) != 1 || resp.Clauses[0].Type != gen.ClauseTypeText || resp.Clauses[0].Text != "foo:x" {
		t.Errorf("unexpected clauses: %+v", resp.Clauses)
	}
}

func TestUpdateQuery_Invalid(t *testing.T) {
	tests := []struct {
		name       string
		req        gen.UpdateRequest
		wantStatus int
		wantCode   gen.ErrorResponseCode
	}{
		{
			"query and clauses",
			gen.UpdateRequest{Query: strPtr("a"), Clauses: &[]gen.Clause{}},
			http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed,
		},
		{
			"empty phrase",
			gen.UpdateRequest{ToRemove: []gen.Phrase{{}}},
			http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed,
		},
		{
			"phrase with key and text",
			gen.UpdateRequest{ToRemove: []gen.Phrase{{Key: strPtr("status"), Text: strPtr("x")}}},
			http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed,
		},
		{
			"session without history",
			gen.UpdateRequest{SessionID: strPtr("tab-1")},
			http.StatusServiceUnavailable, gen.ErrorResponseCodeHistoryDisabled,
		},
	}

	h := newTestRouter(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, h, "POST", "/v1/query/update", tt.req)
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if resp := decode[gen.ErrorResponse](t, rr); resp.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestSessionFlow(t *testing.T) {
	h := newTestRouter(t, newMemHistory())

	rr := doRequest(t, h, "POST", "/v1/query/update", gen.UpdateRequest{
		SessionID: strPtr("tab-1"),
		Query:     strPtr("hello"),
		ToAdd:     []gen.Clause{{Type: gen.ClauseTypeFilter, Key: "state", Values: []string{"open"}}},
	})
	if rr.Code != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	rr = doRequest(t, h, "POST", "/v1/query/update", gen.UpdateRequest{
		SessionID: strPtr("tab-1"),
		ToRemove:  []gen.Phrase{{Text: strPtr("hello")}},
	})
	if resp := decode[gen.QueryResponse](t, rr); resp.Query != "status:open" {
		t.Fatalf("second update = %q", resp.Query)
	}

	rr = doRequest(t, h, "GET", "/v1/sessions/tab-1", nil)
	if resp := decode[gen.QueryResponse](t, rr); resp.Query != "status:open" {
		t.Errorf("current = %q", resp.Query)
	}

	rr = doRequest(t, h, "GET", "/v1/sessions/tab-1/history?limit=1", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("history: expected 200, got %d", rr.Code)
	}
	hist := decode[gen.HistoryResponse](t, rr)
	if len(hist.Items) != 1 || hist.Items[0].Query != "hello status:open" {
		t.Errorf("unexpected history: %+v", hist.Items)
	}

	rr = doRequest(t, h, "POST", "/v1/sessions/tab-1/undo", nil)
	if resp := decode[gen.QueryResponse](t, rr); resp.Query != "hello status:open" {
		t.Errorf("first undo = %q", resp.Query)
	}
	rr = doRequest(t, h, "POST", "/v1/sessions/tab-1/undo", nil)
	if resp := decode[gen.QueryResponse](t, rr); resp.Query != "hello" {
		t.Errorf("second undo = %q", resp.Query)
	}

	rr = doRequest(t, h, "POST", "/v1/sessions/tab-1/undo", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("empty undo: expected 404, got %d", rr.Code)
	}
	if resp := decode[gen.ErrorResponse](t, rr); resp.Code != gen.ErrorResponseCodeHistoryEmpty {
		t.Errorf("code = %s", resp.Code)
	}

	rr = doRequest(t, h, "DELETE", "/v1/sessions/tab-1", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", rr.Code)
	}
	rr = doRequest(t, h, "GET", "/v1/sessions/tab-1", nil)
	if resp := decode[gen.QueryResponse](t, rr); resp.Query != "" {
		t.Errorf("current after delete = %q", resp.Query)
	}
}

func TestSessionEndpoints_Errors(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		target     string
		wantStatus int
		wantCode   gen.ErrorResponseCode
	}{
		{"invalid session id", "POST", "/v1/sessions/bad%20id/undo", http.StatusBadRequest, gen.ErrorResponseCodeInvalidSession},
		{"bad limit format", "GET", "/v1/sessions/tab-1/history?limit=abc", http.StatusBadRequest, gen.ErrorResponseCodeBadRequest},
		{"zero limit", "GET", "/v1/sessions/tab-1/history?limit=0", http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed},
	}

	h := newTestRouter(t, newMemHistory())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := doRequest(t, h, tt.method, tt.target, nil)
			if rr.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}
			if resp := decode[gen.ErrorResponse](t, rr); resp.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", resp.Code, tt.wantCode)
			}
		})
	}
}

func TestSessionEndpoints_HistoryDisabled(t *testing.T) {
	rr := doRequest(t, newTestRouter(t, nil), "GET", "/v1/sessions/tab-1/history", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestUndo_StoreFailure(t *testing.T) {
	mh := newMemHistory()
	mh.err = errors.New("connection refused")

	rr := doRequest(t, newTestRouter(t, mh), "POST", "/v1/sessions/tab-1/undo", nil)
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	resp := decode[gen.ErrorResponse](t, rr)
	if resp.Code != gen.ErrorResponseCodeInternalError || resp.Message != "internal error" {
		t.Errorf("unexpected error response: %+v", resp)
	}
}

func TestHealthCheck(t *testing.T) {
	rr := doRequest(t, newTestRouter(t, newMemHistory()), "GET", "/health", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	resp := decode[gen.HealthResponse](t, rr)
	if resp.Status != "ok" || resp.Checks["database"] != "ok" || resp.Filters != 2 {
		t.Errorf("unexpected health: %+v", resp)
	}
}
