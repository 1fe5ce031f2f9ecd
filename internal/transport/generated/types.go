package generated

import "time"

// ErrorResponseCode is a stable machine-readable error code.
type ErrorResponseCode string

// Defines values for ErrorResponseCode.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeInvalidSession   ErrorResponseCode = "invalid_session"
	ErrorResponseCodeHistoryEmpty     ErrorResponseCode = "history_empty"
	ErrorResponseCodeHistoryDisabled  ErrorResponseCode = "history_disabled"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ClauseType tells filter clauses from free-text clauses.
type ClauseType string

// Defines values for ClauseType.
const (
	ClauseTypeFilter ClauseType = "filter"
	ClauseTypeText   ClauseType = "text"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// Clause is the wire form of a query clause.
type Clause struct {
	Type    ClauseType `json:"type"`
	Key     string     `json:"key,omitempty"`
	Values  []string   `json:"values,omitempty"`
	Negated bool       `json:"negated,omitempty"`
	Text    string     `json:"text,omitempty"`
}

// Phrase addresses a clause to remove: set exactly one of Key and Text.
type Phrase struct {
	Key  *string `json:"key,omitempty"`
	Text *string `json:"text,omitempty"`
}

// QueryResponse carries a query in canonical text and clause form.
type QueryResponse struct {
	Query   string   `json:"query"`
	Clauses []Clause `json:"clauses"`
}

// SerializeRequest is the body of POST /v1/query/serialize.
type SerializeRequest struct {
	Clauses []Clause `json:"clauses"`
}

// SerializeResponse is the reply of POST /v1/query/serialize.
type SerializeResponse struct {
	Query string `json:"query"`
}

// UpdateRequest is the body of POST /v1/query/update.
type UpdateRequest struct {
	Query     *string   `json:"query,omitempty"`
	Clauses   *[]Clause `json:"clauses,omitempty"`
	ToAdd     []Clause  `json:"to_add,omitempty"`
	ToRemove  []Phrase  `json:"to_remove,omitempty"`
	SessionID *string   `json:"session_id,omitempty"`
}

// Filter describes one recognized filter key.
type Filter struct {
	Key        string   `json:"key"`
	Aliases    []string `json:"aliases"`
	Repeatable bool     `json:"repeatable"`
}

// FilterListResponse is the reply of GET /v1/filters.
type FilterListResponse struct {
	Items []Filter `json:"items"`
}

// HistoryEntry is one previous query of a session.
type HistoryEntry struct {
	Query   string    `json:"query"`
	SavedAt time.Time `json:"saved_at"`
}

// HistoryResponse is the reply of GET /v1/sessions/{session_id}/history.
type HistoryResponse struct {
	Items []HistoryEntry `json:"items"`
}

// HealthResponse is the reply of GET /health.
type HealthResponse struct {
	Status  string            `json:"status"`
	Checks  map[string]string `json:"checks"`
	Filters int               `json:"filters"`
	Version string            `json:"version"`
}
