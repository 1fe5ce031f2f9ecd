// Package generated holds the HTTP API surface of querybar: the server
// interface, its chi routing, and the wire types.
package generated

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// ServerInterface is the set of HTTP operations the router dispatches to.
type ServerInterface interface {
	// (GET /v1/filters)
	ListFilters(w http.ResponseWriter, r *http.Request)
	// (GET /v1/query/parse)
	ParseQuery(w http.ResponseWriter, r *http.Request, params ParseQueryParams)
	// (POST /v1/query/serialize)
	SerializeQuery(w http.ResponseWriter, r *http.Request)
	// (POST /v1/query/update)
	UpdateQuery(w http.ResponseWriter, r *http.Request)
	// (GET /v1/sessions/{session_id})
	GetSession(w http.ResponseWriter, r *http.Request, sessionID SessionID)
	// (DELETE /v1/sessions/{session_id})
	DeleteSession(w http.ResponseWriter, r *http.Request, sessionID SessionID)
	// (POST /v1/sessions/{session_id}/undo)
	UndoSession(w http.ResponseWriter, r *http.Request, sessionID SessionID)
	// (GET /v1/sessions/{session_id}/history)
	GetSessionHistory(w http.ResponseWriter, r *http.Request, sessionID SessionID, params GetSessionHistoryParams)
	// (GET /health)
	HealthCheck(w http.ResponseWriter, r *http.Request)
	// (GET /metrics)
	Metrics(w http.ResponseWriter, r *http.Request)
}

// SessionID is the session path parameter.
type SessionID = string

// ParseQueryParams defines parameters for ParseQuery.
type ParseQueryParams struct {
	Q *string `form:"q,omitempty" json:"q,omitempty"`
}

// GetSessionHistoryParams defines parameters for GetSessionHistory.
type GetSessionHistoryParams struct {
	Limit *int `form:"limit,omitempty" json:"limit,omitempty"`
}

// InvalidParamFormatError reports a parameter that failed to bind.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error { return e.Err }

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseRouter       chi.Router
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler mounts si on a new router.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerWithOptions mounts si on options.BaseRouter (or a new router).
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	w := &wrapper{handler: si, errorHandler: options.ErrorHandlerFunc}

	r.Get("/health", si.HealthCheck)
	r.Get("/metrics", si.Metrics)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/filters", si.ListFilters)
		r.Get("/query/parse", w.parseQuery)
		r.Post("/query/serialize", si.SerializeQuery)
		r.Post("/query/update", si.UpdateQuery)
		r.Get("/sessions/{session_id}", w.getSession)
		r.Delete("/sessions/{session_id}", w.deleteSession)
		r.Post("/sessions/{session_id}/undo", w.undoSession)
		r.Get("/sessions/{session_id}/history", w.getSessionHistory)
	})
	return r
}

// wrapper binds path and query parameters before dispatching.
type wrapper struct {
	handler      ServerInterface
	errorHandler func(w http.ResponseWriter, r *http.Request, err error)
}

func (s *wrapper) parseQuery(w http.ResponseWriter, r *http.Request) {
	var params ParseQueryParams
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &params.Q); err != nil {
		s.errorHandler(w, r, &InvalidParamFormatError{ParamName: "q", Err: err})
		return
	}
	s.handler.ParseQuery(w, r, params)
}

func (s *wrapper) getSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	s.handler.GetSession(w, r, id)
}

func (s *wrapper) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	s.handler.DeleteSession(w, r, id)
}

func (s *wrapper) undoSession(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	s.handler.UndoSession(w, r, id)
}

func (s *wrapper) getSessionHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := s.sessionID(w, r)
	if !ok {
		return
	}
	var params GetSessionHistoryParams
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		s.errorHandler(w, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}
	s.handler.GetSessionHistory(w, r, id, params)
}

func (s *wrapper) sessionID(w http.ResponseWriter, r *http.Request) (SessionID, bool) {
	var id SessionID
	err := runtime.BindStyledParameterWithOptions("simple", "session_id", chi.URLParam(r, "session_id"), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		s.errorHandler(w, r, &InvalidParamFormatError{ParamName: "session_id", Err: err})
		return "", false
	}
	return id, true
}
