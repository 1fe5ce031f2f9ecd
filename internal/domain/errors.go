package domain

import "errors"

var (
	// ErrInvalidRequest signals a malformed request (bad clause, bad phrase).
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidSession signals a malformed session id.
	ErrInvalidSession = errors.New("invalid session id")
	// ErrHistoryEmpty signals that a session has nothing to undo.
	ErrHistoryEmpty = errors.New("history is empty")
	// ErrHistoryDisabled signals that the service runs without a history store.
	ErrHistoryDisabled = errors.New("history is disabled")
)
