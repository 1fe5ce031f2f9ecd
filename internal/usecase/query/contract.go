package query

import (
	"context"

	domhist "github.com/kailas-cloud/querybar/internal/domain/history"
	"github.com/kailas-cloud/querybar/internal/domain/session"
)

// HistoryRepository stores per-session undo history and the current query.
type HistoryRepository interface {
	Push(ctx context.Context, id session.ID, e domhist.Entry) error
	Pop(ctx context.Context, id session.ID) (domhist.Entry, error)
	List(ctx context.Context, id session.ID, limit int) ([]domhist.Entry, error)
	SaveCurrent(ctx context.Context, id session.ID, query string) error
	Current(ctx context.Context, id session.ID) (query string, found bool, err error)
	Clear(ctx context.Context, id session.ID) error
}
