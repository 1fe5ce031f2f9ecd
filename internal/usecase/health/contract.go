package health

import "context"

// DBPinger checks history store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}
