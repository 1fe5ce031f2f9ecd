package history

import (
	"fmt"
	"time"
)

// Entry is one saved query of a session: its canonical text and when it was
// replaced.
type Entry struct {
	query   string
	savedAt time.Time
}

// NewEntry creates an Entry. The canonical text is the stored form because it
// parses back to the same clauses.
func NewEntry(query string, savedAt time.Time) Entry {
	return Entry{query: query, savedAt: savedAt.UTC()}
}

// Restore rebuilds an Entry from storage, rejecting a missing timestamp.
func Restore(query string, savedAt time.Time) (Entry, error) {
	if savedAt.IsZero() {
		return Entry{}, fmt.Errorf("history entry without timestamp")
	}
	return NewEntry(query, savedAt), nil
}

// Query returns the canonical query text.
func (e Entry) Query() string { return e.query }

// SavedAt returns when the entry was recorded (UTC).
func (e Entry) SavedAt() time.Time { return e.savedAt }
