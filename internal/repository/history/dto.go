package history

import (
	"encoding/json"
	"fmt"
	"time"

	domhist "github.com/kailas-cloud/querybar/internal/domain/history"
)

// entryDTO is the stored JSON form of a history entry.
type entryDTO struct {
	Query   string `json:"q"`
	SavedAt int64  `json:"at"` // unix milliseconds
}

func entryToDTO(e domhist.Entry) entryDTO {
	return entryDTO{Query: e.Query(), SavedAt: e.SavedAt().UnixMilli()}
}

func decodeEntry(data []byte) (domhist.Entry, error) {
	var dto entryDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domhist.Entry{}, fmt.Errorf("unmarshal history entry: %w", err)
	}
	if dto.SavedAt == 0 {
		return domhist.Restore(dto.Query, time.Time{})
	}
	return domhist.Restore(dto.Query, time.UnixMilli(dto.SavedAt))
}
