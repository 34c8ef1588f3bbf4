package repository

import (
	"sync"

	"fund-projection/domain"
)

// ProjectionRepositoryMemory is a bounded in-memory implementation of
// ProjectionRepository. Once full, the oldest entry is dropped.
type ProjectionRepositoryMemory struct {
	mu       sync.Mutex
	capacity int
	data     []domain.HistoryEntry
}

// NewProjectionRepositoryMemory creates a history holding at most capacity
// entries. A non-positive capacity falls back to 100.
func NewProjectionRepositoryMemory(capacity int) *ProjectionRepositoryMemory {
	if capacity <= 0 {
		capacity = 100
	}
	return &ProjectionRepositoryMemory{
		capacity: capacity,
		data:     make([]domain.HistoryEntry, 0, capacity),
	}
}

// Save appends the entry to the history.
func (r *ProjectionRepositoryMemory) Save(entry domain.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.data) == r.capacity {
		copy(r.data, r.data[1:])
		r.data = r.data[:len(r.data)-1]
	}
	r.data = append(r.data, entry)
	return nil
}

func (r *ProjectionRepositoryMemory) Recent(limit int) []domain.HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	if limit <= 0 || limit > len(r.data) {
		limit = len(r.data)
	}
	out := make([]domain.HistoryEntry, 0, limit)
	for i := len(r.data) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.data[i])
	}
	return out
}
