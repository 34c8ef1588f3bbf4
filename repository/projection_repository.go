package repository

import "fund-projection/domain"

type ProjectionRepository interface {
	Save(entry domain.HistoryEntry) error
	// Recent returns up to limit entries, newest first.
	Recent(limit int) []domain.HistoryEntry
}
