package domain

// HistoryRepository persists the download-history log.
type HistoryRepository interface {
	// Record appends an entry to the history.
	Record(entry *HistoryEntry) error

	// Recent returns up to limit entries, newest first. limit <= 0 returns
	// everything.
	Recent(limit int) ([]*HistoryEntry, error)

	// Count returns the total number of history entries.
	Count() (int64, error)

	// Clear deletes all history entries.
	Clear() error
}
