package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryEntry is one line of the download-history log. Downloads enqueued
// with the private flag are never recorded.
type HistoryEntry struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	URL          string    `json:"url" gorm:"not null;index"`
	DownloadedAt time.Time `json:"downloaded_at" gorm:"index"`
}

// NewHistoryEntry creates a history entry for a finished download.
func NewHistoryEntry(url string) *HistoryEntry {
	return &HistoryEntry{
		ID:           uuid.New().String(),
		URL:          url,
		DownloadedAt: time.Now(),
	}
}
