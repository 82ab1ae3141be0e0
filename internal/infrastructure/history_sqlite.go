package infrastructure

import (
	"fmt"

	"github.com/yourusername/mediaq/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SQLiteHistoryRepository implements domain.HistoryRepository using SQLite.
// The history log lives outside the task queue: the queue forgets an item
// the moment it is dequeued, the history remembers successful, non-private
// downloads across runs.
type SQLiteHistoryRepository struct {
	db *gorm.DB
}

// NewSQLiteHistoryRepository creates a new SQLite history repository
func NewSQLiteHistoryRepository(dbPath string) (*SQLiteHistoryRepository, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Auto-migrate the history schema
	if err := db.AutoMigrate(&domain.HistoryEntry{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteHistoryRepository{db: db}, nil
}

var _ domain.HistoryRepository = (*SQLiteHistoryRepository)(nil)

// Record appends an entry to the history
func (r *SQLiteHistoryRepository) Record(entry *domain.HistoryEntry) error {
	return r.db.Create(entry).Error
}

// Recent returns up to limit entries, newest first
func (r *SQLiteHistoryRepository) Recent(limit int) ([]*domain.HistoryEntry, error) {
	var entries []*domain.HistoryEntry
	query := r.db.Order("downloaded_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&entries).Error
	return entries, err
}

// Count returns the total number of history entries
func (r *SQLiteHistoryRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&domain.HistoryEntry{}).Count(&count).Error
	return count, err
}

// Clear deletes all history entries
func (r *SQLiteHistoryRepository) Clear() error {
	return r.db.Where("1 = 1").Delete(&domain.HistoryEntry{}).Error
}

// Close closes the database connection
func (r *SQLiteHistoryRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
