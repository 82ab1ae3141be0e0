package infrastructure

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/mediaq/internal/domain"
)

func setupTestHistory(t *testing.T) *SQLiteHistoryRepository {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "history.db")
	repo, err := NewSQLiteHistoryRepository(dbPath)
	require.NoError(t, err)

	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestHistoryRecordAndCount(t *testing.T) {
	repo := setupTestHistory(t)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	require.NoError(t, repo.Record(domain.NewHistoryEntry("https://example.com/1")))
	require.NoError(t, repo.Record(domain.NewHistoryEntry("https://example.com/2")))

	count, err = repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestHistoryRecent_NewestFirst(t *testing.T) {
	repo := setupTestHistory(t)

	base := time.Now().Add(-time.Hour)
	for i, url := range []string{"https://example.com/old", "https://example.com/mid", "https://example.com/new"} {
		entry := domain.NewHistoryEntry(url)
		entry.DownloadedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Record(entry))
	}

	entries, err := repo.Recent(0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "https://example.com/new", entries[0].URL)
	assert.Equal(t, "https://example.com/old", entries[2].URL)
}

func TestHistoryRecent_Limit(t *testing.T) {
	repo := setupTestHistory(t)

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		entry := domain.NewHistoryEntry("https://example.com/v")
		entry.DownloadedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, repo.Record(entry))
	}

	entries, err := repo.Recent(2)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestHistoryClear(t *testing.T) {
	repo := setupTestHistory(t)

	require.NoError(t, repo.Record(domain.NewHistoryEntry("https://example.com/1")))
	require.NoError(t, repo.Record(domain.NewHistoryEntry("https://example.com/2")))

	require.NoError(t, repo.Clear())

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}
