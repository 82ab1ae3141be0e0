package app

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yourusername/mediaq/internal/domain"
)

// mockFetcher implements domain.Fetcher for testing
type mockFetcher struct {
	mu    sync.Mutex
	calls []string
	fetch func(url string, opts domain.Options) error
}

func (m *mockFetcher) Fetch(url string, opts domain.Options) error {
	m.mu.Lock()
	m.calls = append(m.calls, url)
	fn := m.fetch
	m.mu.Unlock()

	if fn != nil {
		return fn(url, opts)
	}
	return nil
}

func (m *mockFetcher) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

func (m *mockFetcher) calledURLs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

// mockProbe implements domain.ConnectivityChecker for testing
type mockProbe struct {
	online atomic.Bool
}

func (m *mockProbe) Online() bool { return m.online.Load() }

// mockHistory implements domain.HistoryRepository for testing
type mockHistory struct {
	mu      sync.Mutex
	entries []*domain.HistoryEntry
}

func (m *mockHistory) Record(entry *domain.HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockHistory) Recent(limit int) ([]*domain.HistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.HistoryEntry(nil), m.entries...), nil
}

func (m *mockHistory) Count() (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.entries)), nil
}

func (m *mockHistory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

func (m *mockHistory) urls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	urls := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		urls = append(urls, e.URL)
	}
	return urls
}

func testWorkerConfig() *domain.WorkerConfig {
	return &domain.WorkerConfig{
		PollInterval: 5 * time.Millisecond,
		RetryBackoff: 5 * time.Millisecond,
	}
}

func newTestWorker(q *TaskQueue, fetcher *mockFetcher, probe *mockProbe, history *mockHistory) *Worker {
	var repo domain.HistoryRepository
	if history != nil {
		repo = history
	}
	return NewWorker(q, fetcher, probe, repo, nil, testWorkerConfig(), zap.NewNop())
}

func TestWorker_ProcessesItemsInOrder(t *testing.T) {
	q := NewTaskQueue(0)
	fetcher := &mockFetcher{}
	probe := &mockProbe{}
	probe.online.Store(true)

	urls := []string{"https://example.com/1", "https://example.com/2", "https://example.com/3"}
	for _, url := range urls {
		require.NoError(t, q.Enqueue(domain.NewRequest(url, false, nil)))
	}

	w := newTestWorker(q, fetcher, probe, nil)
	require.NoError(t, w.Start())
	defer w.Stop()

	assert.Eventually(t, func() bool {
		return q.DrainCompleted(false) == len(urls)
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, urls, fetcher.calledURLs())

	// Draining with reset returns the total once, then zero
	assert.Equal(t, len(urls), q.DrainCompleted(true))
	assert.Equal(t, 0, q.DrainCompleted(true))
}

func TestWorker_PermanentFailureAdvances(t *testing.T) {
	q := NewTaskQueue(0)
	probe := &mockProbe{}
	probe.online.Store(true)

	// First URL always fails, second succeeds. With the network up, the
	// failure is permanent: no retry, item discarded but still counted.
	fetcher := &mockFetcher{}
	fetcher.fetch = func(url string, opts domain.Options) error {
		if url == "https://example.com/bad" {
			return fmt.Errorf("%w: unsupported url", domain.ErrDownloadFailed)
		}
		return nil
	}

	require.NoError(t, q.Enqueue(domain.NewRequest("https://example.com/bad", false, nil)))
	require.NoError(t, q.Enqueue(domain.NewRequest("https://example.com/good", false, nil)))

	w := newTestWorker(q, fetcher, probe, nil)
	require.NoError(t, w.Start())
	defer w.Stop()

	assert.Eventually(t, func() bool {
		return q.DrainCompleted(false) == 2
	}, 2*time.Second, 5*time.Millisecond)

	// The bad URL was attempted exactly once
	urls := fetcher.calledURLs()
	assert.Equal(t, []string{"https://example.com/bad", "https://example.com/good"}, urls)
}

func TestWorker_RetriesSameItemWhileOffline(t *testing.T) {
	q := NewTaskQueue(0)
	probe := &mockProbe{} // offline

	fetcher := &mockFetcher{}
	fetcher.fetch = func(url string, opts domain.Options) error {
		return fmt.Errorf("%w: connection reset", domain.ErrDownloadFailed)
	}

	require.NoError(t, q.Enqueue(domain.NewRequest("https://example.com/flaky", false, nil)))
	require.NoError(t, q.Enqueue(domain.NewRequest("https://example.com/next", false, nil)))

	w := newTestWorker(q, fetcher, probe, nil)
	require.NoError(t, w.Start())
	defer w.Stop()

	// The worker keeps retrying the same item without ever advancing
	assert.Eventually(t, func() bool {
		return fetcher.callCount() >= 5
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, 0, q.DrainCompleted(false))
	for _, url := range fetcher.calledURLs() {
		assert.Equal(t, "https://example.com/flaky", url)
	}

	// Once connectivity returns, the next failure is permanent and the
	// worker moves on to the next item.
	probe.online.Store(true)

	assert.Eventually(t, func() bool {
		return q.DrainCompleted(false) == 2
	}, 2*time.Second, 5*time.Millisecond)
}

func TestWorker_StopBeforeFirstDequeue(t *testing.T) {
	q := NewTaskQueue(0)
	fetcher := &mockFetcher{}
	probe := &mockProbe{}

	require.NoError(t, q.Enqueue(domain.NewRequest("https://example.com/a", false, nil)))
	require.NoError(t, q.Enqueue(domain.NewRequest("https://example.com/b", false, nil)))

	w := newTestWorker(q, fetcher, probe, nil)
	w.RequestStop()
	require.NoError(t, w.Start())
	w.Stop()

	// No item was touched
	assert.Equal(t, 0, fetcher.callCount())
	assert.Equal(t, 0, q.DrainCompleted(false))
	assert.Equal(t, 2, q.Len())
	assert.False(t, w.IsRunning())
}

func TestWorker_StopDoesNotInterruptInFlightItem(t *testing.T) {
	q := NewTaskQueue(0)
	probe := &mockProbe{}
	probe.online.Store(true)

	started := make(chan struct{})
	release := make(chan struct{})
	fetcher := &mockFetcher{}
	fetcher.fetch = func(url string, opts domain.Options) error {
		close(started)
		<-release
		return nil
	}

	require.NoError(t, q.Enqueue(domain.NewRequest("https://example.com/slow", false, nil)))
	require.NoError(t, q.Enqueue(domain.NewRequest("https://example.com/untouched", false, nil)))

	w := newTestWorker(q, fetcher, probe, nil)
	require.NoError(t, w.Start())

	<-started
	w.RequestStop()
	close(release)
	w.Stop()

	// The in-flight item finished and was counted; the queued item was
	// never dequeued.
	assert.Equal(t, 1, q.DrainCompleted(false))
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, 1, fetcher.callCount())
}

func TestWorker_RequestStopIsIdempotent(t *testing.T) {
	q := NewTaskQueue(0)
	w := newTestWorker(q, &mockFetcher{}, &mockProbe{}, nil)

	require.NoError(t, w.Start())
	w.RequestStop()
	w.RequestStop()
	w.Stop()

	assert.False(t, w.IsRunning())
}

func TestWorker_UnclassifiedErrorStopsLoop(t *testing.T) {
	q := NewTaskQueue(0)
	probe := &mockProbe{}
	probe.online.Store(true)

	fetcher := &mockFetcher{}
	fetcher.fetch = func(url string, opts domain.Options) error {
		return errors.New("nil option map") // not a download failure
	}

	require.NoError(t, q.Enqueue(domain.NewRequest("https://example.com/a", false, nil)))
	require.NoError(t, q.Enqueue(domain.NewRequest("https://example.com/b", false, nil)))

	w := newTestWorker(q, fetcher, probe, nil)
	require.NoError(t, w.Start())

	assert.Eventually(t, func() bool {
		return !w.IsRunning()
	}, 2*time.Second, 5*time.Millisecond)

	// The broken item is not counted as done and the next one is never
	// attempted.
	require.Error(t, w.Err())
	assert.Equal(t, 0, q.DrainCompleted(false))
	assert.Equal(t, 1, fetcher.callCount())
}

func TestWorker_DoubleStartFails(t *testing.T) {
	q := NewTaskQueue(0)
	w := newTestWorker(q, &mockFetcher{}, &mockProbe{}, nil)

	require.NoError(t, w.Start())
	defer w.Stop()

	assert.Error(t, w.Start())
}

func TestWorker_PrivateDownloadsSkipHistory(t *testing.T) {
	q := NewTaskQueue(0)
	probe := &mockProbe{}
	probe.online.Store(true)
	fetcher := &mockFetcher{}
	history := &mockHistory{}

	require.NoError(t, q.Enqueue(domain.NewRequest("https://example.com/secret", true, nil)))
	require.NoError(t, q.Enqueue(domain.NewRequest("https://example.com/public", false, nil)))

	w := newTestWorker(q, fetcher, probe, history)
	require.NoError(t, w.Start())
	defer w.Stop()

	assert.Eventually(t, func() bool {
		return q.DrainCompleted(false) == 2
	}, 2*time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"https://example.com/public"}, history.urls())
}
