package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/yourusername/mediaq/internal/domain"
	"github.com/yourusername/mediaq/internal/infrastructure"
)

// Worker is the single background download worker. It pulls requests off
// the task queue one at a time, hands them to the fetcher, and classifies
// failures: a download failure with no network connection is retried
// indefinitely on the same item, a download failure with the network up is
// a permanent failure (bad URL or options) and the item is discarded, and
// any other fetch error stops the worker loudly since it indicates a bug in
// option construction.
//
// There is deliberately no concurrency beyond the one worker goroutine;
// downloads run strictly in enqueue order.
type Worker struct {
	queue    *TaskQueue
	fetcher  domain.Fetcher
	probe    domain.ConnectivityChecker
	history  domain.HistoryRepository
	notifier *infrastructure.NotificationService
	config   *domain.WorkerConfig
	logger   *zap.Logger

	mu       sync.Mutex
	running  bool
	runErr   error
	stopOnce sync.Once
	stopChan chan struct{}
	wg       sync.WaitGroup
}

// NewWorker creates a download worker. history and notifier may be nil.
func NewWorker(
	queue *TaskQueue,
	fetcher domain.Fetcher,
	probe domain.ConnectivityChecker,
	history domain.HistoryRepository,
	notifier *infrastructure.NotificationService,
	config *domain.WorkerConfig,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		queue:    queue,
		fetcher:  fetcher,
		probe:    probe,
		history:  history,
		notifier: notifier,
		config:   config,
		logger:   logger,
		stopChan: make(chan struct{}),
	}
}

// Start launches the worker goroutine. A worker is started once per
// application run.
func (w *Worker) Start() error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return fmt.Errorf("worker already running")
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info("Download worker started")

	w.wg.Add(1)
	go w.run()

	return nil
}

// RequestStop asks the worker to halt at its next safe point. It is
// idempotent and returns immediately; an in-flight download, including its
// retry loop, is allowed to finish or permanently fail first. Items still
// queued when the worker halts are left untouched.
func (w *Worker) RequestStop() {
	w.stopOnce.Do(func() {
		w.logger.Info("Worker stop requested")
		close(w.stopChan)
	})
}

// Stop requests a stop and waits for the worker goroutine to exit.
func (w *Worker) Stop() {
	w.RequestStop()
	w.wg.Wait()
}

// IsRunning returns whether the worker goroutine is alive.
func (w *Worker) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// Err returns the error that terminated the worker loop, if any.
func (w *Worker) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runErr
}

// run is the worker state machine. The stop signal is observed only here,
// between items, never inside the per-item retry loop.
func (w *Worker) run() {
	defer w.wg.Done()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	}()

	for {
		select {
		case <-w.stopChan:
			w.logger.Info("Download worker stopped")
			return
		default:
		}

		req, err := w.queue.Dequeue()
		if errors.Is(err, domain.ErrQueueEmpty) {
			select {
			case <-time.After(w.config.PollInterval):
			case <-w.stopChan:
				w.logger.Info("Download worker stopped")
				return
			}
			continue
		}

		if err := w.process(req); err != nil {
			// Unclassified fetch error: a bug in option construction, not
			// a download problem. Stop loudly instead of retrying forever.
			w.mu.Lock()
			w.runErr = err
			w.mu.Unlock()
			w.logger.Error("Worker terminated by unclassified fetch error",
				zap.String("id", req.ID),
				zap.String("url", req.URL),
				zap.Error(err))
			return
		}

		w.queue.MarkDone()
	}
}

// process resolves a single request. It returns nil when the item is
// finished (downloaded or permanently failed) and an error only for
// unclassified fetch errors.
func (w *Worker) process(req domain.Request) error {
	w.logger.Info("Processing download",
		zap.String("id", req.ID),
		zap.String("url", req.URL))

	for attempt := 1; ; attempt++ {
		err := w.fetcher.Fetch(req.URL, req.Options)
		if err == nil {
			w.logger.Info("Download completed",
				zap.String("id", req.ID),
				zap.String("url", req.URL),
				zap.Int("attempts", attempt))
			w.recordHistory(req)
			if w.notifier != nil {
				w.notifier.NotifyDownloadCompleted(req.URL)
			}
			return nil
		}

		if !domain.IsDownloadFailure(err) {
			return fmt.Errorf("fetch %s: %w", req.URL, err)
		}

		if w.probe.Online() {
			// The network is reachable but the fetch keeps failing: the
			// URL or options are invalid. The item still counts as done.
			w.logger.Warn("Download failed permanently",
				zap.String("id", req.ID),
				zap.String("url", req.URL),
				zap.Int("attempts", attempt),
				zap.Error(err))
			if w.notifier != nil {
				w.notifier.NotifyDownloadFailed(req.URL)
			}
			return nil
		}

		w.logger.Debug("No connection, retrying download",
			zap.String("id", req.ID),
			zap.String("url", req.URL),
			zap.Int("attempt", attempt))

		// A pending stop never interrupts an item mid-retry; the stop
		// signal is honored only between items.
		time.Sleep(w.config.RetryBackoff)
	}
}

func (w *Worker) recordHistory(req domain.Request) {
	if req.Private || w.history == nil {
		return
	}
	if err := w.history.Record(domain.NewHistoryEntry(req.URL)); err != nil {
		w.logger.Warn("Failed to record download history",
			zap.String("url", req.URL),
			zap.Error(err))
	}
}
