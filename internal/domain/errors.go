package domain

import "errors"

var (
	// ErrQueueFull is returned by Enqueue when a finite queue capacity is
	// configured and exceeded. The default queue is unbounded.
	ErrQueueFull = errors.New("task queue is full")

	// ErrQueueEmpty is returned by a non-blocking Dequeue on an empty queue.
	// It is a poll signal for the worker and is never surfaced externally.
	ErrQueueEmpty = errors.New("task queue is empty")

	// ErrDownloadFailed is the fetcher contract: every download failure,
	// network or otherwise, wraps this sentinel. The worker disambiguates
	// transient from permanent failures with the connectivity probe. A fetch
	// error that does not wrap it indicates a programming error and stops
	// the worker.
	ErrDownloadFailed = errors.New("download failed")
)

// IsDownloadFailure reports whether err is a recognized fetcher failure.
func IsDownloadFailure(err error) bool {
	return errors.Is(err, ErrDownloadFailed)
}
