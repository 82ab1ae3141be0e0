package app

import (
	"context"
	"sync"

	"github.com/yourusername/mediaq/internal/domain"
)

// TaskQueue is a FIFO queue of download requests shared between the
// producer (HTTP handler), the single download worker and the progress
// poller. It also owns the completed counter: the worker calls MarkDone
// exactly once per resolved item, and the poller drains the counter to know
// how many entries it may retire from its own display list. The queue and
// that display list are separate structures on purpose.
type TaskQueue struct {
	mu       sync.Mutex
	items    []domain.Request
	capacity int // 0 = unbounded
	done     int
	ready    chan struct{}
}

// NewTaskQueue creates a task queue. capacity 0 means unbounded, which is
// the default configuration; Enqueue then never fails.
func NewTaskQueue(capacity int) *TaskQueue {
	return &TaskQueue{
		capacity: capacity,
		ready:    make(chan struct{}, 1),
	}
}

// Enqueue appends a request to the tail without blocking. It returns
// domain.ErrQueueFull only when a finite capacity is configured and reached.
func (q *TaskQueue) Enqueue(req domain.Request) error {
	q.mu.Lock()
	if q.capacity > 0 && len(q.items) >= q.capacity {
		q.mu.Unlock()
		return domain.ErrQueueFull
	}
	q.items = append(q.items, req)
	q.mu.Unlock()

	// Nudge a blocked DequeueWait. Non-blocking: one pending nudge is
	// enough for the single consumer.
	select {
	case q.ready <- struct{}{}:
	default:
	}
	return nil
}

// Dequeue removes and returns the head request without blocking. It returns
// domain.ErrQueueEmpty when the queue is empty; the worker polls and backs
// off on that signal.
func (q *TaskQueue) Dequeue() (domain.Request, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return domain.Request{}, domain.ErrQueueEmpty
	}
	req := q.items[0]
	q.items = q.items[1:]
	return req, nil
}

// DequeueWait removes and returns the head request, blocking until an item
// is available or ctx is done. Only a single consumer may wait at a time;
// that is the designed worker model.
func (q *TaskQueue) DequeueWait(ctx context.Context) (domain.Request, error) {
	for {
		req, err := q.Dequeue()
		if err == nil {
			return req, nil
		}
		select {
		case <-q.ready:
		case <-ctx.Done():
			return domain.Request{}, ctx.Err()
		}
	}
}

// MarkDone increments the completed counter. The worker calls it exactly
// once per dequeued item after the item is finally resolved, whether the
// download succeeded or was abandoned as a permanent failure.
func (q *TaskQueue) MarkDone() {
	q.mu.Lock()
	q.done++
	q.mu.Unlock()
}

// DrainCompleted returns the completed counter. With reset it zeroes the
// counter in the same critical section, so an increment racing with the
// drain is never lost or double-counted.
func (q *TaskQueue) DrainCompleted(reset bool) int {
	q.mu.Lock()
	defer q.mu.Unlock()

	done := q.done
	if reset {
		q.done = 0
	}
	return done
}

// Len returns the number of pending requests.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
